package valueobjects

import (
	"fmt"
	"strings"
)

// CanPlay records whether the machine is still playable while the fault is open.
type CanPlay string

const (
	CanPlayYes CanPlay = "yes"
	CanPlayNo  CanPlay = "no"
)

func (c CanPlay) String() string {
	return string(c)
}

func (c CanPlay) IsValid() bool {
	return c == CanPlayYes || c == CanPlayNo
}

// NewCanPlay accepts yes/no and the legacy da/ne.
func NewCanPlay(s string) (CanPlay, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "da":
		return CanPlayYes, nil
	case "no", "ne":
		return CanPlayNo, nil
	}
	return "", fmt.Errorf("can_play must be yes or no, got %q", s)
}
