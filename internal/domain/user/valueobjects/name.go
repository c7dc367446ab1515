package valueobjects

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var nameCaser = cases.Title(language.Croatian)

// Name is a display name. Surrounding and repeated whitespace is collapsed
// and each word is title-cased.
type Name struct {
	value string
}

func NewName(value string) (*Name, error) {
	normalized := strings.Join(strings.Fields(value), " ")

	if normalized == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}
	if n := utf8.RuneCountInString(normalized); n < 2 || n > 100 {
		return nil, fmt.Errorf("name must be between 2 and 100 characters")
	}
	for _, r := range normalized {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '\'' && r != '.' {
			return nil, fmt.Errorf("name contains invalid characters: %s", value)
		}
	}

	return &Name{value: nameCaser.String(normalized)}, nil
}

func (n *Name) String() string {
	return n.value
}
