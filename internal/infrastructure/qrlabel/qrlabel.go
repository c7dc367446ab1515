// Package qrlabel renders the QR stickers placed on machine cabinets. Scanning
// one opens the new-ticket form prefilled with the club and machine.
package qrlabel

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type Generator struct {
	publicURL string
	size      int
}

func NewGenerator(publicURL string, size int) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	return &Generator{
		publicURL: strings.TrimRight(publicURL, "/"),
		size:      size,
	}
}

// TicketFormURL is the link encoded in a machine's label.
func (g *Generator) TicketFormURL(clubID, machineID uint) string {
	q := url.Values{}
	q.Set("club", strconv.FormatUint(uint64(clubID), 10))
	q.Set("machine", strconv.FormatUint(uint64(machineID), 10))
	return g.publicURL + "/tickets/new?" + q.Encode()
}

// PNG renders the label for one machine.
func (g *Generator) PNG(clubID, machineID uint) ([]byte, error) {
	png, err := qrcode.Encode(g.TicketFormURL(clubID, machineID), qrcode.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode machine label: %w", err)
	}
	return png, nil
}
