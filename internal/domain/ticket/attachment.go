package ticket

import "time"

// Attachment is a file stored for a ticket at creation time.
type Attachment struct {
	ID        uint
	TicketID  uint
	FileURL   string
	Filename  string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}
