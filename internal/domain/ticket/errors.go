package ticket

import (
	"errors"
	"strings"
)

// MinTransitionCommentLength is the minimum trimmed comment length, in
// characters, required for every status change.
const MinTransitionCommentLength = 10

// MaxCommentLength bounds free-text comments appended to a ticket.
const MaxCommentLength = 2000

var (
	ErrInvalidStatus     = errors.New("invalid ticket status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrMissingComment    = errors.New("status change requires a comment of at least 10 characters")
	ErrTicketClosed      = errors.New("ticket is closed")
	ErrEmptyComment      = errors.New("comment cannot be empty")
	ErrCommentTooLong    = errors.New("comment exceeds maximum length")
)

// FieldError names one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// InvalidFieldsError lists every offending field of a rejected input.
type InvalidFieldsError struct {
	Fields []FieldError
}

func (e *InvalidFieldsError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid ticket fields: " + strings.Join(parts, "; ")
}

// FieldNames returns the offending field names in input order.
func (e *InvalidFieldsError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

func (e *InvalidFieldsError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}
