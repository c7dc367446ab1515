package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/shared/errors"
)

// translateTicketError maps domain sentinels onto the application error
// taxonomy. Unknown errors are returned unchanged.
func translateTicketError(err error) error {
	var fieldsErr *ticket.InvalidFieldsError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &fieldsErr):
		return errors.NewValidationError(
			"invalid fields: "+strings.Join(fieldsErr.FieldNames(), ", "),
			fieldsErr.Error(),
		)
	case stderrors.Is(err, ticket.ErrInvalidTransition):
		return errors.NewInvalidTransitionError(err.Error())
	case stderrors.Is(err, ticket.ErrTicketClosed):
		return errors.NewInvalidTransitionError("ticket is closed")
	case stderrors.Is(err, ticket.ErrMissingComment):
		return errors.NewMissingCommentError(err.Error())
	case stderrors.Is(err, ticket.ErrInvalidStatus),
		stderrors.Is(err, ticket.ErrEmptyComment),
		stderrors.Is(err, ticket.ErrCommentTooLong):
		return errors.NewValidationError(err.Error())
	}
	return err
}

// loadTicket returns NotFound for a missing ticket and translates store failures.
func loadTicket(ctx context.Context, repo ticket.TicketRepository, id uint) (*ticket.Ticket, error) {
	if id == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to load ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", id))
	}
	return t, nil
}
