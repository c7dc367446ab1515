package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	apperrors "github.com/servis-automat/servis/internal/shared/errors"
)

const validComment = "Replaced the bill validator belt"

func newChangeStatusUseCase(t *testing.T, tickets *mockTicketRepository, history *mockHistoryRepository, publisher *mockPublisher) *ChangeStatusUseCase {
	uc := NewChangeStatusUseCase(tickets, history, newPolicy(t), &mockTxManager{}, publisher, newEnricher(), nopLogger{})
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestChangeStatusUseCase_Execute_Success(t *testing.T) {
	tests := []struct {
		name      string
		identity  authorization.Identity
		oldStatus vo.TicketStatus
		newStatus vo.TicketStatus
	}{
		{"admin starts work", asAdmin, vo.StatusNew, vo.StatusInProgress},
		{"assigned technician waits for parts", asTechnician, vo.StatusInProgress, vo.StatusWaitingParts},
		{"assigned technician waits for tax", asTechnician, vo.StatusInProgress, vo.StatusWaitingTax},
		{"parts arrived", asTechnician, vo.StatusWaitingParts, vo.StatusInProgress},
		{"tax cleared", asAdmin, vo.StatusWaitingTax, vo.StatusInProgress},
		{"close from in progress", asTechnician, vo.StatusInProgress, vo.StatusClosed},
		{"close while waiting for parts", asAdmin, vo.StatusWaitingParts, vo.StatusClosed},
		{"close while waiting for tax", asAdmin, vo.StatusWaitingTax, vo.StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var expected vo.TicketStatus
			tickets := &mockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
					return storedTicket(t, tt.oldStatus), nil
				},
				UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket, exp vo.TicketStatus) error {
					expected = exp
					return nil
				},
			}
			history := &mockHistoryRepository{}
			publisher := &mockPublisher{}
			uc := newChangeStatusUseCase(t, tickets, history, publisher)

			result, err := uc.Execute(context.Background(), ChangeStatusCommand{
				Identity:  tt.identity,
				TicketID:  42,
				NewStatus: tt.newStatus.String(),
				Comment:   validComment,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.oldStatus, expected)
			assert.Equal(t, tt.newStatus.String(), result.Ticket.Status)
			assert.Equal(t, tt.newStatus.IsClosed(), result.Ticket.ClosedAt != nil)
			assert.Empty(t, result.PartialFailures)

			require.Len(t, history.appended, 1)
			entry := history.appended[0]
			require.NotNil(t, entry.OldStatus)
			assert.Equal(t, tt.oldStatus, *entry.OldStatus)
			assert.Equal(t, tt.newStatus, entry.NewStatus)
			assert.Equal(t, validComment, entry.Comment)
			assert.Equal(t, tt.identity.SubjectID, entry.ChangedBy)
			assert.Equal(t, fixedNow, entry.CreatedAt)

			require.Len(t, publisher.published, 1)
			assert.Equal(t, ticket.EventTypeStatusChanged, publisher.published[0].EventName())
		})
	}
}

func TestChangeStatusUseCase_Execute_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		identity  authorization.Identity
		oldStatus vo.TicketStatus
		newStatus string
		comment   string
		check     func(error) bool
	}{
		{"club user", asClub, vo.StatusNew, "in_progress", validComment, apperrors.IsForbiddenError},
		{"unassigned technician", asOtherTechnician, vo.StatusInProgress, "closed", validComment, apperrors.IsForbiddenError},
		{"unassigned technician learns nothing about an illegal edge", asOtherTechnician, vo.StatusNew, "closed", "short", apperrors.IsForbiddenError},
		{"new to closed", asAdmin, vo.StatusNew, "closed", validComment, apperrors.IsInvalidTransitionError},
		{"self transition", asAdmin, vo.StatusInProgress, "in_progress", validComment, apperrors.IsInvalidTransitionError},
		{"out of closed", asAdmin, vo.StatusClosed, "in_progress", validComment, apperrors.IsInvalidTransitionError},
		{"waiting parts to waiting tax", asAdmin, vo.StatusWaitingParts, "waiting_tax", validComment, apperrors.IsInvalidTransitionError},
		{"illegal edge is reported before the comment", asAdmin, vo.StatusNew, "closed", "", apperrors.IsInvalidTransitionError},
		{"empty comment", asAdmin, vo.StatusNew, "in_progress", "", apperrors.IsMissingCommentError},
		{"nine characters", asAdmin, vo.StatusNew, "in_progress", "123456789", apperrors.IsMissingCommentError},
		{"padding does not count", asAdmin, vo.StatusNew, "in_progress", "   short    ", apperrors.IsMissingCommentError},
		{"unknown status", asAdmin, vo.StatusNew, "resolved", validComment, apperrors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := storedTicket(t, tt.oldStatus)
			tickets := &mockTicketRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
					return stored, nil
				},
				UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket, exp vo.TicketStatus) error {
					t.Fatal("UpdateStatus must not be called")
					return nil
				},
			}
			history := &mockHistoryRepository{}
			publisher := &mockPublisher{}
			uc := newChangeStatusUseCase(t, tickets, history, publisher)

			_, err := uc.Execute(context.Background(), ChangeStatusCommand{
				Identity:  tt.identity,
				TicketID:  42,
				NewStatus: tt.newStatus,
				Comment:   tt.comment,
			})
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)

			assert.Equal(t, tt.oldStatus, stored.Status())
			assert.Empty(t, history.appended)
			assert.Empty(t, publisher.published)
		})
	}
}

func TestChangeStatusUseCase_Execute_CommentCountsCharacters(t *testing.T) {
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, vo.StatusNew), nil
		},
	}
	uc := newChangeStatusUseCase(t, tickets, &mockHistoryRepository{}, &mockPublisher{})

	// ten characters, twenty bytes
	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  42,
		NewStatus: "in_progress",
		Comment:   "čćžšđčćžšđ",
	})
	require.NoError(t, err)
}

func TestChangeStatusUseCase_Execute_NotFound(t *testing.T) {
	uc := newChangeStatusUseCase(t, &mockTicketRepository{}, &mockHistoryRepository{}, &mockPublisher{})

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  404,
		NewStatus: "in_progress",
		Comment:   validComment,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

// The loser of a close race re-reads the closed ticket and reports the now
// illegal transition without writing history.
func TestChangeStatusUseCase_Execute_LostRaceThenInvalidTransition(t *testing.T) {
	reads := 0
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			reads++
			if reads == 1 {
				return storedTicket(t, vo.StatusInProgress), nil
			}
			return storedTicket(t, vo.StatusClosed), nil
		},
		UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket, exp vo.TicketStatus) error {
			return ticket.ErrConcurrentModification
		},
	}
	history := &mockHistoryRepository{}
	publisher := &mockPublisher{}
	uc := newChangeStatusUseCase(t, tickets, history, publisher)

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asTechnician,
		TicketID:  42,
		NewStatus: "closed",
		Comment:   validComment,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidTransitionError(err))
	assert.Equal(t, 2, reads)
	assert.Empty(t, history.appended)
	assert.Empty(t, publisher.published)
}

func TestChangeStatusUseCase_Execute_RetrySucceeds(t *testing.T) {
	writes := 0
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, vo.StatusWaitingParts), nil
		},
		UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket, exp vo.TicketStatus) error {
			writes++
			if writes == 1 {
				return ticket.ErrConcurrentModification
			}
			return nil
		},
	}
	history := &mockHistoryRepository{}
	uc := newChangeStatusUseCase(t, tickets, history, &mockPublisher{})

	result, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  42,
		NewStatus: "in_progress",
		Comment:   validComment,
	})
	require.NoError(t, err)
	assert.Equal(t, "in_progress", result.Ticket.Status)
	assert.Equal(t, 2, writes)
	assert.Len(t, history.appended, 1)
}

func TestChangeStatusUseCase_Execute_SecondConflictSurfaces(t *testing.T) {
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, vo.StatusInProgress), nil
		},
		UpdateStatusFunc: func(ctx context.Context, tk *ticket.Ticket, exp vo.TicketStatus) error {
			return ticket.ErrConcurrentModification
		},
	}
	history := &mockHistoryRepository{}
	uc := newChangeStatusUseCase(t, tickets, history, &mockPublisher{})

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  42,
		NewStatus: "waiting_tax",
		Comment:   validComment,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Empty(t, history.appended)
}

func TestChangeStatusUseCase_Execute_HistoryFailureFails(t *testing.T) {
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, vo.StatusNew), nil
		},
	}
	history := &mockHistoryRepository{
		AppendFunc: func(ctx context.Context, entry *ticket.StatusHistoryEntry) error {
			return errors.New("constraint failed")
		},
	}
	publisher := &mockPublisher{}
	uc := newChangeStatusUseCase(t, tickets, history, publisher)

	_, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  42,
		NewStatus: "in_progress",
		Comment:   validComment,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
	assert.Empty(t, publisher.published)
}

func TestChangeStatusUseCase_Execute_PublishFailureIsPartial(t *testing.T) {
	tickets := &mockTicketRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*ticket.Ticket, error) {
			return storedTicket(t, vo.StatusNew), nil
		},
	}
	publisher := &mockPublisher{
		PublishFunc: func(event events.DomainEvent) error {
			return errors.New("dispatcher is not running")
		},
	}
	uc := newChangeStatusUseCase(t, tickets, &mockHistoryRepository{}, publisher)

	result, err := uc.Execute(context.Background(), ChangeStatusCommand{
		Identity:  asAdmin,
		TicketID:  42,
		NewStatus: "in_progress",
		Comment:   validComment,
	})
	require.NoError(t, err)
	require.Len(t, result.PartialFailures, 1)
	assert.Equal(t, dto.PartialFailure{
		Kind:   dto.FailureKindNotification,
		Target: ticket.EventTypeStatusChanged,
		Reason: "dispatcher is not running",
	}, result.PartialFailures[0])
}
