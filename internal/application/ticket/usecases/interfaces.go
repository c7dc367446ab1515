package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
)

// TxManager runs fn inside one database transaction carried by ctx.
type TxManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// BlobStore persists attachment bytes and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (string, error)
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type ChangeStatusExecutor interface {
	Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailDTO, error)
}

type ListHistoryExecutor interface {
	Execute(ctx context.Context, query ListHistoryQuery) ([]*dto.HistoryEntryDTO, error)
}

type DashboardStatsExecutor interface {
	Execute(ctx context.Context, query DashboardStatsQuery) (*dto.DashboardStatsDTO, error)
}
