package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
)

func TestDashboardStatsUseCase_Execute(t *testing.T) {
	counts := []ticket.StatusCount{
		{ClubID: 3, Status: vo.StatusNew, Count: 2},
		{ClubID: 3, Status: vo.StatusClosed, Count: 5},
		{ClubID: 4, Status: vo.StatusInProgress, Count: 1},
	}

	var scope ticket.ScopeKind
	tickets := &mockTicketRepository{
		CountByStatusFunc: func(ctx context.Context, filter ticket.TicketFilter) ([]ticket.StatusCount, error) {
			scope = filter.Scope.Kind()
			return counts, nil
		},
	}
	clubs := &mockClubRepository{
		GetClubsByIDsFunc: func(ctx context.Context, ids []uint) ([]*club.Club, error) {
			return []*club.Club{{ID: 3, Name: "Centar"}, {ID: 4, Name: "Jug"}}, nil
		},
	}
	uc := NewDashboardStatsUseCase(tickets, clubs, newPolicy(t), nopLogger{})

	t.Run("admin gets club breakdown", func(t *testing.T) {
		stats, err := uc.Execute(context.Background(), DashboardStatsQuery{Identity: asAdmin})
		require.NoError(t, err)

		assert.Equal(t, ticket.ScopeAll, scope)
		assert.Equal(t, int64(8), stats.Total)
		assert.Equal(t, int64(2), stats.ByStatus["new"])
		assert.Equal(t, int64(0), stats.ByStatus["waiting_tax"])
		require.Len(t, stats.ByClub, 2)
		assert.Equal(t, "Centar", stats.ByClub[0].ClubName)
		assert.Equal(t, int64(7), stats.ByClub[0].Total)
		assert.Equal(t, "Jug", stats.ByClub[1].ClubName)
	})

	t.Run("technician gets totals only", func(t *testing.T) {
		stats, err := uc.Execute(context.Background(), DashboardStatsQuery{Identity: asTechnician})
		require.NoError(t, err)

		assert.Equal(t, ticket.ScopeTechnician, scope)
		assert.Equal(t, int64(8), stats.Total)
		assert.Nil(t, stats.ByClub)
	})
}
