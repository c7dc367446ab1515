package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/db"
	sharederrors "github.com/servis-automat/servis/internal/shared/errors"
)

var _ ticket.NumberGenerator = (*RequestNumberGenerator)(nil)

// RequestNumberGenerator allocates SA-YYYYMMDD-NNNN numbers from one counter
// row per business day. Run it inside the transaction that inserts the
// ticket: the increment locks the row until commit, so concurrent creators
// are serialized and a rolled back creation releases its number.
type RequestNumberGenerator struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewRequestNumberGenerator(db *gorm.DB, timeout time.Duration) *RequestNumberGenerator {
	return &RequestNumberGenerator{db: db, timeout: timeout}
}

func (g *RequestNumberGenerator) Generate(ctx context.Context, at time.Time) (string, error) {
	day := biztime.DayKey(at)

	conn, cancel := db.Conn(ctx, g.db, g.timeout)
	defer cancel()

	incremented, err := g.increment(conn, day)
	if err != nil {
		return "", err
	}
	if !incremented {
		err := conn.Create(&models.RequestNumberSequenceModel{Day: day, LastValue: 1}).Error
		switch {
		case err == nil:
			return ticket.FormatRequestNumber(at, 1), nil
		case sharederrors.IsDuplicateError(err):
			// Another creator inserted the row first.
			if incremented, err = g.increment(conn, day); err != nil {
				return "", err
			}
			if !incremented {
				return "", fmt.Errorf("request number sequence for %s vanished", day)
			}
		default:
			return "", fmt.Errorf("failed to start request number sequence: %w", err)
		}
	}

	var seq models.RequestNumberSequenceModel
	if err := conn.Where("day = ?", day).First(&seq).Error; err != nil {
		return "", fmt.Errorf("failed to read request number sequence: %w", err)
	}

	return ticket.FormatRequestNumber(at, seq.LastValue), nil
}

func (g *RequestNumberGenerator) increment(conn *gorm.DB, day string) (bool, error) {
	result := conn.Model(&models.RequestNumberSequenceModel{}).
		Where("day = ?", day).
		Updates(map[string]interface{}{
			"last_value": gorm.Expr("last_value + 1"),
			"updated_at": time.Now().UnixMilli(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to increment request number sequence: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
