package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/constants"
)

// NumberGenerator allocates request numbers. Implementations must never hand
// out the same number twice, including under concurrent callers.
type NumberGenerator interface {
	Generate(ctx context.Context, at time.Time) (string, error)
}

// FormatRequestNumber renders SA-YYYYMMDD-NNNN for the business day of at.
func FormatRequestNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", constants.RequestNumberPrefix, biztime.DayKey(at), seq)
}
