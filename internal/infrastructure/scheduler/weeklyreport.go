package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/goroutine"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// WeeklyReportSender emails the weekly report to the admins.
type WeeklyReportSender interface {
	SendWeeklyReport(ctx context.Context) error
}

// WeeklyReportScheduler sends the weekly report once a week at a fixed hour
// in the business timezone.
type WeeklyReportScheduler struct {
	sender   WeeklyReportSender
	logger   logger.Interface
	weekday  time.Weekday
	hour     int
	now      func() time.Time
	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewWeeklyReportScheduler(sender WeeklyReportSender, weekday time.Weekday, hour int, log logger.Interface) *WeeklyReportScheduler {
	return &WeeklyReportScheduler{
		sender:   sender,
		logger:   log,
		weekday:  weekday,
		hour:     hour,
		now:      biztime.NowUTC,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the schedule loop until ctx is cancelled or Stop is called.
func (s *WeeklyReportScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting weekly report scheduler",
		"weekday", s.weekday,
		"hour", s.hour,
		"timezone", biztime.Location().String(),
	)

	goroutine.SafeGo(s.logger, "weekly-report-scheduler", func() {
		defer close(s.done)
		s.run(ctx)
	})
}

// Stop ends the loop and waits for a running send to finish.
func (s *WeeklyReportScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	<-s.done
}

func (s *WeeklyReportScheduler) run(ctx context.Context) {
	for {
		nextRun := s.nextRun(s.now())
		waitDuration := time.Until(nextRun)

		s.logger.Debugw("weekly report scheduled",
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		timer := time.NewTimer(waitDuration)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Infow("weekly report scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			timer.Stop()
			s.logger.Infow("weekly report scheduler stopped")
			return
		case <-timer.C:
			s.send(ctx)
		}
	}
}

func (s *WeeklyReportScheduler) send(ctx context.Context) {
	s.logger.Infow("sending scheduled weekly report")

	if err := s.sender.SendWeeklyReport(ctx); err != nil {
		s.logger.Errorw("failed to send weekly report", "error", err)
		return
	}

	s.logger.Infow("scheduled weekly report sent")
}

// nextRun returns the first configured weekday and hour strictly after now.
func (s *WeeklyReportScheduler) nextRun(now time.Time) time.Time {
	local := now.In(biztime.Location())
	daysUntil := (int(s.weekday) - int(local.Weekday()) + 7) % 7
	target := time.Date(local.Year(), local.Month(), local.Day()+daysUntil, s.hour, 0, 0, 0, local.Location())

	if !target.After(local) {
		target = time.Date(local.Year(), local.Month(), local.Day()+daysUntil+7, s.hour, 0, 0, 0, local.Location())
	}

	return target
}
