package scheduler

import (
	"context"
	"time"

	"restaurant_backoffice/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MenuScheduler runs the two daily jobs that keep tomorrow's menu covered:
// an afternoon reminder when nothing is scheduled yet, and a late-evening
// carry-forward of today's menu.
type MenuScheduler struct {
	cronEngine           *cron.Cron
	carryForward         *app.CarryForwardService
	log                  *logrus.Logger
	cronSpecReminder     string
	cronSpecCarryForward string
}

func NewMenuScheduler(
	carryForward *app.CarryForwardService,
	log *logrus.Logger,
	cronSpecReminder string, // e.g. "0 17 * * *" (17:00 daily)
	cronSpecCarryForward string, // e.g. "0 22 * * *" (22:00 daily)
) *MenuScheduler {
	return &MenuScheduler{
		cronEngine:           cron.New(cron.WithLocation(time.Local)), // restaurant-local time
		carryForward:         carryForward,
		log:                  log,
		cronSpecReminder:     cronSpecReminder,
		cronSpecCarryForward: cronSpecCarryForward,
	}
}

func (s *MenuScheduler) Start() {
	s.log.Info("Starting menu scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReminder, func() {
		s.log.Info("Cron job triggered: tomorrow-menu reminder check")
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.carryForward.RemindIfTomorrowMissing(ctx); err != nil {
			s.log.WithError(err).Error("Reminder check failed")
		}
	})
	if err != nil {
		s.log.Fatalf("Could not add reminder cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecCarryForward, func() {
		s.log.Info("Cron job triggered: menu carry-forward")
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.carryForward.CarryForward(ctx); err != nil {
			s.log.WithError(err).Error("Carry-forward failed")
		}
	})
	if err != nil {
		s.log.Fatalf("Could not add carry-forward cron job: %v", err)
	}

	s.cronEngine.Start()
	s.log.Info("Menu scheduler started with jobs.")
}

func (s *MenuScheduler) Stop() {
	s.log.Info("Stopping menu scheduler...")
	ctx := s.cronEngine.Stop() // waits for running jobs
	<-ctx.Done()
	s.log.Info("Menu scheduler gracefully stopped.")
}
