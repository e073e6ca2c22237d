package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily analytics digest.
type Scheduler struct {
	cron       *cron.Cron
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetReportFunction sets the function invoked on every digest tick.
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the cron entry. spec uses standard cron syntax, evaluated
// in UTC.
func (s *Scheduler) Start(spec string) error {
	if s.reportFunc == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
		return nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		log.Println("🕘 Triggered daily digest generation")
		if err := s.reportFunc(s.ctx); err != nil {
			log.Printf("❌ Daily digest generation failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - daily digest at cron %q (UTC)", spec)
	return nil
}

// Stop waits for a running job to finish, then cancels the context.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning reports whether a digest entry is registered.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
