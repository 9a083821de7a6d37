package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/license-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DraftSaver is implemented by the intake wizard.
type DraftSaver interface {
	Dirty() bool
	Saving() bool
	SaveDraft(ctx context.Context, silent bool) error
}

// AutoSaveScheduler saves the draft on a fixed interval while it has unsaved changes
type AutoSaveScheduler struct {
	cron     *cron.Cron
	saver    DraftSaver
	interval time.Duration
	timeout  time.Duration
}

// NewAutoSaveScheduler creates the scheduler; intervals under a second are raised to one.
func NewAutoSaveScheduler(saver DraftSaver, interval time.Duration) *AutoSaveScheduler {
	if interval < time.Second {
		interval = time.Second
	}
	return &AutoSaveScheduler{
		cron:     cron.New(),
		saver:    saver,
		interval: interval,
		timeout:  30 * time.Second,
	}
}

// Start registers the @every job and starts the cron runner
func (s *AutoSaveScheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.Tick)
	if err != nil {
		logger.Error("Failed to add cron job for draft auto-save", err)
		return err
	}

	s.cron.Start()
	logger.Info("Auto-save scheduler started", map[string]interface{}{
		"interval": s.interval.String(),
	})
	return nil
}

// Tick runs one auto-save pass. Failures are logged by the saver.
func (s *AutoSaveScheduler) Tick() {
	if !s.saver.Dirty() || s.saver.Saving() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	_ = s.saver.SaveDraft(ctx, true)
}

// Stop stops the runner and waits for a running save to finish
func (s *AutoSaveScheduler) Stop() {
	logger.Info("Stopping auto-save scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Auto-save scheduler stopped")
}
