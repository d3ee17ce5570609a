// Package trigger runs the recurring-task processor on a cron schedule and
// watches the config file so the schedule can change without a restart.
package trigger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hotelops/reklamacije/internal/domain"
)

// SecondOptional allows both 5-field and 6-field (with seconds) specs.
var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSpec reports whether spec is a usable cron expression.
func ValidateSpec(spec string) error {
	if _, err := parser.Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

// RunFunc is one processor run.
type RunFunc func(ctx context.Context) error

// Scheduler invokes a RunFunc on a cron schedule. A run that is still going
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	run    RunFunc
	logger domain.Logger
	loc    *time.Location

	mu    sync.Mutex
	c     *cron.Cron
	ctx   context.Context
	entry cron.EntryID
	spec  string
}

// NewScheduler creates a scheduler. loc nil means time.Local.
func NewScheduler(run RunFunc, logger domain.Logger, loc *time.Location) *Scheduler {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{run: run, logger: logger, loc: loc}
}

// Start begins triggering on spec. Runs receive ctx.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	s.ctx = ctx
	s.c = cron.New(
		cron.WithParser(parser),
		cron.WithLocation(s.loc),
		cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if err := s.addLocked(spec); err != nil {
		s.c = nil
		return err
	}
	s.c.Start()
	s.logger.Info("", "scheduler", fmt.Sprintf("started with %q in %s", s.spec, s.loc))
	return nil
}

// Reschedule swaps the schedule. An invalid spec leaves the current one in place.
func (s *Scheduler) Reschedule(spec string) error {
	spec = strings.TrimSpace(spec)
	if err := ValidateSpec(spec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil || spec == s.spec {
		return nil
	}
	old := s.entry
	if err := s.addLocked(spec); err != nil {
		return err
	}
	s.c.Remove(old)
	s.logger.Info("", "scheduler", fmt.Sprintf("rescheduled to %q", spec))
	return nil
}

// Spec returns the active cron expression.
func (s *Scheduler) Spec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Next returns the next scheduled run, or the zero time when stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c == nil {
		return time.Time{}
	}
	return s.c.Entry(s.entry).Next
}

func (s *Scheduler) addLocked(spec string) error {
	spec = strings.TrimSpace(spec)
	id, err := s.c.AddFunc(spec, s.tick)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.entry = id
	s.spec = spec
	return nil
}

func (s *Scheduler) tick() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := s.run(ctx); err != nil {
		s.logger.Error("", "scheduler", "run failed: "+err.Error())
		return
	}
	s.logger.Debug("", "scheduler", fmt.Sprintf("run took %s", time.Since(start).Round(time.Millisecond)))
}

// Stop stops triggering and waits for a running job until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	s.logger.Info("", "scheduler", "stopped")
}
