// Package scheduler runs periodic work for the display loops.
package scheduler

import (
	"context"
	"time"

	"github.com/abrezinsky/bracketview/internal/logger"
)

// Task is one unit of periodic work. It must return when ctx is cancelled.
type Task func(ctx context.Context)

// FixedDelay runs a task, waits for it to finish, sleeps for the delay and
// repeats. A slow run pushes the next one back instead of overlapping it.
type FixedDelay struct {
	name    string
	delay   time.Duration
	task    Task
	log     logger.Logger
	trigger chan struct{}
}

// NewFixedDelay creates a fixed-delay runner. The first run happens as soon as Run is called.
func NewFixedDelay(log logger.Logger, name string, delay time.Duration, task Task) *FixedDelay {
	return &FixedDelay{
		name:    name,
		delay:   delay,
		task:    task,
		log:     log.With("loop", name),
		trigger: make(chan struct{}, 1),
	}
}

// Name returns the loop name
func (s *FixedDelay) Name() string {
	return s.name
}

// Trigger asks for an early run. Requests made while a run is in progress or
// already pending collapse into one; the run still happens on the loop goroutine.
func (s *FixedDelay) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is cancelled
func (s *FixedDelay) Run(ctx context.Context) error {
	s.log.Debug("Loop started", "delay", s.delay)
	for {
		s.runOnce(ctx)

		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Debug("Loop stopped")
			return nil
		case <-timer.C:
		case <-s.trigger:
			timer.Stop()
			s.log.Debug("Loop triggered")
		}
	}
}

func (s *FixedDelay) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	s.task(ctx)
	s.log.Debug("Loop run finished", "elapsed", time.Since(start))
}

// Every calls fn on a fixed interval, independent of any other loop.
// Used for presentational toggles that do no I/O.
type Every struct {
	name     string
	interval time.Duration
	fn       func()
	log      logger.Logger
}

// NewEvery creates an interval toggler. The first call happens after one interval.
func NewEvery(log logger.Logger, name string, interval time.Duration, fn func()) *Every {
	return &Every{
		name:     name,
		interval: interval,
		fn:       fn,
		log:      log.With("loop", name),
	}
}

// Run blocks until ctx is cancelled
func (e *Every) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.log.Debug("Loop stopped")
			return nil
		case <-ticker.C:
			e.fn()
		}
	}
}
