// Package scheduler is the game clock. Time advances in ticks; events fire
// once after a number of ticks (After) or repeatedly every n ticks (Every).
package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskFn is the function signature for scheduled tasks.
type TaskFn func()

// Event is a scheduled task.
type Event struct {
	ID    uuid.UUID
	Label string

	interval  bool
	period    int64
	remaining int64
	fn        TaskFn
	cancelled atomic.Bool
}

// Cancel stops the event from firing again. It is safe to call from inside
// the event's own task.
func (e *Event) Cancel() { e.cancelled.Store(true) }

// Scheduler drives events from a fixed-rate ticker.
type Scheduler struct {
	mu     sync.Mutex
	events []*Event
	tick   time.Duration
	ticks  atomic.Int64
	logger *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
}

// New creates a stopped Scheduler whose ticks last tick.
func New(logger *zap.Logger, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Second
	}
	return &Scheduler{
		tick:   tick,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// TickDuration returns the wall-clock length of one tick.
func (s *Scheduler) TickDuration() time.Duration { return s.tick }

// Now returns the number of ticks processed so far.
func (s *Scheduler) Now() int64 { return s.ticks.Load() }

// After runs fn once, ticks ticks from now. ticks < 1 is treated as 1.
func (s *Scheduler) After(label string, ticks int64, fn TaskFn) *Event {
	return s.add(label, ticks, fn, false)
}

// Every runs fn every ticks ticks until the event is cancelled or removed.
func (s *Scheduler) Every(label string, ticks int64, fn TaskFn) *Event {
	return s.add(label, ticks, fn, true)
}

func (s *Scheduler) add(label string, ticks int64, fn TaskFn, interval bool) *Event {
	if ticks < 1 {
		ticks = 1
	}
	e := &Event{
		ID:        uuid.New(),
		Label:     label,
		interval:  interval,
		period:    ticks,
		remaining: ticks,
		fn:        fn,
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	s.logger.Debug("clock event scheduled",
		zap.String("label", label),
		zap.String("id", e.ID.String()),
		zap.Int64("ticks", ticks),
		zap.Bool("interval", interval))
	return e
}

// Remove cancels and drops the event with the given id.
func (s *Scheduler) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			e.Cancel()
			s.events = append(s.events[:i], s.events[i+1:]...)
			return true
		}
	}
	return false
}

// Tasks returns the labels of the pending events in scheduling order.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	labels := make([]string, 0, len(s.events))
	for _, e := range s.events {
		if !e.cancelled.Load() {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// Tick advances the clock by one tick and runs every event that came due,
// in scheduling order. Tasks run outside the scheduler lock, so they may
// schedule or cancel events.
func (s *Scheduler) Tick() {
	s.ticks.Add(1)

	s.mu.Lock()
	var due []*Event
	kept := s.events[:0]
	for _, e := range s.events {
		if e.cancelled.Load() {
			continue
		}
		e.remaining--
		if e.remaining <= 0 {
			due = append(due, e)
			if !e.interval {
				continue
			}
			e.remaining = e.period
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(s.events); i++ {
		s.events[i] = nil
	}
	s.events = kept
	s.mu.Unlock()

	for _, e := range due {
		if e.cancelled.Load() {
			continue
		}
		s.run(e)
	}
}

func (s *Scheduler) run(e *Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("clock event panicked",
				zap.String("label", e.Label),
				zap.String("id", e.ID.String()),
				zap.Any("recover", r))
		}
	}()
	e.fn()
}

// Start begins ticking in a background goroutine. Further calls are no-ops.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting game clock", zap.Duration("tick", s.tick))
		ticker := time.NewTicker(s.tick)
		go func() {
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					s.Tick()
				case <-s.stopCh:
					return
				}
			}
		}()
	})
}

// Stop halts the ticker. Pending events stay scheduled but never fire unless
// Tick is called directly.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping game clock")
		close(s.stopCh)
	})
}
