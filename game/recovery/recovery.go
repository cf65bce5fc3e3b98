// Package recovery restores the resource pools of resting player characters
// on a fixed cadence of game clock ticks.
package recovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rsandor/Solace-sub001/config"
	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/stats"
	"github.com/rsandor/Solace-sub001/scheduler"
)

// Rates decides what fraction of each pool comes back per cycle.
type Rates struct {
	// ByState is the base fraction per play state. States without an entry
	// (fighting, dead) do not recover.
	ByState map[actor.PlayState]float64
	// VitalityBonus is added once for every full VitalityStep points of
	// vitality.
	VitalityBonus float64
	VitalityStep  int
}

// DefaultRates are the rates used when no configuration overrides them.
func DefaultRates() Rates {
	return Rates{
		ByState: map[actor.PlayState]float64{
			actor.Standing: 0.05,
			actor.Sitting:  0.08,
			actor.Resting:  0.15,
			actor.Sleeping: 0.25,
		},
		VitalityBonus: 0.25,
		VitalityStep:  500,
	}
}

// RatesFromConfig converts the configured rates, keyed by play state name.
func RatesFromConfig(cfg config.RecoveryConfig) (Rates, error) {
	r := DefaultRates()
	for name, v := range cfg.Rates {
		s, err := actor.ParsePlayState(name)
		if err != nil {
			return Rates{}, err
		}
		if s == actor.Fighting || s == actor.Dead {
			return Rates{}, fmt.Errorf("%w: %s actors never recover", stats.ErrInvalidArgument, s)
		}
		r.ByState[s] = v
	}
	r.VitalityBonus = cfg.VitalityBonus
	if cfg.VitalityStep > 0 {
		r.VitalityStep = cfg.VitalityStep
	}
	return r, nil
}

// Rate returns the recovery fraction for a, and false when a does not
// recover at all.
func (r Rates) Rate(a actor.Actor) (float64, bool) {
	base, ok := r.ByState[a.PlayState()]
	if !ok {
		return 0, false
	}
	if r.VitalityStep > 0 {
		base += r.VitalityBonus * float64(a.Ability(stats.Vitality)/r.VitalityStep)
	}
	return base, true
}

// Manager runs recovery cycles over the actors in a registry.
type Manager struct {
	registry *actor.Registry
	clock    *scheduler.Scheduler
	rates    Rates
	ticks    int64
	workers  int
	logger   *zap.Logger

	mu    sync.Mutex
	event *scheduler.Event

	cycles atomic.Int64
}

// NewManager builds a Manager from the recovery configuration.
func NewManager(reg *actor.Registry, clock *scheduler.Scheduler, cfg config.RecoveryConfig, logger *zap.Logger) (*Manager, error) {
	rates, err := RatesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	ticks := cfg.Ticks
	if ticks < 1 {
		ticks = 1
	}
	return &Manager{
		registry: reg,
		clock:    clock,
		rates:    rates,
		ticks:    ticks,
		workers:  workers,
		logger:   logger,
	}, nil
}

// Rates returns the rates the manager applies.
func (m *Manager) Rates() Rates { return m.rates }

// Cycles returns how many cycles have completed.
func (m *Manager) Cycles() int64 { return m.cycles.Load() }

// Recover restores one actor's pools. Each pool gains at least 1 and never
// exceeds its maximum; the amount passes through the actor's recovery
// modifiers first. It reports whether the actor was eligible.
func (m *Manager) Recover(a actor.Actor) bool {
	if a.IsMobile() {
		return false
	}
	rate, ok := m.rates.Rate(a)
	if !ok {
		return false
	}
	chain := a.Effects()
	a.Exclusive(func(p *actor.Pools) {
		for _, r := range actor.Resources {
			most := p.Max(r)
			amount := int(chain.Evaluate(r.RecoveryChannel(), a, float64(most)*rate))
			if amount < 1 {
				amount = 1
			}
			p.Set(r, p.Current(r)+amount)
		}
	})
	return true
}

// Cycle recovers every registered actor, several at a time. It stops early
// when ctx is cancelled and returns the number of actors recovered.
func (m *Manager) Cycle(ctx context.Context) (int, error) {
	actors := m.registry.Snapshot()
	var recovered atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, a := range actors {
		a := a
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if m.Recover(a) {
				recovered.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	n := int(recovered.Load())
	m.cycles.Add(1)
	m.logger.Debug("recovery cycle",
		zap.Int("actors", len(actors)),
		zap.Int("recovered", n),
		zap.Error(err))
	return n, err
}

// Start schedules a cycle every configured number of clock ticks. Calling
// Start twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.event != nil {
		return
	}
	m.logger.Info("starting recovery manager", zap.Int64("ticks", m.ticks))
	m.event = m.clock.Every("recovery-cycle", m.ticks, func() {
		if _, err := m.Cycle(context.Background()); err != nil {
			m.logger.Warn("recovery cycle interrupted", zap.Error(err))
		}
	})
}

// Stop cancels the scheduled cycle.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.event == nil {
		return
	}
	m.logger.Info("stopping recovery manager")
	m.clock.Remove(m.event.ID)
	m.event = nil
}
