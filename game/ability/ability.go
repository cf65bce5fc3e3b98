// Package ability runs cooldown actions: it checks that the actor is ready,
// collects the resource costs and starts the cooldown.
package ability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/cooldown"
	"github.com/rsandor/Solace-sub001/game/cost"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// GlobalCooldown marks an action that only triggers the global cooldown.
const GlobalCooldown int64 = -1

// Definition describes a cooldown action.
type Definition struct {
	Name string
	// Cooldown is the number of clock ticks before the action can be used
	// again, or GlobalCooldown.
	Cooldown int64
	Costs    []cost.ResourceCost
}

// Validate checks the definition for obvious mistakes.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: ability without a name", stats.ErrInvalidArgument)
	}
	if d.Cooldown < GlobalCooldown {
		return fmt.Errorf("%w: ability %s has cooldown %d", stats.ErrInvalidArgument, d.Name, d.Cooldown)
	}
	return nil
}

// Outcome is the result of an attempt to use an action.
type Outcome struct {
	Used bool
	// Message explains to the player why the action was refused.
	Message string
}

// Service gates actions on play state, cooldowns and resource costs.
type Service struct {
	cooldowns *cooldown.Tracker
	tick      time.Duration
	logger    *zap.Logger
}

// NewService creates a Service. tick converts cooldown ticks to wall-clock
// time.
func NewService(cooldowns *cooldown.Tracker, tick time.Duration, logger *zap.Logger) *Service {
	return &Service{cooldowns: cooldowns, tick: tick, logger: logger}
}

func refused(format string, args ...any) Outcome {
	return Outcome{Message: fmt.Sprintf(format, args...)}
}

// Use tries to perform d for a. A refusal is reported in the Outcome; the
// error is reserved for invalid definitions and cooldown store failures.
// Either every cost is paid or none is. Cooldowns are taken before the costs
// and handed back when the costs cannot be paid.
func (s *Service) Use(ctx context.Context, a actor.Actor, d Definition) (Outcome, error) {
	if err := d.Validate(); err != nil {
		return Outcome{}, err
	}

	if st := a.PlayState(); st != actor.Standing && st != actor.Fighting {
		return refused("You must be standing and alert to use %s.", d.Name), nil
	}

	release := func() {}
	if d.Cooldown > 0 {
		claimed, err := s.cooldowns.Claim(ctx, a.ID(), d.Name, time.Duration(d.Cooldown)*s.tick)
		if err != nil {
			return Outcome{}, err
		}
		if !claimed {
			return refused("%s is not ready yet.", d.Name), nil
		}
		release = func() {
			if err := s.cooldowns.Clear(ctx, a.ID(), d.Name); err != nil {
				s.logger.Error("cooldown not released",
					zap.String("actor_id", a.ID().String()),
					zap.String("ability", d.Name),
					zap.Error(err))
			}
		}
	}

	undo := func() {}
	if d.Cooldown == GlobalCooldown {
		var ok bool
		if undo, ok = s.cooldowns.ReserveGlobal(a.ID()); !ok {
			return refused("%s is not ready yet.", d.Name), nil
		}
	}

	if failed := cost.WithdrawAll(a, d.Costs...); failed != nil {
		undo()
		release()
		return Outcome{Message: failed.InsufficientResourceMessage()}, nil
	}

	s.logger.Debug("ability used",
		zap.String("actor_id", a.ID().String()),
		zap.String("ability", d.Name),
		zap.Int64("cooldown", d.Cooldown))
	return Outcome{Used: true}, nil
}
