// Package engine wires the mechanics components together from a Config.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/cache"
	"github.com/rsandor/Solace-sub001/config"
	"github.com/rsandor/Solace-sub001/game/ability"
	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/cooldown"
	"github.com/rsandor/Solace-sub001/game/passive"
	"github.com/rsandor/Solace-sub001/game/recovery"
	"github.com/rsandor/Solace-sub001/game/script"
	"github.com/rsandor/Solace-sub001/game/stats"
	"github.com/rsandor/Solace-sub001/scheduler"
)

// ErrUnknownActor is returned for an id that is not in the world.
var ErrUnknownActor = errors.New("engine: unknown actor")

// Engine owns every long-lived component.
type Engine struct {
	Config    *config.Config
	Logger    *zap.Logger
	Clock     *scheduler.Scheduler
	Store     cache.Store
	Actors    *actor.Registry
	Cooldowns *cooldown.Tracker
	Recovery  *recovery.Manager
	Passives  *passive.Registry
	Scripts   *script.Loader
	Abilities *ability.Service
}

// New builds an Engine and loads the passive catalogs and scripts. The clock
// is not started.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	store, err := cache.NewStore(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		RedisPrefix:     cfg.Cache.RedisPrefix,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("cooldown store: %w", err)
	}
	logger.Info("cooldown store ready", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	e := &Engine{
		Config: cfg,
		Logger: logger,
		Clock:  scheduler.New(logger, cfg.Clock.Tick),
		Store:  store,
		Actors: actor.NewRegistry(logger),
	}
	e.Cooldowns = cooldown.NewTracker(store, cfg.GlobalCooldown(), logger)
	e.Abilities = ability.NewService(e.Cooldowns, e.Clock.TickDuration(), logger)

	e.Recovery, err = recovery.NewManager(e.Actors, e.Clock, cfg.Recovery, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("recovery: %w", err)
	}

	e.Passives = passive.NewRegistry(logger)
	e.Scripts = script.NewLoader(e.Passives, cfg.Script.Timeout, logger)
	if err := e.loadPassives(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return e, nil
}

// loadPassives registers the racial passives, then the configured catalog,
// then the scripts. Earlier sources win on duplicate names.
func (e *Engine) loadPassives(ctx context.Context) error {
	if _, err := e.Passives.LoadRacial(); err != nil {
		return fmt.Errorf("racial passives: %w", err)
	}
	if path := e.Config.Passives.Catalog; path != "" {
		if _, err := e.Passives.LoadFile(path); err != nil {
			return err
		}
	}
	if dir := e.Config.Script.Dir; dir != "" {
		if _, err := e.Scripts.LoadDir(ctx, dir); err != nil {
			return fmt.Errorf("passive scripts: %w", err)
		}
	}
	e.Logger.Info("passives loaded", zap.Strings("passives", e.Passives.Names()))
	return nil
}

// Start begins ticking the clock and scheduling recovery.
func (e *Engine) Start() {
	e.Recovery.Start()
	e.Clock.Start()
}

// Stop halts the clock and releases the cooldown store.
func (e *Engine) Stop() error {
	e.Recovery.Stop()
	e.Clock.Stop()
	return e.Store.Close()
}

// Spawn adds a to the world with the named passives. Nothing is added and
// a is left untouched if a passive is unknown, listed twice or cannot be
// granted.
func (e *Engine) Spawn(a actor.Actor, passives ...string) error {
	seen := make(map[string]bool, len(passives))
	for _, name := range passives {
		if !e.Passives.Has(name) {
			return fmt.Errorf("spawn %s: %w: %q", a.Name(), passive.ErrNotFound, name)
		}
		if seen[name] {
			return fmt.Errorf("spawn %s: %w: passive %q listed twice", a.Name(), stats.ErrInvalidArgument, name)
		}
		seen[name] = true
	}
	for i, name := range passives {
		if err := e.Passives.Grant(a, name); err != nil {
			for _, granted := range passives[:i] {
				if rerr := e.Passives.Revoke(a, granted); rerr != nil {
					e.Logger.Warn("passive not revoked",
						zap.String("actor", a.Name()),
						zap.String("passive", granted),
						zap.Error(rerr))
				}
			}
			return fmt.Errorf("spawn %s: %w", a.Name(), err)
		}
	}
	e.Actors.Add(a)
	return nil
}

// Despawn removes the actor from the world and forgets its global cooldown.
func (e *Engine) Despawn(id uuid.UUID) {
	e.Actors.Remove(id)
	e.Cooldowns.Forget(id)
}

// Use performs d for the actor with the given id.
func (e *Engine) Use(ctx context.Context, id uuid.UUID, d ability.Definition) (ability.Outcome, error) {
	a := e.Actors.Get(id)
	if a == nil {
		return ability.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownActor, id)
	}
	return e.Abilities.Use(ctx, a, d)
}
