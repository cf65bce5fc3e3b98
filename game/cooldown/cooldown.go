// Package cooldown tracks per-actor ability cooldowns and the global
// cooldown that spaces out consecutive actions.
package cooldown

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rsandor/Solace-sub001/cache"
)

// Tracker stores named cooldowns in a cache.Store as ready-at timestamps
// (unix milliseconds) that expire with the cooldown. The global cooldown is
// a one-token bucket per actor refilled every GCD.
type Tracker struct {
	store  cache.Store
	gcd    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a Tracker. A non-positive gcd disables the global
// cooldown.
func NewTracker(store cache.Store, gcd time.Duration, logger *zap.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		gcd:      gcd,
		now:      time.Now,
		logger:   logger,
		limiters: make(map[uuid.UUID]*rate.Limiter),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func cdKey(id uuid.UUID, name string) string {
	return "actor:" + id.String() + ":cd:" + name
}

// Set puts the named cooldown on the actor for d.
func (t *Tracker) Set(ctx context.Context, id uuid.UUID, name string, d time.Duration) error {
	if d <= 0 {
		return t.Clear(ctx, id, name)
	}
	readyAt := t.now().Add(d).UnixMilli()
	if err := t.store.Set(ctx, cdKey(id, name), strconv.FormatInt(readyAt, 10), d); err != nil {
		return fmt.Errorf("set cooldown %s: %w", name, err)
	}
	return nil
}

// Claim starts the named cooldown for d unless it is already running, and
// reports whether it did. The check and the start are a single SetNX, so two
// concurrent claims cannot both succeed.
func (t *Tracker) Claim(ctx context.Context, id uuid.UUID, name string, d time.Duration) (bool, error) {
	if d <= 0 {
		return true, nil
	}
	for attempt := 0; attempt < 2; attempt++ {
		readyAt := t.now().Add(d).UnixMilli()
		ok, err := t.store.SetNX(ctx, cdKey(id, name), strconv.FormatInt(readyAt, 10), d)
		if err != nil {
			return false, fmt.Errorf("claim cooldown %s: %w", name, err)
		}
		if ok {
			return true, nil
		}
		// A corrupt entry is dropped by Remaining; try once more.
		left, err := t.Remaining(ctx, id, name)
		if err != nil || left > 0 {
			return false, err
		}
	}
	return false, nil
}

// Remaining returns how long until the named cooldown is over; zero when it
// is not running.
func (t *Tracker) Remaining(ctx context.Context, id uuid.UUID, name string) (time.Duration, error) {
	val, err := t.store.Get(ctx, cdKey(id, name))
	if cache.IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get cooldown %s: %w", name, err)
	}
	readyAt, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		t.logger.Warn("corrupt cooldown entry dropped",
			zap.String("actor_id", id.String()),
			zap.String("cooldown", name),
			zap.String("value", val))
		return 0, t.Clear(ctx, id, name)
	}
	left := time.UnixMilli(readyAt).Sub(t.now())
	if left < 0 {
		left = 0
	}
	return left, nil
}

// IsOnCooldown reports whether the named cooldown is still running.
func (t *Tracker) IsOnCooldown(ctx context.Context, id uuid.UUID, name string) (bool, error) {
	left, err := t.Remaining(ctx, id, name)
	return left > 0, err
}

// Clear ends the named cooldown early.
func (t *Tracker) Clear(ctx context.Context, id uuid.UUID, name string) error {
	return t.store.Del(ctx, cdKey(id, name))
}

func (t *Tracker) limiter(id uuid.UUID) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.limiters[id]
	if !ok {
		l = rate.NewLimiter(rate.Every(t.gcd), 1)
		t.limiters[id] = l
	}
	return l
}

// TakeGlobal starts the actor's global cooldown if it is not running and
// reports whether it did.
func (t *Tracker) TakeGlobal(id uuid.UUID) bool {
	if t.gcd <= 0 {
		return true
	}
	return t.limiter(id).AllowN(t.now(), 1)
}

// ReserveGlobal starts the actor's global cooldown like TakeGlobal. When it
// succeeds, undo hands the token back so an action that fails later does not
// lock the actor out.
func (t *Tracker) ReserveGlobal(id uuid.UUID) (undo func(), ok bool) {
	if t.gcd <= 0 {
		return func() {}, true
	}
	l := t.limiter(id)
	now := t.now()
	// ReserveN never refuses a single token; a reservation that has to wait
	// means the cooldown is running.
	r := l.ReserveN(now, 1)
	if !r.OK() {
		return nil, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return nil, false
	}
	return func() { r.CancelAt(now) }, true
}

// OnGlobal reports whether the actor's global cooldown is running.
func (t *Tracker) OnGlobal(id uuid.UUID) bool {
	if t.gcd <= 0 {
		return false
	}
	return t.limiter(id).TokensAt(t.now()) < 1
}

// Forget drops the global cooldown state of an actor leaving the world.
func (t *Tracker) Forget(id uuid.UUID) {
	t.mu.Lock()
	delete(t.limiters, id)
	t.mu.Unlock()
}
