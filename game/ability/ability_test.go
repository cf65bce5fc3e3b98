package ability

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/cache/local"
	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/cooldown"
	"github.com/rsandor/Solace-sub001/game/cost"
	"github.com/rsandor/Solace-sub001/game/stats"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type fixture struct {
	svc     *Service
	tracker *cooldown.Tracker
	clock   *fakeClock
	hero    *actor.Character
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store, err := local.NewCache(local.Config{GCInterval: time.Minute, Now: clock.Now})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tracker := cooldown.NewTracker(store, 2*time.Second, zap.NewNop(), cooldown.WithClock(clock.Now))
	hero, err := actor.NewCharacter("Varek", 50, actor.Roles{Major: stats.Vitality, Minor: stats.Strength})
	require.NoError(t, err)
	return &fixture{
		svc:     NewService(tracker, time.Second, zap.NewNop()),
		tracker: tracker,
		clock:   clock,
		hero:    hero,
	}
}

var (
	slash = Definition{
		Name:     "slash",
		Cooldown: GlobalCooldown,
		Costs:    []cost.ResourceCost{cost.FixedCost(actor.SP, 4)},
	}
	shock = Definition{
		Name:     "shock",
		Cooldown: 10,
		Costs:    []cost.ResourceCost{cost.FixedCost(actor.MP, 100)},
	}
)

func TestUse_GlobalCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.True(t, out.Used)
	assert.Equal(t, 1226, f.hero.Current(actor.SP))

	out, err = f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.False(t, out.Used)
	assert.Equal(t, "slash is not ready yet.", out.Message)
	assert.Equal(t, 1226, f.hero.Current(actor.SP))

	f.clock.Advance(2 * time.Second)
	out, err = f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.True(t, out.Used)
	assert.Equal(t, 1222, f.hero.Current(actor.SP))
}

func TestUse_NamedCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.svc.Use(ctx, f.hero, shock)
	require.NoError(t, err)
	assert.True(t, out.Used)
	assert.Equal(t, 1173, f.hero.Current(actor.MP))

	// A named cooldown does not trigger the global one.
	assert.False(t, f.tracker.OnGlobal(f.hero.ID()))

	f.clock.Advance(9 * time.Second)
	out, err = f.svc.Use(ctx, f.hero, shock)
	require.NoError(t, err)
	assert.Equal(t, "shock is not ready yet.", out.Message)

	f.clock.Advance(time.Second)
	out, err = f.svc.Use(ctx, f.hero, shock)
	require.NoError(t, err)
	assert.True(t, out.Used)
	assert.Equal(t, 1073, f.hero.Current(actor.MP))
}

func TestUse_InsufficientResources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.hero.Exclusive(func(p *actor.Pools) { p.Set(actor.SP, 3) })

	out, err := f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.False(t, out.Used)
	assert.Equal(t, "Not enough {m}sp{x}.", out.Message)
	assert.Equal(t, 3, f.hero.Current(actor.SP))
	// The refused action gives the global cooldown back.
	assert.False(t, f.tracker.OnGlobal(f.hero.ID()))

	// Costs are all or nothing.
	combo := Definition{
		Name:     "aetherflow",
		Cooldown: GlobalCooldown,
		Costs: []cost.ResourceCost{
			cost.FixedCost(actor.MP, 100),
			cost.FixedCost(actor.SP, 4),
		},
	}
	out, err = f.svc.Use(ctx, f.hero, combo)
	require.NoError(t, err)
	assert.False(t, out.Used)
	assert.Equal(t, 1273, f.hero.Current(actor.MP))
}

func TestUse_NamedCooldownReleasedWhenUnpaid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.hero.Exclusive(func(p *actor.Pools) { p.Set(actor.MP, 50) })

	out, err := f.svc.Use(ctx, f.hero, shock)
	require.NoError(t, err)
	assert.False(t, out.Used)
	assert.Equal(t, "Not enough {m}mp{x}.", out.Message)
	on, err := f.tracker.IsOnCooldown(ctx, f.hero.ID(), "shock")
	require.NoError(t, err)
	assert.False(t, on)

	f.hero.Exclusive(func(p *actor.Pools) { p.Set(actor.MP, 150) })
	out, err = f.svc.Use(ctx, f.hero, shock)
	require.NoError(t, err)
	assert.True(t, out.Used)
	assert.Equal(t, 50, f.hero.Current(actor.MP))
}

func TestUse_ConcurrentSingleWinner(t *testing.T) {
	for _, d := range []Definition{slash, shock} {
		t.Run(d.Name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()

			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				used int
			)
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					out, err := f.svc.Use(ctx, f.hero, d)
					assert.NoError(t, err)
					if out.Used {
						mu.Lock()
						used++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, 1, used)
		})
	}
}

func TestUse_RequiresReadyState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.hero.SetPlayState(actor.Sleeping)
	out, err := f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.False(t, out.Used)
	assert.Equal(t, "You must be standing and alert to use slash.", out.Message)

	f.hero.SetPlayState(actor.Fighting)
	out, err = f.svc.Use(ctx, f.hero, slash)
	require.NoError(t, err)
	assert.True(t, out.Used)
}

func TestUse_InvalidDefinition(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Use(context.Background(), f.hero, Definition{})
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	_, err = f.svc.Use(context.Background(), f.hero, Definition{Name: "x", Cooldown: -5})
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
}
