package script

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/effect"
	"github.com/rsandor/Solace-sub001/game/passive"
	"github.com/rsandor/Solace-sub001/game/stats"
)

func newLoader(t *testing.T, timeout time.Duration) (*Loader, *passive.Registry, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	reg := passive.NewRegistry(logger)
	return NewLoader(reg, timeout, logger), reg, logs
}

func newWarrior(t *testing.T) *actor.Character {
	t.Helper()
	c, err := actor.NewCharacter("Varek", 50, actor.Roles{Major: stats.Vitality, Minor: stats.Strength})
	require.NoError(t, err)
	return c
}

func TestLoader_LoadDir(t *testing.T) {
	l, reg, _ := newLoader(t, time.Second)
	n, err := l.LoadDir(context.Background(), "testdata/races")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"meditation", "stout-hearted"}, reg.Names())

	e, err := reg.Get("meditation")
	require.NoError(t, err)
	assert.Equal(t, "Meditation", e.Label())
	assert.True(t, e.Registered(effect.MpRecovery))
	assert.True(t, e.Registered(effect.SpRecovery))
	assert.False(t, e.Registered(effect.HpRecovery))

	c := newWarrior(t)
	require.NoError(t, reg.Grant(c, "stout-hearted"))
	require.NoError(t, reg.Grant(c, "meditation"))
	assert.Equal(t, 240, c.Ability(stats.Vitality))
	assert.InDelta(t, 125.0, c.Effects().Evaluate(effect.MpRecovery, c, 100), 1e-9)
	assert.InDelta(t, 100.0, c.Effects().Evaluate(effect.HpRecovery, c, 100), 1e-9)
}

func TestLoader_LoadDirStopsAtFailure(t *testing.T) {
	l, reg, _ := newLoader(t, time.Second)
	n, err := l.LoadDir(context.Background(), "testdata/broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b.js")
	assert.Equal(t, 1, n)
	assert.True(t, reg.Has("first"))
	assert.False(t, reg.Has("third"))
}

func TestLoader_SubjectAccess(t *testing.T) {
	l, reg, _ := newLoader(t, time.Second)
	require.NoError(t, l.Run(context.Background(), "veteran.js", `
Passives.add('veteran', function (passive, effect) {
  effect.modStrength(function (player, v) {
    return player.isMobile() ? v : v + player.getLevel();
  });
});`))

	c := newWarrior(t)
	require.NoError(t, reg.Grant(c, "veteran"))
	assert.Equal(t, 202, c.Ability(stats.Strength))
}

func TestLoader_FailingModifierIsIdentity(t *testing.T) {
	l, reg, logs := newLoader(t, 50*time.Millisecond)
	require.NoError(t, l.Run(context.Background(), "bad.js", `
Passives.add('bad', function (passive, effect) {
  effect.modMagic(function () { throw new Error('nope'); });
  effect.modSpeed(function () { return 'fast'; });
  effect.modHpCost(function () { while (true) {} });
});`))

	e, err := reg.Get("bad")
	require.NoError(t, err)
	s := newWarrior(t)
	assert.Equal(t, 10.0, e.Magic()(s, 10))
	assert.Equal(t, 10.0, e.Speed()(s, 10))
	assert.Equal(t, 10.0, e.HpCost()(s, 10))

	assert.Equal(t, 2, logs.FilterMessage("passive modifier failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("passive modifier returned a non-number").Len())

	// The runtime recovers from the timeout.
	require.NoError(t, l.Run(context.Background(), "after.js", "var ok = true;"))
}

func TestLoader_InvalidDeclarations(t *testing.T) {
	l, reg, logs := newLoader(t, time.Second)
	ctx := context.Background()

	assert.Error(t, l.Run(ctx, "noinit.js", `Passives.add('x');`))
	assert.Error(t, l.Run(ctx, "noname.js", `Passives.add(undefined, function () {});`))
	assert.Error(t, l.Run(ctx, "badmod.js", `
Passives.add('y', function (passive, effect) { effect.modMagic(3); });`))
	assert.Error(t, l.Run(ctx, "throws.js", `
Passives.add('z', function () { throw new Error('init failed'); });`))
	assert.Zero(t, reg.Len())

	require.NoError(t, l.Run(ctx, "dup.js", `
Passives.add('twin', function (passive) { passive.setLabel('First'); });
Passives.add('twin', function (passive) { passive.setLabel('Second'); });`))
	e, err := reg.Get("twin")
	require.NoError(t, err)
	assert.Equal(t, "First", e.Label())
	assert.Equal(t, 1, logs.FilterMessage("duplicate passive skipped").Len())
}

func TestLoader_ConcurrentEvaluation(t *testing.T) {
	l, reg, _ := newLoader(t, time.Second)
	_, err := l.LoadDir(context.Background(), "testdata/races")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := actor.NewCharacter("Elf", 50, actor.Roles{Major: stats.Magic, Minor: stats.Speed})
			if !assert.NoError(t, err) {
				return
			}
			if !assert.NoError(t, reg.Grant(c, "meditation")) {
				return
			}
			for j := 0; j < 20; j++ {
				assert.InDelta(t, 125.0, c.Effects().Evaluate(effect.SpRecovery, c, 100), 1e-9)
			}
		}()
	}
	wg.Wait()
}

func TestMethodSuffix(t *testing.T) {
	assert.Equal(t, "MpRecovery", methodSuffix(effect.MpRecovery))
	assert.Equal(t, "HpCost", methodSuffix(effect.HpCost))
	assert.Equal(t, "Vitality", methodSuffix(effect.Vitality))
}
