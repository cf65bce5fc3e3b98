package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/rsandor/Solace-sub001/cache"
	"github.com/rsandor/Solace-sub001/config"
	"github.com/rsandor/Solace-sub001/game/actor"
	"github.com/rsandor/Solace-sub001/game/stats"
)

// Logger returns a logger that writes through t.
func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.Level(zap.WarnLevel))
}

// SetupTestConfig loads the default configuration.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err, "SetupTestConfig: Load")
	return cfg
}

// SetupTestStore creates an in-process cooldown store (no Redis required)
// that is closed when the test ends.
func SetupTestStore(t *testing.T) cache.Store {
	t.Helper()
	s, err := cache.NewStore(cache.Config{})
	require.NoError(t, err, "SetupTestStore: NewStore")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Warrior returns a character with vitality as major and strength as minor
// role, at full resources.
func Warrior(t *testing.T, level int) *actor.Character {
	t.Helper()
	c, err := actor.NewCharacter("Varek", level, actor.Roles{Major: stats.Vitality, Minor: stats.Strength})
	require.NoError(t, err, "Warrior: NewCharacter")
	return c
}

// Mage returns a character with magic as major and speed as minor role.
func Mage(t *testing.T, level int) *actor.Character {
	t.Helper()
	c, err := actor.NewCharacter("Ilsa", level, actor.Roles{Major: stats.Magic, Minor: stats.Speed})
	require.NoError(t, err, "Mage: NewCharacter")
	return c
}

// Mobile returns a mobile of the given level and power.
func Mobile(t *testing.T, level, power int) *actor.Mobile {
	t.Helper()
	m, err := actor.NewMobile("ogre", level, power)
	require.NoError(t, err, "Mobile: NewMobile")
	return m
}

// Drain empties every pool of a.
func Drain(a actor.Actor) {
	a.Exclusive(func(p *actor.Pools) {
		for _, r := range actor.Resources {
			p.Set(r, 0)
		}
	})
}
