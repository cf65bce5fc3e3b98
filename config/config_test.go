package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.Clock.Tick)
	assert.Equal(t, int64(5), cfg.Recovery.Ticks)
	assert.Equal(t, 8, cfg.Recovery.Workers)
	assert.Equal(t, 0.05, cfg.Recovery.Rates["standing"])
	assert.Equal(t, 0.25, cfg.Recovery.Rates["sleeping"])
	assert.Equal(t, 500, cfg.Recovery.VitalityStep)
	assert.Equal(t, 2*time.Second, cfg.GlobalCooldown())
	assert.Equal(t, 30*time.Second, cfg.Cache.LocalGCInterval)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.Equal(t, 2*time.Second, cfg.Script.Timeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  debug: true
clock:
  tick: 250ms
recovery:
  ticks: 10
  rates:
    standing: 0.1
    sitting: 0.2
    resting: 0.3
    sleeping: 0.4
cooldown:
  global_ticks: 4
cache:
  redis_addr: localhost:6379
passives:
  catalog: passives.yaml
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, 250*time.Millisecond, cfg.Clock.Tick)
	assert.Equal(t, int64(10), cfg.Recovery.Ticks)
	assert.Equal(t, 0.4, cfg.Recovery.Rates["sleeping"])
	assert.Equal(t, time.Second, cfg.GlobalCooldown())
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, "passives.yaml", cfg.Passives.Catalog)
	// Unset keys keep their defaults.
	assert.Equal(t, 8, cfg.Recovery.Workers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Example(t *testing.T) {
	cfg, err := Load("solace.example.yaml")
	require.NoError(t, err)
	defaults, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SOLACE_CACHE_REDIS_ADDR", "redis:6379")
	t.Setenv("SOLACE_COOLDOWN_GLOBAL_TICKS", "3")
	t.Setenv("SOLACE_LOG_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, int64(3), cfg.Cooldown.GlobalTicks)
	assert.True(t, cfg.Log.Debug)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"tick":     "clock:\n  tick: 0s\n",
		"ticks":    "recovery:\n  ticks: 0\n",
		"gcd":      "cooldown:\n  global_ticks: -1\n",
		"timeout":  "script:\n  timeout: 0s\n",
		"rate":     "recovery:\n  rates:\n    sitting: 1.5\n",
		"negative": "recovery:\n  workers: -2\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "solace.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
