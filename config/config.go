package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Clock    ClockConfig    `mapstructure:"clock"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
	Cooldown CooldownConfig `mapstructure:"cooldown"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Script   ScriptConfig   `mapstructure:"script"`
	Passives PassivesConfig `mapstructure:"passives"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type ClockConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

type RecoveryConfig struct {
	Ticks   int64 `mapstructure:"ticks"`   // clock ticks between cycles
	Workers int   `mapstructure:"workers"` // actors recovered in parallel
	// Rates is the base fraction of each pool recovered per cycle, keyed by
	// play state name.
	Rates map[string]float64 `mapstructure:"rates"`
	// VitalityBonus is added once per full VitalityStep points of vitality.
	VitalityBonus float64 `mapstructure:"vitality_bonus"`
	VitalityStep  int     `mapstructure:"vitality_step"`
}

type CooldownConfig struct {
	GlobalTicks int64 `mapstructure:"global_ticks"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	RedisPrefix     string        `mapstructure:"redis_prefix"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
}

type ScriptConfig struct {
	Dir     string        `mapstructure:"dir"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PassivesConfig struct {
	Catalog string `mapstructure:"catalog"`
}

// Load reads config from the given YAML file path. An empty path yields the
// defaults. Environment variables named SOLACE_<SECTION>_<KEY> (for example
// SOLACE_CACHE_REDIS_ADDR) override both.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("log.debug", false)
	v.SetDefault("clock.tick", "1s")
	v.SetDefault("recovery.ticks", 5)
	v.SetDefault("recovery.workers", 8)
	v.SetDefault("recovery.rates", map[string]float64{
		"standing": 0.05,
		"sitting":  0.08,
		"resting":  0.15,
		"sleeping": 0.25,
	})
	v.SetDefault("recovery.vitality_bonus", 0.25)
	v.SetDefault("recovery.vitality_step", 500)
	v.SetDefault("cooldown.global_ticks", 2)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_prefix", "solace:")
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("script.dir", "")
	v.SetDefault("script.timeout", "2s")
	v.SetDefault("passives.catalog", "")

	v.SetEnvPrefix("SOLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Clock.Tick <= 0:
		return fmt.Errorf("%w: clock.tick must be positive, got %s", ErrInvalid, c.Clock.Tick)
	case c.Recovery.Ticks <= 0:
		return fmt.Errorf("%w: recovery.ticks must be positive, got %d", ErrInvalid, c.Recovery.Ticks)
	case c.Recovery.Workers < 0:
		return fmt.Errorf("%w: recovery.workers is negative", ErrInvalid)
	case c.Recovery.VitalityStep < 0:
		return fmt.Errorf("%w: recovery.vitality_step is negative", ErrInvalid)
	case c.Cooldown.GlobalTicks < 0:
		return fmt.Errorf("%w: cooldown.global_ticks is negative", ErrInvalid)
	case c.Script.Timeout <= 0:
		return fmt.Errorf("%w: script.timeout must be positive, got %s", ErrInvalid, c.Script.Timeout)
	}
	for state, rate := range c.Recovery.Rates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%w: recovery.rates.%s = %g outside [0,1]", ErrInvalid, state, rate)
		}
	}
	return nil
}

// GlobalCooldown returns the global cooldown as wall-clock time.
func (c *Config) GlobalCooldown() time.Duration {
	return time.Duration(c.Cooldown.GlobalTicks) * c.Clock.Tick
}
