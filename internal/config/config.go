// Package config loads the quote engine configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/binquote/internal/pricing"
	"github.com/sawpanic/binquote/internal/simcache"
	"github.com/sawpanic/binquote/internal/vol"
)

// Config is the full engine configuration.
type Config struct {
	Engine           pricing.Config `yaml:"engine"`
	SettlementWindow int            `yaml:"settlement_window"`
	Seed             uint64         `yaml:"seed"`
	ParamFile        string         `yaml:"param_file"`

	Cache  CacheConfig  `yaml:"cache"`
	Vol    VolConfig    `yaml:"vol"`
	Ladder LadderConfig `yaml:"ladder"`

	Listen   string `yaml:"listen"`
	StoreDSN string `yaml:"store_dsn"`
}

// CacheConfig tunes the simulation cache.
type CacheConfig struct {
	Entries    int `yaml:"entries"`
	SpotDigits int `yaml:"spot_digits"`
}

// VolConfig tunes the volatility aggregator and its sources.
type VolConfig struct {
	Weight24h float64 `yaml:"weight_24h"`
	Weight1h  float64 `yaml:"weight_1h"`

	// Optional external sources. Empty values leave the source absent.
	RedisAddr   string `yaml:"redis_addr"`
	RedisKey1m  string `yaml:"redis_key_1m"`
	RedisKey1h  string `yaml:"redis_key_1h"`
	RedisKey24h string `yaml:"redis_key_24h"`
	RESTURL     string `yaml:"rest_url"`
}

// LadderConfig shapes the synthetic strike ladder used when quoting without a
// live market list.
type LadderConfig struct {
	Interval float64 `yaml:"interval"`
	Count    int     `yaml:"count"`
}

// Default returns the production tuning.
func Default() Config {
	return Config{
		Engine:           pricing.DefaultConfig(),
		SettlementWindow: 60,
		ParamFile:        "latest_garch.json",
		Cache: CacheConfig{
			Entries:    simcache.DefaultCapacity,
			SpotDigits: simcache.DefaultSpotDigits,
		},
		Vol: VolConfig{
			Weight24h: vol.DefaultWeight24h,
			Weight1h:  vol.DefaultWeight1h,
		},
		Ladder: LadderConfig{
			Interval: 250,
			Count:    6,
		},
		Listen: ":8090",
	}
}

// Load reads a YAML file over the defaults. A missing path returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if c.Engine.PathCount <= 0 {
		return fmt.Errorf("engine.paths must be positive, got %d", c.Engine.PathCount)
	}
	if c.SettlementWindow <= 0 {
		return fmt.Errorf("settlement_window must be positive, got %d", c.SettlementWindow)
	}
	if c.Vol.Weight24h+c.Vol.Weight1h <= 0 {
		return fmt.Errorf("vol weights must sum to a positive number, got %g", c.Vol.Weight24h+c.Vol.Weight1h)
	}
	if c.Cache.Entries <= 0 {
		return fmt.Errorf("cache.entries must be positive, got %d", c.Cache.Entries)
	}
	if c.Ladder.Interval <= 0 || c.Ladder.Count <= 0 {
		return fmt.Errorf("ladder requires positive interval and count")
	}
	return nil
}
