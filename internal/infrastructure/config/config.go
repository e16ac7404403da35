package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/mckechniep/sneatsnags-sub002/internal/service/matching"
)

type Config struct {
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	LogLevel    string `koanf:"log_level"`

	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Metrics  MetricsConfig  `koanf:"metrics"`

	// Matching is the scoring policy: weights, tier thresholds, pool and
	// result caps. Kept in configuration so alternate weight sets never
	// require touching scoring logic.
	Matching matching.Policy `koanf:"matching"`

	Batch BatchConfig `koanf:"batch"`
	Cache CacheConfig `koanf:"cache"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxConns        int           `koanf:"max_conns"`
	MinConns        int           `koanf:"min_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL          string        `koanf:"url"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	PoolSize     int           `koanf:"pool_size"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

type BatchConfig struct {
	// Schedule is a cron expression for the recurring match run
	Schedule string `koanf:"schedule"`
	// Workers bounds concurrent per-preference evaluation; 1 = sequential
	Workers int `koanf:"workers"`
	// NotifyRatePerSecond caps notification dispatch within a run
	NotifyRatePerSecond float64 `koanf:"notify_rate_per_second"`
	NotifyBurst         int     `koanf:"notify_burst"`
}

type CacheConfig struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := &Config{
		Version:     "dev",
		Environment: "development",
		LogLevel:    "info",
		Database: DatabaseConfig{
			MaxConns:        25,
			MinConns:        5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			DB:           0,
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Metrics: MetricsConfig{
			ListenAddr: ":9102",
		},
		Matching: matching.DefaultPolicy(),
		Batch: BatchConfig{
			Schedule:            "*/15 * * * *",
			Workers:             4,
			NotifyRatePerSecond: 20,
			NotifyBurst:         40,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Second,
		},
	}

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Config file is optional
	if path == "" {
		path = "configs/config.yaml"
	}
	_ = k.Load(file.Provider(path), yaml.Parser())

	// Environment variables override everything
	if err := k.Load(env.Provider("TICKET_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "TICKET_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Matching.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching policy: %w", err)
	}

	return &cfg, nil
}
