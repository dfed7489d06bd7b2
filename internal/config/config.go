// Package config reads the importer's INI-style configuration file.
package config

import (
	"fmt"
	"time"

	"gopkg.in/gcfg.v1"
)

// Config mirrors the sections of the configuration file:
//
//	[engine]
//	max-input-bytes = 10485760
//	open-timeout = 5s
//	page-timeout = 3s
//	total-timeout = 15s
//
//	[store]
//	backend = redis
//	redis-addr = localhost:6379
//
//	[server]
//	addr = :8080
//
//	[log]
//	level = debug
type Config struct {
	Engine Engine
	Store  Store
	Server Server
	Log    Log
}

// Engine bounds the work spent on one document. Durations use
// time.ParseDuration syntax.
type Engine struct {
	MaxInputBytes int64  `gcfg:"max-input-bytes"`
	OpenTimeout   string `gcfg:"open-timeout"`
	PageTimeout   string `gcfg:"page-timeout"`
	TotalTimeout  string `gcfg:"total-timeout"`
}

// Store selects the record store backend and its connection settings.
type Store struct {
	Backend       string // memory, file, redis, postgres
	Path          string
	RedisAddr     string `gcfg:"redis-addr"`
	RedisPassword string `gcfg:"redis-password"`
	RedisDB       int    `gcfg:"redis-db"`
	RedisKey      string `gcfg:"redis-key"`
	PostgresDSN   string `gcfg:"postgres-dsn"`
}

// Server configures the HTTP API started with -serve.
type Server struct {
	Addr      string
	StaticDir string `gcfg:"static-dir"`
}

// Log sets the zerolog level and output format.
type Log struct {
	Level string
	JSON  bool
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: Engine{
			MaxInputBytes: 10 << 20,
			OpenTimeout:   "5s",
			PageTimeout:   "3s",
			TotalTimeout:  "15s",
		},
		Store: Store{
			Backend:   "memory",
			RedisAddr: "localhost:6379",
			RedisKey:  "dirham:transactions",
		},
		Server: Server{Addr: ":8080"},
		Log:    Log{Level: "info"},
	}
}

// Load reads filename over the defaults. An empty filename yields Default().
func Load(filename string) (Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	if err := gcfg.ReadFileInto(&cfg, filename); err != nil {
		return cfg, fmt.Errorf("reading configuration %s: %w", filename, err)
	}
	return cfg, cfg.Validate()
}

// Parse reads configuration text over the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()
	if err := gcfg.ReadStringInto(&cfg, text); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks values gcfg cannot check by type alone.
func (c Config) Validate() error {
	if c.Engine.MaxInputBytes <= 0 {
		return fmt.Errorf("engine.max-input-bytes must be positive, got %d", c.Engine.MaxInputBytes)
	}
	for name, v := range map[string]string{
		"open-timeout":  c.Engine.OpenTimeout,
		"page-timeout":  c.Engine.PageTimeout,
		"total-timeout": c.Engine.TotalTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("engine.%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("engine.%s must be positive, got %s", name, v)
		}
	}
	return nil
}

// Durations returns the parsed engine timeouts: open, page, total.
// Call Validate first; unparseable values come back as zero.
func (e Engine) Durations() (open, page, total time.Duration) {
	open, _ = time.ParseDuration(e.OpenTimeout)
	page, _ = time.ParseDuration(e.PageTimeout)
	total, _ = time.ParseDuration(e.TotalTimeout)
	return open, page, total
}
