package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"taxbot/service"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Slabs     SlabsConfig     `yaml:"slabs"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity"`
	Window   time.Duration `yaml:"window"`
}

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type CacheConfig struct {
	Driver    string        `yaml:"driver"`
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// SlabsConfig overrides the built-in slab tables. Empty tables keep the defaults.
type SlabsConfig struct {
	OldRegime service.SlabTable `yaml:"old_regime"`
	NewRegime service.SlabTable `yaml:"new_regime"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		RateLimit: RateLimitConfig{
			Capacity: 5,
			Window:   time.Minute,
		},
		Cache: CacheConfig{
			Driver:    CacheMemory,
			RedisAddr: "localhost:6379",
			TTL:       time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults, rejecting unknown keys.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate_limit.capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window)
	}
	switch c.Cache.Driver {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("cache.redis_addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if len(c.Slabs.OldRegime) > 0 {
		if err := c.Slabs.OldRegime.Validate(); err != nil {
			return fmt.Errorf("slabs.old_regime: %w", err)
		}
	}
	if len(c.Slabs.NewRegime) > 0 {
		if err := c.Slabs.NewRegime.Validate(); err != nil {
			return fmt.Errorf("slabs.new_regime: %w", err)
		}
	}
	return nil
}

// SetupLogging applies the level and format to the global logrus logger.
func (c LogConfig) SetupLogging() error {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if c.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.0000",
		})
	}
	return nil
}
