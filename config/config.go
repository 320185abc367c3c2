package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Log        LogConfig        `toml:"log"`
	Discord    DiscordConfig    `toml:"discord"`
	Audit      AuditConfig      `toml:"audit"`
	Gemini     GeminiConfig     `toml:"gemini"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Moderation ModerationConfig `toml:"moderation"`
}

type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

func (l *LogLevel) UnmarshalText(text []byte) error {
	v := string(text)
	switch LogLevel(v) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		*l = LogLevel(v)
		return nil
	default:
		return fmt.Errorf("invalid log.level: %q (must be debug, info, warn, error)", v)
	}
}

func (l LogLevel) String() string { return string(l) }

func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type LogConfig struct {
	Level LogLevel `toml:"level"`
}

type DiscordConfig struct {
	OwnerCacheSize int           `toml:"owner_cache_size"`
	OwnerCacheTTL  time.Duration `toml:"owner_cache_ttl"`
}

type AuditConfig struct {
	Enabled   bool          `toml:"enabled"`
	Path      string        `toml:"path"`
	Retention time.Duration `toml:"retention"`
}

type GeminiConfig struct {
	Model             string        `toml:"model"`
	Endpoint          string        `toml:"endpoint"`
	Timeout           time.Duration `toml:"timeout"`
	RequestsPerMinute float64       `toml:"requests_per_minute"`
	Burst             int           `toml:"burst"`
}

type MetricsConfig struct {
	// Addr is the listen address for the Prometheus endpoint.
	// Empty disables the listener.
	Addr string `toml:"addr"`
}

type ModerationConfig struct {
	KickThreshold int           `toml:"kick_threshold"`
	BanThreshold  int           `toml:"ban_threshold"`
	WarnTTL       time.Duration `toml:"warn_ttl"`
	ActionTimeout time.Duration `toml:"action_timeout"`
	Terms         []TermRule    `toml:"terms"`
}

// TermRule preloads a banned term for a guild from the config file.
// Terms registered at runtime through the admin command live alongside
// these in the same registry.
type TermRule struct {
	Guild string `toml:"guild"`
	Term  string `toml:"term"`
	Level int    `toml:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			OwnerCacheSize: 1024,
			OwnerCacheTTL:  10 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:   true,
			Path:      "./audit-db",
			Retention: 90 * 24 * time.Hour,
		},
		Gemini: GeminiConfig{
			Model:             "gemini-2.5-flash",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 30,
			Burst:             5,
		},
		Moderation: ModerationConfig{
			KickThreshold: 4,
			BanThreshold:  8,
			WarnTTL:       10 * time.Second,
			ActionTimeout: 10 * time.Second,
		},
	}
}

func (c *Config) validate() error {
	// --- [moderation] ---
	m := c.Moderation
	if m.KickThreshold < 2 {
		return errors.New("moderation.kick_threshold must be at least 2")
	}
	if m.BanThreshold <= m.KickThreshold {
		return fmt.Errorf("moderation.ban_threshold (%d) must be greater than moderation.kick_threshold (%d)", m.BanThreshold, m.KickThreshold)
	}
	if m.WarnTTL <= 0 {
		return errors.New("moderation.warn_ttl must be a positive duration (e.g., '10s')")
	}
	if m.ActionTimeout <= 0 {
		return errors.New("moderation.action_timeout must be a positive duration")
	}
	for i, rule := range m.Terms {
		if strings.TrimSpace(rule.Term) == "" {
			return fmt.Errorf("moderation.terms[%d].term must not be empty", i)
		}
		if rule.Guild == "" {
			return fmt.Errorf("moderation.terms[%d].guild must be set", i)
		}
		if rule.Level < 0 || rule.Level > 2 {
			return fmt.Errorf("moderation.terms[%d].level must be 0, 1 or 2, got %d", i, rule.Level)
		}
	}

	// --- [discord] ---
	if c.Discord.OwnerCacheSize <= 0 {
		return errors.New("discord.owner_cache_size must be positive")
	}
	if c.Discord.OwnerCacheTTL <= 0 {
		return errors.New("discord.owner_cache_ttl must be a positive duration")
	}

	// --- [audit] ---
	if c.Audit.Enabled {
		if c.Audit.Path == "" {
			return errors.New("audit.path must be set when audit is enabled")
		}
		if c.Audit.Retention < 0 {
			return errors.New("audit.retention must not be negative")
		}
	}

	// --- [gemini] ---
	g := c.Gemini
	if g.Model == "" {
		return errors.New("gemini.model must be set")
	}
	if g.Timeout <= 0 {
		return errors.New("gemini.timeout must be a positive duration")
	}
	if g.RequestsPerMinute <= 0 {
		return errors.New("gemini.requests_per_minute must be > 0")
	}
	if g.Burst < 1 {
		return errors.New("gemini.burst must be at least 1")
	}

	return nil
}

func Load(path string, useDefaults bool) (*Config, bool, error) {
	cfg := defaultConfig()
	defaultsUsed := false

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if useDefaults {
				defaultsUsed = true
				if err := cfg.validate(); err != nil {
					return nil, true, err
				}
				return cfg, defaultsUsed, nil
			}
			return nil, false, fmt.Errorf("config file not found at %s", path)
		}
		return nil, false, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, false, err
	}
	return cfg, defaultsUsed, nil
}
