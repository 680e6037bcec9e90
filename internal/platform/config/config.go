// Package config provides configuration loading and validation for the
// teamspace CLI. Configuration is loaded from YAML files with environment
// variable overrides using a layered system: defaults -> base.yaml ->
// {profile}.yaml -> env vars.
package config

import "time"

// Config holds all configuration for the CLI.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Store     StoreConfig     `koanf:"store"`
	Security  SecurityConfig  `koanf:"security"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Events    EventsConfig    `koanf:"events"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig holds the SQLite snapshot store settings.
type StoreConfig struct {
	Path        string        `koanf:"path"`
	BusyTimeout time.Duration `koanf:"busy_timeout"`
}

// SecurityConfig holds password hashing settings.
type SecurityConfig struct {
	Argon2 Argon2Config `koanf:"argon2"`
}

// Argon2Config holds argon2id parameters. Memory is in KiB.
type Argon2Config struct {
	Time    uint32 `koanf:"time"`
	Memory  uint32 `koanf:"memory"`
	Threads uint8  `koanf:"threads"`
	KeyLen  uint32 `koanf:"key_len"`
	SaltLen int    `koanf:"salt_len"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}

// EventsConfig controls the in-process domain event bus.
type EventsConfig struct {
	// LogPublished logs every published event at info instead of debug.
	LogPublished bool `koanf:"log_published"`
}
