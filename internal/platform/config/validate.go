package config

import (
	"errors"
	"fmt"
)

const minSaltLen = 8

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	return errors.Join(
		c.Log.validate(),
		c.Store.validate(),
		c.Security.validate(),
		c.Telemetry.validate(),
	)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *StoreConfig) validate() error {
	var errs []error

	if s.Path == "" {
		errs = append(errs, errors.New("store.path must not be empty"))
	}
	if s.BusyTimeout < 0 {
		errs = append(errs, errors.New("store.busy_timeout must not be negative"))
	}

	return errors.Join(errs...)
}

func (s *SecurityConfig) validate() error {
	var errs []error
	a := s.Argon2

	if a.Time < 1 {
		errs = append(errs, fmt.Errorf("security.argon2.time must be >= 1, got %d", a.Time))
	}
	if a.Memory < 8*uint32(max(a.Threads, 1)) {
		errs = append(errs, fmt.Errorf("security.argon2.memory must be >= 8*threads KiB, got %d", a.Memory))
	}
	if a.Threads < 1 {
		errs = append(errs, fmt.Errorf("security.argon2.threads must be >= 1, got %d", a.Threads))
	}
	if a.KeyLen < 16 {
		errs = append(errs, fmt.Errorf("security.argon2.key_len must be >= 16, got %d", a.KeyLen))
	}
	if a.SaltLen < minSaltLen {
		errs = append(errs, fmt.Errorf("security.argon2.salt_len must be >= %d, got %d", minSaltLen, a.SaltLen))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}
	if t.ServiceName == "" {
		errs = append(errs, errors.New("telemetry.service_name must not be empty when telemetry is enabled"))
	}

	return errors.Join(errs...)
}
