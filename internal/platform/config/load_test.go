package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jsamuelsen11/teamspace/internal/platform/config"
)

func TestLoad_LocalProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	if cfg.Store.Path != ".teamspace/local.db" {
		t.Errorf("Store.Path = %q, want \".teamspace/local.db\"", cfg.Store.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want \"debug\"", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want \"text\"", cfg.Log.Format)
	}
	if cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = true, want false for local")
	}
	if !cfg.Events.LogPublished {
		t.Error("Events.LogPublished = false, want true for local")
	}
}

func TestLoad_ProdProfile(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("prod")
	if err != nil {
		t.Fatalf("Load(\"prod\") error: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want \"info\"", cfg.Log.Level)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true for prod")
	}
	if cfg.Telemetry.Exporter != "otlp" {
		t.Errorf("Telemetry.Exporter = %q, want \"otlp\"", cfg.Telemetry.Exporter)
	}
	if cfg.Store.BusyTimeout != 10*time.Second {
		t.Errorf("Store.BusyTimeout = %v, want 10s", cfg.Store.BusyTimeout)
	}
	if cfg.Security.Argon2.Time != 3 {
		t.Errorf("Security.Argon2.Time = %d, want 3", cfg.Security.Argon2.Time)
	}
}

func TestLoad_BaseConfigInheritance(t *testing.T) {
	t.Chdir("../../..")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load(\"local\") error: %v", err)
	}

	// These come from base.yaml, not overridden by local.yaml.
	if cfg.Store.BusyTimeout != 5*time.Second {
		t.Errorf("Store.BusyTimeout = %v, want 5s (from base)", cfg.Store.BusyTimeout)
	}
	if cfg.Security.Argon2.KeyLen != 32 {
		t.Errorf("Security.Argon2.KeyLen = %d, want 32 (from base)", cfg.Security.Argon2.KeyLen)
	}
	if cfg.Security.Argon2.Memory != 8192 {
		t.Errorf("Security.Argon2.Memory = %d, want 8192 (from local)", cfg.Security.Argon2.Memory)
	}
}

func TestLoad_DefaultsWithoutBaseFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte("log:\n  level: warn\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("test", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want \"warn\"", cfg.Log.Level)
	}
	if cfg.Store.Path != "teamspace.db" {
		t.Errorf("Store.Path = %q, want default \"teamspace.db\"", cfg.Store.Path)
	}
	if cfg.Security.Argon2.SaltLen != 16 {
		t.Errorf("Security.Argon2.SaltLen = %d, want default 16", cfg.Security.Argon2.SaltLen)
	}
}

func TestLoad_ExpandsHomeInStorePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "test.yaml"), []byte("store:\n  path: ~/.teamspace/data.db\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load("test", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if want := filepath.Join(home, ".teamspace", "data.db"); cfg.Store.Path != want {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, want)
	}
}

func TestLoad_EnvOverrideSimpleKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_LOG_LEVEL", "error")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q, want \"error\" (env override)", cfg.Log.Level)
	}
}

func TestLoad_EnvOverrideSnakeCaseKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_STORE_BUSY_TIMEOUT", "15s")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := 15 * time.Second
	if cfg.Store.BusyTimeout != want {
		t.Errorf("Store.BusyTimeout = %v, want %v (env override)", cfg.Store.BusyTimeout, want)
	}
}

func TestLoad_EnvOverrideDeeplyNestedKey(t *testing.T) {
	t.Chdir("../../..")
	t.Setenv("APP_SECURITY_ARGON2_SALT_LEN", "24")

	cfg, err := config.Load("local")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Security.Argon2.SaltLen != 24 {
		t.Errorf("Security.Argon2.SaltLen = %d, want 24 (env override)", cfg.Security.Argon2.SaltLen)
	}
}

func TestLoad_MissingProfile(t *testing.T) {
	t.Chdir("../../..")

	_, err := config.Load("nonexistent")
	if err == nil {
		t.Fatal("Load(\"nonexistent\") returned nil error, want error")
	}
}

func TestLoad_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	for _, profile := range []string{"", "  ", "../etc", "a/b", `a\b`} {
		if _, err := config.Load(profile); err == nil {
			t.Errorf("Load(%q) returned nil error, want error", profile)
		}
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Log.Level = "verbose"

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for invalid log level")
	}
}

func TestValidate_EmptyStorePath(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Store.Path = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for empty store path")
	}
}

func TestValidate_WeakArgon2(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Security.Argon2.SaltLen = 4
	cfg.Security.Argon2.KeyLen = 8

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for weak argon2 parameters")
	}
}

func TestValidate_OtlpWithoutEndpoint(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Exporter = "otlp"
	cfg.Telemetry.Endpoint = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() returned nil, want error for otlp without endpoint")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validBaseConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned error for valid config: %v", err)
	}
}

// validBaseConfig returns a Config with all fields set to valid values.
func validBaseConfig() *config.Config {
	return &config.Config{
		Log: config.LogConfig{
			Level:  "info",
			Format: "json",
		},
		Store: config.StoreConfig{
			Path:        "teamspace.db",
			BusyTimeout: 5 * time.Second,
		},
		Security: config.SecurityConfig{
			Argon2: config.Argon2Config{
				Time:    1,
				Memory:  64 * 1024,
				Threads: 4,
				KeyLen:  32,
				SaltLen: 16,
			},
		},
		Telemetry: config.TelemetryConfig{
			Enabled:     false,
			Exporter:    "stdout",
			ServiceName: "teamspace",
		},
	}
}
