package config

const (
	defaultArgon2Time    = 1
	defaultArgon2Memory  = 64 * 1024
	defaultArgon2Threads = 4
	defaultArgon2KeyLen  = 32
	defaultArgon2SaltLen = 16
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "json",

		"store.path":         "teamspace.db",
		"store.busy_timeout": "5s",

		"security.argon2.time":     defaultArgon2Time,
		"security.argon2.memory":   defaultArgon2Memory,
		"security.argon2.threads":  defaultArgon2Threads,
		"security.argon2.key_len":  defaultArgon2KeyLen,
		"security.argon2.salt_len": defaultArgon2SaltLen,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "teamspace",

		"events.log_published": false,
	}
}
