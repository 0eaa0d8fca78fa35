// Package config loads ocpledgerd's runtime configuration via viper, from
// (in precedence order) flags, environment variables prefixed
// OCPLEDGER_, a YAML/TOML config file, then built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ShufflerSecret is one committee member's signing key material, loaded
// only from an environment variable (never the config file, so secret
// material never lands in a checked-in or logged config).
type ShufflerSecret struct {
	ID        int64  `json:"id"`
	SecretHex string `json:"secret_hex"`
}

// Config is the fully-resolved configuration for a single ocpledgerd
// process.
type Config struct {
	ListenAddr    string           `mapstructure:"listen_addr"`
	PostgresDSN   string           `mapstructure:"postgres_dsn"`
	CommitteeSize int              `mapstructure:"committee_size"`
	LogLevel      string           `mapstructure:"log_level"`
	Shufflers     []ShufflerSecret `mapstructure:"-"`
}

// UsesMemoryStore reports whether an empty Postgres DSN means the process
// should fall back to the in-memory event/snapshot stores.
func (c Config) UsesMemoryStore() bool { return c.PostgresDSN == "" }

const envPrefix = "OCPLEDGER"

// Load resolves a Config from flags (already bound into v by the caller),
// environment variables, and an optional config file at configPath (empty
// to skip). Shuffler secret material is read separately from the
// OCPLEDGER_SHUFFLER_SECRETS environment variable as a JSON array, never
// from the config file.
func Load(v *viper.Viper, configPath string) (Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("committee_size", 3)
	v.SetDefault("log_level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if raw := os.Getenv(envPrefix + "_SHUFFLER_SECRETS"); raw != "" {
		var secrets []ShufflerSecret
		if err := json.Unmarshal([]byte(raw), &secrets); err != nil {
			return Config{}, fmt.Errorf("config: parse %s_SHUFFLER_SECRETS: %w", envPrefix, err)
		}
		cfg.Shufflers = secrets
	}

	return cfg, nil
}
