package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load.
const EnvPrefix = "APP"

// LoadOptions customizes where Load looks for configuration.
type LoadOptions struct {
	// EnvFile is loaded into the process environment before anything else.
	// A missing file is ignored.
	EnvFile string
	// ConfigFile is an optional YAML/JSON/TOML file. A missing file is ignored.
	ConfigFile string
}

// Load configuration from environment variables and optionally a .env file
// and a config file. Environment variables take precedence over values from
// config files. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{EnvFile: ".env", ConfigFile: "config.yaml"})
}

// LoadWithOptions is Load with explicit file locations.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	if opts.EnvFile != "" {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.audit_bodies", false)
	v.SetDefault("logging.max_body_bytes", 4096)

	v.SetDefault("auth.issuer", "rest-template")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.idle_ttl", "10m")

	v.SetDefault("events.worker_count", 2)
	v.SetDefault("events.queue_size", 256)

	v.SetDefault("inventory.low_stock_threshold", 5)
}

// bindEnvVars binds keys that have no default so AutomaticEnv picks them up
// during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		_ = v.BindEnv(key)
	}
}
