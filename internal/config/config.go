package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Logging   LoggingConfig   `mapstructure:"logging"    validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Events    EventsConfig    `mapstructure:"events"     validate:"required"`
	Inventory InventoryConfig `mapstructure:"inventory"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"     validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// LoggingConfig controls the structured logger and the request audit log.
type LoggingConfig struct {
	Level        string `mapstructure:"level"          validate:"required,oneof=debug info warn error"`
	Format       string `mapstructure:"format"         validate:"required,oneof=json text"`
	AuditBodies  bool   `mapstructure:"audit_bodies"`
	MaxBodyBytes int    `mapstructure:"max_body_bytes" validate:"gte=0,lte=1048576"`
}

// AuthConfig contains the settings for the write guard.
// An empty JWTSecret disables the guard.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	Issuer    string `mapstructure:"issuer"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"           validate:"gte=0"`
}

// RateLimitConfig contains the per-client rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"required_if=Enabled true,gte=0"`
	Burst             int           `mapstructure:"burst"               validate:"required_if=Enabled true,gte=0"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"            validate:"gte=0"`
}

// EventsConfig sizes the asynchronous domain event dispatcher.
type EventsConfig struct {
	WorkerCount int `mapstructure:"worker_count" validate:"required,gte=1,lte=64"`
	QueueSize   int `mapstructure:"queue_size"   validate:"required,gte=1"`
}

// InventoryConfig holds product stock policy.
type InventoryConfig struct {
	LowStockThreshold int `mapstructure:"low_stock_threshold" validate:"gte=0"`
}
