package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"               env:"SERVER_HOST"               env-default:"0.0.0.0"`
	Port            int           `yaml:"port"               env:"SERVER_PORT"               env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"       env:"SERVER_READ_TIMEOUT"       env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"      env:"SERVER_WRITE_TIMEOUT"      env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"       env:"SERVER_IDLE_TIMEOUT"       env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"   env:"SERVER_SHUTDOWN_TIMEOUT"   env-default:"10s"`
	RequestsPerMin  int           `yaml:"requests_per_minute" env:"SERVER_REQUESTS_PER_MINUTE" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token validation settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"studioplan"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// ScheduleConfig holds calendar scheduling settings.
type ScheduleConfig struct {
	// OverloadThreshold is the per-day item count above which a responsible
	// person is flagged as overloaded.
	OverloadThreshold int `yaml:"overload_threshold" env:"SCHEDULE_OVERLOAD_THRESHOLD" env-default:"3"`

	// RescheduleTimeout bounds the durable write of a reschedule. A write that
	// exceeds it is treated as failed and rolled back locally.
	RescheduleTimeout time.Duration `yaml:"reschedule_timeout" env:"SCHEDULE_RESCHEDULE_TIMEOUT" env-default:"10s"`

	// MaxWindowDays caps the size of a visible window load.
	MaxWindowDays int `yaml:"max_window_days" env:"SCHEDULE_MAX_WINDOW_DAYS" env-default:"92"`

	// MaxOccurrences caps recurrence expansion per item within a window.
	MaxOccurrences int `yaml:"max_occurrences" env:"SCHEDULE_MAX_OCCURRENCES" env-default:"366"`

	// ExportMaxItems caps the number of events in an ICS export.
	ExportMaxItems int `yaml:"export_max_items" env:"SCHEDULE_EXPORT_MAX_ITEMS" env-default:"2000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
