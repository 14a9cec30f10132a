// Package config provides configuration management for the label service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers for the issued-serial history.
const (
	DriverSQLite  = "sqlite"
	DriverMongoDB = "mongodb"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Labels   LabelsConfig
	Printing PrintingConfig
	Settings SettingsConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	SessionIdleTTL time.Duration
}

// LogConfig holds logger configuration. A nil Pretty auto-detects a terminal.
type LogConfig struct {
	Level  string
	Pretty *bool
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled bool
	// APIKeys may hold plain keys or bcrypt hashes.
	APIKeys             []string
	EnableIdempotency   bool
	OperatorTokenSecret string
	RequireOperator     bool
}

// DatabaseConfig holds issued-serial store configuration.
type DatabaseConfig struct {
	Driver       string
	SQLitePath   string
	URI          string
	DatabaseName string
	// AuditRetention bounds how long journal events are kept. Zero keeps
	// them forever.
	AuditRetention time.Duration
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// LabelsConfig holds document rendering and retention configuration.
// Empty Systems selects the built-in catalog.
type LabelsConfig struct {
	OutputDir     string
	Systems       []string
	Retention     time.Duration
	PruneInterval time.Duration
}

// PrintingConfig holds print spooler configuration.
type PrintingConfig struct {
	LpstatBinary string
	LprBinary    string
	Timeout      time.Duration
}

// SettingsConfig locates the durable layout settings record.
type SettingsConfig struct {
	LayoutPath string
}

// AuditConfig holds audit journal configuration.
type AuditConfig struct {
	Enabled      bool
	QueueSize    int
	Workers      int
	HTTPRequests bool
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; it never overrides
// variables already set. Every malformed variable is reported, not only the
// first.
func Load() (Config, error) {
	_ = godotenv.Load()

	var e env
	cfg := Config{
		Server: ServerConfig{
			Port:           e.str("PORT", "8080"),
			RateLimit:      e.integer("RATE_LIMIT", 100),
			RateWindow:     e.duration("RATE_WINDOW", time.Minute),
			RequestTimeout: e.duration("REQUEST_TIMEOUT", 60*time.Second),
			CORSOrigins:    withLocalOrigins(e.list("CORS_ORIGINS")),
			SwaggerUser:    e.str("SWAGGER_USER", ""),
			SwaggerPass:    e.str("SWAGGER_PASS", ""),
			SessionIdleTTL: e.duration("SESSION_IDLE_TTL", 30*time.Minute),
		},
		Log: LogConfig{
			Level:  e.str("LOG_LEVEL", "info"),
			Pretty: e.optionalBool("LOG_PRETTY"),
		},
		Auth: AuthConfig{
			Enabled:             e.boolean("AUTH_ENABLED", false),
			APIKeys:             e.list("API_KEYS"),
			EnableIdempotency:   e.boolean("IDEMPOTENCY_ENABLED", true),
			OperatorTokenSecret: e.str("OPERATOR_TOKEN_SECRET", ""),
			RequireOperator:     e.boolean("REQUIRE_OPERATOR", false),
		},
		Database: DatabaseConfig{
			Driver:                         strings.ToLower(e.str("STORE_DRIVER", DriverSQLite)),
			SQLitePath:                     e.str("SQLITE_PATH", "labels.db"),
			URI:                            e.str("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   e.str("MONGODB_DATABASE", "label_service"),
			AuditRetention:                 e.duration("AUDIT_RETENTION", 30*24*time.Hour),
			CircuitBreakerFailureThreshold: e.integer("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: e.integer("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          e.duration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Labels: LabelsConfig{
			OutputDir:     e.str("LABEL_OUTPUT_DIR", "labels"),
			Systems:       e.list("LABEL_SYSTEMS"),
			Retention:     e.duration("LABEL_RETENTION", 24*time.Hour),
			PruneInterval: e.duration("LABEL_PRUNE_INTERVAL", time.Hour),
		},
		Printing: PrintingConfig{
			LpstatBinary: e.str("LPSTAT_BINARY", "lpstat"),
			LprBinary:    e.str("LPR_BINARY", "lpr"),
			Timeout:      e.duration("PRINT_TIMEOUT", 30*time.Second),
		},
		Settings: SettingsConfig{
			LayoutPath: e.str("LAYOUT_SETTINGS_PATH", "label_settings.toml"),
		},
		Audit: AuditConfig{
			Enabled:      e.boolean("AUDIT_ENABLED", true),
			QueueSize:    e.integer("AUDIT_QUEUE_SIZE", 1024),
			Workers:      e.integer("AUDIT_WORKERS", 2),
			HTTPRequests: e.boolean("AUDIT_HTTP_REQUESTS", false),
		},
	}
	if err := errors.Join(e.errs...); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the values Load cannot reject while parsing.
func (c Config) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a TCP port", c.Server.Port))
	}
	if c.Server.RateLimit < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT must be positive, got %d", c.Server.RateLimit))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverMongoDB:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER %q is not one of %s, %s", c.Database.Driver, DriverSQLite, DriverMongoDB))
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, errors.New("AUTH_ENABLED requires API_KEYS"))
	}
	if c.Audit.Workers < 1 {
		errs = append(errs, fmt.Errorf("AUDIT_WORKERS must be positive, got %d", c.Audit.Workers))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// UsesMongoDB reports whether MongoDB backs the issued-serial history.
func (c DatabaseConfig) UsesMongoDB() bool {
	return c.Driver == DriverMongoDB
}

// env reads typed variables, collecting a parse error for each malformed
// one. Unset or empty variables take the default.
type env struct {
	errs []error
}

func (e *env) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) fail(key, value string, err error) {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, value, err))
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return n
}

func (e *env) boolean(key string, def bool) bool {
	if b := e.optionalBool(key); b != nil {
		return *b
	}
	return def
}

func (e *env) optionalBool(key string) *bool {
	v, ok := e.lookup(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, v, err)
		return nil
	}
	return &b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return def
	}
	return d
}

// list splits a comma-separated variable, dropping blank items. It returns
// nil when nothing is left.
func (e *env) list(key string) []string {
	v, ok := e.lookup(key)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// withLocalOrigins prepends the dashboard's development origins.
func withLocalOrigins(origins []string) []string {
	return append([]string{"http://localhost:3000", "http://127.0.0.1:3000"}, origins...)
}
