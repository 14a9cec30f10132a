package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/guttosm/label-service/config"
)

// testConfig returns a configuration backed by a SQLite file and an output
// directory under t.TempDir.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()
	plain := false
	return config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 10 * time.Second,
			SessionIdleTTL: time.Minute,
		},
		Log: config.LogConfig{Level: "error", Pretty: &plain},
		Auth: config.AuthConfig{
			EnableIdempotency: true,
		},
		Database: config.DatabaseConfig{
			Driver:                         config.DriverSQLite,
			SQLitePath:                     filepath.Join(dir, "labels.db"),
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Labels: config.LabelsConfig{
			OutputDir:     filepath.Join(dir, "labels"),
			Systems:       []string{"Line 1", "Line 2"},
			Retention:     time.Hour,
			PruneInterval: time.Hour,
		},
		Printing: config.PrintingConfig{
			LpstatBinary: "lpstat",
			LprBinary:    "lpr",
			Timeout:      time.Second,
		},
		Settings: config.SettingsConfig{
			LayoutPath: filepath.Join(dir, "label_settings.toml"),
		},
	}
}
