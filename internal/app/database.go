package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/circuitbreaker"
	"github.com/guttosm/label-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds storage-related components.
type DatabaseComponents struct {
	History               repository.SerialHistoryRepository
	HistoryCircuitBreaker *circuitbreaker.CircuitBreaker
	Audit                 repository.AuditStore
	AuditCircuitBreaker   *circuitbreaker.CircuitBreaker
	// AuditPruner is set when the store cannot expire events itself.
	AuditPruner AuditPruner

	closers []func(ctx context.Context) error
}

// Close releases the underlying connections.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// breakerConfig builds a circuit breaker configuration from cfg.
func breakerConfig(cfg config.DatabaseConfig, name string) circuitbreaker.Config {
	return circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
	}
}

// InitializeDatabase opens the issued-serial history and the audit journal
// on the store selected by cfg.Driver.
func InitializeDatabase(ctx context.Context, cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return initializeSQLite(ctx, cfg)
	case config.DriverMongoDB:
		return initializeMongoDB(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func initializeSQLite(ctx context.Context, cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	history, err := repository.OpenSQLiteHistory(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.SQLitePath).Msg("Opened SQLite serial history")

	historyCB := circuitbreaker.New(repository.HistoryBreakerConfig(breakerConfig(cfg, "sqlite-serial-history")))
	auditCB := circuitbreaker.New(breakerConfig(cfg, "sqlite-audit-journal"))
	audit := history.Audit()

	return &DatabaseComponents{
		History:               repository.NewSerialHistoryWithCircuitBreaker(history, historyCB),
		HistoryCircuitBreaker: historyCB,
		Audit:                 repository.NewAuditStoreWithCircuitBreaker(audit, auditCB),
		AuditCircuitBreaker:   auditCB,
		AuditPruner:           audit,
		closers: []func(context.Context) error{
			func(context.Context) error { return history.Close() },
		},
	}, nil
}

func initializeMongoDB(ctx context.Context, cfg config.DatabaseConfig) (*DatabaseComponents, error) {
	db, err := repository.NewMongoDB(ctx, cfg.URI, cfg.DatabaseName, repository.DefaultMongoConfig())
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	if err := db.SetAuditTTL(ctx, cfg.AuditRetention); err != nil {
		log.Warn().Err(err).Dur("retention", cfg.AuditRetention).Msg("Failed to apply audit retention index")
	}

	historyCB := circuitbreaker.New(repository.HistoryBreakerConfig(breakerConfig(cfg, "mongodb-serial-history")))
	auditCB := circuitbreaker.New(breakerConfig(cfg, "mongodb-audit-journal"))

	return &DatabaseComponents{
		History:               repository.NewSerialHistoryWithCircuitBreaker(repository.NewMongoHistory(db), historyCB),
		HistoryCircuitBreaker: historyCB,
		Audit:                 repository.NewAuditStoreWithCircuitBreaker(repository.NewMongoAuditJournal(db), auditCB),
		AuditCircuitBreaker:   auditCB,
		closers:               []func(context.Context) error{db.Close},
	}, nil
}
