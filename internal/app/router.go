package app

import (
	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/http"
	"github.com/guttosm/label-service/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler        *http.Handler
	SessionHandler *http.SessionHandler
	HealthHandler  *http.HealthHandler
	Config         http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterChecker("serial_history", http.HealthCheckFunc(services.Labels.Ping))
	if db.HistoryCircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("serial_history", db.HistoryCircuitBreaker)
	}
	if db.AuditCircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("audit_journal", db.AuditCircuitBreaker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:         cfg.Server.RateLimit,
		RateWindow:        cfg.Server.RateWindow,
		RequestTimeout:    cfg.Server.RequestTimeout,
		PrintTimeout:      cfg.Printing.Timeout,
		EnableAuth:        cfg.Auth.Enabled,
		APIKeys:           middleware.NewAPIKeySet(cfg.Auth.APIKeys),
		EnableIdempotency: cfg.Auth.EnableIdempotency,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		RequireOperator:   cfg.Auth.RequireOperator,
	}
	// Typed nils would read as configured dependencies.
	if services.Operators != nil {
		routerCfg.Operators = services.Operators
	}
	if services.AuditQueue != nil {
		routerCfg.Audit = services.AuditQueue
		routerCfg.AuditHTTPRequests = cfg.Audit.HTTPRequests
	}
	if services.Audit != nil {
		routerCfg.AuditQuery = services.Audit
	}

	return &RouterComponents{
		Handler:        http.NewHandler(services.Labels, services.Documents),
		SessionHandler: http.NewSessionHandler(services.Sessions),
		HealthHandler:  healthHandler,
		Config:         routerCfg,
	}
}
