package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/label-service/internal/metrics"
	"github.com/guttosm/label-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit         int
	RateWindow        time.Duration
	RequestTimeout    time.Duration
	PrintTimeout      time.Duration
	APIKeys           *middleware.APIKeySet
	EnableAuth        bool
	EnableIdempotency bool
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	// Audit receives journal events. Nil disables auditing.
	Audit middleware.AuditSink
	// AuditHTTPRequests also journals every request as an http_request event.
	AuditHTTPRequests bool
	// AuditQuery serves GET /api/audit. Nil leaves the endpoint out.
	AuditQuery AuditReader
	// Operators verifies bearer tokens. Nil leaves every request anonymous.
	Operators       middleware.OperatorVerifier
	RequireOperator bool
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      100,
		RateWindow:     time.Minute,
		RequestTimeout: 60 * time.Second,
	}
}

// NewRouter creates and configures the Gin router for the label service.
// sessions may be nil, in which case the session endpoints are not served.
func NewRouter(handler *Handler, sessions *SessionHandler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	groups := []RouteGroup{
		NewLabelRoutes(handler),
		NewSessionRoutes(sessions),
		NewAuditRoutes(NewAuditHandler(cfg.AuditQuery)),
	}
	for _, g := range groups {
		g.RegisterRoutes(api, &cfg)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(cors.New(corsPolicy(cfg.CORSOrigins)))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.WithAuditSink(cfg.Audit),
		middleware.RequestLogger(cfg.AuditHTTPRequests),
		middleware.ErrorHandler(),
	)
}

// corsPolicy lets the operator dashboard call the API and read the headers
// the label workflow relies on.
func corsPolicy(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-API-Key", "X-Request-ID", middleware.IdempotencyKeyHeader,
		},
		ExposeHeaders: []string{
			"X-Request-ID", "Content-Disposition", "Retry-After",
			"X-RateLimit-Limit", "X-RateLimit-Remaining", middleware.IdempotencyReplayedHeader,
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group. Order matters:
// the caller is authenticated before being rate limited per operator.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.EnableAuth && cfg.APIKeys != nil && cfg.APIKeys.Len() > 0 {
		api.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}

	if cfg.Operators != nil {
		api.Use(middleware.OperatorAuth(cfg.Operators, cfg.RequireOperator))
	}

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		api.Use(limiter.OperatorRateLimit())
	}

	if cfg.RequestTimeout > 0 {
		api.Use(middleware.Timeout(requestDeadlines(cfg)))
	}

	if cfg.EnableIdempotency {
		api.Use(middleware.Idempotency(middleware.NewReplayCache(middleware.DefaultReplayTTL)))
	}
}

// requestDeadlines gives the print routes room for the spooler.
func requestDeadlines(cfg *RouterConfig) middleware.Deadlines {
	d := middleware.Deadlines{Default: cfg.RequestTimeout}
	if cfg.PrintTimeout > cfg.RequestTimeout {
		d.Routes = map[string]time.Duration{
			"/api/print-label":        cfg.PrintTimeout,
			"/api/sessions/:id/print": cfg.PrintTimeout,
		}
	}
	return d
}
