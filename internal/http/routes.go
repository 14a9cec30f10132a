package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// LabelRoutes registers the stateless issuance endpoints.
type LabelRoutes struct {
	handler *Handler
}

// NewLabelRoutes creates a new LabelRoutes instance.
func NewLabelRoutes(handler *Handler) *LabelRoutes {
	return &LabelRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *LabelRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	if r.handler == nil {
		return
	}
	rg.GET("/systems", r.handler.ListSystems)
	rg.GET("/printers", r.handler.ListPrinters)
	rg.POST("/check-duplicates", r.handler.CheckDuplicates)
	rg.POST("/generate-batch", r.handler.GenerateBatch)
	rg.GET("/label/:filename", r.handler.GetLabel)
	rg.POST("/print-label", r.handler.PrintLabel)
	rg.GET("/history", r.handler.History)
}

// SessionRoutes registers the workflow session endpoints.
type SessionRoutes struct {
	handler *SessionHandler
}

// NewSessionRoutes creates a new SessionRoutes instance.
func NewSessionRoutes(handler *SessionHandler) *SessionRoutes {
	return &SessionRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *SessionRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	if r.handler == nil {
		return
	}
	sessions := rg.Group("/sessions")
	sessions.POST("", r.handler.Create)
	sessions.GET("/:id", r.handler.Get)
	sessions.DELETE("/:id", r.handler.Delete)
	sessions.PATCH("/:id/request", r.handler.UpdateRequest)
	sessions.PUT("/:id/printer", r.handler.SelectPrinter)
	sessions.PUT("/:id/layout", r.handler.SetLayout)
	sessions.POST("/:id/check-duplicates", r.handler.CheckDuplicates)
	sessions.POST("/:id/generate", r.handler.Generate)
	sessions.POST("/:id/print", r.handler.Print)
}

// AuditRoutes registers the audit journal endpoint.
type AuditRoutes struct {
	handler *AuditHandler
}

// NewAuditRoutes creates a new AuditRoutes instance.
func NewAuditRoutes(handler *AuditHandler) *AuditRoutes {
	return &AuditRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup.
func (r *AuditRoutes) RegisterRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	if r.handler == nil {
		return
	}
	rg.GET("/audit", r.handler.List)
}
