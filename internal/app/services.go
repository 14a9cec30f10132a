package app

import (
	"fmt"

	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/label"
	"github.com/guttosm/label-service/internal/middleware"
	"github.com/guttosm/label-service/internal/printer"
	"github.com/guttosm/label-service/internal/service"
	"github.com/guttosm/label-service/internal/settings"
	"github.com/guttosm/label-service/internal/workflow"
	"github.com/rs/zerolog/log"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Labels    *service.LabelService
	Documents *label.Store
	Sessions  *workflow.Registry
	Operators *service.OperatorTokens
	// Audit and AuditQueue are nil when auditing is disabled.
	Audit      *service.AuditJournal
	AuditQueue *middleware.AuditQueue
}

// Close drains the audit queue.
func (s *ServiceComponents) Close() {
	if s != nil && s.AuditQueue != nil {
		s.AuditQueue.Close()
	}
}

// InitializeServices wires the issuance service over the given history store.
func InitializeServices(cfg config.Config, db *DatabaseComponents) (*ServiceComponents, error) {
	documents, err := label.NewStore(cfg.Labels.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("label output dir: %w", err)
	}

	spooler := printer.NewCUPS(
		printer.WithLpstat(cfg.Printing.LpstatBinary),
		printer.WithLpr(cfg.Printing.LprBinary),
		printer.WithTimeout(cfg.Printing.Timeout),
	)

	labels := service.NewLabelService(
		db.History,
		label.NewRenderer(),
		documents,
		spooler,
		service.NewSystemCatalog(cfg.Labels.Systems),
		service.WithDocumentURL(label.URL),
	)

	// New sessions start from the durable layout record.
	layoutStore := settings.NewStore(cfg.Settings.LayoutPath)
	layout, err := layoutStore.Load()
	if err != nil {
		log.Warn().Err(err).Str("path", layoutStore.Path()).Msg("Failed to load layout settings, using defaults")
	}

	var operators *service.OperatorTokens
	if cfg.Auth.OperatorTokenSecret != "" {
		operators = service.NewOperatorTokens(cfg.Auth.OperatorTokenSecret)
	}

	components := &ServiceComponents{
		Labels:    labels,
		Documents: documents,
		Sessions:  workflow.NewRegistry(labels, cfg.Server.SessionIdleTTL, workflow.WithLayout(layout)),
		Operators: operators,
	}
	if cfg.Audit.Enabled && db.Audit != nil {
		components.Audit = service.NewAuditJournal(db.Audit)
		queueCfg := middleware.DefaultAuditQueueConfig()
		queueCfg.BufferSize = cfg.Audit.QueueSize
		queueCfg.Workers = cfg.Audit.Workers
		components.AuditQueue = middleware.NewAuditQueue(components.Audit, queueCfg)
	}
	return components, nil
}
