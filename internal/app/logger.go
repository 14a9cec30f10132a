package app

import (
	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/logger"
)

// InitializeLogger initializes the global logger from configuration.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, logger.PrettyDefault(cfg.Pretty))
}
