// Package main is the entry point for the label-service application.
//
// @title           Label Service API
// @version         1.0.0
// @description     API for issuing batches of sequential serial labels.
//
//	Checks serials against the issued history, renders PDF label sheets with QR codes and sends them to a printer.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/guttosm/label-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Required if authentication is enabled.
//
// @securityDefinitions.apikey  OperatorToken
// @in                          header
// @name                        Authorization
// @description                 Operator bearer token, minted with labelctl token.
//
// @tag.name        Labels
// @tag.description Batch duplicate checks, generation, download and printing
//
// @tag.name        Sessions
// @tag.description Server-hosted issuance workflows
//
// @tag.name        Audit
// @tag.description Operator action journal
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/guttosm/label-service/docs" // swagger docs

	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := a.Run(ctx); err != nil {
		stop()
		log.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}
