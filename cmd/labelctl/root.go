package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/client"
	"github.com/guttosm/label-service/internal/settings"
)

const defaultServer = "localhost:8080"

type commandContext struct {
	server       string
	apiKey       string
	token        string
	settingsPath string
}

func (c *commandContext) client() (*client.Client, error) {
	return client.New(c.server, client.WithAPIKey(c.apiKey), client.WithOperatorToken(c.token))
}

func (c *commandContext) settingsStore() *settings.Store {
	return settings.NewStore(c.settingsPath)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "labelctl",
		Short:         "Issue, print and audit serial number labels",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.server, "server", envOr("LABEL_SERVER", defaultServer), "Label server address")
	flags.StringVar(&ctx.apiKey, "api-key", os.Getenv("LABEL_API_KEY"), "API key sent as X-API-Key")
	flags.StringVar(&ctx.token, "token", os.Getenv("LABEL_OPERATOR_TOKEN"), "Operator bearer token")
	flags.StringVar(&ctx.settingsPath, "settings", envOr("LAYOUT_SETTINGS_PATH", settings.DefaultFileName), "Layout settings file")

	rootCmd.AddCommand(newSystemsCommand(ctx))
	rootCmd.AddCommand(newPrintersCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newAuditCommand(ctx))
	rootCmd.AddCommand(newIssueCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand(ctx))
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
