package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/service"
)

func newTokenCommand() *cobra.Command {
	var (
		operator string
		secret   string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an operator token for the server's OPERATOR_TOKEN_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := service.NewOperatorTokens(secret).Issue(operator, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "Operator name recorded on issued serials")
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("OPERATOR_TOKEN_SECRET"), "Signing secret")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("operator")
	return cmd
}
