package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/config"
)

const defaultSecret = "dev-secret-change-me"

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <client-id>",
		Short: "Mint an API token",
		Long: `Mint a bearer token for the adjudication server. The signing secret is
read from JWT_SECRET (or .env), the same way the server reads it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == defaultSecret {
				log.Warn().Msg("Signing with the development secret; set JWT_SECRET")
			}

			tok, err := auth.NewJWTManager(cfg.JWTSecret).GenerateToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
			return nil
		},
	}
}
