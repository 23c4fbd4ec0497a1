package cmd

import (
	"errors"
	"fmt"
	"time"

	"Beamcalc/internal/auth"
	"Beamcalc/internal/config"

	"github.com/spf13/cobra"
)

var (
	tokenConfig  string
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a signed bearer token for the /beam endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load(tokenConfig)
		if err != nil {
			return err
		}
		if cfg.Auth.TokenKey == "" {
			return errors.New("no token key: set auth.token_key or BEAM_TOKEN_KEY")
		}
		tok, err := auth.IssueToken([]byte(cfg.Auth.TokenKey), tokenSubject, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenConfig, "config", "c", "", "path to the YAML config file")
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "token subject (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
	tokenCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(tokenCmd)
}
