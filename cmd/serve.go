package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Beamcalc/internal/config"
	"Beamcalc/internal/logging"
	"Beamcalc/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	serveConfig string
	serveAddr   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Configuration is read from --config (default configs/config.yaml when it
exists), after loading a .env file if present. BEAM_SECTION_I,
BEAM_SECTION_S, BEAM_SECTION_E and BEAM_TOKEN_KEY override the file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		cfg, err := config.Load(serveConfig)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		srv, err := server.New(cfg, logger, reg)
		if err != nil {
			return err
		}
		if cfg.Auth.TokenKey == "" {
			logger.Warn("auth.token_key is empty, /beam endpoints are unauthenticated")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "path to the YAML config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides server.addr")
	rootCmd.AddCommand(serveCmd)
}
