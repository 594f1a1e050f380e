package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/privdiag/internal/api"
	"github.com/ppiankov/privdiag/internal/logger"
	"github.com/ppiankov/privdiag/internal/pipeline"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring and tag report API over HTTP",
	Long: `Starts an HTTP API for the companion app and other local tools.

Endpoints:
  GET  /health
  POST /api/v1/privacy/score    score a fact set
  POST /api/v1/privacy/report   full device report from a snapshot
  GET  /api/v1/privacy/last     most recent device report
  POST /api/v1/nfc/report       tag report from a tag descriptor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		log := logger.Global()
		p := pipeline.NewPipeline(cfg, pipeline.Options{Logger: log})
		handlers := api.NewHandlers(p, Version, log)
		router := api.NewRouter(cfg.Server, handlers, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.NewServer(cfg.Server, router.Setup(), log).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}
