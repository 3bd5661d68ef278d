package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"creatorpay/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report endpoint over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			p, err := ctx.pipeline()
			if err != nil {
				return err
			}
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			opts := server.Options{
				Bind:           cfg.Server.Bind,
				MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
				ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
				LockDir:        cfg.Server.LockDir,
				DefaultModel:   cfg.Report.Model,
			}
			if b := strings.TrimSpace(bind); b != "" {
				opts.Bind = b
			}
			srv, err := server.New(p, catalog, opts, logger)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(runCtx)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default server.bind)")
	return cmd
}
