package ui

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/logging"
	"github.com/javiermolinar/bangumi/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the guide over HTTP",
		Long: `Serve the stored snapshot as a JSON API.

Endpoints:
  GET /health
  GET /api/tabs
  GET /api/tabs/:tab/columns
  GET /api/tabs/:tab/days/:day
  GET /api/programs/:id`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.config.Server.Addr
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			opts, err := a.guideOptions()
			if err != nil {
				return err
			}

			logger := logging.Component(a.logger, "server")
			h := server.NewHandler(repo, opts, column.DefaultTabs(), logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
			return server.Run(ctx, addr, server.NewRouter(h, logger), logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")
	return cmd
}
