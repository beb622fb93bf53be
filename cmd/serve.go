package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"seasonvar/internal/api"
	"seasonvar/internal/service"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Long: `Serve the catalog over HTTP:

  GET /api/start                     top-level categories
  GET /api/search?q=<query>          search results
  GET /api/category?name=&url=       items of a listing page
  GET /api/episodes?url=<series>     episodes of a series
  GET /api/video?url=<episode>       stream links of an episode
  GET /metrics                       prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default: 127.0.0.1:8089)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src := service.NewSource(a.svc)
	handler := api.NewHandler(src, a.metrics.Handler(), logger.With("component", "api"))
	return api.Run(ctx, cfg.Listen, handler, src, logger)
}
