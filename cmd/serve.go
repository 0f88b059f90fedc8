package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xrsl/cvlift/pkg/config"
	clog "github.com/xrsl/cvlift/pkg/log"
	"github.com/xrsl/cvlift/pkg/session"
	"github.com/xrsl/cvlift/pkg/signal"
	"github.com/xrsl/cvlift/pkg/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the landing page and editor web service",
	Long: `Serve the landing page, the resume editor and the JSON API until
interrupted. Runs in flight when the server stops are cancelled and their
visitors see a failure notification.`,
	Example: `  cvlift serve
  cvlift serve --addr :9000
  CVLIFT_BACKEND_ENDPOINT=https://api.example.com/edit-resume cvlift serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address host:port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyAddr(&cfg.Server, serveAddr); err != nil {
		return err
	}

	enhancer, err := newEnhancer(cfg.Backend)
	if err != nil {
		return err
	}
	if enhancer == nil {
		clog.Info("no backend endpoint configured, running simulated workflow")
	} else {
		clog.Info("backend enabled", "endpoint", cfg.Backend.Endpoint, "max_retries", cfg.Backend.MaxRetries)
	}

	ctx, cancel := signal.WithInterrupt(cmd.Context())
	defer cancel()

	store := session.NewStore(cfg.Session.TTL)
	app, err := web.New(ctx, web.Options{
		Store:    store,
		Delay:    cfg.Workflow.RunnerDelay(),
		Enhancer: enhancer,
		Version:  Version,
		Logger:   clog.Logger(),
	})
	if err != nil {
		return err
	}
	srv := web.NewServer(cfg.Server, app, clog.Logger())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return store.Run(gctx, 0) })
	return g.Wait()
}
