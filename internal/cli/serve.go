package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/internal/metrics"
	"github.com/matzehuels/floorwalk/internal/server"
	"github.com/matzehuels/floorwalk/pkg/config"
	"github.com/matzehuels/floorwalk/pkg/history"
	"github.com/matzehuels/floorwalk/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve route queries over HTTP",
		Long: `Serve route queries over HTTP. The graph is built once at startup and can be
rebuilt without downtime with POST /v1/reload; queries keep using the previous
graph until the new one is published.

Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			var m *metrics.Metrics
			if !noMetrics {
				m = metrics.New(nil)
				observability.SetIngestHooks(m)
				observability.SetQueryHooks(m)
				observability.SetCacheHooks(m)
				defer observability.Reset()
			}

			store, err := newHistory(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			r, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer r.Close()

			if _, err := c.load(ctx, cmd.ErrOrStderr(), r); err != nil {
				logger.Error("initial graph load failed; serving until a reload succeeds", "err", err)
			}

			srv := server.New(server.Config{
				Runner:  r,
				History: store,
				Metrics: m,
				Logger:  logger,
			})
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}

// newHistory opens the configured query history store.
func newHistory(ctx context.Context, cfg config.Config) (history.Store, error) {
	switch cfg.History.Backend {
	case config.HistoryNone:
		return history.NullStore{}, nil
	case config.HistoryMongo:
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.History.MongoURI,
			Database:   cfg.History.Database,
			Collection: cfg.History.Collection,
		})
	}
	return history.NewMemoryStore(cfg.History.Limit), nil
}
