// Package cli implements the floorwalk command-line interface.
//
// Every query command reads the building's floor drawings (or a JSON graph
// export passed with --graph), builds the navigation graph and answers one
// question:
//   - route: walking route between two rooms
//   - restroom: nearest restroom of a category
//   - rooms, floors: what the graph contains
//   - export: JSON, DOT, SVG, PNG or PDF rendering of the graph
//   - pick: interactive room picker
//   - serve: HTTP API with metrics and query history
//   - cache: manage the route result cache
//
// Configuration comes from a TOML file (--config) with command-line flags
// taking precedence. All commands support --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorwalk/pkg/buildinfo"
	"github.com/matzehuels/floorwalk/pkg/cache"
	"github.com/matzehuels/floorwalk/pkg/config"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
	"github.com/matzehuels/floorwalk/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "floorwalk"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	floorsDir  string
	pattern    string
	graphPath  string
	penalty    float64
	snap       float64
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Floorwalk finds walking routes through multi-floor buildings",
		Long: `Floorwalk reads one vector drawing per floor, links staircases across floors
and answers route questions: the shortest walk between two rooms, or the
nearest restroom of a category.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "TOML configuration file")
	flags.StringVar(&c.floorsDir, "floors-dir", "", "directory holding the floor drawings")
	flags.StringVar(&c.pattern, "pattern", "", "floor file name pattern with one %d (default floor_%d.svg)")
	flags.StringVar(&c.graphPath, "graph", "", "load a JSON graph export instead of reading floor drawings")
	flags.Float64Var(&c.penalty, "penalty", 0, "cost of one floor change")
	flags.Float64Var(&c.snap, "snap", 0, "maximum snap distance for line endpoints (0 = unbounded)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the route result cache")

	root.AddCommand(c.routeCommand())
	root.AddCommand(c.restroomCommand())
	root.AddCommand(c.roomsCommand())
	root.AddCommand(c.floorsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads --config and applies the flag overrides on top.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("floors-dir") {
		cfg.Building.Documents = c.floorsDir
	}
	if flags.Changed("pattern") {
		cfg.Building.Pattern = c.pattern
	}
	if flags.Changed("penalty") {
		cfg.Route.FloorPenalty = c.penalty
	}
	if flags.Changed("snap") {
		cfg.Ingest.SnapDistance = c.snap
	}
	if c.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	return cfg, cfg.Validate()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for cfg. The graph is not loaded yet.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{
		Floors: cfg.Building.Floors,
		Ingest: cfg.IngestOptions(),
		Route:  cfg.RouteOptions(),
		TTL:    cfg.Cache.TTL.Duration,
	}
	if c.graphPath == "" {
		src, err := cfg.Source()
		if err != nil {
			store.Close()
			return nil, err
		}
		opts.Source = src
	}
	return pipeline.NewRunner(store, keyerFor(cfg), c.Logger, opts), nil
}

// keyerFor scopes cache keys by building name so that buildings sharing a
// Redis instance never see each other's entries.
func keyerFor(cfg config.Config) cache.Keyer {
	if cfg.Building.Name == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, "building:"+cfg.Building.Name+":")
}

func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.Cache.RedisAddr,
			DB:     cfg.Cache.RedisDB,
			Prefix: appName + ":",
		})
	}
	dir, err := cacheDirFor(cfg)
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// load publishes the graph: the --graph export if given, the floor drawings
// otherwise.
func (c *CLI) load(ctx context.Context, w io.Writer, r *pipeline.Runner) (*pipeline.Snapshot, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if c.graphPath != "" {
		g, err := fwio.ImportJSON(c.graphPath)
		if err != nil {
			return nil, err
		}
		snap, err := r.Publish(g, nil)
		if err != nil {
			return nil, err
		}
		prog.done("Imported " + c.graphPath)
		return snap, nil
	}

	spinner := newSpinnerWithContext(ctx, w, "Reading floor drawings...")
	spinner.Start()
	snap, err := r.Reload(ctx)
	spinner.Stop()
	if err != nil {
		return nil, err
	}
	st := snap.Stats()
	for _, f := range st.Skipped {
		logger.Warn("floor skipped", "floor", f)
	}
	logger.Debug("graph built", "points", st.Points, "connections", st.Connections, "issues", st.Issues)
	prog.done("Built navigation graph")
	return snap, nil
}

// open loads the configuration, creates a runner and publishes the graph.
// The caller closes the runner.
func (c *CLI) open(cmd *cobra.Command) (*pipeline.Runner, *pipeline.Snapshot, error) {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	r, err := c.newRunner(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	snap, err := c.load(cmd.Context(), cmd.ErrOrStderr(), r)
	if err != nil {
		r.Close()
		return nil, nil, err
	}
	return r, snap, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/floorwalk/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// cacheDirFor prefers cache.dir from the configuration.
func cacheDirFor(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
