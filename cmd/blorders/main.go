// Command blorders fetches the print artwork of marketplace order exports and
// prepares print sheets.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blorders/internal/artwork"
	"blorders/internal/cache"
	"blorders/internal/config"
	"blorders/internal/gdrive"
	"blorders/internal/logging"
	"blorders/internal/metrics"
	"blorders/internal/resolve"
)

var (
	cfgFile   string
	dev       bool
	logLevel  string
	localRoot string

	cfg     *config.Config
	logger  *zap.Logger
	mreg    *metrics.Registry
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "blorders",
	Short: "Fetch artwork for marketplace print orders",
	Long: `blorders reads a marketplace order export, works out the design of every
order line and downloads its artwork from Google Drive into folders sorted by
color and product category.

Artwork is looked up in one Drive folder per product group and color, set in
blorders.yaml or BLORDERS_SCOPES_* variables. --local-root searches a local
mirror made by "blorders mirror" instead.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger, err = logging.New(level, dev)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		mreg = metrics.NewRegistry()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		closers = nil
		if cfg != nil && cfg.MetricsTextfile != "" && mreg != nil {
			errs = append(errs, mreg.WriteTextfile(cfg.MetricsTextfile))
		}
		if logger != nil {
			_ = logger.Sync()
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./blorders.yaml or $HOME/.blorders/blorders.yaml)")
	rootCmd.PersistentFlags().BoolVar(&dev, "dev", false, "human readable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&localRoot, "local-root", "", "search a local mirror instead of Google Drive")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func onClose(fn func() error) { closers = append(closers, fn) }

// remoteStore opens the artwork store: the local mirror when --local-root is
// set, Google Drive otherwise.
func remoteStore(ctx context.Context) (artwork.Store, resolve.Scopes, error) {
	if localRoot != "" {
		logger.Info("using local mirror", zap.String("root", localRoot))
		return artwork.NewDirStore(localRoot), config.LocalTable(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	srv, err := gdrive.NewService(ctx, cfg.Drive)
	if err != nil {
		return nil, nil, err
	}
	return gdrive.NewStore(srv, logger), cfg.Scopes.Table(), nil
}

// cacheStore is the persistent cache under cache.dir, or a per-run map.
func cacheStore() (cache.Store, error) {
	if cfg.CacheDir == "" {
		return cache.NewInMemoryStore(), nil
	}
	p, err := cache.NewPebbleStore(cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	onClose(p.Close)
	return p, nil
}

// searchStore is remoteStore behind the search cache.
func searchStore(ctx context.Context) (artwork.Store, resolve.Scopes, error) {
	st, scopes, err := remoteStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	c, err := cacheStore()
	if err != nil {
		return nil, nil, err
	}
	return cache.NewCachingStore(st, c, cfg.CacheMaxAge, mreg, logger), scopes, nil
}
