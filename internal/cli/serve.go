package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/draftforge/draftforge/internal/server"
	"github.com/draftforge/draftforge/pkg/cache"
	"github.com/draftforge/draftforge/pkg/config"
	"github.com/draftforge/draftforge/pkg/export"
	"github.com/draftforge/draftforge/pkg/history"
)

func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the export HTTP API",
		Long: `Serve starts the draftforge HTTP API.

The cache backend is Redis when redis.addr is configured, a file cache
otherwise. Export history goes to MongoDB when mongo.uri is configured,
in-memory otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			c, err := serveCache(ctx, cfg)
			if err != nil {
				return err
			}

			store, err := serveStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close(context.Background()) }()

			exporter := export.New(c, serveKeyer(cfg), logger)
			defer func() { _ = exporter.Close() }()

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(exporter, store, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("listening", "addr", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: ./draftforge.toml)")

	return cmd
}

func serveCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if !cfg.Cache.Enabled {
		return cache.NewNullCache(), nil
	}
	if cfg.Redis.Addr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.NewFileCache(cfg.CacheDir())
}

// serveKeyer namespaces cache keys when cache.scope is configured. A nil
// return means the exporter's default keyer.
func serveKeyer(cfg *config.Config) cache.Keyer {
	if cfg.Cache.Scope == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, cfg.Cache.Scope+":")
}

func serveStore(ctx context.Context, cfg *config.Config) (history.Store, error) {
	if cfg.Mongo.URI != "" {
		return history.NewMongoStore(ctx, history.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	}
	return history.NewMemoryStore(), nil
}
