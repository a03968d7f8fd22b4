package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Textrux/textrux/internal/api"
	"github.com/Textrux/textrux/pkg/cache"
	"github.com/Textrux/textrux/pkg/pipeline"
	"github.com/Textrux/textrux/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		store     string
		dataDir   string
		cacheKind string
		redisAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve runs the grid workspace API. Workspaces live in the selected
store and expire after a day of inactivity; analysis results are memoized
in the selected cache.

Stores: memory (default), file. Caches: memory (default), file, redis,
none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg := c.Config.Server

			// Flags override config.
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store = store
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if cmd.Flags().Changed("cache") {
				cfg.Cache = cacheKind
			}
			if cmd.Flags().Changed("redis-addr") {
				cfg.RedisAddr = redisAddr
			}

			sessions, err := newSessionStore(cfg)
			if err != nil {
				return err
			}
			defer sessions.Close()

			analysisCache, err := newServerCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer analysisCache.Close()

			server := api.NewServer(sessions, pipeline.NewRunner(analysisCache, logger), logger)
			httpServer := &http.Server{
				Addr:              cfg.Addr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Shut down cleanly when the command context is canceled
			// (SIGINT/SIGTERM from main).
			errCh := make(chan error, 1)
			go func() {
				logger.Info("server listening", "addr", cfg.Addr, "store", cfg.Store, "cache", cfg.Cache)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				logger.Info("shutting down")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&store, "store", "memory", "workspace store: memory, file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "directory for the file store (default ~/.config/textrux/workspaces)")
	cmd.Flags().StringVar(&cacheKind, "cache", "memory", "analysis cache: memory, file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for the redis cache")

	return cmd
}

func newSessionStore(cfg ServerConfig) (session.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return session.NewMemoryStore(session.DefaultTTL), nil
	case "file":
		return session.NewFileStore(cfg.DataDir, session.DefaultTTL)
	default:
		return nil, fmt.Errorf("unknown store %q (want memory or file)", cfg.Store)
	}
}

func newServerCache(ctx context.Context, cfg ServerConfig) (cache.Cache, error) {
	switch cfg.Cache {
	case "", "memory":
		return cache.NewMemoryCache(), nil
	case "file":
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache %q (want memory, file, redis, or none)", cfg.Cache)
	}
}
