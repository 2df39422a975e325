package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/internal/api"
	"github.com/labelpress/labelpress/pkg/cache"
	"github.com/labelpress/labelpress/pkg/config"
	"github.com/labelpress/labelpress/pkg/mint"
	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render/sheet"
	"github.com/labelpress/labelpress/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr       string
	configPath string
	cacheDir   string
	mongoURI   string
	mongoDB    string
	redisAddr  string
	redisDB    int
}

// newServeCmd creates the serve command: run the rendering API with
// either in-memory backends (development) or MongoDB and Redis.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rendering API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for the artifact cache (disabled when empty)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string (in-memory store when empty)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", "labelpress", "MongoDB database name")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the token store (in-memory when empty)")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}

	var templates store.TemplateStore
	var entities store.EntityStore
	if opts.mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return err
		}
		defer ms.Close(context.Background())
		templates, entities = ms, ms
		logger.Info("using MongoDB template store", "database", opts.mongoDB)
	} else {
		mem := store.NewMemoryStore()
		templates, entities = mem, mem
		logger.Warn("using in-memory template store; data is not persisted")
	}

	var minter mint.Minter
	if opts.redisAddr != "" {
		rm, err := mint.NewRedisMinter(ctx, mint.RedisConfig{Addr: opts.redisAddr, DB: opts.redisDB})
		if err != nil {
			return err
		}
		defer rm.Close()
		minter = rm
		logger.Info("using Redis token store", "addr", opts.redisAddr)
	} else {
		minter = mint.NewMemoryMinter()
		logger.Warn("using in-memory token store; tokens are not persisted")
	}

	var artifacts cache.Cache
	if opts.cacheDir != "" {
		var err error
		artifacts, err = cache.NewFileCache(opts.cacheDir)
		if err != nil {
			return err
		}
		defer artifacts.Close()
	}

	runner := &pipeline.Runner{
		Templates: templates,
		Entities:  entities,
		Minter:    minter,
		Composer:  sheet.NewComposer(nil),
		Config:    cfg,
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.NewServer(runner, artifacts, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
