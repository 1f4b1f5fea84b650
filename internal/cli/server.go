package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"quiz-battle-service/internal/app"
	"quiz-battle-service/internal/config"
	"quiz-battle-service/internal/infra/memory"
	redisinfra "quiz-battle-service/internal/infra/redis"
	transport "quiz-battle-service/internal/transport/http"
)

// sessionIndex is implemented by session stores that can report idle sessions.
type sessionIndex interface {
	app.SessionRepository
	Idle(cutoff time.Time) []string
}

func newStartCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}

	src, err := openCatalogSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer src.close()
	checks := src.checks

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		checks["redis"] = transport.CheckFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		logger.Info("using redis", "addr", cfg.Redis.Addr)
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)

	var catalogs app.CatalogRepository
	var store sessionIndex
	if redisClient != nil {
		catalogs = redisinfra.NewCatalogRepository(redisClient, src.loader, catalogTTL)
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		catalogs = memory.NewCatalogRepository(src.loader, catalogTTL)
		store = memory.NewSessionStore()
	}
	service := app.NewGameService(store, catalogs)

	addr := ":" + cfg.Server.Port
	srv := transport.New(addr, logger, transport.Options{
		Service:        service,
		Checks:         checks,
		DefaultCatalog: cfg.Catalog.Default,
		ImagesDir:      cfg.Images.Dir,
		Placeholder:    cfg.Images.Placeholder,
		PublicURL:      cfg.Server.PublicURL,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", addr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	idleTTL := config.TTLDuration(cfg.Session.IdleTTL, 2*time.Hour)
	g.Go(func() error {
		sweepIdleSessions(gctx, logger, service, store, idleTTL, time.Minute)
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// sweepIdleSessions closes sessions without actions for longer than idle.
func sweepIdleSessions(ctx context.Context, logger *slog.Logger, service *app.GameService, store sessionIndex, idle, every time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, id := range store.Idle(now.Add(-idle)) {
				if err := service.Close(ctx, id); err == nil {
					logger.Info("closed idle session", "session_id", id)
				}
			}
		}
	}
}
