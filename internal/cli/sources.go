package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/config"
	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/infra/memory"
	"quiz-battle-service/internal/infra/postgres"
	"quiz-battle-service/internal/infra/sqlite"
	transport "quiz-battle-service/internal/transport/http"
)

// catalogSource is the configured backing loader plus whatever it needs
// checked and closed.
type catalogSource struct {
	loader catalog.Loader
	checks map[string]transport.Checker
	close  func()
}

func openCatalogSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (catalogSource, error) {
	src := catalogSource{checks: map[string]transport.Checker{}, close: func() {}}

	switch cfg.Catalog.Source {
	case config.SourceStatic:
		src.loader = memory.NewStaticCatalogLoader(sampleCatalogs())
	case config.SourceFile:
		src.loader = catalog.NewFileLoader(cfg.Catalog.Dir)
	case config.SourceHTTP:
		if cfg.Catalog.URL == "" {
			return src, fmt.Errorf("catalog.url not configured")
		}
		src.loader = catalog.NewHTTPLoader(cfg.Catalog.URL, nil)
	case config.SourcePostgres:
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return src, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return src, fmt.Errorf("connecting to postgres: %w", err)
		}
		store := postgres.NewCatalogStore(pool)
		src.loader = store
		src.checks["postgres"] = transport.CheckFunc(store.Ping)
		src.close = pool.Close
	case config.SourceSQLite:
		store, err := sqlite.NewCatalogStore(cfg.SQLite.Path)
		if err != nil {
			return src, fmt.Errorf("opening sqlite: %w", err)
		}
		src.loader = store
		src.checks["sqlite"] = transport.CheckFunc(store.Ping)
		src.close = func() { _ = store.Close() }
	default:
		return src, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}

	logger.Info("catalog source ready", "source", cfg.Catalog.Source)
	return src, nil
}

// sampleCatalogs backs the static source; swap it for a file, HTTP or database source in production.
func sampleCatalogs() map[string]domain.Catalog {
	return map[string]domain.Catalog{
		"default": {
			Categories: []domain.Category{
				{
					Name: "General",
					Questions: []domain.Question{
						{Text: "What is 2 + 2?", Points: 10, Grading: domain.ChoiceGrading{Options: []string{"3", "4", "5"}, Correct: "4"}},
						{Text: "Which planet is known as the Red Planet?", Points: 20, Grading: domain.ChoiceGrading{Options: []string{"Venus", "Mars", "Jupiter"}, Correct: "Mars"}},
					},
				},
				{
					Name: "Open Round",
					Questions: []domain.Question{
						{Text: "Name three primary colours.", Points: 30, Grading: domain.RevealGrading{Answer: "Red, yellow and blue"}},
					},
				},
			},
		},
	}
}
