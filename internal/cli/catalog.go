package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/config"
	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
	"quiz-battle-service/internal/infra/postgres"
	redisinfra "quiz-battle-service/internal/infra/redis"
	"quiz-battle-service/internal/infra/sqlite"
)

// catalogStore is a writable catalog backend.
type catalogStore interface {
	catalog.Loader
	SaveCatalog(ctx context.Context, catalogID string, c domain.Catalog) error
	ListCatalogs(ctx context.Context) ([]string, error)
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and store question catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogImportCmd(opts))
	cmd.AddCommand(newCatalogListCmd(opts))
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Parse and validate a JSON or YAML catalog document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.ReadFile(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newCatalogImportCmd(opts *rootOptions) *cobra.Command {
	var id, target string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store a catalog document in Postgres or SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			c, err := catalog.ReadFile(args[0])
			if err != nil {
				return err
			}
			if id == "" {
				return fmt.Errorf("--id is required")
			}

			store, closeStore, err := openCatalogStore(ctx, cfg, target)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := store.SaveCatalog(ctx, id, c); err != nil {
				return err
			}

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
				defer client.Close()
				if err := redisinfra.NewCatalogRepository(client, store, 0).Invalidate(ctx, id); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: cached copy not invalidated: %v\n", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %q\n", id)
			printSummary(cmd.OutOrStdout(), c)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "catalog id to store under")
	cmd.Flags().StringVar(&target, "to", "", "postgres or sqlite (defaults to postgres when postgres.url is set)")
	return cmd
}

func newCatalogListCmd(opts *rootOptions) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored catalog ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			store, closeStore, err := openCatalogStore(cmd.Context(), cfg, target)
			if err != nil {
				return err
			}
			defer closeStore()
			ids, err := store.ListCatalogs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "from", "", "postgres or sqlite (defaults to postgres when postgres.url is set)")
	return cmd
}

func openCatalogStore(ctx context.Context, cfg config.Config, target string) (catalogStore, func(), error) {
	if target == "" {
		target = config.SourceSQLite
		if cfg.Postgres.URL != "" {
			target = config.SourcePostgres
		}
	}
	switch target {
	case config.SourcePostgres:
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return nil, nil, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return postgres.NewCatalogStore(pool), pool.Close, nil
	case config.SourceSQLite:
		store, err := sqlite.NewCatalogStore(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog store %q", target)
	}
}

func printSummary(w io.Writer, c domain.Catalog) {
	summaries := game.Summarize(c)
	questions := 0
	for _, s := range summaries {
		questions += s.Questions
	}
	fmt.Fprintf(w, "ok: %d categories, %d questions\n", len(summaries), questions)
	for _, s := range summaries {
		fmt.Fprintf(w, "  %s: %d questions, %d pts\n", s.Name, s.Questions, s.TotalPoints)
	}
}
