package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"quiz-battle-service/internal/catalog"
	"quiz-battle-service/internal/console"
	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var file, catalogID string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Long: "Play a full two-team game on stdin/stdout. With --catalog the questions come from a " +
			"local JSON or YAML document; otherwise from the configured catalog source.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if file != "" {
				id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
				return console.Run(ctx, id, fileFetcher(file), cmd.InOrStdin(), cmd.OutOrStdout())
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			// Logs go to stderr so they never interleave with the game.
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			src, err := openCatalogSource(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer src.close()
			if catalogID == "" {
				catalogID = cfg.Catalog.Default
			}
			return console.Run(ctx, catalogID, src.loader.LoadCatalog, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&file, "catalog", "", "path to a catalog document")
	cmd.Flags().StringVar(&catalogID, "id", "", "catalog id in the configured source (defaults to catalog.default)")
	return cmd
}

func fileFetcher(path string) game.CatalogFetcher {
	return func(context.Context, string) (domain.Catalog, error) {
		return catalog.ReadFile(path)
	}
}

