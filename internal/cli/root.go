package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"quiz-battle-service/internal/config"
)

const defaultConfigPath = "config/config.yaml"

type rootOptions struct {
	configPath string
	port       string
	logLevel   string
}

// Execute runs the CLI until the command finishes or SIGINT/SIGTERM arrives.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = defaultConfigPath
	}

	cmd := &cobra.Command{
		Use:           "quiz-battle",
		Short:         "Two-team trivia game server and console",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := cmd.PersistentFlags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	flags.StringVar(&opts.port, "port", "", "port to listen on (overrides server.port)")
	flags.StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides log.level)")

	cmd.AddCommand(newStartCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newPlayCmd(opts))
	cmd.AddCommand(newCatalogCmd(opts))
	return cmd
}

// load resolves the config file, environment and flag overrides in that order.
// A missing file at the default location is not an error.
func (o *rootOptions) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil && errors.Is(err, fs.ErrNotExist) && o.configPath == defaultConfigPath {
		cfg, err = config.Load("")
	}
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
}
