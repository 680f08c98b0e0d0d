package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/planlaunch"
	"github.com/aretw0/planlaunch/internal/config"
	"github.com/aretw0/planlaunch/internal/logging"
	"github.com/aretw0/planlaunch/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/planlaunch/pkg/adapters/redis"
	"github.com/aretw0/planlaunch/pkg/adapters/sqlite"
	"github.com/aretw0/planlaunch/pkg/ament"
	"github.com/aretw0/planlaunch/pkg/ports"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "planlaunch",
		Short: "Launch the temporal planning stack",
		Long: `planlaunch composes the temporal planning launch description (plansys2 bringup
with the durative-actions PDDL domain plus the five action nodes), resolves it
against the packages in AMENT_PREFIX_PATH and supervises the resulting processes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("prefix-path") {
				cfg.AmentPrefixPath, _ = cmd.Flags().GetString("prefix-path")
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a TOML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("prefix-path", "", "Install prefixes to search, overriding AMENT_PREFIX_PATH")

	rootCmd.AddCommand(
		newDescribeCmd(a),
		newArgsCmd(a),
		newGraphCmd(a),
		newRunCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) index() ament.Index {
	return ament.FromPathList(a.cfg.AmentPrefixPath)
}

func (a *app) colorProfile(w io.Writer) termenv.Profile {
	if !a.cfg.Color {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// storage opens the configured run store and namespace locker.
// The returned func closes whatever was opened.
func (a *app) storage() (ports.RunStore, ports.NamespaceLocker, func() error, error) {
	switch a.cfg.Store {
	case config.StoreRedis:
		store := redisAdapter.New(a.cfg.RedisAddr, "", 0, redisAdapter.WithTTL(a.cfg.RunTTL))
		locker := redisAdapter.NewLocker(store.Client(), "planlaunch:")
		return store, locker, store.Close, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(a.cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, memory.NewLocker(), store.Close, nil
	}
	return memory.NewStore(), memory.NewLocker(), func() error { return nil }, nil
}

// launcher builds a Launcher from the configuration.
func (a *app) launcher(cmd *cobra.Command, opts ...planlaunch.Option) (*planlaunch.Launcher, func() error, error) {
	store, locker, closeStore, err := a.storage()
	if err != nil {
		return nil, nil, err
	}
	base := []planlaunch.Option{
		planlaunch.WithIndex(a.index()),
		planlaunch.WithLogger(a.logger),
		planlaunch.WithRunStore(store),
		planlaunch.WithNamespaceLocker(locker),
		planlaunch.WithConsole(cmd.OutOrStdout()),
		planlaunch.WithColorProfile(a.colorProfile(cmd.OutOrStdout())),
		planlaunch.WithLogDir(a.cfg.LogDir),
		planlaunch.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		planlaunch.WithLeaseTTL(a.cfg.LeaseTTL),
	}
	l, err := planlaunch.New(append(base, opts...)...)
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return l, closeStore, nil
}

// parseLaunchArgs reads "name:=value" pairs, as accepted by ros2 launch.
func parseLaunchArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, ":=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid launch argument %q (expected name:=value)", pair)
		}
		clean, err := sanitizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("launch argument %s: %w", name, err)
		}
		out[name] = clean
	}
	return out, nil
}

// launchArgs merges --arg flags with positional name:=value arguments.
func launchArgs(cmd *cobra.Command, positional []string) (map[string]string, error) {
	flagged, _ := cmd.Flags().GetStringArray("arg")
	return parseLaunchArgs(append(flagged, positional...))
}

func addArgFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("arg", nil, "Launch argument as name:=value (repeatable)")
}
