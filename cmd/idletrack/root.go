package main

import (
	"fmt"
	"os"

	"codeberg.org/mutker/idletrack/internal/config"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/sampler"
	"codeberg.org/mutker/idletrack/internal/stats"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries what every command shares once flags are parsed.
type app struct {
	configPath string
	loader     *config.Loader
	cfg        *config.Config
	clock      stats.Clock
}

func newApp() *app {
	return &app{clock: sampler.RealClock{}}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "idletrack",
		Short: "Track active and idle time on this machine",
		Long: `idletrack samples keyboard and mouse activity about once a second and
keeps a compact timeline of active and idle periods. Run the daemon with
"idletrack run" and query it with "status" and "day".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to idletrack.toml")
	flags.String("db", "", "Path to the period database")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("idle-timeout", "", "Idle timeout as minutes or a duration such as 90s")

	root.AddCommand(
		newRunCmd(a),
		newStatusCmd(a),
		newDayCmd(a),
		newForgetCmd(a),
		newPruneCmd(a),
	)

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	opts := []config.Option{config.WithFlags(cmd.Flags())}
	if a.configPath != "" {
		opts = append(opts, config.WithConfigFile(a.configPath))
	}

	loader, err := config.NewLoader(opts...)
	if err != nil {
		return err
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.loader, a.cfg = loader, cfg

	logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		IsService:  logger.IsService(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	logger.Debug().Str("file", cfg.File).Msg("Config loaded")

	return nil
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := newRootCmd(newApp()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
