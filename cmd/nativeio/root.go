package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hupe1980/nativeio"
	"github.com/hupe1980/nativeio/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	v      *viper.Viper
	logger *nativeio.Logger
	fs     *nativeio.FS
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:          "nativeio",
		Short:        "Native file I/O toolbox",
		Long:         "Inspect page-cache behavior, issue fadvise/madvise hints and copy files with direct I/O.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config `file` (yaml, json or toml)")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")

	root.AddCommand(
		newPageSizeCmd(a),
		newFadviseCmd(a),
		newMadviseCmd(a),
		newPreloadCmd(a),
		newStatCmd(a),
		newCopyCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	a.v.SetEnvPrefix("NATIVEIO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.BindPFlag("log.level", flags.Lookup("log-level")); err != nil {
		return err
	}
	if err := a.v.BindPFlag("log.format", flags.Lookup("log-format")); err != nil {
		return err
	}

	if file, _ := flags.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), a.v.GetString("log.level"), a.v.GetString("log.format"))
	if err != nil {
		return err
	}
	a.logger = logger
	a.fs = nativeio.New(nativeio.WithLogger(logger))
	return nil
}

func newLogger(w io.Writer, level, format string) (*nativeio.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: l}
	switch strings.ToLower(format) {
	case "text":
		return nativeio.NewLogger(slog.NewTextHandler(w, opts)), nil
	case "json":
		return nativeio.NewLogger(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}
}

// storeConfig loads the "store" section on top of the defaults.
func (a *app) storeConfig() (store.Config, error) {
	cfg := store.DefaultConfig()
	if err := a.v.UnmarshalKey("store", &cfg); err != nil {
		return cfg, fmt.Errorf("decode store config: %w", err)
	}
	return cfg, cfg.Validate()
}
