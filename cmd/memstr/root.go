package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/memstr"
)

var (
	rootOpts = struct {
		logLevel string
		json     bool
	}{}

	logger = memstr.NoopLogger()

	rootCmd = &cobra.Command{
		Use:          "memstr",
		Short:        "Memory and string primitive toolbox",
		Long:         "Inspect kernel selection, benchmark and stress test the memory and string primitives, and run WebAssembly guests against them.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(rootOpts.logLevel)
			if err != nil {
				return err
			}
			if rootOpts.json {
				logger = memstr.NewJSONLogger(level)
			} else {
				logger = memstr.NewTextLogger(level)
			}
			return nil
		},
	}
)

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootOpts.logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&rootOpts.json, "json", false, "emit JSON logs")

	rootCmd.AddCommand(capsCmd, benchCmd, stressCmd, runCmd)
}
