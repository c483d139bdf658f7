package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ForestMars/DrZONST"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drzonst",
	Short: "Turns product requirement documents into domain models and API schemas",
	Long: `DrZONST parses a product requirements document, infers a domain-driven
design model from it, writes the model in domain notation and can transpile
that notation into a TypeSpec schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to drzonst.yaml (default: discovered above the input)")
}

// options builds the pipeline options for an input located at path. An
// explicit --config wins over discovery.
func options(path string) []drzonst.Option {
	opts := []drzonst.Option{drzonst.WithLogger(slog.Default())}

	if configPath != "" {
		cfg, err := drzonst.LoadConfig(configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		return append(opts, drzonst.WithConfig(cfg))
	}

	start := "."
	if path != "" {
		start = filepath.Dir(path)
	}
	cfg, found, err := drzonst.DiscoverConfig(start)
	if err != nil {
		fatal("Failed to load config", err)
	}
	if found != "" {
		slog.Debug("using config", "path", found)
		opts = append(opts, drzonst.WithConfig(cfg))
	}
	return opts
}
