// Package cli provides the command-line interface for implicit.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/soypat/implicit/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store the logger in context.
type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "implicit",
		Short: "Polygonize implicit surfaces",
		Long: `implicit turns surfaces given by an equation f(x,y,z)=0 into triangle meshes.

Interval arithmetic discards regions of space that cannot contain the surface,
so only cells the surface passes through are sampled and triangulated.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, _ := config.ParseLevel(cfg.LogLevel)
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if f := cfg.ConfigFile(); f != "" {
				logger.Debug("using config file", "path", f)
			}
			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./implicit.yaml)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	addSurfaceFlags(rootCmd)

	rootCmd.AddCommand(newMeshCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newBoundCommand())
	rootCmd.AddCommand(newVersionCommand(Version))
	return rootCmd
}

// addSurfaceFlags registers the flags selecting a surface and its domain.
func addSurfaceFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("surface", "s", config.DefaultSurface, "Catalog surface name (see list)")
	flags.StringP("expression", "e", "", "Surface expression, overrides --surface")
	flags.Float64P("resolution", "r", 0, "Largest cell edge (default: surface resolution)")
	flags.Float64("domain-min", 0, "Domain lower bound for every axis")
	flags.Float64("domain-max", 0, "Domain upper bound for every axis")
	flags.Float64Slice("domain-x", nil, "Domain x range as lo,hi")
	flags.Float64Slice("domain-y", nil, "Domain y range as lo,hi")
	flags.Float64Slice("domain-z", nil, "Domain z range as lo,hi")
	flags.Bool("canonicalize", false, "Merge overlapping interval set members during search")
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getConfig retrieves the config from the command context.
func getConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		Surface:  config.DefaultSurface,
		Format:   config.DefaultFormat,
		LogLevel: config.DefaultLogLevel,
	}
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
