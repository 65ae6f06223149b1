// Package cli implements the crystalctl command tree: validate, render,
// export, and laws, sharing the same pipeline service as the HTTP API.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gemmology-dev/crystal-api/internal/application/crystal"
	"github.com/gemmology-dev/crystal-api/internal/config"
	cacheredis "github.com/gemmology-dev/crystal-api/internal/infrastructure/cache/redis"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Output     string
}

// cliContextKey is the context key for the shared CLI dependencies.
type cliContextKey struct{}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	Service crystal.Service
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "crystalctl",
		Short:   "crystalctl — render and export crystal geometry from CDL expressions",
		Long:    "crystalctl runs the crystal-api pipeline locally: it parses Crystal\nDescription Language expressions, expands forms by point-group symmetry,\nintersects the resulting half-spaces, and renders or exports the geometry.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initContext(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "path to configuration file (optional)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	pf.StringVarP(&opts.Output, "output", "o", "", "write output to file instead of stdout")

	cmd.AddCommand(
		newValidateCommand(),
		newRenderCommand(),
		newExportCommand(),
		newLawsCommand(),
	)
	return cmd
}

// initContext loads configuration, builds the logger and pipeline service,
// and stores them on the command context.
func initContext(cmd *cobra.Command, opts *RootOptions) error {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg = config.NewDefaultConfig()
	}

	logger, err := logging.NewLogger(logging.LogConfig{Level: opts.LogLevel, Format: "console"})
	if err != nil {
		return err
	}

	// The CLI runs the pipeline in-process: no metrics registry, pass-through
	// cache.
	svc := crystal.NewService(logger, nil, cacheredis.NewNop())

	cliCtx := &CLIContext{Config: cfg, Logger: logger, Service: svc}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// getCLIContext extracts the shared dependencies from the command context.
func getCLIContext(cmd *cobra.Command) *CLIContext {
	ctx, _ := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	return ctx
}

// readCDLArg resolves the CDL expression argument: a literal expression, or
// "-" to read from stdin.
func readCDLArg(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read CDL from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeOutput writes data to the --output file, or stdout when unset.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// outputFlag returns the global --output value.
func outputFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("output")
	return v
}

// Execute runs the root command, printing errors to stderr.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
