// Package cli defines the command-line interface for clientkit.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigPath   string
	ProjectRoot  string
	TemplatesDir string
	LogLevel     logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		ConfigPath:  config.DefaultFileName,
		ProjectRoot: ".",
		LogLevel:    logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
// Running the root command itself performs the integration.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "clientkit",
		Short:         "clientkit integrates the error-reporting SDK into a project",
		Long:          "clientkit detects a project's language, obtains a DSN (from flags, the environment, the provisioning API or a prompt) and installs the error-reporting SDK, client configuration and .env entry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			envVars := baseEnv{}
			if err := parseEnv(&envVars); err != nil {
				return err
			}
			levelName := cmd.Flag("log-level").Value.String()
			if !cmd.Flags().Changed("log-level") && envVars.LogLevel != "" {
				levelName = envVars.LogLevel
			}
			level := logging.ParseLevel(levelName)
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultFileName, "Path to the project configuration file (relative to the project root)")
	cmd.PersistentFlags().StringVar(&opts.ProjectRoot, "project-root", ".", "Project root directory")
	cmd.PersistentFlags().StringVar(&opts.TemplatesDir, "templates-dir", "", "Directory overriding the built-in templates")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	addInstallFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runInstall(cmd, opts)
	}

	cmd.AddCommand(
		newDetectCommand(opts),
		newDoctorCommand(opts),
		newTemplatesCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
