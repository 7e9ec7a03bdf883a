package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/orchestrator"
	"github.com/errobs/clientkit/internal/prompt"
)

func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().String("dsn", "", "DSN to install (default from SENTRY_DSN)")
	cmd.Flags().StringP("environment", "e", config.DefaultEnvironment, "Environment name reported with events")
	cmd.Flags().StringP("release", "r", "", "Release identifier reported with events")
	cmd.Flags().Bool("install", false, "Run the full installation without the menu")
	cmd.Flags().Bool("update-dsn", false, "Only update the DSN in .env")
	cmd.Flags().Bool("update-client", false, "Only regenerate the client code from templates")
	cmd.Flags().String("api-key", "", "Provisioning API key (default from BUGSINK_API_KEY)")
	cmd.Flags().String("api-url", "", "Provisioning API base URL (default from BUGSINK_API_URL)")
	cmd.Flags().String("team", "", "Team name for API setup (default from BUGSINK_TEAM)")
	cmd.Flags().String("project", "", "Project name for API setup (default from BUGSINK_PROJECT)")
	cmd.Flags().Bool("non-interactive", false, "Never prompt; fail when input would be required")
	cmd.MarkFlagsMutuallyExclusive("install", "update-dsn", "update-client")
}

// runInstall merges flags, environment and the project file and hands over to the
// orchestrator. Flags win over the environment, which wins over the file.
func runInstall(cmd *cobra.Command, opts *Options) error {
	logger := LoggerFromContext(cmd.Context())

	envVars := installEnv{}
	if err := parseEnv(&envVars); err != nil {
		return err
	}

	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	fileCfg, err := loadProjectFile(cmd, opts, root)
	if err != nil {
		return err
	}
	store := templateStore(opts, fileCfg)

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	nonInteractive = nonInteractive || envVars.NonInteractive
	if !nonInteractive && !prompt.IsTerminal(cmd.InOrStdin()) {
		logger.Debug("stdin is not a terminal, answers are read from the input stream")
	}

	runOpts := orchestrator.Options{
		ProjectRoot:    root,
		Action:         actionFromFlags(cmd),
		DSN:            pick(cmd, "dsn", envVars.DSN, ""),
		Environment:    pick(cmd, "environment", envVars.Environment, fileCfg.Environment),
		Release:        pick(cmd, "release", envVars.Release, fileCfg.Release),
		APIURL:         pick(cmd, "api-url", envVars.APIURL, fileCfg.APIURL),
		APIKey:         pick(cmd, "api-key", envVars.APIKey, ""),
		Team:           pick(cmd, "team", envVars.Team, fileCfg.Team),
		Project:        pick(cmd, "project", envVars.Project, fileCfg.Project),
		Patches:        fileCfg.Patches,
		NonInteractive: nonInteractive,
		Templates:      store,
		Prompter:       prompt.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout(), nonInteractive),
		Out:            cmd.OutOrStdout(),
		Logger:         logger,
	}

	res, err := orchestrator.Run(cmd.Context(), runOpts)
	if err != nil {
		if errors.Is(err, orchestrator.ErrMissingDSN) {
			return fmt.Errorf("%w; pass --dsn, set SENTRY_DSN or configure the provisioning API", err)
		}
		return err
	}
	logger.Debug("run finished", "action", res.Action.String(), "dsn_source", res.DSNSource)
	return nil
}

func actionFromFlags(cmd *cobra.Command) orchestrator.Action {
	for _, f := range []struct {
		name   string
		action orchestrator.Action
	}{
		{"install", orchestrator.ActionInstall},
		{"update-dsn", orchestrator.ActionUpdateDSN},
		{"update-client", orchestrator.ActionUpdateClient},
	} {
		if v, _ := cmd.Flags().GetBool(f.name); v {
			return f.action
		}
	}
	return orchestrator.ActionMenu
}

// pick returns the flag value when it was set explicitly, else the first non-empty
// of envValue, fileValue and the flag default.
func pick(cmd *cobra.Command, flag, envValue, fileValue string) string {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		return firstNonEmpty(envValue, fileValue)
	}
	if f.Changed {
		return strings.TrimSpace(f.Value.String())
	}
	return firstNonEmpty(envValue, fileValue, f.DefValue)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
