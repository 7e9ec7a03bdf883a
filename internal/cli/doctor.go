package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/errobs/clientkit/internal/detect"
)

// newDoctorCommand creates the "doctor" subcommand that checks the tools an installation needs.
func newDoctorCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the tools needed for the detected project are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			project, err := classifyFromOpts(opts)
			if err != nil {
				return err
			}
			if project.Language == detect.Unknown {
				return detect.ErrUnknownLanguage
			}

			envVars := installEnv{}
			if err := parseEnv(&envVars); err != nil {
				return err
			}
			root, err := filepath.Abs(opts.ProjectRoot)
			if err != nil {
				return err
			}
			fileCfg, err := loadProjectFile(cmd, opts, root)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			apiURL := firstNonEmpty(envVars.APIURL, fileCfg.APIURL)
			if err := runDoctorChecks(ctx, logger, project, apiURL, envVars.APIKey); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully", "language", string(project.Language))
			return nil
		},
	}
	return cmd
}
