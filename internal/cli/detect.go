package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/errobs/clientkit/internal/detect"
)

// newDetectCommand creates the "detect" subcommand that prints the project classification.
func newDetectCommand(opts *Options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Print the detected language, framework and package manager",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := classifyFromOpts(opts)
			if err != nil {
				return err
			}
			LoggerFromContext(cmd.Context()).Debug("project classified", "language", string(project.Language), "evidence", len(project.EvidenceFiles))

			switch strings.ToLower(output) {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(project); err != nil {
					return fmt.Errorf("encode project: %w", err)
				}
				return enc.Close()
			case "toml":
				if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(project); err != nil {
					return fmt.Errorf("encode project: %w", err)
				}
				return nil
			case "", "text":
				writeProject(cmd.OutOrStdout(), project)
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (text, yaml, toml)", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml, toml)")

	return cmd
}

func writeProject(w io.Writer, p detect.Project) {
	_, _ = fmt.Fprintf(w, "Project:         %s\n", p.Name)
	_, _ = fmt.Fprintf(w, "Root:            %s\n", p.Root)
	_, _ = fmt.Fprintf(w, "Language:        %s\n", p.Language)
	if p.Framework != "" {
		_, _ = fmt.Fprintf(w, "Framework:       %s\n", p.Framework)
	}
	if p.PackageManager != "" {
		_, _ = fmt.Fprintf(w, "Package manager: %s\n", p.PackageManager)
	}
	for _, f := range p.EvidenceFiles {
		_, _ = fmt.Fprintf(w, "Evidence:        %s\n", f)
	}
}
