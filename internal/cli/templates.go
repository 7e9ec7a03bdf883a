package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/errobs/clientkit/internal/detect"
)

// newTemplatesCommand creates the "templates" subcommand that lists template assets.
func newTemplatesCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates [language]",
		Short: "List the client templates for a language (default: the detected one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var lang detect.Language
			if len(args) == 1 {
				lang = detect.ParseLanguage(strings.ToLower(args[0]))
				if lang == detect.Unknown {
					return fmt.Errorf("unknown language %q", args[0])
				}
			} else {
				project, err := classifyFromOpts(opts)
				if err != nil {
					return err
				}
				if project.Language == detect.Unknown {
					return detect.ErrUnknownLanguage
				}
				lang = project.Language
			}

			root, err := filepath.Abs(opts.ProjectRoot)
			if err != nil {
				return fmt.Errorf("resolve project root: %w", err)
			}
			fileCfg, err := loadProjectFile(cmd, opts, root)
			if err != nil {
				return err
			}
			assets, err := templateStore(opts, fileCfg).TemplatesFor(lang)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(assets) == 0 {
				_, _ = fmt.Fprintf(out, "no templates for %s\n", lang)
				return nil
			}
			for _, a := range assets {
				_, _ = fmt.Fprintf(out, "%s/%s\t%s\n", a.Language, a.Name, strings.Join(a.Placeholders, " "))
			}
			return nil
		},
	}
	return cmd
}
