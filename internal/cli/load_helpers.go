package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/templates"
)

// loadProjectFile reads the project configuration file. A relative path is resolved
// against root; the default file is optional.
func loadProjectFile(cmd *cobra.Command, opts *Options, root string) (config.File, error) {
	path := opts.ConfigPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	optional := !cmd.Flags().Changed("config")
	return config.LoadFile(path, optional)
}

// templateStore returns the store selected by --templates-dir, the project file or the
// embedded default, in that order.
func templateStore(opts *Options, fileCfg config.File) *templates.Store {
	switch {
	case opts.TemplatesDir != "":
		return templates.FromDir(opts.TemplatesDir)
	case fileCfg.TemplatesDir != "":
		return templates.FromDir(fileCfg.TemplatesDir)
	default:
		return templates.Embedded()
	}
}

// classifyFromOpts classifies the configured project root.
func classifyFromOpts(opts *Options) (detect.Project, error) {
	return detect.Classify(opts.ProjectRoot)
}
