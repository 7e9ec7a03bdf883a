package installer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// skippedDirs are never searched for project files.
var skippedDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	"node_modules": true,
	".git":         true,
}

type dotnetInstaller struct {
	base
}

func newDotNetInstaller(b base) Installer {
	b.files = []clientFile{{template: "SentryConfig.cs", dest: "SentryConfig.cs", dsn: dotnetDSN}}
	return &dotnetInstaller{base: b}
}

func (i *dotnetInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, i.installDeps, ManualAction{
		Instruction: "Add this to your Program.cs:",
		Snippet:     "builder.WebHost.UseSentry();\n// Or for console apps:\nSentryConfig.Init();",
	})
}

func (i *dotnetInstaller) installDeps(ctx context.Context, r *Report) error {
	projects, err := findCSProjects(i.project.Root)
	if err != nil {
		return err
	}
	if len(projects) == 0 {
		r.warn("no .csproj file found, add the Sentry package manually")
		return nil
	}
	for _, p := range projects {
		i.run(ctx, r, "dotnet", "add", p, "package", "Sentry")
	}
	return nil
}

// findCSProjects returns every *.csproj below root, relative to root and sorted.
func findCSProjects(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".csproj" {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			out = append(out, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search .csproj files: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
