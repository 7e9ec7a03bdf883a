// Package installer integrates the error-reporting SDK into a classified project. There
// is one Installer per supported language; New picks it from a fixed table.
package installer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/env"
	"github.com/errobs/clientkit/internal/logging"
	"github.com/errobs/clientkit/internal/templates"
	"github.com/errobs/clientkit/internal/textpatch"
)

var (
	// ErrNoInstaller is returned by New for a language without an installer.
	ErrNoInstaller = errors.New("no installer available")
	// ErrMissingDSN is returned by operations that require a connection string.
	ErrMissingDSN = errors.New("DSN is required")
)

const envFile = ".env"
const envExampleFile = ".env.example"

// Installer performs the three integration operations for one language.
//
// Install adds the SDK dependency, writes the client files and stores the DSN.
// UpdateDSN stores the DSN and rewrites the fallback literal of existing client files.
// UpdateClient only rewrites the client files.
type Installer interface {
	Install(ctx context.Context) (Report, error)
	UpdateDSN(ctx context.Context) (Report, error)
	UpdateClient(ctx context.Context) (Report, error)
}

// Options carries everything an installer works on.
type Options struct {
	Project   detect.Project
	Config    config.Integration
	Templates *templates.Store
	Runner    Runner
	Logger    *slog.Logger
}

var registry = map[detect.Language]func(base) Installer{
	detect.Python:     func(b base) Installer { return newPythonInstaller(b) },
	detect.NodeJS:     func(b base) Installer { return newNodeInstaller(b) },
	detect.TypeScript: func(b base) Installer { return newNodeInstaller(b) },
	detect.Java:       func(b base) Installer { return newJavaInstaller(b) },
	detect.DotNet:     func(b base) Installer { return newDotNetInstaller(b) },
	detect.Go:         func(b base) Installer { return newGoInstaller(b) },
	detect.PHP:        func(b base) Installer { return newPHPInstaller(b) },
	detect.Ruby:       func(b base) Installer { return newRubyInstaller(b) },
}

// New returns the installer for opts.Project.Language.
func New(opts Options) (Installer, error) {
	build, ok := registry[opts.Project.Language]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoInstaller, opts.Project.Language)
	}
	if opts.Templates == nil {
		opts.Templates = templates.Embedded()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{Logger: opts.Logger}
	}
	return build(base{
		project: opts.Project,
		cfg:     opts.Config,
		store:   opts.Templates,
		runner:  opts.Runner,
		logger:  opts.Logger.With("language", string(opts.Project.Language)),
	}), nil
}

// clientFile maps a template name to its slash-separated destination below the root.
// dsn, when set, matches the fallback DSN literal the rendered file carries.
type clientFile struct {
	template string
	dest     string
	dsn      *regexp.Regexp
}

type base struct {
	project detect.Project
	cfg     config.Integration
	store   *templates.Store
	runner  Runner
	logger  *slog.Logger
	files   []clientFile
}

func (b *base) requireDSN() error {
	if !b.cfg.HasDSN() {
		return ErrMissingDSN
	}
	return nil
}

// run executes a command in the project root. A failure becomes a warning step.
func (b *base) run(ctx context.Context, r *Report, name string, args ...string) bool {
	if err := b.runner.Run(ctx, b.project.Root, name, args...); err != nil {
		b.logger.Debug("command failed", "command", name, "error", err)
		r.warn("%v", err)
		return false
	}
	r.done("ran %s", commandLine(name, args))
	return true
}

// copyTemplate renders name into dest. A missing template is a warning; a failed
// write is an error.
func (b *base) copyTemplate(r *Report, f clientFile) error {
	body, err := b.store.Render(b.project.Language, f.template, b.cfg)
	if errors.Is(err, templates.ErrTemplateNotFound) {
		r.warn("template %s not found for %s, skipped %s", f.template, b.project.Language, f.dest)
		return nil
	}
	if err != nil {
		return err
	}

	path := b.project.Path(filepath.FromSlash(f.dest))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.dest, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.dest, err)
	}
	r.done("wrote %s", f.dest)
	return nil
}

func (b *base) writeClientFiles(r *Report) error {
	for _, f := range b.files {
		if err := b.copyTemplate(r, f); err != nil {
			return err
		}
	}
	return nil
}

// updateEnvFile stores the DSN in .env and seeds .env.example with a placeholder
// when that file already exists.
func (b *base) updateEnvFile(r *Report) error {
	res, err := env.Upsert(b.project.Path(envFile), config.DSNKey, b.cfg.DSN, false)
	if err != nil {
		return err
	}
	r.done("%s %s in %s", res, config.DSNKey, envFile)

	res, err = env.Upsert(b.project.Path(envExampleFile), config.DSNKey, config.ExampleDSN, true)
	if err != nil {
		return err
	}
	if res.Changed() {
		r.done("%s %s placeholder in %s", res, config.DSNKey, envExampleFile)
	}
	return nil
}

// ensureManifestLine appends line to an existing manifest unless it is already there.
func (b *base) ensureManifestLine(r *Report, rel, line string) error {
	changed, err := textpatch.AppendLine(b.project.Path(rel), line)
	if err != nil {
		return err
	}
	if changed {
		r.done("added %s to %s", line, rel)
	}
	return nil
}

func (b *base) install(ctx context.Context, deps func(context.Context, *Report) error, manual ManualAction) (Report, error) {
	r := newReport(OpInstall, b.project.Language)
	if err := b.requireDSN(); err != nil {
		return r, err
	}
	if err := deps(ctx, &r); err != nil {
		return r, err
	}
	if err := b.writeClientFiles(&r); err != nil {
		return r, err
	}
	if err := b.updateEnvFile(&r); err != nil {
		return r, err
	}
	r.Manual = &manual
	return r, nil
}

// UpdateDSN stores the DSN in the environment files and in the fallback literal of
// client files that were already generated.
func (b *base) UpdateDSN(context.Context) (Report, error) {
	r := newReport(OpUpdateDSN, b.project.Language)
	if err := b.requireDSN(); err != nil {
		return r, err
	}
	if err := b.updateEnvFile(&r); err != nil {
		return r, err
	}
	err := b.rewriteDSNLiterals(&r)
	return r, err
}

// UpdateClient re-renders the client files. Environment files and manifests are left
// alone; an empty DSN is allowed.
func (b *base) UpdateClient(context.Context) (Report, error) {
	r := newReport(OpUpdateClient, b.project.Language)
	if !b.cfg.HasDSN() {
		r.warn("no DSN configured, client files rendered with an empty DSN")
	}
	err := b.writeClientFiles(&r)
	return r, err
}

func commandLine(name string, args []string) string {
	out := name
	for _, a := range args {
		out += " " + a
	}
	return out
}
