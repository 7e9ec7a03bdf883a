// Package orchestrator drives one installation run: classify the project, resolve the
// DSN, pick an action, run the matching installer and report what happened.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/env"
	"github.com/errobs/clientkit/internal/installer"
	"github.com/errobs/clientkit/internal/logging"
	"github.com/errobs/clientkit/internal/prompt"
	"github.com/errobs/clientkit/internal/templates"
)

// ErrMissingDSN is returned when install or update-dsn is requested without a DSN.
var ErrMissingDSN = installer.ErrMissingDSN

// ErrNoAction is returned when no action was requested and the menu cannot be shown.
var ErrNoAction = errors.New("no action selected; pass --install, --update-dsn or --update-client")

// Action is the operation a run performs.
type Action int

const (
	// ActionMenu asks the user interactively.
	ActionMenu Action = iota
	ActionInstall
	ActionUpdateDSN
	ActionUpdateClient
	// ActionExit ends the run without side effects.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionMenu:
		return "menu"
	case ActionInstall:
		return "install"
	case ActionUpdateDSN:
		return "update-dsn"
	case ActionUpdateClient:
		return "update-client"
	case ActionExit:
		return "exit"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Options configures a run. String values are already merged from flags, environment
// and the project file by the caller.
type Options struct {
	ProjectRoot string
	Action      Action

	DSN         string
	Environment string
	Release     string

	APIURL  string
	APIKey  string
	Team    string
	Project string

	Patches        []config.Patch
	NonInteractive bool

	Templates *templates.Store
	Runner    installer.Runner
	Prompter  prompt.Prompter
	Out       io.Writer
	Logger    *slog.Logger
}

// Result summarises a finished run.
type Result struct {
	Project detect.Project
	Action  Action
	// DSNSource names where the DSN came from: "options", "api", "prompt", "env-file" or "".
	DSNSource string
	Report    *installer.Report
	Patched   []string
}

type runner struct {
	opts   Options
	out    io.Writer
	logger *slog.Logger
}

// Run executes one installation run.
func Run(ctx context.Context, opts Options) (Result, error) {
	r := &runner{opts: opts, out: opts.Out, logger: opts.Logger}
	if r.out == nil {
		r.out = io.Discard
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.opts.Prompter == nil {
		r.opts.Prompter = prompt.NewTerminal(strings.NewReader(""), r.out, true)
	}
	if r.opts.Templates == nil {
		r.opts.Templates = templates.Embedded()
	}
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (Result, error) {
	var res Result

	project, err := classify(r.opts.ProjectRoot)
	if err != nil {
		return res, err
	}
	res.Project = project
	r.printProject(project)

	cfg, source, err := r.resolveConfig(ctx, project)
	if err != nil {
		return res, err
	}
	res.DSNSource = source

	action, err := r.selectAction()
	if err != nil {
		return res, err
	}
	res.Action = action
	if action == ActionExit {
		r.printf("Exiting.")
		return res, nil
	}

	report, patched, err := r.execute(ctx, project, cfg, action, &res)
	res.Patched = patched
	if report != nil {
		res.Report = report
		r.printReport(*report)
	}
	return res, err
}

// classify wraps detect.Classify and rejects unknown projects.
func classify(root string) (detect.Project, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	project, err := detect.Classify(root)
	if err != nil {
		return project, err
	}
	if project.Language == detect.Unknown {
		names := make([]string, 0, len(detect.Supported()))
		for _, l := range detect.Supported() {
			names = append(names, l.DisplayName())
		}
		return project, fmt.Errorf("%w in %s (supported: %s)", detect.ErrUnknownLanguage, project.Root, strings.Join(names, ", "))
	}
	return project, nil
}

// resolveConfig finds the DSN: options first, then the provisioning API, then a prompt.
// Update-client runs may end without one.
func (r *runner) resolveConfig(ctx context.Context, project detect.Project) (config.Integration, string, error) {
	dsn := strings.TrimSpace(r.opts.DSN)
	source := ""
	if dsn != "" {
		source = "options"
	}
	needDSN := r.opts.Action != ActionUpdateClient

	if dsn == "" && needDSN {
		if client := r.connectAPI(ctx); client != nil {
			v, err := r.dsnFromAPI(ctx, client, project)
			if err != nil {
				return config.Integration{}, "", err
			}
			if v != "" {
				dsn, source = v, "api"
			}
		}
	}

	if dsn == "" && needDSN {
		r.printf("")
		r.printf("DSN not found in environment.")
		r.printf("Get your DSN from: Project Settings > Client Keys")
		v, err := r.askSecret("Enter DSN (or press Enter to skip):")
		if err != nil {
			return config.Integration{}, "", err
		}
		if v != "" {
			dsn, source = v, "prompt"
		}
	}

	return config.NewIntegration(dsn, r.opts.Environment, r.opts.Release), source, nil
}

func (r *runner) selectAction() (Action, error) {
	if r.opts.Action != ActionMenu {
		return r.opts.Action, nil
	}
	if r.opts.NonInteractive {
		return ActionExit, ErrNoAction
	}

	r.printf("")
	r.printf("What would you like to do?")
	r.printf(rule)
	r.printf("1. Set up new integration")
	r.printf("2. Update DSN only")
	r.printf("3. Update client code from templates")
	r.printf("4. Exit")
	r.printf("")

	choice, err := r.ask("Enter choice [1-4]:")
	if err != nil {
		return ActionExit, err
	}
	switch choice {
	case "1":
		return ActionInstall, nil
	case "2":
		return ActionUpdateDSN, nil
	case "3":
		return ActionUpdateClient, nil
	default:
		return ActionExit, nil
	}
}

func (r *runner) execute(ctx context.Context, project detect.Project, cfg config.Integration, action Action, res *Result) (*installer.Report, []string, error) {
	switch action {
	case ActionInstall, ActionUpdateDSN:
		if !cfg.HasDSN() {
			return nil, nil, fmt.Errorf("%s: %w", action, ErrMissingDSN)
		}
	case ActionUpdateClient:
		if !cfg.HasDSN() {
			stored, ok, err := env.Lookup(project.Path(".env"), config.DSNKey)
			if err != nil {
				r.logger.Warn("could not read stored DSN", "path", project.Path(".env"), "error", err)
			}
			if ok {
				cfg = config.NewIntegration(stored, cfg.Environment, cfg.Release)
				res.DSNSource = "env-file"
			}
		}
	default:
		return nil, nil, fmt.Errorf("unsupported action %s", action)
	}

	inst, err := installer.New(installer.Options{
		Project:   project,
		Config:    cfg,
		Templates: r.opts.Templates,
		Runner:    r.opts.Runner,
		Logger:    r.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	var report installer.Report
	switch action {
	case ActionInstall:
		r.printf("")
		r.printf("Installing the SDK for %s...", project.Language.DisplayName())
		report, err = inst.Install(ctx)
	case ActionUpdateDSN:
		r.printf("")
		r.printf("Updating DSN...")
		report, err = inst.UpdateDSN(ctx)
	case ActionUpdateClient:
		r.printf("")
		r.printf("Updating client code from templates...")
		report, err = inst.UpdateClient(ctx)
	}
	if err != nil {
		return &report, nil, err
	}

	var patched []string
	if action == ActionInstall && len(r.opts.Patches) > 0 {
		patched, err = applyPatches(project, r.opts.Patches, &report)
		if err != nil {
			return &report, patched, err
		}
	}
	return &report, patched, nil
}

func (r *runner) ask(question string) (string, error) {
	return r.answer(r.opts.Prompter.Ask(question))
}

func (r *runner) askSecret(question string) (string, error) {
	return r.answer(r.opts.Prompter.AskSecret(question))
}

// answer maps a disabled prompt to an empty answer.
func (r *runner) answer(v string, err error) (string, error) {
	if errors.Is(err, prompt.ErrNonInteractive) {
		r.logger.Debug("prompt skipped", "error", err)
		return "", nil
	}
	return v, err
}
