package orchestrator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/installer"
	"github.com/errobs/clientkit/internal/textpatch"
)

const rule = "─────────────────────────────────────────"

func (r *runner) printf(format string, args ...any) {
	if format == "" {
		_, _ = fmt.Fprintln(r.out)
		return
	}
	_, _ = fmt.Fprintf(r.out, "  "+format+"\n", args...)
}

func (r *runner) printProject(p detect.Project) {
	r.printf("")
	r.printf("Project: %s", p.Name)
	r.printf("Language: %s", p.Language)
	if p.Framework != "" {
		r.printf("Framework: %s", p.Framework)
	}
	if p.PackageManager != "" {
		r.printf("Package Manager: %s", p.PackageManager)
	}
}

// printReport writes done and manual steps to the output; warnings go to the logger.
func (r *runner) printReport(rep installer.Report) {
	for _, s := range rep.Steps {
		switch s.Status {
		case installer.StepDone:
			r.printf("%s", s.Message)
		case installer.StepWarning:
			r.logger.Warn(s.Message, "operation", string(rep.Operation))
		case installer.StepManual:
			r.printSnippet(s.Message, s.Detail)
		}
	}

	r.printf("")
	switch rep.Operation {
	case installer.OpInstall:
		r.printf("Integration complete!")
	case installer.OpUpdateDSN:
		r.printf("DSN updated successfully!")
	case installer.OpUpdateClient:
		r.printf("Client code updated successfully!")
	}
	if rep.Manual != nil {
		r.printSnippet(rep.Manual.Instruction, rep.Manual.Snippet)
	}
}

func (r *runner) printSnippet(title, snippet string) {
	r.printf("%s", title)
	r.printf(rule)
	for _, line := range strings.Split(snippet, "\n") {
		r.printf("%s", line)
	}
	r.printf(rule)
}

// applyPatches runs the configured text patches against project files. A missing file
// or anchor is recorded as a warning; the patched file paths are returned.
func applyPatches(project detect.Project, patches []config.Patch, rep *installer.Report) ([]string, error) {
	var patched []string
	for _, p := range patches {
		tp := textpatch.Patch{Anchor: p.Anchor, Replacement: p.Replacement}
		changed, err := textpatch.ApplyFile(project.Path(filepath.FromSlash(p.File)), tp.Apply)
		switch {
		case errors.Is(err, os.ErrNotExist):
			rep.Steps = append(rep.Steps, installer.Step{Status: installer.StepWarning, Message: fmt.Sprintf("patch target %s does not exist", p.File)})
		case errors.Is(err, textpatch.ErrAnchorNotFound):
			rep.Steps = append(rep.Steps, installer.Step{Status: installer.StepWarning, Message: fmt.Sprintf("patch anchor not found in %s", p.File)})
		case err != nil:
			return patched, err
		case changed:
			patched = append(patched, p.File)
			rep.Steps = append(rep.Steps, installer.Step{Status: installer.StepDone, Message: "patched " + p.File})
		}
	}
	return patched, nil
}
