package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/provision"
)

var lookPath = exec.LookPath

// toolsFor returns the executables an install of p runs, and the ones that are merely useful.
func toolsFor(p detect.Project) (required, optional []string) {
	switch p.Language {
	case detect.Python:
		switch p.PackageManager {
		case "poetry", "pipenv":
			return []string{p.PackageManager}, []string{"python3"}
		default:
			return []string{"python3"}, nil
		}
	case detect.NodeJS, detect.TypeScript:
		pm := p.PackageManager
		if pm == "" {
			pm = "npm"
		}
		return []string{pm}, []string{"node"}
	case detect.Java:
		if p.Exists("pom.xml") {
			return nil, []string{"mvn", "java"}
		}
		return nil, []string{"gradle", "java"}
	case detect.DotNet:
		return []string{"dotnet"}, nil
	case detect.Go:
		return []string{"go"}, nil
	case detect.PHP:
		return []string{"composer"}, []string{"php"}
	case detect.Ruby:
		return []string{"bundle"}, []string{"ruby"}
	default:
		return nil, nil
	}
}

func runDoctorChecks(ctx context.Context, logger *slog.Logger, project detect.Project, apiURL, apiKey string) error {
	if logger == nil {
		logger = slog.Default()
	}

	required, optional := toolsFor(project)
	lang := string(project.Language)

	missing := make([]string, 0, len(required))
	for _, tool := range required {
		if _, err := lookPath(tool); err != nil {
			logger.Error("doctor check failed: missing required tool", "tool", tool, "language", lang, "error", err)
			missing = append(missing, tool)
			continue
		}
		logger.Info("doctor check ok", "tool", tool, "language", lang)
	}

	for _, tool := range optional {
		if _, err := lookPath(tool); err != nil {
			logger.Warn("optional tool not found", "tool", tool, "language", lang)
			continue
		}
		logger.Info("doctor check ok", "tool", tool, "language", lang)
	}

	if apiURL != "" && apiKey != "" {
		client, err := provision.New(apiURL, apiKey, provision.WithLogger(logger))
		switch {
		case err != nil:
			logger.Warn("api settings invalid", "error", err)
		case client.TestConnection(ctx):
			logger.Info("api connection ok", "url", client.BaseURL())
		default:
			logger.Warn("api unreachable; installs will fall back to manual DSN entry", "url", client.BaseURL())
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools missing from PATH: %s", strings.Join(missing, ", "))
	}

	return nil
}
