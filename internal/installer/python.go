package installer

import "context"

const (
	pythonPackage     = "sentry-sdk"
	pythonRequirement = "sentry-sdk>=2.0.0"
	pythonConfigFile  = "sentry_config.py"
)

type pythonInstaller struct {
	base
}

func newPythonInstaller(b base) Installer {
	b.files = []clientFile{{template: pythonConfigFile, dest: pythonConfigFile, dsn: pythonDSN}}
	return &pythonInstaller{base: b}
}

func (i *pythonInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, i.installDeps, ManualAction{
		Instruction: "Add this to your application entry point:",
		Snippet:     "from sentry_config import init_sentry\ninit_sentry()",
	})
}

func (i *pythonInstaller) installDeps(ctx context.Context, r *Report) error {
	switch i.project.PackageManager {
	case "poetry":
		i.run(ctx, r, "poetry", "add", pythonPackage)
	case "pipenv":
		i.run(ctx, r, "pipenv", "install", pythonPackage)
	default:
		i.run(ctx, r, "python3", "-m", "pip", "install", pythonPackage)
		if i.project.Exists("requirements.txt") {
			return i.ensureManifestLine(r, "requirements.txt", pythonRequirement)
		}
	}
	return nil
}
