package installer

import (
	"context"

	"github.com/errobs/clientkit/internal/detect"
)

const nodePackage = "@sentry/node"

type nodeInstaller struct {
	base
}

func newNodeInstaller(b base) Installer {
	if b.project.Language == detect.TypeScript {
		b.files = []clientFile{{template: "sentry.config.ts", dest: "src/sentry.config.ts", dsn: nodeDSN}}
	} else {
		b.files = []clientFile{{template: "sentry.config.js", dest: "sentry.config.js", dsn: nodeDSN}}
	}
	return &nodeInstaller{base: b}
}

func (i *nodeInstaller) Install(ctx context.Context) (Report, error) {
	manual := ManualAction{
		Instruction: "Add this at the top of your entry file:",
		Snippet:     `require("./sentry.config");`,
	}
	if i.project.Language == detect.TypeScript {
		manual.Snippet = `import "./sentry.config";`
	}
	return i.install(ctx, i.installDeps, manual)
}

func (i *nodeInstaller) installDeps(ctx context.Context, r *Report) error {
	switch i.project.PackageManager {
	case "pnpm":
		i.run(ctx, r, "pnpm", "add", nodePackage)
	case "yarn":
		i.run(ctx, r, "yarn", "add", nodePackage)
	case "bun":
		i.run(ctx, r, "bun", "add", nodePackage)
	default:
		i.run(ctx, r, "npm", "install", "--save", nodePackage)
	}
	return nil
}
