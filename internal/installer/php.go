package installer

import "context"

type phpInstaller struct {
	base
}

func newPHPInstaller(b base) Installer {
	b.files = []clientFile{{template: "sentry.php", dest: "config/sentry.php", dsn: phpDSN}}
	return &phpInstaller{base: b}
}

func (i *phpInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, func(ctx context.Context, r *Report) error {
		i.run(ctx, r, "composer", "require", "sentry/sentry")
		return nil
	}, ManualAction{
		Instruction: "Add this to your bootstrap or entry file:",
		Snippet:     "require_once 'config/sentry.php';",
	})
}
