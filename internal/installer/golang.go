package installer

import "context"

const goModule = "github.com/getsentry/sentry-go"

type goInstaller struct {
	base
}

func newGoInstaller(b base) Installer {
	b.files = []clientFile{{template: "sentry.go", dest: "pkg/sentry/sentry.go", dsn: goDSN}}
	return &goInstaller{base: b}
}

func (i *goInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, func(ctx context.Context, r *Report) error {
		i.run(ctx, r, "go", "get", goModule)
		return nil
	}, ManualAction{
		Instruction: "Add this to your main.go:",
		Snippet: `import "your-module/pkg/sentry"

func main() {
	sentry.Init()
	defer sentry.Flush()
	// ...
}`,
	})
}
