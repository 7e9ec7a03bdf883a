package installer

import "context"

const rubyGem = `gem "sentry-ruby"`

type rubyInstaller struct {
	base
}

func newRubyInstaller(b base) Installer {
	b.files = []clientFile{{template: "sentry.rb", dest: "config/initializers/sentry.rb", dsn: rubyDSN}}
	return &rubyInstaller{base: b}
}

func (i *rubyInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, i.installDeps, ManualAction{
		Instruction: "For Rails the initializer loads automatically. For other apps add:",
		Snippet:     "require_relative 'config/initializers/sentry'",
	})
}

func (i *rubyInstaller) installDeps(ctx context.Context, r *Report) error {
	if !i.project.Exists("Gemfile") {
		r.manual("No Gemfile found, add the gem to your dependencies:", rubyGem)
		return nil
	}
	if err := i.ensureManifestLine(r, "Gemfile", rubyGem); err != nil {
		return err
	}
	i.run(ctx, r, "bundle", "install")
	return nil
}
