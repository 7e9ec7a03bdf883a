package installer

import "context"

const (
	mavenDependency = `<dependency>
    <groupId>io.sentry</groupId>
    <artifactId>sentry</artifactId>
    <version>7.0.0</version>
</dependency>`
	gradleDependency = `implementation 'io.sentry:sentry:7.0.0'`
)

// javaInstaller never edits build files; the dependency is reported as a manual step.
type javaInstaller struct {
	base
}

func newJavaInstaller(b base) Installer {
	b.files = []clientFile{{template: "SentryConfig.java", dest: "src/main/java/SentryConfig.java", dsn: javaDSN}}
	return &javaInstaller{base: b}
}

func (i *javaInstaller) Install(ctx context.Context) (Report, error) {
	return i.install(ctx, i.installDeps, ManualAction{
		Instruction: "Call SentryConfig.init() in your main method:",
		Snippet:     "SentryConfig.init();",
	})
}

func (i *javaInstaller) installDeps(_ context.Context, r *Report) error {
	switch {
	case i.project.Exists("pom.xml"):
		r.manual("Add this to your pom.xml <dependencies>:", mavenDependency)
	case i.project.Exists("build.gradle"), i.project.Exists("build.gradle.kts"):
		r.manual("Add this to your build.gradle dependencies:", gradleDependency)
	}
	return nil
}
