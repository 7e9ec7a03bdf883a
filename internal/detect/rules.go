package detect

// evidence is a filename or glob whose presence selects a language, optionally with a framework tag.
type evidence struct {
	pattern   string
	framework string
}

type languageRule struct {
	language Language
	patterns []evidence
}

type lockFile struct {
	file    string
	manager string
}

// languageRules are evaluated in order; the first language with a matching pattern wins.
var languageRules = []languageRule{
	{Python, []evidence{
		{pattern: "requirements.txt"},
		{pattern: "pyproject.toml"},
		{pattern: "setup.py"},
		{pattern: "Pipfile"},
		{pattern: "manage.py", framework: "django"},
		{pattern: "app.py", framework: "flask"},
		{pattern: "main.py"},
	}},
	{NodeJS, []evidence{
		{pattern: "package.json"},
	}},
	{TypeScript, []evidence{
		{pattern: "tsconfig.json"},
	}},
	{Java, []evidence{
		{pattern: "pom.xml", framework: "maven"},
		{pattern: "build.gradle", framework: "gradle"},
		{pattern: "build.gradle.kts", framework: "gradle"},
	}},
	{DotNet, []evidence{
		{pattern: "*.csproj"},
		{pattern: "*.fsproj"},
		{pattern: "*.sln"},
	}},
	{Go, []evidence{
		{pattern: "go.mod"},
		{pattern: "go.sum"},
	}},
	{PHP, []evidence{
		{pattern: "composer.json"},
	}},
	{Ruby, []evidence{
		{pattern: "Gemfile"},
		{pattern: "*.gemspec"},
	}},
}

var nodeLockFiles = []lockFile{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"package-lock.json", "npm"},
}

var packageManagers = map[Language][]lockFile{
	Python: {
		{"poetry.lock", "poetry"},
		{"Pipfile.lock", "pipenv"},
		{"requirements.txt", "pip"},
	},
	NodeJS:     nodeLockFiles,
	TypeScript: nodeLockFiles,
}

// nodeFrameworks maps package names to framework tags, checked in order.
var nodeFrameworks = []struct {
	pkg       string
	framework string
}{
	{"@nestjs/core", "nestjs"},
	{"next", "nextjs"},
	{"express", "express"},
	{"fastify", "fastify"},
	{"koa", "koa"},
}

const tsConfigFile = "tsconfig.json"
