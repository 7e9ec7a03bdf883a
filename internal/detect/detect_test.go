package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestClassifyCanonicalEvidence(t *testing.T) {
	cases := []struct {
		file string
		want Language
	}{
		{"requirements.txt", Python},
		{"package.json", NodeJS},
		{"tsconfig.json", TypeScript},
		{"pom.xml", Java},
		{"App.csproj", DotNet},
		{"go.mod", Go},
		{"composer.json", PHP},
		{"Gemfile", Ruby},
	}
	for _, tc := range cases {
		t.Run(string(tc.want), func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{tc.file: "{}"})

			p, err := Classify(dir)

			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Language)
			assert.Equal(t, []string{filepath.Join(p.Root, tc.file)}, p.EvidenceFiles)
		})
	}
}

func TestClassifyEmptyDirectoryIsUnknown(t *testing.T) {
	p, err := Classify(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, Unknown, p.Language)
	assert.Empty(t, p.Framework)
	assert.Empty(t, p.PackageManager)
	assert.Empty(t, p.EvidenceFiles)
}

func TestClassifyGoProject(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"go.mod": "module example.com/app\n"})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, Go, p.Language)
	assert.Empty(t, p.Framework)
	assert.Empty(t, p.PackageManager)
	assert.Equal(t, filepath.Base(dir), p.Name)
	assert.True(t, filepath.IsAbs(p.Root))
}

func TestClassifyTypeScriptRefinement(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json":   `{"dependencies":{"express":"^4"}}`,
		"tsconfig.json":  "{}",
		"yarn.lock":      "",
		"pnpm-lock.yaml": "",
	})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, TypeScript, p.Language)
	assert.Equal(t, "express", p.Framework)
	assert.Equal(t, "pnpm", p.PackageManager)
	assert.Equal(t, []string{
		filepath.Join(p.Root, "package.json"),
		filepath.Join(p.Root, "tsconfig.json"),
	}, p.EvidenceFiles)
}

func TestClassifyNextWithoutTSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json": `{"dependencies":{"next":"14.0.0","react":"18"}}`,
	})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, NodeJS, p.Language)
	assert.Equal(t, "nextjs", p.Framework)
}

func TestClassifyNodeFrameworkPriority(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json":      `{"dependencies":{"express":"4"},"devDependencies":{"@nestjs/core":"10"}}`,
		"package-lock.json": "{}",
	})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, "nestjs", p.Framework)
	assert.Equal(t, "npm", p.PackageManager)
}

func TestClassifyMalformedPackageJSON(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"package.json": "{not json"})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, NodeJS, p.Language)
	assert.Empty(t, p.Framework)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.py":      "",
		"package.json": "{}",
		"go.mod":       "",
	})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, Python, p.Language)
	assert.Equal(t, []string{filepath.Join(p.Root, "main.py")}, p.EvidenceFiles)
}

func TestClassifyPythonFrameworkAndManager(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"manage.py": "", "Pipfile.lock": "{}"})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, Python, p.Language)
	assert.Equal(t, "django", p.Framework)
	assert.Equal(t, "pipenv", p.PackageManager)
}

func TestClassifyJavaGradle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"build.gradle.kts": ""})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, Java, p.Language)
	assert.Equal(t, "gradle", p.Framework)
}

func TestClassifyGlobCollectsAllMatches(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"b.csproj": "", "a.csproj": "", "x.sln": ""})

	p, err := Classify(dir)

	require.NoError(t, err)
	assert.Equal(t, DotNet, p.Language)
	assert.Equal(t, []string{
		filepath.Join(p.Root, "a.csproj"),
		filepath.Join(p.Root, "b.csproj"),
	}, p.EvidenceFiles)
}

func TestClassifyRejectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Classify(path)

	assert.Error(t, err)
}

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, Ruby, ParseLanguage("ruby"))
	assert.Equal(t, Unknown, ParseLanguage("cobol"))
	assert.Len(t, Supported(), 8)
}
