package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
	"github.com/errobs/clientkit/internal/prompt"
	"github.com/errobs/clientkit/internal/provision"
)

const testDSN = "https://abc@errors.example.com/3"

type nopRunner struct{ calls int }

func (n *nopRunner) Run(context.Context, string, string, ...string) error {
	n.calls++
	return nil
}

func goProject(t *testing.T, extra map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"go.mod": "module example.com/shop\n"}
	for k, v := range extra {
		files[k] = v
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func baseOptions(root, answers string, out *bytes.Buffer) Options {
	return Options{
		ProjectRoot: root,
		Environment: "production",
		Runner:      &nopRunner{},
		Prompter:    prompt.NewTerminal(strings.NewReader(answers), out, false),
		Out:         out,
	}
}

func readEnv(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	return string(data)
}

func TestRunInstallWithExplicitDSN(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.DSN = testDSN
	opts.Action = ActionInstall

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, detect.Go, res.Project.Language)
	assert.Equal(t, "options", res.DSNSource)
	require.NotNil(t, res.Report)
	assert.Contains(t, readEnv(t, root), "SENTRY_DSN="+testDSN+"\n")
	assert.FileExists(t, filepath.Join(root, "pkg", "sentry", "sentry.go"))
	assert.Contains(t, out.String(), "Integration complete!")
	assert.Contains(t, out.String(), "sentry.Init()")
}

func TestRunUnknownProject(t *testing.T) {
	var out bytes.Buffer
	opts := baseOptions(t.TempDir(), "", &out)
	opts.Action = ActionInstall
	opts.DSN = testDSN

	_, err := Run(context.Background(), opts)

	require.ErrorIs(t, err, detect.ErrUnknownLanguage)
	assert.Contains(t, err.Error(), "Python, Node.js, TypeScript, Java, .NET, Go, PHP, Ruby")
}

func TestRunMenuExitHasNoSideEffects(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "4\n", &out)
	opts.DSN = testDSN

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, ActionExit, res.Action)
	assert.Nil(t, res.Report)
	assert.NoFileExists(t, filepath.Join(root, ".env"))
	assert.Contains(t, out.String(), "Exiting.")
}

func TestRunMenuChoosesUpdateDSN(t *testing.T) {
	root := goProject(t, map[string]string{".env": "PORT=1\nSENTRY_DSN=old\n"})
	var out bytes.Buffer
	opts := baseOptions(root, "2\n", &out)
	opts.DSN = testDSN

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, ActionUpdateDSN, res.Action)
	assert.Equal(t, "PORT=1\nSENTRY_DSN="+testDSN+"\n", readEnv(t, root))
	assert.NoFileExists(t, filepath.Join(root, "pkg", "sentry", "sentry.go"))
}

func TestRunPromptsForDSN(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, testDSN+"\n1\n", &out)

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, "prompt", res.DSNSource)
	assert.Equal(t, ActionInstall, res.Action)
	assert.Contains(t, readEnv(t, root), testDSN)
}

func TestRunInstallWithoutDSNFails(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "\n", &out)
	opts.Action = ActionInstall

	_, err := Run(context.Background(), opts)

	assert.ErrorIs(t, err, ErrMissingDSN)
	assert.NoFileExists(t, filepath.Join(root, ".env"))
}

func TestRunNonInteractive(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.Prompter = prompt.NewTerminal(strings.NewReader(""), &out, true)
	opts.NonInteractive = true

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrNoAction)

	opts.Action = ActionInstall
	_, err = Run(context.Background(), opts)
	assert.ErrorIs(t, err, ErrMissingDSN)
}

func TestRunUpdateClientReadsStoredDSN(t *testing.T) {
	root := goProject(t, map[string]string{".env": "SENTRY_DSN=" + testDSN + "\n"})
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.Action = ActionUpdateClient

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, "env-file", res.DSNSource)
	client, err := os.ReadFile(filepath.Join(root, "pkg", "sentry", "sentry.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), testDSN)
}

func TestRunUpdateClientWithoutAnyDSN(t *testing.T) {
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.Action = ActionUpdateClient

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Empty(t, res.DSNSource)
	assert.FileExists(t, filepath.Join(root, "pkg", "sentry", "sentry.go"))
	assert.NoFileExists(t, filepath.Join(root, ".env"))
}

func TestRunAppliesPatchesAfterInstall(t *testing.T) {
	root := goProject(t, map[string]string{"main.go": "package main\n\nfunc main() {\n}\n"})
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.DSN = testDSN
	opts.Action = ActionInstall
	opts.Patches = []config.Patch{
		{File: "main.go", Anchor: "func main() {\n", Replacement: "func main() {\n\t_ = sentry.Init()\n"},
		{File: "missing.go", Anchor: "x", Replacement: "y"},
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, res.Patched)
	assert.Len(t, res.Report.Warnings(), 1)

	res, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, res.Patched)

	data, err := os.ReadFile(filepath.Join(root, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "sentry.Init()"))
}

// apiServer serves one team with one project.
func apiServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	creates := 0
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc(provision.BasePath+"/teams/", func(w http.ResponseWriter, r *http.Request) {
		write(w, http.StatusOK, map[string]any{"results": []map[string]any{{"id": "t-1", "name": "Platform"}}})
	})
	mux.HandleFunc(provision.BasePath+"/projects/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			creates++
			write(w, http.StatusCreated, map[string]any{"id": 2, "team": "t-1", "name": "shop"})
		case r.URL.Path == provision.BasePath+"/projects/":
			write(w, http.StatusOK, map[string]any{"results": []map[string]any{{"id": 1, "team": "t-1", "name": "billing"}}})
		case r.URL.Path == provision.BasePath+"/projects/1/":
			write(w, http.StatusOK, map[string]any{"id": 1, "team": "t-1", "name": "billing", "dsn": "https://k1@errors.example.com/1"})
		case r.URL.Path == provision.BasePath+"/projects/2/":
			write(w, http.StatusOK, map[string]any{"id": 2, "team": "t-1", "name": "shop", "dsn": "https://k2@errors.example.com/2"})
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &creates
}

func TestRunResolvesDSNThroughAPI(t *testing.T) {
	srv, creates := apiServer(t)
	root := goProject(t, nil)
	var out bytes.Buffer
	// team 1, existing project 1
	opts := baseOptions(root, "1\n1\n", &out)
	opts.Action = ActionUpdateDSN
	opts.APIURL = srv.URL
	opts.APIKey = "key"

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, "api", res.DSNSource)
	assert.Zero(t, *creates)
	assert.Contains(t, readEnv(t, root), "SENTRY_DSN=https://k1@errors.example.com/1\n")
	assert.Contains(t, out.String(), "1. Platform")
	assert.Contains(t, out.String(), "(default: "+filepath.Base(root)+")")
}

func TestRunCreatesProjectThroughAPI(t *testing.T) {
	srv, creates := apiServer(t)
	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, "", &out)
	opts.Action = ActionUpdateDSN
	opts.APIURL = srv.URL
	opts.APIKey = "key"
	opts.Team = "platform"
	opts.Project = "shop"

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, 1, *creates)
	assert.Equal(t, "api", res.DSNSource)
	assert.Contains(t, readEnv(t, root), "SENTRY_DSN=https://k2@errors.example.com/2\n")
}

func TestRunFallsBackWhenAPIUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	root := goProject(t, nil)
	var out bytes.Buffer
	opts := baseOptions(root, testDSN+"\n", &out)
	opts.Action = ActionUpdateDSN
	opts.APIURL = url
	opts.APIKey = "key"

	res, err := Run(context.Background(), opts)

	require.NoError(t, err)
	assert.Equal(t, "prompt", res.DSNSource)
	assert.NotContains(t, out.String(), "Connected to API")
}

func TestMenuIndex(t *testing.T) {
	idx, ok := menuIndex("3")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	_, ok = menuIndex("team-3")
	assert.False(t, ok)

	_, ok = menuIndex("")
	assert.False(t, ok)
}
