// Package templates holds the per-language integration templates and renders them by
// literal placeholder substitution.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/errobs/clientkit/internal/config"
	"github.com/errobs/clientkit/internal/detect"
)

const assetSuffix = ".tmpl"

// Placeholder tokens recognised in template bodies.
const (
	PlaceholderDSN         = "{{DSN}}"
	PlaceholderEnvironment = "{{ENVIRONMENT}}"
	PlaceholderRelease     = "{{RELEASE}}"
	PlaceholderEnvDSN      = "${SENTRY_DSN}"
)

// ErrTemplateNotFound is returned when a language has no asset with the requested name.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed assets
var embedded embed.FS

// Asset is a named, read-only template body keyed by language and name.
type Asset struct {
	// Language is the language the template belongs to.
	Language detect.Language
	// Name is the output file name, e.g. "sentry_config.py".
	Name string
	// Placeholders lists the tokens that occur in the body.
	Placeholders []string

	body string
}

// Body returns the raw template text.
func (a Asset) Body() string {
	return a.body
}

// Store reads template assets from an fs.FS laid out as <language>/<name>.tmpl.
type Store struct {
	fsys fs.FS
}

// NewStore constructs a Store over fsys.
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Embedded returns the Store backed by the templates compiled into the binary.
func Embedded() *Store {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return NewStore(sub)
}

// FromDir returns a Store reading templates from a directory on disk.
func FromDir(dir string) *Store {
	return NewStore(os.DirFS(dir))
}

// TemplatesFor lists every asset of lang, sorted by name. A language without a
// template directory has no assets.
func (s *Store) TemplatesFor(lang detect.Language) ([]Asset, error) {
	root := string(lang)
	var out []Asset
	err := fs.WalkDir(s.fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, assetSuffix) {
			return nil
		}
		name := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), assetSuffix)
		asset, err := s.load(lang, name)
		if err != nil {
			return err
		}
		out = append(out, asset)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list templates for %s: %w", lang, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Asset returns the named asset of lang or ErrTemplateNotFound.
func (s *Store) Asset(lang detect.Language, name string) (Asset, error) {
	return s.load(lang, name)
}

// Render renders the named asset of lang against cfg.
func (s *Store) Render(lang detect.Language, name string, cfg config.Integration) (string, error) {
	asset, err := s.load(lang, name)
	if err != nil {
		return "", err
	}
	return Substitute(asset.body, cfg), nil
}

func (s *Store) load(lang detect.Language, name string) (Asset, error) {
	p := path.Join(string(lang), name+assetSuffix)
	data, err := fs.ReadFile(s.fsys, p)
	if errors.Is(err, fs.ErrNotExist) {
		return Asset{}, fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, lang, name)
	}
	if err != nil {
		return Asset{}, fmt.Errorf("read template %s: %w", p, err)
	}
	body := string(data)
	return Asset{
		Language:     lang,
		Name:         name,
		Placeholders: placeholdersIn(body),
		body:         body,
	}, nil
}

func placeholdersIn(body string) []string {
	var out []string
	for _, token := range []string{PlaceholderDSN, PlaceholderEnvironment, PlaceholderRelease, PlaceholderEnvDSN} {
		if strings.Contains(body, token) {
			out = append(out, token)
		}
	}
	return out
}

// Substitute replaces every placeholder in body in a single pass; values are never
// rescanned, so a value that contains placeholder text is written verbatim.
func Substitute(body string, cfg config.Integration) string {
	r := strings.NewReplacer(
		PlaceholderDSN, cfg.DSN,
		PlaceholderEnvironment, cfg.Environment,
		PlaceholderRelease, cfg.Release,
		PlaceholderEnvDSN, cfg.DSN,
	)
	return r.Replace(body)
}
