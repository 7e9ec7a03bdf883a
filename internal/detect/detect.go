package detect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownLanguage is returned by callers that require a classified project.
var ErrUnknownLanguage = errors.New("could not detect project language")

// Project describes a classified project directory. It is built once by Classify
// and treated as read-only afterwards.
type Project struct {
	// Language is the detected language tag.
	Language Language `yaml:"language" toml:"language"`
	// Framework is an optional framework tag such as "django" or "express".
	Framework string `yaml:"framework,omitempty" toml:"framework,omitempty"`
	// Name is derived from the root directory name.
	Name string `yaml:"name" toml:"name"`
	// Root is the absolute project path.
	Root string `yaml:"root" toml:"root"`
	// PackageManager is an optional package manager tag such as "poetry" or "pnpm".
	PackageManager string `yaml:"packageManager,omitempty" toml:"packageManager,omitempty"`
	// EvidenceFiles lists the files that triggered the classification, in detection order.
	EvidenceFiles []string `yaml:"evidenceFiles" toml:"evidenceFiles"`
}

// Path joins rel onto the project root.
func (p Project) Path(rel ...string) string {
	return filepath.Join(append([]string{p.Root}, rel...)...)
}

// Exists reports whether rel exists below the project root.
func (p Project) Exists(rel ...string) bool {
	_, err := os.Stat(p.Path(rel...))
	return err == nil
}

// Classify inspects root and returns its project description. A directory that matches
// no rule yields Language Unknown with no evidence; that is not an error.
func Classify(root string) (Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Project{}, fmt.Errorf("resolve project root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Project{}, fmt.Errorf("stat project root: %w", err)
	}
	if !info.IsDir() {
		return Project{}, fmt.Errorf("project root %q is not a directory", abs)
	}

	p := Project{
		Language:      Unknown,
		Name:          filepath.Base(abs),
		Root:          abs,
		EvidenceFiles: []string{},
	}

	for _, rule := range languageRules {
		files, framework, err := matchRule(abs, rule)
		if err != nil {
			return Project{}, err
		}
		if len(files) == 0 {
			continue
		}
		p.Language = rule.language
		p.Framework = framework
		p.EvidenceFiles = append(p.EvidenceFiles, files...)
		break
	}

	if p.Language == NodeJS && p.Exists(tsConfigFile) {
		p.Language = TypeScript
		p.EvidenceFiles = append(p.EvidenceFiles, p.Path(tsConfigFile))
	}

	p.PackageManager = detectPackageManager(abs, p.Language)

	if p.Language.IsNodeFamily() {
		p.Framework = detectNodeFramework(abs)
	}

	return p, nil
}

// matchRule returns the evidence of the first pattern of rule that matches under root.
func matchRule(root string, rule languageRule) ([]string, string, error) {
	for _, ev := range rule.patterns {
		if strings.ContainsAny(ev.pattern, "*?[") {
			matches, err := filepath.Glob(filepath.Join(root, ev.pattern))
			if err != nil {
				return nil, "", fmt.Errorf("match %q: %w", ev.pattern, err)
			}
			if len(matches) > 0 {
				return matches, ev.framework, nil
			}
			continue
		}
		path := filepath.Join(root, ev.pattern)
		if _, err := os.Stat(path); err == nil {
			return []string{path}, ev.framework, nil
		}
	}
	return nil, "", nil
}

func detectPackageManager(root string, lang Language) string {
	for _, lf := range packageManagers[lang] {
		if _, err := os.Stat(filepath.Join(root, lf.file)); err == nil {
			return lf.manager
		}
	}
	return ""
}

type packageManifest struct {
	Dependencies    map[string]json.RawMessage `json:"dependencies"`
	DevDependencies map[string]json.RawMessage `json:"devDependencies"`
}

// detectNodeFramework reads package.json; an unreadable or malformed manifest yields "".
func detectNodeFramework(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return ""
	}
	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return ""
	}
	for _, fw := range nodeFrameworks {
		if _, ok := manifest.Dependencies[fw.pkg]; ok {
			return fw.framework
		}
		if _, ok := manifest.DevDependencies[fw.pkg]; ok {
			return fw.framework
		}
	}
	return ""
}
