// Package textpatch applies narrow, idempotent text edits: exact anchor replacement and
// single-line appends. It never rewrites by pattern.
package textpatch

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrAnchorNotFound is returned when neither the anchor nor the replacement is present.
var ErrAnchorNotFound = errors.New("anchor text not found")

// Patch replaces the first occurrence of Anchor with Replacement.
type Patch struct {
	Anchor      string
	Replacement string
}

// Apply returns content with the patch applied and whether anything changed. A content
// that already carries the replacement is returned untouched, and so is a content
// without the anchor when the patch only deletes it.
func (p Patch) Apply(content string) (string, bool, error) {
	if p.Anchor == "" {
		return content, false, errors.New("patch anchor is empty")
	}
	if p.Replacement != "" && strings.Contains(content, p.Replacement) {
		return content, false, nil
	}
	if !strings.Contains(content, p.Anchor) {
		if p.Replacement == "" {
			return content, false, nil
		}
		return content, false, ErrAnchorNotFound
	}
	return strings.Replace(content, p.Anchor, p.Replacement, 1), true, nil
}

// EnsureLine appends line to content unless a line with the same trimmed text exists.
func EnsureLine(content, line string) (string, bool) {
	want := strings.TrimSpace(line)
	for _, existing := range strings.Split(content, "\n") {
		if strings.TrimSpace(existing) == want {
			return content, false
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + line + "\n", true
}

// ApplyFile runs edit over the file at path and writes the result back when it changed.
func ApplyFile(path string, edit func(string) (string, bool, error)) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	out, changed, err := edit(string(data))
	if err != nil {
		return false, fmt.Errorf("patch %s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// AppendLine ensures line is present in the file at path.
func AppendLine(path, line string) (bool, error) {
	return ApplyFile(path, func(content string) (string, bool, error) {
		out, changed := EnsureLine(content, line)
		return out, changed, nil
	})
}
