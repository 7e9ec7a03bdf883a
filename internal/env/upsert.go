package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// SectionMarker is the comment line written above keys appended by Upsert.
const SectionMarker = "# Error Observability"

// UpsertResult describes what Upsert did to the file.
type UpsertResult int

const (
	// Appended means the key was missing and a new section was written.
	Appended UpsertResult = iota
	// Replaced means the first line holding the key was rewritten.
	Replaced
	// Unchanged means the first line holding the key already had the requested value.
	Unchanged
	// Kept means the key exists and onlyIfMissing prevented an update.
	Kept
	// Skipped means the file does not exist and onlyIfMissing prevented its creation.
	Skipped
)

// String implements fmt.Stringer.
func (r UpsertResult) String() string {
	switch r {
	case Appended:
		return "appended"
	case Replaced:
		return "replaced"
	case Unchanged:
		return "unchanged"
	case Kept:
		return "kept"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("UpsertResult(%d)", int(r))
	}
}

// Changed reports whether the file content was modified.
func (r UpsertResult) Changed() bool {
	return r == Appended || r == Replaced
}

// Upsert sets key=value in the .env-style file at path.
//
// Only the first line whose trimmed form starts with "key=" is considered; every
// other line is preserved byte for byte. With onlyIfMissing an existing key is left
// alone and a missing file is never created.
func Upsert(path, key, value string, onlyIfMissing bool) (UpsertResult, error) {
	if strings.TrimSpace(key) == "" {
		return Skipped, errors.New("env key is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Skipped, fmt.Errorf("read %s: %w", path, err)
		}
		if onlyIfMissing {
			return Skipped, nil
		}
	}

	lines := splitLines(string(data))
	prefix := key + "="
	entry := prefix + value + "\n"

	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		if onlyIfMissing {
			return Kept, nil
		}
		if line == entry {
			return Unchanged, nil
		}
		lines[i] = entry
		return Replaced, writeLines(path, lines)
	}

	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	lines = append(lines, "\n", SectionMarker+"\n", entry)
	return Appended, writeLines(path, lines)
}

// splitLines splits s into lines that keep their trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func writeLines(path string, lines []string) error {
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
