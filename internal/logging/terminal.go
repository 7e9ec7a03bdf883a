package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// isColorTerminal reports whether w is a terminal that should receive ANSI colors.
func isColorTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
