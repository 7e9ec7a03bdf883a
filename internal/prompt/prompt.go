// Package prompt reads answers to interactive questions from a terminal or any reader.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var isTerminal = term.IsTerminal

// ErrNonInteractive is returned when a question is asked while prompting is disabled.
var ErrNonInteractive = errors.New("input required but prompting is disabled")

// Prompter asks the user for a single line of input.
type Prompter interface {
	// Ask prints question and returns the trimmed answer.
	Ask(question string) (string, error)
	// AskSecret is Ask without echoing the answer when reading from a terminal.
	AskSecret(question string) (string, error)
}

// Terminal is a Prompter over an input reader and an output writer. End of input is
// an empty answer.
type Terminal struct {
	in       io.Reader
	reader   *bufio.Reader
	out      io.Writer
	disabled bool
}

// NewTerminal constructs a Terminal. With disabled set every question fails with
// ErrNonInteractive.
func NewTerminal(in io.Reader, out io.Writer, disabled bool) *Terminal {
	return &Terminal{in: in, reader: bufio.NewReader(in), out: out, disabled: disabled}
}

// Ask implements Prompter.
func (t *Terminal) Ask(question string) (string, error) {
	if t.disabled {
		return "", fmt.Errorf("%w: %s", ErrNonInteractive, strings.TrimSpace(question))
	}
	_, _ = fmt.Fprintf(t.out, "  %s ", question)
	line, err := t.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		_, _ = fmt.Fprintln(t.out)
	}
	return strings.TrimSpace(line), nil
}

// AskSecret implements Prompter.
func (t *Terminal) AskSecret(question string) (string, error) {
	f, ok := t.in.(*os.File)
	if t.disabled || !ok || !isTerminal(int(f.Fd())) || t.reader.Buffered() > 0 {
		// Input already buffered by an earlier Ask has left the fd.
		return t.Ask(question)
	}
	_, _ = fmt.Fprintf(t.out, "  %s ", question)
	data, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
