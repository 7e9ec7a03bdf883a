package logging

import (
	"log/slog"
	"strings"
)

// Writer is an io.Writer implementation that forwards command output to slog.
type Writer struct {
	logger  *slog.Logger
	command string
}

// NewWriter constructs a Writer bound to the provided logger. The command name is
// attached to every forwarded line.
func NewWriter(logger *slog.Logger, command string) *Writer {
	return &Writer{logger: logger, command: command}
}

// Write logs every non-empty line of p at debug level.
func (w *Writer) Write(p []byte) (int, error) {
	if w.logger == nil {
		return len(p), nil
	}
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		w.logger.Debug("command output", "command", w.command, "line", line)
	}
	return len(p), nil
}
