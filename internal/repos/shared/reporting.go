package shared

import (
	"fmt"
	"io"
	"os"
)

// Reporter emits human-readable report lines.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer, defaulting to standard output.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return writerReporter{writer: writer}
}

// Printf formats and writes a report line, ignoring write failures.
func (reporter writerReporter) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(reporter.writer, format, args...)
}
