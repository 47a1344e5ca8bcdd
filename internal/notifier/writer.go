package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// WriterReporter prints one line per report, e.g. "(0, 100) [path-main-wp-2 field-a-row-01]".
type WriterReporter struct {
	w io.Writer
}

// NewWriterReporter returns a reporter writing to w. w must be safe for
// concurrent use if it is shared with other goroutines.
func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

// Report implements Reporter.
func (r *WriterReporter) Report(_ context.Context, rep Report) error {
	_, err := fmt.Fprintf(r.w, "%s [%s]\n", rep.Node, strings.Join(rep.Labels, " "))
	return err
}
