package htmltext

import (
	"fmt"
	"io"
)

// Diagnostic is a positioned message about the input.
type Diagnostic struct {
	Source  string
	Pos     Position
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("File %q, line %d, column %d: %s", d.Source, d.Pos.Line, d.Pos.Column, d.Message)
}

// DiagnosticSink receives diagnostics.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// WriterSink writes one diagnostic per line.
type WriterSink struct {
	W io.Writer
}

// Report writes d to the underlying writer; write errors are ignored.
func (s WriterSink) Report(d Diagnostic) {
	_, _ = fmt.Fprintln(s.W, d.String())
}
