package diag

import (
	"fmt"

	"github.com/funvibe/selene/internal/token"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticError is a single reported problem with a source span.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	From     token.Loc
	To       token.Loc
	Msg      string
}

func (e *DiagnosticError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Msg)
}

// New constructs an error diagnostic over the span [from, to].
func New(code ErrorCode, from, to token.Loc, msg string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityError, From: from, To: to, Msg: msg}
}

// Newf is New with a format string.
func Newf(code ErrorCode, from, to token.Loc, format string, args ...any) *DiagnosticError {
	return New(code, from, to, fmt.Sprintf(format, args...))
}

// file holds registered source contents and a lazily built line index.
type file struct {
	content    string
	lineStarts []int // byte offset of each line start
}

func (f *file) index() []int {
	if f.lineStarts == nil {
		starts := []int{0}
		for i := 0; i < len(f.content); i++ {
			if f.content[i] == '\n' {
				starts = append(starts, i+1)
			}
		}
		f.lineStarts = starts
	}
	return f.lineStarts
}

// Position is a resolved 1-based line/column pair.
type Position struct {
	Line int
	Col  int
}

// Default is the process-wide sink. The core is single-threaded; a
// multithreaded host must guard it or use per-thread sinks.
var Default = NewSink()
