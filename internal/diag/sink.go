package diag

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/rivo/uniseg"
	"github.com/tidwall/btree"

	"github.com/funvibe/selene/internal/token"
)

// diagItem orders diagnostics by source position; seq breaks ties so
// discovery order is preserved within a single location.
type diagItem struct {
	file string
	pos  int
	seq  int
	d    *DiagnosticError
}

func diagLess(a, b diagItem) bool {
	if a.file != b.file {
		return a.file < b.file
	}
	if a.pos != b.pos {
		return a.pos < b.pos
	}
	return a.seq < b.seq
}

// Sink collects source file contents and diagnostics for one process.
type Sink struct {
	files map[string]*file
	diags *btree.BTreeG[diagItem]
	seq   int
}

// NewSink returns an empty sink.
func NewSink() *Sink {
	return &Sink{
		files: make(map[string]*file),
		diags: btree.NewBTreeG[diagItem](diagLess),
	}
}

// Register stores the contents of a source file, keyed by filename.
// Registering the same filename again replaces the previous contents.
func (s *Sink) Register(filename, content string) {
	s.files[filename] = &file{content: content}
}

// Content returns the registered contents for filename.
func (s *Sink) Content(filename string) (string, bool) {
	f, ok := s.files[filename]
	if !ok {
		return "", false
	}
	return f.content, true
}

// Position resolves a location to a 1-based line and column. The column
// counts runes from the line start. Unknown or unregistered locations
// resolve to 0:0.
func (s *Sink) Position(loc token.Loc) Position {
	if loc.Unknown {
		return Position{}
	}
	f, ok := s.files[loc.File]
	if !ok {
		return Position{}
	}
	starts := f.index()
	line := searchLine(starts, loc.Pos)
	lineStart := starts[line]
	end := loc.Pos
	if end > len(f.content) {
		end = len(f.content)
	}
	col := utf8.RuneCountInString(f.content[lineStart:end]) + 1
	return Position{Line: line + 1, Col: col}
}

// searchLine returns the index of the last line start <= pos.
func searchLine(starts []int, pos int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// FormatLoc renders a location as file:line:col.
func (s *Sink) FormatLoc(loc token.Loc) string {
	if loc.Unknown {
		return fmt.Sprintf("%s:?", loc.File)
	}
	p := s.Position(loc)
	return fmt.Sprintf("%s:%d:%d", loc.File, p.Line, p.Col)
}

// Add records a diagnostic.
func (s *Sink) Add(d *DiagnosticError) {
	s.diags.Set(diagItem{file: d.From.File, pos: d.From.Pos, seq: s.seq, d: d})
	s.seq++
}

// Errorf records an error diagnostic over [from, to].
func (s *Sink) Errorf(code ErrorCode, from, to token.Loc, format string, args ...any) {
	s.Add(Newf(code, from, to, format, args...))
}

// Warnf records a warning diagnostic over [from, to].
func (s *Sink) Warnf(code ErrorCode, from, to token.Loc, format string, args ...any) {
	d := Newf(code, from, to, format, args...)
	d.Severity = SeverityWarning
	s.Add(d)
}

// All returns every diagnostic in source order.
func (s *Sink) All() []*DiagnosticError {
	out := make([]*DiagnosticError, 0, s.diags.Len())
	s.diags.Scan(func(item diagItem) bool {
		out = append(out, item.d)
		return true
	})
	return out
}

// Errors returns the error-severity diagnostics in source order.
func (s *Sink) Errors() []*DiagnosticError {
	var out []*DiagnosticError
	for _, d := range s.All() {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns the warning-severity diagnostics in source order.
func (s *Sink) Warnings() []*DiagnosticError {
	var out []*DiagnosticError
	for _, d := range s.All() {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// ErrorCount returns the number of error-severity diagnostics.
func (s *Sink) ErrorCount() int {
	return len(s.Errors())
}

// Reset drops all recorded diagnostics but keeps registered files.
func (s *Sink) Reset() {
	s.diags = btree.NewBTreeG[diagItem](diagLess)
	s.seq = 0
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
)

// Render writes all diagnostics to w, with the offending source line and
// a caret span underneath. Color is enabled only when w is a terminal.
func (s *Sink) Render(w io.Writer) {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range s.All() {
		s.renderOne(w, d, color)
	}
}

func (s *Sink) renderOne(w io.Writer, d *DiagnosticError, color bool) {
	sev := d.Severity.String()
	if color {
		c := ansiRed
		if d.Severity == SeverityWarning {
			c = ansiYellow
		}
		fmt.Fprintf(w, "%s%s:%s %s%s[%s]%s %s\n", ansiBold, s.FormatLoc(d.From), ansiReset, c, sev, d.Code, ansiReset, d.Msg)
	} else {
		fmt.Fprintf(w, "%s: %s[%s] %s\n", s.FormatLoc(d.From), sev, d.Code, d.Msg)
	}

	f, ok := s.files[d.From.File]
	if !ok || d.From.Unknown {
		return
	}
	starts := f.index()
	line := searchLine(starts, d.From.Pos)
	lineStart := starts[line]
	lineEnd := len(f.content)
	if line+1 < len(starts) {
		lineEnd = starts[line+1] - 1
	}
	src := f.content[lineStart:lineEnd]
	fmt.Fprintf(w, "  %s\n", src)

	// Display width (terminal cells, measured per grapheme cluster) of the
	// prefix and of the span, so the caret lines up under multi-byte and
	// wide source text.
	pre := d.From.Pos - lineStart
	if pre < 0 {
		pre = 0
	}
	if pre > len(src) {
		pre = len(src)
	}
	span := d.To.Pos - d.From.Pos
	if d.To.Unknown || span < 1 {
		span = 1
	}
	if pre+span > len(src) {
		span = len(src) - pre
		if span < 1 {
			span = 1
		}
	}
	pad := uniseg.StringWidth(src[:pre])
	width := uniseg.StringWidth(src[pre : pre+span])
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "  %*s", pad, "")
	for i := 0; i < width; i++ {
		fmt.Fprint(w, "^")
	}
	fmt.Fprintln(w)
}
