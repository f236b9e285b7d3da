package lexer

import (
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/selene/internal/diag"
	"github.com/funvibe/selene/internal/token"
)

func lexAll(input string) ([]token.Token, *diag.Sink) {
	sink := diag.NewSink()
	l := New("test.sel", input, sink)
	return l.Tokenize(), sink
}

// lexOne lexes input and returns its first token, failing on any
// diagnostic.
func lexOne(t *testing.T, input string) token.Token {
	t.Helper()
	toks, sink := lexAll(input)
	if n := sink.ErrorCount(); n != 0 {
		t.Fatalf("unexpected errors lexing %q: %v", input, sink.Errors())
	}
	if len(toks) == 0 {
		t.Fatalf("no tokens for %q", input)
	}
	return toks[0]
}

// expectLexError asserts that lexing input produces an error with the
// given code.
func expectLexError(t *testing.T, input string, code diag.ErrorCode) {
	t.Helper()
	_, sink := lexAll(input)
	for _, e := range sink.Errors() {
		if e.Code == code {
			return
		}
	}
	t.Fatalf("expected error %s lexing %q, got %v", code, input, sink.Errors())
}

func TestOperatorsMaximalMunch(t *testing.T) {
	input := "..= ..< .. :: -> => == <= >= != << >> += -= *= /= %= &= |= ^= && || |> . : = < >"
	expected := []token.TokenType{
		token.RANGE_INCL, token.RANGE_EXCL, token.DOTDOT, token.COLONCOLON,
		token.ARROW, token.FATARROW, token.EQ, token.LTE, token.GTE,
		token.NOT_EQ, token.LSHIFT, token.RSHIFT, token.PLUS_EQ,
		token.MINUS_EQ, token.ASTERISK_EQ, token.SLASH_EQ, token.PERCENT_EQ,
		token.AMPERSAND_EQ, token.PIPE_EQ, token.CARET_EQ, token.AND,
		token.OR, token.PIPE_GT, token.DOT, token.COLON, token.ASSIGN,
		token.LT, token.GT,
	}
	toks, sink := lexAll(input)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	var got []token.TokenType
	for _, tk := range toks {
		if tk.Type == token.NEWLINE {
			continue
		}
		got = append(got, tk.Type)
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestIntLiterals(t *testing.T) {
	tests := []struct {
		input  string
		value  int64
		spec   token.IntSpec
		length int
	}{
		{"0", 0, token.IntSpec{Len: 32, Signed: true}, 1},
		{"42", 42, token.IntSpec{Len: 32, Signed: true}, 2},
		{"0xFF", 255, token.IntSpec{Len: 32, Signed: true}, 4},
		{"0xFFuL", 255, token.IntSpec{Len: 64, Signed: true}, 6},
		{"7uL", 7, token.IntSpec{Len: 64, Signed: true}, 3},
		{"7u", 7, token.IntSpec{Len: 32, Signed: false}, 2},
		{"42N", 42, token.IntSpec{Len: -1, Signed: true}, 3},
		{"0b101", 5, token.IntSpec{Len: 32, Signed: true}, 5},
		{"0o17", 15, token.IntSpec{Len: 32, Signed: true}, 4},
		{"1_000_000", 1000000, token.IntSpec{Len: 32, Signed: true}, 9},
	}
	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		if tok.Type != token.INT {
			t.Errorf("%q: got %s, want INT", tt.input, tok.Type)
			continue
		}
		if tok.IntValue().Cmp(big.NewInt(tt.value)) != 0 {
			t.Errorf("%q: value %s, want %d", tt.input, tok.IntValue(), tt.value)
		}
		if tok.Int != tt.spec {
			t.Errorf("%q: spec %+v, want %+v", tt.input, tok.Int, tt.spec)
		}
		if tok.Len != tt.length {
			t.Errorf("%q: len %d, want %d", tt.input, tok.Len, tt.length)
		}
	}
}

func TestIntegerParseClosure(t *testing.T) {
	// The reparsed value must equal the positional expansion of the
	// digit sequence in its base.
	tests := []struct {
		input string
		base  int64
		digs  []int64
	}{
		{"0b1101", 2, []int64{1, 1, 0, 1}},
		{"0o742", 8, []int64{7, 4, 2}},
		{"90210", 10, []int64{9, 0, 2, 1, 0}},
		{"0xBEEF", 16, []int64{11, 14, 14, 15}},
	}
	for _, tt := range tests {
		want := int64(0)
		for _, d := range tt.digs {
			want = want*tt.base + d
		}
		tok := lexOne(t, tt.input)
		if tok.IntValue().Int64() != want {
			t.Errorf("%q: got %s, want %d", tt.input, tok.IntValue(), want)
		}
	}
}

func TestFloatLiterals(t *testing.T) {
	tests := []struct {
		input string
		typ   token.TokenType
		value float64
	}{
		{"3.14", token.DOUBLE, 3.14},
		{"1_000e3", token.DOUBLE, 1e6},
		{"1e9", token.DOUBLE, 1e9},
		{"2.5e-1", token.DOUBLE, 0.25},
		{"0x1.8p2F", token.FLOAT, 6.0},
		{"0x1p4", token.DOUBLE, 16.0},
		{"1f", token.FLOAT, 1.0},
		{"2.5F", token.FLOAT, 2.5},
	}
	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		if tok.Type != tt.typ {
			t.Errorf("%q: got %s, want %s", tt.input, tok.Type, tt.typ)
			continue
		}
		if got := tok.Literal.(float64); got != tt.value {
			t.Errorf("%q: value %g, want %g", tt.input, got, tt.value)
		}
	}
}

func TestRangeTerminatesInteger(t *testing.T) {
	toks, sink := lexAll("1..5 0..=9 2..<8")
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	expected := []token.TokenType{
		token.INT, token.DOTDOT, token.INT,
		token.INT, token.RANGE_INCL, token.INT,
		token.INT, token.RANGE_EXCL, token.INT,
	}
	i := 0
	for _, tk := range toks {
		if tk.Type == token.NEWLINE {
			continue
		}
		if i >= len(expected) {
			t.Fatalf("extra token %s", tk)
		}
		if tk.Type != expected[i] {
			t.Errorf("token %d: got %s, want %s", i, tk.Type, expected[i])
		}
		i++
	}
}

func TestCharLiterals(t *testing.T) {
	tests := []struct {
		input string
		value rune
	}{
		{"'a'", 'a'},
		{`'\n'`, '\n'},
		{`'\t'`, '\t'},
		{`'\''`, '\''},
		{`'\\'`, '\\'},
		{`'\x41'`, 'A'},
		{`'A'`, 'A'},
		{`'\u{1F600}'`, 0x1F600},
		{"'好'", '好'},
	}
	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		if tok.Type != token.CHAR {
			t.Errorf("%q: got %s, want CHAR", tt.input, tok.Type)
			continue
		}
		if got := tok.Literal.(rune); got != tt.value {
			t.Errorf("%q: value %q, want %q", tt.input, got, tt.value)
		}
	}
}

func TestStringLiteralKeepsEscapesRaw(t *testing.T) {
	// The lexer leaves escapes unresolved; a quote closes the literal
	// only when preceded by an even number of backslashes.
	tests := []struct {
		input   string
		content string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\"b"`, `a\"b`},
		{`"x\\"`, `x\\`},
		{`"tab\there"`, `tab\there`},
	}
	for _, tt := range tests {
		tok := lexOne(t, tt.input)
		if tok.Type != token.STRING {
			t.Errorf("%q: got %s, want STRING", tt.input, tok.Type)
			continue
		}
		if tok.Text() != tt.content {
			t.Errorf("%q: content %q, want %q", tt.input, tok.Text(), tt.content)
		}
	}
}

func TestByteLiterals(t *testing.T) {
	tok := lexOne(t, "b'A'")
	if tok.Type != token.BYTE || tok.Literal.(byte) != 65 {
		t.Errorf("b'A': got %s %v", tok.Type, tok.Literal)
	}

	tok = lexOne(t, `b'\xFF'`)
	if tok.Type != token.BYTE || tok.Literal.(byte) != 255 {
		t.Errorf(`b'\xFF': got %s %v`, tok.Type, tok.Literal)
	}
}

func TestByteStringUTF8(t *testing.T) {
	tok := lexOne(t, `b"我"`)
	if tok.Type != token.BYTESTRING {
		t.Fatalf("got %s, want BYTESTRING", tok.Type)
	}
	got := tok.Literal.([]byte)
	want := []byte{0xE6, 0x88, 0x91}
	if len(got) != len(want) {
		t.Fatalf("payload %x, want %x", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("payload %x, want %x", got, want)
		}
	}
}

func TestByteStringEscapes(t *testing.T) {
	tok := lexOne(t, `b"a\n\x00"`)
	got := tok.Literal.([]byte)
	want := []byte{'a', '\n', 0}
	if string(got) != string(want) {
		t.Fatalf("payload %x, want %x", got, want)
	}
}

func TestRawStringMerging(t *testing.T) {
	input := "#|a\n#|b\n#|c\n"
	toks, sink := lexAll(input)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	var raws []token.Token
	for _, tk := range toks {
		if tk.Type == token.RAWSTR {
			raws = append(raws, tk)
		}
	}
	if len(raws) != 1 {
		t.Fatalf("got %d raw-string tokens, want 1 merged", len(raws))
	}
	if raws[0].Text() != "a\nb\nc\n" {
		t.Errorf("payload %q, want %q", raws[0].Text(), "a\nb\nc\n")
	}
	if raws[0].Len != 12 {
		t.Errorf("len %d, want 12", raws[0].Len)
	}
	if raws[0].Loc.Pos != 0 {
		t.Errorf("loc %d, want 0", raws[0].Loc.Pos)
	}
}

func TestRawStringSeparatedNotMerged(t *testing.T) {
	input := "#|a\nx\n#|b\n"
	toks, _ := lexAll(input)
	var raws int
	for _, tk := range toks {
		if tk.Type == token.RAWSTR {
			raws++
		}
	}
	if raws != 2 {
		t.Errorf("got %d raw-string tokens, want 2", raws)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "pub(all) pub(open) pub fn let mut impl trait Selene snake_case @core/prelude #deprecated"
	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.PUBALL, ""},
		{token.PUBOPEN, ""},
		{token.PUB, "pub"},
		{token.FN, "fn"},
		{token.LET, "let"},
		{token.MUT, "mut"},
		{token.IMPL, "impl"},
		{token.TRAIT, "trait"},
		{token.TYPENAME, "Selene"},
		{token.IDENT, "snake_case"},
		{token.PACKNAME, "core/prelude"},
		{token.ATTR, "deprecated"},
	}
	toks, sink := lexAll(input)
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	i := 0
	for _, tk := range toks {
		if tk.Type == token.NEWLINE {
			continue
		}
		if i >= len(expected) {
			t.Fatalf("extra token %s", tk)
		}
		if tk.Type != expected[i].typ {
			t.Errorf("token %d: got %s, want %s", i, tk.Type, expected[i].typ)
		}
		if expected[i].literal != "" && tk.Text() != expected[i].literal {
			t.Errorf("token %d: literal %q, want %q", i, tk.Text(), expected[i].literal)
		}
		i++
	}
}

func TestNewlineTokens(t *testing.T) {
	toks, _ := lexAll("a\nb")
	var kinds []token.TokenType
	for _, tk := range toks {
		kinds = append(kinds, tk.Type)
	}
	// The sentinel contributes the trailing newline.
	want := []token.TokenType{token.IDENT, token.NEWLINE, token.IDENT, token.NEWLINE}
	if len(kinds) != len(want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("got %v, want %v", kinds, want)
		}
	}
	if toks[1].Loc.Pos != 1 {
		t.Errorf("newline loc %d, want 1", toks[1].Loc.Pos)
	}
}

func TestLineCommentsSkipped(t *testing.T) {
	toks, sink := lexAll("a // comment with \"stuff\"\nb")
	if sink.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}
	var idents []string
	for _, tk := range toks {
		if tk.Type == token.IDENT {
			idents = append(idents, tk.Text())
		}
	}
	if len(idents) != 2 || idents[0] != "a" || idents[1] != "b" {
		t.Errorf("idents %v, want [a b]", idents)
	}
}

func TestRoundTripWidth(t *testing.T) {
	src := `fn main() {
	let xs = [1, 0xFFuL, 3.14, 'q', "str\n"]
	let b = b"我" // bytes
	xs |> each
}`
	toks, _ := lexAll(src)
	for _, tk := range toks {
		if tk.Type == token.NEWLINE || tk.Type == token.RAWSTR {
			continue
		}
		end := tk.Loc.Pos + tk.Len
		if end > len(src) {
			t.Errorf("token %s spans past the source: %d..%d", tk, tk.Loc.Pos, end)
			continue
		}
		if got := src[tk.Loc.Pos:end]; got != tk.Lexeme {
			t.Errorf("token %s: source slice %q != lexeme %q", tk.Type, got, tk.Lexeme)
		}
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input string
		code  diag.ErrorCode
	}{
		{`"unterminated`, diag.ErrL001},
		{"'a", diag.ErrL002},
		{"''", diag.ErrL002},
		{"0b12", diag.ErrL003},
		{"0o9", diag.ErrL003},
		{`'\q'`, diag.ErrL004},
		{"b'€'", diag.ErrL005},
		{"§", diag.ErrL006},
		{"0x1.8", diag.ErrL007},
	}
	for _, tt := range tests {
		expectLexError(t, tt.input, tt.code)
	}
}

func TestHasNextSentinel(t *testing.T) {
	sink := diag.NewSink()
	l := New("test.sel", "x", sink)
	count := 0
	for l.HasNext() {
		tk := l.NextToken()
		if tk.Type == token.EOF {
			break
		}
		count++
		if count > 10 {
			t.Fatal("lexer did not terminate")
		}
	}
	// One identifier plus the sentinel newline.
	if count != 2 {
		t.Errorf("token count %d, want 2", count)
	}
}

func TestLexemeOfMultibyteChar(t *testing.T) {
	tok := lexOne(t, "'好'")
	if tok.Len != len("'好'") {
		t.Errorf("len %d, want %d", tok.Len, len("'好'"))
	}
	if !strings.HasPrefix(tok.Lexeme, "'") {
		t.Errorf("lexeme %q", tok.Lexeme)
	}
}
