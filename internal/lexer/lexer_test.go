package lexer

import (
	"testing"

	"github.com/Zorbn/mscript/pkg/token"
)

// tok is a compact expected-token spec for table tests.
type tok struct {
	typ token.Type
	lit string
}

func checkLine(t *testing.T, got []token.Token, want []tok) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count: got %d, want %d (%v)", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Type != w.typ {
			t.Errorf("token %d: got type %s, want %s", i, got[i].Type, w.typ)
		}
		if got[i].Literal != w.lit {
			t.Errorf("token %d: got literal %q, want %q", i, got[i].Literal, w.lit)
		}
	}
}

func TestLexSimpleCommand(t *testing.T) {
	l := New()
	lines := l.Lex(` w "hi"`)

	if len(lines) != 1 {
		t.Fatalf("line count: got %d, want 1", len(lines))
	}
	checkLine(t, lines[0], []tok{
		{token.LEADING_WS, " "},
		{token.IDENT, "w"},
		{token.SPACE, " "},
		{token.STRING, "hi"},
		{token.TRAILING_WS, ""},
	})
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
}

func TestLexLineShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []tok
	}{
		{
			name:  "blank line",
			input: "",
			want:  []tok{{token.TRAILING_WS, ""}},
		},
		{
			name:  "whitespace only line",
			input: "   ",
			want:  []tok{{token.TRAILING_WS, "   "}},
		},
		{
			name:  "trailing spaces fold into trailing whitespace",
			input: " w 1  ",
			want: []tok{
				{token.LEADING_WS, " "},
				{token.IDENT, "w"},
				{token.SPACE, " "},
				{token.NUMBER, "1"},
				{token.TRAILING_WS, "  "},
			},
		},
		{
			name:  "comment spans to end of line",
			input: " ; a comment, with ) chars",
			want: []tok{
				{token.LEADING_WS, " "},
				{token.COMMENT, "; a comment, with ) chars"},
				{token.TRAILING_WS, ""},
			},
		},
		{
			name:  "tag line with parameters",
			input: "add(a,b) q a+b",
			want: []tok{
				{token.IDENT, "add"},
				{token.LPAREN, "("},
				{token.IDENT, "a"},
				{token.COMMA, ","},
				{token.IDENT, "b"},
				{token.RPAREN, ")"},
				{token.SPACE, " "},
				{token.IDENT, "q"},
				{token.SPACE, " "},
				{token.IDENT, "a"},
				{token.PLUS, "+"},
				{token.IDENT, "b"},
				{token.TRAILING_WS, ""},
			},
		},
		{
			name:  "indent markers",
			input: " . . w 1",
			want: []tok{
				{token.LEADING_WS, " "},
				{token.DOT, "."},
				{token.SPACE, " "},
				{token.DOT, "."},
				{token.SPACE, " "},
				{token.IDENT, "w"},
				{token.SPACE, " "},
				{token.NUMBER, "1"},
				{token.TRAILING_WS, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			lines := l.Lex(tt.input)
			if len(lines) != 1 {
				t.Fatalf("line count: got %d, want 1", len(lines))
			}
			checkLine(t, lines[0], tt.want)
		})
	}
}

func TestLexOperators(t *testing.T) {
	l := New()
	lines := l.Lex(`.,:()=$'_#!?\/*+-&<>`)

	want := []tok{
		{token.DOT, "."},
		{token.COMMA, ","},
		{token.COLON, ":"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.EQ, "="},
		{token.DOLLAR, "$"},
		{token.APOSTROPHE, "'"},
		{token.UNDERSCORE, "_"},
		{token.HASH, "#"},
		{token.BANG, "!"},
		{token.QUESTION, "?"},
		{token.BACKSLASH, `\`},
		{token.SLASH, "/"},
		{token.ASTERISK, "*"},
		{token.PLUS, "+"},
		{token.MINUS, "-"},
		{token.AMPERSAND, "&"},
		{token.LESS, "<"},
		{token.GREATER, ">"},
		{token.TRAILING_WS, ""},
	}
	checkLine(t, lines[0], want)
}

func TestLexPowerOperator(t *testing.T) {
	l := New()
	lines := l.Lex(`2**3*4`)
	checkLine(t, lines[0], []tok{
		{token.NUMBER, "2"},
		{token.POWER, "**"},
		{token.NUMBER, "3"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "4"},
		{token.TRAILING_WS, ""},
	})
}

func TestLexNumbers(t *testing.T) {
	tests := []struct {
		input string
		lit   string
		value float64
	}{
		{"0", "0", 0},
		{"123", "123", 123},
		{"3.5", "3.5", 3.5},
		{"2E3", "2E3", 2000},
		{"2e-2", "2e-2", 0.02},
		{"10E+1", "10E+1", 100},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New()
			lines := l.Lex(tt.input)
			got := lines[0][0]
			if got.Type != token.NUMBER {
				t.Fatalf("got type %s, want NUMBER", got.Type)
			}
			if got.Literal != tt.lit {
				t.Errorf("got literal %q, want %q", got.Literal, tt.lit)
			}
			if got.Value != tt.value {
				t.Errorf("got value %v, want %v", got.Value, tt.value)
			}
		})
	}
}

func TestLexNumberWithBareExponent(t *testing.T) {
	// "1E" is the number 1 followed by the identifier E, not a malformed
	// exponent.
	l := New()
	lines := l.Lex(`1E`)
	checkLine(t, lines[0], []tok{
		{token.NUMBER, "1"},
		{token.IDENT, "E"},
		{token.TRAILING_WS, ""},
	})
	if len(l.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
}

func TestLexStrings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `"hello"`, "hello"},
		{"empty", `""`, ""},
		{"embedded quote", `"say ""hi"""`, `say "hi"`},
		{"spaces preserved", `"a b  c"`, "a b  c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			lines := l.Lex(tt.input)
			got := lines[0][0]
			if got.Type != token.STRING {
				t.Fatalf("got type %s, want STRING", got.Type)
			}
			if got.Literal != tt.want {
				t.Errorf("got %q, want %q", got.Literal, tt.want)
			}
		})
	}
}

func TestLexUnterminatedString(t *testing.T) {
	l := New()
	lines := l.Lex(` w "abc`)

	if len(l.Errors()) != 1 {
		t.Fatalf("error count: got %d, want 1", len(l.Errors()))
	}
	err := l.Errors()[0]
	if err.Message != "unterminated string literal" {
		t.Errorf("got message %q", err.Message)
	}
	if err.Pos.Line != 0 || err.Pos.Column != 3 {
		t.Errorf("got pos %v, want 0:3", err.Pos)
	}

	// The grid is still complete; the partial string is kept.
	last := lines[0][len(lines[0])-2]
	if last.Type != token.STRING || last.Literal != "abc" {
		t.Errorf("got %s %q, want STRING \"abc\"", last.Type, last.Literal)
	}
}

func TestLexIllegalCharacter(t *testing.T) {
	l := New()
	l.Lex(` w {`)
	if len(l.Errors()) != 1 {
		t.Fatalf("error count: got %d, want 1", len(l.Errors()))
	}
}

func TestLexPositionsAreZeroIndexed(t *testing.T) {
	l := New()
	lines := l.Lex("\n w 1")

	tok1 := lines[1][1] // the IDENT on the second line
	if tok1.Pos.Line != 1 || tok1.Pos.Column != 1 {
		t.Errorf("got pos %v, want 1:1", tok1.Pos)
	}
}

func TestLexCRLF(t *testing.T) {
	l := New()
	lines := l.Lex(" w 1\r\n w 2")
	if len(lines) != 2 {
		t.Fatalf("line count: got %d, want 2", len(lines))
	}
}

func TestLexMultiSpaceRun(t *testing.T) {
	// A run of spaces is one token; its literal preserves the run.
	l := New()
	lines := l.Lex(` q  w 1`)
	checkLine(t, lines[0], []tok{
		{token.LEADING_WS, " "},
		{token.IDENT, "q"},
		{token.SPACE, "  "},
		{token.IDENT, "w"},
		{token.SPACE, " "},
		{token.NUMBER, "1"},
		{token.TRAILING_WS, ""},
	})
}
