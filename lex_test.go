package metalisp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []Token
	}{
		{
			input: "",
			want:  []Token{{Type: TokenEOF}},
		},
		{
			input: "(a 'b)",
			want: []Token{
				{Type: TokenLParen, Text: "("},
				{Type: TokenSymbol, Text: "a"},
				{Type: TokenQuote, Text: "'"},
				{Type: TokenSymbol, Text: "b"},
				{Type: TokenRParen, Text: ")"},
				{Type: TokenEOF},
			},
		},
		{
			input: "True False Truex x-1'y",
			want: []Token{
				{Type: TokenBool, Text: "True"},
				{Type: TokenBool, Text: "False"},
				{Type: TokenSymbol, Text: "Truex"},
				{Type: TokenSymbol, Text: "x-1"},
				{Type: TokenQuote, Text: "'"},
				{Type: TokenSymbol, Text: "y"},
				{Type: TokenEOF},
			},
		},
		{
			input: "\tλ\n(é)",
			want: []Token{
				{Type: TokenSymbol, Text: "λ"},
				{Type: TokenLParen, Text: "("},
				{Type: TokenSymbol, Text: "é"},
				{Type: TokenRParen, Text: ")"},
				{Type: TokenEOF},
			},
		},
	}
	for _, test := range tests {
		got, err := Tokenize(strings.NewReader(test.input))
		if err != nil {
			t.Error(err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("%q: %s", test.input, diff)
		}
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	l := NewLexer(strings.NewReader("a"))
	if tok, _ := l.Next(); tok.Type != TokenSymbol {
		t.Fatalf("want symbol but got %v", tok)
	}
	for i := 0; i < 3; i++ {
		if tok, _ := l.Next(); tok.Type != TokenEOF {
			t.Fatalf("want EOF but got %v", tok)
		}
	}
}
