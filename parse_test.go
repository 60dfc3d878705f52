package metalisp

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "()",
			want:  "()",
		},
		{
			input: "x",
			want:  "x",
		},
		{
			input: "(a b c)",
			want:  "(a b c)",
		},
		{
			input: "(quote (a b))",
			want:  "(quote (a b))",
		},
		{
			input: "  ( a\n\t(b )  c )  ",
			want:  "(a (b) c)",
		},
		{
			input: "'a",
			want:  "(quote a)",
		},
		{
			input: "'(a 'b)",
			want:  "(quote (a (quote b)))",
		},
		{
			input: "NIL",
			want:  "()",
		},
		{
			input: "(True False)",
			want:  "(True False)",
		},
		{
			input: "(() ())",
			want:  "(() ())",
		},
		{
			input: "(cond ((eq b b) ( car (quote (xxx zzz)))) (True yyy))",
			want:  "(cond ((eq b b) (car (quote (xxx zzz)))) (True yyy))",
		},
	}
	for _, test := range tests {
		t.Logf("%q", test.input)
		parser := NewParser(strings.NewReader(test.input))
		node, err := parser.Parse()
		if err != nil {
			t.Error(err)
			continue
		}
		got := node.String()

		if got != test.want {
			t.Errorf("want %q for %q but got %q", test.want, test.input, got)
		}
	}
}

func TestParseStructure(t *testing.T) {
	node, err := Read("(cond ((eq b b) (car (quote (xxx zzz)))) (True yyy))")
	if err != nil {
		t.Fatal(err)
	}
	want := List(
		Symbol("cond"),
		List(
			List(Symbol("eq"), Symbol("b"), Symbol("b")),
			List(Symbol("car"), List(Symbol("quote"), List(Symbol("xxx"), Symbol("zzz")))),
		),
		List(Bool(true), Symbol("yyy")),
	)
	if !node.Equal(want) {
		t.Errorf("want %v but got %v", want, node)
	}
	if node.Len() != 3 {
		t.Errorf("want 3 elements but got %d", node.Len())
	}
}

func TestParseError(t *testing.T) {
	tests := []string{
		"",
		"   ",
		")",
		"(a",
		"(a (b)",
		"(a) b",
		"a b",
		"'",
		"(a))",
	}
	for _, input := range tests {
		_, err := Read(input)
		if err == nil {
			t.Errorf("want error for %q", input)
			continue
		}
		if !errors.Is(err, ErrParse) {
			t.Errorf("want parse error for %q but got %v", input, err)
		}
	}
}
