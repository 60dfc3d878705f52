package metalisp

import (
	"bufio"
	"bytes"
	"io"
	"unicode"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLParen
	TokenRParen
	TokenQuote
	TokenBool
	TokenSymbol
)

type Token struct {
	Type TokenType
	Text string
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return t.Text
}

// Lexer splits text into tokens on demand. Once the input is exhausted
// every call to Next returns a TokenEOF token.
type Lexer struct {
	buf  *bufio.Reader
	pos  int
	last int
}

func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		buf: bufio.NewReader(r),
	}
}

func isDelimiter(r rune) bool {
	return r == '(' || r == ')' || r == '\'' || unicode.IsSpace(r)
}

func (l *Lexer) Pos() int {
	return l.pos
}

func (l *Lexer) readRune() (rune, error) {
	r, n, err := l.buf.ReadRune()
	l.pos += n
	l.last = n
	return r, err
}

func (l *Lexer) unreadRune() error {
	err := l.buf.UnreadRune()
	if err == nil {
		l.pos -= l.last
	}
	return err
}

func (l *Lexer) skipWhite() error {
	for {
		r, err := l.readRune()
		if err != nil {
			return err
		}
		if !unicode.IsSpace(r) {
			return l.unreadRune()
		}
	}
}

// Next returns the next token. Errors other than io.EOF from the
// underlying reader are returned as is.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipWhite(); err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF}, nil
		}
		return Token{}, err
	}
	r, err := l.readRune()
	if err != nil {
		if err == io.EOF {
			return Token{Type: TokenEOF}, nil
		}
		return Token{}, err
	}
	switch r {
	case '(':
		return Token{Type: TokenLParen, Text: "("}, nil
	case ')':
		return Token{Type: TokenRParen, Text: ")"}, nil
	case '\'':
		return Token{Type: TokenQuote, Text: "'"}, nil
	}

	var buf bytes.Buffer
	buf.WriteRune(r)
	for {
		r, err = l.readRune()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}
		if isDelimiter(r) {
			l.unreadRune()
			break
		}
		buf.WriteRune(r)
	}

	s := buf.String()
	if s == "True" || s == "False" {
		return Token{Type: TokenBool, Text: s}, nil
	}
	return Token{Type: TokenSymbol, Text: s}, nil
}

// Tokenize drains r into a slice, ending with the TokenEOF token.
func Tokenize(r io.Reader) ([]Token, error) {
	l := NewLexer(r)
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}
