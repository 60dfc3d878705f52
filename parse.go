package metalisp

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

type NodeType int

const (
	NodeNil NodeType = iota
	NodeBool
	NodeSymbol
	NodeCell
	NodeUndefined
)

// Node is an S-expression. Lists are chains of NodeCell ending in a cell
// whose cdr is nil; the empty list is never a cell, it is NodeNil.
// Nodes are not modified once built.
type Node struct {
	t   NodeType
	v   interface{}
	car *Node
	cdr *Node
}

var (
	nilNode   = &Node{t: NodeNil}
	trueNode  = &Node{t: NodeBool, v: true}
	falseNode = &Node{t: NodeBool, v: false}
)

func Nil() *Node {
	return nilNode
}

func Bool(b bool) *Node {
	if b {
		return trueNode
	}
	return falseNode
}

func Symbol(s string) *Node {
	return &Node{
		t: NodeSymbol,
		v: s,
	}
}

func List(items ...*Node) *Node {
	if len(items) == 0 {
		return Nil()
	}
	var head, prev *Node
	for _, item := range items {
		x := &Node{
			t:   NodeCell,
			car: item,
		}
		if prev != nil {
			prev.cdr = x
		} else {
			head = x
		}
		prev = x
	}
	return head
}

// Undefined returns the value standing for a result that has no meaning,
// such as car of an atom. reason says where it came from.
func Undefined(reason string) *Node {
	return &Node{
		t: NodeUndefined,
		v: reason,
	}
}

func (n *Node) Type() NodeType {
	return n.t
}

func (n *Node) IsAtom() bool {
	return n.t == NodeNil || n.t == NodeBool || n.t == NodeSymbol
}

func (n *Node) IsNil() bool {
	return n.t == NodeNil
}

func (n *Node) IsUndefined() bool {
	return n.t == NodeUndefined
}

func (n *Node) IsSymbol(name string) bool {
	return n.t == NodeSymbol && n.v.(string) == name
}

func (n *Node) Name() string {
	if n.t != NodeSymbol {
		return ""
	}
	return n.v.(string)
}

// Slice returns the elements of a list. NIL has no elements and any
// other atom returns nil.
func (n *Node) Slice() []*Node {
	var ret []*Node
	for curr := n; curr != nil && curr.t == NodeCell; curr = curr.cdr {
		ret = append(ret, curr.car)
	}
	return ret
}

func (n *Node) Len() int {
	l := 0
	for curr := n; curr != nil && curr.t == NodeCell; curr = curr.cdr {
		l++
	}
	return l
}

func (n *Node) Car() *Node {
	if n.t != NodeCell {
		return nil
	}
	return n.car
}

// Cdr returns the elements after the first as a list (NIL when there are
// none), or nil for an atom.
func (n *Node) Cdr() *Node {
	if n.t != NodeCell {
		return nil
	}
	if n.cdr == nil {
		return Nil()
	}
	return n.cdr
}

func (n *Node) Equal(o *Node) bool {
	if n.t != o.t {
		return false
	}
	switch n.t {
	case NodeNil:
		return true
	case NodeCell:
		a, b := n, o
		for a != nil && b != nil {
			if !a.car.Equal(b.car) {
				return false
			}
			a, b = a.cdr, b.cdr
		}
		return a == nil && b == nil
	default:
		return n.v == o.v
	}
}

func NewParser(r io.Reader) *Parser {
	return &Parser{
		lex: NewLexer(r),
	}
}

// Parser reads S-expressions from a token stream with one token of
// lookahead.
type Parser struct {
	lex    *Lexer
	peeked *Token
}

func (p *Parser) peek() (Token, error) {
	if p.peeked == nil {
		tok, err := p.lex.Next()
		if err != nil {
			return Token{}, err
		}
		p.peeked = &tok
	}
	return *p.peeked, nil
}

func (p *Parser) next() (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.peeked = nil
	return tok, nil
}

func (p *Parser) Pos() int {
	return p.lex.Pos()
}

func (p *Parser) ParseParen() (*Node, error) {
	var items []*Node
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenRParen {
			p.next()
			return List(items...), nil
		}
		if tok.Type == TokenEOF {
			return nil, EOF
		}
		child, err := p.ParseAny()
		if err != nil {
			return nil, err
		}
		items = append(items, child)
	}
}

func (p *Parser) ParseQuote() (*Node, error) {
	node, err := p.ParseAny()
	if err != nil {
		return nil, err
	}
	return List(Symbol("quote"), node), nil
}

func (p *Parser) ParseAny() (*Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenLParen:
		return p.ParseParen()
	case TokenQuote:
		return p.ParseQuote()
	case TokenBool:
		return Bool(tok.Text == "True"), nil
	case TokenSymbol:
		if tok.Text == "NIL" {
			return Nil(), nil
		}
		return Symbol(tok.Text), nil
	case TokenEOF:
		return nil, EOF
	}
	return nil, errors.Wrapf(ErrParse, "unexpected token %q (%d)", tok.Text, p.Pos())
}

// Parse reads exactly one top-level S-expression. Anything but the end of
// input after it is a parse error.
func (p *Parser) Parse() (*Node, error) {
	node, err := p.ParseAny()
	if err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Type != TokenEOF {
		return nil, errors.Wrapf(ErrParse, "unexpected token %q after expression", tok.Text)
	}
	return node, nil
}

func Read(s string) (*Node, error) {
	return NewParser(strings.NewReader(s)).Parse()
}

func (n *Node) String() string {
	if n == nil {
		return "()"
	}
	var buf bytes.Buffer
	switch n.t {
	case NodeCell:
		fmt.Fprint(&buf, "(")
		for curr := n; curr != nil; curr = curr.cdr {
			fmt.Fprint(&buf, curr.car)
			if curr.cdr != nil {
				fmt.Fprint(&buf, " ")
			}
		}
		fmt.Fprint(&buf, ")")
	case NodeNil:
		fmt.Fprint(&buf, "()")
	case NodeBool:
		if n.v.(bool) {
			fmt.Fprint(&buf, "True")
		} else {
			fmt.Fprint(&buf, "False")
		}
	case NodeUndefined:
		fmt.Fprint(&buf, "undefined")
	default:
		fmt.Fprint(&buf, n.v)
	}
	return buf.String()
}
