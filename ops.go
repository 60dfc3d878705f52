package metalisp

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Ft int

const (
	FtSpecial Ft = iota
	FtBuiltin
)

type Fn func(*Env, []*Node) (*Node, error)

type FnInfo struct {
	ft Ft
	fn Fn
}

var ops map[string]FnInfo

func makeFn(ft Ft, fn Fn) FnInfo {
	return FnInfo{ft: ft, fn: fn}
}

func init() {
	ops = make(map[string]FnInfo)
	ops["quote"] = makeFn(FtSpecial, doQuote)
	ops["cond"] = makeFn(FtSpecial, doCond)
	ops["label"] = makeFn(FtSpecial, doLabel)
	ops["lambda"] = makeFn(FtSpecial, doLambda)
	ops["defn"] = makeFn(FtSpecial, doDefn)
	ops["atom"] = makeFn(FtBuiltin, doAtom)
	ops["eq"] = makeFn(FtBuiltin, doEq)
	ops["car"] = makeFn(FtBuiltin, doCar)
	ops["cdr"] = makeFn(FtBuiltin, doCdr)
	ops["cons"] = makeFn(FtBuiltin, doCons)
	ops["eval"] = makeFn(FtBuiltin, doEval)
	ops["load"] = makeFn(FtBuiltin, doLoad)
}

const DefaultMaxDepth = 10000

// Env is an evaluation frame. The Env returned by NewEnv(nil) is the
// global one; it owns the symbol table. Every function call runs in a
// fresh child frame holding the parameter bindings, layered over the
// caller's frame.
type Env struct {
	vars map[string]*Node
	env  *Env

	table *SymbolTable
	// fncs is the user table as seen by one top-level evaluation. It is
	// shared by all frames of that evaluation.
	fncs map[string]*Node

	out      io.Writer
	errOut   io.Writer
	log      *zap.Logger
	depth    int
	maxDepth int
}

func NewEnv(env *Env) *Env {
	if env == nil {
		return &Env{
			vars:     make(map[string]*Node),
			table:    NewSymbolTable(),
			out:      os.Stdout,
			errOut:   os.Stderr,
			log:      zap.NewNop(),
			maxDepth: DefaultMaxDepth,
		}
	}
	return &Env{
		vars:     make(map[string]*Node),
		env:      env,
		table:    env.table,
		fncs:     env.fncs,
		out:      env.out,
		errOut:   env.errOut,
		log:      env.log,
		depth:    env.depth + 1,
		maxDepth: env.maxDepth,
	}
}

func (e *Env) SetOutput(out, errOut io.Writer) {
	e.out = out
	e.errOut = errOut
}

func (e *Env) SetLogger(log *zap.Logger) {
	e.log = log
}

func (e *Env) SetMaxDepth(depth int) {
	e.maxDepth = depth
}

func (e *Env) Table() *SymbolTable {
	return e.table
}

func (e *Env) global() *Env {
	g := e
	for g.env != nil {
		g = g.env
	}
	return g
}

func (e *Env) lookup(name string) (*Node, bool) {
	for curr := e; curr != nil; curr = curr.env {
		if v, ok := curr.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Eval evaluates one top-level form. The form sees the user table as it
// was on entry plus its own definitions. An undefined result is returned
// as ErrUndefinedOperation.
func (e *Env) Eval(node *Node) (*Node, error) {
	scope := NewEnv(e.global())
	scope.depth = e.depth
	scope.fncs = e.table.Snapshot()
	ret, err := eval(scope, node)
	if err != nil {
		return nil, err
	}
	if ret.IsUndefined() {
		return nil, errors.Wrapf(ErrUndefinedOperation, "%v", ret.v)
	}
	return ret, nil
}

func (e *Env) define(name string, def *Node) error {
	if err := e.table.Define(name, def); err != nil {
		return err
	}
	e.fncs[name] = def
	e.log.Debug("function registered", zap.String("name", name))
	return nil
}

func prepend(car *Node, list *Node) *Node {
	x := &Node{
		t:   NodeCell,
		car: car,
	}
	if list != nil && list.t == NodeCell {
		x.cdr = list
	}
	return x
}

func isLambda(n *Node) bool {
	return n.t == NodeCell && n.car.IsSymbol("lambda") && n.Len() == 3
}

func isLabel(n *Node) bool {
	if n.t != NodeCell || !n.car.IsSymbol("label") || n.Len() != 3 {
		return false
	}
	return isLambda(n.Slice()[2])
}

func (e *Env) isCallable(n *Node) bool {
	if n.t == NodeSymbol {
		name := n.v.(string)
		if IsElementary(name) {
			return true
		}
		_, ok := e.fncs[name]
		return ok
	}
	return isLambda(n) || isLabel(n)
}

func evalArgs(env *Env, args []*Node) ([]*Node, error) {
	vals := make([]*Node, 0, len(args))
	for _, arg := range args {
		v, err := eval(env, arg)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func callOp(env *Env, fi FnInfo, args []*Node) (*Node, error) {
	if fi.ft == FtSpecial {
		return fi.fn(env, args)
	}
	vals, err := evalArgs(env, args)
	if err != nil {
		return nil, err
	}
	for _, v := range vals {
		if v.IsUndefined() {
			return v, nil
		}
	}
	return fi.fn(env, vals)
}

func call(env *Env, node *Node) (*Node, error) {
	head := node.car
	args := node.Cdr().Slice()

	if head.t == NodeSymbol {
		name := head.v.(string)
		if fi, ok := ops[name]; ok {
			return callOp(env, fi, args)
		}
		if fn, ok := env.fncs[name]; ok {
			return apply(env, name, fn, args)
		}
		if v, ok := env.lookup(name); ok && env.isCallable(v) {
			return apply(env, name, v, args)
		}
		return nil, errors.Wrapf(ErrLookup, "invalid op: %v", name)
	}

	if isLambda(head) || isLabel(head) {
		return apply(env, "lambda", head, args)
	}
	fn, err := eval(env, head)
	if err != nil {
		return nil, err
	}
	if !env.isCallable(fn) {
		return nil, errors.Wrapf(ErrLookup, "illegal function call: %v", node)
	}
	return apply(env, fn.String(), fn, args)
}

func apply(env *Env, name string, fn *Node, args []*Node) (*Node, error) {
	switch {
	case fn.t == NodeSymbol:
		if fi, ok := ops[fn.v.(string)]; ok {
			if fi.ft == FtSpecial {
				return nil, errors.Wrapf(ErrLookup, "illegal function call: %v", fn)
			}
			return callOp(env, fi, args)
		}
		def, ok := env.fncs[fn.v.(string)]
		if !ok {
			return nil, errors.Wrapf(ErrLookup, "invalid op: %v", fn)
		}
		return apply(env, fn.v.(string), def, args)
	case isLabel(fn):
		return applyLambda(env, fn.Slice()[1].Name(), fn.Slice()[2], args)
	case isLambda(fn):
		return applyLambda(env, name, fn, args)
	}
	return nil, errors.Wrapf(ErrLookup, "illegal function call: %v", fn)
}

func applyLambda(env *Env, name string, lambda *Node, args []*Node) (*Node, error) {
	parts := lambda.Slice()
	if err := checkParams(name, parts[1]); err != nil {
		return nil, err
	}
	params := parts[1].Slice()
	if len(params) != len(args) {
		return nil, errors.Wrapf(ErrLookup, "%v: want %d arguments but got %d", name, len(params), len(args))
	}
	vals, err := evalArgs(env, args)
	if err != nil {
		return nil, err
	}

	scope := NewEnv(env)
	if scope.maxDepth > 0 && scope.depth > scope.maxDepth {
		return nil, errors.Wrapf(ErrResource, "%v: maximum call depth %d exceeded", name, scope.maxDepth)
	}
	for i, param := range params {
		scope.vars[param.Name()] = vals[i]
	}
	return eval(scope, parts[2])
}

func eval(env *Env, node *Node) (*Node, error) {
	switch node.t {
	case NodeSymbol:
		name := node.v.(string)
		if _, ok := ops[name]; ok {
			return node, nil
		}
		if fn, ok := env.fncs[name]; ok {
			return fn, nil
		}
		if v, ok := env.lookup(name); ok {
			return v, nil
		}
		// Unbound symbols stand for themselves.
		return node, nil
	case NodeCell:
		return call(env, node)
	}
	return node, nil
}

func arity(name string, args []*Node, n int) error {
	if len(args) != n {
		return errors.Wrapf(ErrLookup, "%v: want %d arguments but got %d", name, n, len(args))
	}
	return nil
}

func invalidArgs(name string, args []*Node) error {
	return errors.Wrapf(ErrUndefinedOperation, "invalid arguments for %v: %v", name, List(args...))
}

func doQuote(env *Env, args []*Node) (*Node, error) {
	if len(args) != 1 {
		return nil, invalidArgs("quote", args)
	}
	return args[0], nil
}

// doCond takes the first clause whose predicate is True. An undefined
// predicate is not False, so its clause is taken as well.
func doCond(env *Env, args []*Node) (*Node, error) {
	for _, clause := range args {
		pe := clause.Slice()
		if clause.t != NodeCell || len(pe) != 2 {
			return nil, invalidArgs("cond", args)
		}
		p := pe[0]
		if p.t == NodeBool && p.v.(bool) {
			return eval(env, pe[1])
		}
		v, err := eval(env, p)
		if err != nil {
			return nil, err
		}
		switch v.t {
		case NodeBool:
			if v.v.(bool) {
				return eval(env, pe[1])
			}
		case NodeUndefined:
			return eval(env, pe[1])
		case NodeNil:
		default:
			return nil, errors.Wrapf(ErrUndefinedOperation, "cond: predicate %v is not a boolean: %v", p, v)
		}
	}
	return Undefined("cond: no matching clause"), nil
}

func checkParams(name string, params *Node) error {
	if params.t != NodeNil && params.t != NodeCell {
		return errors.Wrapf(ErrUndefinedOperation, "invalid arguments for %v: parameters %v", name, params)
	}
	seen := make(map[string]bool)
	for _, p := range params.Slice() {
		if p.t != NodeSymbol {
			return errors.Wrapf(ErrUndefinedOperation, "invalid arguments for %v: parameter %v", name, p)
		}
		if seen[p.Name()] {
			return errors.Wrapf(ErrUndefinedOperation, "invalid arguments for %v: duplicate parameter %v", name, p)
		}
		seen[p.Name()] = true
	}
	return nil
}

func doLambda(env *Env, args []*Node) (*Node, error) {
	if len(args) != 2 {
		return nil, invalidArgs("lambda", args)
	}
	if err := checkParams("lambda", args[0]); err != nil {
		return nil, err
	}
	return prepend(Symbol("lambda"), List(args...)), nil
}

func doLabel(env *Env, args []*Node) (*Node, error) {
	if len(args) != 2 || args[0].t != NodeSymbol || !isLambda(args[1]) {
		return nil, invalidArgs("label", args)
	}
	if err := checkParams("label", args[1].Slice()[1]); err != nil {
		return nil, err
	}
	def := List(Symbol("label"), args[0], args[1])
	if err := env.define(args[0].Name(), def); err != nil {
		return nil, err
	}
	return def, nil
}

func doDefn(env *Env, args []*Node) (*Node, error) {
	if len(args) != 3 || args[0].t != NodeSymbol {
		return nil, invalidArgs("defn", args)
	}
	name := args[0].Name()
	if IsElementary(name) {
		return nil, errors.Wrapf(ErrRedefinition, "%v", name)
	}
	if err := checkParams("defn", args[1]); err != nil {
		return nil, err
	}
	def := List(Symbol("label"), args[0], List(Symbol("lambda"), args[1], args[2]))
	if err := env.define(name, def); err != nil {
		return nil, err
	}
	return def, nil
}

func doAtom(env *Env, args []*Node) (*Node, error) {
	if err := arity("atom", args, 1); err != nil {
		return nil, err
	}
	return Bool(args[0].IsAtom()), nil
}

func doEq(env *Env, args []*Node) (*Node, error) {
	if err := arity("eq", args, 2); err != nil {
		return nil, err
	}
	if !args[0].IsAtom() || !args[1].IsAtom() {
		return Undefined(fmt.Sprintf("eq: %v and %v are not both atoms", args[0], args[1])), nil
	}
	return Bool(args[0].Equal(args[1])), nil
}

func doCar(env *Env, args []*Node) (*Node, error) {
	if err := arity("car", args, 1); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return Undefined(fmt.Sprintf("car: %v is an atom", args[0])), nil
	}
	return args[0].Car(), nil
}

func doCdr(env *Env, args []*Node) (*Node, error) {
	if err := arity("cdr", args, 1); err != nil {
		return nil, err
	}
	if args[0].IsAtom() {
		return Undefined(fmt.Sprintf("cdr: %v is an atom", args[0])), nil
	}
	return args[0].Cdr(), nil
}

func doCons(env *Env, args []*Node) (*Node, error) {
	if err := arity("cons", args, 2); err != nil {
		return nil, err
	}
	return List(args[0], args[1]), nil
}

func doEval(env *Env, args []*Node) (*Node, error) {
	if err := arity("eval", args, 1); err != nil {
		return nil, err
	}
	return eval(env, args[0])
}

func doLoad(env *Env, args []*Node) (*Node, error) {
	if err := arity("load", args, 1); err != nil {
		return nil, err
	}
	if args[0].t != NodeSymbol {
		return nil, invalidArgs("load", args)
	}
	if env.maxDepth > 0 && env.depth+1 > env.maxDepth {
		return nil, errors.Wrapf(ErrResource, "load %v: maximum call depth %d exceeded", args[0], env.maxDepth)
	}
	ret, errs, err := NewEnv(env).loadFile(args[0].Name())
	if err != nil {
		return nil, err
	}
	if n := failedCount(errs); n > 0 {
		env.log.Debug("load had failing forms", zap.String("path", args[0].Name()), zap.Int("failed", n))
	}
	for name, def := range env.table.Snapshot() {
		env.fncs[name] = def
	}
	return ret, nil
}
