// Package interp implements Accipit's runtime: the Environment (globals,
// frame stack, linear cell store), the link pass that populates it from a
// parsed program, and the tree-walking Evaluator that executes it.
package interp

import (
	"bufio"
	"fmt"
	"strconv"

	"github.com/stormckey/accipit/internal/ast"
)

// Evaluator walks an Accipit AST starting from a single function
// invocation at a time. It owns no state of its own beyond what it needs
// to dispatch builtins and trace execution — all program state lives in
// the Environment it was given.
type Evaluator struct {
	env     *Environment
	opts    Options
	scanner *bufio.Scanner
	tracer  Tracer
	step    int
}

// NewEvaluator builds an Evaluator over env, applying opts (filling in
// unset fields with process defaults) and wiring up debug tracing when
// opts.Debug is set.
func NewEvaluator(env *Environment, opts Options) *Evaluator {
	opts = opts.withDefaults()
	ev := &Evaluator{
		env:     env,
		opts:    opts,
		scanner: newScanner(opts.Stdin),
	}
	if opts.Debug {
		ev.tracer = NewStderrTracer(opts.Stderr)
	}
	return ev
}

// Run parses nothing itself: it links prog into a fresh Environment and
// evaluates @main with no arguments, returning the integer @main produced
// (0 if it returned `()`), per the language spec's calling convention.
func Run(prog *ast.Program, opts Options) (Int, error) {
	env := NewEnvironment()
	if err := Link(env, prog); err != nil {
		return 0, err
	}
	ev := NewEvaluator(env, opts)
	return ev.RunMain()
}

// RunMain invokes `@main` with no arguments and interprets its return
// value as the process exit code.
func (ev *Evaluator) RunMain() (Int, error) {
	v, err := ev.call(ast.Ident{Region: ast.Global, Name: "main"}, nil)
	if err != nil {
		return 0, err
	}
	switch r := v.(type) {
	case Int:
		return r, nil
	case Unit:
		return 0, nil
	default:
		return 0, newError(TypeError, "@main returned a non-integer, non-unit value %s", v)
	}
}

func (ev *Evaluator) trace(what, detail string) {
	if ev.tracer == nil {
		return
	}
	ev.step++
	ev.tracer(ev.step, what, detail)
}

// call dispatches `call @f, args...`: builtins are intercepted by name
// before @f is looked up as a user-defined function, per the language
// spec's builtin-dispatch rule.
func (ev *Evaluator) call(fn ast.Ident, args []Value) (Value, error) {
	name := fn.Qualified()
	if b, ok := ev.opts.Builtins[name]; ok {
		ev.trace("call-builtin", name)
		return b(ev, args)
	}

	fnVal, ok := ev.env.globals[name]
	if !ok {
		return nil, newError(NotCallable, name)
	}
	fnv, ok := fnVal.(Function)
	if !ok {
		return nil, newError(NotCallable, name)
	}
	if fnv.Defn == nil {
		// An external declaration with no matching builtin: the spec
		// requires this to be fatal, never a silent no-op.
		return nil, newError(NotCallable, name)
	}
	ev.trace("call", name)
	return ev.callDefn(fnv.Defn, args)
}

func (ev *Evaluator) callDefn(fn *ast.FunDefn, args []Value) (Value, error) {
	if len(args) != len(fn.Params) {
		return nil, newError(TypeError, "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if len(fn.Blocks) == 0 {
		return nil, newError(MalformedIR, "%s has no basic blocks", fn.Name)
	}

	ev.env.PushFrame()
	defer ev.env.PopFrame()

	for i, p := range fn.Params {
		ev.env.BindLocal(p.Name.Qualified(), args[i])
	}
	for _, bb := range fn.Blocks {
		ev.env.BindLabel(bb.Label.Qualified(), bb)
	}
	return ev.evalBlock(fn.Blocks[0])
}

// evalBlock realizes the per-invocation state machine from the language
// spec (EnteringBlock -> ExecutingBlock* -> dispatch terminator) as a
// straightforward loop plus a recursive call on branch targets: each
// basic block evaluation either returns the value a `ret` produced or
// tail-calls into the next block via `br`/`jmp`.
func (ev *Evaluator) evalBlock(bb *ast.BasicBlock) (Value, error) {
	ev.trace("enter-block", bb.Label.String())
	for _, binding := range bb.Bindings {
		v, err := ev.evalOp(binding.Op)
		if err != nil {
			return nil, err
		}
		ev.env.BindLocal(binding.Name.Qualified(), v)
		ev.trace("bind", fmt.Sprintf("%s = %s", binding.Name, v))
	}
	if bb.Term == nil {
		return nil, newError(MalformedIR, "block %s has no terminator", bb.Label)
	}
	return ev.evalTerm(bb.Term)
}

func (ev *Evaluator) evalTerm(t ast.Terminator) (Value, error) {
	switch term := t.(type) {
	case *ast.Br:
		c, err := ev.evalValue(term.Cond)
		if err != nil {
			return nil, err
		}
		ci, ok := c.(Int)
		if !ok {
			return nil, newError(TypeError, "branch condition is not an integer")
		}
		target := term.False
		if ci.Truthy() {
			target = term.True
		}
		ev.trace("br", fmt.Sprintf("%s -> %s", term.Cond, target))
		bb, err := ev.env.Label(target.Qualified())
		if err != nil {
			return nil, err
		}
		return ev.evalBlock(bb)

	case *ast.Jmp:
		bb, err := ev.env.Label(term.Target.Qualified())
		if err != nil {
			return nil, err
		}
		ev.trace("jmp", term.Target.String())
		return ev.evalBlock(bb)

	case *ast.Ret:
		v, err := ev.evalValue(term.Value)
		if err != nil {
			return nil, err
		}
		ev.trace("ret", v.String())
		return v, nil
	}
	return nil, newError(MalformedIR, "unrecognized terminator")
}

func (ev *Evaluator) evalValue(v ast.Value) (Value, error) {
	switch val := v.(type) {
	case ast.Ident:
		return ev.env.Lookup(val.Qualified())
	case ast.IntConst:
		return Int(val.Value), nil
	case ast.NoneConst:
		return None{}, nil
	case ast.UnitConst:
		return Unit{}, nil
	}
	return nil, newError(TypeError, "unrecognized value form")
}

func (ev *Evaluator) evalOp(op ast.Op) (Value, error) {
	switch o := op.(type) {
	case *ast.BinExpr:
		return ev.evalBin(o)

	case *ast.Alloca:
		return ev.env.Allocate(o.Size, nil)

	case *ast.Load:
		return ev.env.Load(o.Ptr.Qualified())

	case *ast.Store:
		v, err := ev.evalValue(o.Value)
		if err != nil {
			return nil, err
		}
		iv, ok := v.(Int)
		if !ok {
			return nil, newError(TypeError, "cannot store non-integer value %s", v)
		}
		if err := ev.env.Store(o.Ptr.Qualified(), iv); err != nil {
			return nil, err
		}
		return Unit{}, nil

	case *ast.Gep:
		return ev.evalGep(o)

	case *ast.Call:
		args := make([]Value, len(o.Args))
		for i, a := range o.Args {
			v, err := ev.evalValue(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return ev.call(o.Fn, args)
	}
	return nil, newError(MalformedIR, "unrecognized operation")
}

func boolInt(b bool) Int {
	if b {
		return 1
	}
	return 0
}

func (ev *Evaluator) evalBin(b *ast.BinExpr) (Value, error) {
	v1, err := ev.evalValue(b.V1)
	if err != nil {
		return nil, err
	}
	v2, err := ev.evalValue(b.V2)
	if err != nil {
		return nil, err
	}

	if b.Op == ast.OpEq || b.Op == ast.OpNe {
		p1, ok1 := v1.(Ptr)
		p2, ok2 := v2.(Ptr)
		if ok1 || ok2 {
			if !ok1 || !ok2 {
				return nil, newError(TypeError, "cannot compare %s and %s", v1, v2)
			}
			eq := p1.Addr == p2.Addr
			if b.Op == ast.OpNe {
				eq = !eq
			}
			return boolInt(eq), nil
		}
	}

	i1, ok := v1.(Int)
	if !ok {
		return nil, newError(TypeError, "left operand of %s is not an integer: %s", b.Op, v1)
	}
	i2, ok := v2.(Int)
	if !ok {
		return nil, newError(TypeError, "right operand of %s is not an integer: %s", b.Op, v2)
	}
	a, c := int32(i1), int32(i2)

	switch b.Op {
	case ast.OpAdd:
		return Int(a + c), nil
	case ast.OpSub:
		return Int(a - c), nil
	case ast.OpMul:
		return Int(a * c), nil
	case ast.OpDiv:
		if c == 0 {
			return nil, newError(ArithmeticError, "division by zero")
		}
		return Int(a / c), nil
	case ast.OpRem:
		if c == 0 {
			return nil, newError(ArithmeticError, "remainder by zero")
		}
		return Int(a % c), nil
	case ast.OpAnd:
		return Int(a & c), nil
	case ast.OpOr:
		return Int(a | c), nil
	case ast.OpXor:
		return Int(a ^ c), nil
	case ast.OpEq:
		return boolInt(a == c), nil
	case ast.OpNe:
		return boolInt(a != c), nil
	case ast.OpLt:
		return boolInt(a < c), nil
	case ast.OpLe:
		return boolInt(a <= c), nil
	case ast.OpGt:
		return boolInt(a > c), nil
	case ast.OpGe:
		return boolInt(a >= c), nil
	}
	return nil, newError(TypeError, "unrecognized binary operator %s", b.Op)
}

// evalGep computes a derived pointer by walking each `[i < d]` dimension:
// a := a*d + i, or a := a + i when d is `none` (the "leading dimension
// decay" case used to index into an already-decayed array parameter).
func (ev *Evaluator) evalGep(g *ast.Gep) (Value, error) {
	base, err := ev.env.Lookup(g.Ptr.Qualified())
	if err != nil {
		return nil, err
	}
	ptr, ok := base.(Ptr)
	if !ok {
		return nil, newError(TypeError, "%s is not a pointer", g.Ptr)
	}
	addr := ptr.Addr
	for _, dim := range g.Dims {
		idxVal, err := ev.evalValue(dim.Index)
		if err != nil {
			return nil, err
		}
		idx, ok := idxVal.(Int)
		if !ok {
			return nil, newError(TypeError, "GEP index is not an integer")
		}
		if dim.Dim == nil {
			addr = addr + int(idx)
		} else {
			addr = addr*int(*dim.Dim) + int(idx)
		}
	}
	return Ptr{Addr: addr}, nil
}

// readInt reads one whitespace-delimited integer from the evaluator's
// input stream, used by @read/@getint/@getarray.
func (ev *Evaluator) readInt() (int32, error) {
	if !ev.scanner.Scan() {
		if err := ev.scanner.Err(); err != nil {
			return 0, fmt.Errorf("interp: reading input: %w", err)
		}
		return 0, fmt.Errorf("interp: unexpected end of input while reading an integer")
	}
	text := ev.scanner.Text()
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("interp: %q is not a valid integer: %w", text, err)
	}
	return int32(n), nil
}
