package ast

import (
	"strconv"
	"strings"

	"github.com/stormckey/accipit/internal/pos"
)

// ValueBinding is `let %x [: T] = op`.
type ValueBinding struct {
	Name Ident
	Type Type // nil if the binding was untyped
	Op   Op
	Pos  pos.Position
}

func (b ValueBinding) String() string {
	if b.Type != nil {
		return "let " + b.Name.String() + ": " + b.Type.String() + " = " + b.Op.String()
	}
	return "let " + b.Name.String() + " = " + b.Op.String()
}

// Terminator is the unique last instruction of a basic block.
type Terminator interface {
	termNode()
	String() string
}

// Br is `br cond, label %t, label %f`.
type Br struct {
	Cond   Value
	True   Ident
	False  Ident
	Pos    pos.Position
}

func (Br) termNode() {}
func (b Br) String() string {
	return "br " + b.Cond.String() + ", label " + b.True.String() + ", label " + b.False.String()
}

// Jmp is `jmp label %t`.
type Jmp struct {
	Target Ident
	Pos    pos.Position
}

func (Jmp) termNode() {}
func (j Jmp) String() string { return "jmp label " + j.Target.String() }

// Ret is `ret v`.
type Ret struct {
	Value Value
	Pos   pos.Position
}

func (Ret) termNode() {}
func (r Ret) String() string { return "ret " + r.Value.String() }

// BasicBlock is `%L: binding* terminator`.
type BasicBlock struct {
	Label    Ident
	Bindings []*ValueBinding
	Term     Terminator
}

func (bb BasicBlock) String() string {
	var sb strings.Builder
	sb.WriteString(bb.Label.String())
	sb.WriteString(":\n")
	for _, b := range bb.Bindings {
		sb.WriteString("  ")
		sb.WriteString(b.String())
		sb.WriteString("\n")
	}
	sb.WriteString("  ")
	sb.WriteString(bb.Term.String())
	return sb.String()
}

// Parameter is one `#p : T` entry in a function's parameter list.
type Parameter struct {
	Name Ident
	Type Type
}

// Decl is a top-level declaration: a global region, a function definition,
// or an external function declaration.
type Decl interface {
	declNode()
	String() string
}

// GlobalDecl is `@N : region T, size [= [v0, ..., v_{size-1}]]`.
type GlobalDecl struct {
	Name   Ident
	Type   Type
	Size   int32
	Init   []Value // nil if no initializer list was given
	Pos    pos.Position
}

func (GlobalDecl) declNode() {}
func (g GlobalDecl) String() string {
	base := g.Name.String() + " : region " + g.Type.String() + ", " + itoa(g.Size)
	if g.Init == nil {
		return base
	}
	parts := make([]string, len(g.Init))
	for i, v := range g.Init {
		parts[i] = v.String()
	}
	return base + " = [" + strings.Join(parts, ", ") + "]"
}

// FunDefn is `fn @N (plist) -> T { bb+ }`.
type FunDefn struct {
	Name   Ident
	Params []Parameter
	Ret    Type
	Blocks []*BasicBlock
	Pos    pos.Position
}

func (FunDefn) declNode() {}
func (f FunDefn) String() string {
	return "fn " + f.Name.String() + " (" + paramList(f.Params) + ") -> " + f.Ret.String() + " { ... }"
}

// FunDecl is `fn @N (plist) -> T ;`, an external function.
type FunDecl struct {
	Name   Ident
	Params []Parameter
	Ret    Type
	Pos    pos.Position
}

func (FunDecl) declNode() {}
func (f FunDecl) String() string {
	return "fn " + f.Name.String() + " (" + paramList(f.Params) + ") -> " + f.Ret.String() + ";"
}

func paramList(params []Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name.String() + ": " + p.Type.String()
	}
	return strings.Join(parts, ", ")
}

func itoa(n int32) string {
	return strconv.FormatInt(int64(n), 10)
}

// Program is the top-level `decl*`.
type Program struct {
	Decls []Decl
}

func (p Program) String() string {
	parts := make([]string, len(p.Decls))
	for i, d := range p.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\n\n")
}
