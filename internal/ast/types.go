package ast

import "strings"

// Type is the syntactic type annotation carried by Accipit programs. The
// evaluator never inspects it for dispatch decisions — types exist purely
// for documentation and for a future static checker, per the language
// spec's Non-goals.
type Type interface {
	typeNode()
	String() string
}

// I32Type is the 32-bit signed integer type, `i32`.
type I32Type struct{}

func (I32Type) typeNode()     {}
func (I32Type) String() string { return "i32" }

// UnitType is the void/unit type, `()`.
type UnitType struct{}

func (UnitType) typeNode()      {}
func (UnitType) String() string { return "()" }

// PointerType is `T*`.
type PointerType struct {
	Elem Type
}

func (PointerType) typeNode() {}
func (p PointerType) String() string {
	return p.Elem.String() + "*"
}

// FuncType is `fn(T, ...) -> T`.
type FuncType struct {
	Params []Type
	Ret    Type
}

func (FuncType) typeNode() {}
func (f FuncType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + f.Ret.String()
}
