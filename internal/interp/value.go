package interp

import (
	"fmt"

	"github.com/stormckey/accipit/internal/ast"
)

// Value is a runtime value: an Int, a Ptr, Unit, or None. This is the
// closed sum from the language spec's data model, encoded as a tagged
// interface the same way the AST's own Value interface is.
type Value interface {
	isValue()
	String() string
}

// Int is a 32-bit signed integer that wraps on overflow.
type Int int32

func (Int) isValue() {}
func (i Int) String() string { return fmt.Sprintf("%d", int32(i)) }

// Truthy reports whether i counts as "true" in a branch condition: any
// non-zero value does.
func (i Int) Truthy() bool { return i != 0 }

// Ptr is a non-negative index into the cell store.
type Ptr struct {
	Addr int
}

func (Ptr) isValue() {}
func (p Ptr) String() string { return fmt.Sprintf("ptr(%d)", p.Addr) }

// Unit is the sole inhabitant of the `()` type, used for void returns.
type Unit struct{}

func (Unit) isValue()      {}
func (Unit) String() string { return "()" }

// None is the runtime counterpart of the `none` literal. It only ever
// appears as a GEP dimension placeholder; it is not a general-purpose value.
type None struct{}

func (None) isValue()      {}
func (None) String() string { return "none" }

// Function is a callable global: either a defined function (with a body to
// evaluate) or an external declaration (callable only if a builtin of the
// same name is registered).
type Function struct {
	Defn *ast.FunDefn
	Decl *ast.FunDecl
}

func (Function) isValue() {}
func (f Function) String() string {
	if f.Defn != nil {
		return f.Defn.Name.String()
	}
	return f.Decl.Name.String()
}

// Name returns the qualified global name of the function.
func (f Function) Name() string {
	if f.Defn != nil {
		return f.Defn.Name.Qualified()
	}
	return f.Decl.Name.Qualified()
}
