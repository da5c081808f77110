package ast

import (
	"strconv"
	"strings"

	"github.com/stormckey/accipit/internal/pos"
)

// Op is the right-hand side of a value binding: `bin`, `alloca`, `load`,
// `store`, `offset` (GEP), or `call`.
type Op interface {
	opNode()
	String() string
}

// BinOp names one of the fourteen binary operators.
type BinOp string

const (
	OpAdd BinOp = "add"
	OpSub BinOp = "sub"
	OpMul BinOp = "mul"
	OpDiv BinOp = "div"
	OpRem BinOp = "rem"
	OpAnd BinOp = "and"
	OpOr  BinOp = "or"
	OpXor BinOp = "xor"
	OpEq  BinOp = "eq"
	OpNe  BinOp = "ne"
	OpLt  BinOp = "lt"
	OpLe  BinOp = "le"
	OpGt  BinOp = "gt"
	OpGe  BinOp = "ge"
)

// BinExpr is `bin_op v1, v2`.
type BinExpr struct {
	Op   BinOp
	V1   Value
	V2   Value
	Pos  pos.Position
}

func (BinExpr) opNode() {}
func (b BinExpr) String() string {
	return string(b.Op) + " " + b.V1.String() + ", " + b.V2.String()
}

// Alloca is `alloca T, k`.
type Alloca struct {
	Type Type
	Size int32
	Pos  pos.Position
}

func (Alloca) opNode() {}
func (a Alloca) String() string {
	return "alloca " + a.Type.String() + ", " + strconv.FormatInt(int64(a.Size), 10)
}

// Load is `load %p`.
type Load struct {
	Ptr Ident
	Pos pos.Position
}

func (Load) opNode() {}
func (l Load) String() string { return "load " + l.Ptr.String() }

// Store is `store v, %p`.
type Store struct {
	Value Value
	Ptr   Ident
	Pos   pos.Position
}

func (Store) opNode() {}
func (s Store) String() string { return "store " + s.Value.String() + ", " + s.Ptr.String() }

// GepDim is one `[i < d]` step of an `offset` (GEP) instruction. Dim is nil
// when the source wrote `none`, meaning "no multiply in this step".
type GepDim struct {
	Index Value
	Dim   *int32
}

func (d GepDim) String() string {
	if d.Dim == nil {
		return "[" + d.Index.String() + " < none]"
	}
	return "[" + d.Index.String() + " < " + strconv.FormatInt(int64(*d.Dim), 10) + "]"
}

// Gep is `offset T, %p, [i1 < d1], ..., [in < dn]`.
type Gep struct {
	Type Type
	Ptr  Ident
	Dims []GepDim
	Pos  pos.Position
}

func (Gep) opNode() {}
func (g Gep) String() string {
	parts := make([]string, len(g.Dims))
	for i, d := range g.Dims {
		parts[i] = d.String()
	}
	return "offset " + g.Type.String() + ", " + g.Ptr.String() + ", " + strings.Join(parts, ", ")
}

// Call is `call @f, a0, ..., ak`.
type Call struct {
	Fn   Ident
	Args []Value
	Pos  pos.Position
}

func (Call) opNode() {}
func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	s := "call " + c.Fn.String()
	if len(parts) > 0 {
		s += ", " + strings.Join(parts, ", ")
	}
	return s
}
