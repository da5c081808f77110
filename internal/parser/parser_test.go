package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormckey/accipit/internal/ast"
)

func TestParse_GlobalDecl(t *testing.T) {
	prog, err := Parse("test.ac", []byte(`@a : region i32, 3 = [1, 2, 3]`))
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)

	g, ok := prog.Decls[0].(*ast.GlobalDecl)
	require.True(t, ok)
	assert.Equal(t, ast.Ident{Region: ast.Global, Name: "a"}, g.Name)
	assert.Equal(t, ast.I32Type{}, g.Type)
	assert.Equal(t, int32(3), g.Size)
	require.Len(t, g.Init, 3)
	assert.Equal(t, ast.IntConst{Value: 1}, g.Init[0])
}

func TestParse_GlobalDeclNoInit(t *testing.T) {
	prog, err := Parse("test.ac", []byte(`@a : region i32, 105`))
	require.NoError(t, err)
	g := prog.Decls[0].(*ast.GlobalDecl)
	assert.Nil(t, g.Init)
	assert.Equal(t, int32(105), g.Size)
}

func TestParse_FunDecl(t *testing.T) {
	prog, err := Parse("test.ac", []byte(`fn @write(#v: i32) -> i32;`))
	require.NoError(t, err)
	d, ok := prog.Decls[0].(*ast.FunDecl)
	require.True(t, ok)
	assert.Equal(t, "write", d.Name.Name)
	require.Len(t, d.Params, 1)
	assert.Equal(t, ast.Ident{Region: ast.Param, Name: "v"}, d.Params[0].Name)
}

func TestParse_FunDefn(t *testing.T) {
	src := `
fn @main () -> i32 {
%entry:
  let %0 = add 1, 2
  ret %0
}
`
	prog, err := Parse("test.ac", []byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Decls, 1)
	f, ok := prog.Decls[0].(*ast.FunDefn)
	require.True(t, ok)
	require.Len(t, f.Blocks, 1)

	bb := f.Blocks[0]
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "entry"}, bb.Label)
	require.Len(t, bb.Bindings, 1)

	bin, ok := bb.Bindings[0].Op.(*ast.BinExpr)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, bin.Op)

	ret, ok := bb.Term.(*ast.Ret)
	require.True(t, ok)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "0"}, ret.Value)
}

func TestParse_BinOps(t *testing.T) {
	for text, op := range map[string]ast.BinOp{
		"add": ast.OpAdd, "sub": ast.OpSub, "mul": ast.OpMul, "div": ast.OpDiv,
		"rem": ast.OpRem, "and": ast.OpAnd, "or": ast.OpOr, "xor": ast.OpXor,
		"eq": ast.OpEq, "ne": ast.OpNe, "lt": ast.OpLt, "le": ast.OpLe,
		"gt": ast.OpGt, "ge": ast.OpGe,
	} {
		t.Run(text, func(t *testing.T) {
			src := "fn @f () -> i32 {\n%0:\n  let %x = " + text + " 1, 2\n  ret %x\n}\n"
			prog, err := Parse("test.ac", []byte(src))
			require.NoError(t, err)
			f := prog.Decls[0].(*ast.FunDefn)
			bin := f.Blocks[0].Bindings[0].Op.(*ast.BinExpr)
			assert.Equal(t, op, bin.Op)
		})
	}
}

func TestParse_AllocaLoadStore(t *testing.T) {
	src := `
fn @f () -> () {
%0:
  let %p = alloca i32, 1
  let %u = store 5, %p
  let %v = load %p
  ret ()
}
`
	prog, err := Parse("test.ac", []byte(src))
	require.NoError(t, err)
	f := prog.Decls[0].(*ast.FunDefn)
	bindings := f.Blocks[0].Bindings
	require.Len(t, bindings, 3)

	alloca := bindings[0].Op.(*ast.Alloca)
	assert.Equal(t, int32(1), alloca.Size)

	store := bindings[1].Op.(*ast.Store)
	assert.Equal(t, ast.IntConst{Value: 5}, store.Value)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "p"}, store.Ptr)

	load := bindings[2].Op.(*ast.Load)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "p"}, load.Ptr)
}

func TestParse_GepDimensions(t *testing.T) {
	src := `
fn @f (#a: i32*) -> i32* {
%0:
  let %p = offset i32, #a, [1 < 3], [2 < none]
  ret %p
}
`
	prog, err := Parse("test.ac", []byte(src))
	require.NoError(t, err)
	f := prog.Decls[0].(*ast.FunDefn)
	gep := f.Blocks[0].Bindings[0].Op.(*ast.Gep)
	require.Len(t, gep.Dims, 2)
	require.NotNil(t, gep.Dims[0].Dim)
	assert.Equal(t, int32(3), *gep.Dims[0].Dim)
	assert.Nil(t, gep.Dims[1].Dim)
}

func TestParse_GepRequiresAtLeastOneDimension(t *testing.T) {
	src := `
fn @f (#a: i32*) -> i32* {
%0:
  let %p = offset i32, #a
  ret %p
}
`
	_, err := Parse("test.ac", []byte(src))
	require.Error(t, err)
}

func TestParse_CallWithArgs(t *testing.T) {
	src := `
fn @f () -> i32 {
%0:
  let %r = call @factorial, 5
  ret %r
}
`
	prog, err := Parse("test.ac", []byte(src))
	require.NoError(t, err)
	f := prog.Decls[0].(*ast.FunDefn)
	call := f.Blocks[0].Bindings[0].Op.(*ast.Call)
	assert.Equal(t, "factorial", call.Fn.Name)
	require.Len(t, call.Args, 1)
	assert.Equal(t, ast.IntConst{Value: 5}, call.Args[0])
}

func TestParse_Terminators(t *testing.T) {
	src := `
fn @f (#n: i32) -> i32 {
%entry:
  br #n, label %t, label %f
%t:
  jmp label %done
%f:
  ret 0
%done:
  ret 1
}
`
	prog, err := Parse("test.ac", []byte(src))
	require.NoError(t, err)
	f := prog.Decls[0].(*ast.FunDefn)
	require.Len(t, f.Blocks, 4)

	br := f.Blocks[0].Term.(*ast.Br)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "t"}, br.True)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "f"}, br.False)

	jmp := f.Blocks[1].Term.(*ast.Jmp)
	assert.Equal(t, ast.Ident{Region: ast.Local, Name: "done"}, jmp.Target)
}

func TestParse_PointerAndFuncTypes(t *testing.T) {
	prog, err := Parse("test.ac", []byte(`fn @f (#a: i32**, #g: fn(i32, i32) -> i32) -> ();`))
	require.NoError(t, err)
	f := prog.Decls[0].(*ast.FunDecl)

	pt, ok := f.Params[0].Type.(ast.PointerType)
	require.True(t, ok)
	inner, ok := pt.Elem.(ast.PointerType)
	require.True(t, ok)
	assert.Equal(t, ast.I32Type{}, inner.Elem)

	ft, ok := f.Params[1].Type.(ast.FuncType)
	require.True(t, ok)
	assert.Len(t, ft.Params, 2)
	assert.Equal(t, ast.I32Type{}, ft.Ret)
}

func TestParse_SyntaxErrorReportsPosition(t *testing.T) {
	_, err := Parse("bad.ac", []byte("fn @f () -> i32 {\n%0: nope\n}\n"))
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.ac", perr.File)
	assert.Equal(t, 2, perr.Pos.Line)
	assert.Contains(t, perr.Context, "nope")
}

func TestParse_RejectsJunkAtTopLevel(t *testing.T) {
	_, err := Parse("test.ac", []byte(`garbage`))
	require.Error(t, err)
}
