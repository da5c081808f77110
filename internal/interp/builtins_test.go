package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormckey/accipit/internal/ast"
)

func evaluatorWithIO(stdin string) (*Evaluator, *bytes.Buffer) {
	var out bytes.Buffer
	ev := NewEvaluator(NewEnvironment(), Options{
		Builtins: DefaultBuiltins(),
		Stdin:    strings.NewReader(stdin),
		Stdout:   &out,
		Stderr:   &bytes.Buffer{},
	})
	return ev, &out
}

func TestBuiltinWrite(t *testing.T) {
	ev, out := evaluatorWithIO("")
	v, err := builtinWrite(ev, []Value{Int(42)})
	require.NoError(t, err)
	assert.Equal(t, Int(0), v)
	assert.Equal(t, "42\n", out.String())
}

func TestBuiltinWrite_WrongArity(t *testing.T) {
	ev, _ := evaluatorWithIO("")
	_, err := builtinWrite(ev, nil)
	require.Error(t, err)
}

func TestBuiltinWrite_NonIntArgIsTypeError(t *testing.T) {
	ev, _ := evaluatorWithIO("")
	_, err := builtinWrite(ev, []Value{Unit{}})
	require.Error(t, err)
	var ierr *Error
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, TypeError, ierr.Kind)
}

func TestBuiltinPutint_NoTrailingNewline(t *testing.T) {
	ev, out := evaluatorWithIO("")
	_, err := builtinPutint(ev, []Value{Int(7)})
	require.NoError(t, err)
	assert.Equal(t, "7", out.String())
}

func TestBuiltinPutch(t *testing.T) {
	ev, out := evaluatorWithIO("")
	_, err := builtinPutch(ev, []Value{Int('A')})
	require.NoError(t, err)
	assert.Equal(t, "A", out.String())
}

func TestBuiltinRead(t *testing.T) {
	ev, _ := evaluatorWithIO("123 456")
	v, err := builtinRead(ev, nil)
	require.NoError(t, err)
	assert.Equal(t, Int(123), v)

	v, err = builtinRead(ev, nil)
	require.NoError(t, err)
	assert.Equal(t, Int(456), v)
}

func TestBuiltinGetarrayPutarray(t *testing.T) {
	ev, out := evaluatorWithIO("3 10 20 30")
	ptr, err := ev.env.Allocate(3, nil)
	require.NoError(t, err)

	n, err := builtinGetarray(ev, []Value{ptr})
	require.NoError(t, err)
	assert.Equal(t, Int(3), n)

	_, err = builtinPutarray(ev, []Value{Int(3), ptr})
	require.NoError(t, err)
	assert.Equal(t, "10 20 30\n", out.String())
}

func TestBuiltinDispatchTakesPrecedenceOverGlobalLookup(t *testing.T) {
	ev, out := evaluatorWithIO("")
	v, err := ev.call(ast.Ident{Region: ast.Global, Name: "write"}, []Value{Int(5)})
	require.NoError(t, err)
	assert.Equal(t, Int(0), v)
	assert.Equal(t, "5\n", out.String())
}
