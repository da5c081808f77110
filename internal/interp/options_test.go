package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_WithDefaultsFillsUnsetFields(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.NotNil(t, opts.Builtins)
	assert.NotNil(t, opts.Stdin)
	assert.NotNil(t, opts.Stdout)
	assert.NotNil(t, opts.Stderr)
	assert.Contains(t, opts.Builtins, "@write")
	assert.Contains(t, opts.Builtins, "@read")
}

func TestOptions_WithDefaultsPreservesSetFields(t *testing.T) {
	custom := BuiltinSet{"@only": builtinWrite}
	opts := Options{Builtins: custom}.withDefaults()
	assert.Equal(t, custom, opts.Builtins)
}

func TestDumpYAML(t *testing.T) {
	env := NewEnvironment()
	ptr, err := env.Allocate(2, []int32{1, 2})
	require.NoError(t, err)
	require.NoError(t, env.BindGlobal("@a", ptr))

	var buf bytes.Buffer
	require.NoError(t, env.DumpYAML(&buf))

	out := buf.String()
	assert.Contains(t, out, "globals:")
	assert.Contains(t, out, "@a:")
	assert.Contains(t, out, "cells:")
	assert.Contains(t, out, "frame_depth: 0")
}
