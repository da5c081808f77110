package interp

import "github.com/stormckey/accipit/internal/ast"

// Link walks a parsed Program's top-level declarations in source order,
// allocating cell storage for every global region and registering every
// function (defined or external) in env's global table. It performs all
// of the name binding and memory allocation the parser's AST construction
// deliberately does not do, per the language spec's split between pure
// parsing and a separate registration pass.
func Link(env *Environment, prog *ast.Program) error {
	for _, decl := range prog.Decls {
		switch d := decl.(type) {
		case *ast.GlobalDecl:
			if err := linkGlobal(env, d); err != nil {
				return err
			}
		case *ast.FunDefn:
			if err := env.BindGlobal(d.Name.Qualified(), Function{Defn: d}); err != nil {
				return err
			}
		case *ast.FunDecl:
			if err := env.BindGlobal(d.Name.Qualified(), Function{Decl: d}); err != nil {
				return err
			}
		}
	}
	return nil
}

func linkGlobal(env *Environment, d *ast.GlobalDecl) error {
	var init []int32
	if d.Init != nil {
		if int32(len(d.Init)) != d.Size {
			return newError(MalformedIR, "global %s declares size %d but has %d initializers", d.Name, d.Size, len(d.Init))
		}
		init = make([]int32, len(d.Init))
		for i, v := range d.Init {
			iv, err := linkConstValue(env, v)
			if err != nil {
				return err
			}
			init[i] = iv
		}
	}
	ptr, err := env.Allocate(d.Size, init)
	if err != nil {
		return err
	}
	return env.BindGlobal(d.Name.Qualified(), ptr)
}

// linkConstValue evaluates a global initializer entry. Only integer
// literals and references to already-linked globals are meaningful here
// (a global region contributes its base address); anything else is a
// TypeError, since a cell can only ever hold an int32.
func linkConstValue(env *Environment, v ast.Value) (int32, error) {
	switch c := v.(type) {
	case ast.IntConst:
		return c.Value, nil
	case ast.Ident:
		val, err := env.Lookup(c.Qualified())
		if err != nil {
			return 0, err
		}
		if iv, ok := val.(Int); ok {
			return int32(iv), nil
		}
		if p, ok := val.(Ptr); ok {
			return int32(p.Addr), nil
		}
		return 0, newError(TypeError, "global initializer %s is not an integer", c)
	default:
		return 0, newError(TypeError, "global initializer %s is not a constant", v)
	}
}
