package interp

import "fmt"

func asInt(v Value, who string) (Int, error) {
	i, ok := v.(Int)
	if !ok {
		return 0, newError(TypeError, "%s expects an integer argument, got %s", who, v)
	}
	return i, nil
}

func asPtr(v Value, who string) (Ptr, error) {
	p, ok := v.(Ptr)
	if !ok {
		return Ptr{}, newError(TypeError, "%s expects a pointer argument, got %s", who, v)
	}
	return p, nil
}

// builtinWrite is `@write v`: print v followed by a newline, return 0.
func builtinWrite(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(TypeError, "@write expects exactly one argument")
	}
	v, err := asInt(args[0], "@write")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(ev.opts.Stdout, "%d\n", int32(v))
	return Int(0), nil
}

// builtinPutint is `@putint v`: print v with no trailing newline.
func builtinPutint(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(TypeError, "@putint expects exactly one argument")
	}
	v, err := asInt(args[0], "@putint")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(ev.opts.Stdout, "%d", int32(v))
	return Int(0), nil
}

// builtinPutch is `@putch c`: print a single byte.
func builtinPutch(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(TypeError, "@putch expects exactly one argument")
	}
	v, err := asInt(args[0], "@putch")
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(ev.opts.Stdout, "%c", byte(v))
	return Int(0), nil
}

// builtinRead is `@read ()`/`@getint ()`: read one whitespace-delimited
// integer from standard input.
func builtinRead(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 0 {
		return nil, newError(TypeError, "@read expects no arguments")
	}
	n, err := ev.readInt()
	if err != nil {
		return nil, err
	}
	return Int(n), nil
}

// builtinGetarray is `@getarray p`: reads a count n, then n integers, and
// writes them into the n cells starting at p. Returns the count read.
func builtinGetarray(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, newError(TypeError, "@getarray expects exactly one argument")
	}
	ptr, err := asPtr(args[0], "@getarray")
	if err != nil {
		return nil, err
	}
	n, err := ev.readInt()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < n; i++ {
		v, err := ev.readInt()
		if err != nil {
			return nil, err
		}
		if err := ev.env.WritePtr(Ptr{Addr: ptr.Addr + int(i)}, Int(v)); err != nil {
			return nil, err
		}
	}
	return Int(n), nil
}

// builtinPutarray is `@putarray n, p`: prints the n integers starting at
// pointer p, space-separated, on a single line.
func builtinPutarray(ev *Evaluator, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, newError(TypeError, "@putarray expects exactly two arguments")
	}
	n, err := asInt(args[0], "@putarray")
	if err != nil {
		return nil, err
	}
	ptr, err := asPtr(args[1], "@putarray")
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < int32(n); i++ {
		v, err := ev.env.ReadPtr(Ptr{Addr: ptr.Addr + int(i)})
		if err != nil {
			return nil, err
		}
		if i > 0 {
			fmt.Fprint(ev.opts.Stdout, " ")
		}
		fmt.Fprintf(ev.opts.Stdout, "%d", int32(v))
	}
	fmt.Fprintln(ev.opts.Stdout)
	return Int(0), nil
}
