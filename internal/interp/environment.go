package interp

import "github.com/stormckey/accipit/internal/ast"

// cellChunk is the growth increment for the cell store, matching the
// "power-of-two-ish 1024 rounding" the language spec calls out as
// unobservable implementation detail.
const cellChunk = 1024

// frame is a function invocation's local bindings: parameters and
// `let`-bound values share one namespace (the region prefix already makes
// them disjoint), plus the invocation's block label map, resolved once on
// entry so branches never need parent pointers back into the function.
type frame struct {
	locals map[string]Value
	labels map[string]*ast.BasicBlock
}

func newFrame() *frame {
	return &frame{
		locals: make(map[string]Value),
		labels: make(map[string]*ast.BasicBlock),
	}
}

// Environment is the interpreter's whole mutable state: the global table,
// the frame stack, and the linear cell store backing every Ptr. It is
// threaded explicitly through the evaluator rather than kept as a package
// singleton, per the language spec's design notes.
type Environment struct {
	globals map[string]Value
	frames  []*frame
	cells   []int32
	size    int
}

// NewEnvironment returns an empty Environment ready for Link.
func NewEnvironment() *Environment {
	return &Environment{
		globals: make(map[string]Value),
	}
}

// Allocate reserves n contiguous cells starting at the current high-water
// mark, optionally initializing them from init (whose length must equal
// n), and returns a Ptr to the first cell. The cell store only ever grows;
// there is no release, per the arena-semantics design note.
func (e *Environment) Allocate(n int32, init []int32) (Ptr, error) {
	if init != nil && int32(len(init)) != n {
		return Ptr{}, newError(MalformedIR, "initializer count %d does not match size %d", len(init), n)
	}
	needed := e.size + int(n)
	if needed > len(e.cells) {
		grow := ((needed - len(e.cells)) + cellChunk - 1) / cellChunk * cellChunk
		e.cells = append(e.cells, make([]int32, grow)...)
	}
	addr := e.size
	e.size += int(n)
	for i, v := range init {
		e.cells[addr+i] = v
	}
	return Ptr{Addr: addr}, nil
}

// BindGlobal registers name (already region-qualified) in the global
// table. Re-registering an existing name is a DuplicateDefinition.
func (e *Environment) BindGlobal(name string, v Value) error {
	if _, exists := e.globals[name]; exists {
		return newError(DuplicateDefinition, name)
	}
	e.globals[name] = v
	return nil
}

// Lookup resolves a region-qualified name: globals for `@...`, the current
// frame's locals for `#...`/`%...`.
func (e *Environment) Lookup(name string) (Value, error) {
	if len(name) == 0 {
		return nil, newError(UnboundIdentifier, name)
	}
	if name[0] == byte(ast.Global) {
		if v, ok := e.globals[name]; ok {
			return v, nil
		}
		return nil, newError(UnboundIdentifier, name)
	}
	fr := e.top()
	if v, ok := fr.locals[name]; ok {
		return v, nil
	}
	return nil, newError(UnboundIdentifier, name)
}

// BindLocal inserts value into the current frame under name.
func (e *Environment) BindLocal(name string, value Value) {
	e.top().locals[name] = value
}

// Store writes v into the cell addressed by the pointer bound to name.
func (e *Environment) Store(name string, v Value) error {
	target, err := e.Lookup(name)
	if err != nil {
		return err
	}
	ptr, ok := target.(Ptr)
	if !ok {
		return newError(TypeError, "%s is not a pointer", name)
	}
	iv, ok := v.(Int)
	if !ok {
		return newError(TypeError, "cannot store non-int value %s", v)
	}
	if err := e.bounds(ptr); err != nil {
		return err
	}
	e.cells[ptr.Addr] = int32(iv)
	return nil
}

// Load reads the cell addressed by the pointer bound to name.
func (e *Environment) Load(name string) (Int, error) {
	target, err := e.Lookup(name)
	if err != nil {
		return 0, err
	}
	ptr, ok := target.(Ptr)
	if !ok {
		return 0, newError(TypeError, "%s is not a pointer", name)
	}
	if err := e.bounds(ptr); err != nil {
		return 0, err
	}
	return Int(e.cells[ptr.Addr]), nil
}

// ReadPtr dereferences ptr directly, used by GEP-adjacent builtins
// (@getarray/@putarray) that walk a pointer without going through a named
// binding.
func (e *Environment) ReadPtr(ptr Ptr) (Int, error) {
	if err := e.bounds(ptr); err != nil {
		return 0, err
	}
	return Int(e.cells[ptr.Addr]), nil
}

// WritePtr writes through ptr directly.
func (e *Environment) WritePtr(ptr Ptr, v Int) error {
	if err := e.bounds(ptr); err != nil {
		return err
	}
	e.cells[ptr.Addr] = int32(v)
	return nil
}

func (e *Environment) bounds(ptr Ptr) error {
	if ptr.Addr < 0 || ptr.Addr >= len(e.cells) {
		return newError(MemoryError, "pointer %s out of range (store size %d)", ptr, e.size)
	}
	return nil
}

// PushFrame opens a new invocation frame.
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, newFrame())
}

// PopFrame closes the current invocation frame. Calling it at depth 0 is a
// programmer error — the evaluator must always push before it pops — and
// is not part of the user-facing error taxonomy, so it panics instead of
// returning an *Error.
func (e *Environment) PopFrame() {
	if len(e.frames) == 0 {
		panic("interp: PopFrame on an empty frame stack")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *Environment) top() *frame {
	if len(e.frames) == 0 {
		panic("interp: no active frame")
	}
	return e.frames[len(e.frames)-1]
}

// BindLabel registers a basic block under its label in the current frame,
// done once on function entry so branches resolve purely by name.
func (e *Environment) BindLabel(name string, bb *ast.BasicBlock) {
	e.top().labels[name] = bb
}

// Label resolves a branch target within the current frame.
func (e *Environment) Label(name string) (*ast.BasicBlock, error) {
	fr := e.top()
	bb, ok := fr.labels[name]
	if !ok {
		return nil, newError(MalformedIR, "branch to undefined label %s", name)
	}
	return bb, nil
}

// CellsSnapshot returns a defensive copy of the live prefix of the cell
// store, used by the YAML snapshot writer and tests; it never exposes the
// backing array so callers can't mutate interpreter state through it.
func (e *Environment) CellsSnapshot() []int32 {
	out := make([]int32, e.size)
	copy(out, e.cells[:e.size])
	return out
}

// FrameDepth reports how many invocation frames are currently active.
func (e *Environment) FrameDepth() int { return len(e.frames) }
