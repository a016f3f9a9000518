package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrRedeclared = errors.New("already declared")
	ErrImmutable  = errors.New("cannot reassign immutable variable")
	ErrNotFound   = errors.New("variable not found")
	ErrUndefined  = errors.New("variable not defined")
)

// BindingError describes a failed declaration, assignment or lookup.
type BindingError struct {
	Name   string
	Global bool
	Err    error
}

func (e *BindingError) Error() string {
	switch {
	case errors.Is(e.Err, ErrRedeclared) && e.Global:
		return fmt.Sprintf("global variable '%s' already declared", e.Name)
	case errors.Is(e.Err, ErrRedeclared):
		return fmt.Sprintf("variable '%s' already declared in this scope", e.Name)
	case errors.Is(e.Err, ErrImmutable):
		return fmt.Sprintf("cannot reassign immutable variable '%s'", e.Name)
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("variable '%s' not found", e.Name)
	case errors.Is(e.Err, ErrUndefined):
		return fmt.Sprintf("variable '%s' not defined", e.Name)
	default:
		return fmt.Sprintf("variable '%s': %v", e.Name, e.Err)
	}
}

func (e *BindingError) Unwrap() error {
	return e.Err
}

// Binding pairs a value with its mutability, fixed at declaration.
type Binding struct {
	Value   Value
	Mutable bool
}

// Scope holds the bindings introduced by one block.
type Scope struct {
	bindings map[string]*Binding
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{bindings: make(map[string]*Binding)}
}

// Lookup returns the binding for name declared directly in this scope.
func (s *Scope) Lookup(name string) (*Binding, bool) {
	b, ok := s.bindings[name]
	return b, ok
}

// Declare adds a binding, reporting false if name already exists here.
func (s *Scope) Declare(name string, value Value, mutable bool) bool {
	if _, exists := s.bindings[name]; exists {
		return false
	}
	s.bindings[name] = &Binding{Value: value, Mutable: mutable}
	return true
}

// Frame is the stack of scopes belonging to one active call, innermost last.
type Frame struct {
	scopes []*Scope
}

// Depth reports how many scopes the frame holds.
func (f *Frame) Depth() int {
	return len(f.scopes)
}

// Environment is the interpreter's variable state: one global scope plus a
// call stack of frames. The bottom frame belongs to top-level code and starts
// without scopes, so top-level declarations land in globals.
type Environment struct {
	globals *Scope
	frames  []*Frame
}

// NewEnvironment creates an environment with empty globals and a root frame.
func NewEnvironment() *Environment {
	return &Environment{
		globals: NewScope(),
		frames:  []*Frame{{}},
	}
}

// Globals exposes the global scope.
func (e *Environment) Globals() *Scope {
	return e.globals
}

// CallDepth reports the number of active function frames.
func (e *Environment) CallDepth() int {
	return len(e.frames) - 1
}

// CurrentFrame returns the frame on top of the call stack.
func (e *Environment) CurrentFrame() *Frame {
	return e.frames[len(e.frames)-1]
}

// PushScope opens a block scope in the current frame.
func (e *Environment) PushScope() {
	frame := e.CurrentFrame()
	frame.scopes = append(frame.scopes, NewScope())
}

// PopScope discards the innermost scope of the current frame.
func (e *Environment) PopScope() {
	frame := e.CurrentFrame()
	if len(frame.scopes) == 0 {
		return
	}
	frame.scopes[len(frame.scopes)-1] = nil
	frame.scopes = frame.scopes[:len(frame.scopes)-1]
}

// PushFrame starts a call whose first scope is params.
func (e *Environment) PushFrame(params *Scope) {
	if params == nil {
		params = NewScope()
	}
	e.frames = append(e.frames, &Frame{scopes: []*Scope{params}})
}

// PopFrame ends the current call. The root frame is never popped.
func (e *Environment) PopFrame() {
	if len(e.frames) <= 1 {
		return
	}
	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]
}

// Define binds name in the innermost scope of the current frame, or in
// globals when the frame has no scope open.
func (e *Environment) Define(name string, value Value, mutable bool) error {
	frame := e.CurrentFrame()
	if len(frame.scopes) == 0 {
		return e.DefineGlobal(name, value, mutable)
	}
	if !frame.scopes[len(frame.scopes)-1].Declare(name, value, mutable) {
		return &BindingError{Name: name, Err: ErrRedeclared}
	}
	return nil
}

// DefineGlobal binds name in the global scope.
func (e *Environment) DefineGlobal(name string, value Value, mutable bool) error {
	if !e.globals.Declare(name, value, mutable) {
		return &BindingError{Name: name, Global: true, Err: ErrRedeclared}
	}
	return nil
}

// resolve searches the current frame innermost to outermost, then globals.
func (e *Environment) resolve(name string) (*Binding, bool) {
	scopes := e.CurrentFrame().scopes
	for idx := len(scopes) - 1; idx >= 0; idx-- {
		if b, ok := scopes[idx].Lookup(name); ok {
			return b, true
		}
	}
	return e.globals.Lookup(name)
}

// Assign updates the first visible binding of name.
func (e *Environment) Assign(name string, value Value) error {
	b, ok := e.resolve(name)
	if !ok {
		return &BindingError{Name: name, Err: ErrNotFound}
	}
	if !b.Mutable {
		return &BindingError{Name: name, Err: ErrImmutable}
	}
	b.Value = value
	return nil
}

// Get retrieves the first visible binding of name.
func (e *Environment) Get(name string) (Value, error) {
	b, ok := e.resolve(name)
	if !ok {
		return nil, &BindingError{Name: name, Err: ErrUndefined}
	}
	return b.Value, nil
}
