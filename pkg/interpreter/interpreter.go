package interpreter

import (
	"io"
	"os"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/runtime"
)

// DefaultMaxCallDepth bounds recursion when Options.MaxCallDepth is zero.
const DefaultMaxCallDepth = 10000

// Options configures a new Interpreter.
type Options struct {
	// Stdout receives print output. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxCallDepth limits nested calls. Zero selects DefaultMaxCallDepth and a
	// negative value disables the limit.
	MaxCallDepth int
}

// Interpreter executes Blood programs by walking the AST. An Interpreter owns
// all of its state; independent runs use independent instances.
type Interpreter struct {
	env          *runtime.Environment
	stdout       io.Writer
	maxCallDepth int

	loopDepth     int
	functionDepth int
}

// New returns an interpreter that prints to os.Stdout.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

// NewWithOptions returns an interpreter configured by opts.
func NewWithOptions(opts Options) *Interpreter {
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	maxDepth := opts.MaxCallDepth
	if maxDepth == 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &Interpreter{
		env:          runtime.NewEnvironment(),
		stdout:       stdout,
		maxCallDepth: maxDepth,
	}
}

// Environment returns the interpreter's variable environment.
func (i *Interpreter) Environment() *runtime.Environment {
	return i.env
}

// Interpret runs each top-level statement in order and stops at the first
// error.
func (i *Interpreter) Interpret(program *ast.Program) error {
	if program == nil {
		return nil
	}
	for _, stmt := range program.Body {
		sig, err := i.executeStatement(stmt)
		if err != nil {
			return err
		}
		switch sig.kind {
		case controlBreak:
			return newControlFlowError("break", "loop")
		case controlContinue:
			return newControlFlowError("continue", "loop")
		case controlReturn:
			return newControlFlowError("return", "function")
		}
	}
	return nil
}
