package interpreter

import (
	"errors"
	"fmt"

	"github.com/FANNYMU/blood-language/pkg/runtime"
)

// RuntimeErrorKind classifies fatal evaluation errors.
type RuntimeErrorKind string

const (
	ErrorDivisionByZero      RuntimeErrorKind = "DivisionByZeroError"
	ErrorOverflow            RuntimeErrorKind = "OverflowError"
	ErrorTypeMismatch        RuntimeErrorKind = "TypeMismatchError"
	ErrorUndefinedVariable   RuntimeErrorKind = "UndefinedVariableError"
	ErrorRedeclaration       RuntimeErrorKind = "RedeclarationError"
	ErrorImmutableAssignment RuntimeErrorKind = "ImmutableAssignmentError"
	ErrorArityMismatch       RuntimeErrorKind = "ArityMismatchError"
	ErrorNotCallable         RuntimeErrorKind = "NotCallableError"
	ErrorInvalidControlFlow  RuntimeErrorKind = "InvalidControlFlowError"
	ErrorCallDepthExceeded   RuntimeErrorKind = "CallDepthExceededError"
)

// RuntimeError is the single error type raised while executing a program.
// Every RuntimeError aborts the run.
type RuntimeError struct {
	Kind    RuntimeErrorKind
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func newRuntimeError(kind RuntimeErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsRuntimeErrorKind reports whether err is a RuntimeError of the given kind.
func IsRuntimeErrorKind(err error, kind RuntimeErrorKind) bool {
	var rtErr *RuntimeError
	return errors.As(err, &rtErr) && rtErr.Kind == kind
}

func newDivisionByZeroError() error {
	return newRuntimeError(ErrorDivisionByZero, "division by zero")
}

func newModuloByZeroError() error {
	return newRuntimeError(ErrorDivisionByZero, "modulo by zero")
}

func newOverflowError(operation string) error {
	message := "integer overflow"
	if operation != "" {
		message = fmt.Sprintf("integer overflow in '%s'", operation)
	}
	return newRuntimeError(ErrorOverflow, message)
}

func newControlFlowError(keyword, context string) error {
	return newRuntimeError(ErrorInvalidControlFlow, "'%s' used outside of %s", keyword, context)
}

// wrapBindingError maps environment failures onto runtime error kinds.
func wrapBindingError(err error) error {
	if err == nil {
		return nil
	}
	kind := ErrorUndefinedVariable
	switch {
	case errors.Is(err, runtime.ErrRedeclared):
		kind = ErrorRedeclaration
	case errors.Is(err, runtime.ErrImmutable):
		kind = ErrorImmutableAssignment
	}
	return &RuntimeError{Kind: kind, Message: err.Error(), Err: err}
}
