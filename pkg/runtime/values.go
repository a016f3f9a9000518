package runtime

import (
	"fmt"
	"strconv"

	"github.com/FANNYMU/blood-language/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBool
	KindNil
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBool:
		return "bool"
	case KindNil:
		return "nil"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
	String() string
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind     { return KindInteger }
func (v IntegerValue) String() string { return strconv.FormatInt(v.Val, 10) }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind     { return KindBool }
func (v BoolValue) String() string { return strconv.FormatBool(v.Val) }

type NilValue struct{}

func (NilValue) Kind() Kind     { return KindNil }
func (NilValue) String() string { return "nil" }

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// FunctionValue is a declared function. It captures no environment; the body
// only sees its parameters, its own locals and globals.
type FunctionValue struct {
	Declaration *ast.FunctionDefinition
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) String() string {
	return fmt.Sprintf("<fn %s>", v.Name())
}

// Name returns the declared function name.
func (v *FunctionValue) Name() string {
	if v == nil || v.Declaration == nil || v.Declaration.ID == nil {
		return "<anonymous>"
	}
	return v.Declaration.ID.Name
}

// Params returns the parameter names in order.
func (v *FunctionValue) Params() []string {
	if v == nil || v.Declaration == nil {
		return nil
	}
	return v.Declaration.ParamNames()
}

// Body returns the statements executed on call.
func (v *FunctionValue) Body() []ast.Statement {
	if v == nil || v.Declaration == nil || v.Declaration.Body == nil {
		return nil
	}
	return v.Declaration.Body.Body
}

// ValuesEqual compares two values structurally. Values of different kinds are
// never equal; functions are equal only to themselves.
func ValuesEqual(left, right Value) bool {
	switch l := left.(type) {
	case IntegerValue:
		r, ok := right.(IntegerValue)
		return ok && l.Val == r.Val
	case BoolValue:
		r, ok := right.(BoolValue)
		return ok && l.Val == r.Val
	case NilValue:
		_, ok := right.(NilValue)
		return ok
	case *FunctionValue:
		r, ok := right.(*FunctionValue)
		return ok && l.Declaration == r.Declaration
	default:
		return false
	}
}
