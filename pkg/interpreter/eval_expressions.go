package interpreter

import (
	"fmt"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node ast.Expression) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.Identifier:
		val, err := i.env.Get(n.Name)
		if err != nil {
			return nil, wrapBindingError(err)
		}
		return val, nil
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n)
	case *ast.FunctionCall:
		return i.evaluateFunctionCall(n)
	case nil:
		return nil, fmt.Errorf("nil expression")
	default:
		return nil, fmt.Errorf("unsupported expression type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand)
	if err != nil {
		return nil, err
	}
	return applyUnaryOperator(expr.Operator, operand)
}

// evaluateBinaryExpression evaluates both operands left to right before
// applying the operator. 'and' and 'or' do not short-circuit.
func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

func (i *Interpreter) evaluateFunctionCall(call *ast.FunctionCall) (runtime.Value, error) {
	name := call.Callee.Name
	calleeVal, err := i.env.Get(name)
	if err != nil {
		return nil, wrapBindingError(err)
	}
	fn, ok := calleeVal.(*runtime.FunctionValue)
	if !ok {
		return nil, newRuntimeError(ErrorNotCallable, "'%s' is not a function", name)
	}
	params := fn.Params()
	if len(call.Arguments) != len(params) {
		return nil, newRuntimeError(ErrorArityMismatch, "function '%s' expected %d %s, got %d",
			name, len(params), pluralize(len(params), "argument", "arguments"), len(call.Arguments))
	}

	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return i.callFunction(fn, args)
}

// callFunction runs fn in a fresh frame. Arguments are already evaluated in
// the caller's scope.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	if i.maxCallDepth > 0 && i.env.CallDepth() >= i.maxCallDepth {
		return nil, newRuntimeError(ErrorCallDepthExceeded, "maximum call depth exceeded (%d) calling '%s'", i.maxCallDepth, fn.Name())
	}

	params := runtime.NewScope()
	for idx, param := range fn.Params() {
		if !params.Declare(param, args[idx], false) {
			return nil, newRuntimeError(ErrorRedeclaration, "duplicate parameter '%s' in function '%s'", param, fn.Name())
		}
	}

	i.env.PushFrame(params)
	savedLoopDepth := i.loopDepth
	i.loopDepth = 0
	i.functionDepth++
	defer func() {
		i.functionDepth--
		i.loopDepth = savedLoopDepth
		i.env.PopFrame()
	}()

	sig, err := i.executeStatements(fn.Body())
	if err != nil {
		return nil, err
	}
	if sig.kind == controlReturn && sig.value != nil {
		return sig.value, nil
	}
	return runtime.NilValue{}, nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
