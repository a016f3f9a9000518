package interpreter

import (
	"fmt"
	"math/big"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/runtime"
)

func applyUnaryOperator(op ast.UnaryOperator, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.UnaryOperatorNot:
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, newRuntimeError(ErrorTypeMismatch, "'not' expects a boolean, got %s", operand.Kind())
		}
		return runtime.BoolValue{Val: !b.Val}, nil
	case ast.UnaryOperatorNegate:
		n, ok := operand.(runtime.IntegerValue)
		if !ok {
			return nil, newRuntimeError(ErrorTypeMismatch, "unary '-' expects an integer, got %s", operand.Kind())
		}
		result := new(big.Int).Neg(big.NewInt(n.Val))
		if !result.IsInt64() {
			return nil, newOverflowError("-")
		}
		return runtime.IntegerValue{Val: result.Int64()}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %q", op)
	}
}

func applyBinaryOperator(op ast.BinaryOperator, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.BinaryOperatorAdd, ast.BinaryOperatorSubtract, ast.BinaryOperatorMultiply, ast.BinaryOperatorDivide, ast.BinaryOperatorModulo:
		l, r, err := integerOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return evaluateArithmetic(op, l, r)
	case ast.BinaryOperatorLess, ast.BinaryOperatorLessEqual, ast.BinaryOperatorGreater, ast.BinaryOperatorGreaterEqual:
		l, r, err := integerOperands(op, left, right)
		if err != nil {
			return nil, err
		}
		return evaluateComparison(op, l, r), nil
	case ast.BinaryOperatorEqual:
		return runtime.BoolValue{Val: runtime.ValuesEqual(left, right)}, nil
	case ast.BinaryOperatorNotEqual:
		return runtime.BoolValue{Val: !runtime.ValuesEqual(left, right)}, nil
	case ast.BinaryOperatorAnd, ast.BinaryOperatorOr:
		l, lok := left.(runtime.BoolValue)
		r, rok := right.(runtime.BoolValue)
		if !lok || !rok {
			return nil, newRuntimeError(ErrorTypeMismatch, "'%s' operands must be booleans, got %s and %s", op, left.Kind(), right.Kind())
		}
		if op == ast.BinaryOperatorAnd {
			return runtime.BoolValue{Val: l.Val && r.Val}, nil
		}
		return runtime.BoolValue{Val: l.Val || r.Val}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %q", op)
	}
}

func integerOperands(op ast.BinaryOperator, left, right runtime.Value) (int64, int64, error) {
	l, lok := left.(runtime.IntegerValue)
	r, rok := right.(runtime.IntegerValue)
	if !lok || !rok {
		return 0, 0, newRuntimeError(ErrorTypeMismatch, "operands of '%s' must be integers, got %s and %s", op, left.Kind(), right.Kind())
	}
	return l.Val, r.Val, nil
}

// evaluateArithmetic computes in arbitrary precision and rejects results that
// do not fit in int64. Division truncates toward zero and the remainder takes
// the sign of the dividend.
func evaluateArithmetic(op ast.BinaryOperator, left, right int64) (runtime.Value, error) {
	l := big.NewInt(left)
	r := big.NewInt(right)
	result := new(big.Int)
	switch op {
	case ast.BinaryOperatorAdd:
		result.Add(l, r)
	case ast.BinaryOperatorSubtract:
		result.Sub(l, r)
	case ast.BinaryOperatorMultiply:
		result.Mul(l, r)
	case ast.BinaryOperatorDivide:
		if right == 0 {
			return nil, newDivisionByZeroError()
		}
		result.Quo(l, r)
	case ast.BinaryOperatorModulo:
		if right == 0 {
			return nil, newModuloByZeroError()
		}
		result.Rem(l, r)
	default:
		return nil, fmt.Errorf("unsupported arithmetic operator %q", op)
	}
	if !result.IsInt64() {
		return nil, newOverflowError(string(op))
	}
	return runtime.IntegerValue{Val: result.Int64()}, nil
}

func evaluateComparison(op ast.BinaryOperator, left, right int64) runtime.Value {
	var result bool
	switch op {
	case ast.BinaryOperatorLess:
		result = left < right
	case ast.BinaryOperatorLessEqual:
		result = left <= right
	case ast.BinaryOperatorGreater:
		result = left > right
	case ast.BinaryOperatorGreaterEqual:
		result = left >= right
	}
	return runtime.BoolValue{Val: result}
}
