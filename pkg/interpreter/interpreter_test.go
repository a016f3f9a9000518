package interpreter

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/parser"
	"github.com/FANNYMU/blood-language/pkg/runtime"
)

func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	program, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var out bytes.Buffer
	interp := NewWithOptions(Options{Stdout: &out})
	err = interp.Interpret(program)
	return out.String(), err
}

func runProgram(t *testing.T, program *ast.Program) (*Interpreter, string, error) {
	t.Helper()
	var out bytes.Buffer
	interp := NewWithOptions(Options{Stdout: &out})
	err := interp.Interpret(program)
	return interp, out.String(), err
}

func TestInterpretDeclarationAndPrint(t *testing.T) {
	program := ast.Prog(
		ast.Let("x", ast.Int(5)),
		ast.Print(ast.Bin(ast.BinaryOperatorAdd, ast.ID("x"), ast.Int(3))),
	)
	interp, out, err := runProgram(t, program)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "8\n" {
		t.Fatalf("expected 8, got %q", out)
	}
	binding, ok := interp.Environment().Globals().Lookup("x")
	if !ok || binding.Mutable {
		t.Fatalf("expected immutable global x, got %+v", binding)
	}
}

func TestInterpretWhileCountsUp(t *testing.T) {
	program := ast.Prog(
		ast.LetMod("x", ast.Int(0)),
		ast.While(ast.Bin(ast.BinaryOperatorLess, ast.ID("x"), ast.Int(3)),
			ast.Print(ast.ID("x")),
			ast.Assign("x", ast.Bin(ast.BinaryOperatorAdd, ast.ID("x"), ast.Int(1))),
		),
	)
	_, out, err := runProgram(t, program)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "0\n1\n2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestFunctionCallReturnsValue(t *testing.T) {
	program := ast.Prog(
		ast.Fn("add", []string{"a", "b"}, ast.Ret(ast.Bin(ast.BinaryOperatorAdd, ast.ID("a"), ast.ID("b")))),
		ast.Print(ast.Call("add", ast.Int(2), ast.Int(3))),
	)
	interp, out, err := runProgram(t, program)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "5\n" {
		t.Fatalf("expected 5, got %q", out)
	}
	if interp.Environment().CallDepth() != 0 {
		t.Fatalf("frame leaked after call")
	}
}

func TestDivisionByZeroPrintsNothing(t *testing.T) {
	out, err := runSource(t, "print(1 / 0)")
	if !IsRuntimeErrorKind(err, ErrorDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if err.Error() != "division by zero" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}

	_, err = runSource(t, "print(7 % 0)")
	if !IsRuntimeErrorKind(err, ErrorDivisionByZero) || err.Error() != "modulo by zero" {
		t.Fatalf("expected modulo by zero, got %v", err)
	}
}

func TestElseIfOnlyFirstMatchingBranchRuns(t *testing.T) {
	out, err := runSource(t, "if true then print(1) elseif true then print(2) else print(3) end")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "1\n" {
		t.Fatalf("expected only 1, got %q", out)
	}
	// A later condition that would fail must never be evaluated.
	out, err = runSource(t, "if true then print(1) elseif 1 / 0 == 0 then print(2) end")
	if err != nil || out != "1\n" {
		t.Fatalf("elseif condition evaluated: %q %v", out, err)
	}
}

func TestArithmeticIdentityAndRemainder(t *testing.T) {
	values := []int64{-17, -1, 0, 1, 9, 123456789}
	for _, a := range values {
		for _, b := range []int64{1, 2, 5, 1000} {
			left, err := applyBinaryOperator(ast.BinaryOperatorAdd, runtime.IntegerValue{Val: a}, runtime.IntegerValue{Val: b})
			if err != nil {
				t.Fatalf("add: %v", err)
			}
			back, err := applyBinaryOperator(ast.BinaryOperatorSubtract, left, runtime.IntegerValue{Val: b})
			if err != nil {
				t.Fatalf("sub: %v", err)
			}
			if !runtime.ValuesEqual(back, runtime.IntegerValue{Val: a}) {
				t.Fatalf("%d + %d - %d = %v", a, b, b, back)
			}
			rem, err := applyBinaryOperator(ast.BinaryOperatorModulo, runtime.IntegerValue{Val: a}, runtime.IntegerValue{Val: b})
			if err != nil {
				t.Fatalf("mod: %v", err)
			}
			if rem.(runtime.IntegerValue).Val != a%b {
				t.Fatalf("%d %% %d = %v, want %d", a, b, rem, a%b)
			}
		}
	}
}

func TestArithmeticOverflow(t *testing.T) {
	cases := []struct {
		op          ast.BinaryOperator
		left, right int64
	}{
		{ast.BinaryOperatorAdd, math.MaxInt64, 1},
		{ast.BinaryOperatorSubtract, math.MinInt64, 1},
		{ast.BinaryOperatorMultiply, math.MaxInt64, 2},
		{ast.BinaryOperatorDivide, math.MinInt64, -1},
	}
	for _, tc := range cases {
		_, err := evaluateArithmetic(tc.op, tc.left, tc.right)
		if !IsRuntimeErrorKind(err, ErrorOverflow) {
			t.Fatalf("%d %s %d: expected overflow, got %v", tc.left, tc.op, tc.right, err)
		}
	}
	if val, err := evaluateArithmetic(ast.BinaryOperatorModulo, math.MinInt64, -1); err != nil || val.(runtime.IntegerValue).Val != 0 {
		t.Fatalf("MinInt64 %% -1 = %v, %v", val, err)
	}
	if _, err := applyUnaryOperator(ast.UnaryOperatorNegate, runtime.IntegerValue{Val: math.MinInt64}); !IsRuntimeErrorKind(err, ErrorOverflow) {
		t.Fatalf("expected negation overflow, got %v", err)
	}
	if val, err := evaluateArithmetic(ast.BinaryOperatorDivide, -7, 2); err != nil || val.(runtime.IntegerValue).Val != -3 {
		t.Fatalf("-7 / 2 = %v, %v", val, err)
	}
}

func TestOperatorTypeStrictness(t *testing.T) {
	cases := []struct {
		source  string
		message string
	}{
		{"print(1 + true)", "operands of '+' must be integers, got integer and bool"},
		{"print(nil < 1)", "operands of '<' must be integers, got nil and integer"},
		{"print(false and 1)", "'and' operands must be booleans, got bool and integer"},
		{"print(1 or true)", "'or' operands must be booleans, got integer and bool"},
		{"print(not 0)", "'not' expects a boolean, got integer"},
		{"print(-true)", "unary '-' expects an integer, got bool"},
		{"if 1 then print(1) end", "if condition must be boolean, got integer"},
		{"while nil do end", "while condition must be boolean, got nil"},
	}
	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			_, err := runSource(t, tc.source)
			if !IsRuntimeErrorKind(err, ErrorTypeMismatch) {
				t.Fatalf("expected type mismatch, got %v", err)
			}
			if err.Error() != tc.message {
				t.Fatalf("message = %q, want %q", err.Error(), tc.message)
			}
		})
	}
}

func TestEqualityAcrossTypes(t *testing.T) {
	out, err := runSource(t, `
fn f() do end
print(1 == 1)
print(1 == true)
print(nil == nil)
print(nil != false)
print(f == f)
print(f() == nil)
`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "true\nfalse\ntrue\ntrue\ntrue\ntrue\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestScopingRules(t *testing.T) {
	out, err := runSource(t, `
let x = 1
if true then
  let x = 2
  print(x)
  if true then
    let x = 3
    print(x)
  end
  print(x)
end
print(x)
`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "2\n3\n2\n1\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = runSource(t, "let x = 1 let x = 2")
	if !IsRuntimeErrorKind(err, ErrorRedeclaration) || !errors.Is(err, runtime.ErrRedeclared) {
		t.Fatalf("expected global redeclaration, got %v", err)
	}
	_, err = runSource(t, "if true then let y = 1 let y = 2 end")
	if !IsRuntimeErrorKind(err, ErrorRedeclaration) {
		t.Fatalf("expected block redeclaration, got %v", err)
	}
	_, err = runSource(t, "if true then let z = 1 end print(z)")
	if !IsRuntimeErrorKind(err, ErrorUndefinedVariable) || err.Error() != "variable 'z' not defined" {
		t.Fatalf("block local should not outlive block, got %v", err)
	}
}

func TestImmutableAssignmentFailsAtAnyDepth(t *testing.T) {
	sources := []string{
		"let x = 1 x = 2",
		"let x = 1 if true then x = 2 end",
		"let x = 1 fn f() do x = 2 end f()",
		"fn f(a) do a = 2 end f(1)",
		"fn f() do end f = 3",
	}
	for _, source := range sources {
		_, err := runSource(t, source)
		if !IsRuntimeErrorKind(err, ErrorImmutableAssignment) {
			t.Fatalf("%q: expected immutable assignment error, got %v", source, err)
		}
	}
	_, err := runSource(t, "y = 1")
	if !IsRuntimeErrorKind(err, ErrorUndefinedVariable) || err.Error() != "variable 'y' not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestControlFlowOutsideContext(t *testing.T) {
	cases := []struct {
		source  string
		message string
	}{
		{"break", "'break' used outside of loop"},
		{"if true then continue end", "'continue' used outside of loop"},
		{"return 1", "'return' used outside of function"},
		{"if true then return end", "'return' used outside of function"},
		{"fn f() do break end loop do f() end", "'break' used outside of loop"},
	}
	for _, tc := range cases {
		_, err := runSource(t, tc.source)
		if !IsRuntimeErrorKind(err, ErrorInvalidControlFlow) || err.Error() != tc.message {
			t.Fatalf("%q: got %v, want %q", tc.source, err, tc.message)
		}
	}
}

func TestLoopsBreakContinueAndReturn(t *testing.T) {
	out, err := runSource(t, `
let mod i = 0
loop do
  i = i + 1
  if i % 2 == 0 then continue end
  if i > 7 then break end
  print(i)
end
fn firstOver(limit) do
  let mod n = 0
  while true do
    n = n + 1
    if n > limit then return n end
  end
end
print(firstOver(41))
`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "1\n3\n5\n7\n42\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestWhileFalseLeavesBindingsUnchanged(t *testing.T) {
	program := ast.Prog(
		ast.LetMod("x", ast.Int(10)),
		ast.While(ast.Bool(false), ast.Assign("x", ast.Int(0)), ast.Print(ast.ID("x"))),
	)
	interp, out, err := runProgram(t, program)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "" {
		t.Fatalf("body executed: %q", out)
	}
	val, _ := interp.Environment().Get("x")
	if !runtime.ValuesEqual(val, runtime.IntegerValue{Val: 10}) {
		t.Fatalf("x changed to %v", val)
	}
}

func TestCallSemantics(t *testing.T) {
	out, err := runSource(t, `
let g = 100
fn show(v) do print(v) end
fn fact(n) do
  if n <= 1 then return 1 end
  return n * fact(n - 1)
end
fn nothing() do return end
show(g)
print(fact(10))
print(nothing())
print(show)
`)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if out != "100\n3628800\nnil\n<fn show>\n" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = runSource(t, "let x = 1 if true then let y = 2 fn f() do print(y) end f() end")
	if !IsRuntimeErrorKind(err, ErrorUndefinedVariable) {
		t.Fatalf("callee must not see caller locals, got %v", err)
	}
}

func TestCallErrors(t *testing.T) {
	_, err := runSource(t, "let x = 1 x()")
	if !IsRuntimeErrorKind(err, ErrorNotCallable) || err.Error() != "'x' is not a function" {
		t.Fatalf("expected not callable, got %v", err)
	}
	_, err = runSource(t, "fn f(a, b) do end f(1)")
	if !IsRuntimeErrorKind(err, ErrorArityMismatch) || err.Error() != "function 'f' expected 2 arguments, got 1" {
		t.Fatalf("expected arity mismatch, got %v", err)
	}
	_, err = runSource(t, "fn f(a) do end f(1, 2)")
	if err == nil || err.Error() != "function 'f' expected 1 argument, got 2" {
		t.Fatalf("expected singular arity message, got %v", err)
	}
	// Arity is checked before any argument is evaluated.
	out, err := runSource(t, "fn f() do end fn p() do print(1) return 1 end f(p())")
	if !IsRuntimeErrorKind(err, ErrorArityMismatch) || out != "" {
		t.Fatalf("arguments evaluated before arity check: %q %v", out, err)
	}
	_, err = runSource(t, "fn f(a, a) do end f(1, 2)")
	if !IsRuntimeErrorKind(err, ErrorRedeclaration) {
		t.Fatalf("expected duplicate parameter error, got %v", err)
	}
	_, err = runSource(t, "fn f() do end fn f() do end")
	if !IsRuntimeErrorKind(err, ErrorRedeclaration) {
		t.Fatalf("expected function redeclaration error, got %v", err)
	}
}

func TestCallDepthLimit(t *testing.T) {
	program, err := parser.ParseSource("fn down(n) do return down(n + 1) end down(0)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	interp := NewWithOptions(Options{Stdout: &bytes.Buffer{}, MaxCallDepth: 50})
	err = interp.Interpret(program)
	if !IsRuntimeErrorKind(err, ErrorCallDepthExceeded) {
		t.Fatalf("expected call depth error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "maximum call depth exceeded") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if interp.Environment().CallDepth() != 0 {
		t.Fatalf("frames leaked: depth %d", interp.Environment().CallDepth())
	}
}

func TestStateRestoredAfterErrorInCall(t *testing.T) {
	program, err := parser.ParseSource("fn f() do loop do let a = 1 print(1 / 0) end end f()")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	interp, _, err := runProgram(t, program)
	if !IsRuntimeErrorKind(err, ErrorDivisionByZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if interp.loopDepth != 0 || interp.functionDepth != 0 || interp.Environment().CallDepth() != 0 {
		t.Fatalf("state not restored: loop=%d fn=%d frames=%d", interp.loopDepth, interp.functionDepth, interp.Environment().CallDepth())
	}
	if interp.Environment().CurrentFrame().Depth() != 0 {
		t.Fatalf("scopes leaked on root frame")
	}
}

func TestPrintWriteFailure(t *testing.T) {
	interp := NewWithOptions(Options{Stdout: failingWriter{}})
	err := interp.Interpret(ast.Prog(ast.Print(ast.Int(1))))
	if err == nil || !strings.HasPrefix(err.Error(), "print:") {
		t.Fatalf("expected print error, got %v", err)
	}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		t.Fatalf("write failures are host errors, not runtime errors")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestSignalKindString(t *testing.T) {
	for kind, want := range map[controlKind]string{
		controlNormal:   "normal",
		controlBreak:    "break",
		controlContinue: "continue",
		controlReturn:   "return",
	} {
		if kind.String() != want {
			t.Fatalf("%d.String() = %q", kind, kind.String())
		}
	}
}
