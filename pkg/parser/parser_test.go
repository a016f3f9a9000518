package parser_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/lexer"
	"github.com/FANNYMU/blood-language/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("ParseSource(%q) returned error: %v", source, err)
	}
	return program
}

func assertProgram(t *testing.T, got, want *ast.Program) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		return
	}
	gotJSON, _ := json.MarshalIndent(got, "", "  ")
	wantJSON, _ := json.MarshalIndent(want, "", "  ")
	t.Fatalf("program mismatch\n got: %s\nwant: %s", gotJSON, wantJSON)
}

func TestParseStatements(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   *ast.Program
	}{
		{
			name:   "immutable let",
			source: "let x = 5",
			want:   ast.Prog(ast.Let("x", ast.Int(5))),
		},
		{
			name:   "mutable let and assignment",
			source: "let mod x = 0 x = x + 1",
			want: ast.Prog(
				ast.LetMod("x", ast.Int(0)),
				ast.Assign("x", ast.Bin(ast.BinaryOperatorAdd, ast.ID("x"), ast.Int(1))),
			),
		},
		{
			name:   "print call statement",
			source: "print(nil) f() g(1, true)",
			want: ast.Prog(
				ast.Print(ast.Nil()),
				ast.Expr(ast.Call("f")),
				ast.Expr(ast.Call("g", ast.Int(1), ast.Bool(true))),
			),
		},
		{
			name:   "while loop",
			source: "while x < 3 do print(x) end",
			want: ast.Prog(
				ast.While(ast.Bin(ast.BinaryOperatorLess, ast.ID("x"), ast.Int(3)), ast.Print(ast.ID("x"))),
			),
		},
		{
			name:   "loop with break and continue",
			source: "loop do continue break end",
			want:   ast.Prog(ast.Loop(ast.Cont(), ast.Brk())),
		},
		{
			name:   "function definition",
			source: "fn add(a, b) do return a + b end",
			want: ast.Prog(
				ast.Fn("add", []string{"a", "b"}, ast.Ret(ast.Bin(ast.BinaryOperatorAdd, ast.ID("a"), ast.ID("b")))),
			),
		},
		{
			name:   "function without params",
			source: "fn noop() do end",
			want:   ast.Prog(ast.Fn("noop", nil)),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertProgram(t, mustParse(t, tc.source), tc.want)
		})
	}
}

func TestParsePrecedenceAndAssociativity(t *testing.T) {
	cases := []struct {
		source string
		want   ast.Expression
	}{
		{
			source: "1 + 2 * 3",
			want:   ast.Bin(ast.BinaryOperatorAdd, ast.Int(1), ast.Bin(ast.BinaryOperatorMultiply, ast.Int(2), ast.Int(3))),
		},
		{
			source: "10 - 4 - 3",
			want:   ast.Bin(ast.BinaryOperatorSubtract, ast.Bin(ast.BinaryOperatorSubtract, ast.Int(10), ast.Int(4)), ast.Int(3)),
		},
		{
			source: "(1 + 2) * 3",
			want:   ast.Bin(ast.BinaryOperatorMultiply, ast.Bin(ast.BinaryOperatorAdd, ast.Int(1), ast.Int(2)), ast.Int(3)),
		},
		{
			source: "a or b and c",
			want:   ast.Bin(ast.BinaryOperatorOr, ast.ID("a"), ast.Bin(ast.BinaryOperatorAnd, ast.ID("b"), ast.ID("c"))),
		},
		{
			source: "1 < 2 == true",
			want:   ast.Bin(ast.BinaryOperatorEqual, ast.Bin(ast.BinaryOperatorLess, ast.Int(1), ast.Int(2)), ast.Bool(true)),
		},
		{
			source: "not not x == y",
			want:   ast.Bin(ast.BinaryOperatorEqual, ast.Not(ast.Not(ast.ID("x"))), ast.ID("y")),
		},
		{
			source: "7 % 3 / 2",
			want:   ast.Bin(ast.BinaryOperatorDivide, ast.Bin(ast.BinaryOperatorModulo, ast.Int(7), ast.Int(3)), ast.Int(2)),
		},
		{
			source: "-x * 2",
			want:   ast.Bin(ast.BinaryOperatorMultiply, ast.Neg(ast.ID("x")), ast.Int(2)),
		},
		{
			source: "f(g(1), 2 >= 1)",
			want:   ast.Call("f", ast.Call("g", ast.Int(1)), ast.Bin(ast.BinaryOperatorGreaterEqual, ast.Int(2), ast.Int(1))),
		},
	}
	for _, tc := range cases {
		program := mustParse(t, "print("+tc.source+")")
		assertProgram(t, program, ast.Prog(ast.Print(tc.want)))
	}
}

func TestParseElseIfChainDesugarsToNestedIf(t *testing.T) {
	program := mustParse(t, `
if a then
  print(1)
elseif b then
  print(2)
elseif c then
  print(3)
else
  print(4)
end
print(5)
`)
	want := ast.Prog(
		ast.If(ast.ID("a"), ast.Blk(ast.Print(ast.Int(1))), ast.Blk(
			ast.If(ast.ID("b"), ast.Blk(ast.Print(ast.Int(2))), ast.Blk(
				ast.If(ast.ID("c"), ast.Blk(ast.Print(ast.Int(3))), ast.Blk(ast.Print(ast.Int(4)))),
			)),
		)),
		ast.Print(ast.Int(5)),
	)
	assertProgram(t, program, want)
}

func TestParseIfWithoutElse(t *testing.T) {
	program := mustParse(t, "if true then end")
	assertProgram(t, program, ast.Prog(ast.If(ast.Bool(true), ast.Blk(), nil)))
}

func TestParseReturnValueOmission(t *testing.T) {
	cases := []struct {
		source string
		want   *ast.ReturnStatement
	}{
		{"fn f() do return end", ast.Ret(nil)},
		{"fn f() do return print(1) end", ast.Ret(nil)},
		{"fn f() do return let x = 1 end", ast.Ret(nil)},
		{"fn f() do return nil end", ast.Ret(ast.Nil())},
		{"fn f() do return x end", ast.Ret(ast.ID("x"))},
		{"fn f() do return -1 end", ast.Ret(ast.Neg(ast.Int(1)))},
	}
	for _, tc := range cases {
		program := mustParse(t, tc.source)
		fn, ok := program.Body[0].(*ast.FunctionDefinition)
		if !ok {
			t.Fatalf("%q: expected FunctionDefinition, got %T", tc.source, program.Body[0])
		}
		if len(fn.Body.Body) == 0 {
			t.Fatalf("%q: empty function body", tc.source)
		}
		if !reflect.DeepEqual(fn.Body.Body[0], tc.want) {
			t.Fatalf("%q: got %#v, want %#v", tc.source, fn.Body.Body[0], tc.want)
		}
	}
}

func TestParseReturnAtEndOfInput(t *testing.T) {
	program := mustParse(t, "return")
	assertProgram(t, program, ast.Prog(ast.Ret(nil)))
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		source  string
		message string
	}{
		{"let = 5", "expected identifier after let"},
		{"let x 5", "expected '='"},
		{"x + 1", "after identifier"},
		{"print 1", "expected '('"},
		{"while true print(1) end", "expected 'do'"},
		{"if true then print(1)", "expected 'end'"},
		{"fn f(a,) do end", "expected parameter name"},
		{"print(f(1,))", "unexpected ')' in expression"},
		{"end", "at start of statement"},
		{"print((1)", "expected ')'"},
	}
	for _, tc := range cases {
		_, err := parser.ParseSource(tc.source)
		if err == nil {
			t.Fatalf("ParseSource(%q): expected error", tc.source)
		}
		var parseErr *parser.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("ParseSource(%q): expected *ParseError, got %T (%v)", tc.source, err, err)
		}
		if !strings.Contains(parseErr.Message, tc.message) {
			t.Fatalf("ParseSource(%q): message %q does not contain %q", tc.source, parseErr.Message, tc.message)
		}
	}
}

func TestParseSurfacesLexErrors(t *testing.T) {
	_, err := parser.ParseSource("let x = 1 ! 2")
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.LexError, got %T (%v)", err, err)
	}
}

func TestProgramJSONIncludesNodeTypes(t *testing.T) {
	program := mustParse(t, "let x = 1")
	data, err := json.Marshal(program)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	for _, fragment := range []string{`"type":"Program"`, `"type":"VariableDeclaration"`, `"type":"IntegerLiteral"`} {
		if !strings.Contains(string(data), fragment) {
			t.Fatalf("expected %s in %s", fragment, data)
		}
	}
}

func TestParseNestingLimit(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"parentheses", "print(" + strings.Repeat("(", 100000) + "1" + strings.Repeat(")", 100000) + ")"},
		{"negation", "print(" + strings.Repeat("-", 100000) + "1)"},
		{"blocks", strings.Repeat("if true then ", 5000) + strings.Repeat("end ", 5000)},
		{"loops", strings.Repeat("loop do ", 5000) + strings.Repeat("end ", 5000)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.ParseSource(tc.source)
			var parseErr *parser.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %T (%v)", err, err)
			}
			if !strings.Contains(parseErr.Message, "nested too deeply") {
				t.Fatalf("unexpected message %q", parseErr.Message)
			}
		})
	}

	// Nesting below the limit still parses.
	mustParse(t, "print("+strings.Repeat("(", 200)+"1"+strings.Repeat(")", 200)+")")
	mustParse(t, strings.Repeat("while false do ", 200)+strings.Repeat("end ", 200))
	mustParse(t, "print("+strings.Repeat("1 + ", 5000)+"1)")
}

func TestParseLiteralsProduceLiteralNodes(t *testing.T) {
	program := mustParse(t, "print(7) print(false) print(nil)")
	for i, stmt := range program.Body {
		printStmt, ok := stmt.(*ast.PrintStatement)
		if !ok {
			t.Fatalf("statement %d: expected *ast.PrintStatement, got %T", i, stmt)
		}
		if _, ok := printStmt.Argument.(ast.Literal); !ok {
			t.Fatalf("statement %d: expected literal, got %T", i, printStmt.Argument)
		}
	}
}
