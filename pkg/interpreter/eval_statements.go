package interpreter

import (
	"fmt"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/runtime"
)

func (i *Interpreter) executeStatement(node ast.Statement) (signal, error) {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		return i.executeVariableDeclaration(n)
	case *ast.AssignmentStatement:
		return i.executeAssignment(n)
	case *ast.PrintStatement:
		return i.executePrint(n)
	case *ast.ExpressionStatement:
		if _, err := i.evaluateExpression(n.Expression); err != nil {
			return normalSignal, err
		}
		return normalSignal, nil
	case *ast.IfStatement:
		return i.executeIf(n)
	case *ast.WhileLoop:
		return i.executeWhileLoop(n)
	case *ast.LoopStatement:
		return i.executeLoop(n)
	case *ast.BreakStatement:
		if i.loopDepth == 0 {
			return normalSignal, newControlFlowError("break", "loop")
		}
		return breakSignal, nil
	case *ast.ContinueStatement:
		if i.loopDepth == 0 {
			return normalSignal, newControlFlowError("continue", "loop")
		}
		return continueSignal, nil
	case *ast.ReturnStatement:
		return i.executeReturn(n)
	case *ast.FunctionDefinition:
		return i.executeFunctionDefinition(n)
	case nil:
		return normalSignal, fmt.Errorf("nil statement")
	default:
		return normalSignal, fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

// executeStatements runs stmts in order, stopping at the first error or
// non-normal signal.
func (i *Interpreter) executeStatements(stmts []ast.Statement) (signal, error) {
	for _, stmt := range stmts {
		sig, err := i.executeStatement(stmt)
		if err != nil {
			return normalSignal, err
		}
		if sig.kind != controlNormal {
			return sig, nil
		}
	}
	return normalSignal, nil
}

// executeBlock runs a block inside a fresh scope that is released on every
// exit path.
func (i *Interpreter) executeBlock(block *ast.Block) (signal, error) {
	if block == nil {
		return normalSignal, nil
	}
	i.env.PushScope()
	defer i.env.PopScope()
	return i.executeStatements(block.Body)
}

func (i *Interpreter) executeVariableDeclaration(decl *ast.VariableDeclaration) (signal, error) {
	val, err := i.evaluateExpression(decl.Initializer)
	if err != nil {
		return normalSignal, err
	}
	if err := i.env.Define(decl.ID.Name, val, decl.Mutable); err != nil {
		return normalSignal, wrapBindingError(err)
	}
	return normalSignal, nil
}

func (i *Interpreter) executeAssignment(assign *ast.AssignmentStatement) (signal, error) {
	val, err := i.evaluateExpression(assign.Value)
	if err != nil {
		return normalSignal, err
	}
	if err := i.env.Assign(assign.Target.Name, val); err != nil {
		return normalSignal, wrapBindingError(err)
	}
	return normalSignal, nil
}

func (i *Interpreter) executePrint(stmt *ast.PrintStatement) (signal, error) {
	val, err := i.evaluateExpression(stmt.Argument)
	if err != nil {
		return normalSignal, err
	}
	if _, err := fmt.Fprintln(i.stdout, val.String()); err != nil {
		return normalSignal, fmt.Errorf("print: %w", err)
	}
	return normalSignal, nil
}

func (i *Interpreter) executeIf(stmt *ast.IfStatement) (signal, error) {
	cond, err := i.evaluateCondition(stmt.Condition, "if")
	if err != nil {
		return normalSignal, err
	}
	if cond {
		return i.executeBlock(stmt.Then)
	}
	return i.executeBlock(stmt.Else)
}

func (i *Interpreter) executeWhileLoop(loop *ast.WhileLoop) (signal, error) {
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for {
		cond, err := i.evaluateCondition(loop.Condition, "while")
		if err != nil {
			return normalSignal, err
		}
		if !cond {
			return normalSignal, nil
		}
		sig, err := i.executeBlock(loop.Body)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case controlBreak:
			return normalSignal, nil
		case controlReturn:
			return sig, nil
		}
	}
}

// executeLoop runs an unconditional loop; only break or return end it.
func (i *Interpreter) executeLoop(loop *ast.LoopStatement) (signal, error) {
	i.loopDepth++
	defer func() { i.loopDepth-- }()
	for {
		sig, err := i.executeBlock(loop.Body)
		if err != nil {
			return normalSignal, err
		}
		switch sig.kind {
		case controlBreak:
			return normalSignal, nil
		case controlReturn:
			return sig, nil
		}
	}
}

func (i *Interpreter) executeReturn(stmt *ast.ReturnStatement) (signal, error) {
	if i.functionDepth == 0 {
		return normalSignal, newControlFlowError("return", "function")
	}
	var result runtime.Value = runtime.NilValue{}
	if stmt.Argument != nil {
		val, err := i.evaluateExpression(stmt.Argument)
		if err != nil {
			return normalSignal, err
		}
		result = val
	}
	return returnSignal(result), nil
}

// executeFunctionDefinition binds the function as an immutable global.
func (i *Interpreter) executeFunctionDefinition(def *ast.FunctionDefinition) (signal, error) {
	fn := &runtime.FunctionValue{Declaration: def}
	if err := i.env.DefineGlobal(def.ID.Name, fn, false); err != nil {
		return normalSignal, wrapBindingError(err)
	}
	return normalSignal, nil
}

func (i *Interpreter) evaluateCondition(expr ast.Expression, construct string) (bool, error) {
	val, err := i.evaluateExpression(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(runtime.BoolValue)
	if !ok {
		return false, newRuntimeError(ErrorTypeMismatch, "%s condition must be boolean, got %s", construct, val.Kind())
	}
	return b.Val, nil
}
