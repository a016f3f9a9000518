package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

// Expression helpers.

func Bin(op BinaryOperator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Not(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNot, operand)
}

func Neg(operand Expression) *UnaryExpression {
	return NewUnaryExpression(UnaryOperatorNegate, operand)
}

func Call(callee string, args ...Expression) *FunctionCall {
	return NewFunctionCall(ID(callee), args)
}

// Statement helpers.

func Blk(body ...Statement) *Block {
	return NewBlock(body)
}

func Let(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), false, init)
}

func LetMod(name string, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(ID(name), true, init)
}

func Assign(name string, value Expression) *AssignmentStatement {
	return NewAssignmentStatement(ID(name), value)
}

func Print(arg Expression) *PrintStatement {
	return NewPrintStatement(arg)
}

func If(cond Expression, then *Block, elseBlock *Block) *IfStatement {
	return NewIfStatement(cond, then, elseBlock)
}

func While(cond Expression, body ...Statement) *WhileLoop {
	return NewWhileLoop(cond, NewBlock(body))
}

func Loop(body ...Statement) *LoopStatement {
	return NewLoopStatement(NewBlock(body))
}

func Brk() *BreakStatement {
	return NewBreakStatement()
}

func Cont() *ContinueStatement {
	return NewContinueStatement()
}

func Ret(arg Expression) *ReturnStatement {
	return NewReturnStatement(arg)
}

func Fn(name string, params []string, body ...Statement) *FunctionDefinition {
	var ids []*Identifier
	for _, param := range params {
		ids = append(ids, ID(param))
	}
	return NewFunctionDefinition(ID(name), ids, NewBlock(body))
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}
