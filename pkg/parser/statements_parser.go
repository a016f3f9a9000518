package parser

import (
	"golang.org/x/exp/slices"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/lexer"
)

// blockTerminators end the body of if/elseif/while/loop/fn.
var blockTerminators = []lexer.Kind{
	lexer.KindEnd,
	lexer.KindElse,
	lexer.KindElseIf,
	lexer.KindEOF,
}

// statementStarters are keywords that can only begin a new statement.
var statementStarters = []lexer.Kind{
	lexer.KindLet,
	lexer.KindPrint,
	lexer.KindIf,
	lexer.KindWhile,
	lexer.KindLoop,
	lexer.KindBreak,
	lexer.KindContinue,
	lexer.KindFn,
	lexer.KindReturn,
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.current.Kind {
	case lexer.KindLet:
		return p.parseLet()
	case lexer.KindPrint:
		return p.parsePrint()
	case lexer.KindIf:
		return p.parseIf()
	case lexer.KindWhile:
		return p.parseWhile()
	case lexer.KindLoop:
		return p.parseLoop()
	case lexer.KindBreak:
		if err := p.eat(lexer.KindBreak); err != nil {
			return nil, err
		}
		return ast.NewBreakStatement(), nil
	case lexer.KindContinue:
		if err := p.eat(lexer.KindContinue); err != nil {
			return nil, err
		}
		return ast.NewContinueStatement(), nil
	case lexer.KindReturn:
		return p.parseReturn()
	case lexer.KindFn:
		return p.parseFunctionDefinition()
	case lexer.KindIdentifier:
		return p.parseIdentifierStatement()
	default:
		return nil, newParseError("unexpected %s at start of statement", p.current)
	}
}

func (p *Parser) atBlockEnd() bool {
	return slices.Contains(blockTerminators, p.current.Kind)
}

// parseBlock collects statements until a block terminator; the terminator is
// left for the caller.
func (p *Parser) parseBlock() (*ast.Block, error) {
	if err := p.nest("block"); err != nil {
		return nil, err
	}
	defer p.unnest()
	var body []ast.Statement
	for !p.atBlockEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.NewBlock(body), nil
}

// parseElseBody collects an else body, which only ends at 'end' or EOF, then
// consumes the 'end'.
func (p *Parser) parseElseBody() (*ast.Block, error) {
	if err := p.nest("block"); err != nil {
		return nil, err
	}
	defer p.unnest()
	var body []ast.Statement
	for !p.check(lexer.KindEnd) && !p.check(lexer.KindEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	if err := p.eat(lexer.KindEnd); err != nil {
		return nil, err
	}
	return ast.NewBlock(body), nil
}

func (p *Parser) parseLet() (ast.Statement, error) {
	if err := p.eat(lexer.KindLet); err != nil {
		return nil, err
	}
	mutable := false
	if p.check(lexer.KindMod) {
		if err := p.eat(lexer.KindMod); err != nil {
			return nil, err
		}
		mutable = true
	}
	id, err := p.expectIdentifier("identifier after let")
	if err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindAssign); err != nil {
		return nil, err
	}
	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewVariableDeclaration(id, mutable, init), nil
}

func (p *Parser) parsePrint() (ast.Statement, error) {
	if err := p.eat(lexer.KindPrint); err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindLParen); err != nil {
		return nil, err
	}
	arg, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindRParen); err != nil {
		return nil, err
	}
	return ast.NewPrintStatement(arg), nil
}

// parseIdentifierStatement handles `name = expr` and `name(args)`.
func (p *Parser) parseIdentifierStatement() (ast.Statement, error) {
	id, err := p.expectIdentifier("identifier")
	if err != nil {
		return nil, err
	}
	switch p.current.Kind {
	case lexer.KindAssign:
		if err := p.eat(lexer.KindAssign); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.NewAssignmentStatement(id, value), nil
	case lexer.KindLParen:
		call, err := p.parseCallArguments(id)
		if err != nil {
			return nil, err
		}
		return ast.NewExpressionStatement(call), nil
	default:
		return nil, newParseError("unexpected %s after identifier %q in statement", p.current, id.Name)
	}
}

// parseIf parses an if statement; every elseif becomes a nested IfStatement
// in the else slot of its predecessor. The whole chain shares one 'end'.
func (p *Parser) parseIf() (ast.Statement, error) {
	if err := p.eat(lexer.KindIf); err != nil {
		return nil, err
	}
	return p.parseConditionalTail()
}

func (p *Parser) parseConditionalTail() (*ast.IfStatement, error) {
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindThen); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock *ast.Block
	switch p.current.Kind {
	case lexer.KindElseIf:
		if err := p.eat(lexer.KindElseIf); err != nil {
			return nil, err
		}
		nested, err := p.parseConditionalTail()
		if err != nil {
			return nil, err
		}
		elseBlock = ast.NewBlock([]ast.Statement{nested})
	case lexer.KindElse:
		if err := p.eat(lexer.KindElse); err != nil {
			return nil, err
		}
		elseBlock, err = p.parseElseBody()
		if err != nil {
			return nil, err
		}
	default:
		if err := p.eat(lexer.KindEnd); err != nil {
			return nil, err
		}
	}
	return ast.NewIfStatement(condition, then, elseBlock), nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	if err := p.eat(lexer.KindWhile); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseDoBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileLoop(condition, body), nil
}

func (p *Parser) parseLoop() (ast.Statement, error) {
	if err := p.eat(lexer.KindLoop); err != nil {
		return nil, err
	}
	body, err := p.parseDoBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewLoopStatement(body), nil
}

// parseDoBlock parses `do <stmts> end`.
func (p *Parser) parseDoBlock() (*ast.Block, error) {
	if err := p.eat(lexer.KindDo); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindEnd); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseFunctionDefinition() (ast.Statement, error) {
	if err := p.eat(lexer.KindFn); err != nil {
		return nil, err
	}
	id, err := p.expectIdentifier("function name")
	if err != nil {
		return nil, err
	}
	if err := p.eat(lexer.KindLParen); err != nil {
		return nil, err
	}
	var params []*ast.Identifier
	if !p.check(lexer.KindRParen) {
		for {
			param, err := p.expectIdentifier("parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.check(lexer.KindComma) {
				break
			}
			if err := p.eat(lexer.KindComma); err != nil {
				return nil, err
			}
		}
	}
	if err := p.eat(lexer.KindRParen); err != nil {
		return nil, err
	}
	body, err := p.parseDoBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(id, params, body), nil
}

// parseReturn parses `return [expr]`. The value is omitted when the next token
// closes a block or begins another statement.
func (p *Parser) parseReturn() (ast.Statement, error) {
	if err := p.eat(lexer.KindReturn); err != nil {
		return nil, err
	}
	if p.atBlockEnd() || slices.Contains(statementStarters, p.current.Kind) {
		return ast.NewReturnStatement(nil), nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewReturnStatement(value), nil
}
