package parser

import (
	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/lexer"
)

// binaryLevel describes one left-associative precedence level.
type binaryLevel struct {
	operators map[lexer.Kind]ast.BinaryOperator
	next      func(*Parser) (ast.Expression, error)
}

var (
	orOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindOr: ast.BinaryOperatorOr,
	}
	andOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindAnd: ast.BinaryOperatorAnd,
	}
	equalityOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindEqualEqual: ast.BinaryOperatorEqual,
		lexer.KindBangEqual:  ast.BinaryOperatorNotEqual,
	}
	relationalOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindLess:         ast.BinaryOperatorLess,
		lexer.KindLessEqual:    ast.BinaryOperatorLessEqual,
		lexer.KindGreater:      ast.BinaryOperatorGreater,
		lexer.KindGreaterEqual: ast.BinaryOperatorGreaterEqual,
	}
	additiveOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindPlus:  ast.BinaryOperatorAdd,
		lexer.KindMinus: ast.BinaryOperatorSubtract,
	}
	multiplicativeOperators = map[lexer.Kind]ast.BinaryOperator{
		lexer.KindStar:    ast.BinaryOperatorMultiply,
		lexer.KindSlash:   ast.BinaryOperatorDivide,
		lexer.KindPercent: ast.BinaryOperatorModulo,
	}
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseLogicOr()
}

func (p *Parser) parseLogicOr() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: orOperators, next: (*Parser).parseLogicAnd})
}

func (p *Parser) parseLogicAnd() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: andOperators, next: (*Parser).parseEquality})
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: equalityOperators, next: (*Parser).parseRelational})
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: relationalOperators, next: (*Parser).parseAdditive})
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: additiveOperators, next: (*Parser).parseMultiplicative})
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinaryLevel(binaryLevel{operators: multiplicativeOperators, next: (*Parser).parseUnary})
}

// parseBinaryLevel parses `operand (op operand)*` and folds to the left.
func (p *Parser) parseBinaryLevel(level binaryLevel) (ast.Expression, error) {
	left, err := level.next(p)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := level.operators[p.current.Kind]
		if !ok {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := level.next(p)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpression(op, left, right)
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if err := p.nest("expression"); err != nil {
		return nil, err
	}
	defer p.unnest()
	var op ast.UnaryOperator
	switch p.current.Kind {
	case lexer.KindNot:
		op = ast.UnaryOperatorNot
	case lexer.KindMinus:
		op = ast.UnaryOperatorNegate
	default:
		return p.parsePrimary()
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnaryExpression(op, operand), nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.current
	switch tok.Kind {
	case lexer.KindNumber, lexer.KindTrue, lexer.KindFalse, lexer.KindNil:
		return p.parseLiteral()
	case lexer.KindIdentifier:
		id, err := p.expectIdentifier("identifier")
		if err != nil {
			return nil, err
		}
		if p.check(lexer.KindLParen) {
			return p.parseCallArguments(id)
		}
		return id, nil
	case lexer.KindLParen:
		if err := p.eat(lexer.KindLParen); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.eat(lexer.KindRParen); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, newParseError("unexpected %s in expression", tok)
	}
}

func (p *Parser) parseLiteral() (ast.Literal, error) {
	tok := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	switch tok.Kind {
	case lexer.KindNumber:
		return ast.NewIntegerLiteral(tok.Value), nil
	case lexer.KindTrue, lexer.KindFalse:
		return ast.NewBooleanLiteral(tok.Kind == lexer.KindTrue), nil
	default:
		return ast.NewNilLiteral(), nil
	}
}

// parseCallArguments parses `( [expr {, expr}] )` after a callee name.
func (p *Parser) parseCallArguments(callee *ast.Identifier) (*ast.FunctionCall, error) {
	if err := p.eat(lexer.KindLParen); err != nil {
		return nil, err
	}
	var args []ast.Expression
	if !p.check(lexer.KindRParen) {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
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
	return ast.NewFunctionCall(callee, args), nil
}
