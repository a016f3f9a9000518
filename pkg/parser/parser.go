package parser

import (
	"fmt"

	"github.com/FANNYMU/blood-language/pkg/ast"
	"github.com/FANNYMU/blood-language/pkg/lexer"
)

// ParseError reports source that does not match the grammar. Parse errors are
// fatal; the parser performs no recovery.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

func newParseError(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// MaxNestingDepth bounds how deeply blocks and expressions may nest.
const MaxNestingDepth = 1000

// Parser is a recursive-descent parser with a single token of lookahead.
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	depth   int
}

// New primes a parser with the first token of lx.
func New(lx *lexer.Lexer) (*Parser, error) {
	p := &Parser{lexer: lx}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// ParseSource lexes and parses a complete program.
func ParseSource(source string) (*ast.Program, error) {
	p, err := New(lexer.New(source))
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// ParseProgram consumes the whole token stream.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	var body []ast.Statement
	for !p.check(lexer.KindEOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return ast.NewProgram(body), nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

func (p *Parser) check(kind lexer.Kind) bool {
	return p.current.Is(kind)
}

// eat verifies the current token's kind and advances past it. Only the kind is
// compared, so any identifier satisfies KindIdentifier.
func (p *Parser) eat(kind lexer.Kind) error {
	if !p.check(kind) {
		return newParseError("expected %s, but found %s", kind, p.current)
	}
	return p.advance()
}

// expectIdentifier consumes an identifier token and returns its name.
func (p *Parser) expectIdentifier(context string) (*ast.Identifier, error) {
	if !p.check(lexer.KindIdentifier) {
		return nil, newParseError("expected %s, but found %s", context, p.current)
	}
	name := p.current.Lexeme
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewIdentifier(name), nil
}

// nest enters one level of block or expression nesting. Callers pair it with
// a deferred unnest.
func (p *Parser) nest(construct string) error {
	p.depth++
	if p.depth > MaxNestingDepth {
		return newParseError("%s nested too deeply (limit %d)", construct, MaxNestingDepth)
	}
	return nil
}

func (p *Parser) unnest() {
	p.depth--
}
