package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

// LexError reports a character or literal the lexer cannot accept. Lex errors
// are fatal to the run.
type LexError struct {
	Message string
}

func (e *LexError) Error() string {
	return e.Message
}

// Lexer converts source text into tokens on demand.
type Lexer struct {
	input  []rune
	cursor int
}

// New creates a lexer positioned at the start of source.
func New(source string) *Lexer {
	return &Lexer{input: []rune(source)}
}

// NextToken scans and returns the next token, advancing past it. Once the
// input is exhausted every call returns a KindEOF token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.atEnd() {
		return Token{Kind: KindEOF}, nil
	}

	ch := l.input[l.cursor]
	if isDigit(ch) {
		return l.scanNumber()
	}
	if isIdentifierStart(ch) {
		return l.scanIdentifier(), nil
	}

	l.cursor++
	switch ch {
	case '+':
		return Token{Kind: KindPlus}, nil
	case '-':
		return Token{Kind: KindMinus}, nil
	case '*':
		return Token{Kind: KindStar}, nil
	case '/':
		if l.match('/') {
			l.skipLineComment()
			return l.NextToken()
		}
		if l.match('*') {
			l.skipBlockComment()
			return l.NextToken()
		}
		return Token{Kind: KindSlash}, nil
	case '%':
		return Token{Kind: KindPercent}, nil
	case '(':
		return Token{Kind: KindLParen}, nil
	case ')':
		return Token{Kind: KindRParen}, nil
	case ',':
		return Token{Kind: KindComma}, nil
	case '=':
		if l.match('=') {
			return Token{Kind: KindEqualEqual}, nil
		}
		return Token{Kind: KindAssign}, nil
	case '!':
		if l.match('=') {
			return Token{Kind: KindBangEqual}, nil
		}
		return Token{}, &LexError{Message: "unexpected character '!'"}
	case '<':
		if l.match('=') {
			return Token{Kind: KindLessEqual}, nil
		}
		return Token{Kind: KindLess}, nil
	case '>':
		if l.match('=') {
			return Token{Kind: KindGreaterEqual}, nil
		}
		return Token{Kind: KindGreater}, nil
	default:
		return Token{}, &LexError{Message: fmt.Sprintf("unexpected character %q", ch)}
	}
}

// Tokenize drains the lexer, returning every token up to and including EOF.
func Tokenize(source string) ([]Token, error) {
	l := New(source)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) atEnd() bool {
	return l.cursor >= len(l.input)
}

func (l *Lexer) match(expected rune) bool {
	if l.atEnd() || l.input[l.cursor] != expected {
		return false
	}
	l.cursor++
	return true
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.input[l.cursor]) {
		l.cursor++
	}
}

func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.input[l.cursor] != '\n' {
		l.cursor++
	}
}

// skipBlockComment consumes up to and including the first "*/". An
// unterminated comment silently runs to the end of input.
func (l *Lexer) skipBlockComment() {
	for !l.atEnd() {
		if l.input[l.cursor] == '*' {
			l.cursor++
			if l.match('/') {
				return
			}
			continue
		}
		l.cursor++
	}
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.cursor
	for !l.atEnd() && isDigit(l.input[l.cursor]) {
		l.cursor++
	}
	text := string(l.input[start:l.cursor])
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Token{}, &LexError{Message: fmt.Sprintf("integer literal out of range: %s", text)}
		}
		return Token{}, &LexError{Message: fmt.Sprintf("invalid integer literal %s: %v", text, err)}
	}
	return Token{Kind: KindNumber, Value: value}, nil
}

func (l *Lexer) scanIdentifier() Token {
	start := l.cursor
	for !l.atEnd() && isIdentifierPart(l.input[l.cursor]) {
		l.cursor++
	}
	text := string(l.input[start:l.cursor])
	kind := LookupIdentifier(text)
	if kind != KindIdentifier {
		return Token{Kind: kind}
	}
	return Token{Kind: KindIdentifier, Lexeme: text}
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentifierStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentifierPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
