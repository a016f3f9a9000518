package lexer

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical category of a token.
type Kind uint8

const (
	KindEOF Kind = iota

	KindIdentifier
	KindNumber

	// Keywords
	KindLet
	KindMod
	KindPrint
	KindIf
	KindThen
	KindElse
	KindElseIf
	KindEnd
	KindWhile
	KindDo
	KindLoop
	KindBreak
	KindContinue
	KindFn
	KindReturn
	KindNil
	KindTrue
	KindFalse
	KindAnd
	KindOr
	KindNot

	// Operators and punctuation
	KindPlus         // +
	KindMinus        // -
	KindStar         // *
	KindSlash        // /
	KindPercent      // %
	KindAssign       // =
	KindEqualEqual   // ==
	KindBangEqual    // !=
	KindLess         // <
	KindGreater      // >
	KindLessEqual    // <=
	KindGreaterEqual // >=
	KindLParen       // (
	KindRParen       // )
	KindComma        // ,
)

var kindNames = map[Kind]string{
	KindEOF:          "end of input",
	KindIdentifier:   "identifier",
	KindNumber:       "number",
	KindPlus:         "'+'",
	KindMinus:        "'-'",
	KindStar:         "'*'",
	KindSlash:        "'/'",
	KindPercent:      "'%'",
	KindAssign:       "'='",
	KindEqualEqual:   "'=='",
	KindBangEqual:    "'!='",
	KindLess:         "'<'",
	KindGreater:      "'>'",
	KindLessEqual:    "'<='",
	KindGreaterEqual: "'>='",
	KindLParen:       "'('",
	KindRParen:       "')'",
	KindComma:        "','",
}

// keywords maps reserved words to their token kinds.
var keywords = map[string]Kind{
	"let":      KindLet,
	"mod":      KindMod,
	"print":    KindPrint,
	"if":       KindIf,
	"then":     KindThen,
	"else":     KindElse,
	"elseif":   KindElseIf,
	"end":      KindEnd,
	"while":    KindWhile,
	"do":       KindDo,
	"loop":     KindLoop,
	"break":    KindBreak,
	"continue": KindContinue,
	"fn":       KindFn,
	"return":   KindReturn,
	"nil":      KindNil,
	"true":     KindTrue,
	"false":    KindFalse,
	"and":      KindAnd,
	"or":       KindOr,
	"not":      KindNot,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	for word, kind := range keywords {
		if kind == k {
			return "'" + word + "'"
		}
	}
	return fmt.Sprintf("unknown_kind_%d", int(k))
}

// LookupIdentifier returns the keyword kind for word, or KindIdentifier.
func LookupIdentifier(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}
	return KindIdentifier
}

// Token is one lexical unit. Lexeme is set for identifiers and Value for
// numbers; tokens carry no source position.
type Token struct {
	Kind   Kind
	Lexeme string
	Value  int64
}

func (t Token) String() string {
	switch t.Kind {
	case KindIdentifier:
		return fmt.Sprintf("identifier %q", t.Lexeme)
	case KindNumber:
		return "number " + strconv.FormatInt(t.Value, 10)
	default:
		return t.Kind.String()
	}
}

// Is reports whether the token has the given kind, ignoring its payload.
func (t Token) Is(kind Kind) bool {
	return t.Kind == kind
}
