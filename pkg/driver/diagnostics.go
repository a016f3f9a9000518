package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/FANNYMU/blood-language/pkg/interpreter"
	"github.com/FANNYMU/blood-language/pkg/lexer"
	"github.com/FANNYMU/blood-language/pkg/parser"
)

// ErrorClass groups failures for CLI reporting.
type ErrorClass string

const (
	ClassLex     ErrorClass = "lex error"
	ClassParse   ErrorClass = "parse error"
	ClassRuntime ErrorClass = "runtime error"
	ClassLoad    ErrorClass = "error"
)

// ClassifyError reports which stage produced err.
func ClassifyError(err error) ErrorClass {
	var lexErr *lexer.LexError
	var parseErr *parser.ParseError
	var runtimeErr *interpreter.RuntimeError
	switch {
	case errors.As(err, &lexErr):
		return ClassLex
	case errors.As(err, &parseErr):
		return ClassParse
	case errors.As(err, &runtimeErr):
		return ClassRuntime
	default:
		return ClassLoad
	}
}

// DescribeError formats err for CLI output, for example
// "main.bd: parse error: expected 'end', but found end of input".
func DescribeError(err error) string {
	if err == nil {
		return ""
	}
	class := ClassifyError(err)
	message := err.Error()
	location := ""
	var srcErr *SourceError
	if errors.As(err, &srcErr) {
		location = strings.TrimSpace(srcErr.Path)
		message = srcErr.Err.Error()
	}
	if location != "" {
		return fmt.Sprintf("%s: %s: %s", location, class, message)
	}
	return fmt.Sprintf("%s: %s", class, message)
}
