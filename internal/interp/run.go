package interp

import (
	"github.com/AlmostGalactic/Thyddle/internal/lexer"
	"github.com/AlmostGalactic/Thyddle/internal/parser"
	"github.com/AlmostGalactic/Thyddle/internal/token"
)

// scan runs the lexer to completion and returns its token stream and
// diagnostics.
func scan(source string) ([]token.Token, []lexer.Error) {
	l := lexer.New(source)
	toks := l.ScanTokens()
	return toks, l.Errors()
}

// lexErrsToParserErrors adapts lexer diagnostics to parser.Error so a
// caller can report both kinds of syntax error through one slice.
func lexErrsToParserErrors(errs []lexer.Error) []parser.Error {
	out := make([]parser.Error, len(errs))
	for i, e := range errs {
		out[i] = parser.Error{Message: e.Message, Pos: e.Pos}
	}
	return out
}
