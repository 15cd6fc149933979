// Package ast defines the abstract syntax tree produced by the Thy parser
// and walked by the evaluator.
//
// AST nodes are immutable once built. A declaration's body may be executed
// many times under distinct environments (function calls, loop bodies,
// re-imported modules), so nodes must be safely shareable between
// invocations: they carry no per-invocation state.
package ast

import (
	"strings"

	"github.com/AlmostGalactic/Thyddle/internal/token"
)

// Node is the common interface implemented by every expression and
// statement node.
type Node interface {
	// TokenLiteral returns the lexeme of the token most closely associated
	// with this node, used for error messages that need a representative
	// token.
	TokenLiteral() string
	// String renders the node back to Thy source syntax. Formatting a
	// parsed program and re-parsing the result must produce a structurally
	// identical AST (spec.md §8's round-trip property).
	String() string
}

// Expression is implemented by every expression node.
type Expression interface {
	Node
	expressionNode()
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of a parsed Thy source file or REPL line: a flat
// sequence of top-level declarations and statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Statements {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// token.Position is re-exported via the alias below for convenience in
// callers that only import ast.
type Position = token.Position
