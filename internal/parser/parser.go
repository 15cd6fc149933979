// Package parser implements a recursive-descent parser that turns a Thy
// token sequence into an AST.
//
// Errors are non-fatal: on a syntax error the parser records a diagnostic,
// discards the offending statement by advancing to the next statement
// boundary, and resumes, so a single run can report more than one error
// (spec.md §7).
package parser

import (
	"fmt"

	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/token"
)

const maxArgs = 255

// Error is a single syntax diagnostic.
type Error struct {
	Message string
	Pos     token.Position
	Token   token.Token
}

// parseError is thrown via panic/recover to unwind the recursive-descent
// call stack back to the nearest statement boundary, mirroring the
// exception-based control flow of the reference implementation's
// `ParseError`.
type parseError struct{}

// Parser consumes a token slice and builds an ast.Program.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []Error
}

// New creates a Parser over a token sequence (normally the output of
// lexer.ScanTokens).
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Errors returns the syntax diagnostics accumulated while parsing.
func (p *Parser) Errors() []Error { return p.errors }

// ParseProgram parses the full token stream into a Program, recovering
// from syntax errors at statement boundaries so parsing always completes.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	return prog
}

// declaration parses one top-level or block-level declaration/statement,
// recovering via synchronize() if a syntax error is raised underneath it.
func (p *Parser) declaration() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(r)
		}
	}()

	if p.match(token.VAR) {
		return p.varDeclaration(false)
	}
	if p.match(token.CONST) {
		return p.varDeclaration(true)
	}
	if p.match(token.FUNC) {
		return p.functionDeclaration()
	}
	if p.match(token.IMPORT) {
		return p.importDeclaration()
	}
	return p.statement()
}

func (p *Parser) varDeclaration(isConst bool) ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect variable name.")

	var initializer ast.Expression
	if p.match(token.EQUAL) {
		initializer = p.expression()
	}

	p.consume(token.SEMICOLON, "Expect ';' after variable declaration.")
	return &ast.Var{Name: name, Initializer: initializer, IsConst: isConst}
}

func (p *Parser) functionDeclaration() ast.Statement {
	name := p.consume(token.IDENTIFIER, "Expect function name.")
	p.consume(token.LEFT_PAREN, "Expect '(' after function name.")

	params := p.parseParamList()
	p.consume(token.RIGHT_PAREN, "Expect ')' after parameters.")
	p.consume(token.LEFT_BRACE, "Expect '{' before function body.")
	brace := p.previous()
	body := &ast.Block{Brace: brace, Statements: p.block()}

	return &ast.Function{Name: name, Params: params, Body: body}
}

// parseParamList parses a comma-separated identifier list, capped at
// maxArgs entries. The caller is responsible for the surrounding
// parentheses.
func (p *Parser) parseParamList() []token.Token {
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
		for p.match(token.COMMA) {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Cannot have more than 255 parameters.")
			}
			params = append(params, p.consume(token.IDENTIFIER, "Expect parameter name."))
		}
	}
	return params
}

func (p *Parser) importDeclaration() ast.Statement {
	importTok := p.previous()
	var moduleName string
	if p.match(token.STRING) {
		moduleName, _ = p.previous().Literal.(string)
	} else {
		name := p.consume(token.IDENTIFIER, "Expect module name.")
		moduleName = name.Lexeme
	}
	p.consume(token.SEMICOLON, "Expect ';' after import statement.")
	return &ast.Import{Token: importTok, ModuleName: moduleName}
}

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.CONTINUE):
		return p.continueStatement()
	case p.match(token.LEFT_BRACE):
		brace := p.previous()
		return &ast.Block{Brace: brace, Statements: p.block()}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) ifStatement() ast.Statement {
	ifTok := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'if'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after if condition.")
	then := p.statement()

	var elseIfs []ast.ElseIf
	for p.match(token.ELSEIF) {
		p.consume(token.LEFT_PAREN, "Expect '(' after 'elseif'.")
		cond := p.expression()
		p.consume(token.RIGHT_PAREN, "Expect ')' after elseif condition.")
		branch := p.statement()
		elseIfs = append(elseIfs, ast.ElseIf{Condition: cond, Then: branch})
	}

	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.If{Token: ifTok, Condition: condition, Then: then, ElseIfs: elseIfs, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Statement {
	whileTok := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'while'.")
	condition := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Token: whileTok, Condition: condition, Body: body}
}

func (p *Parser) forStatement() ast.Statement {
	forTok := p.previous()
	p.consume(token.LEFT_PAREN, "Expect '(' after 'for'.")

	var initializer ast.Statement
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration(false)
	case p.match(token.CONST):
		initializer = p.varDeclaration(true)
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expression
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after loop condition.")

	var increment ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
	}
	p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses.")

	body := p.statement()
	return &ast.For{Token: forTok, Initializer: initializer, Condition: condition, Increment: increment, Body: body}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()
	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "Expect ';' after return value.")
	return &ast.Return{Token: keyword, Value: value}
}

func (p *Parser) breakStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.SEMICOLON, "Expect ';' after 'break'.")
	return &ast.Break{Token: keyword}
}

func (p *Parser) continueStatement() ast.Statement {
	keyword := p.previous()
	p.consume(token.SEMICOLON, "Expect ';' after 'continue'.")
	return &ast.Continue{Token: keyword}
}

func (p *Parser) block() []ast.Statement {
	var statements []ast.Statement
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	p.consume(token.RIGHT_BRACE, "Expect '}' after block.")
	return statements
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	p.consume(token.SEMICOLON, "Expect ';' after expression.")
	return &ast.ExpressionStatement{Expr: expr}
}

// --- Expressions, lowest to highest precedence ---

func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	expr := p.or()

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Token, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		case *ast.Index:
			return &ast.SetIndex{Object: target.Object, Bracket: target.Bracket, Index: target.Index, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
		}
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expression {
	expr := p.comparison()
	for p.match(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expression {
	expr := p.term()
	for p.match(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expression {
	expr := p.factor()
	for p.match(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expression {
	expr := p.unary()
	for p.match(token.SLASH, token.STAR, token.MODULO) {
		operator := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENTIFIER, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		case p.match(token.LEFT_BRACKET):
			bracket := p.previous()
			index := p.expression()
			p.consume(token.RIGHT_BRACKET, "Expect ']' after array index.")
			expr = &ast.Index{Object: expr, Bracket: bracket, Index: index}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression
	if !p.check(token.RIGHT_PAREN) {
		args = append(args, p.expression())
		for p.match(token.COMMA) {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Cannot have more than 255 arguments.")
			}
			args = append(args, p.expression())
		}
	}
	paren := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expression {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Token: p.previous(), Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Token: p.previous(), Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Token: p.previous(), Value: nil}
	case p.match(token.NUMBER, token.STRING, token.MULTILINE_STRING):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case p.match(token.IDENTIFIER):
		tok := p.previous()
		return &ast.Variable{Token: tok, Name: tok.Lexeme}
	case p.match(token.LEFT_PAREN):
		return p.groupingOrLambda()
	case p.match(token.LEFT_BRACKET):
		return p.arrayLiteral()
	case p.match(token.LEFT_BRACE):
		return p.objectLiteral()
	}

	panic(p.errorAt(p.peek(), "Expect expression."))
}

// groupingOrLambda resolves the grammar's one non-LL(1) ambiguity: after
// '(' the parser doesn't yet know whether it is looking at a parenthesized
// expression or a lambda's parameter list. It speculatively parses a
// parameter list when the next token could start one (')' or an
// identifier); if that is followed by ')' '->' the speculative parse is
// committed as a Lambda, otherwise the token cursor is rewound and the
// same '(' is reparsed as a Grouping.
func (p *Parser) groupingOrLambda() ast.Expression {
	leftParen := p.previous()

	if p.check(token.RIGHT_PAREN) || p.check(token.IDENTIFIER) {
		savedPos := p.current
		params := p.parseParamList()

		if p.match(token.RIGHT_PAREN) && p.match(token.ARROW) {
			arrow := p.previous()
			var body ast.Statement
			if p.match(token.LEFT_BRACE) {
				brace := p.previous()
				body = &ast.Block{Brace: brace, Statements: p.block()}
			} else {
				expr := p.expression()
				body = &ast.Return{Value: expr}
			}
			return &ast.Lambda{Arrow: arrow, Params: params, Body: body}
		}

		p.current = savedPos
	}

	expr := p.expression()
	p.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
	return &ast.Grouping{Token: leftParen, Expression: expr}
}

func (p *Parser) arrayLiteral() ast.Expression {
	bracket := p.previous()
	var elements []ast.Expression
	if !p.check(token.RIGHT_BRACKET) {
		elements = append(elements, p.expression())
		for p.match(token.COMMA) {
			if len(elements) >= maxArgs {
				p.errorAt(p.peek(), "Cannot have more than 255 elements in an array.")
			}
			elements = append(elements, p.expression())
		}
	}
	p.consume(token.RIGHT_BRACKET, "Expect ']' after array elements.")
	return &ast.ArrayLiteral{Bracket: bracket, Elements: elements}
}

func (p *Parser) objectLiteral() ast.Expression {
	brace := p.previous()
	var props []ast.ObjectProperty

	if !p.check(token.RIGHT_BRACE) {
		props = append(props, p.objectProperty())
		for p.match(token.COMMA) {
			if len(props) >= maxArgs {
				p.errorAt(p.peek(), "Cannot have more than 255 properties in an object.")
			}
			props = append(props, p.objectProperty())
		}
	}

	p.consume(token.RIGHT_BRACE, "Expect '}' after object properties.")
	return &ast.ObjectLiteral{Brace: brace, Properties: props}
}

func (p *Parser) objectProperty() ast.ObjectProperty {
	if !p.check(token.IDENTIFIER) {
		panic(p.errorAt(p.peek(), "Expect property name."))
	}
	key := p.consume(token.IDENTIFIER, "Expect property name.")
	p.consume(token.COLON, "Expect ':' after property name.")
	value := p.expression()
	return ast.ObjectProperty{Key: key, Value: value}
}

// --- Token stream helpers ---

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) peek() token.Token { return p.tokens[p.current] }

func (p *Parser) previous() token.Token { return p.tokens[p.current-1] }

func (p *Parser) consume(t token.Type, message string) token.Token {
	if p.check(t) {
		return p.advance()
	}
	panic(p.errorAt(p.peek(), message))
}

// errorAt records a diagnostic and returns a parseError sentinel for the
// caller to panic with, unwinding back to declaration()'s recover.
func (p *Parser) errorAt(tok token.Token, message string) parseError {
	var where string
	if tok.Type == token.EOF {
		where = "end"
	} else {
		where = fmt.Sprintf("'%s'", tok.Lexeme)
	}
	p.errors = append(p.errors, Error{
		Message: fmt.Sprintf("Error at %s: %s", where, message),
		Pos:     tok.Pos,
		Token:   tok,
	})
	return parseError{}
}

// synchronize discards tokens until the next likely statement boundary,
// so a single syntax error doesn't abort parsing the whole program.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.FUNC, token.VAR, token.CONST, token.FOR, token.IF, token.WHILE, token.RETURN, token.IMPORT:
			return
		}
		p.advance()
	}
}
