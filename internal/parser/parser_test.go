package parser

import (
	"testing"

	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/lexer"
)

func parseSource(t *testing.T, source string) (*ast.Program, *Parser) {
	t.Helper()
	toks := lexer.New(source).ScanTokens()
	p := New(toks)
	prog := p.ParseProgram()
	return prog, p
}

func TestVarDeclaration(t *testing.T) {
	prog, p := parseSource(t, `var x = 1 + 2 * 3;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.Var)
	if !ok {
		t.Fatalf("expected *ast.Var, got %T", prog.Statements[0])
	}
	if decl.Name.Lexeme != "x" || decl.IsConst {
		t.Errorf("unexpected declaration: %+v", decl)
	}
}

func TestConstDeclaration(t *testing.T) {
	prog, p := parseSource(t, `const pi = 3;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[0].(*ast.Var)
	if !decl.IsConst {
		t.Errorf("expected IsConst = true")
	}
}

func TestFunctionDeclaration(t *testing.T) {
	prog, p := parseSource(t, `func add(a, b) { return a + b; }`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	fn, ok := prog.Statements[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", prog.Statements[0])
	}
	if fn.Name.Lexeme != "add" || len(fn.Params) != 2 {
		t.Errorf("unexpected function: %+v", fn)
	}
}

func TestGroupingExpression(t *testing.T) {
	prog, p := parseSource(t, `var x = (1 + 2) * 3;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[0].(*ast.Var)
	bin, ok := decl.Initializer.(*ast.Binary)
	if !ok {
		t.Fatalf("expected *ast.Binary, got %T", decl.Initializer)
	}
	if _, ok := bin.Left.(*ast.Grouping); !ok {
		t.Errorf("expected grouping on the left, got %T", bin.Left)
	}
}

func TestLambdaNoParams(t *testing.T) {
	prog, p := parseSource(t, `var f = () -> 42;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[0].(*ast.Var)
	lam, ok := decl.Initializer.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected *ast.Lambda, got %T", decl.Initializer)
	}
	if len(lam.Params) != 0 {
		t.Errorf("expected 0 params, got %d", len(lam.Params))
	}
}

func TestLambdaWithParamsAndBlockBody(t *testing.T) {
	prog, p := parseSource(t, `var f = (x, y) -> { return x + y; };`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[0].(*ast.Var)
	lam, ok := decl.Initializer.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected *ast.Lambda, got %T", decl.Initializer)
	}
	if len(lam.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(lam.Params))
	}
	if _, ok := lam.Body.(*ast.Block); !ok {
		t.Errorf("expected block body, got %T", lam.Body)
	}
}

func TestSingleParamGroupingIsNotALambda(t *testing.T) {
	// (x) alone, with no trailing '->', is a grouping around a variable
	// reference — not a zero-arg lambda and not a one-arg lambda.
	prog, p := parseSource(t, `var x = 1; var y = (x);`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[1].(*ast.Var)
	if _, ok := decl.Initializer.(*ast.Grouping); !ok {
		t.Fatalf("expected *ast.Grouping, got %T", decl.Initializer)
	}
}

func TestTrailingCommaInParamListIsAHardError(t *testing.T) {
	// A malformed speculative parameter list propagates as a real syntax
	// error rather than silently falling back to parsing a grouping.
	_, p := parseSource(t, `var f = (a,) -> a;`)
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a syntax error for a trailing comma in a parameter list")
	}
}

func TestIfElseIfElse(t *testing.T) {
	prog, p := parseSource(t, `
		if (x == 1) { y = 1; }
		elseif (x == 2) { y = 2; }
		else { y = 3; }
	`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	stmt, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Statements[0])
	}
	if len(stmt.ElseIfs) != 1 || stmt.Else == nil {
		t.Errorf("expected 1 elseif and an else branch, got %+v", stmt)
	}
}

func TestForLoop(t *testing.T) {
	prog, p := parseSource(t, `for (var i = 0; i < 10; i = i + 1) { continue; }`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	loop, ok := prog.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Statements[0])
	}
	if loop.Initializer == nil || loop.Condition == nil || loop.Increment == nil {
		t.Errorf("expected all three for-clauses to be present: %+v", loop)
	}
}

func TestArrayAndIndex(t *testing.T) {
	prog, p := parseSource(t, `var a = [1, 2, 3]; var b = a[0];`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	arr := prog.Statements[0].(*ast.Var).Initializer.(*ast.ArrayLiteral)
	if len(arr.Elements) != 3 {
		t.Errorf("expected 3 elements, got %d", len(arr.Elements))
	}
	idx, ok := prog.Statements[1].(*ast.Var).Initializer.(*ast.Index)
	if !ok {
		t.Fatalf("expected *ast.Index, got %T", prog.Statements[1].(*ast.Var).Initializer)
	}
	_ = idx
}

func TestObjectLiteralAndGetSet(t *testing.T) {
	prog, p := parseSource(t, `var o = { x: 1 }; o.x = 2;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	obj := prog.Statements[0].(*ast.Var).Initializer.(*ast.ObjectLiteral)
	if len(obj.Properties) != 1 || obj.Properties[0].Key.Lexeme != "x" {
		t.Errorf("unexpected object literal: %+v", obj)
	}
	exprStmt := prog.Statements[1].(*ast.ExpressionStatement)
	set, ok := exprStmt.Expr.(*ast.Set)
	if !ok {
		t.Fatalf("expected *ast.Set, got %T", exprStmt.Expr)
	}
	if set.Name.Lexeme != "x" {
		t.Errorf("unexpected set target: %+v", set)
	}
}

func TestImportWithIdentifier(t *testing.T) {
	prog, p := parseSource(t, `import mathutils;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	imp, ok := prog.Statements[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", prog.Statements[0])
	}
	if imp.ModuleName != "mathutils" {
		t.Errorf("module name = %q, want %q", imp.ModuleName, "mathutils")
	}
}

func TestMissingSemicolonRecordsErrorAndResynchronizes(t *testing.T) {
	// Parsing recovers from a mid-statement syntax error by discarding
	// tokens up to the next ';' or statement-starting keyword, then
	// resumes on whatever declaration follows.
	prog, p := parseSource(t, `var x = 1 var y = 2; var z = 3;`)
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a syntax error for the missing semicolon")
	}
	last, ok := prog.Statements[len(prog.Statements)-1].(*ast.Var)
	if !ok || last.Name.Lexeme != "z" {
		t.Errorf("expected parsing to resume and produce 'var z', got %+v", prog.Statements)
	}
}

func TestPrecedenceClimbing(t *testing.T) {
	prog, p := parseSource(t, `var x = 1 + 2 * 3 == 7 and true;`)
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", p.Errors())
	}
	decl := prog.Statements[0].(*ast.Var)
	logical, ok := decl.Initializer.(*ast.Logical)
	if !ok {
		t.Fatalf("expected top-level *ast.Logical (and), got %T", decl.Initializer)
	}
	if logical.Operator.Lexeme != "and" {
		t.Errorf("expected 'and' at the top, got %q", logical.Operator.Lexeme)
	}
	eq, ok := logical.Left.(*ast.Binary)
	if !ok || eq.Operator.Lexeme != "==" {
		t.Fatalf("expected '==' binary on the left of 'and', got %+v", logical.Left)
	}
}
