// Package interp implements the tree-walking evaluator: it walks an
// internal/ast Program against a runtime.Environment, producing side
// effects and a final runtime.Value.
package interp

import (
	"io"
	"math/rand"

	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
	"github.com/AlmostGalactic/Thyddle/internal/parser"
	"github.com/AlmostGalactic/Thyddle/internal/token"
)

// Interpreter walks a parsed program and executes it against a chain of
// runtime environments.
type Interpreter struct {
	output io.Writer
	input  io.Reader
	env    *runtime.Environment
	rand   *rand.Rand

	// moduleDir is the base directory import statements resolve module
	// files against.
	moduleDir string

	// These flags signal control flow changes (return, break, continue)
	// and are checked after every statement. They propagate up the call
	// stack until handled by the appropriate construct: a loop clears
	// break/continue, a function call clears return. They are distinct
	// from the error channel (*runtime.ErrorValue) on purpose: a runtime
	// error must keep propagating past a loop or function boundary that
	// would otherwise swallow a break/continue/return signal.
	returning   bool
	returnValue runtime.Value
	breaking    bool
	continuing  bool
}

// New creates an Interpreter with a fresh global environment seeded with
// the built-in function table, writing program output to out and reading
// console.read input from in.
func New(out io.Writer, in io.Reader) *Interpreter {
	i := &Interpreter{
		output: out,
		input:  in,
		env:    runtime.NewEnvironment(),
		rand:   rand.New(rand.NewSource(1)),
	}
	i.registerBuiltins()
	return i
}

// SetModuleDir sets the directory import statements resolve "<name>.thy"
// against. Defaults to the current working directory if never set.
func (i *Interpreter) SetModuleDir(dir string) {
	i.moduleDir = dir
}

// Globals returns the interpreter's top-level environment.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.env
}

// Run parses source and executes it as a program in the interpreter's
// current environment, returning the value of the last statement executed
// (or a *runtime.ErrorValue on fatal failure). Syntax errors are returned
// separately since they are non-fatal and may be reported alongside the
// last valid result.
func (i *Interpreter) Run(source string) (runtime.Value, []parser.Error) {
	toks, lexErrs := scan(source)
	p := parser.New(toks)
	program := p.ParseProgram()
	errs := append(lexErrsToParserErrors(lexErrs), p.Errors()...)
	return i.EvalProgram(program), errs
}

// EvalProgram executes every top-level statement in order, stopping early
// on the first runtime error or an unhandled return/break/continue.
func (i *Interpreter) EvalProgram(program *ast.Program) runtime.Value {
	var result runtime.Value = runtime.Nil

	for _, stmt := range program.Statements {
		result = i.execStatement(stmt)
		if runtime.IsError(result) {
			return result
		}
		if i.breaking {
			i.breaking = false
			return runtime.NewError(0, "break used outside of a loop")
		}
		if i.continuing {
			i.continuing = false
			return runtime.NewError(0, "continue used outside of a loop")
		}
		if i.returning {
			i.returning = false
			result = i.returnValue
			i.returnValue = nil
			break
		}
	}

	return result
}

// execStatement evaluates one statement, dispatching on its concrete AST
// type.
func (i *Interpreter) execStatement(stmt ast.Statement) runtime.Value {
	switch node := stmt.(type) {
	case *ast.ExpressionStatement:
		return i.evalExpr(node.Expr)
	case *ast.Var:
		return i.execVar(node)
	case *ast.Block:
		return i.execBlock(node)
	case *ast.If:
		return i.execIf(node)
	case *ast.While:
		return i.execWhile(node)
	case *ast.For:
		return i.execFor(node)
	case *ast.Function:
		return i.execFunctionDecl(node)
	case *ast.Return:
		return i.execReturn(node)
	case *ast.Break:
		i.breaking = true
		return runtime.Nil
	case *ast.Continue:
		i.continuing = true
		return runtime.Nil
	case *ast.Import:
		return i.execImport(node)
	default:
		return runtime.NewError(0, "unknown statement type: %T", node)
	}
}

func (i *Interpreter) execVar(stmt *ast.Var) runtime.Value {
	var value runtime.Value = runtime.Nil
	if stmt.Initializer != nil {
		value = i.evalExpr(stmt.Initializer)
		if runtime.IsError(value) {
			return value
		}
	}
	i.env.Define(stmt.Name.Lexeme, value, stmt.IsConst)
	return value
}

// execBlock runs a block's statements in a freshly enclosed environment,
// restoring the prior environment on every exit path.
func (i *Interpreter) execBlock(block *ast.Block) runtime.Value {
	saved := i.env
	i.env = runtime.NewEnclosedEnvironment(saved)
	defer func() { i.env = saved }()

	var result runtime.Value = runtime.Nil
	for _, s := range block.Statements {
		result = i.execStatement(s)
		if runtime.IsError(result) {
			return result
		}
		if i.breaking || i.continuing || i.returning {
			return result
		}
	}
	return result
}

func (i *Interpreter) execIf(stmt *ast.If) runtime.Value {
	cond := i.evalExpr(stmt.Condition)
	if runtime.IsError(cond) {
		return cond
	}
	if runtime.Truthy(cond) {
		return i.execStatement(stmt.Then)
	}
	for _, ei := range stmt.ElseIfs {
		c := i.evalExpr(ei.Condition)
		if runtime.IsError(c) {
			return c
		}
		if runtime.Truthy(c) {
			return i.execStatement(ei.Then)
		}
	}
	if stmt.Else != nil {
		return i.execStatement(stmt.Else)
	}
	return runtime.Nil
}

func (i *Interpreter) execWhile(stmt *ast.While) runtime.Value {
	var result runtime.Value = runtime.Nil
	for {
		cond := i.evalExpr(stmt.Condition)
		if runtime.IsError(cond) {
			return cond
		}
		if !runtime.Truthy(cond) {
			break
		}

		result = i.execStatement(stmt.Body)
		if runtime.IsError(result) {
			return result
		}
		if i.breaking {
			i.breaking = false
			break
		}
		if i.continuing {
			i.continuing = false
			continue
		}
		if i.returning {
			break
		}
	}
	return result
}

func (i *Interpreter) execFor(stmt *ast.For) runtime.Value {
	saved := i.env
	i.env = runtime.NewEnclosedEnvironment(saved)
	defer func() { i.env = saved }()

	if stmt.Initializer != nil {
		if v := i.execStatement(stmt.Initializer); runtime.IsError(v) {
			return v
		}
	}

	var result runtime.Value = runtime.Nil
	for {
		if stmt.Condition != nil {
			cond := i.evalExpr(stmt.Condition)
			if runtime.IsError(cond) {
				return cond
			}
			if !runtime.Truthy(cond) {
				break
			}
		}

		result = i.execStatement(stmt.Body)
		if runtime.IsError(result) {
			return result
		}
		if i.breaking {
			i.breaking = false
			break
		}
		if i.returning {
			break
		}
		i.continuing = false

		if stmt.Increment != nil {
			if v := i.evalExpr(stmt.Increment); runtime.IsError(v) {
				return v
			}
		}
	}
	return result
}

func (i *Interpreter) execFunctionDecl(stmt *ast.Function) runtime.Value {
	fn := &runtime.FunctionValue{
		Name:    stmt.Name.Lexeme,
		Params:  paramNames(stmt.Params),
		Body:    stmt.Body,
		Closure: i.env,
	}
	i.env.Define(stmt.Name.Lexeme, fn, false)
	return fn
}

func (i *Interpreter) execReturn(stmt *ast.Return) runtime.Value {
	var value runtime.Value = runtime.Nil
	if stmt.Value != nil {
		value = i.evalExpr(stmt.Value)
		if runtime.IsError(value) {
			return value
		}
	}
	i.returning = true
	i.returnValue = value
	return value
}

func paramNames(params []token.Token) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return names
}
