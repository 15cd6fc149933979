package interp

import (
	"os"
	"path/filepath"

	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
	"github.com/AlmostGalactic/Thyddle/internal/parser"
)

// execImport resolves "<name>.thy" relative to the interpreter's module
// directory, parses and executes it in a fresh environment enclosing the
// globals, and copies its top-level func and const declarations into the
// importing scope. Modules are re-parsed and re-executed on every import;
// there is no cycle detection or caching, matching spec.md §4.3.
func (i *Interpreter) execImport(stmt *ast.Import) runtime.Value {
	path := stmt.ModuleName + ".thy"
	if i.moduleDir != "" {
		path = filepath.Join(i.moduleDir, path)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return runtime.NewError(stmt.Token.Pos.Line, "cannot import '%s': %s", stmt.ModuleName, err.Error())
	}

	toks, lexErrs := scan(string(source))
	if len(lexErrs) > 0 {
		return runtime.NewError(stmt.Token.Pos.Line, "module '%s': %s", stmt.ModuleName, lexErrs[0].Message)
	}
	p := parser.New(toks)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return runtime.NewError(stmt.Token.Pos.Line, "module '%s': %s", stmt.ModuleName, errs[0].Message)
	}

	moduleEnv := runtime.NewEnclosedEnvironment(i.globalEnv())

	savedEnv := i.env
	i.env = moduleEnv
	result := i.EvalProgram(program)
	i.env = savedEnv

	if runtime.IsError(result) {
		return result
	}

	for _, topLevel := range program.Statements {
		switch decl := topLevel.(type) {
		case *ast.Function:
			v, _ := moduleEnv.GetLocal(decl.Name.Lexeme)
			i.env.Define(decl.Name.Lexeme, v, false)
		case *ast.Var:
			if decl.IsConst {
				v, _ := moduleEnv.GetLocal(decl.Name.Lexeme)
				i.env.Define(decl.Name.Lexeme, v, true)
			}
		}
	}

	return runtime.Nil
}

// globalEnv walks to the root of the environment chain. Modules execute
// enclosing the program's true global scope, not whatever local scope the
// import statement happens to run in, so a module can still see built-ins
// but not caller-local variables.
func (i *Interpreter) globalEnv() *runtime.Environment {
	env := i.env
	for env.Outer() != nil {
		env = env.Outer()
	}
	return env
}
