package interp

import (
	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
)

func (i *Interpreter) evalCall(node *ast.Call) runtime.Value {
	callee := i.evalExpr(node.Callee)
	if runtime.IsError(callee) {
		return callee
	}

	args := make([]runtime.Value, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		v := i.evalExpr(a)
		if runtime.IsError(v) {
			return v
		}
		args = append(args, v)
	}

	line := node.Paren.Pos.Line

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(fn, args, line)
	case *runtime.LambdaValue:
		return i.callLambda(fn, args, line)
	case *runtime.NativeValue:
		return i.callNative(fn, args, line)
	default:
		return runtime.NewError(line, "cannot call a value of type %s", callee.Type())
	}
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, line int) runtime.Value {
	if len(args) != len(fn.Params) {
		return runtime.NewError(line, "function '%s' expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}

	body, ok := fn.Body.(ast.Statement)
	if !ok {
		return runtime.NewError(line, "function '%s' has a malformed body", fn.Name)
	}

	saved := i.env
	callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
	for idx, name := range fn.Params {
		callEnv.Define(name, args[idx], false)
	}
	i.env = callEnv
	result := i.execStatement(body)
	i.env = saved

	if runtime.IsError(result) {
		return result
	}
	return i.settleCallSignals(result)
}

func (i *Interpreter) callLambda(fn *runtime.LambdaValue, args []runtime.Value, line int) runtime.Value {
	if len(args) != len(fn.Params) {
		return runtime.NewError(line, "lambda expects %d argument(s), got %d", len(fn.Params), len(args))
	}

	body, ok := fn.Body.(ast.Statement)
	if !ok {
		return runtime.NewError(line, "lambda has a malformed body")
	}

	saved := i.env
	callEnv := runtime.NewEnclosedEnvironment(fn.Closure)
	for idx, name := range fn.Params {
		callEnv.Define(name, args[idx], false)
	}
	i.env = callEnv
	result := i.execStatement(body)
	i.env = saved

	if runtime.IsError(result) {
		return result
	}
	return i.settleCallSignals(result)
}

// settleCallSignals resolves the return/break/continue flags left by
// executing a call's body. A return is consumed here and becomes the
// call's result; a break or continue that reaches all the way out to a
// call boundary without an enclosing loop catching it first is a runtime
// error, per spec.md §7/§9.
func (i *Interpreter) settleCallSignals(result runtime.Value) runtime.Value {
	if i.returning {
		i.returning = false
		rv := i.returnValue
		i.returnValue = nil
		return rv
	}
	if i.breaking {
		i.breaking = false
		return runtime.NewError(0, "break used outside of a loop")
	}
	if i.continuing {
		i.continuing = false
		return runtime.NewError(0, "continue used outside of a loop")
	}
	return runtime.Nil
}

func (i *Interpreter) callNative(fn *runtime.NativeValue, args []runtime.Value, line int) runtime.Value {
	if fn.Arg >= 0 && len(args) != fn.Arg {
		return runtime.NewError(line, "%s expects %d argument(s), got %d", fn.Name, fn.Arg, len(args))
	}
	result, errVal := fn.Fn(args)
	if errVal != nil {
		if errVal.Line == 0 {
			errVal.Line = line
		}
		return errVal
	}
	return result
}
