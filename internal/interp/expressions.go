package interp

import (
	"github.com/AlmostGalactic/Thyddle/internal/ast"
	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
)

// evalExpr evaluates one expression, dispatching on its concrete AST type.
func (i *Interpreter) evalExpr(expr ast.Expression) runtime.Value {
	switch node := expr.(type) {
	case *ast.Literal:
		return literalValue(node.Value)
	case *ast.Variable:
		return i.evalVariable(node)
	case *ast.Grouping:
		return i.evalExpr(node.Expression)
	case *ast.Unary:
		return i.evalUnary(node)
	case *ast.Binary:
		return i.evalBinary(node)
	case *ast.Logical:
		return i.evalLogical(node)
	case *ast.Assign:
		return i.evalAssign(node)
	case *ast.Call:
		return i.evalCall(node)
	case *ast.Get:
		return i.evalGet(node)
	case *ast.Set:
		return i.evalSet(node)
	case *ast.Index:
		return i.evalIndex(node)
	case *ast.SetIndex:
		return i.evalSetIndex(node)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(node)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(node)
	case *ast.Lambda:
		return i.evalLambda(node)
	default:
		return runtime.NewError(0, "unknown expression type: %T", node)
	}
}

func literalValue(v interface{}) runtime.Value {
	switch val := v.(type) {
	case nil:
		return runtime.Nil
	case bool:
		return runtime.BooleanValue(val)
	case int64:
		return runtime.IntegerValue(val)
	case float64:
		return runtime.FloatValue(val)
	case string:
		return runtime.StringValue(val)
	default:
		return runtime.Nil
	}
}

func (i *Interpreter) evalVariable(node *ast.Variable) runtime.Value {
	if val, ok := i.env.Get(node.Name); ok {
		return val
	}
	return runtime.NewError(node.Token.Pos.Line, "undefined variable '%s'", node.Name)
}

func (i *Interpreter) evalUnary(node *ast.Unary) runtime.Value {
	right := i.evalExpr(node.Right)
	if runtime.IsError(right) {
		return right
	}

	line := node.Operator.Pos.Line
	switch node.Operator.Lexeme {
	case "-":
		switch v := right.(type) {
		case runtime.IntegerValue:
			return -v
		case runtime.FloatValue:
			return -v
		default:
			return runtime.NewError(line, "unary '-' requires a number, got %s", right.Type())
		}
	case "!":
		return runtime.BooleanValue(!runtime.Truthy(right))
	default:
		return runtime.NewError(line, "unknown unary operator '%s'", node.Operator.Lexeme)
	}
}

func (i *Interpreter) evalLogical(node *ast.Logical) runtime.Value {
	left := i.evalExpr(node.Left)
	if runtime.IsError(left) {
		return left
	}

	switch node.Operator.Lexeme {
	case "or":
		if runtime.Truthy(left) {
			return left
		}
		return i.evalExpr(node.Right)
	case "and":
		if !runtime.Truthy(left) {
			return left
		}
		return i.evalExpr(node.Right)
	default:
		return runtime.NewError(node.Operator.Pos.Line, "unknown logical operator '%s'", node.Operator.Lexeme)
	}
}

func (i *Interpreter) evalBinary(node *ast.Binary) runtime.Value {
	left := i.evalExpr(node.Left)
	if runtime.IsError(left) {
		return left
	}
	right := i.evalExpr(node.Right)
	if runtime.IsError(right) {
		return right
	}

	line := node.Operator.Pos.Line
	op := node.Operator.Lexeme

	switch op {
	case "==":
		return runtime.BooleanValue(runtime.Equals(left, right))
	case "!=":
		return runtime.BooleanValue(!runtime.Equals(left, right))
	}

	_, leftIsString := left.(runtime.StringValue)
	_, rightIsString := right.(runtime.StringValue)
	if op == "+" && (leftIsString || rightIsString) {
		return runtime.StringValue(left.String() + right.String())
	}

	leftNum, leftOK := asNumber(left)
	rightNum, rightOK := asNumber(right)
	if !leftOK {
		return runtime.NewError(line, "operator '%s' requires a number, got %s", op, left.Type())
	}
	if !rightOK {
		return runtime.NewError(line, "operator '%s' requires a number, got %s", op, right.Type())
	}

	switch op {
	case "<", "<=", ">", ">=":
		return runtime.BooleanValue(compareNumbers(op, leftNum, rightNum))
	}

	bothInt := isInteger(left) && isInteger(right)

	switch op {
	case "+":
		if bothInt {
			return runtime.IntegerValue(int64(leftNum) + int64(rightNum))
		}
		return runtime.FloatValue(leftNum + rightNum)
	case "-":
		if bothInt {
			return runtime.IntegerValue(int64(leftNum) - int64(rightNum))
		}
		return runtime.FloatValue(leftNum - rightNum)
	case "*":
		if bothInt {
			return runtime.IntegerValue(int64(leftNum) * int64(rightNum))
		}
		return runtime.FloatValue(leftNum * rightNum)
	case "/":
		if rightNum == 0 {
			return runtime.NewError(line, "division by zero")
		}
		if bothInt && int64(leftNum)%int64(rightNum) == 0 {
			return runtime.IntegerValue(int64(leftNum) / int64(rightNum))
		}
		return runtime.FloatValue(leftNum / rightNum)
	case "%":
		if rightNum == 0 {
			return runtime.NewError(line, "modulo by zero")
		}
		if bothInt {
			return runtime.IntegerValue(int64(leftNum) % int64(rightNum))
		}
		return runtime.FloatValue(floatMod(leftNum, rightNum))
	default:
		return runtime.NewError(line, "unknown binary operator '%s'", op)
	}
}

func floatMod(a, b float64) float64 {
	m := a - b*float64(int64(a/b))
	return m
}

func asNumber(v runtime.Value) (float64, bool) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return float64(val), true
	case runtime.FloatValue:
		return float64(val), true
	default:
		return 0, false
	}
}

func isInteger(v runtime.Value) bool {
	_, ok := v.(runtime.IntegerValue)
	return ok
}

func compareNumbers(op string, left, right float64) bool {
	switch op {
	case "<":
		return left < right
	case "<=":
		return left <= right
	case ">":
		return left > right
	case ">=":
		return left >= right
	default:
		return false
	}
}

func (i *Interpreter) evalAssign(node *ast.Assign) runtime.Value {
	value := i.evalExpr(node.Value)
	if runtime.IsError(value) {
		return value
	}
	if err := i.env.Set(node.Name.Lexeme, value); err != nil {
		return runtime.NewError(node.Name.Pos.Line, "%s", err.Error())
	}
	return value
}

func (i *Interpreter) evalGet(node *ast.Get) runtime.Value {
	obj := i.evalExpr(node.Object)
	if runtime.IsError(obj) {
		return obj
	}
	objVal, ok := obj.(*runtime.ObjectValue)
	if !ok {
		return runtime.NewError(node.Name.Pos.Line, "cannot access property '%s' on %s", node.Name.Lexeme, obj.Type())
	}
	if v, ok := objVal.Get(node.Name.Lexeme); ok {
		return v
	}
	return runtime.Nil
}

func (i *Interpreter) evalSet(node *ast.Set) runtime.Value {
	obj := i.evalExpr(node.Object)
	if runtime.IsError(obj) {
		return obj
	}
	objVal, ok := obj.(*runtime.ObjectValue)
	if !ok {
		return runtime.NewError(node.Name.Pos.Line, "cannot set property '%s' on %s", node.Name.Lexeme, obj.Type())
	}
	value := i.evalExpr(node.Value)
	if runtime.IsError(value) {
		return value
	}
	objVal.Set(node.Name.Lexeme, value)
	return value
}

func (i *Interpreter) evalIndex(node *ast.Index) runtime.Value {
	obj := i.evalExpr(node.Object)
	if runtime.IsError(obj) {
		return obj
	}
	idx := i.evalExpr(node.Index)
	if runtime.IsError(idx) {
		return idx
	}
	line := node.Bracket.Pos.Line

	switch target := obj.(type) {
	case *runtime.ArrayValue:
		n, ok := idx.(runtime.IntegerValue)
		if !ok {
			return runtime.NewError(line, "array index must be an integer, got %s", idx.Type())
		}
		if int64(n) < 0 || int64(n) >= int64(len(target.Elements)) {
			return runtime.NewError(line, "array index %d out of bounds (length %d)", n, len(target.Elements))
		}
		return target.Elements[n]
	case runtime.StringValue:
		n, ok := idx.(runtime.IntegerValue)
		if !ok {
			return runtime.NewError(line, "string index must be an integer, got %s", idx.Type())
		}
		runes := []rune(string(target))
		if int64(n) < 0 || int64(n) >= int64(len(runes)) {
			return runtime.NewError(line, "string index %d out of bounds (length %d)", n, len(runes))
		}
		return runtime.StringValue(string(runes[n]))
	case *runtime.ObjectValue:
		key, ok := idx.(runtime.StringValue)
		if !ok {
			return runtime.NewError(line, "object key must be a string, got %s", idx.Type())
		}
		if v, ok := target.Get(string(key)); ok {
			return v
		}
		return runtime.Nil
	default:
		return runtime.NewError(line, "cannot index into %s", obj.Type())
	}
}

func (i *Interpreter) evalSetIndex(node *ast.SetIndex) runtime.Value {
	obj := i.evalExpr(node.Object)
	if runtime.IsError(obj) {
		return obj
	}
	idx := i.evalExpr(node.Index)
	if runtime.IsError(idx) {
		return idx
	}
	value := i.evalExpr(node.Value)
	if runtime.IsError(value) {
		return value
	}
	line := node.Bracket.Pos.Line

	switch target := obj.(type) {
	case *runtime.ArrayValue:
		n, ok := idx.(runtime.IntegerValue)
		if !ok {
			return runtime.NewError(line, "array index must be an integer, got %s", idx.Type())
		}
		if int64(n) < 0 || int64(n) >= int64(len(target.Elements)) {
			return runtime.NewError(line, "array index %d out of bounds (length %d)", n, len(target.Elements))
		}
		target.Elements[n] = value
		return value
	case *runtime.ObjectValue:
		key, ok := idx.(runtime.StringValue)
		if !ok {
			return runtime.NewError(line, "object key must be a string, got %s", idx.Type())
		}
		target.Set(string(key), value)
		return value
	default:
		return runtime.NewError(line, "cannot index-assign into %s", obj.Type())
	}
}

func (i *Interpreter) evalArrayLiteral(node *ast.ArrayLiteral) runtime.Value {
	elements := make([]runtime.Value, 0, len(node.Elements))
	for _, el := range node.Elements {
		v := i.evalExpr(el)
		if runtime.IsError(v) {
			return v
		}
		elements = append(elements, v)
	}
	return runtime.NewArray(elements)
}

func (i *Interpreter) evalObjectLiteral(node *ast.ObjectLiteral) runtime.Value {
	obj := runtime.NewObject()
	for _, prop := range node.Properties {
		v := i.evalExpr(prop.Value)
		if runtime.IsError(v) {
			return v
		}
		obj.Set(prop.Key.Lexeme, v)
	}
	return obj
}

func (i *Interpreter) evalLambda(node *ast.Lambda) runtime.Value {
	return &runtime.LambdaValue{
		Params:  paramNames(node.Params),
		Body:    node.Body,
		Closure: i.env,
	}
}
