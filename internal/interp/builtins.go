package interp

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
)

// registerBuiltins seeds the global environment with the built-in function
// table (spec.md §4.3). Each entry is an ordinary runtime.Value — natives
// are grouped under namespace objects exactly like user-defined objects,
// so a built-in is reached through ordinary variable and property access;
// evalCall then runs it through callNative.
func (i *Interpreter) registerBuiltins() {
	def := func(name string, arity int, fn runtime.NativeFunc) {
		i.env.Define(name, &runtime.NativeValue{Name: name, Fn: fn, Arg: arity}, true)
	}

	def("len", 1, builtinLen)
	def("tonum", 1, builtinTonum)
	def("tostr", 1, builtinTostr)
	def("type", 1, builtinType)
	def("reverse", 1, builtinReverse)
	def("split", 2, builtinSplit)
	def("ord", 1, builtinOrd)
	def("chr", 1, builtinChr)

	arrayNS := runtime.NewObject()
	arrayNS.Set("append", &runtime.NativeValue{Name: "array.append", Fn: builtinArrayAppend, Arg: 2})
	arrayNS.Set("pop", &runtime.NativeValue{Name: "array.pop", Fn: builtinArrayPop, Arg: 1})
	i.env.Define("array", arrayNS, true)

	outputNS := runtime.NewObject()
	outputNS.Set("println", &runtime.NativeValue{Name: "console.output.println", Fn: i.builtinPrintln, Arg: -1})
	outputNS.Set("print", &runtime.NativeValue{Name: "console.output.print", Fn: i.builtinPrint, Arg: -1})
	consoleNS := runtime.NewObject()
	consoleNS.Set("output", outputNS)
	consoleNS.Set("read", &runtime.NativeValue{Name: "console.read", Fn: i.builtinConsoleRead, Arg: 0})
	i.env.Define("console", consoleNS, true)

	randomNS := runtime.NewObject()
	randomNS.Set("randint", &runtime.NativeValue{Name: "math.random.randint", Fn: i.builtinRandint, Arg: 2})
	randomNS.Set("uniform", &runtime.NativeValue{Name: "math.random.uniform", Fn: i.builtinUniform, Arg: 2})

	mathNS := runtime.NewObject()
	mathNS.Set("sin", unaryMath("math.sin", math.Sin))
	mathNS.Set("cos", unaryMath("math.cos", math.Cos))
	mathNS.Set("tan", unaryMath("math.tan", math.Tan))
	mathNS.Set("sinh", unaryMath("math.sinh", math.Sinh))
	mathNS.Set("cosh", unaryMath("math.cosh", math.Cosh))
	mathNS.Set("tanh", unaryMath("math.tanh", math.Tanh))
	mathNS.Set("asin", unaryMath("math.asin", math.Asin))
	mathNS.Set("acos", unaryMath("math.acos", math.Acos))
	mathNS.Set("atan", unaryMath("math.atan", math.Atan))
	mathNS.Set("asinh", unaryMath("math.asinh", math.Asinh))
	mathNS.Set("acosh", unaryMath("math.acosh", math.Acosh))
	mathNS.Set("atanh", unaryMath("math.atanh", math.Atanh))
	mathNS.Set("atan2", &runtime.NativeValue{Name: "math.atan2", Fn: builtinAtan2, Arg: 2})
	mathNS.Set("exp", unaryMath("math.exp", math.Exp))
	mathNS.Set("floor", unaryMath("math.floor", math.Floor))
	mathNS.Set("ceil", unaryMath("math.ceil", math.Ceil))
	mathNS.Set("abs", unaryMath("math.abs", math.Abs))
	mathNS.Set("sqrt", unaryMath("math.sqrt", math.Sqrt))
	mathNS.Set("radians", unaryMath("math.radians", toRadians))
	mathNS.Set("pow", &runtime.NativeValue{Name: "math.pow", Fn: builtinPow, Arg: 2})
	mathNS.Set("random", randomNS)
	i.env.Define("math", mathNS, true)

	modifyNS := runtime.NewObject()
	modifyNS.Set("write", &runtime.NativeValue{Name: "io.file.modify.write", Fn: builtinFileWrite, Arg: 2})
	modifyNS.Set("append", &runtime.NativeValue{Name: "io.file.modify.append", Fn: builtinFileAppend, Arg: 2})
	fileNS := runtime.NewObject()
	fileNS.Set("read", &runtime.NativeValue{Name: "io.file.read", Fn: builtinFileRead, Arg: 1})
	fileNS.Set("modify", modifyNS)
	ioNS := runtime.NewObject()
	ioNS.Set("file", fileNS)
	i.env.Define("io", ioNS, true)
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func unaryMath(name string, fn func(float64) float64) *runtime.NativeValue {
	return &runtime.NativeValue{
		Name: name,
		Arg:  1,
		Fn: func(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
			n, ok := asNumber(args[0])
			if !ok {
				return nil, runtime.NewError(0, "%s expects a number, got %s", name, args[0].Type())
			}
			return runtime.FloatValue(fn(n)), nil
		},
	}
}

func builtinPow(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	base, ok := asNumber(args[0])
	if !ok {
		return nil, runtime.NewError(0, "math.pow expects numbers")
	}
	exp, ok := asNumber(args[1])
	if !ok {
		return nil, runtime.NewError(0, "math.pow expects numbers")
	}
	result := math.Pow(base, exp)
	if isInteger(args[0]) && isInteger(args[1]) && result == math.Trunc(result) {
		return runtime.IntegerValue(int64(result)), nil
	}
	return runtime.FloatValue(result), nil
}

func builtinAtan2(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	y, ok := asNumber(args[0])
	if !ok {
		return nil, runtime.NewError(0, "math.atan2 expects numbers")
	}
	x, ok := asNumber(args[1])
	if !ok {
		return nil, runtime.NewError(0, "math.atan2 expects numbers")
	}
	return runtime.FloatValue(math.Atan2(y, x)), nil
}

func builtinLen(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	switch v := args[0].(type) {
	case runtime.StringValue:
		return runtime.IntegerValue(len([]rune(string(v)))), nil
	case *runtime.ArrayValue:
		return runtime.IntegerValue(len(v.Elements)), nil
	case *runtime.ObjectValue:
		return runtime.IntegerValue(len(v.Keys())), nil
	default:
		return nil, runtime.NewError(0, "len: unsupported type %s", v.Type())
	}
}

func builtinTonum(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	switch v := args[0].(type) {
	case runtime.IntegerValue, runtime.FloatValue:
		return v, nil
	case runtime.StringValue:
		s := strings.TrimSpace(string(v))
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return runtime.IntegerValue(n), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return runtime.FloatValue(f), nil
		}
		return nil, runtime.NewError(0, "tonum: cannot convert %q to a number", s)
	default:
		return nil, runtime.NewError(0, "tonum: cannot convert %s to a number", v.Type())
	}
}

func builtinTostr(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	return runtime.StringValue(args[0].String()), nil
}

func builtinType(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	switch args[0].(type) {
	case runtime.StringValue:
		return runtime.StringValue("str"), nil
	case runtime.IntegerValue, runtime.FloatValue:
		return runtime.StringValue("num"), nil
	case *runtime.ArrayValue:
		return runtime.StringValue("array"), nil
	case *runtime.ObjectValue:
		return runtime.StringValue("object"), nil
	default:
		return runtime.StringValue(args[0].Type()), nil
	}
}

func builtinReverse(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	switch v := args[0].(type) {
	case runtime.StringValue:
		runes := []rune(string(v))
		for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
			runes[l], runes[r] = runes[r], runes[l]
		}
		return runtime.StringValue(string(runes)), nil
	case *runtime.ArrayValue:
		out := make([]runtime.Value, len(v.Elements))
		for idx, el := range v.Elements {
			out[len(v.Elements)-1-idx] = el
		}
		return runtime.NewArray(out), nil
	default:
		return nil, runtime.NewError(0, "reverse: unsupported type %s", v.Type())
	}
}

func builtinSplit(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	text, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "split: first argument must be a string")
	}
	sep, ok := args[1].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "split: second argument must be a string")
	}
	var out []runtime.Value
	for _, line := range strings.Split(string(text), "\n") {
		for _, part := range strings.Split(line, string(sep)) {
			out = append(out, runtime.StringValue(part))
		}
	}
	return runtime.NewArray(out), nil
}

func builtinOrd(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	s, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "ord: expected a string")
	}
	runes := []rune(string(s))
	if len(runes) != 1 {
		return nil, runtime.NewError(0, "ord: expected a single-character string")
	}
	return runtime.IntegerValue(runes[0]), nil
}

func builtinChr(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	n, ok := args[0].(runtime.IntegerValue)
	if !ok {
		return nil, runtime.NewError(0, "chr: expected an integer")
	}
	return runtime.StringValue(string(rune(n))), nil
}

func builtinArrayAppend(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	arr, ok := args[0].(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.NewError(0, "array.append: first argument must be an array")
	}
	arr.Elements = append(arr.Elements, args[1])
	return runtime.Nil, nil
}

func builtinArrayPop(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	arr, ok := args[0].(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.NewError(0, "array.pop: argument must be an array")
	}
	if len(arr.Elements) == 0 {
		return nil, runtime.NewError(0, "array.pop: array is empty")
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func (i *Interpreter) builtinPrintln(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = a.String()
	}
	fmt.Fprintln(i.output, strings.Join(parts, " "))
	return runtime.Nil, nil
}

func (i *Interpreter) builtinPrint(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = a.String()
	}
	fmt.Fprint(i.output, strings.Join(parts, " "))
	return runtime.Nil, nil
}

func (i *Interpreter) builtinConsoleRead(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	in := i.input
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return runtime.StringValue(""), nil
	}
	return runtime.StringValue(strings.TrimRight(line, "\r\n")), nil
}

func (i *Interpreter) builtinRandint(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	lo, ok1 := args[0].(runtime.IntegerValue)
	hi, ok2 := args[1].(runtime.IntegerValue)
	if !ok1 || !ok2 {
		return nil, runtime.NewError(0, "math.random.randint expects two integers")
	}
	if hi < lo {
		return nil, runtime.NewError(0, "math.random.randint: upper bound below lower bound")
	}
	span := int64(hi-lo) + 1
	return runtime.IntegerValue(int64(lo) + i.rand.Int63n(span)), nil
}

func (i *Interpreter) builtinUniform(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	lo, ok1 := asNumber(args[0])
	hi, ok2 := asNumber(args[1])
	if !ok1 || !ok2 {
		return nil, runtime.NewError(0, "math.random.uniform expects two numbers")
	}
	return runtime.FloatValue(lo + i.rand.Float64()*(hi-lo)), nil
}

func builtinFileRead(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	path, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "io.file.read expects a path string")
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, runtime.NewError(0, "io.file.read: %s", err.Error())
	}
	return runtime.StringValue(string(data)), nil
}

func builtinFileWrite(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	path, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "io.file.modify.write expects a path string")
	}
	content, ok := args[1].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "io.file.modify.write expects string content")
	}
	if err := os.WriteFile(string(path), []byte(content), 0o644); err != nil {
		return nil, runtime.NewError(0, "io.file.modify.write: %s", err.Error())
	}
	return runtime.Nil, nil
}

func builtinFileAppend(args []runtime.Value) (runtime.Value, *runtime.ErrorValue) {
	path, ok := args[0].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "io.file.modify.append expects a path string")
	}
	content, ok := args[1].(runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(0, "io.file.modify.append expects string content")
	}
	f, err := os.OpenFile(string(path), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, runtime.NewError(0, "io.file.modify.append: %s", err.Error())
	}
	defer f.Close()
	if _, err := f.WriteString(string(content)); err != nil {
		return nil, runtime.NewError(0, "io.file.modify.append: %s", err.Error())
	}
	return runtime.Nil, nil
}
