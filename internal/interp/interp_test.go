package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
)

// testRun runs source against a fresh interpreter and returns its result
// value and everything written to console.output during the run.
func testRun(t *testing.T, source string) (runtime.Value, string) {
	t.Helper()
	var buf bytes.Buffer
	it := New(&buf, strings.NewReader(""))
	result, errs := it.Run(source)
	if len(errs) != 0 {
		t.Fatalf("unexpected syntax errors: %v", errs)
	}
	return result, buf.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	result, _ := testRun(t, `var x = 1 + 2 * 3; x;`)
	if result != runtime.IntegerValue(7) {
		t.Errorf("result = %v, want 7", result)
	}
}

func TestIntDivisionStaysIntWhenExact(t *testing.T) {
	result, _ := testRun(t, `6 / 2;`)
	if result != runtime.IntegerValue(3) {
		t.Errorf("result = %v, want integer 3", result)
	}
}

func TestIntDivisionPromotesToFloatWhenInexact(t *testing.T) {
	result, _ := testRun(t, `7 / 2;`)
	if _, ok := result.(runtime.FloatValue); !ok {
		t.Fatalf("expected a float result, got %T (%v)", result, result)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	result, _ := testRun(t, `1 / 0;`)
	if !runtime.IsError(result) {
		t.Fatalf("expected a runtime error, got %T (%v)", result, result)
	}
}

func TestModuloByZeroIsRuntimeError(t *testing.T) {
	result, _ := testRun(t, `1 % 0;`)
	if !runtime.IsError(result) {
		t.Fatalf("expected a runtime error, got %T (%v)", result, result)
	}
}

func TestRecursiveFibonacci(t *testing.T) {
	result, _ := testRun(t, `
		func fib(n) {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		fib(10);
	`)
	if result != runtime.IntegerValue(55) {
		t.Errorf("fib(10) = %v, want 55", result)
	}
}

func TestClosureCapturesLambdaParameter(t *testing.T) {
	result, _ := testRun(t, `
		var makeAdder = (n) -> (x) -> x + n;
		var add5 = makeAdder(5);
		add5(2);
	`)
	if result != runtime.IntegerValue(7) {
		t.Errorf("result = %v, want 7", result)
	}
}

func TestArrayAppendAndPop(t *testing.T) {
	result, _ := testRun(t, `
		var a = [1, 2, 3];
		array.append(a, 4);
		array.pop(a);
		len(a);
	`)
	if result != runtime.IntegerValue(3) {
		t.Errorf("result = %v, want 3 (append then pop leaves the original length)", result)
	}
}

func TestConstPropertyMutationIsAllowed(t *testing.T) {
	// `const` binds the name, not the value: mutating a field on a const
	// object is legal, only reassigning the name itself is not.
	result, _ := testRun(t, `
		const o = { count: 0 };
		o.count = 4;
		o.count;
	`)
	if result != runtime.IntegerValue(4) {
		t.Errorf("result = %v, want 4", result)
	}
}

func TestReassigningConstIsAnError(t *testing.T) {
	result, _ := testRun(t, `
		const x = 1;
		x = 2;
	`)
	if !runtime.IsError(result) {
		t.Fatalf("expected a runtime error reassigning a const, got %T (%v)", result, result)
	}
}

func TestForLoopContinueSkipsBody(t *testing.T) {
	_, output := testRun(t, `
		for (var i = 0; i < 3; i = i + 1) {
			if (i == 1) { continue; }
			console.output.println(i);
		}
	`)
	want := "0\n2\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestWhileLoopBreak(t *testing.T) {
	result, _ := testRun(t, `
		var i = 0;
		while (true) {
			if (i == 3) { break; }
			i = i + 1;
		}
		i;
	`)
	if result != runtime.IntegerValue(3) {
		t.Errorf("result = %v, want 3", result)
	}
}

func TestBreakOutsideLoopIsRuntimeError(t *testing.T) {
	result, _ := testRun(t, `break;`)
	if !runtime.IsError(result) {
		t.Fatalf("expected a runtime error, got %T (%v)", result, result)
	}
}

func TestTruthinessOfNumericZero(t *testing.T) {
	result, _ := testRun(t, `
		if (0) { "truthy"; } else { "falsy"; }
	`)
	if result != runtime.StringValue("falsy") {
		t.Errorf("result = %v, want \"falsy\"", result)
	}
}

func TestEqualityAcrossIntAndFloat(t *testing.T) {
	// A whole-valued literal such as 4.0 scans as an integer, so the float
	// operand is computed: 4.5 - 0.5 is the float 4.0.
	result, _ := testRun(t, `4 == 4.5 - 0.5;`)
	if result != runtime.BooleanValue(true) {
		t.Errorf("result = %v, want true", result)
	}
}

func TestStringConcatenationWithPlus(t *testing.T) {
	result, _ := testRun(t, `"hi " + "there";`)
	if result != runtime.StringValue("hi there") {
		t.Errorf("result = %v, want %q", result, "hi there")
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	result, _ := testRun(t, `missing;`)
	if !runtime.IsError(result) {
		t.Fatalf("expected a runtime error, got %T (%v)", result, result)
	}
}
