package runtime

import "testing"

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", IntegerValue(1), false)
	v, ok := env.Get("x")
	if !ok || v != IntegerValue(1) {
		t.Fatalf("Get(x) = %v, %v, want 1, true", v, ok)
	}
}

func TestGetWalksOuterChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", IntegerValue(1), false)
	inner := NewEnclosedEnvironment(outer)

	v, ok := inner.Get("x")
	if !ok || v != IntegerValue(1) {
		t.Fatalf("expected inner scope to see outer binding, got %v, %v", v, ok)
	}
	if _, ok := inner.GetLocal("x"); ok {
		t.Errorf("expected GetLocal to miss an outer-only binding")
	}
}

func TestDefineShadowsOuter(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", IntegerValue(1), false)
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", IntegerValue(2), false)

	v, _ := inner.Get("x")
	if v != IntegerValue(2) {
		t.Errorf("expected shadowed binding, got %v", v)
	}
	outerV, _ := outer.Get("x")
	if outerV != IntegerValue(1) {
		t.Errorf("expected outer binding unaffected by shadowing, got %v", outerV)
	}
}

func TestSetAssignsInOuterScope(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", IntegerValue(1), false)
	inner := NewEnclosedEnvironment(outer)

	if err := inner.Set("x", IntegerValue(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := outer.Get("x")
	if v != IntegerValue(5) {
		t.Errorf("expected Set through inner scope to mutate outer binding, got %v", v)
	}
}

func TestSetUndefinedReturnsError(t *testing.T) {
	env := NewEnvironment()
	if err := env.Set("missing", IntegerValue(1)); err == nil {
		t.Fatalf("expected an error assigning to an undefined variable")
	}
}

func TestSetConstReturnsError(t *testing.T) {
	env := NewEnvironment()
	env.Define("pi", FloatValue(3.14), true)
	if err := env.Set("pi", FloatValue(3)); err == nil {
		t.Fatalf("expected an error assigning to a const binding")
	}
	if !env.IsConst("pi") {
		t.Errorf("expected IsConst(pi) = true")
	}
}

func TestRedefineClearsConstFlag(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", IntegerValue(1), true)
	env.Define("x", IntegerValue(2), false)
	if env.IsConst("x") {
		t.Errorf("expected redefining without asConst to clear the const flag")
	}
	if err := env.Set("x", IntegerValue(3)); err != nil {
		t.Errorf("expected Set to succeed after const flag cleared: %v", err)
	}
}

func TestOuterReturnsNilAtRoot(t *testing.T) {
	env := NewEnvironment()
	if env.Outer() != nil {
		t.Errorf("expected root environment's Outer() to be nil")
	}
}
