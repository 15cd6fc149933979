package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		ident string
		want  Type
	}{
		{"func", FUNC},
		{"var", VAR},
		{"const", CONST},
		{"nothing", NIL},
		{"while", WHILE},
		{"somethingElse", IDENTIFIER},
		{"Func", IDENTIFIER}, // case-sensitive: differs from the keyword "func"
	}

	for _, tt := range tests {
		if got := Lookup(tt.ident); got != tt.want {
			t.Errorf("Lookup(%q) = %v, want %v", tt.ident, got, tt.want)
		}
	}
}

func TestTypeString(t *testing.T) {
	if got := PLUS.String(); got != "+" {
		t.Errorf("PLUS.String() = %q, want %q", got, "+")
	}
	if got := Type(9999).String(); got != "Type(9999)" {
		t.Errorf("unknown Type.String() = %q, want %q", got, "Type(9999)")
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 7}
	if got := p.String(); got != "line 7" {
		t.Errorf("Position.String() = %q, want %q", got, "line 7")
	}
}
