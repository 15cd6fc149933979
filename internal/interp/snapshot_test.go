package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AlmostGalactic/Thyddle/internal/interp/runtime"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestConsoleOutputTranscriptSnapshot snapshots the full stdout transcript
// of small multi-statement programs, the way fixture-style interpreter
// tests snapshot a run's combined output rather than asserting on one
// final value.
func TestConsoleOutputTranscriptSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name: "loop_with_continue",
			source: `
				for (var i = 0; i < 5; i = i + 1) {
					if (i % 2 == 0) { continue; }
					console.output.println(i);
				}
			`,
		},
		{
			name: "closures_and_arrays",
			source: `
				func makeCounter() {
					var n = 0;
					return () -> {
						n = n + 1;
						return n;
					};
				}
				var next = makeCounter();
				console.output.println(next());
				console.output.println(next());
				console.output.println(next());

				var a = [1, 2, 3];
				array.append(a, 4);
				console.output.println(a);
			`,
		},
		{
			name: "object_and_string_builtins",
			source: `
				var o = { name: "thy", count: 3 };
				console.output.println(o.name);
				console.output.println(tostr(o.count));
				console.output.println(reverse("abc"));
				console.output.println(split("a,b,c", ","));
			`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			it := New(&buf, strings.NewReader(""))
			result, errs := it.Run(tt.source)
			if len(errs) != 0 {
				t.Fatalf("unexpected syntax errors: %v", errs)
			}
			if runtime.IsError(result) {
				t.Fatalf("unexpected runtime error: %s", result.String())
			}
			snaps.MatchSnapshot(t, buf.String())
		})
	}
}
