// Package diag formats scanner and parser diagnostics with source
// context, for display on the CLI.
package diag

import (
	"fmt"
	"strings"

	"github.com/AlmostGalactic/Thyddle/internal/token"
)

// Diagnostic is a single non-fatal scanner or parser error. Runtime errors
// are not formatted through this type; the CLI prints them from the
// runtime.ErrorValue directly.
type Diagnostic struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates a Diagnostic.
func New(message, source, file string, pos token.Position) *Diagnostic {
	return &Diagnostic{Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic with the offending source line and a
// caret underneath it. If color is true, ANSI codes highlight the caret
// and message.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d\n", d.File, d.Pos.Line)
	} else {
		fmt.Fprintf(&sb, "Error at line %d\n", d.Pos.Line)
	}

	if line := sourceLine(d.Source, d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^\n")
		if color {
			sb.WriteString("\033[0m")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll formats a batch of diagnostics the way the parser reports
// multiple recovered syntax errors from one run.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d syntax error(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
