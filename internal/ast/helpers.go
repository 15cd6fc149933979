package ast

import (
	"strconv"
)

// quoteString quotes a string literal using Go quoting. Strings whose only
// escapes are \n, \t, \r, \\ and \" print back to the same literal;
// other control characters get Go escapes (\a, \x01, ...) that the Thy
// lexer does not decode.
func quoteString(s string) string {
	return strconv.Quote(s)
}

// toDisplay renders a decoded literal value (int64, float64, bool) the way
// it would appear in source.
func toDisplay(v interface{}) string {
	switch val := v.(type) {
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
