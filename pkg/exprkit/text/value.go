package text

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// bracePattern matches ${varname}.
var bracePattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_.]*)\}`)

// Resolve resolves a literal to a value. It handles quoted strings (with
// ${var} interpolation), booleans, null, numbers and variable lookups.
// Unquoted words that are not variables resolve to themselves.
func Resolve(s string, vars map[string]any) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if isQuoted(s) {
		return Interpolate(s[1:len(s)-1], vars)
	}

	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	case "null", "nil":
		return nil
	}

	// json.Number keeps integers exact.
	var num json.Number
	if err := json.Unmarshal([]byte(s), &num); err == nil {
		if i, err := num.Int64(); err == nil {
			return i
		}
		if f, err := num.Float64(); err == nil {
			return f
		}
	}

	if val, ok := vars[s]; ok {
		return val
	}
	return s
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '\'' || q == '"') && s[len(s)-1] == q
}

// unquote strips matching quotes, if any.
func unquote(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// Interpolate replaces ${name} with the value of vars[name]. Unknown names
// are kept as written.
func Interpolate(s string, vars map[string]any) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return bracePattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := vars[match[2:len(match)-1]]; ok {
			return fmt.Sprintf("%v", val)
		}
		return match
	})
}

// IsTruthy returns whether a value is truthy.
// nil is false, bools return their value, empty strings are false,
// zero numbers are false, everything else is true.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	default:
		return true
	}
}

// ToFloat64 converts a value to float64 for numeric comparison.
// Returns 0 for values that cannot be converted.
func ToFloat64(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f
	default:
		return 0
	}
}

// Compare compares two values using a comparison symbol: == and != compare
// the printed forms, < > <= >= compare numerically, contains tests for a
// substring. Returns an error for unknown symbols.
func Compare(left, right any, op string) (bool, error) {
	switch op {
	case "==":
		return format(left) == format(right), nil
	case "!=":
		return format(left) != format(right), nil
	case "<":
		return ToFloat64(left) < ToFloat64(right), nil
	case ">":
		return ToFloat64(left) > ToFloat64(right), nil
	case "<=":
		return ToFloat64(left) <= ToFloat64(right), nil
	case ">=":
		return ToFloat64(left) >= ToFloat64(right), nil
	case "contains":
		return strings.Contains(format(left), format(right)), nil
	default:
		return false, fmt.Errorf("unknown operator: %s", op)
	}
}

func format(v any) string {
	return fmt.Sprintf("%v", v)
}
