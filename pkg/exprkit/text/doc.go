// Package text provides a condition evaluator over string-keyed variables.
//
// Conditions compare variables and literals and combine the results:
//
//	ok, err := text.Eval("status == 'active' and count > 3", map[string]any{
//	    "status": "active",
//	    "count":  5,
//	})
//
// Supported operators are == != < > <= >= contains, and/or/not (or !).
// Comparisons bind tighter than not, which binds tighter than and, which
// binds tighter than or. Quoted strings may contain delimiters and
// ${name} references; unquoted words resolve to the variable of that name
// or, failing that, to themselves.
//
// The functions lower, upper, len and concat are available, and has(name)
// reports whether a variable is set. Additional binary operators are
// registered with WithCustomOperator.
package text
