// Package boolean provides boolean evaluators.
//
// The record evaluator combines true, false, record fields (var(name)),
// field presence (defined(name)) and the last-record flag (last) with
// !, && and ||:
//
//	rec := boolean.NewMapRecord(map[string]any{"active": true})
//	ev, _ := boolean.Bind(boolean.DefaultParameters(), rec)
//	ok, _ := ev.Evaluate("var(active) && !last")
//
// The set evaluator applies the same operators to fixed-width bit sets
// written as 0/1 strings.
package boolean
