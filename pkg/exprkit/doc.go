/*
Package exprkit provides a pluggable operator-precedence expression engine.

# Overview

An evaluator is built from two parts: a grammar (Parameters) listing the
operators, functions, methods, constants and brackets it recognizes, and a
handler table (Semantics) that says how to convert literals and how to
reduce each element to a value. The engine itself knows nothing about the
value type; the same machinery evaluates numbers, booleans or bit sets.

Ready-made evaluators live in subpackages:
  - arith: floating-point arithmetic with trigonometric and aggregate functions
  - boolean: boolean logic over named variables
  - text: comparisons over strings and numbers with variable interpolation

# Basic Usage

	plus := exprkit.NewOperator("+", 2, exprkit.Left, 1)
	times := exprkit.NewOperator("*", 2, exprkit.Left, 2)

	params := exprkit.NewParameters().
	    AddOperators(plus, times).
	    AddExpressionBracket(exprkit.Parentheses)

	sem := exprkit.NewSemantics(func(lit string, _ any) (int, error) {
	    return strconv.Atoi(lit)
	}).
	    Operator(plus, func(_ exprkit.Operator, v []int, _ any) (int, error) { return v[0] + v[1], nil }).
	    Operator(times, func(_ exprkit.Operator, v []int, _ any) (int, error) { return v[0] * v[1], nil })

	ev, err := exprkit.New("int", params, sem)
	if err != nil {
	    log.Fatal(err)
	}
	v, err := ev.Evaluate("2 + 3 * (4 + 1)") // 17

# Operators

An operator has a symbol, an arity (1 or 2), an associativity and a
precedence; higher precedence binds tighter. The same symbol may be
registered once as unary and once as binary. It is read as unary where an
operand is expected (at the start, after an opening bracket, an operator or
a separator) and as binary elsewhere.

# Functions and Methods

Functions receive evaluated arguments. Methods receive the raw, trimmed text
of each argument instead, so that they can interpret it themselves (for
example as a variable name). Both declare minimum and maximum argument
counts; Unbounded allows any number above the minimum.

# Localization

SetTranslation exposes an element under a local name, and
SetFunctionArgumentSeparator replaces the argument separator. Handlers are
keyed by the canonical element, so a translated grammar reuses the same
Semantics.

# Errors

Evaluation returns *Error, classified by ErrorKind. Each kind has a
sentinel:

	if errors.Is(err, exprkit.ErrArity) {
	    // wrong number of arguments
	}

Handler errors are wrapped as Reduction errors unless they wrap a kind
sentinel or an *Error themselves. Handler panics are recovered and reported
as Reduction errors wrapping *PanicError.

# Concurrency

An Evaluator is immutable once built. Every evaluation uses its own state,
so one evaluator can be shared across goroutines.

# Observability

Options enable structured logging (WithLogger), OpenTelemetry metrics
(WithMetrics) and tracing (WithTracing). All are disabled by default.
*/
package exprkit
