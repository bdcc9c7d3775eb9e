package text

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// Name is the default evaluator name.
const Name = "text"

// Operators. Comparisons bind tighter than negation, so "not a == b"
// negates the comparison.
var (
	Not  = exprkit.NewOperator("not", 1, exprkit.Right, 3)
	Bang = exprkit.NewOperator("!", 1, exprkit.Right, 3)
	And  = exprkit.NewOperator("and", 2, exprkit.Left, 2)
	Or   = exprkit.NewOperator("or", 2, exprkit.Left, 1)

	Equal        = exprkit.NewOperator("==", 2, exprkit.Left, 4)
	NotEqual     = exprkit.NewOperator("!=", 2, exprkit.Left, 4)
	Less         = exprkit.NewOperator("<", 2, exprkit.Left, 4)
	Greater      = exprkit.NewOperator(">", 2, exprkit.Left, 4)
	LessEqual    = exprkit.NewOperator("<=", 2, exprkit.Left, 4)
	GreaterEqual = exprkit.NewOperator(">=", 2, exprkit.Left, 4)
	Contains     = exprkit.NewOperator("contains", 2, exprkit.Left, 4)
)

// comparisons lists the operators reduced by Compare.
var comparisons = []exprkit.Operator{Equal, NotEqual, Less, Greater, LessEqual, GreaterEqual, Contains}

// Functions and methods.
var (
	Lower  = exprkit.NewFunction("lower", 1, 1)
	Upper  = exprkit.NewFunction("upper", 1, 1)
	Len    = exprkit.NewFunction("len", 1, 1)
	Concat = exprkit.NewFunction("concat", 1, exprkit.Unbounded)

	// Has reports whether a variable is set: has(name).
	Has = exprkit.NewMethod("has", 1, 1)
)

// BinaryOp is a function that compares two values and returns a boolean result.
type BinaryOp func(left, right any) bool

// DefaultParameters returns a fresh copy of the text grammar.
func DefaultParameters() *exprkit.Parameters {
	return exprkit.NewParameters().
		AddOperators(Not, Bang, And, Or).
		AddOperators(comparisons...).
		AddFunctions(Lower, Upper, Len, Concat).
		AddMethods(Has).
		AddBracket(exprkit.Parentheses).
		AddQuotes('\'', '"')
}

// DefaultSemantics returns the text handler table. The evaluation context,
// if a map[string]any, supplies the variables.
func DefaultSemantics() *exprkit.Semantics[any] {
	sem := exprkit.NewSemantics(func(literal string, evalCtx any) (any, error) {
		return Resolve(literal, variables(evalCtx)), nil
	})

	negate := func(_ exprkit.Operator, v []any, _ any) (any, error) { return !IsTruthy(v[0]), nil }
	sem.Operator(Not, negate).
		Operator(Bang, negate).
		Operator(And, func(_ exprkit.Operator, v []any, _ any) (any, error) {
			return IsTruthy(v[0]) && IsTruthy(v[1]), nil
		}).
		Operator(Or, func(_ exprkit.Operator, v []any, _ any) (any, error) {
			return IsTruthy(v[0]) || IsTruthy(v[1]), nil
		})
	for _, op := range comparisons {
		sem.Operator(op, func(op exprkit.Operator, v []any, _ any) (any, error) {
			return Compare(v[0], v[1], op.Symbol())
		})
	}

	return sem.
		Function(Lower, func(_ exprkit.Function, args []any, _ any) (any, error) {
			return cases.Lower(language.Und).String(format(args[0])), nil
		}).
		Function(Upper, func(_ exprkit.Function, args []any, _ any) (any, error) {
			return cases.Upper(language.Und).String(format(args[0])), nil
		}).
		Function(Len, func(_ exprkit.Function, args []any, _ any) (any, error) {
			switch v := args[0].(type) {
			case nil:
				return int64(0), nil
			case []any:
				return int64(len(v)), nil
			case map[string]any:
				return int64(len(v)), nil
			default:
				return int64(utf8.RuneCountInString(format(v))), nil
			}
		}).
		Function(Concat, func(_ exprkit.Function, args []any, _ any) (any, error) {
			var b strings.Builder
			for _, a := range args {
				if a != nil {
					b.WriteString(format(a))
				}
			}
			return b.String(), nil
		}).
		Method(Has, func(_ exprkit.Method, args []string, evalCtx any) (any, error) {
			_, ok := variables(evalCtx)[unquote(args[0])]
			return ok, nil
		})
}

func variables(evalCtx any) map[string]any {
	vars, _ := evalCtx.(map[string]any)
	return vars
}

// Evaluator evaluates conditions over variables.
type Evaluator struct {
	ev *exprkit.Evaluator[any]
}

type options struct {
	custom map[string]BinaryOp
	order  []string
	engine []exprkit.Option
}

// Option configures an Evaluator.
type Option func(*options)

// WithCustomOperator registers a custom binary operator with the
// precedence of the comparisons. Word operators such as "matches" match
// whole words only.
func WithCustomOperator(name string, fn BinaryOp) Option {
	return func(o *options) {
		if o.custom == nil {
			o.custom = make(map[string]BinaryOp)
		}
		if _, ok := o.custom[name]; !ok {
			o.order = append(o.order, name)
		}
		o.custom[name] = fn
	}
}

// WithEngineOptions passes options to the underlying engine.
func WithEngineOptions(opts ...exprkit.Option) Option {
	return func(o *options) {
		o.engine = append(o.engine, opts...)
	}
}

// New creates a new Evaluator with the given options. It fails if a
// custom operator clashes with a built-in one.
func New(opts ...Option) (*Evaluator, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	params := DefaultParameters()
	sem := DefaultSemantics()
	for _, name := range o.order {
		fn := o.custom[name]
		op := exprkit.NewOperator(name, 2, exprkit.Left, 4)
		params.AddOperators(op)
		sem.Operator(op, func(_ exprkit.Operator, v []any, _ any) (any, error) {
			return fn(v[0], v[1]), nil
		})
	}

	ev, err := exprkit.New(Name, params, sem, o.engine...)
	if err != nil {
		return nil, fmt.Errorf("text evaluator: %w", err)
	}
	return &Evaluator{ev: ev}, nil
}

// Evaluate evaluates a condition against vars and reports its truthiness.
// An empty condition is false.
func (e *Evaluator) Evaluate(expr string, vars map[string]any) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return false, nil
	}
	v, err := e.ev.EvaluateWith(expr, vars)
	if err != nil {
		return false, err
	}
	return IsTruthy(v), nil
}

// Value evaluates expr against vars and returns the raw result.
func (e *Evaluator) Value(expr string, vars map[string]any) (any, error) {
	return e.ev.EvaluateWith(expr, vars)
}

// Check validates expr without evaluating it.
func (e *Evaluator) Check(expr string) error {
	return e.ev.Check(expr)
}

var defaultEvaluator = sync.OnceValues(func() (*Evaluator, error) {
	return New()
})

// Eval is a convenience function that evaluates a condition using the
// default evaluator (no custom operators).
func Eval(expr string, vars map[string]any) (bool, error) {
	ev, err := defaultEvaluator()
	if err != nil {
		return false, err
	}
	return ev.Evaluate(expr, vars)
}
