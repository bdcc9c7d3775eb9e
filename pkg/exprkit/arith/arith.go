package arith

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/montanaflynn/stats"
	"golang.org/x/text/language"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
	"github.com/randalmurphal/exprkit/pkg/exprkit/config"
)

// Name is the default evaluator name.
const Name = "arith"

// DefaultSemantics returns the handler table for the arithmetic grammar
// with literals parsed in format. It covers both unary minus variants.
func DefaultSemantics(format NumberFormat) *exprkit.Semantics[float64] {
	sem := exprkit.NewSemantics(format.Literal())

	negate := func(_ exprkit.Operator, v []float64, _ any) (float64, error) { return -v[0], nil }
	sem.Operator(Negate, negate).
		Operator(ExcelNegate, negate).
		Operator(Minus, binary(func(a, b float64) float64 { return a - b })).
		Operator(Plus, binary(func(a, b float64) float64 { return a + b })).
		Operator(Multiply, binary(func(a, b float64) float64 { return a * b })).
		Operator(Divide, binary(func(a, b float64) float64 { return a / b })).
		Operator(Modulo, binary(math.Mod)).
		Operator(Exponent, binary(math.Pow))

	for fn, f := range map[exprkit.Function]func(float64) float64{
		Sine:              math.Sin,
		Cosine:            math.Cos,
		Tangent:           math.Tan,
		Arcsine:           math.Asin,
		Arccosine:         math.Acos,
		Arctangent:        math.Atan,
		HyperbolicSine:    math.Sinh,
		HyperbolicCosine:  math.Cosh,
		HyperbolicTangent: math.Tanh,
		Ln:                math.Log,
		Log:               math.Log10,
		Round:             math.Round,
		Abs:               math.Abs,
	} {
		sem.Function(fn, unary(f))
	}

	sem.Function(Min, aggregate(func(args []float64) float64 {
		m := args[0]
		for _, a := range args[1:] {
			m = math.Min(m, a)
		}
		return m
	})).
		Function(Max, aggregate(func(args []float64) float64 {
			m := args[0]
			for _, a := range args[1:] {
				m = math.Max(m, a)
			}
			return m
		})).
		Function(Sum, aggregate(sum)).
		Function(Avg, statistic(stats.Mean)).
		Function(Median, statistic(stats.Median)).
		Function(StdDev, statistic(stats.StandardDeviationPopulation)).
		Function(Random, func(exprkit.Function, []float64, any) (float64, error) {
			return rand.Float64(), nil
		})

	sem.Constant(Pi, constant(math.Pi)).
		Constant(E, constant(math.E))
	return sem
}

func binary(f func(a, b float64) float64) exprkit.OperatorFunc[float64] {
	return func(_ exprkit.Operator, v []float64, _ any) (float64, error) {
		return f(v[0], v[1]), nil
	}
}

func unary(f func(float64) float64) exprkit.FunctionFunc[float64] {
	return func(_ exprkit.Function, args []float64, _ any) (float64, error) {
		return f(args[0]), nil
	}
}

func aggregate(f func([]float64) float64) exprkit.FunctionFunc[float64] {
	return func(_ exprkit.Function, args []float64, _ any) (float64, error) {
		return f(args), nil
	}
}

func statistic(f func(stats.Float64Data) (float64, error)) exprkit.FunctionFunc[float64] {
	return func(_ exprkit.Function, args []float64, _ any) (float64, error) {
		return f(args)
	}
}

func constant(v float64) exprkit.ConstantFunc[float64] {
	return func(exprkit.Constant, any) (float64, error) {
		return v, nil
	}
}

func sum(args []float64) float64 {
	var s float64
	for _, a := range args {
		s += a
	}
	return s
}

// New creates an arithmetic evaluator over params with plain decimal
// literals. params may be a restricted or extended copy of
// DefaultParameters; extensions need their handlers added through
// DefaultSemantics and exprkit.New instead.
func New(params *exprkit.Parameters, opts ...exprkit.Option) (*exprkit.Evaluator[float64], error) {
	return exprkit.New(Name, params, DefaultSemantics(Decimal), opts...)
}

// NewLocalized creates an arithmetic evaluator reading literals in the
// number format of tag, recognizing elements under the translated names
// and separating arguments with separator.
//
// Example:
//
//	ev, err := arith.NewLocalized(language.French,
//	    map[exprkit.Element]string{arith.Sum: "somme"}, ';')
//	v, err := ev.Evaluate("somme(1,5 ; 7 ; -3,5)") // 5
func NewLocalized(tag language.Tag, translations map[exprkit.Element]string, separator rune, opts ...exprkit.Option) (*exprkit.Evaluator[float64], error) {
	params := DefaultParameters(Standard).SetFunctionArgumentSeparator(separator)
	for el, local := range translations {
		params.SetTranslation(el, local)
	}
	return exprkit.New(Name+"."+tag.String(), params, DefaultSemantics(FormatFor(tag)), opts...)
}

// FromConfig creates an arithmetic evaluator from configuration; see
// config.Settings for the keys.
func FromConfig(cfg config.Config, opts ...exprkit.Option) (*exprkit.Evaluator[float64], error) {
	s := config.Settings(cfg, Name)

	style, ok := ParseStyle(s.Style)
	if !ok {
		return nil, fmt.Errorf("%w: unknown arithmetic style %q", exprkit.ErrInvalidParameters, s.Style)
	}

	format := Decimal
	if s.Locale != "" {
		tag, err := language.Parse(s.Locale)
		if err != nil {
			return nil, fmt.Errorf("%w: locale %q: %w", exprkit.ErrInvalidParameters, s.Locale, err)
		}
		format = FormatFor(tag)
	}

	params := s.Restrict(DefaultParameters(style))
	return exprkit.New(s.Name, params, DefaultSemantics(format), append(s.Options(), opts...)...)
}
