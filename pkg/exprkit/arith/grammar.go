package arith

import (
	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// Operators.
var (
	// Negate is unary minus. It binds looser than Exponent: -2^2 is -4.
	Negate = exprkit.NewOperator("-", 1, exprkit.Right, 3)
	// ExcelNegate is unary minus binding tighter than Exponent: -2^2 is 4.
	ExcelNegate = exprkit.NewOperator("-", 1, exprkit.Right, 5)
	Minus       = exprkit.NewOperator("-", 2, exprkit.Left, 1)
	Plus        = exprkit.NewOperator("+", 2, exprkit.Left, 1)
	Multiply    = exprkit.NewOperator("*", 2, exprkit.Left, 2)
	Divide      = exprkit.NewOperator("/", 2, exprkit.Left, 2)
	Modulo      = exprkit.NewOperator("%", 2, exprkit.Left, 2)
	Exponent    = exprkit.NewOperator("^", 2, exprkit.Right, 4)
)

// Functions.
var (
	Sine              = exprkit.NewFunction("sin", 1, 1)
	Cosine            = exprkit.NewFunction("cos", 1, 1)
	Tangent           = exprkit.NewFunction("tan", 1, 1)
	Arcsine           = exprkit.NewFunction("asin", 1, 1)
	Arccosine         = exprkit.NewFunction("acos", 1, 1)
	Arctangent        = exprkit.NewFunction("atan", 1, 1)
	HyperbolicSine    = exprkit.NewFunction("sinh", 1, 1)
	HyperbolicCosine  = exprkit.NewFunction("cosh", 1, 1)
	HyperbolicTangent = exprkit.NewFunction("tanh", 1, 1)
	// Ln is the natural logarithm, Log the base 10 one.
	Ln    = exprkit.NewFunction("ln", 1, 1)
	Log   = exprkit.NewFunction("log", 1, 1)
	Round = exprkit.NewFunction("round", 1, 1)
	Abs   = exprkit.NewFunction("abs", 1, 1)
	Min   = exprkit.NewFunction("min", 1, exprkit.Unbounded)
	Max   = exprkit.NewFunction("max", 1, exprkit.Unbounded)
	Sum   = exprkit.NewFunction("sum", 1, exprkit.Unbounded)
	Avg   = exprkit.NewFunction("avg", 1, exprkit.Unbounded)
	// Median and StdDev (population standard deviation) are statistics
	// over their arguments.
	Median = exprkit.NewFunction("median", 1, exprkit.Unbounded)
	StdDev = exprkit.NewFunction("stddev", 1, exprkit.Unbounded)
	// Random returns a pseudo-random number in [0, 1).
	Random = exprkit.NewFunction("random", 0, 0)
)

// Constants.
var (
	Pi = exprkit.NewConstant("pi")
	E  = exprkit.NewConstant("e")
)

// Style selects a grammar variant.
type Style int

const (
	// Standard gives unary minus a lower precedence than exponentiation.
	Standard Style = iota
	// Excel gives unary minus the highest precedence, as spreadsheets do.
	Excel
)

// ParseStyle returns the style named s ("standard" or "excel"). Unknown
// names yield Standard and false.
func ParseStyle(s string) (Style, bool) {
	switch s {
	case "", "standard":
		return Standard, true
	case "excel":
		return Excel, true
	default:
		return Standard, false
	}
}

// DefaultParameters returns a fresh copy of the full arithmetic grammar.
// Callers may restrict or extend it freely.
func DefaultParameters(style Style) *exprkit.Parameters {
	negate := Negate
	if style == Excel {
		negate = ExcelNegate
	}
	return exprkit.NewParameters().
		AddOperators(negate, Minus, Plus, Multiply, Divide, Modulo, Exponent).
		AddFunctions(
			Sine, Cosine, Tangent, Arcsine, Arccosine, Arctangent,
			HyperbolicSine, HyperbolicCosine, HyperbolicTangent,
			Ln, Log, Round, Abs, Min, Max, Sum, Avg, Median, StdDev, Random,
		).
		AddConstants(Pi, E).
		AddBracket(exprkit.Parentheses)
}
