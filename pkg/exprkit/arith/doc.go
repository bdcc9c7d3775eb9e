// Package arith provides a floating-point arithmetic evaluator.
//
// The default grammar has + - * / % ^ and unary minus, trigonometric,
// logarithmic and aggregate functions (min, max, sum, avg), random(), and
// the constants pi and e:
//
//	ev, _ := arith.New(arith.DefaultParameters(arith.Standard))
//	v, _ := ev.Evaluate("(2^3-1)*sin(pi/4)/ln(pi^2)") // 2.1619718020347976
//
// Literals are parsed by NumberFormat. Exponents are unsigned ("1e5"):
// "1e-5" splits on the minus operator, so write "1/1e5" instead.
//
// DefaultParameters returns a fresh copy, so a restricted calculator is
// built by removing elements, and an extended one by adding elements and
// their handlers to a clone of DefaultSemantics.
package arith
