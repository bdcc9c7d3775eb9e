package exprkit

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// Integer test grammar.
var (
	tPlus  = NewOperator("+", 2, Left, 1)
	tMinus = NewOperator("-", 2, Left, 1)
	tNeg   = NewOperator("-", 1, Right, 3)
	tTimes = NewOperator("*", 2, Left, 2)
	tDiv   = NewOperator("/", 2, Left, 2)
	tMod   = NewOperator("mod", 2, Left, 2)
	tPow   = NewOperator("^", 2, Right, 4)

	tMax  = NewFunction("max", 1, Unbounded)
	tAdd  = NewFunction("add", 2, 2)
	tZero = NewFunction("zero", 0, 0)

	tLen   = NewMethod("len", 1, 1)
	tCount = NewMethod("count", 0, Unbounded)
	tVar   = NewMethod("var", 1, 1)

	tTen = NewConstant("ten")
)

var errDivByZero = errors.New("division by zero")

func intParams() *Parameters {
	return NewParameters().
		AddOperators(tPlus, tMinus, tNeg, tTimes, tDiv, tMod, tPow).
		AddFunctions(tMax, tAdd, tZero).
		AddMethods(tLen, tCount, tVar).
		AddConstants(tTen).
		AddBracket(Parentheses)
}

func intLiteral(lit string, _ any) (int, error) {
	if isIdentifier(lit) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownSymbol, lit)
	}
	return strconv.Atoi(lit)
}

func intSemantics() *Semantics[int] {
	return NewSemantics(intLiteral).
		Operator(tPlus, func(_ Operator, v []int, _ any) (int, error) { return v[0] + v[1], nil }).
		Operator(tMinus, func(_ Operator, v []int, _ any) (int, error) { return v[0] - v[1], nil }).
		Operator(tNeg, func(_ Operator, v []int, _ any) (int, error) { return -v[0], nil }).
		Operator(tTimes, func(_ Operator, v []int, _ any) (int, error) { return v[0] * v[1], nil }).
		Operator(tDiv, func(_ Operator, v []int, _ any) (int, error) {
			if v[1] == 0 {
				return 0, errDivByZero
			}
			return v[0] / v[1], nil
		}).
		Operator(tMod, func(_ Operator, v []int, _ any) (int, error) {
			if v[1] == 0 {
				return 0, errDivByZero
			}
			return v[0] % v[1], nil
		}).
		Operator(tPow, func(_ Operator, v []int, _ any) (int, error) {
			if v[1] < 0 {
				return 0, errors.New("negative exponent")
			}
			r := 1
			for range v[1] {
				r *= v[0]
			}
			return r, nil
		}).
		Function(tMax, func(_ Function, args []int, _ any) (int, error) {
			m := args[0]
			for _, a := range args[1:] {
				m = max(m, a)
			}
			return m, nil
		}).
		Function(tAdd, func(_ Function, args []int, _ any) (int, error) { return args[0] + args[1], nil }).
		Function(tZero, func(_ Function, _ []int, _ any) (int, error) { return 0, nil }).
		Method(tLen, func(_ Method, args []string, _ any) (int, error) { return len(args[0]), nil }).
		Method(tCount, func(_ Method, args []string, _ any) (int, error) { return len(args), nil }).
		Method(tVar, func(_ Method, args []string, evalCtx any) (int, error) {
			vars, _ := evalCtx.(map[string]int)
			v, ok := vars[args[0]]
			if !ok {
				return 0, fmt.Errorf("%w: variable %s", ErrUnknownSymbol, args[0])
			}
			return v, nil
		}).
		Constant(tTen, func(_ Constant, _ any) (int, error) { return 10, nil })
}

func newIntEvaluator(t *testing.T, opts ...Option) *Evaluator[int] {
	t.Helper()
	ev, err := New("int", intParams(), intSemantics(), opts...)
	require.NoError(t, err)
	return ev
}
