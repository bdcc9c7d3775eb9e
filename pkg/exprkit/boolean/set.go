package boolean

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// ErrWidthMismatch indicates a set operation on bit sets of different widths.
var ErrWidthMismatch = errors.New("bit set width mismatch")

// Bits is a fixed-width bit set, written most significant bit first as a
// string of 0 and 1, e.g. "0110".
type Bits struct {
	width int
	v     *big.Int
}

// ParseBits parses a string of 0 and 1.
func ParseBits(s string) (Bits, error) {
	if s == "" || strings.Trim(s, "01") != "" {
		return Bits{}, fmt.Errorf("%q is not a bit set", s)
	}
	v, _ := new(big.Int).SetString(s, 2)
	return Bits{width: len(s), v: v}, nil
}

// MustParseBits is ParseBits that panics on error.
func MustParseBits(s string) Bits {
	b, err := ParseBits(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the number of bits.
func (b Bits) Width() int { return b.width }

// Test reports whether bit i, counted from the least significant, is set.
func (b Bits) Test(i int) bool {
	return b.v != nil && b.v.Bit(i) == 1
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	n := 0
	for i := range b.width {
		if b.Test(i) {
			n++
		}
	}
	return n
}

// Equal reports whether b and o have the same width and bits.
func (b Bits) Equal(o Bits) bool {
	if b.width != o.width {
		return false
	}
	if b.v == nil || o.v == nil {
		return b.Count() == 0 && o.Count() == 0
	}
	return b.v.Cmp(o.v) == 0
}

// String returns the bits most significant first.
func (b Bits) String() string {
	if b.width == 0 {
		return ""
	}
	s := "0"
	if b.v != nil {
		s = b.v.Text(2)
	}
	return strings.Repeat("0", b.width-len(s)) + s
}

// Complement returns b with every bit flipped.
func (b Bits) Complement() Bits {
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(b.width)), big.NewInt(1))
	v := new(big.Int)
	if b.v != nil {
		v.Set(b.v)
	}
	return Bits{width: b.width, v: v.Xor(v, mask)}
}

// Intersect returns the bits set in both b and o.
func (b Bits) Intersect(o Bits) (Bits, error) {
	return b.combine(o, (*big.Int).And)
}

// Union returns the bits set in either b or o.
func (b Bits) Union(o Bits) (Bits, error) {
	return b.combine(o, (*big.Int).Or)
}

func (b Bits) combine(o Bits, op func(z, x, y *big.Int) *big.Int) (Bits, error) {
	if b.width != o.width {
		return Bits{}, fmt.Errorf("%w: %d and %d", ErrWidthMismatch, b.width, o.width)
	}
	x, y := b.v, o.v
	if x == nil {
		x = new(big.Int)
	}
	if y == nil {
		y = new(big.Int)
	}
	return Bits{width: b.width, v: op(new(big.Int), x, y)}, nil
}

// SetParameters returns a fresh copy of the bit set grammar: ! for
// complement, && for intersection and || for union.
func SetParameters() *exprkit.Parameters {
	return exprkit.NewParameters().
		AddOperators(Not, And, Or).
		AddExpressionBracket(exprkit.Parentheses)
}

// SetSemantics returns the bit set handler table.
func SetSemantics() *exprkit.Semantics[Bits] {
	return exprkit.NewSemantics(parseBitsLiteral).
		Operator(Not, func(_ exprkit.Operator, v []Bits, _ any) (Bits, error) { return v[0].Complement(), nil }).
		Operator(And, func(_ exprkit.Operator, v []Bits, _ any) (Bits, error) { return v[0].Intersect(v[1]) }).
		Operator(Or, func(_ exprkit.Operator, v []Bits, _ any) (Bits, error) { return v[0].Union(v[1]) })
}

func parseBitsLiteral(literal string, _ any) (Bits, error) {
	b, err := ParseBits(literal)
	if err != nil {
		return Bits{}, fmt.Errorf("%w: %w", exprkit.ErrLiteral, err)
	}
	return b, nil
}

// NewSet creates a bit set evaluator.
//
// Example:
//
//	ev, _ := boolean.NewSet()
//	v, _ := ev.Evaluate("!(0011 && 0101) || 1000") // 1110
func NewSet(opts ...exprkit.Option) (*exprkit.Evaluator[Bits], error) {
	return exprkit.New(Name+".set", SetParameters(), SetSemantics(), opts...)
}
