package boolean_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
	"github.com/randalmurphal/exprkit/pkg/exprkit/boolean"
)

// TestParseBits tests bit set parsing and formatting.
func TestParseBits(t *testing.T) {
	b, err := boolean.ParseBits("0110")
	require.NoError(t, err)
	assert.Equal(t, 4, b.Width())
	assert.Equal(t, "0110", b.String())
	assert.Equal(t, 2, b.Count())
	assert.True(t, b.Test(1))
	assert.False(t, b.Test(0))

	for _, bad := range []string{"", "012", "abc", "1 0"} {
		_, err := boolean.ParseBits(bad)
		assert.Error(t, err, bad)
	}
}

// TestBits_Operations tests complement, intersection and union.
func TestBits_Operations(t *testing.T) {
	a := boolean.MustParseBits("0011")
	b := boolean.MustParseBits("0101")

	assert.Equal(t, "1100", a.Complement().String())
	assert.Equal(t, "0000", boolean.MustParseBits("1111").Complement().String())

	and, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Equal(t, "0001", and.String())

	or, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, "0111", or.String())

	_, err = a.Union(boolean.MustParseBits("01"))
	assert.ErrorIs(t, err, boolean.ErrWidthMismatch)

	assert.True(t, a.Equal(boolean.MustParseBits("0011")))
	assert.False(t, a.Equal(boolean.MustParseBits("011")))
}

// TestNewSet tests the bit set evaluator.
func TestNewSet(t *testing.T) {
	ev, err := boolean.NewSet()
	require.NoError(t, err)

	tests := []struct {
		expr string
		want string
	}{
		{"0011", "0011"},
		{"!0011", "1100"},
		{"0011 && 0101", "0001"},
		{"0011 || 0101", "0111"},
		{"!(0011 && 0101) || 1000", "1110"},
		{"0001 || 0010 && 0110", "0011"},
		{"00000000000000000000000000000000000000000000000000000000000000001 || 1" +
			"0000000000000000000000000000000000000000000000000000000000000000",
			"10000000000000000000000000000000000000000000000000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ev.Evaluate(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err = ev.Evaluate("0011 && 01")
	assert.Equal(t, exprkit.Reduction, exprkit.KindOf(err))
	assert.ErrorIs(t, err, boolean.ErrWidthMismatch)

	_, err = ev.Evaluate("0012")
	assert.Equal(t, exprkit.LiteralConversion, exprkit.KindOf(err))
}
