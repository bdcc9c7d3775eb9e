package arith

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// NumberFormat describes how decimal literals are written.
type NumberFormat struct {
	// Decimal separates the integer part from the fraction.
	Decimal rune
	// Grouping separates thousands. Empty means grouping is not accepted.
	Grouping string
}

// Decimal is the plain format: "1234.5".
var Decimal = NumberFormat{Decimal: '.'}

// FormatFor returns the number format of a locale, as rendered by
// golang.org/x/text/message.
func FormatFor(tag language.Tag) NumberFormat {
	// A known number with both a grouping and a decimal separator.
	s := message.NewPrinter(tag).Sprintf("%.1f", 1234.5)

	i := strings.IndexRune(s, '1')
	j := strings.Index(s, "234")
	k := strings.LastIndexByte(s, '5')
	if i < 0 || j < 0 || k < 0 || j+3 > k {
		return Decimal
	}
	f := NumberFormat{Grouping: s[i+1 : j]}
	f.Decimal, _ = utf8.DecodeRuneInString(s[j+3 : k])
	if f.Decimal == utf8.RuneError {
		return Decimal
	}
	return f
}

// Parse converts a literal written in format f.
//
// Text starting like a number and made only of digits, separators and an
// exponent marker yields an error wrapping exprkit.ErrLiteral when it does
// not parse. Any other text, such as "abc" or "3^2" in a grammar without
// ^, yields exprkit.ErrUnknownSymbol. Exponents are unsigned: "1e-5" is
// split on the minus operator before it reaches Parse.
func (f NumberFormat) Parse(s string) (float64, error) {
	if !f.numeric(s) || !f.spelled(s) {
		return 0, fmt.Errorf("%w: %q", exprkit.ErrUnknownSymbol, s)
	}

	clean := s
	if f.Grouping != "" {
		clean = strings.ReplaceAll(clean, f.Grouping, "")
	}
	if f.Decimal != '.' {
		if strings.ContainsRune(clean, '.') {
			return 0, fmt.Errorf("%w: %q is not a number", exprkit.ErrLiteral, s)
		}
		clean = strings.ReplaceAll(clean, string(f.Decimal), ".")
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", exprkit.ErrLiteral, s)
	}
	return v, nil
}

// numeric reports whether s starts like a number.
func (f NumberFormat) numeric(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r) || r == f.Decimal
}

// spelled reports whether every rune of s belongs to the number alphabet.
func (f NumberFormat) spelled(s string) bool {
	for _, r := range s {
		switch {
		case unicode.IsDigit(r), r == '.', r == f.Decimal, r == 'e', r == 'E':
		case f.Grouping != "" && strings.ContainsRune(f.Grouping, r):
		default:
			return false
		}
	}
	return true
}

// Literal returns a literal converter for f.
func (f NumberFormat) Literal() exprkit.LiteralFunc[float64] {
	return func(literal string, _ any) (float64, error) {
		return f.Parse(literal)
	}
}
