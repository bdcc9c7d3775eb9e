package exprkit

import (
	"iter"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/randalmurphal/exprkit/pkg/exprkit/registry"
)

// RawToken is a trimmed piece of an expression.
type RawToken struct {
	// Text is the token text without surrounding whitespace.
	Text string
	// Offset and End are the byte offsets of Text in the expression.
	Offset int
	End    int
}

// patterns caches compiled delimiter patterns by source.
var patterns = registry.New[string, *regexp.Regexp](registry.WithCapacity(256))

// Tokenizer splits an expression on delimiters. It is single-pass: once
// consumed, call Tokenize again to restart.
type Tokenizer struct {
	raw     string
	pos     int
	pending []RawToken

	// delims is set on the single-rune fast path.
	delims map[rune]bool
	// re is set otherwise; quoted reports whether group 1 matches quotes.
	re     *regexp.Regexp
	quoted bool
}

// Tokenize returns a tokenizer over raw that emits both the delimiters and
// the text between them. Tokens are trimmed and empty tokens are dropped.
// Text enclosed in one of quotes is never split.
//
// When every delimiter is a single non-word rune and no quotes are given, a
// character-class scan is used. Otherwise delimiters are alternated in a
// regular expression, longest first, so "&&" wins over "&". Delimiters made
// of ASCII word characters only (such as "and") match whole words, where a
// word is any run of Unicode letters, digits and underscores.
func Tokenize(raw string, delimiters []string, quotes ...rune) *Tokenizer {
	t := &Tokenizer{raw: raw}
	if len(quotes) == 0 && allSingleRune(delimiters) {
		t.delims = make(map[rune]bool, len(delimiters))
		for _, d := range delimiters {
			r, _ := utf8.DecodeRuneInString(d)
			t.delims[r] = true
		}
		return t
	}
	t.re = delimiterPattern(delimiters, quotes)
	t.quoted = len(quotes) > 0
	return t
}

func allSingleRune(delimiters []string) bool {
	for _, d := range delimiters {
		r, size := utf8.DecodeRuneInString(d)
		if size != len(d) || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isASCIIWord reports whether s consists of [A-Za-z0-9_] only.
func isASCIIWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// delimiterPattern compiles (or fetches) the split pattern. Quote
// alternatives, if any, come first and are captured in group 1 so that they
// can be told apart from delimiters.
func delimiterPattern(delimiters []string, quotes []rune) *regexp.Regexp {
	sorted := slices.Clone(delimiters)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return len(b) - len(a)
	})

	var alts []string
	if len(quotes) > 0 {
		quoted := make([]string, 0, len(quotes))
		for _, q := range quotes {
			s := regexp.QuoteMeta(string(q))
			quoted = append(quoted, s+"[^"+s+"]*"+s)
		}
		alts = append(alts, "("+strings.Join(quoted, "|")+")")
	}
	for _, d := range sorted {
		if d == "" {
			continue
		}
		s := regexp.QuoteMeta(d)
		if isASCIIWord(d) {
			s = `\b` + s + `\b`
		}
		alts = append(alts, s)
	}
	src := strings.Join(alts, "|")
	return patterns.GetOrCreate(src, func() *regexp.Regexp {
		return regexp.MustCompile(src)
	})
}

// Next returns the next token, or false when the input is exhausted.
func (t *Tokenizer) Next() (RawToken, bool) {
	for len(t.pending) == 0 {
		if t.pos >= len(t.raw) {
			return RawToken{}, false
		}
		start, end := t.nextDelimiter()
		t.emit(t.pos, start)
		if start < end {
			t.emit(start, end)
		}
		t.pos = end
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return tok, true
}

// All returns the remaining tokens as a sequence.
func (t *Tokenizer) All() iter.Seq[RawToken] {
	return func(yield func(RawToken) bool) {
		for {
			tok, ok := t.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// nextDelimiter returns the byte range of the next delimiter at or after
// t.pos, or an empty range at the end of input.
func (t *Tokenizer) nextDelimiter() (int, int) {
	if t.delims != nil {
		for i, r := range t.raw[t.pos:] {
			if t.delims[r] {
				start := t.pos + i
				return start, start + utf8.RuneLen(r)
			}
		}
		return len(t.raw), len(t.raw)
	}

	scan := t.pos
	for scan < len(t.raw) {
		loc := t.re.FindStringSubmatchIndex(t.raw[scan:])
		if loc == nil || loc[0] == loc[1] {
			break
		}
		if t.quoted && loc[2] >= 0 {
			// Quoted text belongs to the current token.
			scan += loc[1]
			continue
		}
		start, end := scan+loc[0], scan+loc[1]
		if t.insideWord(start, end) {
			_, size := utf8.DecodeRuneInString(t.raw[start:])
			scan = start + size
			continue
		}
		return start, end
	}
	return len(t.raw), len(t.raw)
}

// insideWord reports whether the word delimiter at raw[start:end] touches
// a letter or digit. It extends the ASCII-only \b of the pattern to all of
// Unicode, so "or" is not split out of "éor".
func (t *Tokenizer) insideWord(start, end int) bool {
	if !isASCIIWord(t.raw[start:end]) {
		return false
	}
	before, _ := utf8.DecodeLastRuneInString(t.raw[:start])
	after, _ := utf8.DecodeRuneInString(t.raw[end:])
	return start > 0 && isWordRune(before) || end < len(t.raw) && isWordRune(after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// emit queues raw[start:end] trimmed, unless it is blank.
func (t *Tokenizer) emit(start, end int) {
	seg := t.raw[start:end]
	left := strings.TrimLeftFunc(seg, unicode.IsSpace)
	text := strings.TrimRightFunc(left, unicode.IsSpace)
	if text == "" {
		return
	}
	off := start + len(seg) - len(left)
	t.pending = append(t.pending, RawToken{Text: text, Offset: off, End: off + len(text)})
}

// TokenStrings tokenizes raw and returns the token texts.
func TokenStrings(raw string, delimiters []string, quotes ...rune) []string {
	var out []string
	for tok := range Tokenize(raw, delimiters, quotes...).All() {
		out = append(out, tok.Text)
	}
	return out
}
