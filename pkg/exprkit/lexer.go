package exprkit

import (
	"unicode"
	"unicode/utf8"
)

// lexicon is the lookup form of a validated Parameters snapshot.
type lexicon struct {
	unary      map[string]Operator
	binary     map[string]Operator
	functions  map[string]Function
	methods    map[string]Method
	constants  map[string]Constant
	exprOpen   map[string]BracketPair
	funcOpen   map[string]BracketPair
	closes     map[string]bool
	separator  string
	delimiters []string
	quotes     []rune
}

func compileLexicon(p *Parameters) *lexicon {
	lx := &lexicon{
		unary:      make(map[string]Operator),
		binary:     make(map[string]Operator),
		functions:  make(map[string]Function),
		methods:    make(map[string]Method),
		constants:  make(map[string]Constant),
		exprOpen:   make(map[string]BracketPair),
		funcOpen:   make(map[string]BracketPair),
		closes:     make(map[string]bool),
		separator:  string(p.separator),
		delimiters: p.Delimiters(),
		quotes:     p.quotes,
	}
	for _, op := range p.operators {
		if op.arity == 1 {
			lx.unary[p.Translate(op)] = op
		} else {
			lx.binary[p.Translate(op)] = op
		}
	}
	for _, f := range p.functions {
		lx.functions[p.Translate(f)] = f
	}
	for _, m := range p.methods {
		lx.methods[p.Translate(m)] = m
	}
	for _, c := range p.constants {
		lx.constants[p.Translate(c)] = c
	}
	for _, b := range p.expressionBrackets {
		lx.exprOpen[b.open] = b
		lx.closes[b.close] = true
	}
	for _, b := range p.functionBrackets {
		lx.funcOpen[b.open] = b
		lx.closes[b.close] = true
	}
	return lx
}

func (lx *lexicon) isOpen(s string) bool {
	_, expr := lx.exprOpen[s]
	_, fn := lx.funcOpen[s]
	return expr || fn
}

// lexer classifies raw tokens one at a time, using the previous token to
// tell unary from binary operators.
type lexer struct {
	lx      *lexicon
	toks    *Tokenizer
	peeked  *RawToken
	prev    Token
	hasPrev bool
}

func newLexer(lx *lexicon, expression string) *lexer {
	return &lexer{
		lx:   lx,
		toks: Tokenize(expression, lx.delimiters, lx.quotes...),
	}
}

func (l *lexer) nextRaw() (RawToken, bool) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, true
	}
	return l.toks.Next()
}

func (l *lexer) peekRaw() (RawToken, bool) {
	if l.peeked == nil {
		tok, ok := l.toks.Next()
		if !ok {
			return RawToken{}, false
		}
		l.peeked = &tok
	}
	return *l.peeked, true
}

// operandPosition reports whether the next token must start an operand.
func (l *lexer) operandPosition() bool {
	if !l.hasPrev {
		return true
	}
	switch l.prev.Kind {
	case OpenBracket, OperatorToken, Separator, FunctionToken:
		return true
	default:
		return false
	}
}

// setPrev records tok as the previous token.
func (l *lexer) setPrev(tok Token) {
	l.prev = tok
	l.hasPrev = true
}

// next returns the next classified token, or false at the end of input.
func (l *lexer) next() (Token, bool, error) {
	raw, ok := l.nextRaw()
	if !ok {
		return Token{}, false, nil
	}
	tok, err := l.classify(raw)
	if err != nil {
		return Token{}, false, err
	}
	l.setPrev(tok)
	return tok, true, nil
}

func (l *lexer) classify(raw RawToken) (Token, error) {
	text := raw.Text
	tok := Token{Text: text, Offset: raw.Offset, End: raw.End}
	lx := l.lx

	if l.lx.isOpen(text) {
		tok.Kind = OpenBracket
		if l.hasPrev && l.prev.Kind == FunctionToken {
			tok.Bracket = lx.funcOpen[text]
			return tok, nil
		}
		if l.hasPrev && l.prev.endsOperand() {
			return tok, newError(Malformed, raw.Offset, text, "missing operator before bracket")
		}
		pair, ok := lx.exprOpen[text]
		if !ok {
			return tok, newError(Malformed, raw.Offset, text, "bracket only delimits function arguments")
		}
		tok.Bracket = pair
		return tok, nil
	}

	if lx.closes[text] {
		tok.Kind = CloseBracket
		if l.hasPrev && (l.prev.Kind == OperatorToken || l.prev.Kind == Separator) {
			return tok, newError(Malformed, raw.Offset, text, "missing operand before bracket")
		}
		return tok, nil
	}

	if text == lx.separator {
		tok.Kind = Separator
		if l.operandPosition() {
			return tok, newError(Malformed, raw.Offset, text, "missing argument before separator")
		}
		return tok, nil
	}

	unary, hasUnary := lx.unary[text]
	binary, hasBinary := lx.binary[text]
	if hasUnary || hasBinary {
		tok.Kind = OperatorToken
		if l.operandPosition() {
			if !hasUnary {
				return tok, newError(Malformed, raw.Offset, text, "missing left operand for operator")
			}
			tok.Operator = unary
			return tok, nil
		}
		if !hasBinary {
			return tok, newError(Malformed, raw.Offset, text, "unary operator used in binary position")
		}
		tok.Operator = binary
		return tok, nil
	}

	if !l.operandPosition() {
		return tok, newError(Malformed, raw.Offset, text, "missing operator before")
	}

	fn, isFunction := lx.functions[text]
	method, isMethod := lx.methods[text]
	if (isFunction || isMethod) && l.callFollows() {
		tok.Kind = FunctionToken
		tok.Function = fn
		tok.Method = method
		tok.IsMethod = isMethod
		return tok, nil
	}

	if c, ok := lx.constants[text]; ok {
		tok.Kind = ConstantToken
		tok.Constant = c
		return tok, nil
	}

	tok.Kind = Literal
	if isIdentifier(text) && l.callFollows() {
		return tok, newError(UnknownSymbol, raw.Offset, text, "unknown function")
	}
	return tok, nil
}

// callFollows reports whether the next raw token opens an argument list.
// A function name without one is left to the constant and literal checks.
func (l *lexer) callFollows() bool {
	next, ok := l.peekRaw()
	if !ok {
		return false
	}
	_, open := l.lx.funcOpen[next.Text]
	return open
}

// isIdentifier reports whether s looks like a name rather than a value.
func isIdentifier(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r)
}
