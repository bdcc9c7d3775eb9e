package exprkit

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// elementKey identifies a callable element in the translation table.
type elementKey struct {
	kind ElementKind
	name string
}

// Parameters is the grammar an evaluator recognizes.
//
// Parameters is built accretively with chaining methods; problems are
// reported by Validate, which New calls. An evaluator works on its own
// snapshot, so mutating Parameters after New has no effect on it.
//
// Example:
//
//	params := exprkit.NewParameters().
//	    AddOperators(plus, minus).
//	    AddExpressionBracket(exprkit.Parentheses).
//	    SetFunctionArgumentSeparator(';')
type Parameters struct {
	operators          []Operator
	functions          []Function
	methods            []Method
	constants          []Constant
	expressionBrackets []BracketPair
	functionBrackets   []BracketPair
	separator          rune
	translations       map[elementKey]string
	quotes             []rune
}

// DefaultSeparator is the default function argument separator.
const DefaultSeparator = ','

// NewParameters creates an empty grammar using ',' as argument separator.
func NewParameters() *Parameters {
	return &Parameters{
		separator:    DefaultSeparator,
		translations: make(map[elementKey]string),
	}
}

// AddOperators registers operators.
func (p *Parameters) AddOperators(ops ...Operator) *Parameters {
	p.operators = append(p.operators, ops...)
	return p
}

// AddFunctions registers functions.
func (p *Parameters) AddFunctions(fns ...Function) *Parameters {
	p.functions = append(p.functions, fns...)
	return p
}

// AddMethods registers methods.
func (p *Parameters) AddMethods(methods ...Method) *Parameters {
	p.methods = append(p.methods, methods...)
	return p
}

// AddConstants registers constants.
func (p *Parameters) AddConstants(consts ...Constant) *Parameters {
	p.constants = append(p.constants, consts...)
	return p
}

// AddExpressionBracket registers a grouping bracket pair.
func (p *Parameters) AddExpressionBracket(pair BracketPair) *Parameters {
	if !slices.Contains(p.expressionBrackets, pair) {
		p.expressionBrackets = append(p.expressionBrackets, pair)
	}
	return p
}

// AddFunctionBracket registers a bracket pair delimiting call arguments.
func (p *Parameters) AddFunctionBracket(pair BracketPair) *Parameters {
	if !slices.Contains(p.functionBrackets, pair) {
		p.functionBrackets = append(p.functionBrackets, pair)
	}
	return p
}

// AddBracket registers a pair for both grouping and calls.
func (p *Parameters) AddBracket(pair BracketPair) *Parameters {
	return p.AddExpressionBracket(pair).AddFunctionBracket(pair)
}

// SetFunctionArgumentSeparator replaces the argument separator.
func (p *Parameters) SetFunctionArgumentSeparator(sep rune) *Parameters {
	p.separator = sep
	return p
}

// FunctionArgumentSeparator returns the argument separator.
func (p *Parameters) FunctionArgumentSeparator() rune {
	return p.separator
}

// SetTranslation makes the grammar recognize element under localName
// instead of its canonical name. The handler registered for the element
// is unaffected.
//
// Example:
//
//	params.SetTranslation(arith.Sum, "somme")
func (p *Parameters) SetTranslation(element Element, localName string) *Parameters {
	if p.translations == nil {
		p.translations = make(map[elementKey]string)
	}
	p.translations[elementKey{kind: element.Kind(), name: element.Name()}] = localName
	return p
}

// Translate returns the name under which element is recognized.
func (p *Parameters) Translate(element Element) string {
	if local, ok := p.translations[elementKey{kind: element.Kind(), name: element.Name()}]; ok {
		return local
	}
	return element.Name()
}

// AddQuotes registers quote characters. Text between a quote and the next
// occurrence of the same quote is never split by the tokenizer.
func (p *Parameters) AddQuotes(quotes ...rune) *Parameters {
	for _, q := range quotes {
		if !slices.Contains(p.quotes, q) {
			p.quotes = append(p.quotes, q)
		}
	}
	return p
}

// Remove unregisters elements. Unknown elements are ignored.
func (p *Parameters) Remove(elements ...Element) *Parameters {
	for _, el := range elements {
		switch e := el.(type) {
		case Operator:
			p.operators = slices.DeleteFunc(p.operators, func(o Operator) bool { return o == e })
		case Function:
			p.functions = slices.DeleteFunc(p.functions, func(f Function) bool { return f == e })
		case Method:
			p.methods = slices.DeleteFunc(p.methods, func(m Method) bool { return m == e })
		case Constant:
			p.constants = slices.DeleteFunc(p.constants, func(c Constant) bool { return c == e })
		}
		delete(p.translations, elementKey{kind: el.Kind(), name: el.Name()})
	}
	return p
}

// Operators returns the registered operators.
func (p *Parameters) Operators() []Operator { return slices.Clone(p.operators) }

// Functions returns the registered functions.
func (p *Parameters) Functions() []Function { return slices.Clone(p.functions) }

// Methods returns the registered methods.
func (p *Parameters) Methods() []Method { return slices.Clone(p.methods) }

// Constants returns the registered constants.
func (p *Parameters) Constants() []Constant { return slices.Clone(p.constants) }

// ExpressionBrackets returns the grouping bracket pairs.
func (p *Parameters) ExpressionBrackets() []BracketPair { return slices.Clone(p.expressionBrackets) }

// FunctionBrackets returns the call bracket pairs.
func (p *Parameters) FunctionBrackets() []BracketPair { return slices.Clone(p.functionBrackets) }

// Clone returns an independent copy.
func (p *Parameters) Clone() *Parameters {
	c := &Parameters{
		operators:          slices.Clone(p.operators),
		functions:          slices.Clone(p.functions),
		methods:            slices.Clone(p.methods),
		constants:          slices.Clone(p.constants),
		expressionBrackets: slices.Clone(p.expressionBrackets),
		functionBrackets:   slices.Clone(p.functionBrackets),
		separator:          p.separator,
		translations:       make(map[elementKey]string, len(p.translations)),
		quotes:             slices.Clone(p.quotes),
	}
	for k, v := range p.translations {
		c.translations[k] = v
	}
	return c
}

// Delimiters returns every string the tokenizer splits on: operator
// symbols, bracket strings and the argument separator.
func (p *Parameters) Delimiters() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, op := range p.operators {
		add(p.Translate(op))
	}
	for _, b := range p.expressionBrackets {
		add(b.open)
		add(b.close)
	}
	for _, b := range p.functionBrackets {
		add(b.open)
		add(b.close)
	}
	add(string(p.separator))
	return out
}

// Validate checks the grammar for conflicts.
func (p *Parameters) Validate() error {
	var errs []error

	if p.separator == 0 || p.separator == utf8.RuneError {
		errs = append(errs, errors.New("argument separator is not set"))
	}

	type opKey struct {
		symbol string
		arity  int
	}
	ops := make(map[opKey]bool)
	for _, op := range p.operators {
		name := p.Translate(op)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s: empty symbol", op))
			continue
		}
		if op.arity != 1 && op.arity != 2 {
			errs = append(errs, fmt.Errorf("%s: arity must be 1 or 2", op))
		}
		if op.associativity != Left && op.associativity != Right {
			errs = append(errs, fmt.Errorf("%s: invalid associativity", op))
		}
		k := opKey{symbol: name, arity: op.arity}
		if ops[k] {
			errs = append(errs, fmt.Errorf("%w: operator %q with arity %d", ErrDuplicate, name, op.arity))
		}
		ops[k] = true
	}

	calls := make(map[string]ElementKind)
	checkCall := func(el Element, f Function) {
		name := p.Translate(el)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s: empty name", el.Kind()))
			return
		}
		if f.minArgs < 0 || (f.maxArgs != Unbounded && f.maxArgs < f.minArgs) {
			errs = append(errs, fmt.Errorf("%s %s: invalid argument bounds [%d, %d]", el.Kind(), name, f.minArgs, f.maxArgs))
		}
		if kind, ok := calls[name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s %q already registered as %s", ErrDuplicate, el.Kind(), name, kind))
			return
		}
		calls[name] = el.Kind()
	}
	for _, f := range p.functions {
		checkCall(f, f)
	}
	for _, m := range p.methods {
		checkCall(m, m.Function)
	}
	if len(calls) > 0 && len(p.functionBrackets) == 0 {
		errs = append(errs, errors.New("functions registered without a function bracket"))
	}

	consts := make(map[string]bool)
	for _, c := range p.constants {
		name := p.Translate(c)
		if name == "" {
			errs = append(errs, errors.New("constant: empty name"))
			continue
		}
		if consts[name] {
			errs = append(errs, fmt.Errorf("%w: constant %q", ErrDuplicate, name))
		}
		consts[name] = true
	}

	sep := string(p.separator)
	for _, b := range append(slices.Clone(p.expressionBrackets), p.functionBrackets...) {
		if b.open == "" || b.close == "" {
			errs = append(errs, fmt.Errorf("bracket %q: empty delimiter", b))
		}
		if b.open == sep || b.close == sep {
			errs = append(errs, fmt.Errorf("bracket %q collides with argument separator", b))
		}
	}

	return errors.Join(errs...)
}
