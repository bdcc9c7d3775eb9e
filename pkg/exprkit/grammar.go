package exprkit

import "fmt"

// Associativity decides how operators of equal precedence group.
type Associativity int

const (
	// Left groups a-b-c as (a-b)-c.
	Left Associativity = iota
	// Right groups a^b^c as a^(b^c).
	Right
)

// String returns the associativity name.
func (a Associativity) String() string {
	switch a {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ElementKind tags the callable grammar elements.
type ElementKind int

const (
	KindOperator ElementKind = iota + 1
	KindFunction
	KindMethod
	KindConstant
)

// String returns the element kind name.
func (k ElementKind) String() string {
	switch k {
	case KindOperator:
		return "operator"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindConstant:
		return "constant"
	default:
		return "unknown"
	}
}

// Unbounded is the maximum argument count of a variadic function.
const Unbounded = -1

// Element is implemented by Operator, Function, Method and Constant.
// The set is closed; dispatch switches on Kind.
type Element interface {
	Kind() ElementKind
	Name() string
	element()
}

// Operator is an immutable operator descriptor.
//
// Two operators may share a symbol only when their arities differ; the lexer
// picks the unary or binary form from the token's position.
type Operator struct {
	symbol        string
	arity         int
	associativity Associativity
	precedence    int
}

// NewOperator creates an operator. Arity must be 1 (prefix) or 2 (infix);
// a higher precedence binds tighter.
func NewOperator(symbol string, arity int, assoc Associativity, precedence int) Operator {
	return Operator{symbol: symbol, arity: arity, associativity: assoc, precedence: precedence}
}

func (o Operator) Kind() ElementKind            { return KindOperator }
func (o Operator) Name() string                 { return o.symbol }
func (o Operator) Symbol() string               { return o.symbol }
func (o Operator) Arity() int                   { return o.arity }
func (o Operator) Associativity() Associativity { return o.associativity }
func (o Operator) Precedence() int              { return o.precedence }
func (o Operator) element()                     {}

func (o Operator) String() string {
	return fmt.Sprintf("operator %q/%d", o.symbol, o.arity)
}

// Function is a named call whose arguments are evaluated sub-expressions.
type Function struct {
	name    string
	minArgs int
	maxArgs int
}

// NewFunction creates a function accepting between minArgs and maxArgs
// arguments. Use Unbounded as maxArgs for variadic functions.
func NewFunction(name string, minArgs, maxArgs int) Function {
	return Function{name: name, minArgs: minArgs, maxArgs: maxArgs}
}

func (f Function) Kind() ElementKind { return KindFunction }
func (f Function) Name() string      { return f.name }
func (f Function) MinArgs() int      { return f.minArgs }
func (f Function) MaxArgs() int      { return f.maxArgs }
func (f Function) element()          {}

func (f Function) String() string {
	return fmt.Sprintf("function %s", f.name)
}

// accepts reports whether n arguments are within the function's bounds.
func (f Function) accepts(n int) bool {
	return n >= f.minArgs && (f.maxArgs == Unbounded || n <= f.maxArgs)
}

// Method is a function whose arguments are passed as raw, unevaluated text.
// It serves look-ups keyed by literal names, such as record fields.
type Method struct {
	Function
}

// NewMethod creates a method accepting between minArgs and maxArgs raw arguments.
func NewMethod(name string, minArgs, maxArgs int) Method {
	return Method{Function: NewFunction(name, minArgs, maxArgs)}
}

func (m Method) Kind() ElementKind { return KindMethod }

func (m Method) String() string {
	return fmt.Sprintf("method %s", m.name)
}

// Constant is a named zero-argument symbol resolved at evaluation time.
type Constant struct {
	name string
}

// NewConstant creates a constant.
func NewConstant(name string) Constant {
	return Constant{name: name}
}

func (c Constant) Kind() ElementKind { return KindConstant }
func (c Constant) Name() string      { return c.name }
func (c Constant) element()          {}

func (c Constant) String() string {
	return fmt.Sprintf("constant %s", c.name)
}

// BracketPair is an open/close delimiter pair.
type BracketPair struct {
	open  string
	close string
}

// NewBracketPair creates a bracket pair.
func NewBracketPair(open, close string) BracketPair {
	return BracketPair{open: open, close: close}
}

func (b BracketPair) Open() string  { return b.open }
func (b BracketPair) Close() string { return b.close }

func (b BracketPair) String() string {
	return b.open + b.close
}

// Common bracket pairs.
var (
	Parentheses    = NewBracketPair("(", ")")
	SquareBrackets = NewBracketPair("[", "]")
	Braces         = NewBracketPair("{", "}")
)
