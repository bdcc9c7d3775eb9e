package exprkit

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/randalmurphal/exprkit/pkg/exprkit/observability"
)

// LiteralFunc converts literal text to a value.
type LiteralFunc[T any] func(literal string, evalCtx any) (T, error)

// OperatorFunc reduces an operator. operands holds one value for unary
// operators and two, left first, for binary ones.
type OperatorFunc[T any] func(op Operator, operands []T, evalCtx any) (T, error)

// FunctionFunc reduces a function call with evaluated arguments.
type FunctionFunc[T any] func(fn Function, args []T, evalCtx any) (T, error)

// MethodFunc reduces a method call with raw argument text.
type MethodFunc[T any] func(m Method, args []string, evalCtx any) (T, error)

// ConstantFunc resolves a constant.
type ConstantFunc[T any] func(c Constant, evalCtx any) (T, error)

// FallbackFunc reduces any element that has no specific handler. For
// methods, raw carries the argument text and values is nil.
type FallbackFunc[T any] func(el Element, values []T, raw []string, evalCtx any) (T, error)

// Semantics is the handler table giving meaning to a grammar.
//
// Concrete evaluators expose their default Semantics; to extend one, Clone
// it and override or add entries:
//
//	sem := arith.DefaultSemantics(arith.Decimal)
//	sem.Function(sqrt, func(_ exprkit.Function, args []float64, _ any) (float64, error) {
//	    return math.Sqrt(args[0]), nil
//	})
type Semantics[T any] struct {
	literal   LiteralFunc[T]
	operators map[Operator]OperatorFunc[T]
	functions map[Function]FunctionFunc[T]
	methods   map[Method]MethodFunc[T]
	constants map[Constant]ConstantFunc[T]
	fallback  FallbackFunc[T]
}

// NewSemantics creates a handler table with the given literal converter.
func NewSemantics[T any](literal LiteralFunc[T]) *Semantics[T] {
	return &Semantics[T]{
		literal:   literal,
		operators: make(map[Operator]OperatorFunc[T]),
		functions: make(map[Function]FunctionFunc[T]),
		methods:   make(map[Method]MethodFunc[T]),
		constants: make(map[Constant]ConstantFunc[T]),
	}
}

// Literal replaces the literal converter.
func (s *Semantics[T]) Literal(fn LiteralFunc[T]) *Semantics[T] {
	s.literal = fn
	return s
}

// Operator sets the handler for op.
func (s *Semantics[T]) Operator(op Operator, fn OperatorFunc[T]) *Semantics[T] {
	s.operators[op] = fn
	return s
}

// Function sets the handler for f.
func (s *Semantics[T]) Function(f Function, fn FunctionFunc[T]) *Semantics[T] {
	s.functions[f] = fn
	return s
}

// Method sets the handler for m.
func (s *Semantics[T]) Method(m Method, fn MethodFunc[T]) *Semantics[T] {
	s.methods[m] = fn
	return s
}

// Constant sets the handler for c.
func (s *Semantics[T]) Constant(c Constant, fn ConstantFunc[T]) *Semantics[T] {
	s.constants[c] = fn
	return s
}

// Fallback sets the handler used for elements without a specific one.
func (s *Semantics[T]) Fallback(fn FallbackFunc[T]) *Semantics[T] {
	s.fallback = fn
	return s
}

// Clone returns an independent copy of the table.
func (s *Semantics[T]) Clone() *Semantics[T] {
	c := NewSemantics(s.literal)
	for k, v := range s.operators {
		c.operators[k] = v
	}
	for k, v := range s.functions {
		c.functions[k] = v
	}
	for k, v := range s.methods {
		c.methods[k] = v
	}
	for k, v := range s.constants {
		c.constants[k] = v
	}
	c.fallback = s.fallback
	return c
}

// handles reports whether el can be reduced.
func (s *Semantics[T]) handles(el Element) bool {
	if s.fallback != nil {
		return true
	}
	var ok bool
	switch e := el.(type) {
	case Operator:
		_, ok = s.operators[e]
	case Function:
		_, ok = s.functions[e]
	case Method:
		_, ok = s.methods[e]
	case Constant:
		_, ok = s.constants[e]
	}
	return ok
}

// PanicError captures a panic raised by a handler.
type PanicError struct {
	// Element is the element being reduced, or nil for literal conversion.
	Element Element
	// Value is the value passed to panic().
	Value any
	// Stack is the stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Element == nil {
		return fmt.Sprintf("literal conversion panicked: %v", e.Value)
	}
	return fmt.Sprintf("%s panicked: %v", e.Element, e.Value)
}

// Evaluator evaluates expressions of a fixed grammar to values of type T.
//
// An Evaluator is immutable after New and safe for concurrent use, as long
// as the handlers and any context they consult are.
type Evaluator[T any] struct {
	name   string
	params *Parameters
	lex    *lexicon
	sem    *Semantics[T]
	cfg    config
}

// New creates an evaluator named name (used in logs, metrics and spans).
// params and sem are copied; every registered element needs a handler.
func New[T any](name string, params *Parameters, sem *Semantics[T], opts ...Option) (*Evaluator[T], error) {
	if params == nil {
		return nil, fmt.Errorf("%w: nil parameters", ErrInvalidParameters)
	}
	if sem == nil || sem.literal == nil {
		return nil, fmt.Errorf("%w: literal converter", ErrMissingHandler)
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}

	var missing []string
	check := func(el Element) {
		if !sem.handles(el) {
			missing = append(missing, fmt.Sprintf("%s %q", el.Kind(), el.Name()))
		}
	}
	for _, op := range params.operators {
		check(op)
	}
	for _, f := range params.functions {
		check(f)
	}
	for _, m := range params.methods {
		check(m)
	}
	for _, c := range params.constants {
		check(c)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, strings.Join(missing, ", "))
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = observability.EnrichLogger(cfg.logger, name)

	snapshot := params.Clone()
	return &Evaluator[T]{
		name:   name,
		params: snapshot,
		lex:    compileLexicon(snapshot),
		sem:    sem.Clone(),
		cfg:    cfg,
	}, nil
}

// Name returns the evaluator name.
func (e *Evaluator[T]) Name() string {
	return e.name
}

// Parameters returns a copy of the evaluator's grammar.
func (e *Evaluator[T]) Parameters() *Parameters {
	return e.params.Clone()
}

// Evaluate evaluates expression without an evaluation context.
func (e *Evaluator[T]) Evaluate(expression string) (T, error) {
	return e.EvaluateContext(context.Background(), expression, nil)
}

// EvaluateWith evaluates expression, passing evalCtx to every handler.
// The engine never inspects evalCtx.
func (e *Evaluator[T]) EvaluateWith(expression string, evalCtx any) (T, error) {
	return e.EvaluateContext(context.Background(), expression, evalCtx)
}

// EvaluateContext is EvaluateWith with a context for tracing and metrics.
// Evaluation itself never blocks and is not cancellable.
func (e *Evaluator[T]) EvaluateContext(ctx context.Context, expression string, evalCtx any) (T, error) {
	ctx, span := e.cfg.spans.StartEvaluationSpan(ctx, e.name, expression)
	done := observability.TimedOperation()

	v, err := e.run(expression, evalCtx, false)

	elapsed := done()
	kind := ""
	if err != nil {
		kind = KindOf(err).String()
		observability.LogEvaluationError(e.cfg.logger, expression, kind, err)
	} else {
		observability.LogEvaluation(e.cfg.logger, expression, observability.Milliseconds(elapsed))
	}
	e.cfg.metrics.RecordEvaluation(ctx, e.name, elapsed, kind)
	e.cfg.metrics.RecordExpressionLength(ctx, e.name, len(expression))
	e.cfg.spans.FinishEvaluationSpan(span, kind, err)
	return v, err
}

// Check validates expression without converting literals or calling any
// handler: it reports malformed tokens, unknown functions, arity and
// structural errors. Use it to reject bad configuration early.
func (e *Evaluator[T]) Check(expression string) error {
	_, err := e.run(expression, nil, true)
	return err
}

type frameKind int

const (
	frameOperator frameKind = iota
	frameGroup
	frameCall
)

// frame is an entry of the operator stack.
type frame struct {
	kind    frameKind
	op      Operator
	bracket BracketPair
	call    Token
	args    int
	base    int
	offset  int
}

// run holds the state of one evaluation.
type run[T any] struct {
	ev      *Evaluator[T]
	expr    string
	evalCtx any
	dry     bool
	lx      *lexer
	ops     []frame
	values  []T
	depth   int
}

func (e *Evaluator[T]) run(expression string, evalCtx any, dry bool) (v T, err error) {
	defer func() {
		var ee *Error
		if errors.As(err, &ee) && ee.Expression == "" {
			ee.Expression = expression
		}
	}()

	if len(expression) > e.cfg.maxLength {
		observability.LogLimitExceeded(e.cfg.logger, "length", len(expression), e.cfg.maxLength)
		return v, &Error{
			Kind:     Structural,
			Position: -1,
			Message:  fmt.Sprintf("expression has %d bytes, limit is %d", len(expression), e.cfg.maxLength),
			Err:      ErrTooLong,
		}
	}

	r := &run[T]{
		ev:      e,
		expr:    expression,
		evalCtx: evalCtx,
		dry:     dry,
		lx:      newLexer(e.lex, expression),
	}
	return r.evaluate()
}

func (r *run[T]) evaluate() (T, error) {
	var zero T
	var pendingCall *Token

	for {
		tok, ok, err := r.lx.next()
		if err != nil {
			return zero, err
		}
		if !ok {
			break
		}

		switch tok.Kind {
		case Literal:
			v, err := r.literal(tok)
			if err != nil {
				return zero, err
			}
			r.values = append(r.values, v)

		case ConstantToken:
			v, err := r.reduce(tok.Constant, nil, nil, tok)
			if err != nil {
				return zero, err
			}
			r.values = append(r.values, v)

		case FunctionToken:
			call := tok
			pendingCall = &call

		case OpenBracket:
			if err := r.enter(tok); err != nil {
				return zero, err
			}
			if pendingCall == nil {
				r.ops = append(r.ops, frame{kind: frameGroup, bracket: tok.Bracket, base: len(r.values), offset: tok.Offset})
				continue
			}
			call := *pendingCall
			pendingCall = nil
			if call.IsMethod {
				if err := r.method(call, tok); err != nil {
					return zero, err
				}
				continue
			}
			r.ops = append(r.ops, frame{kind: frameCall, bracket: tok.Bracket, call: call, args: 1, base: len(r.values), offset: tok.Offset})

		case Separator:
			top, err := r.unwind(tok)
			if err != nil {
				return zero, err
			}
			if top.kind != frameCall {
				return zero, newError(Structural, tok.Offset, tok.Text, "argument separator outside of a function call")
			}
			top.args++
			if fn := top.call.Function; fn.maxArgs != Unbounded && top.args > fn.maxArgs {
				return zero, newError(Arity, tok.Offset, fn.name, "too many arguments (max %d) for function", fn.maxArgs)
			}

		case CloseBracket:
			if err := r.close(tok); err != nil {
				return zero, err
			}

		case OperatorToken:
			if tok.Operator.arity == 2 {
				for len(r.ops) > 0 {
					top := r.ops[len(r.ops)-1]
					if top.kind != frameOperator || !bindsFirst(top.op, tok.Operator) {
						break
					}
					if err := r.reduceTop(); err != nil {
						return zero, err
					}
				}
			}
			r.ops = append(r.ops, frame{kind: frameOperator, op: tok.Operator, offset: tok.Offset})
		}
	}

	for len(r.ops) > 0 {
		top := r.ops[len(r.ops)-1]
		if top.kind != frameOperator {
			return zero, newError(Structural, top.offset, top.bracket.open, "missing closing bracket for")
		}
		if err := r.reduceTop(); err != nil {
			return zero, err
		}
	}

	switch len(r.values) {
	case 1:
		return r.values[0], nil
	case 0:
		return zero, newError(Structural, -1, "", "empty expression")
	default:
		return zero, newError(Structural, -1, "", "expression does not reduce to a single value")
	}
}

// bindsFirst reports whether the stacked operator top reduces before cur.
func bindsFirst(top, cur Operator) bool {
	return top.precedence > cur.precedence ||
		(top.precedence == cur.precedence && cur.associativity == Left)
}

// enter tracks bracket nesting against the depth limit.
func (r *run[T]) enter(tok Token) error {
	r.depth++
	if r.depth > r.ev.cfg.maxDepth {
		observability.LogLimitExceeded(r.ev.cfg.logger, "depth", r.depth, r.ev.cfg.maxDepth)
		return &Error{
			Kind:     Structural,
			Position: tok.Offset,
			Message:  fmt.Sprintf("bracket nesting exceeds %d", r.ev.cfg.maxDepth),
			Err:      ErrTooDeep,
		}
	}
	return nil
}

// unwind reduces pending operators down to the innermost bracket frame and
// returns that frame.
func (r *run[T]) unwind(tok Token) (*frame, error) {
	for len(r.ops) > 0 {
		if r.ops[len(r.ops)-1].kind != frameOperator {
			return &r.ops[len(r.ops)-1], nil
		}
		if err := r.reduceTop(); err != nil {
			return nil, err
		}
	}
	if tok.Kind == Separator {
		return nil, newError(Structural, tok.Offset, tok.Text, "argument separator outside of a function call")
	}
	return nil, newError(Structural, tok.Offset, tok.Text, "unmatched closing bracket")
}

func (r *run[T]) close(tok Token) error {
	top, err := r.unwind(tok)
	if err != nil {
		return err
	}
	if top.bracket.close != tok.Text {
		return newError(Structural, tok.Offset, tok.Text, "mismatched bracket, expected %q, got", top.bracket.close)
	}
	f := *top
	r.ops = r.ops[:len(r.ops)-1]
	r.depth--

	n := len(r.values) - f.base
	if f.kind == frameGroup {
		if n != 1 {
			return newError(Structural, f.offset, f.bracket.String(), "empty brackets")
		}
		return nil
	}

	fn := f.call.Function
	argc := n
	if n != 0 && n != f.args {
		return newError(Structural, f.offset, fn.name, "malformed argument list for function")
	}
	if !fn.accepts(argc) {
		return newError(Arity, f.call.Offset, fn.name, "%s for function", arityMessage(fn, argc))
	}

	args := make([]T, argc)
	copy(args, r.values[f.base:])
	r.values = r.values[:f.base]
	v, err := r.reduce(fn, args, nil, f.call)
	if err != nil {
		return err
	}
	r.values = append(r.values, v)
	return nil
}

func arityMessage(f Function, got int) string {
	switch {
	case f.maxArgs == Unbounded:
		return fmt.Sprintf("got %d arguments, want at least %d", got, f.minArgs)
	case f.minArgs == f.maxArgs:
		return fmt.Sprintf("got %d arguments, want %d", got, f.minArgs)
	default:
		return fmt.Sprintf("got %d arguments, want %d to %d", got, f.minArgs, f.maxArgs)
	}
}

// method collects raw argument text up to the matching close bracket and
// reduces the method call.
func (r *run[T]) method(call, open Token) error {
	m := call.Method
	pair := open.Bracket
	sep := r.ev.lex.separator

	var args []string
	nested := 0
	start := open.End
	for {
		raw, ok := r.lx.nextRaw()
		if !ok {
			return newError(Structural, open.Offset, pair.open, "missing closing bracket for")
		}
		switch {
		case raw.Text == pair.open:
			nested++
			continue
		case raw.Text == pair.close && nested > 0:
			nested--
			continue
		case raw.Text == sep && nested == 0:
		case raw.Text == pair.close:
		default:
			continue
		}

		arg := strings.TrimSpace(r.expr[start:raw.Offset])
		start = raw.End
		last := raw.Text == pair.close
		if arg == "" && !(last && len(args) == 0) {
			return newError(Malformed, raw.Offset, raw.Text, "empty argument for method %s before", m.name)
		}
		if arg != "" {
			args = append(args, arg)
		}
		if m.maxArgs != Unbounded && len(args) > m.maxArgs {
			return newError(Arity, call.Offset, m.name, "%s for method", arityMessage(m.Function, len(args)))
		}
		if !last {
			continue
		}

		r.depth--
		r.lx.setPrev(Token{Kind: CloseBracket, Text: raw.Text, Offset: raw.Offset, End: raw.End})
		if !m.accepts(len(args)) {
			return newError(Arity, call.Offset, m.name, "%s for method", arityMessage(m.Function, len(args)))
		}
		v, err := r.reduce(m, nil, args, call)
		if err != nil {
			return err
		}
		r.values = append(r.values, v)
		return nil
	}
}

// reduceTop pops the top operator and its operands and pushes the result.
func (r *run[T]) reduceTop() error {
	f := r.ops[len(r.ops)-1]
	r.ops = r.ops[:len(r.ops)-1]

	n := f.op.arity
	if len(r.values) < n {
		return newError(Structural, f.offset, f.op.symbol, "missing operand for operator")
	}
	operands := make([]T, n)
	copy(operands, r.values[len(r.values)-n:])
	r.values = r.values[:len(r.values)-n]

	v, err := r.reduce(f.op, operands, nil, Token{Kind: OperatorToken, Text: f.op.symbol, Offset: f.offset})
	if err != nil {
		return err
	}
	r.values = append(r.values, v)
	return nil
}

// literal converts a literal token.
func (r *run[T]) literal(tok Token) (v T, err error) {
	if r.dry {
		return v, nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = &Error{Kind: LiteralConversion, Position: tok.Offset, Token: tok.Text,
				Err: &PanicError{Value: p, Stack: string(debug.Stack())}}
		}
	}()
	v, err = r.ev.sem.literal(tok.Text, r.evalCtx)
	if err != nil {
		kind := kindFromCause(err, LiteralConversion)
		msg := "cannot convert literal"
		if kind == UnknownSymbol {
			msg = "unknown symbol"
		}
		return v, &Error{Kind: kind, Position: tok.Offset, Token: tok.Text, Message: msg, Err: err}
	}
	return v, nil
}

// reduce dispatches el to its handler.
func (r *run[T]) reduce(el Element, values []T, raw []string, at Token) (v T, err error) {
	if r.dry {
		return v, nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = &Error{Kind: Reduction, Position: at.Offset, Token: at.Text,
				Err: &PanicError{Element: el, Value: p, Stack: string(debug.Stack())}}
		}
	}()

	sem := r.ev.sem
	switch e := el.(type) {
	case Operator:
		if fn, ok := sem.operators[e]; ok {
			v, err = fn(e, values, r.evalCtx)
			break
		}
		v, err = sem.fallback(e, values, nil, r.evalCtx)
	case Function:
		if fn, ok := sem.functions[e]; ok {
			v, err = fn(e, values, r.evalCtx)
			break
		}
		v, err = sem.fallback(e, values, nil, r.evalCtx)
	case Method:
		if fn, ok := sem.methods[e]; ok {
			v, err = fn(e, raw, r.evalCtx)
			break
		}
		v, err = sem.fallback(e, nil, raw, r.evalCtx)
	case Constant:
		if fn, ok := sem.constants[e]; ok {
			v, err = fn(e, r.evalCtx)
			break
		}
		v, err = sem.fallback(e, nil, nil, r.evalCtx)
	}
	if err != nil {
		return v, &Error{
			Kind:     kindFromCause(err, Reduction),
			Position: at.Offset,
			Token:    at.Text,
			Message:  fmt.Sprintf("cannot evaluate %s", el.Kind()),
			Err:      err,
		}
	}
	return v, nil
}
