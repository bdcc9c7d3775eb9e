package exprkit

import (
	"errors"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	// Malformed indicates an operator, bracket or separator with no valid
	// interpretation at its position.
	Malformed ErrorKind = iota + 1

	// LiteralConversion indicates a literal the evaluator cannot convert.
	LiteralConversion

	// UnknownSymbol indicates text that is neither registered grammar nor a
	// valid literal.
	UnknownSymbol

	// Arity indicates a call with too few or too many arguments.
	Arity

	// Structural indicates unbalanced brackets, or a token stream that does
	// not reduce to exactly one value.
	Structural

	// Reduction indicates a handler failed while reducing an operator,
	// function, method or constant.
	Reduction
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case LiteralConversion:
		return "literal"
	case UnknownSymbol:
		return "unknown_symbol"
	case Arity:
		return "arity"
	case Structural:
		return "structural"
	case Reduction:
		return "reduction"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per kind. An *Error matches the sentinel of its
// kind with errors.Is.
var (
	ErrMalformed     = errors.New("malformed expression")
	ErrLiteral       = errors.New("invalid literal")
	ErrUnknownSymbol = errors.New("unknown symbol")
	ErrArity         = errors.New("wrong number of arguments")
	ErrStructural    = errors.New("unbalanced expression")
	ErrReduction     = errors.New("evaluation failed")
)

// Sentinel errors for limits and construction.
var (
	// ErrTooLong indicates the expression exceeds the configured maximum length.
	ErrTooLong = errors.New("expression too long")

	// ErrTooDeep indicates bracket nesting exceeds the configured maximum depth.
	ErrTooDeep = errors.New("expression nested too deeply")

	// ErrDuplicate indicates a grammar element registered twice.
	ErrDuplicate = errors.New("duplicate grammar element")

	// ErrInvalidParameters indicates Parameters failed validation.
	ErrInvalidParameters = errors.New("invalid parameters")

	// ErrMissingHandler indicates a registered element has no handler.
	ErrMissingHandler = errors.New("no handler registered")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case Malformed:
		return ErrMalformed
	case LiteralConversion:
		return ErrLiteral
	case UnknownSymbol:
		return ErrUnknownSymbol
	case Arity:
		return ErrArity
	case Structural:
		return ErrStructural
	case Reduction:
		return ErrReduction
	default:
		return nil
	}
}

// Error is the single error type returned by evaluation.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Expression is the evaluated expression.
	Expression string
	// Position is the byte offset of the offending token, or -1.
	Position int
	// Token is the offending token text, if any.
	Token string
	// Message describes the failure.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		if s := e.Kind.sentinel(); s != nil {
			msg = s.Error()
		}
	}
	if e.Token != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Token)
	}
	if e.Position >= 0 {
		msg = fmt.Sprintf("%s at position %d", msg, e.Position)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of an evaluation error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// newError builds an *Error. Position -1 means no position.
func newError(kind ErrorKind, pos int, token, format string, args ...any) *Error {
	return &Error{
		Kind:     kind,
		Position: pos,
		Token:    token,
		Message:  fmt.Sprintf(format, args...),
	}
}

// kindFromCause lets callbacks pick the kind by returning or wrapping a
// sentinel; other errors get the fallback kind.
func kindFromCause(err error, fallback ErrorKind) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range []ErrorKind{Malformed, LiteralConversion, UnknownSymbol, Arity, Structural, Reduction} {
		if errors.Is(err, k.sentinel()) {
			return k
		}
	}
	return fallback
}
