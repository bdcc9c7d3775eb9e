package boolean

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
)

// Name is the default evaluator name.
const Name = "boolean"

// Grammar elements.
var (
	Not = exprkit.NewOperator("!", 1, exprkit.Right, 3)
	And = exprkit.NewOperator("&&", 2, exprkit.Left, 2)
	Or  = exprkit.NewOperator("||", 2, exprkit.Left, 1)

	True  = exprkit.NewConstant("true")
	False = exprkit.NewConstant("false")
	// Last is true while the bound record is the last one.
	Last = exprkit.NewConstant("last")

	// Var reads a boolean field of the record: var(name).
	Var = exprkit.NewMethod("var", 1, 1)
	// Defined reports whether the record has a field: defined(name).
	Defined = exprkit.NewMethod("defined", 1, 1)
)

// ErrNoRecord indicates a record-bound element evaluated with no record.
var ErrNoRecord = errors.New("no record bound")

// Record is the data a condition is evaluated against.
type Record interface {
	// Get returns the named field.
	Get(name string) (any, bool)
	// IsLastRecord reports whether this is the last record of its stream.
	IsLastRecord() bool
}

// MapRecord is a Record backed by a map. It is safe for concurrent use.
type MapRecord struct {
	mu     sync.RWMutex
	fields map[string]any
	last   bool
}

// NewMapRecord creates a record holding a copy of fields.
func NewMapRecord(fields map[string]any) *MapRecord {
	r := &MapRecord{fields: make(map[string]any, len(fields))}
	for k, v := range fields {
		r.fields[k] = v
	}
	return r
}

// Get returns the named field.
func (r *MapRecord) Get(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.fields[name]
	return v, ok
}

// Set stores a field.
func (r *MapRecord) Set(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields[name] = value
}

// IsLastRecord reports the last-record flag.
func (r *MapRecord) IsLastRecord() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}

// SetLast sets the last-record flag.
func (r *MapRecord) SetLast(last bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = last
}

// DefaultParameters returns a fresh copy of the boolean grammar.
func DefaultParameters() *exprkit.Parameters {
	return exprkit.NewParameters().
		AddOperators(Not, And, Or).
		AddConstants(True, False, Last).
		AddMethods(Var, Defined).
		AddBracket(exprkit.Parentheses)
}

// DefaultSemantics returns the boolean handler table. Record-bound
// elements read the Record passed as evaluation context, or bound when
// the context is not a Record.
func DefaultSemantics(bound Record) *exprkit.Semantics[bool] {
	record := func(evalCtx any) (Record, error) {
		if r, ok := evalCtx.(Record); ok {
			return r, nil
		}
		if bound == nil {
			return nil, ErrNoRecord
		}
		return bound, nil
	}

	return exprkit.NewSemantics(parseLiteral).
		Operator(Not, func(_ exprkit.Operator, v []bool, _ any) (bool, error) { return !v[0], nil }).
		Operator(And, func(_ exprkit.Operator, v []bool, _ any) (bool, error) { return v[0] && v[1], nil }).
		Operator(Or, func(_ exprkit.Operator, v []bool, _ any) (bool, error) { return v[0] || v[1], nil }).
		Constant(True, func(exprkit.Constant, any) (bool, error) { return true, nil }).
		Constant(False, func(exprkit.Constant, any) (bool, error) { return false, nil }).
		Constant(Last, func(_ exprkit.Constant, evalCtx any) (bool, error) {
			r, err := record(evalCtx)
			if err != nil {
				return false, err
			}
			return r.IsLastRecord(), nil
		}).
		Method(Var, func(_ exprkit.Method, args []string, evalCtx any) (bool, error) {
			r, err := record(evalCtx)
			if err != nil {
				return false, err
			}
			v, ok := r.Get(args[0])
			if !ok {
				return false, fmt.Errorf("%w: field %q", exprkit.ErrUnknownSymbol, args[0])
			}
			return toBool(args[0], v)
		}).
		Method(Defined, func(_ exprkit.Method, args []string, evalCtx any) (bool, error) {
			r, err := record(evalCtx)
			if err != nil {
				return false, err
			}
			_, ok := r.Get(args[0])
			return ok, nil
		})
}

// parseLiteral accepts the strconv.ParseBool spellings.
func parseLiteral(literal string, _ any) (bool, error) {
	b, err := strconv.ParseBool(literal)
	if err == nil {
		return b, nil
	}
	if r, _ := utf8.DecodeRuneInString(literal); unicode.IsLetter(r) || r == '_' {
		return false, fmt.Errorf("%w: %q", exprkit.ErrUnknownSymbol, literal)
	}
	return false, fmt.Errorf("%w: %q is not a boolean", exprkit.ErrLiteral, literal)
}

func toBool(name string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		if b, err := strconv.ParseBool(val); err == nil {
			return b, nil
		}
	}
	return false, fmt.Errorf("field %q holds %T, not a boolean", name, v)
}

// New creates an unbound boolean evaluator. Record-bound elements need a
// Record passed to EvaluateWith.
func New(params *exprkit.Parameters, opts ...exprkit.Option) (*exprkit.Evaluator[bool], error) {
	return exprkit.New(Name, params, DefaultSemantics(nil), opts...)
}

// Bind creates a boolean evaluator bound to record. The record is read on
// every evaluation, so changes to it are seen without rebuilding the
// evaluator.
func Bind(params *exprkit.Parameters, record Record, opts ...exprkit.Option) (*exprkit.Evaluator[bool], error) {
	return exprkit.New(Name, params, DefaultSemantics(record), opts...)
}
