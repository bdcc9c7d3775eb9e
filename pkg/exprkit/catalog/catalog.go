package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/exprkit/pkg/exprkit"
	"github.com/randalmurphal/exprkit/pkg/exprkit/registry"
)

// Sentinel errors for catalog operations.
var (
	// ErrUnknownKind indicates no validator is registered for a kind.
	ErrUnknownKind = errors.New("unknown expression kind")

	// ErrInvalidName indicates an empty entry name.
	ErrInvalidName = errors.New("invalid entry name")

	// ErrKindMismatch indicates an entry evaluated as another kind.
	ErrKindMismatch = errors.New("expression kind mismatch")
)

// Validator checks an expression without evaluating it.
// *exprkit.Evaluator and *text.Evaluator satisfy it.
type Validator interface {
	Check(expression string) error
}

// Catalog defines named expressions of registered kinds. Expressions are
// validated when defined, so a stored entry always parses.
type Catalog struct {
	store      Store
	validators *registry.Registry[string, Validator]
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger for definition events. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a catalog backed by store.
func New(store Store, opts ...Option) *Catalog {
	c := &Catalog{
		store:      store,
		validators: registry.New[string, Validator](),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register sets the validator for kind, replacing any previous one.
func (c *Catalog) Register(kind string, v Validator) {
	c.validators.Register(kind, v)
}

// Kinds returns the registered kinds, sorted.
func (c *Catalog) Kinds() []string {
	kinds := c.validators.Keys()
	slices.Sort(kinds)
	return kinds
}

// Define validates expression with the validator for kind and stores it
// under name. Redefining a name keeps its ID.
func (c *Catalog) Define(name, kind, expression string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrInvalidName
	}
	v, ok := c.validators.Get(kind)
	if !ok {
		return Entry{}, fmt.Errorf("define %q: %w: %q", name, ErrUnknownKind, kind)
	}
	if err := v.Check(expression); err != nil {
		c.logger.Debug("expression rejected",
			slog.String("name", name),
			slog.String("kind", kind),
			slog.String("error_kind", exprkit.KindOf(err).String()),
		)
		return Entry{}, fmt.Errorf("define %q: %w", name, err)
	}

	id := uuid.New()
	switch prev, err := c.store.Get(name); {
	case err == nil:
		id = prev.ID
	case !errors.Is(err, ErrNotFound):
		return Entry{}, fmt.Errorf("define %q: %w", name, err)
	}

	e := Entry{
		ID:         id,
		Name:       name,
		Kind:       kind,
		Expression: expression,
		CreatedAt:  c.now().UTC(),
	}
	if err := c.store.Put(e); err != nil {
		return Entry{}, fmt.Errorf("define %q: %w", name, err)
	}
	c.logger.Info("expression defined",
		slog.String("name", name),
		slog.String("kind", kind),
		slog.String("id", id.String()),
	)
	return e, nil
}

// Lookup returns the entry stored under name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	return c.store.Get(name)
}

// List returns the entries of kind, or all entries if kind is empty.
func (c *Catalog) List(kind string) ([]Entry, error) {
	return c.store.List(kind)
}

// Remove deletes the entry stored under name.
func (c *Catalog) Remove(name string) error {
	return c.store.Delete(name)
}

// Revalidate checks every stored entry against the current validators and
// returns the failures joined. Entries of unregistered kinds fail with
// ErrUnknownKind.
func (c *Catalog) Revalidate() error {
	entries, err := c.store.List("")
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range entries {
		v, ok := c.validators.Get(e.Kind)
		if !ok {
			errs = append(errs, fmt.Errorf("%q: %w: %q", e.Name, ErrUnknownKind, e.Kind))
			continue
		}
		if err := v.Check(e.Expression); err != nil {
			errs = append(errs, fmt.Errorf("%q: %w", e.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Evaluate looks up name and evaluates its expression with ev. The entry
// must have been defined as kind.
func Evaluate[T any](c *Catalog, kind string, ev *exprkit.Evaluator[T], name string, evalCtx any) (T, error) {
	var zero T
	e, err := c.Lookup(name)
	if err != nil {
		return zero, err
	}
	if e.Kind != kind {
		return zero, fmt.Errorf("%q is %q, not %q: %w", name, e.Kind, kind, ErrKindMismatch)
	}
	return ev.EvaluateWith(e.Expression, evalCtx)
}
