// Package registry provides a generic thread-safe registry for values indexed by key.
//
// Registry is designed for read-heavy workloads using sync.RWMutex. It supports
// any comparable key type and any value type through Go generics. An optional
// capacity turns it into a small bounded cache that evicts the oldest entry
// first.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//	r.Register("one", 1)
//
//	value, ok := r.Get("one")
//
// # Bounded Caches
//
// The tokenizer keeps its compiled delimiter patterns in a bounded registry so
// that evaluators built from many distinct grammars cannot grow memory without
// limit:
//
//	patterns := registry.New[string, *regexp.Regexp](registry.WithCapacity(128))
//	re := patterns.GetOrCreate(key, func() *regexp.Regexp {
//	    return regexp.MustCompile(key)
//	})
//
// GetOrCreate is atomic - the factory function is called at most once per key
// while the key stays resident, even under concurrent access.
package registry
