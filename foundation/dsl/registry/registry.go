// File: registry.go
// Title: Processor Registry
// Description: Maps processor aliases to factories and resolves processor
//              chains of a command into converter instances.
// Author: msto63
// Version: v0.2.1
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial registry implementation
// - 2026-10-19 v0.2.0: Generic alias registry for converter chains
// - 2026-10-19 v0.2.1: Safe mode only covers unregistered aliases

package registry

import (
	"fmt"
	"sort"
	"sync"

	mdwerror "github.com/msto63/textomat/foundation/core/error"
	"github.com/msto63/textomat/foundation/core/log"
	"github.com/msto63/textomat/foundation/dsl/ast"
	mdwstringx "github.com/msto63/textomat/foundation/utils/stringx"
)

// Factory creates a processor from its argument text.
type Factory[T any] func(args string) (T, error)

// Options configures registry behavior
type Options struct {
	// Kind names the processors in messages, e.g. "input"
	Kind string
	// Default is used for an empty chain and, in safe mode, for unknown aliases
	Default string
	// NoOp is used for an empty chain in raw mode
	NoOp   string
	Logger *log.Logger
}

// Registry holds the factories of one processor kind.
type Registry[T any] struct {
	factories map[string]Factory[T]
	logger    *log.Logger
	mutex     sync.RWMutex
	options   Options
}

// New creates an empty registry.
func New[T any](opts Options) *Registry[T] {
	if opts.Logger == nil {
		opts.Logger = log.GetDefault()
	}
	if opts.Kind == "" {
		opts.Kind = "processor"
	}
	return &Registry[T]{
		factories: make(map[string]Factory[T]),
		logger:    opts.Logger.WithField("component", opts.Kind+"-registry"),
		options:   opts,
	}
}

// Register adds a factory under alias.
func (r *Registry[T]) Register(alias string, factory Factory[T]) error {
	if alias == "" || !isAlias(alias) {
		return mdwerror.Newf("invalid %s alias %q", r.options.Kind, alias).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if factory == nil {
		return mdwerror.Newf("%s %s has no factory", r.options.Kind, alias).
			WithCode(mdwerror.CodeInvalidConfig)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.factories[alias]; exists {
		return mdwerror.Newf("%s %s already registered", r.options.Kind, alias).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	r.factories[alias] = factory

	r.logger.Trace("processor registered", log.Fields{"alias": alias})
	return nil
}

// MustRegister is Register for built-in processors and panics on error.
func (r *Registry[T]) MustRegister(alias string, factory Factory[T]) {
	if err := r.Register(alias, factory); err != nil {
		panic(err)
	}
}

// Has reports whether alias is registered.
func (r *Registry[T]) Has(alias string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.factories[alias]
	return ok
}

// Aliases returns the registered aliases in sorted order.
func (r *Registry[T]) Aliases() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	aliases := make([]string, 0, len(r.factories))
	for a := range r.factories {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// Default returns the default alias.
func (r *Registry[T]) Default() string { return r.options.Default }

// Get instantiates a single processor.
func (r *Registry[T]) Get(p ast.Processor) (T, error) {
	var zero T

	r.mutex.RLock()
	factory, ok := r.factories[p.Alias]
	r.mutex.RUnlock()

	if !ok {
		e := mdwerror.Newf("unregistered %s: %s", r.options.Kind, p.Alias).
			WithCode(mdwerror.CodeUnregistered).
			WithDetail("alias", p.Alias)
		if hint := mdwstringx.DidYouMean(p.Alias, r.Aliases()); hint != "" {
			e = e.WithDetail("suggestion", hint)
		}
		return zero, e
	}

	proc, err := factory(p.Args)
	if err != nil {
		if _, ok := mdwerror.As(err); ok {
			return zero, err
		}
		return zero, mdwerror.Wrap(err, fmt.Sprintf("cannot create %s %s", r.options.Kind, p.Alias)).
			WithCode(mdwerror.CodeConverter).
			WithDetail("alias", p.Alias)
	}
	return proc, nil
}

// Resolve instantiates a chain. An empty chain resolves to the no-op
// processor in raw mode and to the default one otherwise. In safe mode an
// unregistered alias is replaced by the default. Factory failures are
// returned in both modes.
func (r *Registry[T]) Resolve(chain []ast.Processor, raw, safe bool) ([]T, error) {
	if len(chain) == 0 {
		alias := r.options.Default
		if raw && r.options.NoOp != "" {
			alias = r.options.NoOp
		}
		chain = []ast.Processor{{Alias: alias}}
	}

	procs := make([]T, 0, len(chain))
	for _, p := range chain {
		proc, err := r.Get(p)
		if err != nil {
			if !safe || p.Alias == r.options.Default || !mdwerror.HasCode(err, mdwerror.CodeUnregistered) {
				return nil, err
			}
			if proc, err = r.Get(ast.Processor{Alias: r.options.Default}); err != nil {
				return nil, err
			}
		}
		procs = append(procs, proc)
	}

	if r.logger.IsLevelEnabled(log.LevelDebug) {
		r.logger.Debug("chain resolved", log.Fields{
			"chain": ast.JoinNodes(chain),
			"raw":   raw,
			"safe":  safe,
		})
	}
	return procs, nil
}

func isAlias(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
