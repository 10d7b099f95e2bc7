// Package registry is a static table of named components. Self-validation
// resolves "module.Symbol" identifiers against it instead of loading code by name.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is wrapped by every failed lookup.
var ErrNotFound = errors.New("not found")

// LookupError describes which part of an identifier failed to resolve.
type LookupError struct {
	Module string
	Symbol string
	// Missing is "module" or "symbol".
	Missing string
}

func (e *LookupError) Error() string {
	if e.Missing == "module" {
		return fmt.Sprintf("module '%s' %s", e.Module, ErrNotFound)
	}
	return fmt.Sprintf("symbol '%s' %s in module '%s'", e.Symbol, ErrNotFound, e.Module)
}

func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// Registry maps module -> symbol -> component reference.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]map[string]any
}

func New() *Registry {
	return &Registry{
		modules: make(map[string]map[string]any),
	}
}

// Register adds a component under module.symbol, replacing any previous entry.
func (r *Registry) Register(module, symbol string, ref any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	syms, ok := r.modules[module]
	if !ok {
		syms = make(map[string]any)
		r.modules[module] = syms
	}
	syms[symbol] = ref
}

// Lookup resolves a component. A nil reference counts as absent.
func (r *Registry) Lookup(module, symbol string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	syms, ok := r.modules[module]
	if !ok {
		return nil, &LookupError{Module: module, Symbol: symbol, Missing: "module"}
	}
	ref, ok := syms[symbol]
	if !ok || ref == nil {
		return nil, &LookupError{Module: module, Symbol: symbol, Missing: "symbol"}
	}
	return ref, nil
}

// Resolve looks up a qualified "module.Symbol" identifier.
func (r *Registry) Resolve(qualified string) (any, error) {
	module, symbol, err := Split(qualified)
	if err != nil {
		return nil, err
	}
	return r.Lookup(module, symbol)
}

// Split separates "module.Symbol" at its last dot.
func Split(qualified string) (module, symbol string, err error) {
	i := strings.LastIndex(qualified, ".")
	if i <= 0 || i == len(qualified)-1 {
		return "", "", fmt.Errorf("invalid component identifier %q: want module.Symbol", qualified)
	}
	return qualified[:i], qualified[i+1:], nil
}

// List returns every registered identifier in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for module, syms := range r.modules {
		for symbol := range syms {
			out = append(out, module+"."+symbol)
		}
	}
	sort.Strings(out)
	return out
}
