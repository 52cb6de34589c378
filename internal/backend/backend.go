// Package backend defines the pluggable declaration grammar interface and
// the registry of concrete grammars.
//
// Each backend parses one file format into the canonical model.Declaration
// shape. Backends are selected by static configuration, never by runtime
// type inspection.
package backend

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"whoowns/internal/model"
)

// Backend parses raw declaration file content into the canonical shape.
type Backend interface {
	// Name identifies the backend in configuration (e.g. "find-owners").
	Name() string

	// FileName is the canonical declaration file name this backend reads
	// (e.g. "OWNERS").
	FileName() string

	// Parse turns raw content into a declaration. The path is the file the
	// content was read from and is used in error messages only; the caller
	// stamps Key and Path on the returned declaration.
	Parse(path string, content []byte) (*model.Declaration, error)
}

var (
	registry = make(map[string]Backend)
	mu       sync.RWMutex
)

// Register adds a backend. It panics on duplicate names; backends register
// from init and duplicates are a programming error.
func Register(b Backend) {
	if b == nil {
		panic("backend is nil")
	}
	name := b.Name()
	if name == "" {
		panic("backend name is empty")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("backend %s already registered", name))
	}
	registry[name] = b
}

// Get returns the backend registered under the given name.
func Get(name string) (Backend, error) {
	mu.RLock()
	defer mu.RUnlock()
	b, ok := registry[name]
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown backend %q (available: %s)", name, strings.Join(names, ", "))
	}
	return b, nil
}

// List returns all registered backends sorted by name.
func List() []Backend {
	mu.RLock()
	defer mu.RUnlock()
	all := make([]Backend, 0, len(registry))
	for _, b := range registry {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name() < all[j].Name()
	})
	return all
}
