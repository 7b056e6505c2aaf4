package store

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor creates a Driver for the given configuration.
// Implementations register themselves with the registry using Register().
type Constructor func(cfg Config) (Driver, error)

// registry maps backend types to their constructors
var (
	registry      = make(map[Type]Constructor)
	registryMutex sync.RWMutex
)

// Register registers a backend driver constructor.
// This is called from init() functions in driver files.
//
// Example:
//
//	func init() {
//	    store.Register(store.TypeSQLite, openSQLite)
//	}
func Register(t Type, constructor Constructor) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if constructor == nil {
		panic(fmt.Sprintf("store: Register constructor is nil for type %s", t))
	}

	if _, exists := registry[t]; exists {
		panic(fmt.Sprintf("store: Register called twice for type %s", t))
	}

	registry[t] = constructor
}

// getConstructor retrieves the constructor for a backend type.
// Returns nil if the type is not registered.
func getConstructor(t Type) Constructor {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return registry[t]
}

// RegisteredTypes returns all registered backend types, sorted.
// Useful for error messages and diagnostics.
func RegisteredTypes() []Type {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
