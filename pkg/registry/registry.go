// Package registry owns the ordered set of drivers loaded from configuration
// and the per-run scan session that counts identifications.
package registry

import (
	"fmt"

	"github.com/nsfid/nsfid/pkg/types"
)

// Registry holds drivers in declaration order. Declaration order defines
// report order and precedence. A Registry is read-only after New.
type Registry struct {
	drivers []*types.Driver
	byKey   map[string]int
}

// New builds a registry. Driver names must be unique case-insensitively.
func New(drivers []*types.Driver) (*Registry, error) {
	r := &Registry{
		drivers: make([]*types.Driver, 0, len(drivers)),
		byKey:   make(map[string]int, len(drivers)),
	}

	for _, d := range drivers {
		if d == nil || d.Name == "" {
			return nil, fmt.Errorf("driver name is required")
		}
		if _, exists := r.byKey[d.Key()]; exists {
			return nil, fmt.Errorf("duplicate driver name %q", d.Name)
		}
		r.byKey[d.Key()] = len(r.drivers)
		r.drivers = append(r.drivers, d)
	}

	return r, nil
}

// Len returns the number of drivers.
func (r *Registry) Len() int {
	return len(r.drivers)
}

// Drivers returns a copy of the driver list in declaration order.
func (r *Registry) Drivers() []*types.Driver {
	out := make([]*types.Driver, len(r.drivers))
	copy(out, r.drivers)
	return out
}

// Lookup finds a driver by case-insensitive name.
func (r *Registry) Lookup(name string) (*types.Driver, bool) {
	i, ok := r.byKey[types.NameKey(name)]
	if !ok {
		return nil, false
	}
	return r.drivers[i], true
}

// Index returns the declaration position of a driver, or -1.
func (r *Registry) Index(name string) int {
	i, ok := r.byKey[types.NameKey(name)]
	if !ok {
		return -1
	}
	return i
}

// Select returns the drivers allowed by filter, in declaration order, and
// the filter names that match no driver.
func (r *Registry) Select(filter NameSet) (selected []*types.Driver, unknown []string) {
	if filter.Empty() {
		return r.Drivers(), nil
	}

	for _, d := range r.drivers {
		if filter.Allows(d.Name) {
			selected = append(selected, d)
		}
	}
	for _, name := range filter.Names() {
		if _, ok := r.Lookup(name); !ok {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}

// SignatureCount returns the total number of signatures across all drivers.
func (r *Registry) SignatureCount() int {
	n := 0
	for _, d := range r.drivers {
		n += len(d.Signatures)
	}
	return n
}
