// Package typehierarchy provides the TypeHierarchy consumed interface
// spec.md §6 describes: type registration, subtype enumeration, and
// vtable-slot→function resolution. It is the analogue of phasar's
// LLVMTypeHierarchy and of the InterfaceHierarchy pattern used for CHA in
// Go SSA-based tools (method lookup memoized per interface/slot).
package typehierarchy

import "icfg/internal/ir"

// TypeHierarchy is an in-memory class/interface hierarchy plus the vtables
// attached to each concrete type.
type TypeHierarchy struct {
	registered map[string]bool
	supers     map[string]string               // type -> its direct supertype, "" if root
	subs       map[string][]string             // type -> direct subtypes
	vtables    map[string]map[int]*ir.Function // type -> slot -> implementing function
	subCache   map[string][]string             // memoized transitive closure, incl. self
}

// New returns an empty TypeHierarchy.
func New() *TypeHierarchy {
	return &TypeHierarchy{
		registered: make(map[string]bool),
		supers:     make(map[string]string),
		subs:       make(map[string][]string),
		vtables:    make(map[string]map[int]*ir.Function),
		subCache:   make(map[string][]string),
	}
}

// RegisterType adds typeName to the hierarchy. superType may be "" for a
// root type. Registering the same type twice is a no-op.
func (th *TypeHierarchy) RegisterType(typeName, superType string) {
	if th.registered[typeName] {
		return
	}
	th.registered[typeName] = true
	th.supers[typeName] = superType
	if superType != "" {
		th.subs[superType] = append(th.subs[superType], typeName)
	}
	th.subCache = make(map[string][]string) // invalidate memoization
}

// RegisterVirtualMethod records that typeName's vtable slot implements fn.
// A type with at least one registered slot HasVFTable.
func (th *TypeHierarchy) RegisterVirtualMethod(typeName string, slot int, fn *ir.Function) {
	if th.vtables[typeName] == nil {
		th.vtables[typeName] = make(map[int]*ir.Function)
	}
	th.vtables[typeName][slot] = fn
}

// HasType reports whether typeName is registered.
func (th *TypeHierarchy) HasType(typeName string) bool {
	return th.registered[typeName]
}

// HasVFTable reports whether typeName has at least one virtual method slot.
func (th *TypeHierarchy) HasVFTable(typeName string) bool {
	return len(th.vtables[typeName]) > 0
}

// Subtypes returns typeName and every type transitively derived from it.
// Order is unspecified but stable within one TypeHierarchy instance.
func (th *TypeHierarchy) Subtypes(typeName string) []string {
	if cached, ok := th.subCache[typeName]; ok {
		return cached
	}
	var out []string
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(t string) {
		if seen[t] {
			return
		}
		seen[t] = true
		out = append(out, t)
		for _, sub := range th.subs[t] {
			walk(sub)
		}
	}
	walk(typeName)
	th.subCache[typeName] = out
	return out
}

// ResolveVTableSlot returns the function typeName's own vtable binds at
// slot, nil if typeName has no binding for that slot (e.g. it does not
// override the method and CHA must walk up to the declaring supertype,
// which callers do by trying ancestors themselves).
func (th *TypeHierarchy) ResolveVTableSlot(typeName string, slot int) *ir.Function {
	return th.vtables[typeName][slot]
}

// ResolveVTableSlotUpward resolves slot for typeName, walking up the
// supertype chain if typeName itself does not override the slot. This is
// what a real vtable lookup does: an unoverridden slot inherits the
// ancestor's implementation.
func (th *TypeHierarchy) ResolveVTableSlotUpward(typeName string, slot int) *ir.Function {
	for t := typeName; t != ""; t = th.supers[t] {
		if fn := th.vtables[t][slot]; fn != nil {
			return fn
		}
	}
	return nil
}
