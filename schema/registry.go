// Package schema keeps a registry of named struct layouts.
//
// Code generators and tools that only know a type by name use the registry to find
// the message.StructLayout needed to build or inspect a struct. Types are keyed by
// TypeID, the xxHash64 of the fully qualified type name, which is small enough to
// embed in a data field when a message needs to say what it carries.
package schema

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/wordwire/internal/hash"
	"github.com/arloliu/wordwire/message"
)

var (
	// ErrInvalidName is returned when registering an empty type name.
	ErrInvalidName = errors.New("schema: invalid type name")
	// ErrTypeIDCollision is returned when two different names hash to the same TypeID.
	ErrTypeIDCollision = errors.New("schema: type ID collision")
	// ErrLayoutConflict is returned when a name is registered again with another layout.
	ErrLayoutConflict = errors.New("schema: conflicting layout")
	// ErrUnknownType is returned by lookups of unregistered types.
	ErrUnknownType = errors.New("schema: unknown type")
)

// ID identifies a registered type.
type ID uint64

// String returns the ID as a fixed-width hex string.
func (id ID) String() string {
	return fmt.Sprintf("%#016x", uint64(id))
}

// TypeID computes the ID of a type name.
func TypeID(name string) ID {
	return ID(hash.ID(name))
}

// Type is a registered type.
type Type struct {
	ID     ID
	Name   string
	Layout message.StructLayout
}

// Registry maps type names and IDs to struct layouts.
//
// Registry is safe for concurrent use. Registration is first-writer-wins: a second
// registration of the same name must carry the same layout.
type Registry struct {
	types  *xsync.Map[ID, Type]
	typeID func(string) ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  xsync.NewMap[ID, Type](),
		typeID: TypeID,
	}
}

// Register adds a named layout.
//
// Parameters:
//   - name: fully qualified type name
//   - layout: the struct layout of the type
//
// Returns:
//   - ID: the type ID
//   - error: ErrInvalidName, ErrTypeIDCollision if another name owns the ID, or
//     ErrLayoutConflict if name was registered with a different layout
func (r *Registry) Register(name string, layout message.StructLayout) (ID, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrInvalidName
	}

	id := r.typeID(name)
	actual, loaded := r.types.LoadOrStore(id, Type{ID: id, Name: name, Layout: layout})
	if !loaded {
		return id, nil
	}

	if actual.Name != name {
		return 0, fmt.Errorf("%w: %q and %q share %s", ErrTypeIDCollision, actual.Name, name, id)
	}
	if actual.Layout != layout {
		return 0, fmt.Errorf("%w: %q is %s, not %s", ErrLayoutConflict, name, actual.Layout, layout)
	}

	return id, nil
}

// MustRegister is like Register but panics on error. It is meant for package-level
// registration of generated types.
func (r *Registry) MustRegister(name string, layout message.StructLayout) ID {
	id, err := r.Register(name, layout)
	if err != nil {
		panic(err)
	}

	return id
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (Type, error) {
	t, ok := r.types.Load(r.typeID(name))
	if !ok || t.Name != name {
		return Type{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}

	return t, nil
}

// LookupID returns the type registered under id.
func (r *Registry) LookupID(id ID) (Type, error) {
	t, ok := r.types.Load(id)
	if !ok {
		return Type{}, fmt.Errorf("%w: %s", ErrUnknownType, id)
	}

	return t, nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	return r.types.Size()
}

// All iterates over the registered types ordered by name.
func (r *Registry) All() iter.Seq[Type] {
	types := make([]Type, 0, r.types.Size())
	r.types.Range(func(_ ID, t Type) bool {
		types = append(types, t)
		return true
	})
	slices.SortFunc(types, func(a, b Type) int {
		return strings.Compare(a.Name, b.Name)
	})

	return slices.Values(types)
}
