package library

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// Registry holds the installed item types, resolvable by type identifier or
// by library-path extension.
type Registry struct {
	byType map[string]Item
	byExt  map[string]Item
}

// NewRegistry constructs an empty item registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[string]Item),
		byExt:  make(map[string]Item),
	}
}

// Register installs an item type. Duplicate type identifiers or extensions
// are rejected.
func (r *Registry) Register(item Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.Type() == "" || item.Extension() == "" {
		return fmt.Errorf("item %q must declare a type and extension", item.Name())
	}
	if !strings.HasPrefix(item.Extension(), ".") {
		return fmt.Errorf("item %q extension %q must start with a dot", item.Name(), item.Extension())
	}
	if _, ok := r.byType[item.Type()]; ok {
		return fmt.Errorf("item type %s already registered", item.Type())
	}
	if prior, ok := r.byExt[item.Extension()]; ok {
		return fmt.Errorf("extension %s already registered by %s", item.Extension(), prior.Type())
	}
	r.byType[item.Type()] = item
	r.byExt[item.Extension()] = item
	return nil
}

// ByType resolves an item by its type identifier.
func (r *Registry) ByType(typ string) (Item, bool) {
	item, ok := r.byType[typ]
	return item, ok
}

// ForPath resolves an item by the extension of a library path.
func (r *Registry) ForPath(libraryPath string) (Item, bool) {
	item, ok := r.byExt[path.Ext(libraryPath)]
	return item, ok
}

// Items returns the registered items sorted by type identifier.
func (r *Registry) Items() []Item {
	out := make([]Item, 0, len(r.byType))
	for _, item := range r.byType {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}
