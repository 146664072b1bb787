// Package memory implements an in-memory scenegraph.Scene. It is the
// reference scene repository used by tests and by the prefabctl CLI; a host
// bridge would implement the same interface against a live DCC session.
package memory

import (
	"fmt"
	"sort"
	"sync"

	"prefabcore/pkg/scenegraph"
)

type node struct {
	name     string // fully qualified
	typ      scenegraph.NodeType
	attrs    map[string]any
	parent   string
	children []string
	conns    map[string][]string
	locked   bool
	readOnly bool
}

func (n *node) clone() scenegraph.Node {
	out := scenegraph.Node{
		Name:     n.name,
		Type:     n.typ,
		Parent:   n.parent,
		Locked:   n.locked,
		ReadOnly: n.readOnly,
	}
	if n.attrs != nil {
		out.Attrs = make(map[string]any, len(n.attrs))
		for k, v := range n.attrs {
			out.Attrs[k] = v
		}
	}
	out.Children = append([]string(nil), n.children...)
	if n.conns != nil {
		out.Connections = make(map[string][]string, len(n.conns))
		for k, v := range n.conns {
			out.Connections[k] = append([]string(nil), v...)
		}
	}
	return out
}

type refEntry struct {
	file      string
	namespace string
}

// Scene is a mutex-guarded in-memory scene graph. A single lock serialises all
// mutations, mirroring the single-threaded command context of a host session;
// there is no transactional rollback for multi-step edits.
type Scene struct {
	mu         sync.RWMutex
	nodes      map[string]*node
	order      []string // creation order, drives deterministic listings
	namespaces map[string]struct{}
	selection  []string
	refs       map[string]refEntry // reference node -> tracked file/namespace
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{
		nodes:      make(map[string]*node),
		namespaces: make(map[string]struct{}),
		refs:       make(map[string]refEntry),
	}
}

var _ scenegraph.Scene = (*Scene)(nil)

// ObjectExists reports whether the named node exists.
func (s *Scene) ObjectExists(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[name]
	return ok
}

// Describe returns a copy of the node description.
func (s *Scene) Describe(name string) (scenegraph.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return scenegraph.Node{}, false
	}
	return n.clone(), true
}

// NodeType returns the structural type of the named node.
func (s *Scene) NodeType(name string) (scenegraph.NodeType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return "", scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	return n.typ, nil
}

// HasAttr reports whether the node carries the attribute.
func (s *Scene) HasAttr(name, attr string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return false
	}
	_, ok = n.attrs[attr]
	return ok
}

// Attr returns an attribute value.
func (s *Scene) Attr(name, attr string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return nil, scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	v, ok := n.attrs[attr]
	if !ok {
		return nil, scenegraph.NotFoundError{Kind: "attribute", Name: name + "." + attr}
	}
	return v, nil
}

// SetAttr sets an attribute, creating it when absent.
func (s *Scene) SetAttr(name, attr string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[name]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[attr] = value
	return nil
}

// Connect records a directed connection from src's attribute to dst.
func (s *Scene) Connect(src, srcAttr, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[src]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: src}
	}
	if _, ok := s.nodes[dst]; !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: dst}
	}
	if n.conns == nil {
		n.conns = make(map[string][]string)
	}
	n.conns[srcAttr] = append(n.conns[srcAttr], dst)
	return nil
}

// Connections lists nodes connected to the attribute in insertion order.
func (s *Scene) Connections(name, attr string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[name]
	if !ok {
		return nil, scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	out, ok := n.conns[attr]
	if !ok {
		return nil, scenegraph.NotFoundError{Kind: "attribute", Name: name + "." + attr}
	}
	return append([]string(nil), out...), nil
}

// CreateNode adds a node, uniquifying the short name with a numeric suffix on
// collision, and returns the final name. A namespace prefix on the requested
// name is honoured and created when missing.
func (s *Scene) CreateNode(t scenegraph.NodeType, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("node name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ns := scenegraph.Namespace(name)
	if ns != "" {
		s.namespaces[ns] = struct{}{}
	}
	final := name
	for i := 1; ; i++ {
		if _, exists := s.nodes[final]; !exists {
			break
		}
		final = fmt.Sprintf("%s%d", name, i)
	}
	s.addNode(&node{name: final, typ: t})
	return final, nil
}

func (s *Scene) addNode(n *node) {
	s.nodes[n.name] = n
	s.order = append(s.order, n.name)
}

// Rename renames a node, moving it between namespaces when the new name is
// qualified. Read-only and locked nodes refuse rename.
func (s *Scene) Rename(name, newName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renameLocked(name, newName, false)
}

// renameLocked performs the rename. force bypasses the read-only guard and is
// used by namespace moves, which the host applies even to referenced content.
func (s *Scene) renameLocked(name, newName string, force bool) (string, error) {
	n, ok := s.nodes[name]
	if !ok {
		return "", scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	if !force {
		if n.readOnly {
			return "", scenegraph.ErrReadOnly
		}
		if n.locked {
			return "", scenegraph.ErrLocked
		}
	}
	if newName == name {
		return name, nil
	}
	if _, exists := s.nodes[newName]; exists {
		return "", scenegraph.AlreadyExistsError{Kind: "node", Name: newName}
	}
	if ns := scenegraph.Namespace(newName); ns != "" {
		s.namespaces[ns] = struct{}{}
	}
	delete(s.nodes, name)
	n.name = newName
	s.nodes[newName] = n
	s.replaceName(name, newName)
	return newName, nil
}

// replaceName rewrites every occurrence of old in ordering, hierarchy,
// connections, selection, and reference tracking.
func (s *Scene) replaceName(old, new string) {
	for i, v := range s.order {
		if v == old {
			s.order[i] = new
		}
	}
	for _, other := range s.nodes {
		if other.parent == old {
			other.parent = new
		}
		for i, c := range other.children {
			if c == old {
				other.children[i] = new
			}
		}
		for attr, targets := range other.conns {
			for i, t := range targets {
				if t == old {
					other.conns[attr][i] = new
				}
			}
		}
	}
	for i, v := range s.selection {
		if v == old {
			s.selection[i] = new
		}
	}
	if ref, ok := s.refs[old]; ok {
		delete(s.refs, old)
		s.refs[new] = ref
	}
}

// Delete removes a node and its subtree.
func (s *Scene) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[name]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	for _, child := range append([]string(nil), n.children...) {
		s.deleteLocked(child)
	}
	if n.parent != "" {
		s.detachFromParent(n)
	}
	s.removeNode(name)
	return nil
}

func (s *Scene) deleteLocked(name string) {
	n, ok := s.nodes[name]
	if !ok {
		return
	}
	for _, child := range append([]string(nil), n.children...) {
		s.deleteLocked(child)
	}
	s.removeNode(name)
}

func (s *Scene) removeNode(name string) {
	delete(s.nodes, name)
	delete(s.refs, name)
	for i, v := range s.order {
		if v == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	for i, v := range s.selection {
		if v == name {
			s.selection = append(s.selection[:i], s.selection[i+1:]...)
			break
		}
	}
	for _, other := range s.nodes {
		for attr, targets := range other.conns {
			kept := targets[:0]
			for _, t := range targets {
				if t != name {
					kept = append(kept, t)
				}
			}
			other.conns[attr] = kept
		}
	}
}

func (s *Scene) detachFromParent(n *node) {
	parent, ok := s.nodes[n.parent]
	if ok {
		for i, c := range parent.children {
			if c == n.name {
				parent.children = append(parent.children[:i], parent.children[i+1:]...)
				break
			}
		}
	}
	n.parent = ""
}

// SetParent re-parents child under parent; an empty parent moves it to the world.
func (s *Scene) SetParent(child, parent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.nodes[child]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: child}
	}
	if parent == "" {
		s.detachFromParent(c)
		return nil
	}
	p, ok := s.nodes[parent]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: parent}
	}
	if child == parent {
		return fmt.Errorf("cannot parent %q to itself", child)
	}
	s.detachFromParent(c)
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

// Select replaces the active selection.
func (s *Scene) Select(names ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range names {
		if _, ok := s.nodes[name]; !ok {
			return scenegraph.NotFoundError{Kind: "node", Name: name}
		}
	}
	s.selection = append([]string(nil), names...)
	return nil
}

// ClearSelection empties the active selection.
func (s *Scene) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// Selection returns selected node names filtered by type, in selection order.
func (s *Scene) Selection(t scenegraph.NodeType) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.selection))
	for _, name := range s.selection {
		n, ok := s.nodes[name]
		if !ok {
			continue
		}
		if t == "" || n.typ == t {
			out = append(out, name)
		}
	}
	return out
}

// ListNodes returns node names of the given type in creation order.
func (s *Scene) ListNodes(t scenegraph.NodeType) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.order))
	for _, name := range s.order {
		n := s.nodes[name]
		if t == "" || n.typ == t {
			out = append(out, name)
		}
	}
	return out
}

// SetLocked toggles the lock flag on a node.
func (s *Scene) SetLocked(name string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[name]
	if !ok {
		return scenegraph.NotFoundError{Kind: "node", Name: name}
	}
	n.locked = locked
	return nil
}

// Namespaces lists all namespaces, sorted.
func (s *Scene) Namespaces() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.namespaces))
	for ns := range s.namespaces {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
