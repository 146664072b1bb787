package memory

import (
	"strings"

	"prefabcore/pkg/scenegraph"
)

// NamespaceExists reports membership in the namespace table.
func (s *Scene) NamespaceExists(ns string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.namespaces[ns]
	return ok
}

// AddNamespace registers a namespace.
func (s *Scene) AddNamespace(ns string) error {
	if ns == "" {
		return scenegraph.NotFoundError{Kind: "namespace", Name: ns}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.namespaces[ns]; ok {
		return scenegraph.AlreadyExistsError{Kind: "namespace", Name: ns}
	}
	s.namespaces[ns] = struct{}{}
	return nil
}

// inNamespace reports whether the fully qualified name lives in ns or a child
// namespace of ns.
func inNamespace(name, ns string) bool {
	owner := scenegraph.Namespace(name)
	return owner == ns || strings.HasPrefix(owner, ns+scenegraph.NamespaceSeparator)
}

// MoveNamespace moves the contents of src into dst, creating dst when absent
// and removing the then-empty src. The move is forced: read-only referenced
// content moves with its namespace, matching host force semantics.
func (s *Scene) MoveNamespace(src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.namespaces[src]; !ok {
		return scenegraph.NotFoundError{Kind: "namespace", Name: src}
	}
	s.namespaces[dst] = struct{}{}
	if err := s.moveContentsLocked(src, dst); err != nil {
		return err
	}
	delete(s.namespaces, src)
	return nil
}

// RemoveNamespace empties the namespace into the root namespace and deletes it.
func (s *Scene) RemoveNamespace(ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.namespaces[ns]; !ok {
		return scenegraph.NotFoundError{Kind: "namespace", Name: ns}
	}
	if err := s.moveContentsLocked(ns, ""); err != nil {
		return err
	}
	delete(s.namespaces, ns)
	return nil
}

// moveContentsLocked renames every node under src so it lives under dst
// instead; an empty dst strips the prefix. Collisions abort the move midway,
// like the non-transactional host operation they mirror.
func (s *Scene) moveContentsLocked(src, dst string) error {
	var members []string
	for _, name := range s.order {
		if inNamespace(name, src) {
			members = append(members, name)
		}
	}
	for _, name := range members {
		suffix := strings.TrimPrefix(name, src+scenegraph.NamespaceSeparator)
		target := suffix
		if dst != "" {
			target = scenegraph.JoinName(dst, suffix)
		}
		if _, err := s.renameLocked(name, target, true); err != nil {
			return err
		}
	}
	// child namespaces of src follow their nodes
	for ns := range s.namespaces {
		if ns == src || !strings.HasPrefix(ns, src+scenegraph.NamespaceSeparator) {
			continue
		}
		delete(s.namespaces, ns)
		suffix := strings.TrimPrefix(ns, src+scenegraph.NamespaceSeparator)
		if dst != "" {
			s.namespaces[scenegraph.JoinName(dst, suffix)] = struct{}{}
		} else {
			s.namespaces[suffix] = struct{}{}
		}
	}
	return nil
}
