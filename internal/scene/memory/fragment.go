package memory

import (
	"fmt"
	"sort"

	"prefabcore/pkg/scenegraph"
)

// ImportFragment merges a fragment into the scene under opts.Namespace. New
// nodes are returned fully qualified, in fragment order. When opts.Reference
// is set a reference node tracking opts.SourceFile is created alongside the
// content and the imported nodes are marked read-only.
func (s *Scene) ImportFragment(fragment *scenegraph.Fragment, opts scenegraph.ImportOptions) ([]string, error) {
	if fragment == nil {
		return nil, fmt.Errorf("nil fragment")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("import namespace required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fn := range fragment.Nodes {
		qualified := scenegraph.JoinName(opts.Namespace, fn.Name)
		if _, exists := s.nodes[qualified]; exists {
			return nil, scenegraph.AlreadyExistsError{Kind: "node", Name: qualified}
		}
	}
	s.namespaces[opts.Namespace] = struct{}{}

	created := make([]string, 0, len(fragment.Nodes))
	for _, fn := range fragment.Nodes {
		qualified := scenegraph.JoinName(opts.Namespace, fn.Name)
		n := &node{name: qualified, typ: fn.Type, readOnly: opts.Reference}
		if fn.Attrs != nil {
			n.attrs = make(map[string]any, len(fn.Attrs))
			for k, v := range fn.Attrs {
				n.attrs[k] = v
			}
		}
		s.addNode(n)
		created = append(created, qualified)
	}

	// second pass: hierarchy and connections resolve inside the namespace
	for _, fn := range fragment.Nodes {
		qualified := scenegraph.JoinName(opts.Namespace, fn.Name)
		n := s.nodes[qualified]
		if fn.Parent != "" {
			parentName := scenegraph.JoinName(opts.Namespace, fn.Parent)
			parent, ok := s.nodes[parentName]
			if !ok {
				return nil, fmt.Errorf("fragment parent %q of %q not in fragment", fn.Parent, fn.Name)
			}
			n.parent = parentName
			parent.children = append(parent.children, qualified)
		}
		for attr, targets := range fn.Connections {
			for _, target := range targets {
				targetName := scenegraph.JoinName(opts.Namespace, target)
				if _, ok := s.nodes[targetName]; !ok {
					return nil, fmt.Errorf("fragment connection target %q of %q not in fragment", target, fn.Name)
				}
				if n.conns == nil {
					n.conns = make(map[string][]string)
				}
				n.conns[attr] = append(n.conns[attr], targetName)
			}
		}
	}

	if opts.Reference {
		refName := opts.Namespace + "RN"
		for i := 1; ; i++ {
			if _, exists := s.nodes[refName]; !exists {
				break
			}
			refName = fmt.Sprintf("%sRN%d", opts.Namespace, i)
		}
		s.addNode(&node{name: refName, typ: scenegraph.NodeReference, locked: true})
		s.refs[refName] = refEntry{file: opts.SourceFile, namespace: opts.Namespace}
		created = append(created, refName)
	}
	return created, nil
}

// ExportFragment serializes the named root's subtree plus any nodes reachable
// through its connections into a relocatable fragment. Namespace prefixes are
// stripped; a short-name clash after stripping aborts the export.
func (s *Scene) ExportFragment(root string) (*scenegraph.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rootNode, ok := s.nodes[root]
	if !ok {
		return nil, scenegraph.NotFoundError{Kind: "node", Name: root}
	}

	include := make(map[string]struct{})
	var walk func(name string)
	walk = func(name string) {
		if _, seen := include[name]; seen {
			return
		}
		n, ok := s.nodes[name]
		if !ok {
			return
		}
		include[name] = struct{}{}
		for _, c := range n.children {
			walk(c)
		}
		for _, targets := range n.conns {
			for _, t := range targets {
				walk(t)
			}
		}
	}
	walk(rootNode.name)

	shortOf := make(map[string]string, len(include))
	usedShort := make(map[string]string, len(include))
	for name := range include {
		short := scenegraph.ShortName(name)
		if prior, clash := usedShort[short]; clash {
			return nil, fmt.Errorf("export of %q: nodes %q and %q collide on short name %q", root, prior, name, short)
		}
		usedShort[short] = name
		shortOf[name] = short
	}

	ordered := make([]string, 0, len(include))
	for _, name := range s.order {
		if _, ok := include[name]; ok {
			ordered = append(ordered, name)
		}
	}

	frag := &scenegraph.Fragment{Version: scenegraph.FragmentVersion}
	for _, name := range ordered {
		n := s.nodes[name]
		fn := scenegraph.FragmentNode{Name: shortOf[name], Type: n.typ}
		if n.attrs != nil {
			fn.Attrs = make(map[string]any, len(n.attrs))
			for k, v := range n.attrs {
				fn.Attrs[k] = v
			}
		}
		if n.parent != "" {
			if short, ok := shortOf[n.parent]; ok {
				fn.Parent = short
			}
			// parents outside the subtree detach: the fragment is relocatable
		}
		for attr, targets := range n.conns {
			for _, t := range targets {
				short, ok := shortOf[t]
				if !ok {
					continue
				}
				if fn.Connections == nil {
					fn.Connections = make(map[string][]string)
				}
				fn.Connections[attr] = append(fn.Connections[attr], short)
			}
		}
		for attr := range fn.Connections {
			sort.Strings(fn.Connections[attr])
		}
		frag.Nodes = append(frag.Nodes, fn)
	}
	return frag, nil
}

// ReferenceFile returns the source file recorded for a referenced node: either
// the reference node itself or any node living in a tracked namespace.
func (s *Scene) ReferenceFile(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ref, ok := s.refs[name]; ok {
		return ref.file, nil
	}
	for _, ref := range s.refs {
		if inNamespace(name, ref.namespace) {
			return ref.file, nil
		}
	}
	return "", scenegraph.NotFoundError{Kind: "reference", Name: name}
}

// ReferenceNamespace returns the namespace a reference node tracks.
func (s *Scene) ReferenceNamespace(refNode string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.refs[refNode]
	if !ok {
		return "", scenegraph.NotFoundError{Kind: "reference", Name: refNode}
	}
	return ref.namespace, nil
}

// SetReferenceNamespace retargets every reference of the source file onto a
// new namespace, moving the referenced content with it. The reference node
// keeps its name; only the tracked namespace changes.
func (s *Scene) SetReferenceNamespace(sourceFile, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	moved := false
	for refNode, ref := range s.refs {
		if ref.file != sourceFile {
			continue
		}
		if ref.namespace != ns {
			s.namespaces[ns] = struct{}{}
			if err := s.moveContentsLocked(ref.namespace, ns); err != nil {
				return err
			}
			delete(s.namespaces, ref.namespace)
			s.refs[refNode] = refEntry{file: ref.file, namespace: ns}
		}
		moved = true
	}
	if !moved {
		return scenegraph.NotFoundError{Kind: "reference", Name: sourceFile}
	}
	return nil
}
