package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"prefabcore/pkg/scenegraph"
)

// ReferenceRecord captures a reference node's tracked file and namespace.
type ReferenceRecord struct {
	Node      string `json:"node"`
	File      string `json:"file"`
	Namespace string `json:"namespace"`
}

// Snapshot is a serializable copy of the full scene state.
type Snapshot struct {
	Nodes      []scenegraph.Node `json:"nodes"`
	Namespaces []string          `json:"namespaces,omitempty"`
	Selection  []string          `json:"selection,omitempty"`
	References []ReferenceRecord `json:"references,omitempty"`
}

// ExportState clones the current scene state for external persistence.
func (s *Scene) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{
		Namespaces: make([]string, 0, len(s.namespaces)),
		Selection:  append([]string(nil), s.selection...),
	}
	for _, name := range s.order {
		snap.Nodes = append(snap.Nodes, s.nodes[name].clone())
	}
	for ns := range s.namespaces {
		snap.Namespaces = append(snap.Namespaces, ns)
	}
	for refNode, ref := range s.refs {
		snap.References = append(snap.References, ReferenceRecord{Node: refNode, File: ref.file, Namespace: ref.namespace})
	}
	return snap
}

// ImportState replaces the scene state with the snapshot.
func (s *Scene) ImportState(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*node, len(snap.Nodes))
	s.order = s.order[:0]
	s.namespaces = make(map[string]struct{}, len(snap.Namespaces))
	s.refs = make(map[string]refEntry, len(snap.References))
	s.selection = append([]string(nil), snap.Selection...)

	for _, sn := range snap.Nodes {
		if _, dup := s.nodes[sn.Name]; dup {
			return fmt.Errorf("snapshot node %q duplicated", sn.Name)
		}
		n := &node{
			name:     sn.Name,
			typ:      sn.Type,
			parent:   sn.Parent,
			children: append([]string(nil), sn.Children...),
			locked:   sn.Locked,
			readOnly: sn.ReadOnly,
		}
		if sn.Attrs != nil {
			n.attrs = make(map[string]any, len(sn.Attrs))
			for k, v := range sn.Attrs {
				n.attrs[k] = v
			}
		}
		if sn.Connections != nil {
			n.conns = make(map[string][]string, len(sn.Connections))
			for k, v := range sn.Connections {
				n.conns[k] = append([]string(nil), v...)
			}
		}
		s.addNode(n)
		if ns := scenegraph.Namespace(sn.Name); ns != "" {
			s.namespaces[ns] = struct{}{}
		}
	}
	for _, ns := range snap.Namespaces {
		s.namespaces[ns] = struct{}{}
	}
	for _, ref := range snap.References {
		s.refs[ref.Node] = refEntry{file: ref.File, namespace: ref.Namespace}
	}
	return nil
}

// LoadFile reads a scene snapshot from a JSON file into a fresh scene.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode scene file: %w", err)
	}
	s := New()
	if err := s.ImportState(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// SaveFile writes the scene snapshot to a JSON file.
func (s *Scene) SaveFile(path string) error {
	data, err := json.MarshalIndent(s.ExportState(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
