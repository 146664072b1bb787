package scenegraph

import (
	"encoding/json"
	"fmt"
)

// FragmentVersion is the current fragment format version.
const FragmentVersion = 1

// FragmentNode is a node serialized inside a fragment. Names are short
// (namespace-free) so a fragment can be imported under any namespace.
type FragmentNode struct {
	Name        string              `json:"name"`
	Type        NodeType            `json:"type"`
	Attrs       map[string]any      `json:"attrs,omitempty"`
	Parent      string              `json:"parent,omitempty"`
	Connections map[string][]string `json:"connections,omitempty"`
}

// Fragment is a relocatable serialized scene subtree. It is the on-disk scene
// file payload written for every saved library item.
type Fragment struct {
	Version int            `json:"version"`
	Nodes   []FragmentNode `json:"nodes"`
}

// Encode serializes the fragment as indented JSON.
func (f *Fragment) Encode() ([]byte, error) {
	if f.Version == 0 {
		f.Version = FragmentVersion
	}
	return json.MarshalIndent(f, "", "  ")
}

// DecodeFragment parses fragment JSON, rejecting unknown format versions and
// fragments with duplicate or namespace-qualified node names.
func DecodeFragment(data []byte) (*Fragment, error) {
	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fragment: %w", err)
	}
	if f.Version != FragmentVersion {
		return nil, fmt.Errorf("unsupported fragment version %d", f.Version)
	}
	seen := make(map[string]struct{}, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("fragment node with empty name")
		}
		if Namespace(n.Name) != "" {
			return nil, fmt.Errorf("fragment node %q carries a namespace prefix", n.Name)
		}
		if _, dup := seen[n.Name]; dup {
			return nil, fmt.Errorf("fragment node %q duplicated", n.Name)
		}
		seen[n.Name] = struct{}{}
	}
	return &f, nil
}
