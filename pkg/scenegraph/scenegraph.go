// Package scenegraph defines the node, namespace, and fragment model shared by
// prefabcore together with the scene-repository abstraction that library items
// operate against. Implementations adapt a concrete scene graph (the in-memory
// reference scene, or a bridge to a DCC host) behind the Scene interface so
// that naming and load/save logic stays testable without a live host.
package scenegraph

import "strings"

// NodeType identifies the structural type of a scene node.
type NodeType string

// Node types recognised by the library items.
const (
	// NodeTransform is a DAG transform; prefab and cluster roots are transforms.
	NodeTransform NodeType = "transform"
	// NodeCache is a cache node linked to a prefab root.
	NodeCache NodeType = "cache"
	// NodeReference tracks an externally referenced scene file.
	NodeReference NodeType = "reference"
	// NodeGeneric is any other node type carried through import/export untouched.
	NodeGeneric NodeType = "generic"
)

// Node is a read-only description of a scene node. Name is fully qualified
// (namespace-prefixed when the node lives in a namespace).
type Node struct {
	Name        string              `json:"name"`
	Type        NodeType            `json:"type"`
	Attrs       map[string]any      `json:"attrs,omitempty"`
	Parent      string              `json:"parent,omitempty"`
	Children    []string            `json:"children,omitempty"`
	Connections map[string][]string `json:"connections,omitempty"`
	Locked      bool                `json:"locked,omitempty"`
	ReadOnly    bool                `json:"read_only,omitempty"`
}

// NamespaceSeparator joins a namespace and a short node name.
const NamespaceSeparator = ":"

// SplitName splits a fully qualified node name into namespace and short name.
// Names without a namespace return an empty namespace. Nested namespaces stay
// attached to the namespace part (rsplit semantics).
func SplitName(name string) (namespace, short string) {
	idx := strings.LastIndex(name, NamespaceSeparator)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

// JoinName builds a fully qualified node name from a namespace and short name.
func JoinName(namespace, short string) string {
	if namespace == "" {
		return short
	}
	return namespace + NamespaceSeparator + short
}

// ShortName returns the node name with any namespace prefix removed.
func ShortName(name string) string {
	_, short := SplitName(name)
	return short
}

// Namespace returns the namespace portion of a fully qualified node name.
func Namespace(name string) string {
	ns, _ := SplitName(name)
	return ns
}
