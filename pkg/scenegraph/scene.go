package scenegraph

// ImportOptions controls how a fragment is brought into a scene.
type ImportOptions struct {
	// Namespace isolates the imported nodes; created when absent.
	Namespace string
	// Reference imports the fragment as a file reference instead of a plain
	// import: a reference node tracking SourceFile is created and the imported
	// nodes are marked read-only for rename purposes.
	Reference bool
	// SourceFile records the origin of a referenced fragment.
	SourceFile string
}

// Scene is the repository interface over a live scene graph. It mirrors the
// subset of host operations the prefab items consume: node and attribute
// queries, selection, parenting, namespace management, and fragment
// import/export. All failures are scene-defined errors; nothing is retried.
type Scene interface {
	// ObjectExists reports whether a node with the fully qualified name exists.
	ObjectExists(name string) bool
	// Describe returns a copy of the node description.
	Describe(name string) (Node, bool)
	// NodeType returns the structural type of the named node.
	NodeType(name string) (NodeType, error)

	// HasAttr reports whether the node carries the named attribute.
	HasAttr(name, attr string) bool
	// Attr returns an attribute value.
	Attr(name, attr string) (any, error)
	// SetAttr sets an attribute value, creating the attribute when absent.
	SetAttr(name, attr string, value any) error
	// Connect records a directed connection from src's attribute to dst.
	Connect(src, srcAttr, dst string) error
	// Connections lists nodes connected to the node's attribute, in insertion order.
	Connections(name, attr string) ([]string, error)

	// CreateNode adds a node of the given type and returns its final name.
	CreateNode(t NodeType, name string) (string, error)
	// Rename renames a node, moving it between namespaces when the new name is
	// qualified. Renaming a read-only (reference-embedded) node fails with
	// ErrReadOnly.
	Rename(name, newName string) (string, error)
	// Delete removes a node and its subtree.
	Delete(name string) error
	// SetParent re-parents child under parent. An empty parent moves the child
	// to the world (scene root).
	SetParent(child, parent string) error

	// Select replaces the active selection.
	Select(names ...string) error
	// ClearSelection empties the active selection.
	ClearSelection()
	// Selection returns selected node names filtered by type; NodeType("")
	// returns the whole selection.
	Selection(t NodeType) []string
	// ListNodes returns all node names of the given type in deterministic order.
	ListNodes(t NodeType) []string

	// NamespaceExists reports membership in the scene namespace table.
	NamespaceExists(ns string) bool
	// AddNamespace registers a namespace.
	AddNamespace(ns string) error
	// MoveNamespace moves the contents of src into dst, creating dst when
	// absent and removing the then-empty src.
	MoveNamespace(src, dst string) error
	// RemoveNamespace moves the namespace contents to the root namespace and
	// deletes the namespace.
	RemoveNamespace(ns string) error
	// Namespaces lists all namespaces in the scene, sorted.
	Namespaces() []string

	// ImportFragment merges a fragment into the scene under opts.Namespace and
	// returns the fully qualified names of every new node.
	ImportFragment(fragment *Fragment, opts ImportOptions) ([]string, error)
	// ExportFragment serializes the named root's subtree into a relocatable
	// fragment with namespace prefixes stripped.
	ExportFragment(root string) (*Fragment, error)

	// ReferenceFile returns the source file recorded for a referenced node.
	ReferenceFile(node string) (string, error)
	// ReferenceNamespace returns the namespace a reference node tracks.
	ReferenceNamespace(refNode string) (string, error)
	// SetReferenceNamespace retargets every reference of the given source file
	// onto a new namespace, moving the referenced content.
	SetReferenceNamespace(sourceFile, ns string) error
	// SetLocked toggles the lock flag on a node. Locked nodes refuse rename
	// until unlocked.
	SetLocked(node string, locked bool) error
}
