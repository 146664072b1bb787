// Package prefab implements the library item type for single prefab rigs:
// saving a marked rig root to the library and loading it back under a fresh
// instance namespace, grouped under the prefab root group.
package prefab

import (
	"context"
	"fmt"

	"prefabcore/internal/library"
	"prefabcore/pkg/naming"
	"prefabcore/pkg/scenegraph"
)

const (
	// TypeName is the item type identifier recorded in the catalog.
	TypeName = "prefab"
	// Extension is the library path extension.
	Extension = ".prefab"
	// AttrPrefabName stores the preferred namespace base on a rig root.
	AttrPrefabName = "prefab_name"
	// AttrCacheLink is the attribute connecting a rig root to its cache node.
	AttrCacheLink = "usd_cycle_cache"
	// TempNamespace isolates an import until the final namespace is resolved.
	TempNamespace = "PREFAB_IMPORT_TEMP"
	// RigName is the short name every prefab rig root is authored with.
	RigName = "prefab"
	// ValidationMessage is surfaced when the save selection is rejected.
	ValidationMessage = "Please select a single Prefab rig's root transform."
)

// Load option names.
const (
	// OptionNamespace overrides the temp import namespace.
	OptionNamespace = "namespace"
	// OptionReference switches the load to a reference import.
	OptionReference = "reference"
)

// Item is the prefab rig item type.
type Item struct{}

var _ library.Item = Item{}

// New constructs a prefab item instance.
func New() Item {
	return Item{}
}

// Name returns the display name of the item type.
func (Item) Name() string { return "Prefab" }

// Type returns the catalog item type identifier.
func (Item) Type() string { return TypeName }

// Extension returns the library path extension.
func (Item) Extension() string { return Extension }

// LoadSchema describes the configurable load options.
func (Item) LoadSchema() []library.SchemaField {
	return []library.SchemaField{
		{Name: OptionNamespace, Type: "string", Default: TempNamespace, Persistent: true},
		{Name: OptionReference, Type: "bool", Default: "false", Persistent: false},
	}
}

// Save validates that exactly one marked rig root transform is selected and
// writes its subtree to the library. Nothing is written on a rejected
// selection.
func (Item) Save(ctx context.Context, sess *library.Session, req library.SaveRequest) error {
	root, err := selectedRoot(sess.Scene, scenegraph.KindPrefab)
	if err != nil {
		return err
	}
	if _, err := sess.WriteSceneFile(ctx, req.Path, root); err != nil {
		return err
	}
	return nil
}

// selectedRoot returns the single selected transform classified as kind.
// Any other selection shape is a validation error.
func selectedRoot(scene scenegraph.Scene, kind scenegraph.NodeKind) (string, error) {
	var roots []string
	for _, name := range scene.Selection(scenegraph.NodeTransform) {
		node, ok := scene.Describe(name)
		if !ok {
			continue
		}
		if scenegraph.Classify(node) == kind {
			roots = append(roots, name)
		}
	}
	if len(roots) != 1 {
		return "", library.ValidationError{Msg: ValidationMessage}
	}
	return roots[0], nil
}

// Load imports the saved fragment under a temp namespace, locates the rig
// root by its marker attribute, resolves and claims the final instance
// namespace, and reparents the rig under the prefab root group. A reference
// load additionally retargets the reference node onto the final namespace.
func (it Item) Load(ctx context.Context, sess *library.Session, req library.LoadRequest) error {
	scene := sess.Scene

	temp := req.Options[OptionNamespace]
	if temp == "" {
		temp = TempNamespace
	}
	reference := req.Options[OptionReference] == "true"

	frag, err := sess.ReadSceneFile(ctx, req.Path)
	if err != nil {
		return err
	}
	imported, err := scene.ImportFragment(frag, scenegraph.ImportOptions{
		Namespace:  temp,
		Reference:  reference,
		SourceFile: req.Path,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", req.Path, err)
	}

	root, ok := findRoot(scene, imported, scenegraph.KindPrefab)
	if !ok {
		return library.StructuralError{ItemPath: req.Path, Missing: "Prefab rig's root transform"}
	}

	final, err := resolveNamespace(scene, root)
	if err != nil {
		return err
	}
	if reference {
		if err := scene.SetReferenceNamespace(req.Path, final); err != nil {
			return fmt.Errorf("retarget reference namespace: %w", err)
		}
		if err := renameReferenceNode(scene, final); err != nil {
			return err
		}
	} else {
		if err := scene.MoveNamespace(temp, final); err != nil {
			return fmt.Errorf("move namespace %s to %s: %w", temp, final, err)
		}
	}

	rigRoot := scenegraph.JoinName(final, scenegraph.ShortName(root))
	group, err := GroupPrefab(scene, rigRoot)
	if err != nil {
		return err
	}
	sess.Log.Info().Str("path", req.Path).Str("namespace", final).
		Str("root", rigRoot).Str("group", group).Bool("reference", reference).
		Msg("prefab loaded")
	return nil
}

// findRoot returns the first imported node classified as kind, in import
// order.
func findRoot(scene scenegraph.Scene, names []string, kind scenegraph.NodeKind) (string, bool) {
	for _, name := range names {
		node, ok := scene.Describe(name)
		if !ok {
			continue
		}
		if scenegraph.Classify(node) == kind {
			return name, true
		}
	}
	return "", false
}

// resolveNamespace claims the final instance namespace for an imported rig
// root. A stored name attribute wins; otherwise the connected cache node's
// name supplies the base. A rig carrying neither cannot be namespaced and the
// load fails.
func resolveNamespace(scene scenegraph.Scene, root string) (string, error) {
	if scene.HasAttr(root, AttrPrefabName) {
		v, err := scene.Attr(root, AttrPrefabName)
		if err != nil {
			return "", err
		}
		base, _ := v.(string)
		if base != "" {
			return naming.AllocateByNamespace(scene, base), nil
		}
	}
	conns, err := scene.Connections(root, AttrCacheLink)
	if err == nil && len(conns) > 0 {
		parsed, err := naming.ParseCacheName(scenegraph.ShortName(conns[0]))
		if err != nil {
			return "", err
		}
		return naming.AllocateByNode(scene, parsed.Base(), RigName), nil
	}
	return "", fmt.Errorf("prefab root %s carries neither %s nor a %s connection",
		root, AttrPrefabName, AttrCacheLink)
}
