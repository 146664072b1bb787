// Package prefabcluster implements the library item type for prefab clusters:
// a marked group transform aggregating several prefab rigs, saved and loaded
// as one unit with a JSON sidecar listing the member prefabs.
package prefabcluster

import (
	"context"
	"fmt"

	"prefabcore/internal/library"
	"prefabcore/items/prefab"
	"prefabcore/pkg/naming"
	"prefabcore/pkg/scenegraph"
)

const (
	// TypeName is the item type identifier recorded in the catalog.
	TypeName = "prefab_cluster"
	// Extension is the library path extension.
	Extension = ".prefabcluster"
	// TempNamespace isolates a cluster import until the final namespace is
	// resolved.
	TempNamespace = "PREFAB_CLUSTER"
	// SidecarName is the member-listing sidecar written next to the scene file.
	SidecarName = "cluster.json"
	// ValidationMessage is surfaced when the save selection is rejected.
	ValidationMessage = "Please select a single Prefab Cluster's root transform."
)

// Member describes one prefab inside a saved cluster.
type Member struct {
	Name       string `json:"name"`
	SourcePath string `json:"source_path"`
	AnimPath   string `json:"anim_path,omitempty"`
}

// Sidecar is the cluster.json payload.
type Sidecar struct {
	Members []Member `json:"members"`
}

// Attributes a member prefab may carry recording its library provenance.
const (
	// AttrSourcePath stores the library path the prefab was loaded from.
	AttrSourcePath = "source_path"
	// AttrAnimPath stores the library path of the applied animation.
	AttrAnimPath = "anim_path"
)

// Item is the prefab cluster item type.
type Item struct{}

var _ library.Item = Item{}

// New constructs a prefab cluster item instance.
func New() Item {
	return Item{}
}

// Name returns the display name of the item type.
func (Item) Name() string { return "Prefab Cluster" }

// Type returns the catalog item type identifier.
func (Item) Type() string { return TypeName }

// Extension returns the library path extension.
func (Item) Extension() string { return Extension }

// LoadSchema describes the configurable load options.
func (Item) LoadSchema() []library.SchemaField {
	return []library.SchemaField{
		{Name: prefab.OptionNamespace, Type: "string", Default: TempNamespace, Persistent: true},
	}
}

// Save validates that exactly one marked cluster root is selected, unparents
// it to the world so the export is self-contained, writes the scene file and
// the member sidecar, and parents the root under the prefab root group.
func (Item) Save(ctx context.Context, sess *library.Session, req library.SaveRequest) error {
	scene := sess.Scene
	root, err := selectedClusterRoot(scene)
	if err != nil {
		return err
	}

	if node, ok := scene.Describe(root); ok && node.Parent != "" {
		if err := scene.SetParent(root, ""); err != nil {
			return fmt.Errorf("unparent %s: %w", root, err)
		}
	}
	// The root always ends up under the group, whatever its parent was before.
	defer func() {
		_, _ = prefab.GroupPrefab(scene, root)
	}()

	if _, err := sess.WriteSceneFile(ctx, req.Path, root); err != nil {
		return err
	}
	return sess.WriteSidecar(ctx, req.Path, SidecarName, collectSidecar(scene, root))
}

// selectedClusterRoot returns the single selected transform classified as a
// cluster root.
func selectedClusterRoot(scene scenegraph.Scene) (string, error) {
	var roots []string
	for _, name := range scene.Selection(scenegraph.NodeTransform) {
		node, ok := scene.Describe(name)
		if !ok {
			continue
		}
		if scenegraph.Classify(node) == scenegraph.KindPrefabCluster {
			roots = append(roots, name)
		}
	}
	if len(roots) != 1 {
		return "", library.ValidationError{Msg: ValidationMessage}
	}
	return roots[0], nil
}

// collectSidecar enumerates the cluster's member prefabs and their recorded
// library provenance.
func collectSidecar(scene scenegraph.Scene, root string) Sidecar {
	var sidecar Sidecar
	node, ok := scene.Describe(root)
	if !ok {
		return sidecar
	}
	for _, child := range node.Children {
		member, ok := scene.Describe(child)
		if !ok || scenegraph.Classify(member) != scenegraph.KindPrefab {
			continue
		}
		entry := Member{Name: scenegraph.ShortName(child)}
		if v, ok := member.Attrs[AttrSourcePath]; ok {
			entry.SourcePath, _ = v.(string)
		}
		if v, ok := member.Attrs[AttrAnimPath]; ok {
			entry.AnimPath, _ = v.(string)
		}
		sidecar.Members = append(sidecar.Members, entry)
	}
	return sidecar
}

// Load imports the saved cluster under a temp namespace, locates the cluster
// root by its marker, claims a fresh instance namespace against the scene
// namespace table, and reparents the cluster under the prefab root group.
func (Item) Load(ctx context.Context, sess *library.Session, req library.LoadRequest) error {
	scene := sess.Scene

	temp := req.Options[prefab.OptionNamespace]
	if temp == "" {
		temp = TempNamespace
	}

	frag, err := sess.ReadSceneFile(ctx, req.Path)
	if err != nil {
		return err
	}
	imported, err := scene.ImportFragment(frag, scenegraph.ImportOptions{
		Namespace:  temp,
		SourceFile: req.Path,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", req.Path, err)
	}

	root := ""
	for _, name := range imported {
		node, ok := scene.Describe(name)
		if !ok {
			continue
		}
		if scenegraph.Classify(node) == scenegraph.KindPrefabCluster {
			root = name
			break
		}
	}
	if root == "" {
		return library.StructuralError{ItemPath: req.Path, Missing: "Prefab Cluster's root transform"}
	}

	// The instance namespace is allocated against the namespace table so a
	// fresh load never collides with a namespace already in the scene.
	final := naming.AllocateByNamespace(scene, scenegraph.ShortName(root))
	if err := scene.MoveNamespace(temp, final); err != nil {
		return fmt.Errorf("move namespace %s to %s: %w", temp, final, err)
	}

	clusterRoot := scenegraph.JoinName(final, scenegraph.ShortName(root))
	group, err := prefab.GroupPrefab(scene, clusterRoot)
	if err != nil {
		return err
	}
	sess.Log.Info().Str("path", req.Path).Str("namespace", final).
		Str("root", clusterRoot).Str("group", group).Msg("prefab cluster loaded")
	return nil
}

// LoadFromSidecar rebuilds a cluster by loading each member prefab recorded
// in the cluster.json sidecar through the service. Members whose source path
// is missing from the library are skipped with a logged error; the remaining
// members still load.
func LoadFromSidecar(ctx context.Context, svc *library.Service, sess *library.Session, itemPath string) error {
	var sidecar Sidecar
	if err := sess.ReadSidecar(ctx, itemPath, SidecarName, &sidecar); err != nil {
		return err
	}
	for _, member := range sidecar.Members {
		if member.SourcePath == "" {
			sess.Log.Error().Str("member", member.Name).Msg("cluster member has no source path")
			continue
		}
		if err := svc.LoadItem(ctx, library.LoadRequest{Path: member.SourcePath}); err != nil {
			sess.Log.Error().Err(err).Str("member", member.Name).
				Str("source_path", member.SourcePath).Msg("cluster member failed to load")
			continue
		}
	}
	return nil
}
