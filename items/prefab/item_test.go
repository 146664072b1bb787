package prefab

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"prefabcore/internal/blob"
	"prefabcore/internal/library"
	scenememory "prefabcore/internal/scene/memory"
	"prefabcore/pkg/naming"
	"prefabcore/pkg/scenegraph"
)

const cacheNodeName = "c027_shepherd_m00_tall_dancing_03"

func newSession(t *testing.T) (*library.Session, *scenememory.Scene) {
	t.Helper()
	scene := scenememory.New()
	return &library.Session{Scene: scene, Objects: blob.NewMemory(), Log: zerolog.Nop()}, scene
}

// authorRig builds a marked rig root with a connected cache node and selects it.
func authorRig(t *testing.T, scene *scenememory.Scene) {
	t.Helper()
	for _, step := range []struct {
		typ  scenegraph.NodeType
		name string
	}{
		{scenegraph.NodeTransform, RigName},
		{scenegraph.NodeTransform, "geo"},
		{scenegraph.NodeCache, cacheNodeName},
	} {
		if _, err := scene.CreateNode(step.typ, step.name); err != nil {
			t.Fatalf("create %s: %v", step.name, err)
		}
	}
	if err := scene.SetAttr(RigName, scenegraph.AttrIsPrefab, true); err != nil {
		t.Fatalf("mark rig: %v", err)
	}
	if err := scene.SetParent("geo", RigName); err != nil {
		t.Fatalf("parent geo: %v", err)
	}
	if err := scene.SetParent(cacheNodeName, RigName); err != nil {
		t.Fatalf("parent cache: %v", err)
	}
	if err := scene.Connect(RigName, AttrCacheLink, cacheNodeName); err != nil {
		t.Fatalf("connect cache: %v", err)
	}
	if err := scene.Select(RigName); err != nil {
		t.Fatalf("select: %v", err)
	}
}

func saveRig(t *testing.T, sess *library.Session, path string) {
	t.Helper()
	if err := New().Save(context.Background(), sess, library.SaveRequest{Path: path}); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestSaveRejectsEmptySelection(t *testing.T) {
	sess, _ := newSession(t)
	err := New().Save(context.Background(), sess, library.SaveRequest{Path: "chars/hero.prefab"})
	if !library.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != ValidationMessage {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestSaveRejectsMultipleRoots(t *testing.T) {
	sess, scene := newSession(t)
	for _, name := range []string{"a", "b"} {
		if _, err := scene.CreateNode(scenegraph.NodeTransform, name); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := scene.SetAttr(name, scenegraph.AttrIsPrefab, true); err != nil {
			t.Fatalf("mark: %v", err)
		}
	}
	if err := scene.Select("a", "b"); err != nil {
		t.Fatalf("select: %v", err)
	}
	err := New().Save(context.Background(), sess, library.SaveRequest{Path: "chars/two.prefab"})
	if !library.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	// nothing was written
	infos, listErr := sess.Objects.List(context.Background(), "chars/two.prefab/")
	if listErr != nil || len(infos) != 0 {
		t.Fatalf("objects after rejected save = %v, %v", infos, listErr)
	}
}

func TestSaveIgnoresUnmarkedSelection(t *testing.T) {
	sess, scene := newSession(t)
	authorRig(t, scene)
	if err := scene.Select(RigName, "geo"); err != nil {
		t.Fatalf("select: %v", err)
	}
	// geo carries no marker, so the selection still resolves to one root
	saveRig(t, sess, "chars/hero.prefab")
}

func TestLoadAllocatesNamespaceFromCacheName(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)
	authorRig(t, scene)
	saveRig(t, sess, "chars/shepherd.prefab")

	if err := New().Load(ctx, sess, library.LoadRequest{Path: "chars/shepherd.prefab"}); err != nil {
		t.Fatalf("load: %v", err)
	}

	root := "c027_shepherd_m00_tall_dancing_000:" + RigName
	if !scene.ObjectExists(root) {
		t.Fatalf("loaded root missing; nodes = %v", scene.ListNodes(""))
	}
	if scene.NamespaceExists(TempNamespace) {
		t.Fatalf("temp namespace survived load")
	}
	node, _ := scene.Describe(root)
	if node.Parent != GroupName {
		t.Fatalf("root parent = %q, want %q", node.Parent, GroupName)
	}
}

func TestDoubleLoadGetsDistinctNamespaces(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)
	authorRig(t, scene)
	saveRig(t, sess, "chars/shepherd.prefab")

	item := New()
	for i := 0; i < 2; i++ {
		if err := item.Load(ctx, sess, library.LoadRequest{Path: "chars/shepherd.prefab"}); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	for _, root := range []string{
		"c027_shepherd_m00_tall_dancing_000:" + RigName,
		"c027_shepherd_m00_tall_dancing_001:" + RigName,
	} {
		if !scene.ObjectExists(root) {
			t.Fatalf("missing %s; nodes = %v", root, scene.ListNodes(""))
		}
	}
}

func TestLoadPrefersPrefabNameAttr(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)
	authorRig(t, scene)
	if err := scene.SetAttr(RigName, AttrPrefabName, "hero"); err != nil {
		t.Fatalf("set name attr: %v", err)
	}
	saveRig(t, sess, "chars/hero.prefab")

	// the name-attribute variant allocates against the namespace table, so
	// even empty namespaces count as taken
	for _, ns := range []string{"hero_000", "hero_001"} {
		if err := scene.AddNamespace(ns); err != nil {
			t.Fatalf("add namespace: %v", err)
		}
	}

	if err := New().Load(ctx, sess, library.LoadRequest{Path: "chars/hero.prefab"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !scene.ObjectExists("hero_002:" + RigName) {
		t.Fatalf("expected hero_002 allocation; nodes = %v", scene.ListNodes(""))
	}
}

func TestLoadFailsOnMalformedCacheName(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)

	if _, err := scene.CreateNode(scenegraph.NodeTransform, RigName); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := scene.CreateNode(scenegraph.NodeCache, "badname"); err != nil {
		t.Fatalf("create cache: %v", err)
	}
	if err := scene.SetAttr(RigName, scenegraph.AttrIsPrefab, true); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := scene.SetParent("badname", RigName); err != nil {
		t.Fatalf("parent: %v", err)
	}
	if err := scene.Connect(RigName, AttrCacheLink, "badname"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := scene.Select(RigName); err != nil {
		t.Fatalf("select: %v", err)
	}
	saveRig(t, sess, "chars/bad.prefab")

	err := New().Load(ctx, sess, library.LoadRequest{Path: "chars/bad.prefab"})
	var formatErr naming.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected naming.FormatError, got %v", err)
	}
}

func TestLoadFailsWithoutMarkerInFragment(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)

	// a saved asset whose fragment carries no marked transform
	if _, err := scene.CreateNode(scenegraph.NodeTransform, "plain"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sess.WriteSceneFile(ctx, "chars/plain.prefab", "plain"); err != nil {
		t.Fatalf("write: %v", err)
	}

	err := New().Load(ctx, sess, library.LoadRequest{Path: "chars/plain.prefab"})
	var structural library.StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
}

func TestLoadFailsWhenRigHasNoNamespaceSource(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)

	if _, err := scene.CreateNode(scenegraph.NodeTransform, RigName); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := scene.SetAttr(RigName, scenegraph.AttrIsPrefab, true); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := scene.Select(RigName); err != nil {
		t.Fatalf("select: %v", err)
	}
	saveRig(t, sess, "chars/orphan.prefab")

	if err := New().Load(ctx, sess, library.LoadRequest{Path: "chars/orphan.prefab"}); err == nil {
		t.Fatalf("expected load failure for rig without name attr or cache link")
	}
}

func TestReferencedLoadRenamesReferenceNode(t *testing.T) {
	ctx := context.Background()
	sess, scene := newSession(t)
	authorRig(t, scene)
	saveRig(t, sess, "chars/shepherd.prefab")

	err := New().Load(ctx, sess, library.LoadRequest{
		Path:    "chars/shepherd.prefab",
		Options: map[string]string{OptionReference: "true"},
	})
	if err != nil {
		t.Fatalf("referenced load: %v", err)
	}

	ns := "c027_shepherd_m00_tall_dancing_000"
	root := ns + ":" + RigName
	if !scene.ObjectExists(root) {
		t.Fatalf("referenced root missing; nodes = %v", scene.ListNodes(""))
	}

	refNode := ns + ReferenceNodeSuffix
	if !scene.ObjectExists(refNode) {
		t.Fatalf("reference node %s missing; refs = %v", refNode, scene.ListNodes(scenegraph.NodeReference))
	}
	tracked, err := scene.ReferenceNamespace(refNode)
	if err != nil || tracked != ns {
		t.Fatalf("tracked namespace = %q, %v", tracked, err)
	}
	desc, _ := scene.Describe(refNode)
	if !desc.Locked {
		t.Fatalf("reference node left unlocked")
	}

	// referenced content keeps refusing plain renames
	if _, err := scene.Rename(root, "free"); !errors.Is(err, scenegraph.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}
