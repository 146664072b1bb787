package memory

import (
	"errors"
	"testing"

	"prefabcore/pkg/scenegraph"
)

func TestCreateNodeRegistersNamespaceAndUniquifies(t *testing.T) {
	s := New()
	name, err := s.CreateNode(scenegraph.NodeTransform, "hero_000:prefab")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if name != "hero_000:prefab" {
		t.Fatalf("name = %q", name)
	}
	if !s.NamespaceExists("hero_000") {
		t.Fatalf("expected namespace hero_000 to be registered")
	}

	second, err := s.CreateNode(scenegraph.NodeTransform, "hero_000:prefab")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second == name {
		t.Fatalf("expected uniquified name, got duplicate %q", second)
	}
	if !s.ObjectExists(second) {
		t.Fatalf("uniquified node %q missing", second)
	}
}

func TestRenameUpdatesHierarchyAndSelection(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "root")
	mustCreate(t, s, scenegraph.NodeTransform, "child")
	if err := s.SetParent("child", "root"); err != nil {
		t.Fatalf("parent: %v", err)
	}
	if err := s.Select("child"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := s.Rename("child", "ns:child"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	root, _ := s.Describe("root")
	if len(root.Children) != 1 || root.Children[0] != "ns:child" {
		t.Fatalf("children = %v", root.Children)
	}
	if sel := s.Selection(""); len(sel) != 1 || sel[0] != "ns:child" {
		t.Fatalf("selection = %v", sel)
	}
	if !s.NamespaceExists("ns") {
		t.Fatalf("expected namespace ns after qualified rename")
	}
}

func TestRenameRefusesLockedAndReadOnly(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "a")
	if err := s.SetLocked("a", true); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if _, err := s.Rename("a", "b"); !errors.Is(err, scenegraph.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestDeleteRemovesSubtree(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "root")
	mustCreate(t, s, scenegraph.NodeTransform, "mid")
	mustCreate(t, s, scenegraph.NodeCache, "leaf")
	if err := s.SetParent("mid", "root"); err != nil {
		t.Fatalf("parent: %v", err)
	}
	if err := s.SetParent("leaf", "mid"); err != nil {
		t.Fatalf("parent: %v", err)
	}
	if err := s.Delete("root"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, name := range []string{"root", "mid", "leaf"} {
		if s.ObjectExists(name) {
			t.Fatalf("%s survived delete", name)
		}
	}
}

func TestMoveNamespace(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "TEMP:prefab")
	mustCreate(t, s, scenegraph.NodeCache, "TEMP:cache")
	if err := s.SetParent("TEMP:cache", "TEMP:prefab"); err != nil {
		t.Fatalf("parent: %v", err)
	}

	if err := s.MoveNamespace("TEMP", "hero_000"); err != nil {
		t.Fatalf("move: %v", err)
	}
	if s.NamespaceExists("TEMP") {
		t.Fatalf("source namespace should be removed")
	}
	if !s.ObjectExists("hero_000:prefab") || !s.ObjectExists("hero_000:cache") {
		t.Fatalf("nodes not moved: %v", s.ListNodes(""))
	}
	moved, _ := s.Describe("hero_000:cache")
	if moved.Parent != "hero_000:prefab" {
		t.Fatalf("parent after move = %q", moved.Parent)
	}
}

func TestRemoveNamespaceMovesContentsToRoot(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "ns:node")
	if err := s.RemoveNamespace("ns"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !s.ObjectExists("node") {
		t.Fatalf("node not moved to root namespace")
	}
	if s.NamespaceExists("ns") {
		t.Fatalf("namespace survived removal")
	}
}

func TestImportExportFragmentRoundTrip(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "rig")
	mustCreate(t, s, scenegraph.NodeTransform, "geo")
	mustCreate(t, s, scenegraph.NodeCache, "c027_shepherd_m00_tall_dancing_03")
	if err := s.SetParent("geo", "rig"); err != nil {
		t.Fatalf("parent: %v", err)
	}
	if err := s.SetAttr("rig", "isPrefab", true); err != nil {
		t.Fatalf("attr: %v", err)
	}
	if err := s.Connect("rig", "usd_cycle_cache", "c027_shepherd_m00_tall_dancing_03"); err != nil {
		t.Fatalf("connect: %v", err)
	}

	frag, err := s.ExportFragment("rig")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(frag.Nodes) != 3 {
		t.Fatalf("fragment nodes = %d, want 3", len(frag.Nodes))
	}

	dst := New()
	created, err := dst.ImportFragment(frag, scenegraph.ImportOptions{Namespace: "TEMP"})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("created = %v", created)
	}
	if !dst.ObjectExists("TEMP:rig") {
		t.Fatalf("imported root missing")
	}
	if !dst.HasAttr("TEMP:rig", "isPrefab") {
		t.Fatalf("marker attribute lost in round trip")
	}
	conns, err := dst.Connections("TEMP:rig", "usd_cycle_cache")
	if err != nil || len(conns) != 1 || conns[0] != "TEMP:c027_shepherd_m00_tall_dancing_03" {
		t.Fatalf("connections after import = %v, %v", conns, err)
	}
	geo, _ := dst.Describe("TEMP:geo")
	if geo.Parent != "TEMP:rig" {
		t.Fatalf("hierarchy lost: parent = %q", geo.Parent)
	}
}

func TestImportFragmentClashFails(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "TEMP:rig")
	frag := &scenegraph.Fragment{
		Version: scenegraph.FragmentVersion,
		Nodes:   []scenegraph.FragmentNode{{Name: "rig", Type: scenegraph.NodeTransform}},
	}
	if _, err := s.ImportFragment(frag, scenegraph.ImportOptions{Namespace: "TEMP"}); err == nil {
		t.Fatalf("expected clash error")
	}
}

func TestReferenceImportAndRetarget(t *testing.T) {
	s := New()
	frag := &scenegraph.Fragment{
		Version: scenegraph.FragmentVersion,
		Nodes:   []scenegraph.FragmentNode{{Name: "rig", Type: scenegraph.NodeTransform}},
	}
	created, err := s.ImportFragment(frag, scenegraph.ImportOptions{
		Namespace:  "TEMP",
		Reference:  true,
		SourceFile: "lib/hero.prefab",
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %v, want rig plus reference node", created)
	}
	refNode := created[len(created)-1]

	if _, err := s.Rename("TEMP:rig", "other"); !errors.Is(err, scenegraph.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly on referenced content, got %v", err)
	}
	file, err := s.ReferenceFile("TEMP:rig")
	if err != nil || file != "lib/hero.prefab" {
		t.Fatalf("reference file = %q, %v", file, err)
	}

	if err := s.SetReferenceNamespace("lib/hero.prefab", "hero_000"); err != nil {
		t.Fatalf("retarget: %v", err)
	}
	if !s.ObjectExists("hero_000:rig") {
		t.Fatalf("referenced content did not move")
	}
	ns, err := s.ReferenceNamespace(refNode)
	if err != nil || ns != "hero_000" {
		t.Fatalf("reference namespace = %q, %v", ns, err)
	}
	if s.NamespaceExists("TEMP") {
		t.Fatalf("old namespace survived retarget")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New()
	mustCreate(t, s, scenegraph.NodeTransform, "ns:rig")
	if err := s.SetAttr("ns:rig", "isPrefab", true); err != nil {
		t.Fatalf("attr: %v", err)
	}
	if err := s.Select("ns:rig"); err != nil {
		t.Fatalf("select: %v", err)
	}

	snap := s.ExportState()
	restored := New()
	if err := restored.ImportState(snap); err != nil {
		t.Fatalf("import state: %v", err)
	}
	if !restored.ObjectExists("ns:rig") || !restored.NamespaceExists("ns") {
		t.Fatalf("state lost in round trip")
	}
	if sel := restored.Selection(""); len(sel) != 1 || sel[0] != "ns:rig" {
		t.Fatalf("selection = %v", sel)
	}
}

func mustCreate(t *testing.T, s *Scene, typ scenegraph.NodeType, name string) {
	t.Helper()
	got, err := s.CreateNode(typ, name)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	if got != name {
		t.Fatalf("create %s: got %s", name, got)
	}
}
