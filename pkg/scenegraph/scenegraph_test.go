package scenegraph

import "testing"

func TestSplitName(t *testing.T) {
	cases := []struct {
		name      string
		namespace string
		short     string
	}{
		{"prefab", "", "prefab"},
		{"hero_000:prefab", "hero_000", "prefab"},
		{"outer:inner:prefab", "outer:inner", "prefab"},
	}
	for _, tc := range cases {
		ns, short := SplitName(tc.name)
		if ns != tc.namespace || short != tc.short {
			t.Fatalf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.name, ns, short, tc.namespace, tc.short)
		}
	}
}

func TestJoinName(t *testing.T) {
	if got := JoinName("", "prefab"); got != "prefab" {
		t.Fatalf("JoinName empty namespace = %q", got)
	}
	if got := JoinName("hero_000", "prefab"); got != "hero_000:prefab" {
		t.Fatalf("JoinName = %q", got)
	}
}

func TestShortNameAndNamespace(t *testing.T) {
	if got := ShortName("hero_000:prefab"); got != "prefab" {
		t.Fatalf("ShortName = %q", got)
	}
	if got := Namespace("hero_000:prefab"); got != "hero_000" {
		t.Fatalf("Namespace = %q", got)
	}
	if got := Namespace("prefab"); got != "" {
		t.Fatalf("Namespace of unqualified name = %q", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		node Node
		want NodeKind
	}{
		{
			name: "plain transform",
			node: Node{Type: NodeTransform},
			want: KindOther,
		},
		{
			name: "prefab root",
			node: Node{Type: NodeTransform, Attrs: map[string]any{AttrIsPrefab: true}},
			want: KindPrefab,
		},
		{
			name: "cluster root",
			node: Node{Type: NodeTransform, Attrs: map[string]any{AttrIsPrefabCluster: true}},
			want: KindPrefabCluster,
		},
		{
			name: "both markers resolves to cluster",
			node: Node{Type: NodeTransform, Attrs: map[string]any{AttrIsPrefab: true, AttrIsPrefabCluster: true}},
			want: KindPrefabCluster,
		},
		{
			name: "marker on non-transform",
			node: Node{Type: NodeCache, Attrs: map[string]any{AttrIsPrefab: true}},
			want: KindOther,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.node); got != tc.want {
				t.Fatalf("Classify = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFragmentRoundTrip(t *testing.T) {
	frag := &Fragment{
		Nodes: []FragmentNode{
			{Name: "prefab", Type: NodeTransform, Attrs: map[string]any{AttrIsPrefab: true}},
			{Name: "geo", Type: NodeTransform, Parent: "prefab"},
		},
	}
	data, err := frag.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeFragment(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Version != FragmentVersion {
		t.Fatalf("version = %d", decoded.Version)
	}
	if len(decoded.Nodes) != 2 || decoded.Nodes[1].Parent != "prefab" {
		t.Fatalf("nodes = %+v", decoded.Nodes)
	}
}

func TestDecodeFragmentRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		json string
	}{
		{"wrong version", `{"version": 99, "nodes": []}`},
		{"empty node name", `{"version": 1, "nodes": [{"name": "", "type": "transform"}]}`},
		{"qualified node name", `{"version": 1, "nodes": [{"name": "ns:rig", "type": "transform"}]}`},
		{"duplicate node name", `{"version": 1, "nodes": [{"name": "rig", "type": "transform"}, {"name": "rig", "type": "transform"}]}`},
		{"not json", `nope`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFragment([]byte(tc.json)); err == nil {
				t.Fatalf("expected decode error")
			}
		})
	}
}
