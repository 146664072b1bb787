package scenegraph

// Marker attributes tagging prefab roots. A boolean attribute marks the node;
// classification only checks presence, matching the attribute-query convention
// the rigs are authored with.
const (
	// AttrIsPrefab marks a prefab rig root transform.
	AttrIsPrefab = "isPrefab"
	// AttrIsPrefabCluster marks a prefab cluster root transform.
	AttrIsPrefabCluster = "isPrefabCluster"
)

// NodeKind is the classified role of a scene node.
type NodeKind string

// Node kinds resolved by Classify.
const (
	KindPrefab        NodeKind = "prefab"
	KindPrefabCluster NodeKind = "prefab_cluster"
	KindOther         NodeKind = "other"
)

// Classify resolves a node description to its kind. Only transforms qualify;
// a transform carrying both markers classifies as a cluster, since clusters
// aggregate prefabs and the cluster marker is the more specific tag.
func Classify(n Node) NodeKind {
	if n.Type != NodeTransform {
		return KindOther
	}
	if _, ok := n.Attrs[AttrIsPrefabCluster]; ok {
		return KindPrefabCluster
	}
	if _, ok := n.Attrs[AttrIsPrefab]; ok {
		return KindPrefab
	}
	return KindOther
}
