package naming

import (
	"fmt"

	"prefabcore/pkg/scenegraph"
)

// InstanceFormat renders an instance suffix as a zero-padded three-digit
// integer appended to the namespace base.
const InstanceFormat = "%s_%03d"

// FormatInstance renders the candidate namespace for an instance number.
func FormatInstance(base string, instance int) string {
	return fmt.Sprintf(InstanceFormat, base, instance)
}

// Allocate returns the first namespace of the form base_NNN (starting at 000)
// for which taken reports false. The check is read-then-act: the result is
// only guaranteed free at the instant of the check, which is acceptable in a
// single-user, single-threaded scene session. The loop has no upper bound; it
// terminates because the instance space is unbounded and taken must eventually
// report false for scenes of any realistic size.
func Allocate(base string, taken func(candidate string) bool) string {
	for instance := 0; ; instance++ {
		candidate := FormatInstance(base, instance)
		if !taken(candidate) {
			return candidate
		}
	}
}

// AllocateByNamespace allocates against the scene namespace table. This is the
// variant used when the base comes from the root node's stored name attribute.
func AllocateByNamespace(scene scenegraph.Scene, base string) string {
	return Allocate(base, scene.NamespaceExists)
}

// AllocateByNode allocates by probing for the existence of the fully qualified
// node "candidate:rigName". This is the variant used when the base is derived
// from a cache node name.
//
// Unlike AllocateByNamespace, this variant treats a namespace as taken only
// while the rig node itself exists in it, so an emptied-but-undeleted
// namespace is considered free. Existing scenes depend on each behavior at
// its respective call site.
func AllocateByNode(scene scenegraph.Scene, base, rigName string) string {
	return Allocate(base, func(candidate string) bool {
		return scene.ObjectExists(scenegraph.JoinName(candidate, rigName))
	})
}
