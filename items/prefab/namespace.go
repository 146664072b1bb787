package prefab

import (
	"errors"
	"fmt"

	"prefabcore/pkg/scenegraph"
)

// GroupName is the transform every loaded prefab is parented under.
const GroupName = "__Prefabs__"

// ReferenceNodeSuffix is appended to a namespace to form its reference node
// name.
const ReferenceNodeSuffix = "RN"

// GroupPrefab parents root under the prefab root group, creating the group on
// first use. Returns the group name.
func GroupPrefab(scene scenegraph.Scene, root string) (string, error) {
	if !scene.ObjectExists(GroupName) {
		if _, err := scene.CreateNode(scenegraph.NodeTransform, GroupName); err != nil {
			return "", fmt.Errorf("create group %s: %w", GroupName, err)
		}
	}
	if err := scene.SetParent(root, GroupName); err != nil {
		return "", fmt.Errorf("parent %s under %s: %w", root, GroupName, err)
	}
	return GroupName, nil
}

// SwapNamespace moves the contents of src into dst and returns root's new
// fully qualified name. dst is created when absent; src is removed.
func SwapNamespace(scene scenegraph.Scene, root, src, dst string) (string, error) {
	if err := scene.MoveNamespace(src, dst); err != nil {
		return "", err
	}
	return scenegraph.JoinName(dst, scenegraph.ShortName(root)), nil
}

// RemoveNamespace moves the namespace contents to the root namespace and
// deletes the namespace.
func RemoveNamespace(scene scenegraph.Scene, ns string) error {
	return scene.RemoveNamespace(ns)
}

// StripNamespace renames each node to its short name. Rename failures on
// reference-embedded read-only nodes are ignored; those nodes keep their
// qualified names until the reference is retargeted.
func StripNamespace(scene scenegraph.Scene, names []string) error {
	for _, name := range names {
		short := scenegraph.ShortName(name)
		if short == name {
			continue
		}
		if _, err := scene.Rename(name, short); err != nil {
			if errors.Is(err, scenegraph.ErrReadOnly) {
				continue
			}
			return fmt.Errorf("strip namespace from %s: %w", name, err)
		}
	}
	return nil
}

// renameReferenceNode finds the reference node tracking ns by linear scan and
// renames it to "<ns>RN", unlocking around the rename. A read-only rename
// failure is ignored.
func renameReferenceNode(scene scenegraph.Scene, ns string) error {
	for _, refNode := range scene.ListNodes(scenegraph.NodeReference) {
		tracked, err := scene.ReferenceNamespace(refNode)
		if err != nil || tracked != ns {
			continue
		}
		want := ns + ReferenceNodeSuffix
		if refNode == want {
			return nil
		}
		if err := scene.SetLocked(refNode, false); err != nil {
			return fmt.Errorf("unlock reference node %s: %w", refNode, err)
		}
		if _, err := scene.Rename(refNode, want); err != nil && !errors.Is(err, scenegraph.ErrReadOnly) {
			return fmt.Errorf("rename reference node %s: %w", refNode, err)
		}
		if err := scene.SetLocked(want, true); err != nil {
			// Rename may have been skipped on a read-only node.
			if lockErr := scene.SetLocked(refNode, true); lockErr != nil {
				return lockErr
			}
		}
		return nil
	}
	return nil
}
