package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"prefabcore/internal/blob"
	"prefabcore/pkg/scenegraph"
)

// Fixed relative filenames inside a saved item's directory.
const (
	// SceneFileName is the scene fragment object every item writes.
	SceneFileName = "scene.json"
)

// ContentTypeFragment is the MIME type recorded for scene fragment objects.
const ContentTypeFragment = "application/vnd.prefabcore.fragment+json"

// SceneKey returns the object-store key of an item's scene fragment.
func SceneKey(itemPath string) string {
	return itemPath + "/" + SceneFileName
}

// WriteSceneFile exports the subtree rooted at root into the item's scene
// fragment object. This is the generic scene-file writer every item save
// delegates to after validating its selection.
func (s *Session) WriteSceneFile(ctx context.Context, itemPath, root string) (blob.Info, error) {
	frag, err := s.Scene.ExportFragment(root)
	if err != nil {
		return blob.Info{}, fmt.Errorf("export %s: %w", root, err)
	}
	data, err := frag.Encode()
	if err != nil {
		return blob.Info{}, err
	}
	key := SceneKey(itemPath)
	info, err := s.Objects.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: ContentTypeFragment,
		Metadata:    map[string]string{"root": scenegraph.ShortName(root)},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("write scene file %s: %w", key, err)
	}
	s.Log.Info().Str("key", key).Int64("size", info.Size).Msg("scene file written")
	return info, nil
}

// ReadSceneFile fetches and decodes an item's scene fragment.
func (s *Session) ReadSceneFile(ctx context.Context, itemPath string) (*scenegraph.Fragment, error) {
	key := SceneKey(itemPath)
	_, rc, err := s.Objects.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read scene file %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return scenegraph.DecodeFragment(data)
}

// WriteSidecar stores a JSON sidecar object next to the scene file.
func (s *Session) WriteSidecar(ctx context.Context, itemPath, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	key := itemPath + "/" + name
	if _, err := s.Objects.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/json"}); err != nil {
		return fmt.Errorf("write sidecar %s: %w", key, err)
	}
	s.Log.Info().Str("key", key).Msg("sidecar written")
	return nil
}

// ReadSidecar fetches and decodes a JSON sidecar object.
func (s *Session) ReadSidecar(ctx context.Context, itemPath, name string, v any) error {
	key := itemPath + "/" + name
	_, rc, err := s.Objects.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read sidecar %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
