package library

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"prefabcore/internal/blob"
	"prefabcore/internal/catalog"
	"prefabcore/pkg/scenegraph"
)

// Service exposes the top-level library operations. It resolves the item type
// for a path, runs the item's save/load pipeline against the scene and object
// store, and records the result in the catalog. Failures are returned to the
// caller, never displayed.
type Service struct {
	registry *Registry
	scene    scenegraph.Scene
	objects  blob.Store
	catalog  catalog.Store
	metrics  MetricsRecorder
	tracer   Tracer
	log      zerolog.Logger
}

// ServiceOption customizes a Service during construction.
type ServiceOption func(*Service)

// WithLogger attaches a structured logger to the service.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// WithMetricsRecorder attaches a metrics recorder invoked after each operation.
func WithMetricsRecorder(rec MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = rec }
}

// WithTracer attaches a tracer wrapping each operation in a span.
func WithTracer(tr Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tr }
}

// NewService constructs a service over the supplied scene, object store and
// catalog.
func NewService(scene scenegraph.Scene, objects blob.Store, cat catalog.Store, opts ...ServiceOption) *Service {
	s := &Service{
		registry: NewRegistry(),
		scene:    scene,
		objects:  objects,
		catalog:  cat,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterItem adds an item type to the service registry.
func (s *Service) RegisterItem(item Item) error {
	return s.registry.Register(item)
}

// RegisteredItems returns the registered item types ordered by type name.
func (s *Service) RegisteredItems() []Item {
	return s.registry.Items()
}

// session builds the per-operation collaborator bundle handed to items.
func (s *Service) session(itemType string) *Session {
	return &Session{
		Scene:   s.scene,
		Objects: s.objects,
		Log:     s.log.With().Str("item_type", itemType).Logger(),
	}
}

// instrument wraps one service operation with tracing, metrics and logging.
func (s *Service) instrument(ctx context.Context, operation, path string, fn func(context.Context) error) error {
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	started := time.Now()
	err := fn(ctx)
	elapsed := time.Since(started)
	if span != nil {
		span.End(err)
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, elapsed)
	}
	evt := s.log.Info()
	if err != nil {
		evt = s.log.Error().Err(err)
	}
	evt.Str("operation", operation).Str("path", path).Dur("elapsed", elapsed).Msg("library operation")
	return err
}

// SaveItem resolves the item type for the request path, runs its save
// pipeline and records the saved item in the catalog.
func (s *Service) SaveItem(ctx context.Context, req SaveRequest) (catalog.ItemRecord, error) {
	var rec catalog.ItemRecord
	err := s.instrument(ctx, "save_item", req.Path, func(ctx context.Context) error {
		item, ok := s.registry.ForPath(req.Path)
		if !ok {
			return UnknownItemError{Path: req.Path}
		}
		if err := item.Save(ctx, s.session(item.Type()), req); err != nil {
			return fmt.Errorf("save %s: %w", req.Path, err)
		}
		saved, err := s.catalog.PutItem(ctx, catalog.ItemRecord{
			Path:        req.Path,
			Type:        item.Type(),
			SceneKey:    SceneKey(req.Path),
			Annotations: req.Options,
		})
		if err != nil {
			return fmt.Errorf("catalog record %s: %w", req.Path, err)
		}
		rec = saved
		return nil
	})
	return rec, err
}

// LoadItem resolves the item type for the request path, merges the load
// options (schema defaults, then catalog-persisted values, then per-call
// overrides) and runs the item's load pipeline. Persistent option values
// used by the load are written back to the catalog.
func (s *Service) LoadItem(ctx context.Context, req LoadRequest) error {
	return s.instrument(ctx, "load_item", req.Path, func(ctx context.Context) error {
		item, ok := s.registry.ForPath(req.Path)
		if !ok {
			return UnknownItemError{Path: req.Path}
		}
		if _, found, err := s.catalog.GetItem(ctx, req.Path); err != nil {
			return err
		} else if !found {
			return ItemNotFoundError{Path: req.Path}
		}
		schema := item.LoadSchema()
		resolved, err := s.resolveOptions(ctx, req.Path, schema, req.Options)
		if err != nil {
			return err
		}
		loadReq := LoadRequest{Path: req.Path, Options: resolved}
		if err := item.Load(ctx, s.session(item.Type()), loadReq); err != nil {
			return fmt.Errorf("load %s: %w", req.Path, err)
		}
		for _, field := range schema {
			if !field.Persistent {
				continue
			}
			if err := s.catalog.SetOption(ctx, req.Path, field.Name, resolved[field.Name]); err != nil {
				return fmt.Errorf("persist option %s: %w", field.Name, err)
			}
		}
		return nil
	})
}

// resolveOptions layers the effective load options for an item path.
func (s *Service) resolveOptions(ctx context.Context, path string, schema []SchemaField, overrides map[string]string) (map[string]string, error) {
	resolved := make(map[string]string, len(schema))
	for _, field := range schema {
		resolved[field.Name] = field.Default
		if field.Persistent {
			if v, ok, err := s.catalog.Option(ctx, path, field.Name); err != nil {
				return nil, err
			} else if ok {
				resolved[field.Name] = v
			}
		}
		if v, ok := overrides[field.Name]; ok {
			resolved[field.Name] = v
		}
	}
	return resolved, nil
}

// ListItems returns the catalog records under a library path prefix.
func (s *Service) ListItems(ctx context.Context, prefix string) ([]catalog.ItemRecord, error) {
	var records []catalog.ItemRecord
	err := s.instrument(ctx, "list_items", prefix, func(ctx context.Context) error {
		var err error
		records, err = s.catalog.ListItems(ctx, prefix)
		return err
	})
	return records, err
}

// ItemDetail pairs a catalog record with the stored objects and the resolved
// load options of a saved item.
type ItemDetail struct {
	Record  catalog.ItemRecord `json:"record"`
	Objects []blob.Info        `json:"objects"`
	Options map[string]string  `json:"options,omitempty"`
}

// InspectItem returns the catalog record, stored objects and effective load
// options for one saved item.
func (s *Service) InspectItem(ctx context.Context, path string) (ItemDetail, error) {
	var detail ItemDetail
	err := s.instrument(ctx, "inspect_item", path, func(ctx context.Context) error {
		rec, found, err := s.catalog.GetItem(ctx, path)
		if err != nil {
			return err
		}
		if !found {
			return ItemNotFoundError{Path: path}
		}
		objects, err := s.objects.List(ctx, path+"/")
		if err != nil {
			return err
		}
		item, ok := s.registry.ForPath(path)
		if !ok {
			return UnknownItemError{Path: path}
		}
		options, err := s.resolveOptions(ctx, path, item.LoadSchema(), nil)
		if err != nil {
			return err
		}
		detail = ItemDetail{Record: rec, Objects: objects, Options: options}
		return nil
	})
	return detail, err
}
