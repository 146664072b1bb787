package library

import (
	"context"
	"testing"
)

type stubItem struct {
	typ    string
	ext    string
	schema []SchemaField
	saves  int
	loads  int
}

func (s *stubItem) Name() string              { return "Stub " + s.typ }
func (s *stubItem) Type() string              { return s.typ }
func (s *stubItem) Extension() string         { return s.ext }
func (s *stubItem) LoadSchema() []SchemaField { return s.schema }

func (s *stubItem) Save(context.Context, *Session, SaveRequest) error {
	s.saves++
	return nil
}

func (s *stubItem) Load(context.Context, *Session, LoadRequest) error {
	s.loads++
	return nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	item := &stubItem{typ: "prefab", ext: ".prefab"}
	if err := r.Register(item); err != nil {
		t.Fatalf("register: %v", err)
	}

	if got, ok := r.ByType("prefab"); !ok || got != Item(item) {
		t.Fatalf("ByType = %v, %v", got, ok)
	}
	if got, ok := r.ForPath("chars/hero.prefab"); !ok || got != Item(item) {
		t.Fatalf("ForPath = %v, %v", got, ok)
	}
	if _, ok := r.ForPath("chars/hero.unknown"); ok {
		t.Fatalf("unexpected resolution for unknown extension")
	}
}

func TestRegisterRejectsInvalidItems(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(nil); err == nil {
		t.Fatalf("expected error for nil item")
	}
	if err := r.Register(&stubItem{typ: "", ext: ".x"}); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if err := r.Register(&stubItem{typ: "x", ext: "noext"}); err == nil {
		t.Fatalf("expected error for dotless extension")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubItem{typ: "prefab", ext: ".prefab"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&stubItem{typ: "prefab", ext: ".other"}); err == nil {
		t.Fatalf("expected duplicate type rejection")
	}
	if err := r.Register(&stubItem{typ: "other", ext: ".prefab"}); err == nil {
		t.Fatalf("expected duplicate extension rejection")
	}
}

func TestItemsSortedByType(t *testing.T) {
	r := NewRegistry()
	for _, item := range []*stubItem{
		{typ: "zeta", ext: ".z"},
		{typ: "alpha", ext: ".a"},
	} {
		if err := r.Register(item); err != nil {
			t.Fatalf("register %s: %v", item.typ, err)
		}
	}
	items := r.Items()
	if len(items) != 2 || items[0].Type() != "alpha" || items[1].Type() != "zeta" {
		t.Fatalf("items order = %v", items)
	}
}
