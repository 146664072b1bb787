package memory

import (
	"context"
	"testing"
	"time"

	"prefabcore/internal/catalog/core"
)

func TestPutItemAssignsIDAndTimestamps(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	rec, err := store.PutItem(ctx, core.ItemRecord{Path: "chars/hero.prefab", Type: "prefab"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatalf("record incomplete: %+v", rec)
	}

	got, ok, err := store.GetItem(ctx, "chars/hero.prefab")
	if err != nil || !ok {
		t.Fatalf("get = %v, %v", ok, err)
	}
	if got.ID != rec.ID {
		t.Fatalf("id mismatch: %q vs %q", got.ID, rec.ID)
	}
}

func TestPutItemUpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	times := []time.Time{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	i := 0
	store.nowFn = func() time.Time { v := times[i]; i++; return v }

	first, err := store.PutItem(ctx, core.ItemRecord{Path: "p", Type: "prefab"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := store.PutItem(ctx, core.ItemRecord{Path: "p", Type: "prefab", SceneKey: "p/scene.json"})
	if err != nil {
		t.Fatalf("re-put: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert changed ID: %q vs %q", second.ID, first.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("upsert changed CreatedAt")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("UpdatedAt not advanced: %v vs %v", second.UpdatedAt, first.UpdatedAt)
	}
}

func TestPutItemRequiresPath(t *testing.T) {
	if _, err := NewStore().PutItem(context.Background(), core.ItemRecord{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestListItemsFiltersByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, path := range []string{"chars/a.prefab", "chars/b.prefab", "props/c.prefab"} {
		if _, err := store.PutItem(ctx, core.ItemRecord{Path: path, Type: "prefab"}); err != nil {
			t.Fatalf("put %s: %v", path, err)
		}
	}
	records, err := store.ListItems(ctx, "chars/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Path != "chars/a.prefab" || records[1].Path != "chars/b.prefab" {
		t.Fatalf("records = %+v", records)
	}
}

func TestDeleteItemRemovesOptions(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if _, err := store.PutItem(ctx, core.ItemRecord{Path: "p", Type: "prefab"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.SetOption(ctx, "p", "namespace", "hero_000"); err != nil {
		t.Fatalf("set option: %v", err)
	}
	ok, err := store.DeleteItem(ctx, "p")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if _, ok, _ := store.Option(ctx, "p", "namespace"); ok {
		t.Fatalf("option survived item delete")
	}
	ok, err = store.DeleteItem(ctx, "p")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if err := store.SetOption(ctx, "p", "namespace", "hero_001"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Option(ctx, "p", "namespace")
	if err != nil || !ok || v != "hero_001" {
		t.Fatalf("option = %q, %v, %v", v, ok, err)
	}
	if _, ok, _ := store.Option(ctx, "p", "other"); ok {
		t.Fatalf("unexpected option present")
	}
}

func TestExportImportState(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	if _, err := store.PutItem(ctx, core.ItemRecord{Path: "p", Type: "prefab"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.SetOption(ctx, "p", "namespace", "hero_000"); err != nil {
		t.Fatalf("set option: %v", err)
	}

	restored := NewStore()
	restored.ImportState(store.ExportState())

	if _, ok, _ := restored.GetItem(ctx, "p"); !ok {
		t.Fatalf("item lost in round trip")
	}
	if v, ok, _ := restored.Option(ctx, "p", "namespace"); !ok || v != "hero_000" {
		t.Fatalf("option lost in round trip: %q, %v", v, ok)
	}
}
