package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/tidyops/cleanhub/internal/catalog"
	"github.com/tidyops/cleanhub/internal/domain/servicetype"
	"github.com/tidyops/cleanhub/internal/kv"
)

func newCatalog() (*catalog.Catalog, *kv.Store) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := kv.NewStore(kv.NewMemory(), log, nil)
	return catalog.New(store), store
}

func TestListSeedsDefaultsOnEmptyStore(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog()

	got := c.List(ctx)

	want := []struct {
		id    string
		price float64
	}{
		{"basic", 80},
		{"deep", 150},
		{"move-out", 220},
	}

	if len(got) != len(want) {
		t.Fatalf("want %d services, got %d", len(want), len(got))
	}

	for i, w := range want {
		if got[i].ID != w.id || got[i].BasePrice != w.price {
			t.Fatalf("service %d: got %+v, want id=%s price=%v", i, got[i], w.id, w.price)
		}
	}
}

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog()

	c.SeedDefaults(ctx)
	c.SeedDefaults(ctx)

	if got := c.List(ctx); len(got) != 3 {
		t.Fatalf("want 3 services, got %d", len(got))
	}
}

func TestSeedDefaultsDoesNotClobberExistingCatalog(t *testing.T) {
	ctx := context.Background()
	c, store := newCatalog()

	custom := []servicetype.ServiceType{
		{ID: "windows", Name: "Window Cleaning", BasePrice: 60},
	}
	store.Write(ctx, "cleaning_service_types", custom)

	c.SeedDefaults(ctx)

	got := c.List(ctx)
	if len(got) != 1 || got[0].ID != "windows" {
		t.Fatalf("existing catalog was replaced: %+v", got)
	}
}
