package catalog

import (
	"context"

	"github.com/tidyops/cleanhub/internal/domain/servicetype"
	"github.com/tidyops/cleanhub/internal/kv"
)

const serviceTypesKey = "cleaning_service_types"

// Defaults are the three fixed offerings. Order matters, List preserves it.
func Defaults() []servicetype.ServiceType {
	return []servicetype.ServiceType{
		{
			ID:          "basic",
			Name:        "Basic Cleaning",
			Description: "Routine tidy-up for apartments or condos (2-3 hours).",
			BasePrice:   80,
		},
		{
			ID:          "deep",
			Name:        "Deep Cleaning",
			Description: "Detailed scrub for kitchens, bathrooms, and hard-to-reach spots.",
			BasePrice:   150,
		},
		{
			ID:          "move-out",
			Name:        "Move-out Cleaning",
			Description: "Top-to-bottom clean ready for landlord inspection.",
			BasePrice:   220,
		},
	}
}

type Catalog struct {
	store *kv.Store
}

func New(store *kv.Store) *Catalog {
	return &Catalog{store: store}
}

// SeedDefaults writes the fixed offerings if the catalog key is absent or
// empty. Idempotent, called on every startup.
func (c *Catalog) SeedDefaults(ctx context.Context) {
	var existing []servicetype.ServiceType

	if c.store.Read(ctx, serviceTypesKey, &existing) && len(existing) > 0 {
		return
	}

	c.store.Write(ctx, serviceTypesKey, Defaults())
}

// List returns the persisted catalog, seeding the defaults first when the
// store is empty.
func (c *Catalog) List(ctx context.Context) []servicetype.ServiceType {
	var services []servicetype.ServiceType

	if c.store.Read(ctx, serviceTypesKey, &services) && len(services) > 0 {
		return services
	}

	c.SeedDefaults(ctx)
	return Defaults()
}
