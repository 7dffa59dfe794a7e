package ports

import (
	"context"

	"multimodal-product-discovery/internal/domain"
)

// SavedSearchRepository defines the interface for the search table
type SavedSearchRepository interface {
	// Find returns every row matching the toggle tuple
	Find(ctx context.Context, key domain.SearchKey) ([]*domain.SavedSearch, error)

	// Toggle deletes the rows matching the tuple, or creates one when none exist.
	// It returns true when a row was created.
	Toggle(ctx context.Context, key domain.SearchKey) (bool, error)

	// DeleteByCustomer removes every toggle of a customer in a shop
	DeleteByCustomer(ctx context.Context, shop string, customerID string) (int64, error)

	// DeleteByShop removes every toggle of a shop
	DeleteByShop(ctx context.Context, shop string) (int64, error)

	// GetSettings returns the singleton settings row, or nil when it was never saved
	GetSettings(ctx context.Context) (*domain.SavedSearch, error)

	// UpsertSettings creates or updates the singleton settings row
	UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.SavedSearch, error)
}

// ShopRepository defines the interface for installed shops
type ShopRepository interface {
	SaveShop(ctx context.Context, shop *domain.Shop) error
	GetShop(ctx context.Context, domain string) (*domain.Shop, error)
	DeleteShop(ctx context.Context, domain string) error
}
