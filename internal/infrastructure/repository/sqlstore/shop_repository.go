package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ShopRepository implements ShopRepository using gorm
type ShopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new relational shop repository
func NewShopRepository(db *gorm.DB) ports.ShopRepository {
	return &ShopRepository{db: db}
}

// SaveShop saves or updates a shop
func (r *ShopRepository) SaveShop(ctx context.Context, shop *domain.Shop) error {
	now := time.Now()
	row := shopModel{
		Domain:      shop.Domain,
		AccessToken: shop.AccessToken,
		Scopes:      strings.Join(shop.Scopes, ","),
		InstalledAt: shop.InstalledAt,
		UpdatedAt:   now,
	}
	if row.InstalledAt.IsZero() {
		row.InstalledAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "domain"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scopes", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save shop: %w", err)
	}
	return nil
}

// GetShop retrieves a shop by domain, nil when not installed
func (r *ShopRepository) GetShop(ctx context.Context, shopDomain string) (*domain.Shop, error) {
	var row shopModel
	err := r.db.WithContext(ctx).Where("domain = ?", shopDomain).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	var scopes []string
	if row.Scopes != "" {
		scopes = strings.Split(row.Scopes, ",")
	}
	return &domain.Shop{
		Domain:      row.Domain,
		AccessToken: row.AccessToken,
		Scopes:      scopes,
		InstalledAt: row.InstalledAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

// DeleteShop deletes a shop by domain
func (r *ShopRepository) DeleteShop(ctx context.Context, shopDomain string) error {
	if err := r.db.WithContext(ctx).Where("domain = ?", shopDomain).Delete(&shopModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	return nil
}
