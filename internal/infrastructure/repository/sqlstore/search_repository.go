package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxToggleAttempts bounds the retries when a concurrent toggle wins the unique index race
const maxToggleAttempts = 3

// SearchRepository implements SavedSearchRepository using gorm
type SearchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new relational saved search repository
func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

var _ ports.SavedSearchRepository = (*SearchRepository)(nil)

func tupleWhere(db *gorm.DB, key domain.SearchKey) *gorm.DB {
	return db.Where("customer_id = ? AND shop = ? AND product_id = ?", key.CustomerID, key.Shop, key.ProductID)
}

// Find returns every row matching the tuple
func (r *SearchRepository) Find(ctx context.Context, key domain.SearchKey) ([]*domain.SavedSearch, error) {
	var rows []searchModel
	if err := tupleWhere(r.db.WithContext(ctx), key).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find saved searches: %w", err)
	}

	searches := make([]*domain.SavedSearch, 0, len(rows))
	for i := range rows {
		searches = append(searches, rows[i].toDomain())
	}
	return searches, nil
}

// Toggle deletes the tuple's rows or inserts one. An insert that hits the
// unique index means another toggle got there first, so the loop starts over.
func (r *SearchRepository) Toggle(ctx context.Context, key domain.SearchKey) (bool, error) {
	for attempt := 0; attempt < maxToggleAttempts; attempt++ {
		var created, conflict bool
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tupleWhere(tx, key).Delete(&searchModel{})
			if res.Error != nil {
				return fmt.Errorf("failed to delete saved search: %w", res.Error)
			}
			if res.RowsAffected > 0 {
				return nil
			}

			row := searchModel{
				ID:         uuid.NewString(),
				CustomerID: key.CustomerID,
				Shop:       key.Shop,
				ProductID:  key.ProductID,
			}
			res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to create saved search: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				conflict = true
				return nil
			}
			created = true
			return nil
		})
		if err != nil {
			return false, err
		}
		if !conflict {
			return created, nil
		}
	}
	return false, domain.ErrToggleContention
}

// DeleteByCustomer removes every toggle of a customer in a shop
func (r *SearchRepository) DeleteByCustomer(ctx context.Context, shop string, customerID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("shop = ? AND customer_id = ?", shop, customerID).
		Delete(&searchModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete customer saved searches: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteByShop removes every toggle of a shop
func (r *SearchRepository) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	if shop == "" {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("shop = ?", shop).Delete(&searchModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete shop saved searches: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// GetSettings returns the singleton settings row, nil when never saved
func (r *SearchRepository) GetSettings(ctx context.Context) (*domain.SavedSearch, error) {
	var row searchModel
	err := r.db.WithContext(ctx).Where("id = ?", domain.SettingsID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return row.toDomain(), nil
}

// UpsertSettings creates or updates the singleton settings row
func (r *SearchRepository) UpsertSettings(ctx context.Context, settings domain.Settings) (*domain.SavedSearch, error) {
	now := time.Now()
	name := settings.Name
	description := settings.Description
	row := searchModel{
		ID:          domain.SettingsID,
		Name:        &name,
		Description: &description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return r.GetSettings(ctx)
}
