package sqlstore

import (
	"time"

	"multimodal-product-discovery/internal/domain"
)

// searchModel is the relational row behind a saved search
type searchModel struct {
	ID          string  `gorm:"primaryKey;size:36"`
	CustomerID  string  `gorm:"not null;default:'';index:uniq_search_tuple,unique"`
	Shop        string  `gorm:"not null;default:'';index:uniq_search_tuple,unique;index"`
	ProductID   string  `gorm:"not null;default:'';index:uniq_search_tuple,unique"`
	Name        *string `gorm:"type:text"`
	Description *string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (searchModel) TableName() string {
	return "search"
}

func (m *searchModel) toDomain() *domain.SavedSearch {
	return &domain.SavedSearch{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Shop:        m.Shop,
		ProductID:   m.ProductID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// shopModel stores an installed shop; AccessToken holds ciphertext
type shopModel struct {
	Domain      string `gorm:"primaryKey;size:255"`
	AccessToken string `gorm:"type:text;not null"`
	Scopes      string `gorm:"type:text"`
	InstalledAt time.Time
	UpdatedAt   time.Time
}

func (shopModel) TableName() string {
	return "shops"
}
