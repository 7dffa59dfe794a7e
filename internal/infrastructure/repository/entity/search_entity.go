package entity

import (
	"time"

	"multimodal-product-discovery/internal/domain"
)

// MongoSearchDoc represents a saved search row in MongoDB
type MongoSearchDoc struct {
	ID          string    `bson:"_id"`
	CustomerID  string    `bson:"customerId"`
	Shop        string    `bson:"shop"`
	ProductID   string    `bson:"productId"`
	Name        *string   `bson:"name,omitempty"`
	Description *string   `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSearchDoc) ToDomain() *domain.SavedSearch {
	return &domain.SavedSearch{
		ID:          d.ID,
		CustomerID:  d.CustomerID,
		Shop:        d.Shop,
		ProductID:   d.ProductID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoShopDoc represents an installed shop in MongoDB
type MongoShopDoc struct {
	Domain      string    `bson:"_id"`
	AccessToken string    `bson:"accessToken"`
	Scopes      []string  `bson:"scopes"`
	InstalledAt time.Time `bson:"installedAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoShopDoc) ToDomain() *domain.Shop {
	return &domain.Shop{
		Domain:      d.Domain,
		AccessToken: d.AccessToken,
		Scopes:      d.Scopes,
		InstalledAt: d.InstalledAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoShopDocFromDomain converts a domain entity to a MongoDB document
func MongoShopDocFromDomain(shop *domain.Shop) *MongoShopDoc {
	return &MongoShopDoc{
		Domain:      shop.Domain,
		AccessToken: shop.AccessToken,
		Scopes:      shop.Scopes,
		InstalledAt: shop.InstalledAt,
		UpdatedAt:   shop.UpdatedAt,
	}
}
