package domain

import "time"

// SettingsID is the id of the singleton settings row stored alongside the toggles
const SettingsID = "1"

// SavedSearch represents a row of the search table.
// Toggle rows carry a customer/shop/product tuple; the settings row only uses Name and Description.
type SavedSearch struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customerId"`
	Shop        string    `json:"shop"`
	ProductID   string    `json:"productId"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SearchKey identifies a saved search toggle
type SearchKey struct {
	CustomerID string
	Shop       string
	ProductID  string
}

// NewSearchKey builds a key from the raw request values. Any non-empty
// value counts as present, whitespace included.
func NewSearchKey(customerID, shop, productID string) SearchKey {
	return SearchKey{
		CustomerID: customerID,
		Shop:       shop,
		ProductID:  productID,
	}
}

// Validate reports the first missing field, checked in the order customerId, productId, shop
func (k SearchKey) Validate() error {
	if k.CustomerID == "" {
		return &MissingFieldError{Field: "customerId"}
	}
	if k.ProductID == "" {
		return &MissingFieldError{Field: "productId"}
	}
	if k.Shop == "" {
		return &MissingFieldError{Field: "shop"}
	}
	return nil
}

// ToggleResult is the outcome of a toggle call
type ToggleResult struct {
	Message  string `json:"message"`
	Searched bool   `json:"searched"`
}

// Settings is the name/description pair edited on the admin settings page
type Settings struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SettingsFromSearch reads the settings fields off the singleton row
func SettingsFromSearch(s *SavedSearch) Settings {
	var settings Settings
	if s == nil {
		return settings
	}
	if s.Name != nil {
		settings.Name = *s.Name
	}
	if s.Description != nil {
		settings.Description = *s.Description
	}
	return settings
}
