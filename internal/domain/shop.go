package domain

import (
	"regexp"
	"time"
)

// Shop is an installed shop and its offline Admin API token
type Shop struct {
	Domain      string    `json:"domain"`
	AccessToken string    `json:"-"` // encrypted at rest
	Scopes      []string  `json:"scopes"`
	InstalledAt time.Time `json:"installed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var shopDomainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-]*\.myshopify\.com$`)

// IsValidShopDomain reports whether s looks like a *.myshopify.com domain
func IsValidShopDomain(s string) bool {
	return shopDomainPattern.MatchString(s)
}
