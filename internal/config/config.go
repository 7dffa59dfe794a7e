package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration read from the environment
type Config struct {
	Port     string
	AppURL   string
	LogLevel string

	Shopify  ShopifyConfig
	Store    StoreConfig
	RedisURL string

	// EncryptionKey protects offline access tokens at rest
	EncryptionKey string

	// BackendURL receives the normalized catalog
	BackendURL string

	// StorefrontOrigin is the only origin allowed to call the search-toggle API
	StorefrontOrigin string

	WebhookCallbackURL string
	WebhookTopics      []string
	CatalogPageSize    int
}

// ShopifyConfig holds the app credentials
type ShopifyConfig struct {
	APIKey     string
	APISecret  string
	Scopes     []string
	APIVersion string

	// ShopDomain and AccessToken seed a custom-app installation when both are set
	ShopDomain  string
	AccessToken string
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver        string // mongo, postgres or sqlite
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string
}

// Load reads the configuration. The caller is expected to have loaded .env already.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHOPIFY_SCOPES", "read_products")
	v.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	v.SetDefault("STORE_DRIVER", "sqlite")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "product_discovery")
	v.SetDefault("DATABASE_URL", "file:dev.sqlite")
	v.SetDefault("BACKEND_URL", "http://127.0.0.1:8000/receive-products/")
	v.SetDefault("STOREFRONT_ORIGIN", "https://discoverd2c.myshopify.com")
	v.SetDefault("WEBHOOK_TOPICS", "products/create,app/uninstalled")
	v.SetDefault("CATALOG_PAGE_SIZE", 10)

	appURL := strings.TrimSuffix(strings.TrimSpace(v.GetString("APP_URL")), "/")

	cfg := &Config{
		Port:     v.GetString("PORT"),
		AppURL:   appURL,
		LogLevel: v.GetString("LOG_LEVEL"),
		Shopify: ShopifyConfig{
			APIKey:      strings.TrimSpace(v.GetString("SHOPIFY_API_KEY")),
			APISecret:   strings.TrimSpace(v.GetString("SHOPIFY_API_SECRET")),
			Scopes:      splitList(v.GetString("SHOPIFY_SCOPES")),
			APIVersion:  v.GetString("SHOPIFY_API_VERSION"),
			ShopDomain:  strings.TrimSpace(v.GetString("SHOPIFY_SHOP_DOMAIN")),
			AccessToken: strings.TrimSpace(v.GetString("SHOPIFY_ACCESS_TOKEN")),
		},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:      v.GetString("MONGODB_URI"),
			MongoDatabase: v.GetString("MONGODB_DATABASE"),
			DatabaseURL:   v.GetString("DATABASE_URL"),
		},
		RedisURL:           strings.TrimSpace(v.GetString("REDIS_URL")),
		EncryptionKey:      strings.TrimSpace(v.GetString("ENCRYPTION_KEY")),
		BackendURL:         v.GetString("BACKEND_URL"),
		StorefrontOrigin:   v.GetString("STOREFRONT_ORIGIN"),
		WebhookCallbackURL: strings.TrimSpace(v.GetString("WEBHOOK_CALLBACK_URL")),
		WebhookTopics:      splitList(v.GetString("WEBHOOK_TOPICS")),
		CatalogPageSize:    v.GetInt("CATALOG_PAGE_SIZE"),
	}

	if cfg.WebhookCallbackURL == "" {
		cfg.WebhookCallbackURL = cfg.AppURL + "/webhooks/products"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Shopify.APIKey == "" {
		return fmt.Errorf("SHOPIFY_API_KEY is required")
	}
	if c.Shopify.APISecret == "" {
		return fmt.Errorf("SHOPIFY_API_SECRET is required")
	}
	if c.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required")
	}
	switch c.Store.Driver {
	case "mongo", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.CatalogPageSize < 1 || c.CatalogPageSize > 250 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be between 1 and 250, got %d", c.CatalogPageSize)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
