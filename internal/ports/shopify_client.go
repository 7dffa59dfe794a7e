package ports

import (
	"context"
	"net/http"
	"net/url"
	"time"

	shopify "github.com/bold-commerce/go-shopify/v4"

	"multimodal-product-discovery/internal/domain"
)

// ShopifyClient defines the Shopify operations the app relies on
type ShopifyClient interface {
	// Authentication
	AuthorizeURL(shop string, state string) string
	ExchangeToken(ctx context.Context, shop string, code string) (string, error)
	VerifyAuthorizationURL(u *url.URL) (bool, error)

	// Webhook signature verification; the request body is left readable
	VerifyWebhookRequest(r *http.Request) bool

	// Product catalog (Admin GraphQL)
	FetchProductsPage(ctx context.Context, shop string, accessToken string, first int, after *string) (*domain.ProductPage, error)

	// Webhook API
	CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) (*shopify.Webhook, error)
	ListWebhooks(ctx context.Context, shop string, accessToken string) ([]shopify.Webhook, error)
}

// EncryptionService encrypts secrets stored at rest
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// RecommendationBackend receives the normalized catalog
type RecommendationBackend interface {
	SendProducts(ctx context.Context, products []domain.NormalizedProduct) ([]byte, error)
}

// WebhookDeduplicator remembers delivered webhook ids
type WebhookDeduplicator interface {
	// FirstDelivery returns false when the webhook id was already seen
	FirstDelivery(ctx context.Context, webhookID string) (bool, error)

	// Forget drops the id so a failed delivery can be retried
	Forget(ctx context.Context, webhookID string) error
}

// MetricsRecorder records service level metrics
type MetricsRecorder interface {
	ObserveCatalogSync(err error, products int, elapsed time.Duration)
	ObserveToggle(action string)
	ObserveWebhook(topic string, result string)
}
