package domain

import "time"

// Webhook topics handled by the receiver
const (
	TopicProductsCreate       = "products/create"
	TopicProductsUpdate       = "products/update"
	TopicProductsDelete       = "products/delete"
	TopicAppUninstalled       = "app/uninstalled"
	TopicCustomersDataRequest = "customers/data_request"
	TopicCustomersRedact      = "customers/redact"
	TopicShopRedact           = "shop/redact"
)

// WebhookEvent represents a verified inbound Shopify webhook delivery
type WebhookEvent struct {
	ID         string    `json:"id"`
	Topic      string    `json:"topic"`
	Shop       string    `json:"shop"`
	APIVersion string    `json:"api_version"`
	Payload    []byte    `json:"payload"`
	ReceivedAt time.Time `json:"received_at"`
}
