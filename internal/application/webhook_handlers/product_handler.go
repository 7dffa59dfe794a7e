package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

// ProductHandler handles product-related webhook events
type ProductHandler struct {
	logger zerolog.Logger
}

// NewProductHandler creates a new product webhook handler
func NewProductHandler(logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		logger: logger,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *ProductHandler) CanHandle(topic string) bool {
	return topic == domain.TopicProductsCreate ||
		topic == domain.TopicProductsUpdate ||
		topic == domain.TopicProductsDelete
}

type productPayload struct {
	ID          int64  `json:"id"`
	AdminGID    string `json:"admin_graphql_api_id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Vendor      string `json:"vendor"`
	ProductType string `json:"product_type"`
	Status      string `json:"status"`
}

// Handle logs the product carried by the webhook
func (h *ProductHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var product productPayload
	if err := json.Unmarshal(event.Payload, &product); err != nil {
		return fmt.Errorf("failed to parse product webhook payload: %w", err)
	}

	h.logger.Info().
		Str("topic", event.Topic).
		Str("shop", event.Shop).
		Int64("productId", product.ID).
		Str("gid", product.AdminGID).
		Str("title", product.Title).
		Str("handle", product.Handle).
		Str("vendor", product.Vendor).
		Str("productType", product.ProductType).
		RawJSON("payload", event.Payload).
		Msg("Product webhook received")

	switch event.Topic {
	case domain.TopicProductsCreate:
		h.logger.Info().Str("shop", event.Shop).Int64("productId", product.ID).Str("title", product.Title).Msg("New product created")
	case domain.TopicProductsUpdate:
		h.logger.Info().Str("shop", event.Shop).Int64("productId", product.ID).Str("status", product.Status).Msg("Product updated")
	case domain.TopicProductsDelete:
		h.logger.Info().Str("shop", event.Shop).Int64("productId", product.ID).Msg("Product deleted")
	}

	return nil
}
