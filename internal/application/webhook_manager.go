package application

import (
	"context"
	"fmt"

	"multimodal-product-discovery/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// WebhookManager registers and lists a shop's webhook subscriptions
type WebhookManager struct {
	tokens      TokenProvider
	client      ports.ShopifyClient
	topics      []string
	callbackURL string
	logger      zerolog.Logger
}

// NewWebhookManager creates a new webhook manager
func NewWebhookManager(
	tokens TokenProvider,
	client ports.ShopifyClient,
	topics []string,
	callbackURL string,
	logger zerolog.Logger,
) *WebhookManager {
	return &WebhookManager{
		tokens:      tokens,
		client:      client,
		topics:      topics,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

// Topics returns the topics registered at install time
func (m *WebhookManager) Topics() []string {
	return m.topics
}

// RegisterWebhooks subscribes the shop to every configured topic.
// It stops at the first failure.
func (m *WebhookManager) RegisterWebhooks(ctx context.Context, shop string) ([]goshopify.Webhook, error) {
	accessToken, err := m.tokens.GetAccessToken(ctx, shop)
	if err != nil {
		return nil, err
	}

	registered := make([]goshopify.Webhook, 0, len(m.topics))
	for _, topic := range m.topics {
		webhook, err := m.client.CreateWebhook(ctx, shop, accessToken, topic, m.callbackURL)
		if err != nil {
			m.logger.Error().
				Err(err).
				Str("shop", shop).
				Str("topic", topic).
				Msg("Failed to register webhook")
			return registered, fmt.Errorf("failed to register %s webhook: %w", topic, err)
		}
		if webhook != nil {
			registered = append(registered, *webhook)
		}
		m.logger.Info().
			Str("shop", shop).
			Str("topic", topic).
			Str("address", m.callbackURL).
			Msg("Webhook registered")
	}
	return registered, nil
}

// ListWebhooks returns the shop's registered webhooks
func (m *WebhookManager) ListWebhooks(ctx context.Context, shop string) ([]goshopify.Webhook, error) {
	accessToken, err := m.tokens.GetAccessToken(ctx, shop)
	if err != nil {
		return nil, err
	}
	webhooks, err := m.client.ListWebhooks(ctx, shop, accessToken)
	if err != nil {
		m.logger.Error().Err(err).Str("shop", shop).Msg("Failed to list webhooks")
		return nil, err
	}
	if webhooks == nil {
		webhooks = []goshopify.Webhook{}
	}
	return webhooks, nil
}
