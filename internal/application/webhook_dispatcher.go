package application

import (
	"context"
	"fmt"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

// WebhookHandler processes the webhook topics it claims
type WebhookHandler interface {
	CanHandle(topic string) bool
	Handle(ctx context.Context, event *domain.WebhookEvent) error
}

// WebhookDispatcher routes verified webhook events to handlers
type WebhookDispatcher struct {
	handlers []WebhookHandler
	dedup    ports.WebhookDeduplicator
	metrics  ports.MetricsRecorder
	logger   zerolog.Logger
}

// NewWebhookDispatcher creates a new dispatcher. dedup may be nil.
func NewWebhookDispatcher(dedup ports.WebhookDeduplicator, metrics ports.MetricsRecorder, logger zerolog.Logger) *WebhookDispatcher {
	return &WebhookDispatcher{
		dedup:   dedup,
		metrics: recorderOrNop(metrics),
		logger:  logger,
	}
}

// RegisterHandler adds a handler; handlers run in registration order
func (d *WebhookDispatcher) RegisterHandler(handler WebhookHandler) {
	d.handlers = append(d.handlers, handler)
}

// Dispatch runs every handler that claims the event's topic.
// Redeliveries of an already processed webhook id are skipped.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, event *domain.WebhookEvent) error {
	if d.dedup != nil {
		first, err := d.dedup.FirstDelivery(ctx, event.ID)
		if err != nil {
			// redis unavailable: process the delivery
			d.logger.Warn().Err(err).Str("webhookId", event.ID).Msg("Webhook dedupe check failed")
		} else if !first {
			d.metrics.ObserveWebhook(event.Topic, "duplicate")
			d.logger.Info().
				Str("webhookId", event.ID).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Duplicate webhook delivery skipped")
			return nil
		}
	}

	handled := false
	for _, handler := range d.handlers {
		if !handler.CanHandle(event.Topic) {
			continue
		}
		handled = true
		if err := handler.Handle(ctx, event); err != nil {
			d.metrics.ObserveWebhook(event.Topic, "error")
			d.forget(ctx, event)
			return fmt.Errorf("failed to handle %s webhook: %w", event.Topic, err)
		}
	}

	if !handled {
		d.metrics.ObserveWebhook(event.Topic, "unhandled")
		d.logger.Debug().Str("topic", event.Topic).Msg("No handler for webhook topic")
		return nil
	}
	d.metrics.ObserveWebhook(event.Topic, "ok")
	return nil
}

func (d *WebhookDispatcher) forget(ctx context.Context, event *domain.WebhookEvent) {
	if d.dedup == nil {
		return
	}
	if err := d.dedup.Forget(ctx, event.ID); err != nil {
		d.logger.Warn().Err(err).Str("webhookId", event.ID).Msg("Failed to release webhook id after handler error")
	}
}
