package api

import (
	"io"
	"net/http"
	"time"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

const maxWebhookBytes = 5 << 20

// WebhookReceiverHandler validates and dispatches Shopify webhooks
// @Summary Receive a Shopify webhook
// @Tags webhooks
// @Accept json
// @Produce plain
// @Success 200 {string} string "OK"
// @Failure 401 {string} string "Unauthorized"
// @Router /webhooks/products [post]
func WebhookReceiverHandler(verifier ports.ShopifyClient, dispatcher *application.WebhookDispatcher, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBytes)

		if !verifier.VerifyWebhookRequest(r) {
			logger.Warn().
				Str("topic", r.Header.Get("X-Shopify-Topic")).
				Str("shop", r.Header.Get("X-Shopify-Shop-Domain")).
				Msg("Webhook signature verification failed")
			writeText(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		payload, err := io.ReadAll(r.Body)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to read webhook payload")
			writeText(w, http.StatusBadRequest, "Failed to read request body")
			return
		}

		event := &domain.WebhookEvent{
			ID:         r.Header.Get("X-Shopify-Webhook-Id"),
			Topic:      r.Header.Get("X-Shopify-Topic"),
			Shop:       r.Header.Get("X-Shopify-Shop-Domain"),
			APIVersion: r.Header.Get("X-Shopify-API-Version"),
			Payload:    payload,
			ReceivedAt: time.Now(),
		}
		if event.Topic == "" {
			writeText(w, http.StatusBadRequest, "Missing X-Shopify-Topic header")
			return
		}

		logger.Info().
			Str("webhookId", event.ID).
			Str("topic", event.Topic).
			Str("shop", event.Shop).
			Str("apiVersion", event.APIVersion).
			Int("bytes", len(payload)).
			Msg("Webhook received")

		if err := dispatcher.Dispatch(r.Context(), event); err != nil {
			logger.Error().
				Err(err).
				Str("topic", event.Topic).
				Str("shop", event.Shop).
				Msg("Failed to dispatch webhook event")
			// Return 500 to trigger Shopify retry
			writeText(w, http.StatusInternalServerError, "Failed to process webhook event")
			return
		}

		writeText(w, http.StatusOK, "OK")
	}
}

// RegisterWebhooksHandler re-registers the configured topics for the authenticated shop
func RegisterWebhooksHandler(webhooks *application.WebhookManager, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := domain.GetShopFromContext(r.Context())
		registered, err := webhooks.RegisterWebhooks(r.Context(), shop)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"message":    err.Error(),
				"registered": registered,
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "App installed & webhook registered!",
			"registered": registered,
		})
	}
}

// DebugWebhooksHandler lists the shop's registered webhooks
// @Summary List registered webhooks
// @Tags debug
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} map[string]string
// @Router /debug/webhooks [get]
func DebugWebhooksHandler(webhooks *application.WebhookManager, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := domain.GetShopFromContext(r.Context())
		list, err := webhooks.ListWebhooks(r.Context(), shop)
		if err != nil {
			logger.Error().Err(err).Str("shop", shop).Msg("Failed to list webhooks")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "An unexpected error occurred.",
				"message": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
