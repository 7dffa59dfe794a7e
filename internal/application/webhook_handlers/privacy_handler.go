package webhook_handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

// SearchEraser deletes saved searches for privacy requests
type SearchEraser interface {
	ForgetCustomer(ctx context.Context, shop string, customerID string) (int64, error)
	ForgetShop(ctx context.Context, shop string) (int64, error)
}

// PrivacyHandler handles the mandatory compliance webhooks
type PrivacyHandler struct {
	logger   zerolog.Logger
	searches SearchEraser
}

// NewPrivacyHandler creates a new compliance webhook handler
func NewPrivacyHandler(logger zerolog.Logger, searches SearchEraser) *PrivacyHandler {
	return &PrivacyHandler{
		logger:   logger,
		searches: searches,
	}
}

// CanHandle returns true if this handler can process the given topic
func (h *PrivacyHandler) CanHandle(topic string) bool {
	return topic == domain.TopicCustomersDataRequest ||
		topic == domain.TopicCustomersRedact ||
		topic == domain.TopicShopRedact
}

type privacyPayload struct {
	ShopID     int64  `json:"shop_id"`
	ShopDomain string `json:"shop_domain"`
	Customer   struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
	DataRequest struct {
		ID int64 `json:"id"`
	} `json:"data_request"`
}

// Handle processes a compliance webhook event
func (h *PrivacyHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	var payload privacyPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to parse %s payload: %w", event.Topic, err)
	}

	shop := payload.ShopDomain
	if shop == "" {
		shop = event.Shop
	}

	switch event.Topic {
	case domain.TopicCustomersDataRequest:
		h.logger.Info().
			Str("shop", shop).
			Int64("customerId", payload.Customer.ID).
			Int64("dataRequestId", payload.DataRequest.ID).
			Msg("Customer data request received")
		return nil

	case domain.TopicCustomersRedact:
		if payload.Customer.ID == 0 {
			return fmt.Errorf("customers/redact payload without customer id")
		}
		id := strconv.FormatInt(payload.Customer.ID, 10)
		var total int64
		// storefronts send either the numeric id or the customer GID
		for _, customerID := range []string{id, "gid://shopify/Customer/" + id} {
			n, err := h.searches.ForgetCustomer(ctx, shop, customerID)
			if err != nil {
				return err
			}
			total += n
		}
		h.logger.Info().
			Str("shop", shop).
			Int64("customerId", payload.Customer.ID).
			Int64("deleted", total).
			Msg("Customer saved searches redacted")
		return nil

	case domain.TopicShopRedact:
		n, err := h.searches.ForgetShop(ctx, shop)
		if err != nil {
			return err
		}
		h.logger.Info().Str("shop", shop).Int64("deleted", n).Msg("Shop saved searches redacted")
		return nil
	}

	return nil
}
