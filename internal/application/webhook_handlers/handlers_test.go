package webhook_handlers

import (
	"context"
	"testing"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShops struct{ uninstalled []string }

func (f *fakeShops) Uninstall(ctx context.Context, shop string) error {
	f.uninstalled = append(f.uninstalled, shop)
	return nil
}

type fakeEraser struct {
	customers []string
	shops     []string
}

func (f *fakeEraser) ForgetCustomer(ctx context.Context, shop string, customerID string) (int64, error) {
	f.customers = append(f.customers, shop+"|"+customerID)
	return 1, nil
}

func (f *fakeEraser) ForgetShop(ctx context.Context, shop string) (int64, error) {
	f.shops = append(f.shops, shop)
	return 3, nil
}

func TestProductHandler(t *testing.T) {
	h := NewProductHandler(zerolog.Nop())
	assert.True(t, h.CanHandle(domain.TopicProductsCreate))
	assert.True(t, h.CanHandle(domain.TopicProductsDelete))
	assert.False(t, h.CanHandle(domain.TopicAppUninstalled))

	err := h.Handle(context.Background(), &domain.WebhookEvent{
		Topic:   domain.TopicProductsCreate,
		Shop:    "s.myshopify.com",
		Payload: []byte(`{"id":632910392,"title":"IPod Nano","handle":"ipod-nano"}`),
	})
	require.NoError(t, err)

	err = h.Handle(context.Background(), &domain.WebhookEvent{Topic: domain.TopicProductsCreate, Payload: []byte(`not json`)})
	require.Error(t, err)
}

func TestAppUninstalledHandler(t *testing.T) {
	shops := &fakeShops{}
	h := NewAppUninstalledHandler(zerolog.Nop(), shops)

	require.NoError(t, h.Handle(context.Background(), &domain.WebhookEvent{
		Topic: domain.TopicAppUninstalled, Shop: "a.myshopify.com", Payload: []byte(`{}`),
	}))
	require.NoError(t, h.Handle(context.Background(), &domain.WebhookEvent{
		Topic: domain.TopicAppUninstalled, Payload: []byte(`{"myshopify_domain":"b.myshopify.com","domain":"b.example"}`),
	}))
	assert.Equal(t, []string{"a.myshopify.com", "b.myshopify.com"}, shops.uninstalled)

	require.Error(t, h.Handle(context.Background(), &domain.WebhookEvent{Topic: domain.TopicAppUninstalled, Payload: []byte(`{}`)}))
}

func TestPrivacyHandler(t *testing.T) {
	eraser := &fakeEraser{}
	h := NewPrivacyHandler(zerolog.Nop(), eraser)
	ctx := context.Background()

	assert.True(t, h.CanHandle(domain.TopicCustomersRedact))
	assert.True(t, h.CanHandle(domain.TopicShopRedact))
	assert.True(t, h.CanHandle(domain.TopicCustomersDataRequest))
	assert.False(t, h.CanHandle(domain.TopicProductsCreate))

	require.NoError(t, h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicCustomersRedact,
		Payload: []byte(`{"shop_id":954889,"shop_domain":"a.myshopify.com","customer":{"id":191167,"email":"john@example.com"}}`),
	}))
	assert.Equal(t, []string{
		"a.myshopify.com|191167",
		"a.myshopify.com|gid://shopify/Customer/191167",
	}, eraser.customers)

	require.NoError(t, h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicShopRedact,
		Shop:    "b.myshopify.com",
		Payload: []byte(`{"shop_id":954889}`),
	}))
	assert.Equal(t, []string{"b.myshopify.com"}, eraser.shops)

	require.NoError(t, h.Handle(ctx, &domain.WebhookEvent{
		Topic:   domain.TopicCustomersDataRequest,
		Payload: []byte(`{"shop_domain":"a.myshopify.com","customer":{"id":1},"data_request":{"id":9999}}`),
	}))

	require.Error(t, h.Handle(ctx, &domain.WebhookEvent{Topic: domain.TopicCustomersRedact, Payload: []byte(`{}`)}))
}
