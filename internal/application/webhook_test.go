package application

import (
	"context"
	"errors"
	"testing"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	topic string
	calls int
	err   error
}

func (h *recordingHandler) CanHandle(topic string) bool { return topic == h.topic }

func (h *recordingHandler) Handle(ctx context.Context, event *domain.WebhookEvent) error {
	h.calls++
	return h.err
}

type memoryDedup struct {
	seen map[string]bool
}

func (m *memoryDedup) FirstDelivery(ctx context.Context, id string) (bool, error) {
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *memoryDedup) Forget(ctx context.Context, id string) error {
	delete(m.seen, id)
	return nil
}

func TestDispatchRoutesByTopic(t *testing.T) {
	products := &recordingHandler{topic: domain.TopicProductsCreate}
	uninstall := &recordingHandler{topic: domain.TopicAppUninstalled}
	d := NewWebhookDispatcher(nil, nil, zerolog.Nop())
	d.RegisterHandler(products)
	d.RegisterHandler(uninstall)

	require.NoError(t, d.Dispatch(context.Background(), &domain.WebhookEvent{Topic: domain.TopicProductsCreate}))
	require.NoError(t, d.Dispatch(context.Background(), &domain.WebhookEvent{Topic: "orders/create"}))

	assert.Equal(t, 1, products.calls)
	assert.Equal(t, 0, uninstall.calls)
}

func TestDispatchSkipsRedelivery(t *testing.T) {
	h := &recordingHandler{topic: domain.TopicProductsCreate}
	d := NewWebhookDispatcher(&memoryDedup{seen: map[string]bool{}}, nil, zerolog.Nop())
	d.RegisterHandler(h)

	event := &domain.WebhookEvent{ID: "w-1", Topic: domain.TopicProductsCreate}
	require.NoError(t, d.Dispatch(context.Background(), event))
	require.NoError(t, d.Dispatch(context.Background(), event))
	assert.Equal(t, 1, h.calls)
}

func TestDispatchFailureAllowsRetry(t *testing.T) {
	h := &recordingHandler{topic: domain.TopicAppUninstalled, err: errors.New("db down")}
	d := NewWebhookDispatcher(&memoryDedup{seen: map[string]bool{}}, nil, zerolog.Nop())
	d.RegisterHandler(h)

	event := &domain.WebhookEvent{ID: "w-2", Topic: domain.TopicAppUninstalled}
	require.Error(t, d.Dispatch(context.Background(), event))

	h.err = nil
	require.NoError(t, d.Dispatch(context.Background(), event))
	assert.Equal(t, 2, h.calls)
}

func TestRegisterWebhooks(t *testing.T) {
	client := &fakeShopify{}
	m := NewWebhookManager(staticTokens{"s.myshopify.com": "tok"}, client,
		[]string{domain.TopicProductsCreate, domain.TopicAppUninstalled},
		"https://app.example/webhooks/products", zerolog.Nop())

	hooks, err := m.RegisterWebhooks(context.Background(), "s.myshopify.com")
	require.NoError(t, err)
	require.Len(t, hooks, 2)
	assert.Equal(t, "https://app.example/webhooks/products", hooks[0].Address)
	assert.Equal(t, []string{"products/create", "app/uninstalled"}, client.created)
}

func TestRegisterWebhooksStopsOnFailure(t *testing.T) {
	client := &fakeShopify{failOn: domain.TopicAppUninstalled}
	m := NewWebhookManager(staticTokens{"s": "tok"}, client,
		[]string{domain.TopicProductsCreate, domain.TopicAppUninstalled, domain.TopicProductsUpdate},
		"https://app.example/webhooks", zerolog.Nop())

	hooks, err := m.RegisterWebhooks(context.Background(), "s")
	require.Error(t, err)
	assert.Len(t, hooks, 1)
	assert.Equal(t, []string{"products/create"}, client.created)
}

func TestListWebhooksNeverNil(t *testing.T) {
	m := NewWebhookManager(staticTokens{"s": "tok"}, &fakeShopify{}, nil, "", zerolog.Nop())
	hooks, err := m.ListWebhooks(context.Background(), "s")
	require.NoError(t, err)
	assert.NotNil(t, hooks)

	_, err = m.ListWebhooks(context.Background(), "other")
	assert.ErrorIs(t, err, domain.ErrShopNotInstalled)
}
