package application

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"multimodal-product-discovery/internal/domain"

	goshopify "github.com/bold-commerce/go-shopify/v4"
)

type fakeShopify struct {
	mu       sync.Mutex
	pages    []*domain.ProductPage
	cursors  []*string
	pageErr  error
	token    string
	created  []string
	webhooks []goshopify.Webhook
	failOn   string
}

func (f *fakeShopify) AuthorizeURL(shop string, state string) string {
	return "https://" + shop + "/admin/oauth/authorize?state=" + state
}

func (f *fakeShopify) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	if code == "bad" {
		return "", errors.New("invalid code")
	}
	return f.token, nil
}

func (f *fakeShopify) VerifyAuthorizationURL(u *url.URL) (bool, error) { return true, nil }

func (f *fakeShopify) VerifyWebhookRequest(r *http.Request) bool { return true }

func (f *fakeShopify) FetchProductsPage(ctx context.Context, shop string, accessToken string, first int, after *string) (*domain.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	var c *string
	if after != nil {
		v := *after
		c = &v
	}
	f.cursors = append(f.cursors, c)
	if len(f.pages) == 0 {
		return &domain.ProductPage{}, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeShopify) CreateWebhook(ctx context.Context, shop string, accessToken string, topic string, address string) (*goshopify.Webhook, error) {
	if topic == f.failOn {
		return nil, errors.New("topic rejected")
	}
	f.created = append(f.created, topic)
	return &goshopify.Webhook{Topic: topic, Address: address, Format: "json"}, nil
}

func (f *fakeShopify) ListWebhooks(ctx context.Context, shop string, accessToken string) ([]goshopify.Webhook, error) {
	return f.webhooks, nil
}

type staticTokens map[string]string

func (s staticTokens) GetAccessToken(ctx context.Context, shop string) (string, error) {
	token, ok := s[shop]
	if !ok {
		return "", domain.ErrShopNotInstalled
	}
	return token, nil
}

type fakeBackend struct {
	got   []domain.NormalizedProduct
	reply []byte
	err   error
}

func (b *fakeBackend) SendProducts(ctx context.Context, products []domain.NormalizedProduct) ([]byte, error) {
	b.got = products
	return b.reply, b.err
}

func strPtr(s string) *string { return &s }
