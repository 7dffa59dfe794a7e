package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *client {
	t.Helper()
	c, err := NewClient(Options{
		APIKey:      "api-key",
		APISecret:   "api-secret",
		APIVersion:  "2024-10",
		Scopes:      []string{"read_products", "write_products"},
		RedirectURI: "https://app.example.com/auth/callback",
	}, zerolog.Nop())
	require.NoError(t, err)
	return c.(*client)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookRequest(t *testing.T) {
	c := newTestClient(t)
	body := []byte(`{"id":1,"title":"Shirt"}`)

	req := httptest.NewRequest("POST", "/webhooks/products", strings.NewReader(string(body)))
	req.Header.Set("X-Shopify-Hmac-Sha256", sign("api-secret", body))
	assert.True(t, c.VerifyWebhookRequest(req))

	// body must still be readable after verification
	rest, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, body, rest)

	bad := httptest.NewRequest("POST", "/webhooks/products", strings.NewReader(string(body)))
	bad.Header.Set("X-Shopify-Hmac-Sha256", sign("other-secret", body))
	assert.False(t, c.VerifyWebhookRequest(bad))
}

func TestAuthorizeURL(t *testing.T) {
	c := newTestClient(t)

	raw := c.AuthorizeURL("demo.myshopify.com", "nonce-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "demo.myshopify.com", u.Host)
	assert.Equal(t, "/admin/oauth/authorize", u.Path)
	assert.Equal(t, "api-key", u.Query().Get("client_id"))
	assert.Equal(t, "read_products,write_products", u.Query().Get("scope"))
	assert.Equal(t, "https://app.example.com/auth/callback", u.Query().Get("redirect_uri"))
	assert.Equal(t, "nonce-1", u.Query().Get("state"))
}
