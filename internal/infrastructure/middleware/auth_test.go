package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct{}

func (stubTokens) Verify(token string) (*domain.Session, error) {
	if token == "good" {
		return &domain.Session{Shop: "a.myshopify.com", UserID: "7"}, nil
	}
	return nil, errors.New("bad token")
}

type stubRequests struct{ ok bool }

func (s stubRequests) VerifyAuthorizationURL(u *url.URL) (bool, error) { return s.ok, nil }

type stubShops map[string]bool

func (s stubShops) IsInstalled(ctx context.Context, shop string) (bool, error) { return s[shop], nil }

func serve(t *testing.T, mw func(http.Handler) http.Handler, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var gotShop string
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotShop = domain.GetShopFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, gotShop
}

func TestAdminAuthBearer(t *testing.T) {
	mw := AdminAuth(stubTokens{}, stubRequests{}, stubShops{"a.myshopify.com": true}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec, shop := serve(t, mw, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "a.myshopify.com", shop)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec, _ = serve(t, mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	rec, _ = serve(t, mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthSignedQuery(t *testing.T) {
	shops := stubShops{"b.myshopify.com": true}

	mw := AdminAuth(stubTokens{}, stubRequests{ok: true}, shops, zerolog.Nop())
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	req := httptest.NewRequest(http.MethodGet, "/app/search?shop=b.myshopify.com&hmac=abc&timestamp="+ts, nil)
	rec, shop := serve(t, mw, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "b.myshopify.com", shop)

	mw = AdminAuth(stubTokens{}, stubRequests{ok: false}, shops, zerolog.Nop())
	rec, _ = serve(t, mw, httptest.NewRequest(http.MethodGet, "/app/search?shop=b.myshopify.com&hmac=abc&timestamp="+ts, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, mw, httptest.NewRequest(http.MethodGet, "/app/search", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsStaleSignedQuery(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	mw := AdminAuth(stubTokens{}, stubRequests{ok: true}, stubShops{"a.myshopify.com": true}, zerolog.Nop())
	cases := []struct {
		ts   string
		want int
	}{
		{"978307200", http.StatusUnauthorized},
		{strconv.FormatInt(fixed.Add(-6*time.Minute).Unix(), 10), http.StatusUnauthorized},
		{strconv.FormatInt(fixed.Add(6*time.Minute).Unix(), 10), http.StatusUnauthorized},
		{strconv.FormatInt(fixed.Add(-4*time.Minute).Unix(), 10), http.StatusNoContent},
		{"", http.StatusUnauthorized},
		{"not-a-time", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/products?shop=a.myshopify.com&hmac=abc&timestamp="+url.QueryEscape(tc.ts), nil)
		rec, _ := serve(t, mw, req)
		assert.Equal(t, tc.want, rec.Code, "timestamp %q", tc.ts)
	}
}

func TestAdminAuthRequiresInstall(t *testing.T) {
	mw := AdminAuth(stubTokens{}, stubRequests{}, stubShops{}, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec, _ := serve(t, mw, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "shop not installed", body["message"])
}

func TestSecurityHeaders(t *testing.T) {
	rec, _ := serve(t, SecurityHeadersMiddleware(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
