// Package middleware holds the HTTP middleware shared by the router.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

// SessionTokenVerifier validates App Bridge session tokens
type SessionTokenVerifier interface {
	Verify(token string) (*domain.Session, error)
}

// RequestVerifier validates Shopify-signed query strings
type RequestVerifier interface {
	VerifyAuthorizationURL(u *url.URL) (bool, error)
}

// InstallChecker reports whether a shop has a stored token
type InstallChecker interface {
	IsInstalled(ctx context.Context, shop string) (bool, error)
}

// MaxSignedQueryAge bounds how far a signed query timestamp may drift from now
const MaxSignedQueryAge = 5 * time.Minute

// now is replaced in tests
var now = time.Now

// AdminAuth authenticates embedded admin requests with a Bearer session
// token, or with the signed shop/hmac query Shopify appends to app URLs.
// The resolved shop must be installed.
func AdminAuth(tokens SessionTokenVerifier, requests RequestVerifier, shops InstallChecker, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authenticate(r, tokens, requests)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Admin authentication failed")
				writeUnauthorized(w, domain.ErrUnauthorized.Error())
				return
			}

			installed, err := shops.IsInstalled(r.Context(), session.Shop)
			if err != nil {
				logger.Error().Err(err).Str("shop", session.Shop).Msg("Failed to check installation")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"message": "Internal server error"})
				return
			}
			if !installed {
				writeUnauthorized(w, domain.ErrShopNotInstalled.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.WithSession(r.Context(), session)))
		})
	}
}

func authenticate(r *http.Request, tokens SessionTokenVerifier, requests RequestVerifier) (*domain.Session, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return nil, domain.ErrUnauthorized
		}
		return tokens.Verify(token)
	}

	query := r.URL.Query()
	shop := query.Get("shop")
	if shop == "" || query.Get("hmac") == "" {
		return nil, domain.ErrUnauthorized
	}
	if !domain.IsValidShopDomain(shop) {
		return nil, domain.ErrUnauthorized
	}
	if !freshTimestamp(query.Get("timestamp")) {
		return nil, domain.ErrUnauthorized
	}
	ok, err := requests.VerifyAuthorizationURL(r.URL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Session{Shop: shop}, nil
}

// freshTimestamp reports whether a unix-seconds timestamp is within
// MaxSignedQueryAge of the current time.
func freshTimestamp(raw string) bool {
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	drift := now().Sub(time.Unix(secs, 0))
	return drift <= MaxSignedQueryAge && drift >= -MaxSignedQueryAge
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
