package api

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

const (
	stateCookieName = "shopify_oauth_state"
	stateTTL        = 10 * time.Minute
)

// OAuthInitHandler starts the install flow
func OAuthInitHandler(shops *application.ShopService, secureCookies bool, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("shop")))
		if shop == "" {
			http.Error(w, "shop parameter is required", http.StatusBadRequest)
			return
		}

		// Generate random state for CSRF protection
		stateBytes := make([]byte, 16)
		if _, err := rand.Read(stateBytes); err != nil {
			logger.Error().Err(err).Msg("Failed to generate state")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		state := hex.EncodeToString(stateBytes)

		authURL, err := shops.AuthorizeURL(shop, state)
		if err != nil {
			http.Error(w, "invalid shop parameter", http.StatusBadRequest)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    state,
			Path:     "/auth",
			MaxAge:   int(stateTTL.Seconds()),
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		logger.Info().Str("shop", shop).Msg("Redirecting to OAuth authorization")
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// OAuthCallbackHandler completes the install and registers webhooks
func OAuthCallbackHandler(
	verifier ports.ShopifyClient,
	shops *application.ShopService,
	webhooks *application.WebhookManager,
	logger zerolog.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := r.URL.Query()
		shop := query.Get("shop")
		code := query.Get("code")
		state := query.Get("state")

		if shop == "" || code == "" || state == "" {
			http.Error(w, "Missing required parameters", http.StatusBadRequest)
			return
		}
		if !domain.IsValidShopDomain(shop) {
			http.Error(w, "Invalid shop parameter", http.StatusBadRequest)
			return
		}

		ok, err := verifier.VerifyAuthorizationURL(r.URL)
		if err != nil || !ok {
			logger.Warn().Err(err).Str("shop", shop).Msg("OAuth callback HMAC verification failed")
			http.Error(w, "Invalid signature", http.StatusUnauthorized)
			return
		}

		cookie, err := r.Cookie(stateCookieName)
		if err != nil || cookie.Value != state {
			logger.Warn().Str("shop", shop).Msg("OAuth state mismatch")
			http.Error(w, "Invalid session", http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/auth", MaxAge: -1})

		if _, err := shops.Install(ctx, shop, code); err != nil {
			http.Error(w, "Failed to complete installation", http.StatusInternalServerError)
			return
		}

		if _, err := webhooks.RegisterWebhooks(ctx, shop); err != nil {
			http.Error(w, "App installed but webhook registration failed", http.StatusInternalServerError)
			return
		}

		writeText(w, http.StatusOK, "App installed & webhook registered!")
	}
}
