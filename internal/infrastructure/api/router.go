// Package api wires the HTTP surface of the app.
package api

import (
	"encoding/json"
	"net/http"

	"multimodal-product-discovery/internal/application"
	securitymiddleware "multimodal-product-discovery/internal/infrastructure/middleware"
	"multimodal-product-discovery/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Dependencies holds everything the router needs
type Dependencies struct {
	Shopify          ports.ShopifyClient
	SessionTokens    securitymiddleware.SessionTokenVerifier
	Shops            *application.ShopService
	Catalog          *application.CatalogService
	Search           *application.SearchService
	Settings         *application.SettingsService
	Webhooks         *application.WebhookManager
	Dispatcher       *application.WebhookDispatcher
	APIKey           string
	StorefrontOrigin string
	SecureCookies    bool
	SwaggerFile      string
	Metrics          http.Handler
	Logger           zerolog.Logger
}

// NewRouter builds the chi router
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(securitymiddleware.AuditLoggingMiddleware(logger))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}
	if deps.SwaggerFile != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
		r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			http.ServeFile(w, r, deps.SwaggerFile)
		})
	}

	// OAuth routes
	r.Get("/auth", OAuthInitHandler(deps.Shops, deps.SecureCookies, logger))
	r.Get("/auth/callback", OAuthCallbackHandler(deps.Shopify, deps.Shops, deps.Webhooks, logger))

	// Webhook endpoints
	receiver := WebhookReceiverHandler(deps.Shopify, deps.Dispatcher, logger)
	r.Post("/webhooks", receiver)
	r.Post("/webhooks/products", receiver)

	// Storefront search API
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{deps.StorefrontOrigin},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}))
		r.Get("/api/search", SearchGetHandler(deps.Search, logger))
		r.Post("/api/search", SearchToggleHandler(deps.Search, logger))
		r.Options("/api/search", SearchOptionsHandler())
	})

	// Embedded admin routes
	r.Group(func(r chi.Router) {
		r.Use(securitymiddleware.EmbeddedAppHeaders())
		r.Use(securitymiddleware.AdminAuth(deps.SessionTokens, deps.Shopify, deps.Shops, logger))

		r.Get("/api/products", ProductsHandler(deps.Catalog, logger))
		r.Post("/api/webhooks", RegisterWebhooksHandler(deps.Webhooks, logger))
		r.Get("/app/search", SettingsPageHandler(deps.Settings, deps.APIKey, logger))
		r.Post("/app/search", SettingsSaveHandler(deps.Settings, deps.APIKey, logger))
		r.Get("/debug/webhooks", DebugWebhooksHandler(deps.Webhooks, logger))
	})

	return r
}
