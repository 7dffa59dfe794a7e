package api

import (
	"errors"
	"net/http"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

// ProductsHandler runs the catalog sync for the authenticated shop
// @Summary Sync the product catalog
// @Tags catalog
// @Produce json,html
// @Success 200 {object} domain.CatalogSyncResult
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/products [get]
func ProductsHandler(catalog *application.CatalogService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shop := domain.GetShopFromContext(r.Context())

		result, err := catalog.Sync(r.Context(), shop)
		if err != nil {
			if errors.Is(err, domain.ErrShopNotInstalled) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": err.Error()})
				return
			}
			logger.Error().Err(err).Str("shop", shop).Msg("Catalog sync failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
			return
		}

		if acceptsHTML(r) {
			writeHTML(w, logger, "products.html", productsPage{
				CatalogSyncResult: result,
				BackendReply:      string(result.BackendReply),
			})
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
