package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

const maxFormMemory = 1 << 20

// SearchGetHandler returns the saved searches of a tuple
// @Summary List saved searches
// @Tags search
// @Produce json
// @Param customerId query string true "Customer id"
// @Param shop query string true "Shop domain"
// @Param productId query string true "Product id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/search [get]
func SearchGetHandler(search *application.SearchService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		key := domain.NewSearchKey(q.Get("customerId"), q.Get("shop"), q.Get("productId"))
		if key.Validate() != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"message": "Missing data. Required: customerId, productId, shop",
				"method":  http.MethodGet,
			})
			return
		}

		searches, err := search.Find(r.Context(), key)
		if err != nil {
			logger.Error().Err(err).Str("shop", key.Shop).Msg("Failed to find saved searches")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":      true,
			"message": "Success",
			"data":    searches,
		})
	}
}

// SearchToggleHandler flips a saved search
// @Summary Toggle a saved search
// @Tags search
// @Accept x-www-form-urlencoded,mpfd,json
// @Produce json
// @Param customerId formData string true "Customer id"
// @Param productId formData string true "Product id"
// @Param shop formData string true "Shop domain"
// @Success 200 {object} domain.ToggleResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/search [post]
func SearchToggleHandler(search *application.SearchService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := readSearchKey(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
			return
		}

		result, err := search.Toggle(r.Context(), key)
		if err != nil {
			var missing *domain.MissingFieldError
			switch {
			case errors.As(err, &missing):
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": missing.Error()})
			case errors.Is(err, domain.ErrToggleContention):
				writeJSON(w, http.StatusConflict, map[string]string{"message": "Concurrent update, please retry"})
			default:
				logger.Error().Err(err).Msg("Failed to toggle saved search")
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// readSearchKey accepts urlencoded, multipart or JSON bodies
func readSearchKey(r *http.Request) (domain.SearchKey, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body struct {
			CustomerID string `json:"customerId"`
			ProductID  string `json:"productId"`
			Shop       string `json:"shop"`
		}
		if err := json.NewDecoder(io.LimitReader(r.Body, maxFormMemory)).Decode(&body); err != nil {
			return domain.SearchKey{}, err
		}
		return domain.NewSearchKey(body.CustomerID, body.Shop, body.ProductID), nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return domain.SearchKey{}, err
	}
	return domain.NewSearchKey(
		r.PostFormValue("customerId"),
		r.PostFormValue("shop"),
		r.PostFormValue("productId"),
	), nil
}

// SearchOptionsHandler answers non-preflight OPTIONS requests
func SearchOptionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
