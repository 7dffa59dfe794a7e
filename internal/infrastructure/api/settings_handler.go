package api

import (
	"net/http"

	"multimodal-product-discovery/internal/application"
	"multimodal-product-discovery/internal/domain"

	"github.com/rs/zerolog"
)

// SettingsPageHandler renders the settings form
func SettingsPageHandler(settings *application.SettingsService, apiKey string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := settings.Get(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load settings")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, current)
			return
		}
		writeHTML(w, logger, "settings.html", settingsPage{
			APIKey:   apiKey,
			Action:   r.URL.RequestURI(),
			Settings: current,
		})
	}
}

// SettingsSaveHandler upserts the settings and re-renders the form
func SettingsSaveHandler(settings *application.SettingsService, apiKey string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		submitted := domain.Settings{
			Name:        r.PostFormValue("name"),
			Description: r.PostFormValue("description"),
		}

		saved, err := settings.Save(r.Context(), submitted)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to save settings")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, saved)
			return
		}
		writeHTML(w, logger, "settings.html", settingsPage{
			APIKey:   apiKey,
			Action:   r.URL.RequestURI(),
			Settings: saved,
			Saved:    true,
		})
	}
}
