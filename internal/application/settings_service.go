package application

import (
	"context"
	"fmt"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

// SettingsService reads and writes the singleton settings row
type SettingsService struct {
	repository ports.SavedSearchRepository
	logger     zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(repository ports.SavedSearchRepository, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repository: repository, logger: logger}
}

// Get returns the saved settings, empty when never saved
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	row, err := s.repository.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return domain.SettingsFromSearch(row), nil
}

// Save upserts the settings and returns what was stored
func (s *SettingsService) Save(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	row, err := s.repository.UpsertSettings(ctx, settings)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save settings")
		return domain.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	s.logger.Info().Str("name", settings.Name).Msg("Settings saved")
	return domain.SettingsFromSearch(row), nil
}
