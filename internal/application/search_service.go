package application

import (
	"context"
	"fmt"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

const (
	MessageAdded   = "Added to search"
	MessageRemoved = "Removed from search"
)

// SearchService reads and toggles saved searches
type SearchService struct {
	repository ports.SavedSearchRepository
	metrics    ports.MetricsRecorder
	logger     zerolog.Logger
}

// NewSearchService creates a new saved search service
func NewSearchService(repository ports.SavedSearchRepository, metrics ports.MetricsRecorder, logger zerolog.Logger) *SearchService {
	return &SearchService{
		repository: repository,
		metrics:    recorderOrNop(metrics),
		logger:     logger,
	}
}

// Find returns the rows matching a complete key
func (s *SearchService) Find(ctx context.Context, key domain.SearchKey) ([]*domain.SavedSearch, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	searches, err := s.repository.Find(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find saved searches: %w", err)
	}
	return searches, nil
}

// Toggle flips the saved state of a product for a customer
func (s *SearchService) Toggle(ctx context.Context, key domain.SearchKey) (*domain.ToggleResult, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repository.Toggle(ctx, key)
	if err != nil {
		s.metrics.ObserveToggle("error")
		s.logger.Error().
			Err(err).
			Str("shop", key.Shop).
			Str("customerId", key.CustomerID).
			Str("productId", key.ProductID).
			Msg("Failed to toggle saved search")
		return nil, fmt.Errorf("failed to toggle saved search: %w", err)
	}

	if created {
		s.metrics.ObserveToggle("added")
		return &domain.ToggleResult{Message: MessageAdded, Searched: true}, nil
	}
	s.metrics.ObserveToggle("removed")
	return &domain.ToggleResult{Message: MessageRemoved, Searched: false}, nil
}

// ForgetCustomer removes a customer's saved searches in a shop
func (s *SearchService) ForgetCustomer(ctx context.Context, shop string, customerID string) (int64, error) {
	return s.repository.DeleteByCustomer(ctx, shop, customerID)
}

// ForgetShop removes every saved search of a shop
func (s *SearchService) ForgetShop(ctx context.Context, shop string) (int64, error) {
	return s.repository.DeleteByShop(ctx, shop)
}
