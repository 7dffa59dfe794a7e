package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

// DefaultCatalogPageSize is the products page size used by the sync
const DefaultCatalogPageSize = 10

// TokenProvider resolves a shop's decrypted offline token
type TokenProvider interface {
	GetAccessToken(ctx context.Context, shop string) (string, error)
}

// CatalogService walks a shop's catalog and forwards it to the recommendation backend
type CatalogService struct {
	tokens   TokenProvider
	client   ports.ShopifyClient
	backend  ports.RecommendationBackend
	metrics  ports.MetricsRecorder
	pageSize int
	logger   zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	tokens TokenProvider,
	client ports.ShopifyClient,
	backend ports.RecommendationBackend,
	metrics ports.MetricsRecorder,
	pageSize int,
	logger zerolog.Logger,
) *CatalogService {
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}
	return &CatalogService{
		tokens:   tokens,
		client:   client,
		backend:  backend,
		metrics:  recorderOrNop(metrics),
		pageSize: pageSize,
		logger:   logger,
	}
}

// FetchAllProducts follows the products connection until hasNextPage is false
func (s *CatalogService) FetchAllProducts(ctx context.Context, shop string, accessToken string) ([]domain.CatalogProduct, error) {
	var (
		all    []domain.CatalogProduct
		cursor *string
		pages  int
	)
	for {
		page, err := s.client.FetchProductsPage(ctx, shop, accessToken, s.pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products page %d: %w", pages+1, err)
		}
		pages++
		all = append(all, page.Products...)

		if !page.HasNextPage {
			break
		}
		if page.EndCursor == "" {
			return nil, errors.New("products page reported a next page without an end cursor")
		}
		next := page.EndCursor
		cursor = &next
	}

	s.logger.Debug().
		Str("shop", shop).
		Int("pages", pages).
		Int("products", len(all)).
		Msg("Catalog fetched")
	return all, nil
}

// Sync fetches, normalizes and forwards the whole catalog of a shop
func (s *CatalogService) Sync(ctx context.Context, shop string) (result *domain.CatalogSyncResult, err error) {
	start := time.Now()
	defer func() {
		count := 0
		if result != nil {
			count = result.Count
		}
		s.metrics.ObserveCatalogSync(err, count, time.Since(start))
	}()

	accessToken, err := s.tokens.GetAccessToken(ctx, shop)
	if err != nil {
		return nil, err
	}

	products, err := s.FetchAllProducts(ctx, shop, accessToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to fetch catalog")
		return nil, err
	}

	normalized := make([]domain.NormalizedProduct, 0, len(products))
	for _, p := range products {
		normalized = append(normalized, NormalizeProduct(p, shop))
	}

	reply, err := s.backend.SendProducts(ctx, normalized)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Int("count", len(normalized)).Msg("Failed to forward catalog")
		return nil, fmt.Errorf("failed to forward products: %w", err)
	}

	backendReply := json.RawMessage(reply)
	if !json.Valid(reply) {
		// non-JSON replies are passed through as a JSON string
		quoted, _ := json.Marshal(string(reply))
		backendReply = quoted
	}

	s.logger.Info().
		Str("shop", shop).
		Int("count", len(normalized)).
		Dur("elapsed", time.Since(start)).
		Msg("Catalog synced")

	return &domain.CatalogSyncResult{
		Count:        len(normalized),
		Products:     normalized,
		BackendReply: backendReply,
		ShopDomain:   shop,
	}, nil
}
