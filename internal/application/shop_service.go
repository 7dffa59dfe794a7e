package application

import (
	"context"
	"fmt"
	"time"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	"github.com/rs/zerolog"
)

// ShopService manages installed shops and their offline access tokens.
// Tokens are encrypted before they reach the repository.
type ShopService struct {
	repository    ports.ShopRepository
	encryptionSvc ports.EncryptionService
	client        ports.ShopifyClient
	scopes        []string
	logger        zerolog.Logger
}

// NewShopService creates a new shop service
func NewShopService(
	repository ports.ShopRepository,
	encryptionSvc ports.EncryptionService,
	client ports.ShopifyClient,
	scopes []string,
	logger zerolog.Logger,
) *ShopService {
	return &ShopService{
		repository:    repository,
		encryptionSvc: encryptionSvc,
		client:        client,
		scopes:        scopes,
		logger:        logger,
	}
}

// AuthorizeURL returns the OAuth authorization URL for a shop
func (s *ShopService) AuthorizeURL(shop string, state string) (string, error) {
	if !domain.IsValidShopDomain(shop) {
		return "", fmt.Errorf("invalid shop domain: %q", shop)
	}
	return s.client.AuthorizeURL(shop, state), nil
}

// Install exchanges the authorization code and stores the encrypted token
func (s *ShopService) Install(ctx context.Context, shop string, code string) (*domain.Shop, error) {
	accessToken, err := s.client.ExchangeToken(ctx, shop, code)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to exchange token")
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	installed, err := s.SaveToken(ctx, shop, accessToken)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("shop", shop).
		Strs("scopes", installed.Scopes).
		Msg("Shop installed")
	return installed, nil
}

// SaveToken encrypts and stores an offline access token for a shop
func (s *ShopService) SaveToken(ctx context.Context, shop string, accessToken string) (*domain.Shop, error) {
	encryptedToken, err := s.encryptionSvc.Encrypt(accessToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to encrypt access token")
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	domainShop := &domain.Shop{
		Domain:      shop,
		AccessToken: encryptedToken,
		Scopes:      s.scopes,
		InstalledAt: time.Now(),
	}
	if err := s.repository.SaveShop(ctx, domainShop); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to save shop")
		return nil, fmt.Errorf("failed to save shop: %w", err)
	}
	return domainShop, nil
}

// GetAccessToken retrieves and decrypts the access token for a shop.
// It returns ErrShopNotInstalled when no token is stored.
func (s *ShopService) GetAccessToken(ctx context.Context, shop string) (string, error) {
	stored, err := s.repository.GetShop(ctx, shop)
	if err != nil {
		return "", fmt.Errorf("failed to get shop: %w", err)
	}
	if stored == nil || stored.AccessToken == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrShopNotInstalled, shop)
	}

	decryptedToken, err := s.encryptionSvc.Decrypt(stored.AccessToken)
	if err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to decrypt access token")
		return "", fmt.Errorf("failed to decrypt access token: %w", err)
	}
	return decryptedToken, nil
}

// IsInstalled reports whether a token is stored for the shop
func (s *ShopService) IsInstalled(ctx context.Context, shop string) (bool, error) {
	stored, err := s.repository.GetShop(ctx, shop)
	if err != nil {
		return false, fmt.Errorf("failed to get shop: %w", err)
	}
	return stored != nil && stored.AccessToken != "", nil
}

// Uninstall forgets the shop's token
func (s *ShopService) Uninstall(ctx context.Context, shop string) error {
	if err := s.repository.DeleteShop(ctx, shop); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Msg("Failed to delete shop")
		return fmt.Errorf("failed to delete shop: %w", err)
	}
	s.logger.Info().Str("shop", shop).Msg("Shop uninstalled")
	return nil
}
