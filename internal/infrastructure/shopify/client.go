package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"multimodal-product-discovery/internal/domain"
	"multimodal-product-discovery/internal/ports"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/rs/zerolog"
)

// Options configures the Shopify client adapter
type Options struct {
	APIKey      string
	APISecret   string
	APIVersion  string
	Scopes      []string
	RedirectURI string
}

type client struct {
	app        goshopify.App
	apiVersion string
	scopes     []string
	logger     zerolog.Logger
}

// NewClient creates a new Shopify client adapter.
// It fails when the embedded products query does not parse.
func NewClient(opts Options, logger zerolog.Logger) (ports.ShopifyClient, error) {
	op, err := ParseOperation(ProductsQuery)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("operation", op.Name).
		Strs("variables", variableNames(op)).
		Msg("Products query validated")

	app := goshopify.App{
		ApiKey:      opts.APIKey,
		ApiSecret:   opts.APISecret,
		RedirectUrl: opts.RedirectURI,
		Scope:       strings.Join(opts.Scopes, ","),
	}
	return &client{
		app:        app,
		apiVersion: opts.APIVersion,
		scopes:     opts.Scopes,
		logger:     logger,
	}, nil
}

// createClient is a helper to create a goshopify client
func (c *client) createClient(shopDomain string, accessToken string) (*goshopify.Client, error) {
	var opts []goshopify.Option
	if c.apiVersion != "" {
		opts = append(opts, goshopify.WithVersion(c.apiVersion))
	}
	client, err := goshopify.NewClient(c.app, shopDomain, accessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Authentication methods

func (c *client) AuthorizeURL(shop string, state string) string {
	// Shopify expects scopes to be comma-separated (no spaces)
	scopes := strings.Join(c.scopes, ",")

	c.logger.Info().
		Str("shop", shop).
		Strs("scopes", c.scopes).
		Msg("Generating OAuth authorization URL")

	return fmt.Sprintf(
		"https://%s/admin/oauth/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		shop,
		url.QueryEscape(c.app.ApiKey),
		url.QueryEscape(scopes),
		url.QueryEscape(c.app.RedirectUrl),
		url.QueryEscape(state),
	)
}

func (c *client) ExchangeToken(ctx context.Context, shop string, code string) (string, error) {
	token, err := c.app.GetAccessToken(ctx, shop, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange token: %w", err)
	}
	return token, nil
}

func (c *client) VerifyAuthorizationURL(u *url.URL) (bool, error) {
	ok, err := c.app.VerifyAuthorizationURL(u)
	if err != nil {
		return false, fmt.Errorf("failed to verify authorization url: %w", err)
	}
	return ok, nil
}

func (c *client) VerifyWebhookRequest(r *http.Request) bool {
	return c.app.VerifyWebhookRequest(r)
}

// Product catalog

type productsResponse struct {
	Products struct {
		Edges []struct {
			Node domain.CatalogProduct `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			HasNextPage bool    `json:"hasNextPage"`
			EndCursor   *string `json:"endCursor"`
		} `json:"pageInfo"`
	} `json:"products"`
}

func (c *client) FetchProductsPage(ctx context.Context, shopDomain string, accessToken string, first int, after *string) (*domain.ProductPage, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}

	vars := map[string]interface{}{
		"first":  first,
		"cursor": after,
	}
	var resp productsResponse
	if err := client.GraphQL.Query(ctx, ProductsQuery, vars, &resp); err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	page := &domain.ProductPage{
		Products:    make([]domain.CatalogProduct, 0, len(resp.Products.Edges)),
		HasNextPage: resp.Products.PageInfo.HasNextPage,
	}
	if resp.Products.PageInfo.EndCursor != nil {
		page.EndCursor = *resp.Products.PageInfo.EndCursor
	}
	for _, edge := range resp.Products.Edges {
		page.Products = append(page.Products, edge.Node)
	}
	return page, nil
}

// Webhook API

func (c *client) CreateWebhook(ctx context.Context, shopDomain string, accessToken string, topic string, address string) (*goshopify.Webhook, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	webhook := goshopify.Webhook{
		Topic:   topic,
		Address: address,
		Format:  "json",
	}
	created, err := client.Webhook.Create(ctx, webhook)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook: %w", err)
	}
	return created, nil
}

func (c *client) ListWebhooks(ctx context.Context, shopDomain string, accessToken string) ([]goshopify.Webhook, error) {
	client, err := c.createClient(shopDomain, accessToken)
	if err != nil {
		return nil, err
	}
	webhooks, err := client.Webhook.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	return webhooks, nil
}
