package application

import (
	"fmt"
	"strings"

	"multimodal-product-discovery/internal/domain"
)

const defaultPrice = "0.00"

func isColorOption(name string) bool {
	name = strings.ToLower(name)
	return name == "color" || name == "colour"
}

// NormalizeProduct flattens a catalog product into the record sent to the backend
func NormalizeProduct(p domain.CatalogProduct, shopDomain string) domain.NormalizedProduct {
	colors := []string{}
	for _, opt := range p.Options {
		if isColorOption(opt.Name) {
			if opt.Values != nil {
				colors = opt.Values
			}
			break
		}
	}

	variantColors := []string{}
	seen := make(map[string]struct{})
	for _, edge := range p.Variants.Edges {
		for _, sel := range edge.Node.SelectedOptions {
			if !isColorOption(sel.Name) {
				continue
			}
			if sel.Value != "" {
				if _, ok := seen[sel.Value]; !ok {
					seen[sel.Value] = struct{}{}
					variantColors = append(variantColors, sel.Value)
				}
			}
			break
		}
	}

	price := ""
	if len(p.Variants.Edges) > 0 {
		price = p.Variants.Edges[0].Node.Price
	}
	if price == "" && p.PriceRangeV2 != nil {
		price = p.PriceRangeV2.MinVariantPrice.Amount
	}
	if price == "" {
		price = defaultPrice
	}

	image := ""
	imageAlt := p.Title
	if p.FeaturedImage != nil {
		image = p.FeaturedImage.URL
		if p.FeaturedImage.AltText != nil && *p.FeaturedImage.AltText != "" {
			imageAlt = *p.FeaturedImage.AltText
		}
	}

	images := make([]domain.ProductImage, 0, len(p.Images.Edges))
	imageURLs := make([]string, 0, len(p.Images.Edges))
	for _, edge := range p.Images.Edges {
		alt := p.Title
		if edge.Node.AltText != nil && *edge.Node.AltText != "" {
			alt = *edge.Node.AltText
		}
		images = append(images, domain.ProductImage{
			URL:     edge.Node.URL,
			AltText: alt,
			ID:      edge.Node.ID,
		})
		imageURLs = append(imageURLs, edge.Node.URL)
	}

	shopifyURL := fmt.Sprintf("https://%s/products/%s", shopDomain, p.Handle)
	if p.OnlineStoreURL != nil && *p.OnlineStoreURL != "" {
		shopifyURL = *p.OnlineStoreURL
	}

	return domain.NormalizedProduct{
		ID:             p.ID,
		Title:          p.Title,
		Handle:         p.Handle,
		ProductType:    p.ProductType,
		Description:    p.Description,
		Colors:         colors,
		VariantColors:  variantColors,
		Price:          price,
		Image:          image,
		ImageAlt:       imageAlt,
		Images:         images,
		ImageURLs:      imageURLs,
		ShopifyURL:     shopifyURL,
		AdminURL:       fmt.Sprintf("https://%s/admin/products/%s", shopDomain, lastGIDSegment(p.ID)),
		OnlineStoreURL: p.OnlineStoreURL,
	}
}

// lastGIDSegment returns "123" for "gid://shopify/Product/123"
func lastGIDSegment(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
