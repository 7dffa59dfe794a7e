package domain

import "encoding/json"

// CatalogProduct is a product node as returned by the Admin GraphQL products query
type CatalogProduct struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Handle         string  `json:"handle"`
	ProductType    string  `json:"productType"`
	Description    string  `json:"description"`
	OnlineStoreURL *string `json:"onlineStoreUrl"`
	FeaturedImage  *struct {
		URL     string  `json:"url"`
		AltText *string `json:"altText"`
	} `json:"featuredImage"`
	Images struct {
		Edges []struct {
			Node CatalogImage `json:"node"`
		} `json:"edges"`
	} `json:"images"`
	PriceRangeV2 *struct {
		MinVariantPrice Money `json:"minVariantPrice"`
		MaxVariantPrice Money `json:"maxVariantPrice"`
	} `json:"priceRangeV2"`
	Options  []ProductOption `json:"options"`
	Variants struct {
		Edges []struct {
			Node CatalogVariant `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

// CatalogImage is an image node of a product
type CatalogImage struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

// CatalogVariant is a variant node of a product
type CatalogVariant struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           string           `json:"price"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

// Money is a MoneyV2 amount
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// ProductOption is a product-level option such as Color with all its values
type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// SelectedOption is the option value chosen by a variant
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductPage is one page of the cursor-paginated products connection
type ProductPage struct {
	Products    []CatalogProduct
	HasNextPage bool
	EndCursor   string
}

// NormalizedProduct is the flat record forwarded to the recommendation backend
type NormalizedProduct struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Handle         string         `json:"handle"`
	ProductType    string         `json:"productType"`
	Description    string         `json:"description"`
	Colors         []string       `json:"colors"`
	VariantColors  []string       `json:"variantColors"`
	Price          string         `json:"price"`
	Image          string         `json:"image"`
	ImageAlt       string         `json:"imageAlt"`
	Images         []ProductImage `json:"images"`
	ImageURLs      []string       `json:"imageUrls"`
	ShopifyURL     string         `json:"shopifyUrl"`
	AdminURL       string         `json:"adminUrl"`
	OnlineStoreURL *string        `json:"onlineStoreUrl"`
}

// ProductImage is a flattened product image
type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	ID      string `json:"id"`
}

// CatalogSyncResult is returned by the catalog sync handler
type CatalogSyncResult struct {
	Count        int                 `json:"count"`
	Products     []NormalizedProduct `json:"products"`
	BackendReply json.RawMessage     `json:"backendReply"`
	ShopDomain   string              `json:"shopDomain"`
}
