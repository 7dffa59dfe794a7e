package shopify

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ProductsQuery walks the product catalog one page at a time
const ProductsQuery = `
query getProducts($first: Int!, $cursor: String) {
  products(first: $first, after: $cursor) {
    edges {
      node {
        id
        title
        handle
        productType
        description
        onlineStoreUrl
        featuredImage {
          url
          altText
        }
        images(first: 50) {
          edges {
            node {
              url
              altText
              id
            }
          }
        }
        priceRangeV2 {
          minVariantPrice {
            amount
            currencyCode
          }
          maxVariantPrice {
            amount
            currencyCode
          }
        }
        options {
          name
          values
        }
        variants(first: 100) {
          edges {
            node {
              id
              title
              price
              selectedOptions {
                name
                value
              }
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}
`

// ParseOperation parses a GraphQL document and returns its single operation
func ParseOperation(query string) (*ast.OperationDefinition, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: query})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL query: %w", err)
	}
	if len(doc.Operations) != 1 {
		return nil, fmt.Errorf("expected exactly one operation, got %d", len(doc.Operations))
	}
	return doc.Operations[0], nil
}

// variableNames lists the variables an operation declares
func variableNames(op *ast.OperationDefinition) []string {
	names := make([]string, 0, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		names = append(names, def.Variable)
	}
	return names
}
