// Package catalog serves the product list behind the storefront's
// add-to-cart buttons, with category filtering.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/shadowstrength/storefront/pkg/money"
)

// FilterAll matches every product.
const FilterAll = "all"

//go:embed products.yaml
var defaultSeed []byte

// Product is one item the storefront offers.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	FormattedPrice string          `json:"formatted_price"`
	Category       string          `json:"category"`
	Description    string          `json:"description,omitempty"`
}

type seedFile struct {
	Products []seedProduct `yaml:"products"`
}

type seedProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
}

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []Product
}

// Default loads the embedded product seed.
func Default() (*Catalog, error) {
	return Parse(defaultSeed)
}

// Parse builds a catalog from YAML. Every product needs a unique id, a name,
// a category and a positive price.
func Parse(raw []byte) (*Catalog, error) {
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(seed.Products))
	products := make([]Product, 0, len(seed.Products))
	for i, p := range seed.Products {
		id := strings.TrimSpace(p.ID)
		if id == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("catalog product %d: id, name and category are required", i)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog product %q listed twice", id)
		}
		seen[id] = struct{}{}
		price, err := decimal.NewFromString(strings.TrimSpace(p.Price))
		if err != nil {
			return nil, fmt.Errorf("catalog product %q price: %w", id, err)
		}
		if !money.IsUnitPrice(price) {
			return nil, fmt.Errorf("catalog product %q price %s is not a valid unit price", id, p.Price)
		}
		products = append(products, Product{
			ID:             id,
			Name:           p.Name,
			Price:          price,
			FormattedPrice: money.Format(price),
			Category:       strings.TrimSpace(p.Category),
			Description:    strings.TrimSpace(p.Description),
		})
	}
	return &Catalog{products: products}, nil
}

// List returns the products matching filter. An empty filter or "all" matches
// everything; any other value must equal the category exactly.
func (c *Catalog) List(filter string) []Product {
	filter = strings.TrimSpace(filter)
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if filter == "" || filter == FilterAll || filter == p.Category {
			out = append(out, p)
		}
	}
	return out
}

// Lookup finds a product by id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, p := range c.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}
