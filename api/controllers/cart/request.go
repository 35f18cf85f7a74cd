package cart

import "github.com/shopspring/decimal"

// AddItemRequest mirrors the data attributes of an add-to-cart button.
// Incomplete payloads are accepted and leave the cart unchanged.
type AddItemRequest struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
