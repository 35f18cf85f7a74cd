package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shadowstrength/storefront/pkg/money"
)

// StorageKey is the session storage key holding the serialized cart.
const StorageKey = "cart-store"

// LineItem is one distinct product in the cart.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price times quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the ordered list of line items. Insertion order is display order.
type Cart []LineItem

// Find returns the index of the item with the given id, or -1.
func (c Cart) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) valid() bool {
	seen := make(map[string]struct{}, len(c))
	for _, item := range c {
		if item.ID == "" || item.Name == "" || item.Quantity < 1 || !money.IsUnitPrice(item.Price) {
			return false
		}
		if _, dup := seen[item.ID]; dup {
			return false
		}
		seen[item.ID] = struct{}{}
	}
	return true
}
