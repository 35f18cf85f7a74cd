package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shadowstrength/storefront/pkg/money"
)

// AddItem adds one unit of a product. An existing line keeps its first-seen
// name and price and gains one unit; otherwise a new line is appended.
// Blank ids or names and prices outside money.IsUnitPrice leave the cart
// unchanged.
func AddItem(c Cart, id, name string, price decimal.Decimal) Cart {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(name) == "" || !money.IsUnitPrice(price) {
		return clone(c)
	}
	next := clone(c)
	if idx := next.Find(id); idx >= 0 {
		next[idx].Quantity++
		return next
	}
	return append(next, LineItem{ID: id, Name: name, Price: price, Quantity: 1})
}

// IncrementQuantity adds one unit to the matching line.
func IncrementQuantity(c Cart, id string) Cart {
	next := clone(c)
	if idx := next.Find(id); idx >= 0 {
		next[idx].Quantity++
	}
	return next
}

// DecrementQuantity removes one unit from the matching line but never drops
// below one. Use RemoveItem to delete a line.
func DecrementQuantity(c Cart, id string) Cart {
	next := clone(c)
	if idx := next.Find(id); idx >= 0 && next[idx].Quantity > 1 {
		next[idx].Quantity--
	}
	return next
}

// RemoveItem deletes the matching line, preserving the order of the rest.
func RemoveItem(c Cart, id string) Cart {
	next := make(Cart, 0, len(c))
	for _, item := range c {
		if item.ID == id {
			continue
		}
		next = append(next, item)
	}
	return next
}

// Clear returns an empty cart.
func Clear() Cart {
	return Cart{}
}

func clone(c Cart) Cart {
	next := make(Cart, len(c), len(c)+1)
	copy(next, c)
	return next
}
