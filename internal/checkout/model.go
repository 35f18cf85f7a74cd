package checkout

import (
	"github.com/shadowstrength/storefront/internal/cart"
	"github.com/shadowstrength/storefront/pkg/enums"
)

const (
	// FlowKey is the session storage key holding the in-progress checkout.
	FlowKey = "checkout-flow"

	CompletionMessage = "Order placed successfully! (Demo — no real payment processed)"
	DefaultRedirect   = "index.html"
)

// OrderSummary is the cart snapshot shown while the shopper enters payment details.
type OrderSummary struct {
	ItemsTotal string `json:"items_total"`
	OrderTotal string `json:"order_total"`
	ItemCount  int    `json:"item_count"`
}

// Flow is the persisted checkout state of one session.
type Flow struct {
	Step    enums.CheckoutStep `json:"step"`
	Summary *OrderSummary      `json:"summary,omitempty"`
}

// Completion tells the storefront where to go once the order is placed.
type Completion struct {
	Redirect string       `json:"redirect"`
	Message  string       `json:"message"`
	Summary  OrderSummary `json:"summary"`
}

func deliveryFlow() Flow {
	return Flow{Step: enums.CheckoutStepDelivery}
}

// summarize snapshots the cart. No shipping or tax applies, so both totals match.
func summarize(c cart.Cart) OrderSummary {
	total := cart.FormatPrice(cart.TotalPrice(c))
	return OrderSummary{
		ItemsTotal: total,
		OrderTotal: total,
		ItemCount:  cart.TotalQuantity(c),
	}
}
