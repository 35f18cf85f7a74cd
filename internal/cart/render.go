package cart

import (
	"github.com/shopspring/decimal"

	"github.com/shadowstrength/storefront/pkg/money"
)

// EmptyMessage is shown in place of line items when the cart has none.
const EmptyMessage = "Your cart is empty."

// ItemView is a render-ready line item.
type ItemView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	FormattedPrice string `json:"formatted_price"`
}

// View is the projection used by the badge, cart overlay and order summary.
type View struct {
	Empty          bool       `json:"empty"`
	EmptyMessage   string     `json:"empty_message,omitempty"`
	Items          []ItemView `json:"items"`
	BadgeCount     int        `json:"badge_count"`
	FormattedTotal string     `json:"formatted_total"`
}

// TotalQuantity sums the quantity of every line.
func TotalQuantity(c Cart) int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums price times quantity over every line.
func TotalPrice(c Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c {
		total = total.Add(item.Subtotal())
	}
	return total
}

// FormatPrice renders an amount as currency.
func FormatPrice(amount decimal.Decimal) string {
	return money.Format(amount)
}

// ToViewModel projects the cart for rendering. Each line shows its unit price.
func ToViewModel(c Cart) View {
	view := View{
		Items:          make([]ItemView, 0, len(c)),
		BadgeCount:     TotalQuantity(c),
		FormattedTotal: FormatPrice(TotalPrice(c)),
	}
	if len(c) == 0 {
		view.Empty = true
		view.EmptyMessage = EmptyMessage
		return view
	}
	for _, item := range c {
		view.Items = append(view.Items, ItemView{
			ID:             item.ID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			FormattedPrice: FormatPrice(item.Price),
		})
	}
	return view
}
