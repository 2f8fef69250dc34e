package pricing

import (
	"github.com/noah-isme/backend-greenmart/internal/money"
)

// Item describes a line item used for totals calculation.
type Item struct {
	Qty       int
	UnitPrice money.Amount
}

// Discount captures an applied promotional reduction. The zero value
// means no promo is active.
type Discount struct {
	Value   money.Amount
	Percent bool
	Applied bool
}

// Totals aggregates the derived pricing components. Values carry full
// decimal precision; round at the display boundary.
type Totals struct {
	Subtotal money.Amount `json:"subtotal"`
	Shipping money.Amount `json:"shippingCost"`
	Discount money.Amount `json:"discountAmount"`
	Total    money.Amount `json:"total"`
}

// Compute derives cart totals from the provided inputs. It is pure and
// idempotent: identical inputs always yield identical output, and it is
// the single source for every displayed monetary figure. The discount
// may exceed the payable amount; the total is floored at zero rather
// than presenting a negative charge.
func Compute(items []Item, shipping money.Amount, disc Discount) Totals {
	subtotal := money.Zero()
	for _, it := range items {
		if it.Qty <= 0 {
			continue
		}
		subtotal = subtotal.Add(money.Line(it.UnitPrice, it.Qty))
	}
	discount := money.Zero()
	if disc.Applied {
		if disc.Percent {
			discount = money.Percent(subtotal, disc.Value)
		} else {
			discount = disc.Value
		}
	}
	total := money.ClampZero(subtotal.Add(shipping).Sub(discount))
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Discount: discount,
		Total:    total,
	}
}

// Rounded returns a copy of the totals rounded to cents for display
// and checkout payloads.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: money.Round2(t.Subtotal),
		Shipping: money.Round2(t.Shipping),
		Discount: money.Round2(t.Discount),
		Total:    money.Round2(t.Total),
	}
}
