package cart

import (
	"encoding/json"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

// Item is a single cart line. Two lines are the same entry only when
// both the product id and the variant (or absence of one) match.
type Item struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	UnitPrice money.Amount `json:"unitPrice"`
	Quantity  int          `json:"quantity"`
	ImageURL  string       `json:"imageUrl"`
	Variant   string       `json:"variant,omitempty"`
}

// Cart is an ordered, immutable collection of line items. Every
// mutating operation returns a new Cart; callers replace the value
// they hold. Arrival order is preserved for display.
type Cart struct {
	items []Item
}

// New builds a cart from the provided lines, merging duplicates the
// same way sequential adds would.
func New(items ...Item) Cart {
	var c Cart
	for _, it := range items {
		c = c.Merge(it)
	}
	return c
}

// Items returns a copy of the lines in arrival order.
func (c Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct lines.
func (c Cart) Len() int {
	return len(c.items)
}

// Units reports the total quantity across all lines.
func (c Cart) Units() int {
	var n int
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal sums unit price times quantity over all lines.
func (c Cart) Subtotal() money.Amount {
	total := money.Zero()
	for _, it := range c.items {
		total = total.Add(money.Line(it.UnitPrice, it.Quantity))
	}
	return total
}

// Merge folds a line into the cart: an existing (id, variant) entry has
// its quantity increased, otherwise the line is appended. Quantities
// below one are treated as one.
func (c Cart) Merge(line Item) Cart {
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	next := make([]Item, len(c.items))
	copy(next, c.items)
	for i, it := range next {
		if it.ID == line.ID && it.Variant == line.Variant {
			next[i].Quantity += line.Quantity
			return Cart{items: next}
		}
	}
	return Cart{items: append(next, line)}
}

// SetQuantity replaces a line's quantity. A quantity below one is a
// silent no-op returning the cart unchanged, not a removal.
func (c Cart) SetQuantity(itemID string, qty int) Cart {
	if qty < 1 {
		return c
	}
	next := make([]Item, len(c.items))
	copy(next, c.items)
	for i, it := range next {
		if it.ID == itemID {
			next[i].Quantity = qty
		}
	}
	return Cart{items: next}
}

// Remove drops every line whose product id matches, regardless of
// variant. An unknown id leaves the cart unchanged.
func (c Cart) Remove(itemID string) Cart {
	next := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.ID == itemID {
			continue
		}
		next = append(next, it)
	}
	return Cart{items: next}
}

// MarshalJSON renders the cart as a bare array of lines, the shape the
// saved-cart snapshot uses.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

// UnmarshalJSON restores a cart from an array of lines, re-merging
// duplicate (id, variant) entries.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = New(items...)
	return nil
}
