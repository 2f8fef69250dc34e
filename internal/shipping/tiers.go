package shipping

import (
	"errors"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

// ErrNoTiers is returned when a selection is resolved against an empty catalog.
var ErrNoTiers = errors.New("shipping: no tiers configured")

// Tier is a shipping option from the catalog. A tier with a minimum
// subtotal is billable only once the cart subtotal reaches it.
type Tier struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Price           money.Amount  `json:"price"`
	ETADays         string        `json:"etaDays"`
	MinimumSubtotal *money.Amount `json:"minimumSubtotal,omitempty"`
}

// Eligible reports whether the tier may be billed at the given subtotal.
func (t Tier) Eligible(subtotal money.Amount) bool {
	if t.MinimumSubtotal == nil {
		return true
	}
	return subtotal.GreaterThanOrEqual(*t.MinimumSubtotal)
}

// Selection pairs the user's declared choice with the tier actually
// billed. The two diverge when the chosen tier's minimum is not met:
// billing falls back to the catalog's first tier while SelectedID keeps
// showing the original choice.
type Selection struct {
	SelectedID string `json:"selectedId"`
	Effective  Tier   `json:"effective"`
}

// Resolve finds the effective tier for a selection. An unknown id falls
// back to the first tier; a resolved tier whose minimum subtotal is
// unmet is billed as the first tier instead. Catalog order defines the
// default, not price comparison.
func Resolve(tiers []Tier, selectedID string, subtotal money.Amount) (Selection, error) {
	if len(tiers) == 0 {
		return Selection{}, ErrNoTiers
	}
	effective := tiers[0]
	for _, t := range tiers {
		if t.ID == selectedID {
			effective = t
			break
		}
	}
	if !effective.Eligible(subtotal) {
		effective = tiers[0]
	}
	return Selection{SelectedID: selectedID, Effective: effective}, nil
}

// Lookup returns the tier with the given id.
func Lookup(tiers []Tier, id string) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// DefaultTiers is the storefront's standing shipping catalog.
func DefaultTiers() []Tier {
	freeMinimum := money.MustParse("50")
	return []Tier{
		{ID: "standard", Name: "Standard Shipping", Price: money.MustParse("4.99"), ETADays: "3-5"},
		{ID: "express", Name: "Express Shipping", Price: money.MustParse("12.99"), ETADays: "1-2"},
		{ID: "free", Name: "Free Shipping", Price: money.Zero(), ETADays: "5-7", MinimumSubtotal: &freeMinimum},
	}
}
