package checkout

import (
	"context"
	"errors"

	"github.com/noah-isme/backend-greenmart/internal/cart"
	"github.com/noah-isme/backend-greenmart/internal/money"
	"github.com/noah-isme/backend-greenmart/internal/obs"
	"github.com/noah-isme/backend-greenmart/internal/pricing"
	"github.com/noah-isme/backend-greenmart/internal/promo"
	"github.com/noah-isme/backend-greenmart/internal/session"
	"github.com/noah-isme/backend-greenmart/internal/shipping"
)

// ErrEmptyCart indicates a checkout attempt on a cart with no items.
var ErrEmptyCart = errors.New("checkout: cart is empty")

// Payload is the frozen handoff for the downstream order flow. Totals
// are recomputed from the stored cart at build time, never read from a
// cached value.
type Payload struct {
	CartID   string         `json:"cartId"`
	Items    []cart.Item    `json:"items"`
	Units    int            `json:"units"`
	Shipping shipping.Tier  `json:"shipping"`
	Promo    *promo.Code    `json:"promo,omitempty"`
	Pricing  pricing.Totals `json:"pricing"`
	Currency string         `json:"currency"`
}

// Service assembles checkout payloads from live cart sessions.
type Service struct {
	Store    *session.Store
	Promos   promo.Registry
	Tiers    []shipping.Tier
	Currency string
}

// Build derives the checkout payload for a cart. The effective tier is
// resolved against the current subtotal, so a selection whose minimum
// lapsed since it was made is billed as the default tier.
func (s *Service) Build(ctx context.Context, cartID string) (Payload, error) {
	state, err := s.Store.Get(ctx, cartID)
	if err != nil {
		return Payload{}, err
	}
	if state.Cart.Len() == 0 {
		if obs.CheckoutTotal != nil {
			obs.CheckoutTotal.WithLabelValues("empty").Inc()
		}
		return Payload{}, ErrEmptyCart
	}

	subtotal := state.Cart.Subtotal()
	selection, err := shipping.Resolve(s.Tiers, state.SelectedShipping, subtotal)
	if err != nil {
		return Payload{}, err
	}

	var (
		applied *promo.Code
		disc    pricing.Discount
	)
	if state.PromoCode != "" {
		if code, ok := s.Promos.Lookup(state.PromoCode); ok {
			applied = &code
			disc = pricing.Discount{Value: code.Discount, Percent: code.IsPercent, Applied: true}
		}
	}

	items := state.Cart.Items()
	pricingItems := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		pricingItems = append(pricingItems, pricing.Item{Qty: it.Quantity, UnitPrice: it.UnitPrice})
	}
	totals := pricing.Compute(pricingItems, selection.Effective.Price, disc)

	if obs.CheckoutTotal != nil {
		obs.CheckoutTotal.WithLabelValues("built").Inc()
	}
	return Payload{
		CartID:   cartID,
		Items:    items,
		Units:    state.Cart.Units(),
		Shipping: selection.Effective,
		Promo:    applied,
		Pricing:  totals.Rounded(),
		Currency: s.Currency,
	}, nil
}

// GrandTotal formats the payable amount for display.
func (p Payload) GrandTotal() string {
	return money.Format(p.Pricing.Total)
}
