package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-greenmart/internal/cart"
	"github.com/noah-isme/backend-greenmart/internal/catalog"
	"github.com/noah-isme/backend-greenmart/internal/lock"
	"github.com/noah-isme/backend-greenmart/internal/money"
	"github.com/noah-isme/backend-greenmart/internal/obs"
	"github.com/noah-isme/backend-greenmart/internal/pricing"
	"github.com/noah-isme/backend-greenmart/internal/promo"
	"github.com/noah-isme/backend-greenmart/internal/session"
	"github.com/noah-isme/backend-greenmart/internal/shipping"
)

var (
	// ErrNotFound indicates the cart session does not exist or has expired.
	ErrNotFound = errors.New("storefront: cart not found")
	// ErrInvalidInput is returned when the provided payload is invalid.
	ErrInvalidInput = errors.New("storefront: invalid input")
	// ErrNoSnapshot indicates no saved cart exists for the owner.
	ErrNoSnapshot = errors.New("storefront: no saved cart")
)

// Service owns the reactive cart loop: every mutation loads the stored
// session state, applies a pure collection operation, persists the new
// value, and rederives totals from scratch through the pricing engine.
// No intermediate totals are ever cached.
type Service struct {
	Store    *session.Store
	Catalog  *catalog.Service
	Promos   promo.Registry
	Tiers    []shipping.Tier
	Lock     lock.Locker
	Currency string
}

// mutate serialises a read-modify-write cycle on one session behind a
// Redis lock. fn reports whether the state should be persisted; a
// false return leaves the stored cart untouched but still renders the
// current view.
func (s *Service) mutate(ctx context.Context, id, trigger string, fn func(state *session.State) (bool, error)) (View, error) {
	var view View
	run := func(ctx context.Context) error {
		state, err := s.load(ctx, id)
		if err != nil {
			return err
		}
		persist, err := fn(&state)
		if err != nil {
			return err
		}
		if persist {
			if err := s.Store.Put(ctx, id, state); err != nil {
				return err
			}
		}
		view, err = s.render(id, state, trigger)
		return err
	}
	if s.Lock.R == nil {
		return view, run(ctx)
	}
	err := s.Lock.WithLock(ctx, "lock:cart:"+id, 5*time.Second, run)
	return view, err
}

// TierView decorates a catalog tier with its eligibility at the current
// subtotal, so the UI can disable and annotate the radio options.
type TierView struct {
	shipping.Tier
	Eligible bool `json:"eligible"`
}

// View is the full cart rendering returned after every read or
// mutation. SelectedShipping and EffectiveShipping may diverge when the
// selected tier's minimum is unmet; the stored selection is never
// rewritten by that fallback.
type View struct {
	ID                string         `json:"id"`
	Items             []cart.Item    `json:"items"`
	Units             int            `json:"units"`
	SelectedShipping  string         `json:"selectedShipping"`
	EffectiveShipping shipping.Tier  `json:"effectiveShipping"`
	Tiers             []TierView     `json:"shippingOptions"`
	Promo             *promo.Code    `json:"promo,omitempty"`
	Pricing           pricing.Totals `json:"pricing"`
	Savings           string         `json:"savings,omitempty"`
	Currency          string         `json:"currency"`
}

func (s *Service) defaultShipping() string {
	if len(s.Tiers) == 0 {
		return ""
	}
	return s.Tiers[0].ID
}

// Create initialises an empty cart session and returns its id and view.
func (s *Service) Create(ctx context.Context) (string, View, error) {
	if s == nil || s.Store == nil {
		return "", View{}, errors.New("storefront service not configured")
	}
	id := uuid.NewString()
	state, err := s.Store.Create(ctx, id, s.defaultShipping())
	if err != nil {
		return "", View{}, err
	}
	view, err := s.render(id, state, "create")
	return id, view, err
}

// View loads a session and rederives its totals.
func (s *Service) View(ctx context.Context, id string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.render(id, state, "view")
}

// AddItem merges a catalog product into the cart. An existing
// (id, variant) line has its quantity summed; otherwise a new line is
// appended in arrival order.
func (s *Service) AddItem(ctx context.Context, id, productID string, qty int, variant string) (View, error) {
	if qty < 1 {
		qty = 1
	}
	product, err := s.Catalog.Get(productID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return View{}, fmt.Errorf("unknown product %q: %w", productID, ErrInvalidInput)
		}
		return View{}, err
	}
	if !product.HasVariant(variant) {
		return View{}, fmt.Errorf("unknown variant %q: %w", variant, ErrInvalidInput)
	}
	return s.mutate(ctx, id, "add", func(state *session.State) (bool, error) {
		state.Cart = state.Cart.Merge(cart.Item{
			ID:        product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			ImageURL:  product.ImageURL,
			Variant:   variant,
		})
		return true, nil
	})
}

// UpdateQuantity replaces a line's quantity. A quantity below one is a
// silent no-op: the stored cart is left untouched and the unchanged
// view is returned.
func (s *Service) UpdateQuantity(ctx context.Context, id, itemID string, qty int) (View, error) {
	return s.mutate(ctx, id, "quantity", func(state *session.State) (bool, error) {
		if qty < 1 {
			return false, nil
		}
		state.Cart = state.Cart.SetQuantity(itemID, qty)
		return true, nil
	})
}

// RemoveItem drops every line matching the product id. Removing an
// unknown id is a no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (View, error) {
	return s.mutate(ctx, id, "remove", func(state *session.State) (bool, error) {
		state.Cart = state.Cart.Remove(itemID)
		return true, nil
	})
}

// SelectShipping records the user's tier choice. The choice is stored
// verbatim even when its minimum is currently unmet; billing falls back
// at compute time without rewriting the selection.
func (s *Service) SelectShipping(ctx context.Context, id, tierID string) (View, error) {
	if _, ok := shipping.Lookup(s.Tiers, tierID); !ok {
		return View{}, fmt.Errorf("unknown shipping tier %q: %w", tierID, ErrInvalidInput)
	}
	return s.mutate(ctx, id, "shipping", func(state *session.State) (bool, error) {
		state.SelectedShipping = tierID
		return true, nil
	})
}

// ApplyPromo validates a raw code and replaces any previously applied
// one. Both rejection reasons are recoverable user errors.
func (s *Service) ApplyPromo(ctx context.Context, id, raw string) (View, error) {
	code, err := s.Promos.Validate(raw)
	if err != nil {
		if obs.PromoApplyTotal != nil {
			result := "not_found"
			if errors.Is(err, promo.ErrEmptyCode) {
				result = "empty"
			}
			obs.PromoApplyTotal.WithLabelValues(result).Inc()
		}
		return View{}, err
	}
	view, err := s.mutate(ctx, id, "promo", func(state *session.State) (bool, error) {
		state.PromoCode = code.Code
		return true, nil
	})
	if err == nil && obs.PromoApplyTotal != nil {
		obs.PromoApplyTotal.WithLabelValues("applied").Inc()
	}
	return view, err
}

// RemovePromo clears the applied code and any pending error state.
func (s *Service) RemovePromo(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, "promo", func(state *session.State) (bool, error) {
		state.PromoCode = ""
		return true, nil
	})
}

// Save writes the owner's saved-cart snapshot from the current session.
func (s *Service) Save(ctx context.Context, id, owner string) error {
	state, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Store.SaveSnapshot(ctx, owner, state.Cart); err != nil {
		return err
	}
	if obs.SnapshotTotal != nil {
		obs.SnapshotTotal.WithLabelValues("save").Inc()
	}
	return nil
}

// Restore replaces the session's items with the owner's saved snapshot.
func (s *Service) Restore(ctx context.Context, id, owner string) (View, error) {
	saved, ok, err := s.Store.LoadSnapshot(ctx, owner)
	if err != nil {
		return View{}, err
	}
	if !ok {
		return View{}, ErrNoSnapshot
	}
	view, err := s.mutate(ctx, id, "restore", func(state *session.State) (bool, error) {
		state.Cart = saved
		return true, nil
	})
	if err == nil && obs.SnapshotTotal != nil {
		obs.SnapshotTotal.WithLabelValues("restore").Inc()
	}
	return view, err
}

func (s *Service) load(ctx context.Context, id string) (session.State, error) {
	state, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return session.State{}, ErrNotFound
		}
		return session.State{}, err
	}
	if state.SelectedShipping == "" {
		state.SelectedShipping = s.defaultShipping()
	}
	return state, nil
}

// render is the single recompute path: it resolves the effective
// shipping tier, revalidates the stored promo code against the
// registry, and derives totals from scratch.
func (s *Service) render(id string, state session.State, trigger string) (View, error) {
	subtotal := state.Cart.Subtotal()

	selection, err := shipping.Resolve(s.Tiers, state.SelectedShipping, subtotal)
	if err != nil {
		return View{}, err
	}
	if selection.Effective.ID != selection.SelectedID {
		if _, ok := shipping.Lookup(s.Tiers, selection.SelectedID); ok && obs.ShippingFallbackTotal != nil {
			obs.ShippingFallbackTotal.Inc()
		}
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

	if obs.CartRecomputeTotal != nil {
		obs.CartRecomputeTotal.WithLabelValues(trigger).Inc()
	}

	tiers := make([]TierView, 0, len(s.Tiers))
	for _, t := range s.Tiers {
		tiers = append(tiers, TierView{Tier: t, Eligible: t.Eligible(subtotal)})
	}

	view := View{
		ID:                id,
		Items:             items,
		Units:             state.Cart.Units(),
		SelectedShipping:  selection.SelectedID,
		EffectiveShipping: selection.Effective,
		Tiers:             tiers,
		Promo:             applied,
		Pricing:           totals.Rounded(),
		Currency:          s.Currency,
	}
	if totals.Discount.IsPositive() {
		view.Savings = money.Format(totals.Discount)
	}
	return view, nil
}
