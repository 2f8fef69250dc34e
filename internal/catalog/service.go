package catalog

import (
	"context"
	"errors"
	"slices"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

// ErrProductNotFound indicates the requested product is not in the catalog.
var ErrProductNotFound = errors.New("catalog: product not found")

// Product is a read-only catalog record.
type Product struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Price    money.Amount `json:"price"`
	ImageURL string       `json:"imageUrl"`
	Variants []string     `json:"variants,omitempty"`
}

// HasVariant reports whether the product declares the given variant.
// Every product accepts the empty variant.
func (p Product) HasVariant(variant string) bool {
	if variant == "" {
		return true
	}
	return slices.Contains(p.Variants, variant)
}

// ServiceConfig configures the catalog service.
type ServiceConfig struct {
	Products    []Product
	Recommended []Product
	Cache       *Cache
}

// Service serves catalog reads. Products are an in-process registry
// fronted by an optional Redis JSON cache for list endpoints.
type Service struct {
	products    []Product
	recommended []Product
	index       map[string]Product
	cache       *Cache
}

// NewService constructs a catalog service from the provided records.
func NewService(cfg ServiceConfig) (*Service, error) {
	if len(cfg.Products) == 0 {
		return nil, errors.New("catalog: at least one product is required")
	}
	index := make(map[string]Product, len(cfg.Products)+len(cfg.Recommended))
	for _, p := range cfg.Products {
		index[p.ID] = p
	}
	for _, p := range cfg.Recommended {
		if _, ok := index[p.ID]; !ok {
			index[p.ID] = p
		}
	}
	return &Service{
		products:    slices.Clone(cfg.Products),
		recommended: slices.Clone(cfg.Recommended),
		index:       index,
		cache:       cfg.Cache,
	}, nil
}

// Get returns the product with the given id. Recommended products are
// addressable too so they can be added to a cart.
func (s *Service) Get(id string) (Product, error) {
	p, ok := s.index[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// List returns all storefront products in catalog order.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	var cached []Product
	if ok, err := s.cache.GetJSON(ctx, "catalog:products", &cached); err == nil && ok {
		return cached, nil
	}
	out := slices.Clone(s.products)
	_ = s.cache.SetJSON(ctx, "catalog:products", out)
	return out, nil
}

// Recommended returns the cross-sell product list.
func (s *Service) Recommended(ctx context.Context) ([]Product, error) {
	var cached []Product
	if ok, err := s.cache.GetJSON(ctx, "catalog:recommended", &cached); err == nil && ok {
		return cached, nil
	}
	out := slices.Clone(s.recommended)
	_ = s.cache.SetJSON(ctx, "catalog:recommended", out)
	return out, nil
}
