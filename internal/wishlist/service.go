package wishlist

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-greenmart/internal/catalog"
)

// Service keeps each user's wishlist as a Redis set of product ids.
type Service struct {
	Client  *redis.Client
	Catalog *catalog.Service
}

func wishKey(userID string) string { return "wishlist:" + userID }

// Toggle adds the product when absent and removes it when present,
// returning whether the product is wishlisted afterwards.
func (s *Service) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	if _, err := s.Catalog.Get(productID); err != nil {
		return false, err
	}
	added, err := s.Client.SAdd(ctx, wishKey(userID), productID).Result()
	if err != nil {
		return false, fmt.Errorf("toggle wishlist: %w", err)
	}
	if added == 0 {
		if err := s.Client.SRem(ctx, wishKey(userID), productID).Err(); err != nil {
			return false, fmt.Errorf("toggle wishlist: %w", err)
		}
		return false, nil
	}
	return true, nil
}

// Contains reports whether the product is on the user's wishlist.
func (s *Service) Contains(ctx context.Context, userID, productID string) (bool, error) {
	return s.Client.SIsMember(ctx, wishKey(userID), productID).Result()
}

// List resolves the wishlisted ids against the catalog. Ids whose
// product has since disappeared are dropped silently.
func (s *Service) List(ctx context.Context, userID string) ([]catalog.Product, error) {
	ids, err := s.Client.SMembers(ctx, wishKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, err := s.Catalog.Get(id); err == nil {
			products = append(products, p)
		}
	}
	return products, nil
}
