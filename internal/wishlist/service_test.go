package wishlist

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-greenmart/internal/catalog"
)

func newWishlist(t *testing.T) *Service {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cat, err := catalog.NewService(catalog.ServiceConfig{
		Products:    catalog.DefaultProducts(),
		Recommended: catalog.DefaultRecommended(),
	})
	require.NoError(t, err)

	return &Service{Client: client, Catalog: cat}
}

func TestToggleFlipsMembership(t *testing.T) {
	svc := newWishlist(t)
	ctx := context.Background()

	on, err := svc.Toggle(ctx, "user-1", "item1")
	require.NoError(t, err)
	require.True(t, on)

	contains, err := svc.Contains(ctx, "user-1", "item1")
	require.NoError(t, err)
	require.True(t, contains)

	off, err := svc.Toggle(ctx, "user-1", "item1")
	require.NoError(t, err)
	require.False(t, off)

	contains, err = svc.Contains(ctx, "user-1", "item1")
	require.NoError(t, err)
	require.False(t, contains)
}

func TestToggleUnknownProduct(t *testing.T) {
	svc := newWishlist(t)
	_, err := svc.Toggle(context.Background(), "user-1", "missing")
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
}

func TestListResolvesProducts(t *testing.T) {
	svc := newWishlist(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", "item1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "user-1", "rec2")
	require.NoError(t, err)

	products, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, products, 2)

	ids := map[string]bool{}
	for _, p := range products {
		ids[p.ID] = true
	}
	require.True(t, ids["item1"] && ids["rec2"])
}

func TestListsAreIsolatedPerUser(t *testing.T) {
	svc := newWishlist(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "user-1", "item1")
	require.NoError(t, err)

	products, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	require.Empty(t, products)
}
