package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-greenmart/internal/money"
)

func newCatalog(t *testing.T, cache *Cache) *Service {
	t.Helper()
	svc, err := NewService(ServiceConfig{
		Products:    DefaultProducts(),
		Recommended: DefaultRecommended(),
		Cache:       cache,
	})
	require.NoError(t, err)
	return svc
}

func TestGetKnownProduct(t *testing.T) {
	svc := newCatalog(t, nil)
	p, err := svc.Get("item1")
	require.NoError(t, err)
	require.Equal(t, "Wireless Headphones", p.Name)
	require.True(t, p.Price.Equal(money.MustParse("199.99")))
}

func TestGetUnknownProduct(t *testing.T) {
	svc := newCatalog(t, nil)
	_, err := svc.Get("missing")
	require.True(t, errors.Is(err, ErrProductNotFound))
}

func TestRecommendedProductsAreAddressable(t *testing.T) {
	svc := newCatalog(t, nil)
	_, err := svc.Get("rec1")
	require.NoError(t, err)
}

func TestHasVariant(t *testing.T) {
	svc := newCatalog(t, nil)
	p, err := svc.Get("item1")
	require.NoError(t, err)

	require.True(t, p.HasVariant(""))
	require.True(t, p.HasVariant("Black"))
	require.False(t, p.HasVariant("Chartreuse"))
}

func TestListUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := newCatalog(t, NewCache(client, time.Minute))
	ctx := context.Background()

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	require.True(t, mr.Exists("catalog:products"))

	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, len(first), len(second))
}

func TestListWithoutCache(t *testing.T) {
	svc := newCatalog(t, nil)
	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
}

func TestNewServiceRequiresProducts(t *testing.T) {
	_, err := NewService(ServiceConfig{})
	require.Error(t, err)
}
