package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-greenmart/internal/cart"
	"github.com/noah-isme/backend-greenmart/internal/money"
	"github.com/noah-isme/backend-greenmart/internal/session"
)

func newStore(t *testing.T) (*session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return &session.Store{Client: client, TTL: time.Hour, SnapshotTTL: 2 * time.Hour}, mr
}

func sampleCart() cart.Cart {
	return cart.New(
		cart.Item{ID: "item1", Name: "Wireless Headphones", UnitPrice: money.MustParse("199.99"), Quantity: 1},
		cart.Item{ID: "item2", Name: "Organic Cotton T-Shirt", UnitPrice: money.MustParse("29.99"), Quantity: 2, Variant: "Medium, Green"},
	)
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "abc", "standard")
	require.NoError(t, err)
	require.Equal(t, "standard", created.SelectedShipping)
	require.Zero(t, created.Cart.Len())

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, created.SelectedShipping, loaded.SelectedShipping)
}

func TestGetMissingSession(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestPutRoundTripsState(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	state := session.State{
		Cart:             sampleCart(),
		SelectedShipping: "free",
		PromoCode:        "GREEN10",
	}
	require.NoError(t, store.Put(ctx, "abc", state))

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "free", loaded.SelectedShipping)
	require.Equal(t, "GREEN10", loaded.PromoCode)
	require.Equal(t, 2, loaded.Cart.Len())
	require.True(t, loaded.Cart.Subtotal().Equal(money.MustParse("259.97")))
}

func TestPutRefreshesTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", session.State{SelectedShipping: "standard"}))
	mr.FastForward(30 * time.Minute)
	require.NoError(t, store.Put(ctx, "abc", session.State{SelectedShipping: "express"}))
	mr.FastForward(45 * time.Minute)

	loaded, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "express", loaded.SelectedShipping)
}

func TestSessionExpires(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", session.State{SelectedShipping: "standard"}))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "abc", session.State{}))
	require.NoError(t, store.Delete(ctx, "abc"))
	_, err := store.Get(ctx, "abc")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSnapshotRoundTrip(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, "user-1", sampleCart()))

	restored, ok, err := store.LoadSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, restored.Len())
	require.True(t, restored.Subtotal().Equal(money.MustParse("259.97")))
}

func TestSnapshotMissing(t *testing.T) {
	store, _ := newStore(t)
	_, ok, err := store.LoadSnapshot(context.Background(), "user-1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSnapshotStoredAsBareArray(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, "user-1", sampleCart()))

	raw, err := mr.Get("savedCart:user-1")
	require.NoError(t, err)

	var lines []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	require.Len(t, lines, 2)
	require.Equal(t, "item1", lines[0]["id"])
}

func TestSnapshotReplacedOnSave(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSnapshot(ctx, "user-1", sampleCart()))
	single := cart.New(cart.Item{ID: "item3", UnitPrice: money.MustParse("24.50"), Quantity: 1})
	require.NoError(t, store.SaveSnapshot(ctx, "user-1", single))

	restored, ok, err := store.LoadSnapshot(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, restored.Len())
	require.Equal(t, "item3", restored.Items()[0].ID)
}

func TestStoreNotConfigured(t *testing.T) {
	var store *session.Store
	_, err := store.Get(context.Background(), "abc")
	require.Error(t, err)
	require.False(t, errors.Is(err, session.ErrNotFound))
}
