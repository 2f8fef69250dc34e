package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-greenmart/internal/cart"
)

// ErrNotFound indicates the requested cart session could not be located.
var ErrNotFound = errors.New("session: cart not found")

// State is the stored per-session cart state: the line items plus the
// user's declared shipping selection and applied promo code. Totals are
// never stored; they are rederived on every read.
type State struct {
	Cart             cart.Cart `json:"items"`
	SelectedShipping string    `json:"selectedShipping"`
	PromoCode        string    `json:"promoCode,omitempty"`
}

// Store persists cart sessions and saved-cart snapshots in Redis.
// Sessions expire after the configured TTL and are touched on every
// mutation. Snapshots are best-effort: losing one loses nothing but a
// convenience.
type Store struct {
	Client      *redis.Client
	TTL         time.Duration
	SnapshotTTL time.Duration
	Now         func() time.Time
}

func (s *Store) ttl() time.Duration {
	if s == nil || s.TTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return s.TTL
}

func (s *Store) snapshotTTL() time.Duration {
	if s == nil || s.SnapshotTTL <= 0 {
		return 30 * 24 * time.Hour
	}
	return s.SnapshotTTL
}

func cartKey(id string) string {
	return "cart:" + id
}

func snapshotKey(owner string) string {
	return "savedCart:" + owner
}

// Create initialises an empty session with the default shipping
// selection and returns its state.
func (s *Store) Create(ctx context.Context, id, defaultShipping string) (State, error) {
	state := State{SelectedShipping: defaultShipping}
	if err := s.Put(ctx, id, state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Get loads a session's state.
func (s *Store) Get(ctx context.Context, id string) (State, error) {
	if s == nil || s.Client == nil {
		return State{}, errors.New("session store not configured")
	}
	data, err := s.Client.Get(ctx, cartKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("load cart session: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("decode cart session: %w", err)
	}
	return state, nil
}

// Put replaces a session's state in full and refreshes its TTL. The
// caller hands over a complete new value; nothing is merged in place.
func (s *Store) Put(ctx context.Context, id string, state State) error {
	if s == nil || s.Client == nil {
		return errors.New("session store not configured")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart session: %w", err)
	}
	return s.Client.Set(ctx, cartKey(id), data, s.ttl()).Err()
}

// Delete discards a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s == nil || s.Client == nil {
		return errors.New("session store not configured")
	}
	return s.Client.Del(ctx, cartKey(id)).Err()
}

// SaveSnapshot writes the owner's saved-cart entry: a plain JSON array
// of line items, replacing any previous snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, owner string, c cart.Cart) error {
	if s == nil || s.Client == nil {
		return errors.New("session store not configured")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.Client.Set(ctx, snapshotKey(owner), data, s.snapshotTTL()).Err()
}

// LoadSnapshot reads the owner's saved cart. It reports whether a
// snapshot existed.
func (s *Store) LoadSnapshot(ctx context.Context, owner string) (cart.Cart, bool, error) {
	if s == nil || s.Client == nil {
		return cart.Cart{}, false, errors.New("session store not configured")
	}
	data, err := s.Client.Get(ctx, snapshotKey(owner)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.Cart{}, false, nil
		}
		return cart.Cart{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return cart.Cart{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return c, true, nil
}
