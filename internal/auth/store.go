package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmailTaken   = errors.New("auth: email already registered")
	ErrUserNotFound = errors.New("auth: user not found")
)

// User is the stored account record. PasswordHash is an argon2id
// encoded hash and never leaves this package.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store keeps accounts in Redis: one JSON record per user plus an
// email index key pointing at the id.
type Store struct {
	Client *redis.Client
}

func userKey(id string) string    { return "user:id:" + id }
func emailKey(email string) string { return "user:email:" + strings.ToLower(strings.TrimSpace(email)) }

// Create persists a new user. The email index is claimed with SETNX so
// concurrent registrations for one address cannot both succeed.
func (s *Store) Create(ctx context.Context, u User) error {
	claimed, err := s.Client.SetNX(ctx, emailKey(u.Email), u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("claim email index: %w", err)
	}
	if !claimed {
		return ErrEmailTaken
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, userKey(u.ID), raw, 0).Err(); err != nil {
		// roll the index back so the address is not orphaned
		_ = s.Client.Del(ctx, emailKey(u.Email)).Err()
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// ByID loads a user record.
func (s *Store) ByID(ctx context.Context, id string) (User, error) {
	raw, err := s.Client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

// ByEmail resolves the email index then loads the record.
func (s *Store) ByEmail(ctx context.Context, email string) (User, error) {
	id, err := s.Client.Get(ctx, emailKey(email)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return s.ByID(ctx, id)
}
