package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-greenmart/internal/cart"
	"github.com/noah-isme/backend-greenmart/internal/catalog"
	"github.com/noah-isme/backend-greenmart/internal/money"
	"github.com/noah-isme/backend-greenmart/internal/session"
)

// Seeds a demo cart session so a fresh environment has something to
// poke at: one headphones line, two t-shirts, one water bottle.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Fatal("REDIS_URL is not set")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	store := &session.Store{Client: client}

	cartID := envOrDefault("SEED_CART_ID", "demo")
	products := catalog.DefaultProducts()
	lines := []struct {
		idx     int
		qty     int
		variant string
	}{
		{idx: 0, qty: 1, variant: "Black"},
		{idx: 1, qty: 2, variant: "Medium, Green"},
		{idx: 2, qty: 1},
	}

	demo := cart.New()
	for _, l := range lines {
		p := products[l.idx]
		demo = demo.Merge(cart.Item{
			ID:        p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  l.qty,
			ImageURL:  p.ImageURL,
			Variant:   l.variant,
		})
	}

	state := session.State{Cart: demo, SelectedShipping: "standard"}
	if err := store.Put(ctx, cartID, state); err != nil {
		log.Fatalf("seed cart: %v", err)
	}

	log.Printf("seeded cart %q: %d lines, subtotal %s", cartID, demo.Len(), money.Format(demo.Subtotal()))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
