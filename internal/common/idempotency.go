package common

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Idem deduplicates write requests by their Idempotency-Key header. The
// first request with a given key claims it in Redis for TTL; replays inside
// that window are rejected with 409.
type Idem struct {
	R   *redis.Client
	TTL time.Duration
}

// Middleware claims the request's idempotency key before passing it on.
// Requests without the header, or with no Redis client configured, pass
// through untouched.
func (i Idem) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" || i.R == nil {
			next.ServeHTTP(w, r)
			return
		}

		sum := sha256.Sum256([]byte(key))
		claimed, err := i.R.SetNX(r.Context(), "idem:"+hex.EncodeToString(sum[:]), "claimed", i.TTL).Result()
		if err != nil {
			JSONError(w, http.StatusInternalServerError, "INTERNAL", "idempotency store error", nil)
			return
		}
		if !claimed {
			JSONError(w, http.StatusConflict, "IDEMPOTENT_REPLAY", "duplicate request", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
