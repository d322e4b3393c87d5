package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resort-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength = 128
	idempotencyLockTTL      = 30 * time.Second
)

// StoredResponse is what gets replayed for a repeated Idempotency-Key.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore keeps finished responses and an in-flight marker per key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

type redisIdempotencyStore struct {
	client *redis.Client
}

func NewRedisIdempotencyStore(client *redis.Client) IdempotencyStore {
	return &redisIdempotencyStore{client: client}
}

func (s *redisIdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	var resp StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode stored response %s: %w", key, err)
	}
	return &resp, nil
}

func (s *redisIdempotencyStore) Save(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode stored response %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *redisIdempotencyStore) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key+":lock", "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

func (s *redisIdempotencyStore) Unlock(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key+":lock").Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// recorder buffers the handler output so it can be stored after the fact.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the first response for a repeated Idempotency-Key from
// the same user. Requests without the header pass through. A nil store
// disables the middleware. Server errors are not stored, so a 5xx can be
// retried with the same key.
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(IdempotencyKeyHeader)
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(clientKey) > maxIdempotencyKeyLength {
				utils.ResponseBadRequest(w, "Idempotency-Key is too long", nil)
				return
			}

			userID, _ := utils.GetUserIDFromContext(r.Context())
			key := fmt.Sprintf("idempotency:%s:%s:%s:%s", userID, r.Method, r.URL.Path, clientKey)
			ctx := r.Context()

			stored, err := store.Get(ctx, key)
			if err != nil {
				// the store is an optimisation; serve the request without it
				logger.Warn("Idempotency lookup failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if stored != nil {
				replay(w, stored)
				return
			}

			locked, err := store.Lock(ctx, key, idempotencyLockTTL)
			if err != nil {
				logger.Warn("Idempotency lock failed", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !locked {
				utils.ResponseError(w, http.StatusConflict, "REQUEST_IN_PROGRESS",
					"A request with this Idempotency-Key is still being processed", nil)
				return
			}
			defer func() {
				if err := store.Unlock(context.WithoutCancel(ctx), key); err != nil {
					logger.Warn("Idempotency unlock failed", zap.Error(err))
				}
			}()

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status == 0 || rec.status >= http.StatusInternalServerError {
				return
			}
			resp := &StoredResponse{
				Status:      rec.status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if err := store.Save(context.WithoutCancel(ctx), key, resp, ttl); err != nil {
				logger.Warn("Idempotency save failed", zap.Error(err))
			}
		})
	}
}

func replay(w http.ResponseWriter, stored *StoredResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}
