package common

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	pendingMarker     = "pending"
)

// Idempotency replays the stored response of a write request sent again with
// the same Idempotency-Key. Keys are scoped to the caller and route.
type Idempotency struct {
	Client redis.Cmdable
	TTL    time.Duration
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

func idempotencyKey(r *http.Request, key string) string {
	userID, _ := UserID(r.Context())
	sum := sha256.Sum256([]byte(userID + "|" + r.Method + "|" + r.URL.Path + "|" + key))
	return "idem:" + hex.EncodeToString(sum[:])
}

// Middleware enforces idempotency for the wrapped handler. Responses with a
// 5xx status are not stored so the client may retry with the same key.
func (i Idempotency) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(idempotencyHeader)
		if header == "" || i.Client == nil {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := idempotencyKey(r, header)
		claimed, err := i.Client.SetNX(ctx, key, pendingMarker, i.TTL).Result()
		if err != nil {
			JSONError(w, http.StatusServiceUnavailable, "IDEMPOTENCY_UNAVAILABLE", "idempotency store unavailable", nil)
			return
		}
		if !claimed {
			i.replay(ctx, w, key)
			return
		}

		rec := &capturingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// the request context may already be cancelled once the client is gone
		bg := context.WithoutCancel(ctx)
		if rec.status >= http.StatusInternalServerError {
			_ = i.Client.Del(bg, key).Err()
			return
		}
		payload, err := json.Marshal(storedResponse{
			Status:      rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err != nil {
			_ = i.Client.Del(bg, key).Err()
			return
		}
		_ = i.Client.Set(bg, key, payload, i.TTL).Err()
	})
}

func (i Idempotency) replay(ctx context.Context, w http.ResponseWriter, key string) {
	raw, err := i.Client.Get(ctx, key).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		JSONError(w, http.StatusServiceUnavailable, "IDEMPOTENCY_UNAVAILABLE", "idempotency store unavailable", nil)
		return
	}
	var stored storedResponse
	if err != nil || string(raw) == pendingMarker || json.Unmarshal(raw, &stored) != nil {
		JSONError(w, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "a request with this Idempotency-Key is still being processed", nil)
		return
	}
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

type capturingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *capturingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *capturingWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}
