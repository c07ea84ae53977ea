package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-turismo/internal/health"
)

type readyBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func ready(t *testing.T, h health.Handler) (int, readyBody) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	var body readyBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestReadyWithRedisProbe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	h := health.Handler{
		Probes: map[string]health.Probe{
			"db":    func(context.Context) error { return nil },
			"redis": health.PingRedis(client),
		},
		Timeout: 200 * time.Millisecond,
	}
	code, body := ready(t, h)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body.Checks["redis"])

	mr.Close()
	code, body = ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "degraded", body.Status)
	require.Equal(t, "ok", body.Checks["db"])
	require.NotEqual(t, "ok", body.Checks["redis"])
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func TestReadyDBFailure(t *testing.T) {
	h := health.Handler{Probes: map[string]health.Probe{"db": health.PingDB(pinger{err: errors.New("db down")})}}
	code, body := ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "db down", body.Checks["db"])
}

func TestReadinessAfterShutdown(t *testing.T) {
	h := health.Handler{Probes: map[string]health.Probe{"db": health.PingDB(pinger{})}}
	t.Cleanup(func() { health.SetReady(true) })

	code, _ := ready(t, h)
	require.Equal(t, http.StatusOK, code)

	health.SetReady(false)
	code, body := ready(t, h)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "draining", body.Status)
}
