package obs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsUseChiRoute(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("turismo", []float64{10, 1}, registry)

	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/v1/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/services/abc", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	require.Equal(t, float64(1), testutil.ToFloat64(metrics.Requests.WithLabelValues(http.MethodGet, "/api/v1/services/{id}", "204")))
	require.Equal(t, 1, testutil.CollectAndCount(metrics.Duration))
	require.Equal(t, float64(0), testutil.ToFloat64(metrics.InFlight))

	again := NewHTTPMetrics("turismo", nil, registry)
	require.Same(t, metrics.Requests, again.Requests)
}

func TestRequestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "debug")
	handler := RequestLogger{Logger: logger}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/confirm", nil)
	req = req.WithContext(WithRoutePattern(req.Context(), "/api/v1/cart/confirm"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "warn", line["level"])
	require.Equal(t, "/api/v1/cart/confirm", line["route"])
	require.Equal(t, float64(http.StatusConflict), line["status"])
	require.Equal(t, "turismo-api", line["service"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "json", "loud")
	logger.Debug().Msg("hidden")
	require.Zero(t, buf.Len())
	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}
