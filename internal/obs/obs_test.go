package obs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSplitQueryName(t *testing.T) {
	name, stmt := splitQueryName("-- name: GetService :one\nSELECT id FROM services WHERE id = $1\n")
	require.Equal(t, "GetService", name)
	require.Equal(t, "SELECT id FROM services WHERE id = $1", stmt)

	name, stmt = splitQueryName("  select 1 ")
	require.Empty(t, name)
	require.Equal(t, "select 1", stmt)
}

func TestTruncateSQL(t *testing.T) {
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'a'
	}
	out := truncateSQL(string(long))
	require.Len(t, out, 303)
}

func TestParseBucketsCSV(t *testing.T) {
	require.Equal(t, []float64{5, 10.5}, ParseBucketsCSV("5, 10.5, -1, nope,"))
	require.Nil(t, ParseBucketsCSV(" "))
}

func TestDomainMetricsRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	MustRegisterDomainMetrics("turismo", registry)

	ObserveReviewMutation("create", "ok")
	ObserveAggregateRecompute("service", "ok")
	ObserveAggregateTxRetry()
	ObserveBookingsCreated(3)
	ObserveBookingTransition("confirmed")

	require.Equal(t, float64(1), testutil.ToFloat64(ReviewMutationsTotal.WithLabelValues("create", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(AggregateRecomputeTotal.WithLabelValues("service", "ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(AggregateTxRetriesTotal))
	require.Equal(t, float64(3), testutil.ToFloat64(BookingsCreatedTotal))
	require.Equal(t, float64(1), testutil.ToFloat64(BookingTransitionsTotal.WithLabelValues("confirmed")))
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	_, err = InitTracer(context.Background(), TracingConfig{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
}

func TestTracingNamesSpanAfterRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	r := chi.NewRouter()
	r.Use(Tracing)
	r.Get("/api/v1/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/42", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "GET /api/v1/bookings/{id}", spans[0].Name())
	require.Equal(t, codes.Error, spans[0].Status().Code)
}
