package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mycv/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMetrics_RecordOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.RecordOutcome("signin", service.AuthOutcomeInvalid)
	m.RecordOutcome("signin", service.AuthOutcomeInvalid)
	m.RecordOutcome("signup", service.AuthOutcomeSuccess)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Outcomes.WithLabelValues("signin", service.AuthOutcomeInvalid)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Outcomes.WithLabelValues("signup", service.AuthOutcomeSuccess)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.Outcomes.WithLabelValues("signin", service.AuthOutcomeSuccess)), 0)
}

func TestAuthMetrics_Derivations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAuthMetrics(reg)

	m.DerivationStarted()
	m.DerivationStarted()
	assert.InDelta(t, 2, testutil.ToFloat64(m.DerivationsActive), 0)

	m.ObserveDerivation(40 * time.Millisecond)
	m.DerivationFinished()
	assert.InDelta(t, 1, testutil.ToFloat64(m.DerivationsActive), 0)

	expected := `
# HELP mycv_auth_key_derivations_in_flight Key derivations currently holding a worker.
# TYPE mycv_auth_key_derivations_in_flight gauge
mycv_auth_key_derivations_in_flight 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mycv_auth_key_derivations_in_flight"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.DerivationSeconds))
}

func TestHTTPMetrics_Middleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/auth/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/reports", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "none")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for _, path := range []string{"/auth/1", "/auth/2", "/reports", "/health"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/auth/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/reports", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.InFlightGauge), 0)
}

func TestNewRegistry_ServesHandler(t *testing.T) {
	reg := NewRegistry()
	NewAuthMetrics(reg).RecordOutcome("signup", service.AuthOutcomeSuccess)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mycv_auth_operations_total{operation="signup",outcome="success"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
