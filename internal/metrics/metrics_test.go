package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/products/:id/profit", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/products/1/profit", "/api/v1/products/2/profit", "/nope"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products/:id/profit", "200")); got != 2 {
		t.Fatalf("matched route count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Fatalf("unmatched count = %v, want 1", got)
	}
}

func TestCalculationAndSnapshotMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCalculation("total_costs")
	m.ObserveCalculation("total_costs")
	m.ObserveSnapshotLoad(20 * time.Millisecond)

	if got := testutil.ToFloat64(m.calculations.WithLabelValues("total_costs")); got != 2 {
		t.Fatalf("calculations = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "smallerp_snapshot_load_seconds_count 1") {
		t.Fatalf("exposition missing snapshot histogram:\n%s", rec.Body.String())
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveCalculation("x")
	m.ObserveSnapshotLoad(time.Second)
}
