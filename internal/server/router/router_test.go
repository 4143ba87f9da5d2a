package router

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/metrics"
	"github.com/mamadbah2/smallerp/internal/repository/memory"
	"github.com/mamadbah2/smallerp/internal/server/handlers"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
	"github.com/mamadbah2/smallerp/internal/service/commands"
	whatsappsvc "github.com/mamadbah2/smallerp/internal/service/whatsapp"
)

var analysisConfig = config.AnalysisConfig{Currency: "USD", ProrationDivisor: 30, AllocationPolicy: "units"}

func newTestRouter(t *testing.T, store analysis.Store, m *metrics.Metrics) http.Handler {
	t.Helper()
	svc, err := analysis.NewService(store, analysisConfig, m, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return New(handlers.NewAnalysisHandler(svc, time.UTC, "USD", nil), nil, m, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestStatusCodes(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"health", "/healthz", http.StatusOK},
		{"costs", "/api/v1/costs?start=2024-12-01&end=2024-12-31", http.StatusOK},
		{"costs rfc3339", "/api/v1/costs?start=2024-12-01T00:00:00Z&end=2024-12-15T12:00:00Z", http.StatusOK},
		{"inverted period", "/api/v1/costs?start=2024-12-31&end=2024-12-01", http.StatusBadRequest},
		{"half period", "/api/v1/revenue?start=2024-12-01", http.StatusBadRequest},
		{"malformed date", "/api/v1/portfolio?start=yesterday&end=2024-12-01", http.StatusBadRequest},
		{"unknown product", "/api/v1/products/99/profit?start=2024-12-01&end=2024-12-31", http.StatusNotFound},
		{"bad product id", "/api/v1/products/abc/cost", http.StatusBadRequest},
		{"product margin", "/api/v1/products/1/margin?month=2024-12", http.StatusOK},
		{"bad month", "/api/v1/overhead?month=2024-13", http.StatusBadRequest},
		{"owner shares", "/api/v1/owners/profit-shares?month=2024-12", http.StatusOK},
		{"owner shares period", "/api/v1/owners/profit-shares/period?start=2024-12-01&end=2024-12-31", http.StatusOK},
		{"bad as_of", "/api/v1/bills/status?month=2024-12&as_of=soon", http.StatusBadRequest},
		{"bad trend length", "/api/v1/trends?end=2024-12&months=0", http.StatusBadRequest},
		{"unknown route", "/api/v1/nope", http.StatusNotFound},
		{"webhook disabled", "/webhook?hub.mode=subscribe", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, r, tt.target)
			if rec.Code != tt.want {
				t.Fatalf("GET %s = %d, want %d: %s", tt.target, rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRevenueBody(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	body := decode(t, get(t, r, "/api/v1/revenue?start=2024-12-01&end=2024-12-31"))
	if body["total_revenue"] != "678" || body["total_orders"] != float64(8) {
		t.Fatalf("body = %v", body)
	}
}

func TestOverheadAndBills(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	overhead := decode(t, get(t, r, "/api/v1/overhead?month=2024-12"))
	if overhead["total"] != "11650" {
		t.Fatalf("overhead = %v", overhead)
	}

	bills := decode(t, get(t, r, "/api/v1/bills/status?month=2024-12&as_of=2024-12-31"))
	summary, ok := bills["summary"].(map[string]any)
	if !ok || summary["paid"] != float64(3) || summary["overdue"] != float64(2) {
		t.Fatalf("bills = %v", bills)
	}
}

func TestTrends(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	body := decode(t, get(t, r, "/api/v1/trends?end=2024-12&months=3"))
	points, ok := body["points"].([]any)
	if !ok || len(points) != 3 {
		t.Fatalf("trends = %v", body)
	}
}

func TestExportServesWorkbook(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	rec := get(t, r, "/api/v1/reports/export?start=2024-12-01&end=2024-12-31")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "report_20241201_20241231.xlsx") {
		t.Fatalf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	// xlsx files are zip archives.
	if !strings.HasPrefix(rec.Body.String(), "PK") {
		t.Fatalf("body is not a zip archive")
	}
}

func TestValidationEndpoint(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), nil)

	body := decode(t, get(t, r, "/api/v1/validation"))
	if body["valid"] != true {
		t.Fatalf("validation = %v", body)
	}
}

type brokenStore struct{}

func (brokenStore) Snapshot(context.Context) (engine.Snapshot, error) {
	return engine.Snapshot{}, errors.New("connection refused")
}

func TestStoreFailureIs500(t *testing.T) {
	r := newTestRouter(t, brokenStore{}, nil)

	rec := get(t, r, "/api/v1/costs?start=2024-12-01&end=2024-12-31")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("internal error leaked to client: %s", rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, memory.NewDemo(), metrics.New(prometheus.NewRegistry()))

	get(t, r, "/api/v1/revenue?start=2024-12-01&end=2024-12-31")
	rec := get(t, r, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{
		`smallerp_http_requests_total{method="GET",route="/api/v1/revenue",status="200"} 1`,
		`smallerp_calculations_total{operation="total_revenue"} 1`,
	} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("metrics missing %s", want)
		}
	}
}

type captureSender struct{ to, body string }

func (c *captureSender) SendText(_ context.Context, to, body string) (string, error) {
	c.to, c.body = to, body
	return "wamid.out", nil
}

func TestWebhookRoutes(t *testing.T) {
	svc, err := analysis.NewService(memory.NewDemo(), analysisConfig, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	sender := &captureSender{}
	messaging := whatsappsvc.NewMetaWhatsAppService(
		config.WhatsAppConfig{VerifyToken: "secret"},
		sender,
		commands.NewService(svc, "USD", time.UTC, nil),
		nil,
	)
	r := New(handlers.NewAnalysisHandler(svc, time.UTC, "USD", nil), handlers.NewWebhookHandler(messaging, "app-secret", nil), nil, nil)

	rec := get(t, r, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42")
	if rec.Code != http.StatusOK || rec.Body.String() != "42" {
		t.Fatalf("verify = %d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, r, "/webhook?hub.mode=subscribe&hub.verify_token=nope&hub.challenge=42"); rec.Code != http.StatusForbidden {
		t.Fatalf("bad token = %d, want 403", rec.Code)
	}

	post := func(body, secret string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if secret != "" {
			req.Header.Set(handlers.SignatureHeader, "sha256="+hex.EncodeToString(handlers.Sign([]byte(secret), []byte(body))))
		}
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := post("{", "app-secret"); rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed payload = %d, want 400", rec.Code)
	}

	payload := `{"object":"whatsapp_business_account","entry":[{"id":"1","changes":[{"field":"messages","value":{
		"messaging_product":"whatsapp",
		"messages":[{"from":"224600000001","id":"wamid.in","type":"text","text":{"body":"/revenue 2024-12"}}]}}]}]}`

	for _, secret := range []string{"", "forged"} {
		if rec := post(payload, secret); rec.Code != http.StatusUnauthorized {
			t.Fatalf("callback signed with %q = %d, want 401", secret, rec.Code)
		}
	}
	if sender.to != "" {
		t.Fatalf("unsigned callback got a reply: %+v", sender)
	}

	if rec := post(payload, "app-secret"); rec.Code != http.StatusOK {
		t.Fatalf("receive = %d: %s", rec.Code, rec.Body.String())
	}
	if sender.to != "224600000001" || !strings.Contains(sender.body, "$678.00 from 8 orders") {
		t.Fatalf("reply = %+v", sender)
	}
}
