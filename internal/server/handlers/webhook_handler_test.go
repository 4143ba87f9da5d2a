package handlers

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

type stubMessaging struct {
	verifyErr error
	handleErr error
	handled   int
}

func (s *stubMessaging) VerifyWebhookToken(_, _, challenge string) (string, error) {
	return challenge, s.verifyErr
}

func (s *stubMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	s.handled++
	return s.handleErr
}

const testAppSecret = "app-secret"

func webhookEngine(svc *stubMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(svc, testAppSecret, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	return r
}

func TestWebhookVerify(t *testing.T) {
	rec := httptest.NewRecorder()
	webhookEngine(&stubMessaging{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=t&hub.challenge=abc", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "abc" {
		t.Fatalf("verify = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	webhookEngine(&stubMessaging{verifyErr: errors.New("invalid verify token")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("verify failure = %d, want 403", rec.Code)
	}
}

func signedRequest(secret, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+hex.EncodeToString(Sign([]byte(secret), []byte(body))))
	}
	return req
}

const emptyCallback = `{"object":"whatsapp_business_account","entry":[]}`

func TestWebhookReceiveAcknowledgesFailures(t *testing.T) {
	svc := &stubMessaging{handleErr: errors.New("send failed")}
	r := webhookEngine(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedRequest(testAppSecret, emptyCallback))
	if rec.Code != http.StatusOK || svc.handled != 1 {
		t.Fatalf("receive = %d, handled %d", rec.Code, svc.handled)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, signedRequest(testAppSecret, `not json`))
	if rec.Code != http.StatusBadRequest || svc.handled != 1 {
		t.Fatalf("malformed payload = %d, handled %d", rec.Code, svc.handled)
	}
}

func TestWebhookReceiveRejectsBadSignatures(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"unsigned", ""},
		{"wrong secret", "sha256=" + hex.EncodeToString(Sign([]byte("guess"), []byte(emptyCallback)))},
		{"missing prefix", hex.EncodeToString(Sign([]byte(testAppSecret), []byte(emptyCallback)))},
		{"not hex", "sha256=zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubMessaging{}
			req := signedRequest("", emptyCallback)
			if tt.header != "" {
				req.Header.Set(SignatureHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			webhookEngine(svc).ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized || svc.handled != 0 {
				t.Fatalf("receive = %d, handled %d, want 401 and nothing handled", rec.Code, svc.handled)
			}
		})
	}
}

func TestWebhookReceiveWithoutAppSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubMessaging{}
	h := NewWebhookHandler(svc, "", nil)
	r := gin.New()
	r.POST("/webhook", h.Receive)

	// Signed with the empty key: still refused.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(emptyCallback))
	req.Header.Set(SignatureHeader, "sha256="+hex.EncodeToString(Sign(nil, []byte(emptyCallback))))
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || svc.handled != 0 {
		t.Fatalf("receive = %d, handled %d", rec.Code, svc.handled)
	}
}
