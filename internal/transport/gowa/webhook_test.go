package gowa

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storebot_backend/internal/events"
	"storebot_backend/internal/session"
	"storebot_backend/internal/transport"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type capturingRouter struct {
	received []transport.Inbound
}

func (c *capturingRouter) HandleMessage(_ context.Context, in transport.Inbound) {
	c.received = append(c.received, in)
}

type rejectAllDeduper struct{}

func (rejectAllDeduper) FirstSeen(context.Context, string) bool { return false }

func newTestWebhook(t *testing.T, dedupe Deduper, secret string) (*WebhookHandler, *capturingRouter, *session.Tracker, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	tracker := session.New(filepath.Join(t.TempDir(), "auth_status.json"), log)
	router := &capturingRouter{}
	handler := NewWebhookHandler(router, dedupe, tracker, NewPairing(), events.NewInMemoryBus(log), validator.New(), secret, log)

	engine := gin.New()
	engine.POST("/webhook/message", handler.HandleMessage)
	engine.POST("/webhook/connection", handler.HandleConnection)
	return handler, router, tracker, engine
}

func postJSON(engine *gin.Engine, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestMessageWebhookDispatches(t *testing.T) {
	_, router, _, engine := newTestWebhook(t, nil, "")

	body := `{
		"messageId": "m1",
		"chatId": "123-456@g.us",
		"senderId": "628111@s.whatsapp.net",
		"text": "menu",
		"quoted": {"text": "1BSpo", "senderId": "628222@s.whatsapp.net"}
	}`
	w := postJSON(engine, "/webhook/message", body, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(router.received) != 1 {
		t.Fatalf("received = %d, want 1", len(router.received))
	}

	in := router.received[0]
	if in.MessageID != "m1" || in.ChatID != "123-456@g.us" || in.Text != "menu" {
		t.Fatalf("inbound = %+v", in)
	}
	if !in.HasQuote || in.QuotedText != "1BSpo" || in.QuotedSender != "628222@s.whatsapp.net" {
		t.Fatalf("quote not carried: %+v", in)
	}
}

func TestMessageWebhookRejectsInvalidBody(t *testing.T) {
	_, router, _, engine := newTestWebhook(t, nil, "")

	w := postJSON(engine, "/webhook/message", `{"text": "menu"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(router.received) != 0 {
		t.Fatal("invalid payload reached the router")
	}
}

func TestMessageWebhookDropsRedeliveries(t *testing.T) {
	_, router, _, engine := newTestWebhook(t, rejectAllDeduper{}, "")

	body := `{"messageId": "m1", "chatId": "123-456@g.us", "senderId": "628111@s.whatsapp.net", "text": "menu"}`
	w := postJSON(engine, "/webhook/message", body, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(router.received) != 0 {
		t.Fatal("redelivered message reached the router")
	}
}

func TestWebhookSecret(t *testing.T) {
	_, router, _, engine := newTestWebhook(t, nil, "s3cret")

	body := `{"messageId": "m1", "chatId": "123-456@g.us", "senderId": "628111@s.whatsapp.net", "text": "menu"}`

	w := postJSON(engine, "/webhook/message", body, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret: status = %d, want 401", w.Code)
	}

	w = postJSON(engine, "/webhook/message", body, map[string]string{"X-Webhook-Secret": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d, want 401", w.Code)
	}

	w = postJSON(engine, "/webhook/message", body, map[string]string{"X-Webhook-Secret": "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("correct secret: status = %d, want 200", w.Code)
	}
	if len(router.received) != 1 {
		t.Fatalf("received = %d, want 1", len(router.received))
	}
}

func TestConnectionLifecycle(t *testing.T) {
	handler, _, tracker, engine := newTestWebhook(t, nil, "")

	w := postJSON(engine, "/webhook/connection", `{"status": "connected"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !tracker.IsAuthenticated() {
		t.Fatal("connected event did not mark the session authenticated")
	}

	w = postJSON(engine, "/webhook/connection", `{"status": "logged_out"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if tracker.IsAuthenticated() {
		t.Fatal("logged_out event did not clear the session")
	}

	w = postJSON(engine, "/webhook/connection", `{"status": "qr", "qr": "pairing-payload"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	content, _, ok := handler.pairing.Current()
	if !ok || content != "pairing-payload" {
		t.Fatalf("pairing cache = %q, ok=%v", content, ok)
	}
}

func TestConnectedClearsPairing(t *testing.T) {
	handler, _, _, engine := newTestWebhook(t, nil, "")

	handler.pairing.Set("old-payload")
	postJSON(engine, "/webhook/connection", `{"status": "connected"}`, nil)

	if _, _, ok := handler.pairing.Current(); ok {
		t.Fatal("connect should drop the cached pairing QR")
	}
}
