package gowa

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"time"

	"storebot_backend/internal/events"
	"storebot_backend/internal/session"
	"storebot_backend/internal/transport"
	"storebot_backend/platform/httpkit"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/qr"
	"storebot_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// MessageHandler consumes one inbound message. Implemented by the bot router.
type MessageHandler interface {
	HandleMessage(ctx context.Context, in transport.Inbound)
}

// Deduper records processed message IDs. FirstSeen reports whether the ID has
// not been seen before; redelivered IDs return false.
type Deduper interface {
	FirstSeen(ctx context.Context, messageID string) bool
}

// messageEventRequest is the gateway's inbound message webhook payload.
type messageEventRequest struct {
	MessageID string `json:"messageId" validate:"required"`
	ChatID    string `json:"chatId" validate:"required"`
	SenderID  string `json:"senderId" validate:"required"`
	Text      string `json:"text"`
	FromMe    bool   `json:"fromMe"`
	Quoted    *struct {
		Text     string `json:"text"`
		SenderID string `json:"senderId"`
	} `json:"quoted"`
}

// connectionEventRequest is the gateway's connection lifecycle payload.
type connectionEventRequest struct {
	Status string `json:"status" validate:"required,oneof=connected logged_out qr"`
	QR     string `json:"qr"`
}

// WebhookHandler receives gateway events over HTTP.
type WebhookHandler struct {
	router  MessageHandler
	dedupe  Deduper
	tracker *session.Tracker
	pairing *Pairing
	bus     events.Bus
	val     *validator.Validator
	secret  string
	log     *logger.Logger
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(router MessageHandler, dedupe Deduper, tracker *session.Tracker, pairing *Pairing, bus events.Bus, val *validator.Validator, secret string, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		router:  router,
		dedupe:  dedupe,
		tracker: tracker,
		pairing: pairing,
		bus:     bus,
		val:     val,
		secret:  secret,
		log:     log,
	}
}

// HandleMessage processes an inbound message event.
// POST /api/v1/webhook/message
func (h *WebhookHandler) HandleMessage(c *gin.Context) {
	if !h.checkSecret(c) {
		return
	}

	var req messageEventRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if h.dedupe != nil && !h.dedupe.FirstSeen(c.Request.Context(), req.MessageID) {
		c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
		return
	}

	in := transport.Inbound{
		MessageID: req.MessageID,
		ChatID:    req.ChatID,
		SenderID:  req.SenderID,
		Text:      req.Text,
		FromMe:    req.FromMe,
	}
	if req.Quoted != nil {
		in.HasQuote = true
		in.QuotedText = req.Quoted.Text
		in.QuotedSender = req.Quoted.SenderID
	}

	h.router.HandleMessage(c.Request.Context(), in)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleConnection processes a connection lifecycle event.
// POST /api/v1/webhook/connection
func (h *WebhookHandler) HandleConnection(c *gin.Context) {
	if !h.checkSecret(c) {
		return
	}

	var req connectionEventRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	ctx := c.Request.Context()
	switch req.Status {
	case "connected":
		h.tracker.MarkAuthenticated(time.Now())
		h.pairing.Clear()
		h.log.Info("gateway session connected")
		h.bus.Publish(ctx, events.SessionConnected{BaseEvent: events.NewBaseEvent()})
	case "logged_out":
		h.tracker.MarkUnauthenticated()
		h.log.Warn("gateway session logged out")
		h.bus.Publish(ctx, events.SessionLoggedOut{BaseEvent: events.NewBaseEvent()})
	case "qr":
		h.handleQR(req.QR)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleQR caches the pairing payload and, while unauthenticated, renders it
// to the terminal for a headless pairing flow.
func (h *WebhookHandler) handleQR(content string) {
	if content == "" {
		return
	}
	h.pairing.Set(content)

	if h.tracker.IsAuthenticated() {
		return
	}
	rendered, err := qr.Terminal(content)
	if err != nil {
		h.log.Error("render pairing qr", "error", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Scan untuk pairing:")
	fmt.Fprintln(os.Stdout, rendered)
}

func (h *WebhookHandler) checkSecret(c *gin.Context) bool {
	if h.secret == "" {
		return true
	}
	provided := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.secret)) != 1 {
		httpkit.Error(c, http.StatusUnauthorized, "invalid webhook secret", nil)
		c.Abort()
		return false
	}
	return true
}

func (h *WebhookHandler) bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation error", err.Error())
		return false
	}
	return true
}
