package gowa

import (
	"net/http"
	"time"

	"storebot_backend/internal/events"
	apphttp "storebot_backend/internal/http"
	"storebot_backend/internal/session"
	"storebot_backend/platform/config"
	"storebot_backend/platform/httpkit"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/qr"
	"storebot_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const pairingPNGSize = 512

// Module is the gateway bounded context: the outbound client, the inbound
// webhook, and the session/pairing admin endpoints.
type Module struct {
	client  *Client
	webhook *WebhookHandler
	tracker *session.Tracker
	pairing *Pairing
}

// NewModule creates and wires the gateway module. router may be set later via
// SetMessageHandler to break the construction cycle with the bot router.
func NewModule(cfg config.GatewayConfig, dedupe Deduper, tracker *session.Tracker, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	pairing := NewPairing()
	m := &Module{
		client:  NewClient(cfg, log),
		tracker: tracker,
		pairing: pairing,
	}
	m.webhook = NewWebhookHandler(nil, dedupe, tracker, pairing, bus, val, cfg.GetWebhookSecret(), log)
	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "gateway"
}

// Client returns the outbound sender. Nil when no gateway is configured.
func (m *Module) Client() *Client {
	return m.client
}

// SetMessageHandler injects the inbound message consumer.
func (m *Module) SetMessageHandler(router MessageHandler) {
	m.webhook.router = router
}

// RegisterRoutes mounts the webhook and session endpoints.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	webhook := ctx.V1.Group("/webhook")
	webhook.POST("/message", m.webhook.HandleMessage)
	webhook.POST("/connection", m.webhook.HandleConnection)

	ctx.Protected.GET("/session/status", m.handleSessionStatus)
	ctx.Protected.GET("/session/qr", m.handlePairingQR)
}

// handleSessionStatus reports the tracked auth status.
// GET /api/v1/session/status
func (m *Module) handleSessionStatus(c *gin.Context) {
	status := m.tracker.Current()
	httpkit.OK(c, gin.H{
		"isAuthenticated": status.IsAuthenticated,
		"lastAuth":        status.LastAuth,
	})
}

// handlePairingQR serves the latest pairing QR as a PNG.
// GET /api/v1/session/qr
func (m *Module) handlePairingQR(c *gin.Context) {
	content, updatedAt, ok := m.pairing.Current()
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "no pairing QR available", nil)
		return
	}

	png, err := qr.PNG(content, pairingPNGSize)
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to render QR", nil)
		return
	}

	c.Header("X-QR-Updated-At", updatedAt.UTC().Format(time.RFC3339))
	c.Data(http.StatusOK, "image/png", png)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
