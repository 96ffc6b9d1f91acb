// Package notification subscribes to domain events and performs their side
// effects: admin direct messages and alert-channel enqueues. Failures here
// are logged and never propagate back into the chat path that published the
// event.
package notification

import (
	"context"
	"fmt"
	"time"

	"storebot_backend/internal/alert"
	"storebot_backend/internal/events"
	"storebot_backend/internal/transport"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/phone"
)

// Module is the notification event subscriber.
type Module struct {
	sender   transport.Sender
	alerts   alert.Enqueuer
	adminJID string
	botName  string
	log      *logger.Logger
}

// New creates the notification module. sender and alerts may be nil; the
// corresponding side effects are then skipped.
func New(cfg config.BotConfig, log *logger.Logger) *Module {
	return &Module{
		adminJID: phone.UserJID(cfg.GetAdminNumber()),
		botName:  cfg.GetBotName(),
		log:      log,
	}
}

// SetSender injects the outbound transport for admin direct messages.
func (m *Module) SetSender(sender transport.Sender) {
	m.sender = sender
}

// SetAlertEnqueuer injects the alert side channel.
func (m *Module) SetAlertEnqueuer(alerts alert.Enqueuer) {
	m.alerts = alerts
}

// RegisterHandlers subscribes to the domain events this module reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.SessionConnected{}.EventName(), m)
	bus.Subscribe(events.SessionLoggedOut{}.EventName(), m)
	bus.Subscribe(events.MessageFailed{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.SessionConnected:
		return m.handleConnected(ctx, e)
	case events.SessionLoggedOut:
		return m.handleLoggedOut(ctx, e)
	case events.MessageFailed:
		return m.handleMessageFailed(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleConnected(ctx context.Context, e events.SessionConnected) error {
	if m.sender == nil {
		return nil
	}

	text := fmt.Sprintf("✅ *%s* terhubung!\n\nWaktu: %s",
		m.botName, e.OccurredAt().Format("2006-01-02 15:04:05"))
	if err := m.sender.SendText(ctx, m.adminJID, text, nil); err != nil {
		m.log.SendError(m.adminJID, err)
	}
	return nil
}

func (m *Module) handleLoggedOut(ctx context.Context, e events.SessionLoggedOut) error {
	if m.alerts == nil {
		return nil
	}

	return m.alerts.EnqueueAdminAlert(ctx, alert.AdminAlertPayload{
		Subject:    fmt.Sprintf("[%s] sesi gateway terputus", m.botName),
		Body:       "Sesi WhatsApp logout. Scan ulang QR pairing untuk menyambungkan kembali.",
		OccurredAt: e.OccurredAt(),
	})
}

func (m *Module) handleMessageFailed(ctx context.Context, e events.MessageFailed) error {
	m.log.Error("message handling failed",
		"chat", e.ChatID,
		"sender", e.SenderID,
		"command", e.Command,
		"reason", e.Reason,
	)

	if m.alerts == nil {
		return nil
	}

	occurred := e.OccurredAt()
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return m.alerts.EnqueueAdminAlert(ctx, alert.AdminAlertPayload{
		Subject:    fmt.Sprintf("[%s] perintah gagal diproses", m.botName),
		Body:       e.Reason,
		ChatID:     e.ChatID,
		SenderID:   e.SenderID,
		Command:    e.Command,
		OccurredAt: occurred,
	})
}
