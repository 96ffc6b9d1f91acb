package alert

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"storebot_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// EmailSender delivers alert emails over the configured SMTP server.
type EmailSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	to        string
}

// NewEmailSender builds the SMTP delivery side. Returns nil when email
// delivery is disabled or not configured.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	if !cfg.IsEmailEnabled() || cfg.GetSMTPHost() == "" || cfg.GetAlertEmailTo() == "" {
		return nil
	}

	return &EmailSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		to:        cfg.GetAlertEmailTo(),
	}
}

// SendAlert delivers one alert email.
func (s *EmailSender) SendAlert(ctx context.Context, payload AdminAlertPayload) error {
	if s == nil {
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(payload.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, renderAlertBody(payload))

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func renderAlertBody(payload AdminAlertPayload) string {
	var b strings.Builder
	b.WriteString(payload.Body)
	b.WriteString("\n\n")
	if payload.ChatID != "" {
		fmt.Fprintf(&b, "Chat: %s\n", payload.ChatID)
	}
	if payload.SenderID != "" {
		fmt.Fprintf(&b, "Sender: %s\n", payload.SenderID)
	}
	if payload.Command != "" {
		fmt.Fprintf(&b, "Command: %s\n", payload.Command)
	}
	fmt.Fprintf(&b, "Occurred: %s\n", payload.OccurredAt.Format(time.RFC3339))
	return b.String()
}
