package order

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"storebot_backend/internal/catalog/repository"
	"storebot_backend/internal/events"
	"storebot_backend/platform/apperr"
	"storebot_backend/platform/logger"
)

const (
	testAdminNumber = "+6281234567890"
	testChatID      = "123456-7890@g.us"
	testCustomerJID = "6289876543210@s.whatsapp.net"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := logger.New("development")
	repo := repository.NewFile(filepath.Join(t.TempDir(), "products.json"), log)
	return New(repo, events.NewInMemoryBus(log), log, testAdminNumber)
}

func TestOrderByVariant(t *testing.T) {
	svc := newTestService(t)

	replies, err := svc.OrderByVariant(context.Background(), testChatID, "1BSpo", testCustomerJID)
	if err != nil {
		t.Fatalf("OrderByVariant: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("replies = %d, want acknowledgement plus admin alert", len(replies))
	}

	ack := replies[0]
	for _, want := range []string{"Spotify", "1BSpo", "Rp50.000"} {
		if !strings.Contains(ack.Text, want) {
			t.Fatalf("acknowledgement missing %q:\n%s", want, ack.Text)
		}
	}
	if len(ack.Mentions) != 0 {
		t.Fatalf("acknowledgement should not mention anyone: %v", ack.Mentions)
	}

	alert := replies[1]
	if !strings.Contains(alert.Text, "@6281234567890") {
		t.Fatalf("admin alert does not tag the admin:\n%s", alert.Text)
	}
	if !strings.Contains(alert.Text, "@6289876543210") {
		t.Fatalf("admin alert does not tag the customer:\n%s", alert.Text)
	}
	if len(alert.Mentions) != 2 {
		t.Fatalf("alert mentions = %v, want admin and customer", alert.Mentions)
	}
}

func TestOrderByVariantUnknownCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.OrderByVariant(context.Background(), testChatID, "NOPE", testCustomerJID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.(*apperr.Error).Message, "menu") {
		t.Fatalf("not-found reply should suggest *menu*: %v", err)
	}
}

func TestConfirmOrder(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.ConfirmOrder(context.Background(), testChatID, "1BSpo", testCustomerJID)
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}

	for _, want := range []string{"@6289876543210", "Spotify", "1BSpo", "Rp50.000"} {
		if !strings.Contains(out.Text, want) {
			t.Fatalf("completion missing %q:\n%s", want, out.Text)
		}
	}
	if len(out.Mentions) != 1 || out.Mentions[0] != testCustomerJID {
		t.Fatalf("completion mentions = %v, want the original sender", out.Mentions)
	}
}

func TestConfirmOrderCaseInsensitive(t *testing.T) {
	svc := newTestService(t)

	out, err := svc.ConfirmOrder(context.Background(), testChatID, "1bspo", testCustomerJID)
	if err != nil {
		t.Fatalf("ConfirmOrder lowercase: %v", err)
	}
	if !strings.Contains(out.Text, "1BSpo") {
		t.Fatalf("completion should echo the stored code:\n%s", out.Text)
	}
}

func TestConfirmOrderUnknownQuote(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ConfirmOrder(context.Background(), testChatID, "terima kasih kak", testCustomerJID)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for non-code quote, got %v", err)
	}
}
