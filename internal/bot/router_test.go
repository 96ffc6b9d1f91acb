package bot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"storebot_backend/internal/catalog/repository"
	catsvc "storebot_backend/internal/catalog/service"
	"storebot_backend/internal/command"
	"storebot_backend/internal/events"
	"storebot_backend/internal/order"
	"storebot_backend/internal/transport"
	"storebot_backend/platform/config"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"
)

const (
	testAdminNumber = "+6281234567890"
	testAdminJID    = "6281234567890@s.whatsapp.net"
	testCustomerJID = "6289876543210@s.whatsapp.net"
	testGroupJID    = "123456-7890@g.us"
)

type sentMessage struct {
	ChatID   string
	Text     string
	Mentions []string
}

type fakeSender struct {
	sent         []sentMessage
	participants []string
}

func (f *fakeSender) SendText(_ context.Context, chatID, text string, mentions []string) error {
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Mentions: mentions})
	return nil
}

func (f *fakeSender) GroupParticipants(_ context.Context, _ string) ([]string, error) {
	return f.participants, nil
}

func newTestRouter(t *testing.T) (*Router, *fakeSender, repository.Repository) {
	t.Helper()

	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	repo := repository.NewFile(filepath.Join(t.TempDir(), "products.json"), log)
	catalog := catsvc.New(repo, validator.New(), bus, log, "Amaan Store")
	orders := order.New(repo, bus, log, testAdminNumber)
	parser := command.NewParser([]string{"admin"}, catalog)
	sender := &fakeSender{}

	cfg := &config.Config{
		BotName:     "Amaan Store",
		AdminNumber: testAdminNumber,
	}
	return NewRouter(parser, catalog, orders, sender, bus, cfg, log), sender, repo
}

func groupMessage(sender, text string) transport.Inbound {
	return transport.Inbound{
		MessageID: "msg-1",
		ChatID:    testGroupJID,
		SenderID:  sender,
		Text:      text,
	}
}

func TestMenuReply(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "menu"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "Spotify") {
		t.Fatalf("menu reply missing Spotify:\n%s", sender.sent[0].Text)
	}
}

func TestUnrecognizedIsDroppedSilently(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "halo semuanya"))

	if len(sender.sent) != 0 {
		t.Fatalf("unrecognized text produced %d sends", len(sender.sent))
	}
}

func TestOwnAndDirectMessagesAreIgnored(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	own := groupMessage(testAdminJID, "menu")
	own.FromMe = true
	router.HandleMessage(context.Background(), own)

	dm := groupMessage(testCustomerJID, "menu")
	dm.ChatID = testCustomerJID
	router.HandleMessage(context.Background(), dm)

	if len(sender.sent) != 0 {
		t.Fatalf("ignored messages produced %d sends", len(sender.sent))
	}
}

func TestAdminAddsProduct(t *testing.T) {
	router, sender, repo := newTestRouter(t)

	text := "tambah produk\nNetflix\nAkun Netflix Premium\nNET1B 30000 1 Bulan Sharing"
	router.HandleMessage(context.Background(), groupMessage(testAdminJID, text))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "berhasil ditambahkan") {
		t.Fatalf("no confirmation:\n%s", sender.sent[0].Text)
	}

	p, v, ok := repo.FindVariant("NET1B")
	if !ok || p.Name != "Netflix" || v.Price != 30000 || v.Info != "1 Bulan Sharing" {
		t.Fatalf("catalog state after add = (%+v, %+v, %v)", p, v, ok)
	}
}

func TestNonAdminRemoveIsDenied(t *testing.T) {
	router, sender, repo := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "hapus produk Spotify"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1 denial", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "Akses Ditolak") {
		t.Fatalf("expected access denied reply:\n%s", sender.sent[0].Text)
	}
	if _, ok := repo.FindProduct("Spotify"); !ok {
		t.Fatal("denied command mutated the catalog")
	}
}

func TestNonAdminMalformedAdminCommandIsDeniedNotCorrected(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "tambah produk"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "Akses Ditolak") {
		t.Fatalf("gate must run before the format reply:\n%s", sender.sent[0].Text)
	}
}

func TestAdminMalformedCommandGetsFormatReply(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testAdminJID, "tambah produk"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "Format salah") {
		t.Fatalf("expected format reply:\n%s", sender.sent[0].Text)
	}
}

func TestOrderFlow(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "1BSpo"))

	if len(sender.sent) != 2 {
		t.Fatalf("sends = %d, want acknowledgement plus admin alert", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "Pesanan Diterima") {
		t.Fatalf("first reply is not the acknowledgement:\n%s", sender.sent[0].Text)
	}
	if !strings.Contains(sender.sent[1].Text, "@6281234567890") {
		t.Fatalf("second reply does not alert the admin:\n%s", sender.sent[1].Text)
	}

	sender.sent = nil
	done := groupMessage(testAdminJID, "done")
	done.HasQuote = true
	done.QuotedText = "1BSpo"
	done.QuotedSender = testCustomerJID
	router.HandleMessage(context.Background(), done)

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1 completion", len(sender.sent))
	}
	completion := sender.sent[0]
	for _, want := range []string{"@6289876543210", "Spotify", "1BSpo", "Rp50.000"} {
		if !strings.Contains(completion.Text, want) {
			t.Fatalf("completion missing %q:\n%s", want, completion.Text)
		}
	}
}

func TestConfirmOrderRequiresAdmin(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	done := groupMessage(testCustomerJID, "done")
	done.HasQuote = true
	done.QuotedText = "1BSpo"
	done.QuotedSender = testCustomerJID
	router.HandleMessage(context.Background(), done)

	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].Text, "Akses Ditolak") {
		t.Fatalf("non-admin done should be denied, got %+v", sender.sent)
	}
}

func TestAdminCallMentionsAdmin(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "admin"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	out := sender.sent[0]
	if !strings.Contains(out.Text, "@6281234567890") {
		t.Fatalf("admin call does not tag the admin:\n%s", out.Text)
	}
	if len(out.Mentions) != 2 {
		t.Fatalf("mentions = %v, want admin and caller", out.Mentions)
	}
}

func TestAdminCallFromAdminIsSuppressed(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testAdminJID, "admin"))

	if len(sender.sent) != 0 {
		t.Fatalf("admin calling themselves produced %d sends", len(sender.sent))
	}
}

func TestTagAllSkipsAdmin(t *testing.T) {
	router, sender, _ := newTestRouter(t)
	sender.participants = []string{
		testAdminJID,
		testCustomerJID,
		"6285550001111@s.whatsapp.net",
	}

	router.HandleMessage(context.Background(), groupMessage(testAdminJID, "tagall"))

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.sent))
	}
	out := sender.sent[0]
	if len(out.Mentions) != 2 {
		t.Fatalf("mentions = %v, want everyone but the admin", out.Mentions)
	}
	for _, jid := range out.Mentions {
		if jid == testAdminJID {
			t.Fatal("tagall mentioned the admin")
		}
	}
}

func TestOrderUnknownVariantSuggestsMenu(t *testing.T) {
	router, sender, repo := newTestRouter(t)

	// Bare text that is neither product nor variant is unrecognized, so go
	// through the quoted-done path with an unknown code instead.
	done := groupMessage(testAdminJID, "done")
	done.HasQuote = true
	done.QuotedText = "NOPE99"
	done.QuotedSender = testCustomerJID
	router.HandleMessage(context.Background(), done)

	if len(sender.sent) != 1 {
		t.Fatalf("sends = %d, want 1 error reply", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "tidak valid") {
		t.Fatalf("unexpected reply:\n%s", sender.sent[0].Text)
	}
	if len(repo.Products()) != 1 {
		t.Fatal("error path mutated the catalog")
	}
}

func TestHelpReplies(t *testing.T) {
	router, sender, _ := newTestRouter(t)

	router.HandleMessage(context.Background(), groupMessage(testCustomerJID, "help"))
	router.HandleMessage(context.Background(), groupMessage(testAdminJID, "adminonly"))

	if len(sender.sent) != 2 {
		t.Fatalf("sends = %d, want 2", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Text, "menu") {
		t.Fatalf("help reply:\n%s", sender.sent[0].Text)
	}
	if !strings.Contains(sender.sent[1].Text, "tambah produk") {
		t.Fatalf("admin help reply:\n%s", sender.sent[1].Text)
	}
}
