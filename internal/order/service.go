// Package order resolves variant references into order notifications and
// formats the order-completed confirmation. Orders are communicated, not
// stored: every placed order carries a generated ID so notifications (and a
// future persistent Order entity) can refer to it.
package order

import (
	"context"
	"fmt"

	"storebot_backend/internal/catalog/repository"
	"storebot_backend/internal/events"
	"storebot_backend/internal/reply"
	"storebot_backend/platform/apperr"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/phone"

	"github.com/google/uuid"
)

// Service provides the order workflow.
type Service struct {
	repo     repository.Repository
	bus      events.Bus
	log      *logger.Logger
	adminJID string
}

// New creates a new order service. adminNumber is the configured admin phone
// number; alerts mention the derived JID.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger, adminNumber string) *Service {
	return &Service{
		repo:     repo,
		bus:      bus,
		log:      log,
		adminJID: phone.UserJID(adminNumber),
	}
}

// OrderByVariant resolves a bare variant code into the customer
// acknowledgement plus the admin alert. An unknown code yields a not-found
// reply suggesting *menu*.
func (s *Service) OrderByVariant(ctx context.Context, chatID, code, senderID string) ([]reply.Reply, error) {
	product, variant, ok := s.repo.FindVariant(code)
	if !ok {
		return nil, apperr.NotFound("⚠️ Variasi tidak ditemukan. Ketik *menu* untuk lihat produk.")
	}

	orderID := uuid.NewString()
	s.log.Info("order placed",
		"orderId", orderID,
		"product", product.Name,
		"variant", variant.Code,
		"sender", senderID,
	)
	s.bus.Publish(ctx, events.OrderPlaced{
		BaseEvent: events.NewBaseEvent(),
		OrderID:   orderID,
		ChatID:    chatID,
		SenderID:  senderID,
		Product:   product.Name,
		Variant:   variant.Code,
		Price:     variant.Price,
	})

	ack := reply.Plain(fmt.Sprintf(
		"🕒 *Pesanan Diterima!*\n\nProduk: %s\nVariasi: %s\nHarga: %s\n\n"+
			"Admin akan segera memproses pesanan Anda, ditunggu yaaa",
		product.Name, variant.Code, reply.Rupiah(variant.Price)))

	alert := reply.Reply{
		Text: fmt.Sprintf(
			"📢 *ADMIN!* Ada pesanan baru dari %s:\n\nProduk: %s\nVariasi: %s\nHarga: %s\n\nNo. Pesanan: %s",
			reply.MentionTag(senderID), product.Name, variant.Code, reply.Rupiah(variant.Price), orderID),
		Mentions: []string{s.adminJID, senderID},
	}

	return []reply.Reply{ack, alert}, nil
}

// ConfirmOrder resolves the quoted text of a reply (expected to be a bare
// variant code echoed earlier) and renders the order-completed confirmation
// mentioning the original sender.
func (s *Service) ConfirmOrder(ctx context.Context, chatID, quotedText, originalSender string) (reply.Reply, error) {
	product, variant, ok := s.repo.FindVariant(quotedText)
	if !ok {
		return reply.Reply{}, apperr.NotFound(
			"⚠️ Kode varian tidak valid atau tidak ditemukan dalam database. " +
				"Pastikan Anda mengutip pesan dengan kode varian yang benar.")
	}

	s.log.Info("order completed",
		"product", product.Name,
		"variant", variant.Code,
		"buyer", originalSender,
	)
	s.bus.Publish(ctx, events.OrderCompleted{
		BaseEvent: events.NewBaseEvent(),
		ChatID:    chatID,
		BuyerID:   originalSender,
		Product:   product.Name,
		Variant:   variant.Code,
		Price:     variant.Price,
	})

	return reply.Reply{
		Text: fmt.Sprintf(
			"✅ *Orderan Selesai!*\n\nTerima kasih %s telah memesan:\n"+
				"Produk: %s\nVariasi: %s (%s)\nHarga: %s\n\n"+
				"Silakan cek pesan pribadi untuk detail akun!",
			reply.MentionTag(originalSender), product.Name, variant.Code, variant.Info,
			reply.Rupiah(variant.Price)),
		Mentions: []string{originalSender},
	}, nil
}
