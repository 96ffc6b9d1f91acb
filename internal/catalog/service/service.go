// Package service provides the catalog command handlers: the admin mutations
// and the customer-facing catalog renderings.
package service

import (
	"context"
	"fmt"
	"strings"

	"storebot_backend/internal/catalog/repository"
	"storebot_backend/internal/command"
	"storebot_backend/internal/events"
	"storebot_backend/internal/reply"
	"storebot_backend/platform/apperr"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"
)

// Service provides business logic for the catalog.
type Service struct {
	repo    repository.Repository
	val     *validator.Validator
	bus     events.Bus
	log     *logger.Logger
	botName string
}

// New creates a new catalog service.
func New(repo repository.Repository, val *validator.Validator, bus events.Bus, log *logger.Logger, botName string) *Service {
	return &Service{repo: repo, val: val, bus: bus, log: log, botName: botName}
}

// HasProduct reports whether a product with the given name exists.
func (s *Service) HasProduct(name string) bool {
	_, ok := s.repo.FindProduct(strings.TrimSpace(name))
	return ok
}

// HasVariant reports whether a variant with the given code exists.
func (s *Service) HasVariant(code string) bool {
	_, _, ok := s.repo.FindVariant(strings.TrimSpace(code))
	return ok
}

// Menu renders the numbered product listing.
func (s *Service) Menu() reply.Reply {
	products := s.repo.Products()
	if len(products) == 0 {
		return reply.Plain("⚠️ Belum ada produk yang tersedia.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📌 *Daftar Produk %s*\n\n", s.botName)
	for i, p := range products {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p.Name)
	}
	b.WriteString("\n🔹 Ketik nama produk untuk melihat detail")
	return reply.Plain(b.String())
}

// ProductDetail renders one product's description and price list.
func (s *Service) ProductDetail(ref string) (reply.Reply, error) {
	product, ok := s.repo.FindProduct(ref)
	if !ok {
		return reply.Reply{}, apperr.NotFound("Produk tidak ditemukan. Ketik *menu* untuk lihat daftar.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 *%s*\n\n%s\n\n💵 *Daftar Harga:*\n", product.Name, product.Description)
	for _, v := range product.Variants {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", v.Code, reply.Rupiah(v.Price), v.Info)
	}
	if len(product.Variants) > 0 {
		fmt.Fprintf(&b, "\n💡 *Cara Order:*\nKetik *%s* untuk memesan",
			strings.ToLower(product.Variants[0].Code))
	}
	return reply.Plain(b.String()), nil
}

// AddProduct validates and stores a new product, then renders a confirmation
// echoing the stored state.
func (s *Service) AddProduct(ctx context.Context, args command.AddProductArgs) (reply.Reply, error) {
	if err := s.val.Struct(args); err != nil {
		return reply.Reply{}, apperr.Wrap(apperr.KindValidation,
			"Format salah: nama, deskripsi, dan minimal satu varian wajib diisi.", err)
	}

	product := repository.Product{
		Name:        strings.TrimSpace(args.Name),
		Description: strings.TrimSpace(args.Description),
	}
	codes := make([]string, 0, len(args.Variants))
	for _, line := range args.Variants {
		product.Variants = append(product.Variants, repository.Variant{
			Code:  line.Code,
			Price: line.Price,
			Info:  line.Info,
		})
		codes = append(codes, line.Code)
	}

	if err := s.repo.UpsertProduct(product); err != nil {
		return reply.Reply{}, err
	}

	s.log.Info("product added", "name", product.Name, "variants", len(codes))
	s.bus.Publish(ctx, events.ProductAdded{
		BaseEvent:    events.NewBaseEvent(),
		Name:         product.Name,
		VariantCodes: codes,
	})

	return reply.Plain(fmt.Sprintf(
		"✅ Produk \"%s\" berhasil ditambahkan!\n\nDeskripsi: %s\nVarian: %s",
		product.Name, product.Description, strings.Join(codes, ", "))), nil
}

// RemoveProduct deletes a product and renders a confirmation. An unknown
// product returns a not-found reply without mutating.
func (s *Service) RemoveProduct(ctx context.Context, ref string) (reply.Reply, error) {
	product, ok := s.repo.FindProduct(ref)
	if !ok {
		return reply.Reply{}, apperr.NotFound(fmt.Sprintf("⚠️ Produk \"%s\" tidak ditemukan!", ref))
	}

	if err := s.repo.DeleteProduct(product.Name); err != nil {
		return reply.Reply{}, err
	}

	s.log.Info("product removed", "name", product.Name)
	s.bus.Publish(ctx, events.ProductRemoved{
		BaseEvent: events.NewBaseEvent(),
		Name:      product.Name,
	})

	return reply.Plain(fmt.Sprintf("✅ Produk \"%s\" berhasil dihapus!", product.Name)), nil
}

// UpdateVariant replaces a variant (code, price, and info) on a product and
// renders a confirmation. Unknown product or old code returns a not-found
// reply without mutating.
func (s *Service) UpdateVariant(ctx context.Context, args command.UpdateVariantArgs) (reply.Reply, error) {
	product, ok := s.repo.FindProduct(args.ProductRef)
	if !ok {
		return reply.Reply{}, apperr.NotFound(fmt.Sprintf("⚠️ Produk \"%s\" tidak ditemukan!", args.ProductRef))
	}

	oldVariant, ok := product.FindVariant(args.OldCode)
	if !ok {
		return reply.Reply{}, apperr.NotFound(fmt.Sprintf(
			"⚠️ Varian \"%s\" tidak ditemukan dalam produk \"%s\"!", args.OldCode, product.Name))
	}

	updated := repository.Variant{
		Code:  args.New.Code,
		Price: args.New.Price,
		Info:  args.New.Info,
	}
	if err := s.repo.RenameVariant(product.Name, oldVariant.Code, updated); err != nil {
		return reply.Reply{}, err
	}

	s.log.Info("variant updated",
		"product", product.Name,
		"oldCode", oldVariant.Code,
		"newCode", updated.Code,
	)
	s.bus.Publish(ctx, events.VariantUpdated{
		BaseEvent: events.NewBaseEvent(),
		Product:   product.Name,
		OldCode:   oldVariant.Code,
		NewCode:   updated.Code,
		Price:     updated.Price,
	})

	return reply.Plain(fmt.Sprintf(
		"✅ Varian berhasil diupdate!\n\nProduk: %s\nVarian lama: %s\nVarian baru: %s (%s - %s)",
		product.Name, oldVariant.Code, updated.Code, reply.Rupiah(updated.Price), updated.Info)), nil
}
