package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"storebot_backend/internal/catalog/repository"
	"storebot_backend/internal/command"
	"storebot_backend/internal/events"
	"storebot_backend/platform/apperr"
	"storebot_backend/platform/logger"
	"storebot_backend/platform/validator"
)

func newTestService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()
	log := logger.New("development")
	repo := repository.NewFile(filepath.Join(t.TempDir(), "products.json"), log)
	svc := New(repo, validator.New(), events.NewInMemoryBus(log), log, "Amaan Store")
	return svc, repo
}

func TestMenuListsSeededCatalog(t *testing.T) {
	svc, _ := newTestService(t)

	out := svc.Menu()
	if !strings.Contains(out.Text, "Spotify") {
		t.Fatalf("menu does not list Spotify:\n%s", out.Text)
	}
	if !strings.Contains(out.Text, "1. Spotify") {
		t.Fatalf("menu listing is not numbered:\n%s", out.Text)
	}
}

func TestProductDetailAnyCase(t *testing.T) {
	svc, _ := newTestService(t)

	for _, ref := range []string{"Spotify", "spotify", "SPOTIFY"} {
		out, err := svc.ProductDetail(ref)
		if err != nil {
			t.Fatalf("ProductDetail(%q): %v", ref, err)
		}
		if !strings.Contains(out.Text, "Akun Spotify Premium") {
			t.Fatalf("detail missing description:\n%s", out.Text)
		}
		if !strings.Contains(out.Text, "1BSpo: Rp50.000 (1 Bulan)") {
			t.Fatalf("detail missing variant price line:\n%s", out.Text)
		}
	}
}

func TestProductDetailNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ProductDetail("Disney")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.(*apperr.Error).Message, "menu") {
		t.Fatalf("not-found reply should suggest *menu*: %v", err)
	}
}

func TestAddProduct(t *testing.T) {
	svc, repo := newTestService(t)

	out, err := svc.AddProduct(context.Background(), command.AddProductArgs{
		Name:        "Netflix",
		Description: "Akun Netflix Premium",
		Variants: []command.VariantLine{
			{Code: "NET1B", Price: 30000, Info: "1 Bulan Sharing"},
		},
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if !strings.Contains(out.Text, "Netflix") || !strings.Contains(out.Text, "NET1B") {
		t.Fatalf("confirmation does not name product and variant:\n%s", out.Text)
	}

	p, v, ok := repo.FindVariant("net1b")
	if !ok {
		t.Fatal("NET1B does not resolve after add")
	}
	if p.Name != "Netflix" || v.Price != 30000 || v.Info != "1 Bulan Sharing" {
		t.Fatalf("stored variant = (%s, %+v)", p.Name, v)
	}
}

func TestAddProductValidation(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.AddProduct(context.Background(), command.AddProductArgs{
		Name:        "Netflix",
		Description: "desc",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for zero variants, got %v", err)
	}
	if _, ok := repo.FindProduct("Netflix"); ok {
		t.Fatal("failed add must not mutate the catalog")
	}
}

func TestRemoveProduct(t *testing.T) {
	svc, repo := newTestService(t)

	out, err := svc.RemoveProduct(context.Background(), "spotify")
	if err != nil {
		t.Fatalf("RemoveProduct: %v", err)
	}
	if !strings.Contains(out.Text, "Spotify") {
		t.Fatalf("confirmation does not name the product:\n%s", out.Text)
	}
	if len(repo.Products()) != 0 {
		t.Fatal("product still present")
	}

	_, err = svc.RemoveProduct(context.Background(), "spotify")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on second removal, got %v", err)
	}
}

func TestUpdateVariant(t *testing.T) {
	svc, repo := newTestService(t)

	out, err := svc.UpdateVariant(context.Background(), command.UpdateVariantArgs{
		ProductRef: "spotify",
		OldCode:    "1bspo",
		New:        command.VariantLine{Code: "1BSpoX", Price: 45000, Info: "1 Bulan Premium"},
	})
	if err != nil {
		t.Fatalf("UpdateVariant: %v", err)
	}
	if !strings.Contains(out.Text, "1BSpoX") || !strings.Contains(out.Text, "Rp45.000") {
		t.Fatalf("confirmation missing new variant:\n%s", out.Text)
	}

	if _, _, ok := repo.FindVariant("1BSpo"); ok {
		t.Fatal("old code still resolves")
	}
	_, v, ok := repo.FindVariant("1bspox")
	if !ok || v.Price != 45000 {
		t.Fatalf("new code lookup = %+v, ok=%v", v, ok)
	}
}

func TestUpdateVariantUnknownTargets(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateVariant(context.Background(), command.UpdateVariantArgs{
		ProductRef: "Disney",
		OldCode:    "1BSpo",
		New:        command.VariantLine{Code: "X", Price: 1, Info: "x"},
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown product: got %v", err)
	}

	_, err = svc.UpdateVariant(context.Background(), command.UpdateVariantArgs{
		ProductRef: "Spotify",
		OldCode:    "NOPE",
		New:        command.VariantLine{Code: "X", Price: 1, Info: "x"},
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown old code: got %v", err)
	}
}

func TestVocabularyLookups(t *testing.T) {
	svc, _ := newTestService(t)

	if !svc.HasProduct("spotify") || !svc.HasProduct(" Spotify ") {
		t.Fatal("HasProduct should match case-insensitively and trim")
	}
	if !svc.HasVariant("1bspo") {
		t.Fatal("HasVariant should match case-insensitively")
	}
	if svc.HasProduct("netflix") || svc.HasVariant("NET1B") {
		t.Fatal("unknown references should not resolve")
	}
}
