package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/storage/storagetest"
)

func TestProductRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and list", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		tart, err := repo.Create(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(150000)})
		if err != nil {
			t.Fatalf("create tart: %v", err)
		}
		if tart.ID == 0 {
			t.Error("expected generated id")
		}
		if _, err := repo.Create(ctx, domain.Product{Type: domain.ProductTypeCubeCake, Variant: "Matcha", Price: decimal.NewFromInt(50000)}); err != nil {
			t.Fatalf("create cube cake: %v", err)
		}

		products, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].Type != domain.ProductTypeCubeCake || products[1].Type != domain.ProductTypeTart {
			t.Errorf("unexpected order: %v", products)
		}
		if !products[1].Price.Equal(decimal.NewFromInt(150000)) {
			t.Errorf("expected price 150000, got %s", products[1].Price)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		products, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if products == nil || len(products) != 0 {
			t.Errorf("expected empty slice, got %#v", products)
		}
	})

	t.Run("duplicate type and variant", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		p := domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(150000)}
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}

		p.Price = decimal.NewFromInt(1)
		_, err := repo.Create(ctx, p)
		if !errors.Is(err, domain.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("remove needs the current price", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		if _, err := repo.Create(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(150000)}); err != nil {
			t.Fatalf("create: %v", err)
		}

		err := repo.DeleteByValue(ctx, domain.ProductTypeTart, "Choco", decimal.NewFromInt(140000))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound for stale price, got %v", err)
		}

		if err := repo.DeleteByValue(ctx, domain.ProductTypeTart, "Choco", decimal.NewFromInt(150000)); err != nil {
			t.Fatalf("delete: %v", err)
		}

		products, _ := repo.List(ctx)
		if len(products) != 0 {
			t.Errorf("expected catalog to be empty, got %d", len(products))
		}
	})

	t.Run("update by id", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		created, err := repo.Create(ctx, domain.Product{Type: domain.ProductTypePudding, Variant: "Mango", Price: decimal.NewFromInt(40000)})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		created.Price = decimal.NewFromInt(45000)
		if _, err := repo.Update(ctx, created); err != nil {
			t.Fatalf("update: %v", err)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if !got.Price.Equal(decimal.NewFromInt(45000)) {
			t.Errorf("expected updated price, got %s", got.Price)
		}

		_, err = repo.Update(ctx, domain.Product{ID: 999, Type: domain.ProductTypeTart, Variant: "X", Price: decimal.Zero})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		repo := NewProductRepository(storagetest.NewSQLite(t))

		_, err := repo.Get(ctx, 42)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
