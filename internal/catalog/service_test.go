package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

type fakeRepo struct {
	created []domain.Product
	removed []string
	err     error
}

func (f *fakeRepo) List(context.Context) ([]domain.Product, error) {
	return f.created, f.err
}

func (f *fakeRepo) Get(_ context.Context, id int64) (domain.Product, error) {
	for _, p := range f.created {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeRepo) DeleteByValue(_ context.Context, _ domain.ProductType, variant string, _ decimal.Decimal) error {
	f.removed = append(f.removed, variant)
	return f.err
}

func (f *fakeRepo) Update(_ context.Context, p domain.Product) (domain.Product, error) {
	return p, f.err
}

func TestService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("trims variant", func(t *testing.T) {
		repo := &fakeRepo{}
		svc := NewService(repo)

		p, err := svc.Add(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "  Choco ", Price: decimal.NewFromInt(1)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Variant != "Choco" {
			t.Errorf("expected trimmed variant, got %q", p.Variant)
		}
	})

	t.Run("rejects invalid input before storage", func(t *testing.T) {
		tests := []struct {
			name    string
			product domain.Product
		}{
			{"blank variant", domain.Product{Type: domain.ProductTypeTart, Variant: "   "}},
			{"unknown type", domain.Product{Type: "COOKIE", Variant: "Oat"}},
			{"negative price", domain.Product{Type: domain.ProductTypeTart, Variant: "Choco", Price: decimal.NewFromInt(-1)}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &fakeRepo{}
				svc := NewService(repo)

				_, err := svc.Add(ctx, tt.product)
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
				if len(repo.created) != 0 {
					t.Error("repository should not have been called")
				}
			})
		}
	})

	t.Run("surfaces repository errors", func(t *testing.T) {
		svc := NewService(&fakeRepo{err: domain.ErrDuplicateKey})

		_, err := svc.Add(ctx, domain.Product{Type: domain.ProductTypeTart, Variant: "Choco"})
		if !errors.Is(err, domain.ErrDuplicateKey) {
			t.Errorf("expected ErrDuplicateKey, got %v", err)
		}
	})
}

func TestService_Remove(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	if err := svc.Remove(context.Background(), domain.ProductTypeTart, " Choco ", decimal.NewFromInt(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.removed) != 1 || repo.removed[0] != "Choco" {
		t.Errorf("expected trimmed variant to reach repository, got %v", repo.removed)
	}
}
