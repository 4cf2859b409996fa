package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

type ProductRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (domain.Product, error)
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	DeleteByValue(ctx context.Context, t domain.ProductType, variant string, price decimal.Decimal) error
	Update(ctx context.Context, p domain.Product) (domain.Product, error)
}

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// Add stores a new product. The (type, variant) pair must not exist yet.
func (s *Service) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Variant = strings.TrimSpace(p.Variant)
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return s.repo.Create(ctx, p)
}

// Remove deletes the product matching all of type, variant and price. A stale
// price fails with domain.ErrNotFound.
func (s *Service) Remove(ctx context.Context, t domain.ProductType, variant string, price decimal.Decimal) error {
	return s.repo.DeleteByValue(ctx, t, strings.TrimSpace(variant), price)
}

// Update edits a product in place, keyed by its id.
func (s *Service) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.Variant = strings.TrimSpace(p.Variant)
	if err := p.Validate(); err != nil {
		return domain.Product{}, err
	}
	return s.repo.Update(ctx, p)
}
