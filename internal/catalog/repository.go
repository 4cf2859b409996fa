package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/storage"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, variant, price
		FROM products
		ORDER BY type, variant
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := []domain.Product{}
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Type, &p.Variant, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, type, variant, price
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Type, &p.Variant, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("query product by id: %w", err)
	}

	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (type, variant, price)
		VALUES ($1, $2, $3)
		RETURNING id
	`, string(p.Type), p.Variant, p.Price).Scan(&p.ID)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("%w: %s already exists", domain.ErrDuplicateKey, describe(p.Type, p.Variant))
		}
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	return p, nil
}

func (r *ProductRepository) DeleteByValue(ctx context.Context, t domain.ProductType, variant string, price decimal.Decimal) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM products
		WHERE type = $1 AND variant = $2 AND price = $3
	`, string(t), variant, price)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: no product %s priced %s", domain.ErrNotFound, describe(t, variant), price)
	}

	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET type = $1, variant = $2, price = $3
		WHERE id = $4
	`, string(p.Type), p.Variant, p.Price, p.ID)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return domain.Product{}, fmt.Errorf("%w: %s already exists", domain.ErrDuplicateKey, describe(p.Type, p.Variant))
		}
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, err
	}

	if rowsAffected == 0 {
		return domain.Product{}, fmt.Errorf("%w: product %d", domain.ErrNotFound, p.ID)
	}

	return p, nil
}

func describe(t domain.ProductType, variant string) string {
	return t.DisplayName() + " - " + variant
}
