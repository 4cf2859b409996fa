package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// Period is a half-open [From, To) range over order dates. A zero Period
// matches every order.
type Period struct {
	From time.Time
	To   time.Time
}

// Day returns the calendar day containing t, in t's location.
func Day(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Period{From: start.UTC(), To: start.AddDate(0, 0, 1).UTC()}
}

func (p Period) IsZero() bool {
	return p.From.IsZero() && p.To.IsZero()
}

func (p Period) bounds() (time.Time, time.Time) {
	from, to := p.From, p.To
	if from.IsZero() {
		from = time.Unix(0, 0)
	}
	if to.IsZero() {
		to = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	return from.UTC(), to.UTC()
}

type OrderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewOrderRepository(db *sql.DB, logger *slog.Logger) *OrderRepository {
	return &OrderRepository{db: db, logger: logger}
}

// Commit stores the order header and one item row per line in a single
// transaction. Items are linked to the catalog row matching the line's type
// and variant; the captured unit price is what gets stored. Any failure
// rolls the whole order back and is reported as domain.ErrPersistence.
func (r *OrderRepository) Commit(ctx context.Context, order domain.Order) (domain.PersistedOrder, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistedOrder{}, fmt.Errorf("%w: begin transaction: %w", domain.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	orderDate := order.CreatedAt.UTC().Truncate(time.Second)
	persisted := domain.PersistedOrder{
		Total:     order.Quote.Total,
		OrderDate: orderDate,
		Items:     make([]domain.OrderItem, 0, len(order.Lines)),
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (total, order_date)
		VALUES ($1, $2)
		RETURNING id
	`, order.Quote.Total, orderDate).Scan(&persisted.ID)
	if err != nil {
		return domain.PersistedOrder{}, fmt.Errorf("%w: insert order: %w", domain.ErrPersistence, err)
	}

	for _, line := range order.Lines {
		var (
			productID    int64
			catalogPrice decimal.Decimal
		)
		err := tx.QueryRowContext(ctx, `
			SELECT id, price
			FROM products
			WHERE type = $1 AND variant = $2
		`, string(line.Product.Type), line.Product.Variant).Scan(&productID, &catalogPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PersistedOrder{}, fmt.Errorf("%w: product %s - %s no longer exists",
				domain.ErrPersistence, line.Product.Type.DisplayName(), line.Product.Variant)
		}
		if err != nil {
			return domain.PersistedOrder{}, fmt.Errorf("%w: resolve product: %w", domain.ErrPersistence, err)
		}

		if !catalogPrice.Equal(line.UnitPrice) {
			r.logger.WarnContext(ctx, "catalog price changed since product was added",
				"product_id", productID,
				"captured_price", line.UnitPrice.String(),
				"catalog_price", catalogPrice.String(),
			)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_per_unit)
			VALUES ($1, $2, $3, $4)
		`, persisted.ID, productID, line.Quantity, line.UnitPrice)
		if err != nil {
			return domain.PersistedOrder{}, fmt.Errorf("%w: insert order item: %w", domain.ErrPersistence, err)
		}

		persisted.Items = append(persisted.Items, domain.OrderItem{
			ProductID: productID,
			Product:   line.Product,
			Quantity:  line.Quantity,
			Price:     line.UnitPrice,
		})
	}

	if err := tx.Commit(); err != nil {
		return domain.PersistedOrder{}, fmt.Errorf("%w: commit: %w", domain.ErrPersistence, err)
	}

	return persisted, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.PersistedOrder, error) {
	order := &domain.PersistedOrder{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, total, order_date
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.Total, &order.OrderDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.product_id, p.type, p.variant, oi.quantity, oi.price_per_unit
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	order.Items = []domain.OrderItem{}
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Product.Type, &item.Product.Variant, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	order.OrderDate = order.OrderDate.UTC()
	return order, nil
}

// History lists orders within period, newest first, with their items.
func (r *OrderRepository) History(ctx context.Context, period Period) ([]domain.PersistedOrder, error) {
	from, to := period.bounds()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, total, order_date
		FROM orders
		WHERE order_date >= $1 AND order_date < $2
		ORDER BY order_date DESC, id DESC
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[int64]*domain.PersistedOrder)
	var orderIDs []int64

	for rows.Next() {
		var order domain.PersistedOrder
		if err := rows.Scan(&order.ID, &order.Total, &order.OrderDate); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		order.OrderDate = order.OrderDate.UTC()
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	if len(orderIDs) == 0 {
		return []domain.PersistedOrder{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT oi.order_id, oi.product_id, p.type, p.variant, oi.quantity, oi.price_per_unit
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		WHERE o.order_date >= $1 AND o.order_date < $2
		ORDER BY oi.order_id, oi.id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID int64
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Product.Type, &item.Product.Variant, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if order, ok := orderMap[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	orders := make([]domain.PersistedOrder, 0, len(orderIDs))
	for _, id := range orderIDs {
		orders = append(orders, *orderMap[id])
	}

	return orders, nil
}

// TotalSales sums order totals within period.
func (r *OrderRepository) TotalSales(ctx context.Context, period Period) (decimal.Decimal, error) {
	from, to := period.bounds()

	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE order_date >= $1 AND order_date < $2
	`, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum orders: %w", err)
	}

	return total, nil
}

// Delete removes an order; its items go with it.
func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}

	return nil
}
