// Package cart holds the in-memory order being assembled at the till, its
// pricing, and the checkout transition that hands it to persistence.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

type State string

const (
	StateEmpty            State = "empty"
	StateReadyForCheckout State = "ready_for_checkout"
	StateCommitted        State = "committed"
)

// Committer persists a frozen order.
type Committer interface {
	Commit(ctx context.Context, order domain.Order) (domain.PersistedOrder, error)
}

// Sale is the outcome of a checkout. Saved is false when the commit failed;
// the order and payment are still valid for printing an unsaved receipt.
type Sale struct {
	OrderID int64          `json:"order_id,omitempty"`
	Saved   bool           `json:"saved"`
	Order   domain.Order   `json:"order"`
	Payment domain.Payment `json:"payment"`
}

// MaxLineQuantity caps the units on a single cart line.
const MaxLineQuantity = 9999

type Cart struct {
	mu          sync.Mutex
	lines       map[domain.ProductKey]*domain.OrderLine
	keys        []domain.ProductKey
	committed   bool
	committedAt time.Time
	sale        *Sale
	now         func() time.Time
}

// Snapshot is a consistent view of a cart taken under one lock.
type Snapshot struct {
	State State
	Lines []domain.OrderLine
	Quote domain.Quote
	Sale  *Sale
}

func New() *Cart {
	return &Cart{
		lines: make(map[domain.ProductKey]*domain.OrderLine),
		now:   time.Now,
	}
}

// Add puts quantity units of p in the cart. The unit price is captured the
// first time the product is added; later adds only increase the quantity.
// A line never holds more than MaxLineQuantity units.
func (c *Cart) Add(p domain.Product, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", domain.ErrValidation)
	}
	if quantity > MaxLineQuantity {
		return fmt.Errorf("%w: quantity must not exceed %d", domain.ErrValidation, MaxLineQuantity)
	}
	if !p.Type.Valid() || p.Variant == "" {
		return fmt.Errorf("%w: a product type and variant must be selected", domain.ErrValidation)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committed {
		return domain.ErrCommitted
	}

	key := p.Key()
	if line, ok := c.lines[key]; ok {
		if quantity > MaxLineQuantity-line.Quantity {
			return fmt.Errorf("%w: %s - %s would exceed %d units",
				domain.ErrValidation, key.Type.DisplayName(), key.Variant, MaxLineQuantity)
		}
		line.Quantity += quantity
		return nil
	}

	c.lines[key] = &domain.OrderLine{Product: key, Quantity: quantity, UnitPrice: p.Price}
	c.keys = append(c.keys, key)
	return nil
}

func (c *Cart) Remove(key domain.ProductKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committed {
		return domain.ErrCommitted
	}

	if _, ok := c.lines[key]; !ok {
		return fmt.Errorf("%w: %s - %s is not in the cart", domain.ErrNotFound, key.Type.DisplayName(), key.Variant)
	}

	delete(c.lines, key)
	for i, k := range c.keys {
		if k == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return nil
}

// Lines returns a copy of the lines in the order they were first added.
func (c *Cart) Lines() []domain.OrderLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Cart) Quote() domain.Quote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Price(c.snapshot())
}

func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Cart) state() State {
	switch {
	case c.committed:
		return StateCommitted
	case len(c.keys) == 0:
		return StateEmpty
	default:
		return StateReadyForCheckout
	}
}

// Sale returns the checkout outcome, or nil before checkout.
func (c *Cart) Sale() *Sale {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saleCopy()
}

func (c *Cart) saleCopy() *Sale {
	if c.sale == nil {
		return nil
	}
	sale := *c.sale
	return &sale
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := c.snapshot()
	return Snapshot{
		State: c.state(),
		Lines: lines,
		Quote: Price(lines),
		Sale:  c.saleCopy(),
	}
}

// CommittedAt reports when checkout froze the cart.
func (c *Cart) CommittedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.committedAt, c.committed
}

// Checkout settles the cart with tender and hands the frozen order to
// committer. E-payment with a zero tender pays the exact total.
//
// When the commit fails the cart stays committed and the returned sale is
// non-nil alongside an error wrapping domain.ErrPersistence.
func (c *Cart) Checkout(ctx context.Context, tender decimal.Decimal, method domain.PaymentMethod, committer Committer) (*Sale, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.committed {
		return nil, domain.ErrCommitted
	}
	if len(c.keys) == 0 {
		return nil, fmt.Errorf("%w: cannot checkout, no items in the order", domain.ErrValidation)
	}
	if tender.IsNegative() {
		return nil, fmt.Errorf("%w: tender must not be negative", domain.ErrValidation)
	}

	lines := c.snapshot()
	quote := Price(lines)

	if method == domain.PaymentMethodEPayment && tender.IsZero() {
		tender = quote.Total
	}

	change := tender.Sub(quote.Total)
	if change.IsNegative() {
		return nil, fmt.Errorf("%w: tender %s is less than total %s", domain.ErrInsufficientPayment, tender, quote.Total)
	}

	now := c.now()
	c.committed = true
	c.committedAt = now
	sale := &Sale{
		Order: domain.Order{
			Lines:     lines,
			Quote:     quote,
			CreatedAt: now.UTC().Truncate(time.Second),
		},
		Payment: domain.Payment{Method: method, Tender: tender, Change: change},
	}
	c.sale = sale

	persisted, err := committer.Commit(ctx, sale.Order)
	if err != nil {
		if !errors.Is(err, domain.ErrPersistence) {
			err = fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		out := *sale
		return &out, err
	}

	sale.OrderID = persisted.ID
	sale.Saved = true
	if !persisted.OrderDate.IsZero() {
		sale.Order.CreatedAt = persisted.OrderDate
	}

	out := *sale
	return &out, nil
}

func (c *Cart) snapshot() []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, *c.lines[k])
	}
	return out
}
