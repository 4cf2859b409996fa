package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodEPayment PaymentMethod = "EPAYMENT"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentMethodCash, PaymentMethodEPayment:
		return m, nil
	case "":
		return PaymentMethodCash, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, s)
}

// Label is the tender label printed on receipts.
func (m PaymentMethod) Label() string {
	if m == PaymentMethodEPayment {
		return "E-payment"
	}
	return "Cash"
}

// OrderLine is one product/quantity pairing. UnitPrice is the price captured
// when the product was added to the cart.
type OrderLine struct {
	Product   ProductKey      `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quote is the priced view of a set of lines.
type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

// Order is a frozen cart handed to persistence at checkout.
type Order struct {
	Lines     []OrderLine `json:"lines"`
	Quote     Quote       `json:"quote"`
	CreatedAt time.Time   `json:"created_at"`
}

type OrderItem struct {
	ProductID int64           `json:"product_id"`
	Product   ProductKey      `json:"product"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price_per_unit"`
}

// PersistedOrder is an order as stored in the orders/order_items tables.
type PersistedOrder struct {
	ID        int64           `json:"id"`
	Total     decimal.Decimal `json:"total"`
	OrderDate time.Time       `json:"order_date"`
	Items     []OrderItem     `json:"items"`
}

type Payment struct {
	Method PaymentMethod   `json:"method"`
	Tender decimal.Decimal `json:"tender"`
	Change decimal.Decimal `json:"change"`
}
