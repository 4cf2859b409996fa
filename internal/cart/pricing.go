package cart

import (
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// Discount tiers. Lower bounds are inclusive and only the subtotal is ever
// compared, so a discount can never apply to an already discounted amount.
var (
	upperTierThreshold = decimal.NewFromInt(500000)
	lowerTierThreshold = decimal.NewFromInt(300000)
	upperTierRate      = decimal.RequireFromString("0.10")
	lowerTierRate      = decimal.RequireFromString("0.05")
)

func DiscountRate(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(upperTierThreshold):
		return upperTierRate
	case subtotal.GreaterThanOrEqual(lowerTierThreshold):
		return lowerTierRate
	default:
		return decimal.Zero
	}
}

// Price computes the quote for lines. The discount is rounded to whole
// currency units so Subtotal == Discount + Total holds exactly.
func Price(lines []domain.OrderLine) domain.Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}

	rate := DiscountRate(subtotal)
	discount := subtotal.Mul(rate).Round(0)

	return domain.Quote{
		Subtotal:     subtotal,
		DiscountRate: rate,
		Discount:     discount,
		Total:        subtotal.Sub(discount),
	}
}
