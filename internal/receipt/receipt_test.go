package receipt

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

var wib = time.FixedZone("WIB", 7*60*60)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tartReceipt() Receipt {
	return Receipt{
		Header:   DefaultHeader,
		Currency: "Rp",
		Order: domain.Order{
			Lines: []domain.OrderLine{
				{Product: domain.ProductKey{Type: domain.ProductTypeTart, Variant: "Choco"}, Quantity: 2, UnitPrice: d("150000")},
			},
			Quote: domain.Quote{
				Subtotal:     d("300000"),
				DiscountRate: d("0.05"),
				Discount:     d("15000"),
				Total:        d("285000"),
			},
			CreatedAt: time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC),
		},
		Payment: domain.Payment{
			Method: domain.PaymentMethodCash,
			Tender: d("300000"),
			Change: d("15000"),
		},
		IssuedAt: time.Date(2024, 5, 17, 14, 30, 0, 0, time.UTC).In(wib),
	}
}

func TestRender(t *testing.T) {
	t.Run("golden", func(t *testing.T) {
		want := []string{
			"         secondcourse.          ",
			" 'CAUSE FIRST IS NEVER ENOUGH'  ",
			"  Instagram: @secondcourse.id   ",
			"--------------------------------",
			"            INVOICE             ",
			"--------------------------------",
			"Description               Amount",
			"--------------------------------",
			"Tart - Choco",
			"          2x150,000 = Rp 300,000",
			"--------------------------------",
			"               Total: Rp 285,000",
			"       Discount (5%): -Rp 15,000",
			"                Cash: Rp 300,000",
			"               Change: Rp 15,000",
			"--------------------------------",
			"--------------------------------",
			"Date: 2024-05-17 21:30",
			"",
			"  Thank you for your purchase!  ",
			"",
			"        Best served cold        ",
			"    Please kept refrigerated    ",
		}

		lines := Render(tartReceipt())
		assert.Equal(t, want, Text(lines))
		assert.True(t, lines[0].Title)
		assert.False(t, lines[1].Title)
	})

	t.Run("deterministic", func(t *testing.T) {
		r := tartReceipt()
		assert.Equal(t, Render(r), Render(r))
	})

	t.Run("aligned lines are exactly the width", func(t *testing.T) {
		for _, l := range Render(tartReceipt()) {
			n := utf8.RuneCountInString(l.Text)
			assert.LessOrEqual(t, n, Width, "line %q", l.Text)
			if l.Align != AlignLeft {
				assert.Equal(t, Width, n, "line %q", l.Text)
			}
		}
	})

	t.Run("no discount line without a discount", func(t *testing.T) {
		r := tartReceipt()
		r.Order.Lines[0].Quantity = 1
		r.Order.Quote = domain.Quote{Subtotal: d("150000"), DiscountRate: decimal.Zero, Discount: decimal.Zero, Total: d("150000")}

		for _, line := range Text(Render(r)) {
			assert.NotContains(t, line, "Discount")
		}
	})

	t.Run("upper tier discount", func(t *testing.T) {
		r := tartReceipt()
		r.Order.Quote = domain.Quote{Subtotal: d("600000"), DiscountRate: d("0.10"), Discount: d("60000"), Total: d("540000")}

		assert.Contains(t, Text(Render(r)), "      Discount (10%): -Rp 60,000")
	})

	t.Run("e-payment label", func(t *testing.T) {
		r := tartReceipt()
		r.Payment = domain.Payment{Method: domain.PaymentMethodEPayment, Tender: d("285000"), Change: decimal.Zero}

		text := Text(Render(r))
		assert.Contains(t, text, "           E-payment: Rp 285,000")
		assert.Contains(t, text, "                    Change: Rp 0")
	})

	t.Run("over-long text is untouched", func(t *testing.T) {
		r := tartReceipt()
		r.Header.Slogan = "A SLOGAN THAT IS FAR TOO LONG FOR THE ROLL"

		lines := Render(r)
		assert.Equal(t, r.Header.Slogan, lines[1].Text)
	})
}

func TestLayout(t *testing.T) {
	assert.Equal(t, "               ab               ", center("ab"))
	assert.Equal(t, "              abc               ", center("abc"))
	assert.Equal(t, "                              ab", right("ab"))
	assert.Equal(t, "1,234,567", amount(d("1234567.89")))
	assert.Equal(t, "0", amount(decimal.Zero))
	assert.Equal(t, "150", amount(d("150.99")))
	assert.Equal(t, "-15,001", amount(d("-15001")))
	assert.Equal(t, "1,383,505,805,528,216,371,200,000", amount(d("1383505805528216371200000")))
}

func TestPageLayout_Place(t *testing.T) {
	lines := Render(tartReceipt())
	page := DefaultPageLayout.Place(lines)

	require.Len(t, page.Lines, len(lines))
	assert.InDelta(t, 164.41, page.Width, 0.01)
	assert.Equal(t, float64(len(lines)+5)*12, page.Height)
	assert.Equal(t, 12.0, page.Lines[0].Y)
	assert.Equal(t, float64(len(lines))*12, page.Lines[len(lines)-1].Y)
	assert.Equal(t, Text(lines)[3], page.Lines[3].Text)
	assert.Greater(t, page.Lines[0].X, 0.0)
}
