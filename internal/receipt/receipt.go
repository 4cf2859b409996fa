// Package receipt renders a settled order into a fixed-width line sequence
// and projects that sequence onto the thermal printer and page sinks.
package receipt

import (
	"fmt"
	"time"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// Width is the character width of a 58 mm thermal roll.
const Width = 32

const dateLayout = "2006-01-02 15:04"

type Header struct {
	Name   string `json:"name"`
	Slogan string `json:"slogan"`
	Social string `json:"social"`
	// Phone is carried with the header but does not fit the printed layout.
	Phone string `json:"phone"`
}

var DefaultHeader = Header{
	Name:   "secondcourse.",
	Slogan: "'CAUSE FIRST IS NEVER ENOUGH'",
	Social: "@secondcourse.id",
	Phone:  "0123456789",
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Line is one pre-formatted receipt row. Title marks the business name row,
// which thermal output prints larger.
type Line struct {
	Text  string
	Align Align
	Title bool
}

type Receipt struct {
	Header   Header
	Currency string
	Order    domain.Order
	Payment  domain.Payment
	IssuedAt time.Time
}

// Render lays the receipt out as Width-column lines. It is deterministic:
// equal receipts render to equal lines.
func Render(r Receipt) []Line {
	currency := r.Currency
	if currency == "" {
		currency = "Rp"
	}

	lines := make([]Line, 0, 24+2*len(r.Order.Lines))
	add := func(text string, align Align) {
		switch align {
		case AlignCenter:
			text = center(text)
		case AlignRight:
			text = right(text)
		}
		lines = append(lines, Line{Text: text, Align: align})
	}

	lines = append(lines, Line{Text: center(r.Header.Name), Align: AlignCenter, Title: true})
	add(r.Header.Slogan, AlignCenter)
	add("Instagram: "+r.Header.Social, AlignCenter)
	add(separator, AlignLeft)
	add("INVOICE", AlignCenter)
	add(separator, AlignLeft)
	add(columns("Description", "Amount"), AlignLeft)
	add(separator, AlignLeft)

	for _, l := range r.Order.Lines {
		add(fmt.Sprintf("%s - %s", l.Product.Type.DisplayName(), l.Product.Variant), AlignLeft)
		add(fmt.Sprintf("%dx%s = %s %s", l.Quantity, amount(l.UnitPrice), currency, amount(l.Total())), AlignRight)
	}

	add(separator, AlignLeft)

	quote := r.Order.Quote
	add(fmt.Sprintf("Total: %s %s", currency, amount(quote.Total)), AlignRight)
	if quote.DiscountRate.IsPositive() {
		percent := quote.DiscountRate.Shift(2).IntPart()
		add(fmt.Sprintf("Discount (%d%%): -%s %s", percent, currency, amount(quote.Discount)), AlignRight)
	}
	add(fmt.Sprintf("%s: %s %s", r.Payment.Method.Label(), currency, amount(r.Payment.Tender)), AlignRight)
	add(fmt.Sprintf("Change: %s %s", currency, amount(r.Payment.Change)), AlignRight)

	add(separator, AlignLeft)
	add(separator, AlignLeft)
	add("Date: "+r.IssuedAt.Format(dateLayout), AlignLeft)
	add("", AlignLeft)
	add("Thank you for your purchase!", AlignCenter)
	add("", AlignLeft)
	add("Best served cold", AlignCenter)
	add("Please kept refrigerated", AlignCenter)

	return lines
}

// Text returns the rendered rows as plain strings.
func Text(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}
