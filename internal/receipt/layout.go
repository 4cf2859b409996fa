package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var separator = strings.Repeat("-", Width)

// center pads text to Width, floor((Width-n)/2) spaces on the left. Text at
// or over Width is returned unchanged.
func center(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= Width {
		return text
	}
	left := (Width - n) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", Width-n-left)
}

func right(text string) string {
	n := utf8.RuneCountInString(text)
	if n >= Width {
		return text
	}
	return strings.Repeat(" ", Width-n) + text
}

// columns lays out a two-column row: left in the first 22 columns, right
// filling the rest.
func columns(left, right string) string {
	return fmt.Sprintf("%-22s%10s", left, right)
}

// amount formats a currency value grouped by thousands, fraction truncated.
// Digits come from the decimal itself so values beyond int64 keep their
// magnitude.
func amount(v decimal.Decimal) string {
	digits := v.Truncate(0).String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + 1)
	b.WriteString(sign)
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
