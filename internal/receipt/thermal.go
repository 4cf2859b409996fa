package receipt

import (
	"fmt"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
	"github.com/joao-fontenele/pos-receipts/internal/printer"
)

// LinePrinter is the character-stream sink.
type LinePrinter interface {
	WriteLine(text string, style printer.Style) error
	Feed(lines int) error
	Cut() error
}

const trailingFeed = 3

// Print writes every line to p in order, then feeds and cuts the paper.
func Print(lines []Line, p LinePrinter) error {
	for i, l := range lines {
		if err := p.WriteLine(l.Text, styleFor(l)); err != nil {
			return fmt.Errorf("%w: line %d: %w", domain.ErrRendering, i, err)
		}
	}

	if err := p.Feed(trailingFeed); err != nil {
		return fmt.Errorf("%w: feed: %w", domain.ErrRendering, err)
	}
	if err := p.Cut(); err != nil {
		return fmt.Errorf("%w: cut: %w", domain.ErrRendering, err)
	}
	return nil
}

func styleFor(l Line) printer.Style {
	s := printer.Style{Font: printer.FontA}
	switch l.Align {
	case AlignCenter:
		s.Justify = printer.JustifyCenter
	case AlignRight:
		s.Justify = printer.JustifyRight
	default:
		s.Justify = printer.JustifyLeft
	}
	if l.Title {
		s.Size = printer.SizeDoubleHeight
		s.Bold = true
	}
	return s
}

// Encode renders lines into a complete ESC/POS job.
func Encode(lines []Line) ([]byte, error) {
	enc := printer.NewEncoder()
	if err := Print(lines, enc); err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}
