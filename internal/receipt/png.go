package receipt

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

var monoSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(gomono.TTF)
})

// WritePNG rasterizes page at scale pixels per point in Go Mono.
func WritePNG(w io.Writer, page Page, scale float64) error {
	if scale <= 0 {
		scale = 1
	}

	source, err := monoSource()
	if err != nil {
		return fmt.Errorf("%w: load font: %w", domain.ErrRendering, err)
	}

	dc := gg.NewContext(int(math.Ceil(page.Width*scale)), int(math.Ceil(page.Height*scale)))
	defer func() { _ = dc.Close() }()

	dc.ClearWithColor(gg.White)
	dc.SetFont(source.Face(page.FontSize * scale))
	dc.SetRGB(0, 0, 0)

	for _, l := range page.Lines {
		dc.DrawString(l.Text, l.X*scale, l.Y*scale)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("%w: encode png: %w", domain.ErrRendering, err)
	}
	return nil
}
