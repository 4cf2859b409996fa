package receipt

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/joao-fontenele/pos-receipts/internal/domain"
)

// WritePDF draws page as a single-page PDF in Courier.
func WritePDF(w io.Writer, page Page, title string) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("pos-receipts", true)
	pdf.AddPage()
	pdf.SetFont("Courier", "", page.FontSize)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, l := range page.Lines {
		pdf.Text(l.X, l.Y, tr(l.Text))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: write pdf: %w", domain.ErrRendering, err)
	}
	return nil
}
