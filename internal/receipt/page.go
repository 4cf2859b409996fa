package receipt

const pointsPerMM = 72 / 25.4

// monoAdvance is the horizontal advance of Courier and Go Mono per point of
// font size.
const monoAdvance = 0.6

// PageLayout sizes the page sink. Lengths are in points unless named
// otherwise.
type PageLayout struct {
	WidthMM     float64
	LineHeight  float64
	MarginLines int
	FontSize    float64
}

var DefaultPageLayout = PageLayout{
	WidthMM:     58,
	LineHeight:  12,
	MarginLines: 5,
	FontSize:    8,
}

type PlacedLine struct {
	Text string
	X    float64
	Y    float64 // baseline
}

type Page struct {
	Width    float64
	Height   float64
	FontSize float64
	Lines    []PlacedLine
}

// Place puts line i on the baseline (i+1)*LineHeight. The page is
// (len(lines)+MarginLines)*LineHeight tall; the Width-column block is
// centered horizontally.
func (l PageLayout) Place(lines []Line) Page {
	width := l.WidthMM * pointsPerMM

	x := (width - float64(Width)*l.FontSize*monoAdvance) / 2
	if x < 0 {
		x = 0
	}

	page := Page{
		Width:    width,
		Height:   float64(len(lines)+l.MarginLines) * l.LineHeight,
		FontSize: l.FontSize,
		Lines:    make([]PlacedLine, len(lines)),
	}
	for i, line := range lines {
		page.Lines[i] = PlacedLine{Text: line.Text, X: x, Y: float64(i+1) * l.LineHeight}
	}
	return page
}
