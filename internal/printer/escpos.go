// Package printer encodes receipt lines as ESC/POS and delivers print jobs
// to a thermal printer.
package printer

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	esc = 0x1b
	gs  = 0x1d
	lf  = 0x0a
)

type Justify byte

const (
	JustifyLeft Justify = iota
	JustifyCenter
	JustifyRight
)

type Font byte

const (
	FontA Font = iota
	FontB
)

// Size is the GS ! character size byte: high nibble is width, low nibble
// height, each as a multiplier minus one.
type Size byte

const (
	SizeNormal       Size = 0x00
	SizeDoubleHeight Size = 0x01
	SizeDouble       Size = 0x11
)

type Style struct {
	Justify Justify
	Size    Size
	Font    Font
	Bold    bool
}

// Encoder builds one print job in memory. Text is transcoded to code page
// 437; runes outside it are replaced.
type Encoder struct {
	buf   bytes.Buffer
	text  *encoding.Encoder
	style *Style
}

func NewEncoder() *Encoder {
	e := &Encoder{text: encoding.ReplaceUnsupported(charmap.CodePage437.NewEncoder())}
	e.Init()
	return e
}

// Init resets the printer and selects code page 437.
func (e *Encoder) Init() {
	e.buf.Write([]byte{esc, '@'})
	e.buf.Write([]byte{esc, 't', 0})
	e.style = nil
}

// WriteLine prints text followed by a line feed. Style commands are only
// emitted when they differ from the previous line.
func (e *Encoder) WriteLine(text string, style Style) error {
	e.apply(style)

	encoded, err := e.text.String(text)
	if err != nil {
		return fmt.Errorf("encode %q: %w", text, err)
	}
	e.buf.WriteString(encoded)
	e.buf.WriteByte(lf)
	return nil
}

func (e *Encoder) Feed(lines int) error {
	if lines < 0 || lines > 255 {
		return fmt.Errorf("feed %d lines: out of range", lines)
	}
	e.buf.Write([]byte{esc, 'd', byte(lines)})
	return nil
}

// Cut performs a full paper cut.
func (e *Encoder) Cut() error {
	e.buf.Write([]byte{gs, 'V', 0})
	return nil
}

func (e *Encoder) Bytes() []byte {
	return bytes.Clone(e.buf.Bytes())
}

func (e *Encoder) apply(s Style) {
	prev := e.style
	if prev == nil || prev.Justify != s.Justify {
		e.buf.Write([]byte{esc, 'a', byte(s.Justify)})
	}
	if prev == nil || prev.Size != s.Size {
		e.buf.Write([]byte{gs, '!', byte(s.Size)})
	}
	if prev == nil || prev.Font != s.Font {
		e.buf.Write([]byte{esc, 'M', byte(s.Font)})
	}
	if prev == nil || prev.Bold != s.Bold {
		bold := byte(0)
		if s.Bold {
			bold = 1
		}
		e.buf.Write([]byte{esc, 'E', bold})
	}
	e.style = &s
}
