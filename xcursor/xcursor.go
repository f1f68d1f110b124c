// Package xcursor creates glyph cursors from the X core cursor font.
package xcursor

import (
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Glyph is an index into the core "cursor" font. Each glyph is followed by
// its mask at Glyph+1.
type Glyph uint16

const (
	XCursor  Glyph = 0
	Arrow    Glyph = 2
	Fleur    Glyph = 52
	LeftPtr  Glyph = 68
	Sizing   Glyph = 120
	Watch    Glyph = 150
	XTerm    Glyph = 152
	fontName       = "cursor"
)

type Color struct {
	R, G, B uint16
}

var (
	White = Color{R: 0xffff, G: 0xffff, B: 0xffff}
	Black = Color{}
)

// Create returns a white on black cursor for glyph.
func Create(conn *xgb.Conn, glyph Glyph) (xproto.Cursor, error) {
	return CreateColored(conn, glyph, White, Black)
}

func CreateColored(conn *xgb.Conn, glyph Glyph, fore, back Color) (xproto.Cursor, error) {
	fontID, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, err
	}

	cursorID, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}

	if err := xproto.OpenFontChecked(conn, fontID, uint16(len(fontName)), fontName).Check(); err != nil {
		return 0, fmt.Errorf("open cursor font: %w", err)
	}
	defer xproto.CloseFont(conn, fontID)

	err = xproto.CreateGlyphCursorChecked(conn, cursorID, fontID, fontID,
		uint16(glyph), uint16(glyph)+1,
		fore.R, fore.G, fore.B,
		back.R, back.G, back.B).Check()
	if err != nil {
		return 0, fmt.Errorf("create glyph cursor %d: %w", glyph, err)
	}

	return cursorID, nil
}
