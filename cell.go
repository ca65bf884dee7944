package canvasbackend

// Cell stores the glyph and translated colors for one grid position.
// Cells have no identity beyond their slot in the grid.
type Cell struct {
	Glyph rune
	Color ColorPair
}

// NewCell creates a blank cell (space glyph) painted with color.
func NewCell(color ColorPair) Cell {
	return Cell{
		Glyph: ' ',
		Color: color,
	}
}

// Text returns the glyph as a string, mapping the zero rune to a space.
func (c Cell) Text() string {
	if c.Glyph == 0 {
		return " "
	}
	return string(c.Glyph)
}

// IsBlank returns true if the cell holds only whitespace.
func (c Cell) IsBlank() bool {
	return c.Glyph == ' ' || c.Glyph == 0
}
