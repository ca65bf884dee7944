package canvasbackend

import "strings"

// ScreenBuffer is a fixed-size, row-major grid of cells plus the current
// color register applied by callers to subsequent writes.
//
// The grid is allocated once and never resized: Len() == Cols()*Rows() for
// the lifetime of the buffer. ScreenBuffer is not safe for concurrent use;
// it is owned by the framework's single thread of control and handed to
// renderers only through Snapshot.
type ScreenBuffer struct {
	cols  int
	rows  int
	cells []Cell
	color ColorPair
}

// MaxCells caps the number of cells in a ScreenBuffer.
const MaxCells = 1 << 20

// NewScreenBuffer creates a cols x rows buffer filled with blank cells in the
// given color, which also becomes the current color register.
// Negative dimensions are treated as zero. Grids larger than MaxCells keep
// their width (itself capped at MaxCells) and lose rows until they fit.
func NewScreenBuffer(cols, rows int, color ColorPair) *ScreenBuffer {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	if cols > MaxCells {
		cols = MaxCells
	}
	if cols > 0 && rows > MaxCells/cols {
		rows = MaxCells / cols
	}

	b := &ScreenBuffer{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
		color: color,
	}
	for i := range b.cells {
		b.cells[i] = NewCell(color)
	}
	return b
}

// Cols returns the grid width in character columns.
func (b *ScreenBuffer) Cols() int {
	return b.cols
}

// Rows returns the grid height in character rows.
func (b *ScreenBuffer) Rows() int {
	return b.rows
}

// Size returns the grid dimensions.
func (b *ScreenBuffer) Size() Size {
	return Size{Cols: b.cols, Rows: b.rows}
}

// Len returns the number of cells.
func (b *ScreenBuffer) Len() int {
	return len(b.cells)
}

// Cell returns the cell at pos and true, or a zero Cell and false if pos is
// outside the grid.
func (b *ScreenBuffer) Cell(pos Position) (Cell, bool) {
	i, ok := b.index(pos)
	if !ok {
		return Cell{}, false
	}
	return b.cells[i], true
}

// Write stores text one Unicode scalar per cell starting at pos, advancing one
// column per scalar along the same row. Scalars that would land past the last
// column, or a pos outside the grid, are dropped: writes clip, never wrap.
// Every written cell receives a copy of color.
//
// Returns the number of cells written.
func (b *ScreenBuffer) Write(pos Position, text string, color ColorPair) int {
	if pos.Row < 0 || pos.Row >= b.rows {
		return 0
	}

	written := 0
	col := pos.Col
	rowStart := pos.Row * b.cols
	for _, r := range text {
		if col >= b.cols {
			break
		}
		if col >= 0 {
			b.cells[rowStart+col] = Cell{Glyph: r, Color: color}
			written++
		}
		col++
	}
	return written
}

// Color returns the current color register.
func (b *ScreenBuffer) Color() ColorPair {
	return b.color
}

// SetColor replaces the current color register and returns the previous one.
func (b *ScreenBuffer) SetColor(color ColorPair) ColorPair {
	prev := b.color
	b.color = color
	return prev
}

// Snapshot returns an independent copy of every cell. Later writes to the
// buffer do not affect the returned frame.
func (b *ScreenBuffer) Snapshot() *Frame {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Frame{
		cols:  b.cols,
		rows:  b.rows,
		cells: cells,
	}
}

// Clear is accepted and ignored; this buffer has no screen-clear capability.
// It always returns nil.
func (b *ScreenBuffer) Clear(Color) error {
	return nil
}

// SetEffect is accepted and ignored; text effects are not supported.
// It always returns nil.
func (b *ScreenBuffer) SetEffect(Effect) error {
	return nil
}

// UnsetEffect is accepted and ignored. It always returns nil.
func (b *ScreenBuffer) UnsetEffect(Effect) error {
	return nil
}

// LineContent returns the glyphs of a row with trailing blanks trimmed.
// Returns "" if row is out of bounds.
func (b *ScreenBuffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	return lineContent(b.cells[row*b.cols : (row+1)*b.cols])
}

func (b *ScreenBuffer) index(pos Position) (int, bool) {
	if pos.Row < 0 || pos.Row >= b.rows || pos.Col < 0 || pos.Col >= b.cols {
		return 0, false
	}
	return pos.Row*b.cols + pos.Col, true
}

func lineContent(row []Cell) string {
	last := -1
	for i := len(row) - 1; i >= 0; i-- {
		if !row[i].IsBlank() {
			last = i
			break
		}
	}
	if last < 0 {
		return ""
	}

	var sb strings.Builder
	for _, c := range row[:last+1] {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// Position identifies a cell location in the grid (0-based).
type Position struct {
	Col int
	Row int
}

// Size holds grid dimensions in cells.
type Size struct {
	Cols int
	Rows int
}

// Effect names a text effect a framework may request. None are rendered.
type Effect uint8

const (
	EffectSimple Effect = iota
	EffectReverse
	EffectBold
	EffectItalic
	EffectStrikethrough
	EffectUnderline
	EffectBlink
)
