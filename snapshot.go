package canvasbackend

import (
	"encoding/json"
	"strings"
)

// Frame is an immutable point-in-time copy of a ScreenBuffer, handed to
// painters on refresh. It shares no memory with the buffer it came from.
type Frame struct {
	cols  int
	rows  int
	cells []Cell
}

// Cols returns the frame width in cells.
func (f *Frame) Cols() int {
	return f.cols
}

// Rows returns the frame height in cells.
func (f *Frame) Rows() int {
	return f.rows
}

// Len returns the number of cells.
func (f *Frame) Len() int {
	return len(f.cells)
}

// At returns the cell at row-major index i.
func (f *Frame) At(i int) Cell {
	return f.cells[i]
}

// Cell returns the cell at pos and true, or false if pos is outside the frame.
func (f *Frame) Cell(pos Position) (Cell, bool) {
	if pos.Row < 0 || pos.Row >= f.rows || pos.Col < 0 || pos.Col >= f.cols {
		return Cell{}, false
	}
	return f.cells[pos.Row*f.cols+pos.Col], true
}

// Cells returns a copy of all cells in row-major order.
func (f *Frame) Cells() []Cell {
	cells := make([]Cell, len(f.cells))
	copy(cells, f.cells)
	return cells
}

// LineContent returns the glyphs of a row with trailing blanks trimmed.
func (f *Frame) LineContent(row int) string {
	if row < 0 || row >= f.rows {
		return ""
	}
	return lineContent(f.cells[row*f.cols : (row+1)*f.cols])
}

// String returns every row's content joined by newlines, with trailing empty
// rows removed.
func (f *Frame) String() string {
	lines := make([]string, f.rows)
	last := -1
	for row := 0; row < f.rows; row++ {
		lines[row] = f.LineContent(row)
		if lines[row] != "" {
			last = row
		}
	}
	return strings.Join(lines[:last+1], "\n")
}

// FrameRecord is the paint-handoff form of one cell.
type FrameRecord struct {
	Text  string    `json:"text"`
	Color ColorPair `json:"color"`
}

// frameJSON is the serialized form passed to external paint routines.
type frameJSON struct {
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Data   []FrameRecord `json:"data"`
}

// Records returns the dense, ordered {glyph, colorPair} sequence for the
// whole grid.
func (f *Frame) Records() []FrameRecord {
	records := make([]FrameRecord, len(f.cells))
	for i, c := range f.cells {
		records[i] = FrameRecord{Text: c.Text(), Color: c.Color}
	}
	return records
}

// MarshalJSON encodes the frame as {"width", "height", "data": [records]}.
func (f *Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{
		Width:  f.cols,
		Height: f.rows,
		Data:   f.Records(),
	})
}
