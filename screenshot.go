package canvasbackend

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// RasterConfig controls how frames are rasterized into images.
type RasterConfig struct {
	// Font face to use for glyphs. If nil, uses basicfont.Face7x13.
	Font font.Face

	// CellWidth and CellHeight set the cell dimensions in pixels.
	// If zero, derived from font metrics.
	CellWidth  int
	CellHeight int
}

// Rasterizer draws frames into RGBA images, one cell at a time: background
// fill, then the glyph in the cell's foreground color.
type Rasterizer struct {
	face       font.Face
	cellWidth  int
	cellHeight int
	ascent     int
}

// NewRasterizer resolves cfg into a ready rasterizer. A nil cfg uses
// basicfont with its natural cell size.
func NewRasterizer(cfg *RasterConfig) *Rasterizer {
	if cfg == nil {
		cfg = &RasterConfig{}
	}

	face := cfg.Font
	if face == nil {
		face = basicfont.Face7x13
	}

	metrics := face.Metrics()
	cellWidth := cfg.CellWidth
	if cellWidth <= 0 {
		adv, _ := face.GlyphAdvance('M')
		cellWidth = adv.Ceil()
		if cellWidth <= 0 {
			cellWidth = 7 // fallback for basicfont
		}
	}
	cellHeight := cfg.CellHeight
	if cellHeight <= 0 {
		cellHeight = metrics.Height.Ceil()
	}

	return &Rasterizer{
		face:       face,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
		ascent:     metrics.Ascent.Ceil(),
	}
}

// CellSize returns the cell dimensions in pixels.
func (r *Rasterizer) CellSize() (width, height int) {
	return r.cellWidth, r.cellHeight
}

// Rasterize renders frame into a new image sized exactly to the grid.
func (r *Rasterizer) Rasterize(frame *Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Cols()*r.cellWidth, frame.Rows()*r.cellHeight))
	r.Draw(img, frame)
	return img
}

// Draw renders frame into dst, anchored at dst's top-left corner. Cells that
// fall outside dst are clipped.
func (r *Rasterizer) Draw(dst draw.Image, frame *Frame) {
	origin := dst.Bounds().Min

	// Backgrounds first so wide glyphs may spill into the next cell.
	for row := 0; row < frame.Rows(); row++ {
		for col := 0; col < frame.Cols(); col++ {
			cell, _ := frame.Cell(Position{Col: col, Row: row})
			rect := r.cellRect(origin, col, row, 1)
			draw.Draw(dst, rect, image.NewUniform(cell.Color.Back.NRGBA()), image.Point{}, draw.Src)
		}
	}

	for row := 0; row < frame.Rows(); row++ {
		for col := 0; col < frame.Cols(); col++ {
			cell, _ := frame.Cell(Position{Col: col, Row: row})
			if cell.IsBlank() || isZeroWidth(cell.Glyph) {
				continue
			}

			span := glyphSpan(cell.Glyph)
			if col+span > frame.Cols() {
				span = frame.Cols() - col
			}
			clip := r.cellRect(origin, col, row, span).Intersect(dst.Bounds())
			if clip.Empty() {
				continue
			}

			d := &font.Drawer{
				Dst:  clippedImage{Image: dst, clip: clip},
				Src:  image.NewUniform(cell.Color.Front.NRGBA()),
				Face: r.face,
				Dot:  fixed.P(clip.Min.X, origin.Y+row*r.cellHeight+r.ascent),
			}
			d.DrawString(cell.Text())
		}
	}
}

func (r *Rasterizer) cellRect(origin image.Point, col, row, span int) image.Rectangle {
	x := origin.X + col*r.cellWidth
	y := origin.Y + row*r.cellHeight
	return image.Rect(x, y, x+span*r.cellWidth, y+r.cellHeight)
}

// clippedImage restricts a draw.Image to a sub-rectangle so glyph ink cannot
// bleed past its cells.
type clippedImage struct {
	draw.Image
	clip image.Rectangle
}

func (c clippedImage) Bounds() image.Rectangle {
	return c.clip
}

func (c clippedImage) Set(x, y int, col color.Color) {
	if image.Pt(x, y).In(c.clip) {
		c.Image.Set(x, y, col)
	}
}

// LoadFont loads a TrueType or OpenType font from a file path.
func LoadFont(path string, size float64) (font.Face, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadFontFromReader(f, size)
}

// LoadFontFromReader loads a TrueType or OpenType font from an io.Reader.
func LoadFontFromReader(r io.Reader, size float64) (font.Face, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return LoadFontFromBytes(data, size)
}

// LoadFontFromBytes loads a TrueType or OpenType font from raw bytes.
func LoadFontFromBytes(data []byte, size float64) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
