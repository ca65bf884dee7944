package canvasbackend

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"
)

const (
	// DefaultSurfaceID is the element id looked up when none is configured.
	DefaultSurfaceID = "canvas-backend"
	// DefaultName is returned by Name when none is configured.
	DefaultName = "canvas-backend"
	// DefaultCellWidth is the default cell width in pixels.
	DefaultCellWidth = 12
	// DefaultCellHeight is the default cell height in pixels.
	DefaultCellHeight = DefaultCellWidth * 2
)

// DefaultColor is the initial color register: light black on dark green.
var DefaultColor = Pair{
	Front: Light(Black),
	Back:  Dark(Green),
}

// Backend is the contract a cell-based UI framework drives: draw primitives
// in, polled input events out.
type Backend interface {
	// Name returns a constant identifier for the backend.
	Name() string
	// PollEvent returns the next queued input event without blocking.
	PollEvent() (Event, bool)
	// SetTitle sets the title of the render surface.
	SetTitle(title string)
	// Refresh hands a full snapshot of the grid to the painter.
	Refresh()
	// HasColors reports whether colors are rendered.
	HasColors() bool
	// ScreenSize returns the grid size in cells.
	ScreenSize() Size
	// PrintAt writes text at pos using the current color.
	PrintAt(pos Position, text string)
	// Clear is accepted and ignored.
	Clear(color Color)
	// SetColor sets the current color and returns the effective pair.
	SetColor(pair Pair) Pair
	// SetEffect is accepted and ignored.
	SetEffect(effect Effect)
	// UnsetEffect is accepted and ignored.
	UnsetEffect(effect Effect)
}

var _ Backend = (*Canvas)(nil)

// Canvas implements Backend on top of a host render surface. It owns one
// ScreenBuffer and one EventBridge for its entire lifetime.
//
// Apart from PollEvent, which may race with host input delivery, a Canvas is
// driven from a single thread of control and does no locking.
type Canvas struct {
	surface Surface
	painter Painter
	buffer  *ScreenBuffer
	events  *EventBridge

	surfaceID    string
	name         string
	initialColor Pair
	cellWidth    int
	cellHeight   int
	cellFixed    bool
	namedKeys    bool
	logger       *slog.Logger
}

// Option configures a Canvas during Init.
type Option func(*Canvas)

// WithSurfaceID sets the id of the render-surface element.
func WithSurfaceID(id string) Option {
	return func(c *Canvas) {
		c.surfaceID = id
	}
}

// WithCellSize sets the pixel geometry of one cell. The grid holds
// surface width / w columns and surface height / h rows.
// Non-positive values are ignored. WithCellSize(1, 1) sizes the grid to
// one cell per pixel.
func WithCellSize(w, h int) Option {
	return func(c *Canvas) {
		if w > 0 {
			c.cellWidth = w
			c.cellFixed = true
		}
		if h > 0 {
			c.cellHeight = h
			c.cellFixed = true
		}
	}
}

// WithInitialColor sets the color of blank cells and the initial register.
func WithInitialColor(p Pair) Option {
	return func(c *Canvas) {
		c.initialColor = p
	}
}

// WithPainter sets the paint routine that receives frames on Refresh.
// If unset, a surface that implements Painter paints itself; otherwise
// frames are discarded.
func WithPainter(p Painter) Option {
	return func(c *Canvas) {
		c.painter = p
	}
}

// WithName overrides the identifier returned by Name.
func WithName(name string) Option {
	return func(c *Canvas) {
		c.name = name
	}
}

// WithLogger sets the logger. By default the backend logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) {
		c.logger = loggerOrNop(l)
	}
}

// WithNamedKeys maps host key names (Enter, ArrowUp, F1, ...) to EventKey
// events instead of decomposing them into characters.
func WithNamedKeys() Option {
	return func(c *Canvas) {
		c.namedKeys = true
	}
}

// Init locates the render surface in the host document, sizes the grid from
// it and registers the key listener. Any failure is an *InitializationError;
// nothing is left registered on failure.
func Init(host Host, opts ...Option) (*Canvas, error) {
	c := &Canvas{
		surfaceID:    DefaultSurfaceID,
		name:         DefaultName,
		initialColor: DefaultColor,
		logger:       NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	doc, err := host.Document()
	if err != nil {
		return nil, &InitializationError{Stage: "document", Err: fmt.Errorf("%w: %w", ErrNoDocument, err)}
	}
	if doc == nil {
		return nil, &InitializationError{Stage: "document", Err: ErrNoDocument}
	}

	el, ok := doc.ElementByID(c.surfaceID)
	if !ok || el == nil {
		return nil, &InitializationError{Stage: "surface", SurfaceID: c.surfaceID, Err: ErrNoSurface}
	}

	surface, ok := el.(Surface)
	if !ok {
		return nil, &InitializationError{Stage: "surface", SurfaceID: c.surfaceID, Err: ErrNotSurface}
	}
	c.surface = surface

	c.resolveCellSize()
	if c.painter == nil {
		if p, ok := surface.(Painter); ok {
			c.painter = p
		} else {
			c.painter = NoopPainter{}
		}
	}

	c.buffer = NewScreenBuffer(surface.Width()/c.cellWidth, surface.Height()/c.cellHeight, TranslatePair(c.initialColor))

	c.events = NewEventBridge(c.logger, c.namedKeys)
	if err := c.events.Attach(surface); err != nil {
		return nil, &InitializationError{Stage: "listener", SurfaceID: c.surfaceID, Err: err}
	}

	c.logger.Info("backend initialized",
		"surface", c.surfaceID,
		"pixels", [2]int{surface.Width(), surface.Height()},
		"cell", [2]int{c.cellWidth, c.cellHeight},
		"cols", c.buffer.Cols(),
		"rows", c.buffer.Rows(),
	)
	return c, nil
}

// resolveCellSize fills in cell geometry from the surface when it reports one
// and no explicit size was given, falling back to the defaults.
func (c *Canvas) resolveCellSize() {
	if !c.cellFixed {
		if cs, ok := c.surface.(CellSizer); ok {
			w, h := cs.CellSize()
			if w > 0 {
				c.cellWidth = w
			}
			if h > 0 {
				c.cellHeight = h
			}
		}
	}
	if c.cellWidth <= 0 {
		c.cellWidth = DefaultCellWidth
	}
	if c.cellHeight <= 0 {
		c.cellHeight = DefaultCellHeight
	}
}

// Close unregisters the key listener. Events already queued stay pollable.
func (c *Canvas) Close() error {
	c.events.Detach()
	c.logger.Info("backend closed", "surface", c.surfaceID)
	return nil
}

// Name returns the backend identifier.
func (c *Canvas) Name() string {
	return c.name
}

// PollEvent returns the oldest queued input event, or (NoEvent, false).
func (c *Canvas) PollEvent() (Event, bool) {
	return c.events.Poll()
}

// SetTitle forwards to the surface's title property.
func (c *Canvas) SetTitle(title string) {
	c.surface.SetTitle(title)
}

// Refresh snapshots the grid and hands the frame to the painter.
func (c *Canvas) Refresh() {
	frame := c.buffer.Snapshot()
	c.logger.Debug("refresh", "cells", frame.Len())
	c.painter.Paint(frame)
}

// HasColors always returns true.
func (c *Canvas) HasColors() bool {
	return true
}

// ScreenSize returns the grid size fixed at Init.
func (c *Canvas) ScreenSize() Size {
	return c.buffer.Size()
}

// PrintAt writes text at pos with the current color. Text that does not fit
// in the row is clipped.
func (c *Canvas) PrintAt(pos Position, text string) {
	n := c.buffer.Write(pos, text, c.buffer.Color())
	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		if total := utf8.RuneCountInString(text); n < total {
			c.logger.Debug("write clipped", "col", pos.Col, "row", pos.Row, "dropped", total-n)
		}
	}
}

// Clear is accepted and ignored.
func (c *Canvas) Clear(color Color) {
	_ = c.buffer.Clear(color)
}

// SetColor translates pair into the current color register and returns pair.
func (c *Canvas) SetColor(pair Pair) Pair {
	c.buffer.SetColor(TranslatePair(pair))
	return pair
}

// SetEffect is accepted and ignored.
func (c *Canvas) SetEffect(effect Effect) {
	_ = c.buffer.SetEffect(effect)
}

// UnsetEffect is accepted and ignored.
func (c *Canvas) UnsetEffect(effect Effect) {
	_ = c.buffer.UnsetEffect(effect)
}

// Buffer returns the backing screen buffer.
func (c *Canvas) Buffer() *ScreenBuffer {
	return c.buffer
}

// Surface returns the render surface found at Init.
func (c *Canvas) Surface() Surface {
	return c.surface
}

// CellSize returns the cell geometry in pixels.
func (c *Canvas) CellSize() (width, height int) {
	return c.cellWidth, c.cellHeight
}
