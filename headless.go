package canvasbackend

import (
	"errors"
	"image"
	"image/draw"
	"sync"
)

// HeadlessHost is an in-memory host whose document holds whatever elements
// are added to it. It is useful for tests and offline rendering.
type HeadlessHost struct {
	mu       sync.RWMutex
	elements map[string]Element
}

// NewHeadlessHost creates a host with an empty document.
func NewHeadlessHost() *HeadlessHost {
	return &HeadlessHost{elements: make(map[string]Element)}
}

// Add registers el under id, replacing any previous element.
func (h *HeadlessHost) Add(id string, el Element) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.elements[id] = el
}

// Document returns the host itself; a headless host always has a document.
func (h *HeadlessHost) Document() (Document, error) {
	return h, nil
}

// ElementByID returns the element registered under id.
func (h *HeadlessHost) ElementByID(id string) (Element, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	el, ok := h.elements[id]
	return el, ok
}

var (
	_ Host     = (*HeadlessHost)(nil)
	_ Document = (*HeadlessHost)(nil)
)

// ErrListenerBusy is returned by ImageSurface.OnKeyDown when a listener is
// already registered.
var ErrListenerBusy = errors.New("surface already has a key listener")

// ImageSurface is a render surface backed by an RGBA image. Frames painted
// to it are rasterized in place; key events are injected with Press.
type ImageSurface struct {
	mu       sync.Mutex
	img      *image.RGBA
	raster   *Rasterizer
	title    string
	listener func(KeyEvent)
	frames   int
	last     *Frame
}

// NewImageSurface creates a width x height pixel surface. cfg selects the font
// and cell geometry used to rasterize frames; nil uses basicfont.
func NewImageSurface(width, height int, cfg *RasterConfig) *ImageSurface {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &ImageSurface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		raster: NewRasterizer(cfg),
	}
}

// Width returns the surface width in pixels.
func (s *ImageSurface) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the surface height in pixels.
func (s *ImageSurface) Height() int {
	return s.img.Bounds().Dy()
}

// CellSize reports the rasterizer's cell geometry.
func (s *ImageSurface) CellSize() (width, height int) {
	return s.raster.CellSize()
}

// SetTitle stores the title.
func (s *ImageSurface) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Title returns the last title set.
func (s *ImageSurface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// OnKeyDown registers the single key listener.
func (s *ImageSurface) OnKeyDown(fn func(KeyEvent)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil, ErrListenerBusy
	}
	s.listener = fn
	return func() {
		s.mu.Lock()
		s.listener = nil
		s.mu.Unlock()
	}, nil
}

// Press delivers a key event with the given text payload to the listener.
// Returns false if no listener is registered.
func (s *ImageSurface) Press(key string) bool {
	s.mu.Lock()
	fn := s.listener
	s.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(KeyEvent{Key: key})
	return true
}

// Paint rasterizes frame onto the surface image.
func (s *ImageSurface) Paint(frame *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raster.Draw(s.img, frame)
	s.frames++
	s.last = frame
}

// Frames returns how many frames have been painted.
func (s *ImageSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// LastFrame returns the most recently painted frame, or nil.
func (s *ImageSurface) LastFrame() *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Image returns a copy of the surface pixels.
func (s *ImageSurface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := image.NewRGBA(s.img.Bounds())
	draw.Draw(out, out.Bounds(), s.img, s.img.Bounds().Min, draw.Src)
	return out
}

var (
	_ Surface   = (*ImageSurface)(nil)
	_ Painter   = (*ImageSurface)(nil)
	_ CellSizer = (*ImageSurface)(nil)
)
