// Package tcellhost runs a canvas backend inside a terminal.
//
// A Host exposes a single tcell screen as the drawing surface. Each grid
// cell maps to one terminal cell, so the cell size is always 1x1 and the
// grid is the terminal size at initialization.
//
//	screen, _ := tcell.NewScreen()
//	screen.Init()
//	defer screen.Fini()
//
//	c, err := canvasbackend.Init(tcellhost.New(screen), canvasbackend.WithNamedKeys())
package tcellhost

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

var errNoScreen = errors.New("tcellhost: no screen")

// Option configures a Host.
type Option func(*Host)

// WithSurfaceID registers the surface under id instead of the default.
func WithSurfaceID(id string) Option {
	return func(h *Host) {
		if id != "" {
			h.id = id
		}
	}
}

// WithLogger sets the logger used for input loop warnings.
func WithLogger(l *slog.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// Host is a single-surface document backed by a tcell.Screen.
type Host struct {
	id      string
	logger  *slog.Logger
	surface *Surface
}

// New creates a host for an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Host {
	h := &Host{
		id:     canvasbackend.DefaultSurfaceID,
		logger: canvasbackend.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if screen != nil {
		h.surface = &Surface{
			screen: screen,
			logger: h.logger,
		}
	}
	return h
}

// Document implements canvasbackend.Host.
func (h *Host) Document() (canvasbackend.Document, error) {
	if h.surface == nil {
		return nil, errNoScreen
	}
	return h, nil
}

// ElementByID implements canvasbackend.Document.
func (h *Host) ElementByID(id string) (canvasbackend.Element, bool) {
	if id != h.id || h.surface == nil {
		return nil, false
	}
	return h.surface, true
}

// Surface returns the terminal surface, or nil without a screen.
func (h *Host) Surface() *Surface {
	return h.surface
}

// Surface draws frames onto a tcell screen and forwards its key events.
type Surface struct {
	screen tcell.Screen
	logger *slog.Logger

	mu   sync.Mutex
	quit chan struct{}
}

var (
	_ canvasbackend.Host      = (*Host)(nil)
	_ canvasbackend.Surface   = (*Surface)(nil)
	_ canvasbackend.Painter   = (*Surface)(nil)
	_ canvasbackend.CellSizer = (*Surface)(nil)
)

// Width returns the terminal width in cells.
func (s *Surface) Width() int {
	w, _ := s.screen.Size()
	return w
}

// Height returns the terminal height in cells.
func (s *Surface) Height() int {
	_, h := s.screen.Size()
	return h
}

// CellSize reports one unit per terminal cell.
func (s *Surface) CellSize() (width, height int) {
	return 1, 1
}

// SetTitle sets the terminal window title where the screen supports it.
func (s *Surface) SetTitle(title string) {
	if t, ok := s.screen.(interface{ SetTitle(string) }); ok {
		t.SetTitle(title)
	}
}

// OnKeyDown starts polling the screen for key events. Only one listener
// may be registered at a time; release stops the polling loop.
func (s *Surface) OnKeyDown(fn func(canvasbackend.KeyEvent)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quit != nil {
		return nil, canvasbackend.ErrListenerBusy
	}
	quit := make(chan struct{})
	done := make(chan struct{})
	s.quit = quit

	go func() {
		defer close(done)
		s.poll(fn, quit)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			close(quit)
			s.quit = nil
			s.mu.Unlock()

			// Wake PollEvent so the loop notices quit.
			if err := s.screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
				s.logger.Warn("wake input loop", "error", err)
			}
			<-done
		})
	}, nil
}

func (s *Surface) poll(fn func(canvasbackend.KeyEvent), quit <-chan struct{}) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-quit:
			return
		default:
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if key, ok := keyText(ev); ok {
				fn(canvasbackend.KeyEvent{Key: key})
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Paint draws frame at the top-left corner of the screen and shows it.
// Cells beyond the current terminal size are clipped.
func (s *Surface) Paint(frame *canvasbackend.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	for row := 0; row < frame.Rows() && row < h; row++ {
		covered := false
		for col := 0; col < frame.Cols() && col < w; col++ {
			cell, _ := frame.Cell(canvasbackend.Position{Col: col, Row: row})
			if covered && cell.IsBlank() {
				covered = false
				continue
			}

			glyph := cell.Glyph
			if glyph == 0 {
				glyph = ' '
			}
			s.screen.SetContent(col, row, glyph, nil, style(cell.Color))
			covered = canvasbackend.StringWidth(string(glyph)) == 2
		}
	}
	s.screen.Show()
}

func style(pair canvasbackend.ColorPair) tcell.Style {
	return tcell.StyleDefault.Foreground(toColor(pair.Front)).Background(toColor(pair.Back))
}

func toColor(p canvasbackend.PixelColor) tcell.Color {
	r, g, b := p.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
