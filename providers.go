package canvasbackend

// --- Host ---

// Host is the environment the backend is embedded in (a browser page, a
// terminal, an in-memory test harness).
type Host interface {
	// Document returns the host document, or an error if none is available.
	Document() (Document, error)
}

// Document looks up elements by their unique identifier.
type Document interface {
	// ElementByID returns the element with the given id, or false if absent.
	ElementByID(id string) (Element, bool)
}

// Element is any element of a host document. Only elements that also
// implement Surface can back a Canvas.
type Element interface{}

// --- Surface ---

// Surface is the drawable area the backend paints into.
type Surface interface {
	InputSource

	// Width returns the surface width in pixels.
	Width() int
	// Height returns the surface height in pixels.
	Height() int
	// SetTitle sets the surface's title property.
	SetTitle(title string)
}

// InputSource delivers key-pressed notifications.
type InputSource interface {
	// OnKeyDown registers fn as the key listener. The returned release
	// function unregisters it.
	OnKeyDown(fn func(KeyEvent)) (release func(), err error)
}

// CellSizer is implemented by surfaces that know their own cell geometry
// (pixels per column and per row).
type CellSizer interface {
	CellSize() (width, height int)
}

// --- Painter ---

// Painter receives a full-grid frame on every refresh. Rasterization is
// entirely up to the implementation.
type Painter interface {
	Paint(frame *Frame)
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(frame *Frame)

func (f PainterFunc) Paint(frame *Frame) {
	f(frame)
}

// NoopPainter discards every frame.
type NoopPainter struct{}

func (NoopPainter) Paint(*Frame) {}

// Ensure implementations satisfy their interfaces
var (
	_ Painter = NoopPainter{}
	_ Painter = PainterFunc(nil)
)
