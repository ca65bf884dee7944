//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"syscall/js"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

var errNoDocument = errors.New("global document is undefined")

// ============================================================================
// Host / Document
// ============================================================================

// jsHost reads the document from the JS global object.
type jsHost struct {
	global js.Value
	logger *slog.Logger
}

func (h jsHost) Document() (canvasbackend.Document, error) {
	doc := h.global.Get("document")
	if !defined(doc) {
		return nil, errNoDocument
	}
	return jsDocument{v: doc, logger: h.logger}, nil
}

type jsDocument struct {
	v      js.Value
	logger *slog.Logger
}

// ElementByID returns a canvas surface for <canvas> elements and an opaque
// element otherwise, so Init can tell "missing" from "wrong kind".
func (d jsDocument) ElementByID(id string) (canvasbackend.Element, bool) {
	el := d.v.Call("getElementById", id)
	if !defined(el) {
		return nil, false
	}
	if !strings.EqualFold(el.Get("tagName").String(), "canvas") {
		return jsElement{v: el}, true
	}
	return newCanvasSurface(el, d.logger), true
}

type jsElement struct {
	v js.Value
}

var (
	_ canvasbackend.Host     = jsHost{}
	_ canvasbackend.Document = jsDocument{}
)

// ============================================================================
// Canvas Surface - keydown listener, paint(json) or putImageData
// ============================================================================

type canvasSurface struct {
	el      js.Value
	logger  *slog.Logger
	raster  *canvasbackend.Rasterizer
	keydown js.Func
	active  bool
}

var (
	_ canvasbackend.Surface   = (*canvasSurface)(nil)
	_ canvasbackend.Painter   = (*canvasSurface)(nil)
	_ canvasbackend.CellSizer = (*canvasSurface)(nil)
)

func newCanvasSurface(el js.Value, logger *slog.Logger) *canvasSurface {
	if logger == nil {
		logger = canvasbackend.NopLogger()
	}
	return &canvasSurface{
		el:     el,
		logger: logger,
		raster: canvasbackend.NewRasterizer(&canvasbackend.RasterConfig{
			CellWidth:  canvasbackend.DefaultCellWidth,
			CellHeight: canvasbackend.DefaultCellHeight,
		}),
	}
}

func (s *canvasSurface) Width() int {
	return s.el.Get("width").Int()
}

func (s *canvasSurface) Height() int {
	return s.el.Get("height").Int()
}

func (s *canvasSurface) CellSize() (width, height int) {
	return s.raster.CellSize()
}

// SetTitle sets the element's title attribute.
func (s *canvasSurface) SetTitle(title string) {
	s.el.Set("title", title)
}

func (s *canvasSurface) OnKeyDown(fn func(canvasbackend.KeyEvent)) (func(), error) {
	if s.active {
		return nil, canvasbackend.ErrListenerBusy
	}

	keydown := js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		key := args[0].Get("key")
		if key.Type() == js.TypeString {
			fn(canvasbackend.KeyEvent{Key: key.String()})
		}
		return nil
	})
	if err := call(s.el, "addEventListener", "keydown", keydown); err != nil {
		keydown.Release()
		return nil, err
	}
	s.keydown = keydown
	s.active = true

	return func() {
		if !s.active {
			return
		}
		s.el.Call("removeEventListener", "keydown", s.keydown)
		s.keydown.Release()
		s.active = false
	}, nil
}

// Paint hands the frame to a global paint(frame) function when the page
// defines one. Otherwise the frame is rasterized here and blitted.
func (s *canvasSurface) Paint(frame *canvasbackend.Frame) {
	if paint := js.Global().Get("paint"); paint.Type() == js.TypeFunction {
		data, err := json.Marshal(frame)
		if err != nil {
			s.logger.Warn("encode frame", "error", err)
			return
		}
		paint.Invoke(js.Global().Get("JSON").Call("parse", string(data)))
		return
	}

	img := s.raster.Rasterize(frame)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	pix := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(pix, img.Pix)
	imageData := js.Global().Get("ImageData").New(pix, w, h)
	s.el.Call("getContext", "2d").Call("putImageData", imageData, 0, 0)
}

// call invokes a method and turns a thrown JS exception into an error.
func call(v js.Value, method string, args ...interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			jsErr, ok := r.(js.Error)
			if !ok {
				panic(r)
			}
			err = jsErr
		}
	}()
	v.Call(method, args...)
	return nil
}

func defined(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}
