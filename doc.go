// Package canvasbackend provides a rendering-and-input backend for
// text-cell UI frameworks that draws onto a pixel render surface.
//
// A framework drives the backend with draw primitives (set a color, print
// text at a position, refresh) and polls it for input. The backend keeps an
// in-memory character/color grid, hands full snapshots of it to a paint
// routine, and turns host key notifications into a non-blocking event queue.
//
// # Quick Start
//
// Create a host, register a surface under the well-known id and initialize
// the backend:
//
//	host := canvasbackend.NewHeadlessHost()
//	surface := canvasbackend.NewImageSurface(640, 480, nil)
//	host.Add(canvasbackend.DefaultSurfaceID, surface)
//
//	be, err := canvasbackend.Init(host)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer be.Close()
//
//	be.SetColor(canvasbackend.Pair{
//	    Front: canvasbackend.Light(canvasbackend.White),
//	    Back:  canvasbackend.Dark(canvasbackend.Blue),
//	})
//	be.PrintAt(canvasbackend.Position{Col: 0, Row: 0}, "Hello")
//	be.Refresh()
//
// # Architecture
//
// The package is organized around these core types:
//
//   - [Canvas]: composition root implementing [Backend]
//   - [ScreenBuffer]: fixed-size grid of [Cell] values plus the current color register
//   - [Frame]: immutable snapshot handed to a [Painter] on refresh
//   - [EventBridge]: host key listener feeding an unbounded [EventQueue]
//
// # Colors
//
// Frameworks speak in abstract [Color] values: [Dark] and [Light] intensities
// of the 8 [BaseColor] names, direct [RGB], 4-bit [LowRes] and
// [TerminalDefault]. [Translate] maps every one of them to a [PixelColor]
// hex string:
//
//	canvasbackend.Translate(canvasbackend.Light(canvasbackend.Black)) // "#808080"
//	canvasbackend.Translate(canvasbackend.RGB(18, 52, 86))            // "#123456"
//	canvasbackend.Translate(canvasbackend.LowRes(1, 2, 3))            // "#123"
//	canvasbackend.Translate(canvasbackend.TerminalDefault)            // "#00ff00"
//
// [ParseColor] reads the text form [Color.String] writes ("dark:red",
// "#ff8800", "#f80", "default").
//
// Cells store translated colors by value, so changing the current color
// never affects cells that were already written.
//
// # Grid Geometry
//
// The grid is sized once at [Init] from the surface's pixel dimensions and
// the cell geometry: columns = width / cell width, rows = height / cell
// height. The cell geometry comes from [WithCellSize], from a surface that
// implements [CellSizer], or defaults to 12x24 pixels. The grid is never
// resized. Text printed past the end of a row is clipped.
//
// # Input
//
// The backend registers exactly one key listener on the surface. Each host
// event's text payload is decomposed into one [EventChar] per Unicode scalar,
// in order. [Canvas.PollEvent] returns the oldest event or (NoEvent, false);
// it never blocks.
//
//	for {
//	    ev, ok := be.PollEvent()
//	    if !ok {
//	        break
//	    }
//	    fmt.Println(ev)
//	}
//
// With [WithNamedKeys], names such as "Enter" or "ArrowUp" become [EventKey]
// events instead.
//
// # Painting
//
// [Canvas.Refresh] snapshots the grid and passes the [Frame] to the
// configured [Painter]. Surfaces that implement Painter paint themselves.
// A frame serializes to JSON as a dense record list:
//
//	{"width":2,"height":1,"data":[{"text":"A","color":{"front":"#808080","back":"#008000"}}, ...]}
//
// [Rasterizer] renders frames into RGBA images using golang.org/x/image
// fonts, which is what [ImageSurface] does on every paint.
//
// # Hosts
//
//   - [HeadlessHost] and [ImageSurface]: in-memory document and image-backed surface
//   - package tcellhost: a terminal screen driven by tcell
//   - package wshost: a thin browser client over a websocket
//   - the wasm module: an HTML canvas in a browser page
//
// # Unsupported Capabilities
//
// Clear, SetEffect and UnsetEffect are accepted and ignored so frameworks
// that always call them need no special cases.
//
// # Logging
//
// The backend is silent by default. Pass a *slog.Logger with [WithLogger]
// to see initialization, refresh and clipping diagnostics.
package canvasbackend
