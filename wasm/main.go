//go:build js && wasm

package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"syscall/js"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

// Global backend registry
var backends = make(map[int]*canvasbackend.Canvas)
var nextBackendID = 1

// Stderr lands on the browser console under wasm_exec.js.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	js.Global().Set("CanvasBackend", js.ValueOf(map[string]interface{}{
		// Lifecycle
		"init":  js.FuncOf(initBackend),
		"close": js.FuncOf(closeBackend),

		// Drawing
		"printAt":  js.FuncOf(printAt),
		"setColor": js.FuncOf(setColor),
		"clear":    js.FuncOf(clearScreen),
		"refresh":  js.FuncOf(refresh),
		"setTitle": js.FuncOf(setTitle),

		// Input
		"pollEvent": js.FuncOf(pollEvent),

		// Inspection
		"screenSize":   js.FuncOf(screenSize),
		"lineContent":  js.FuncOf(lineContent),
		"snapshotJSON": js.FuncOf(snapshotJSON),
	}))

	// Keep the program running
	select {}
}

// ============================================================================
// Lifecycle
// ============================================================================

// initBackend(surfaceId?, {namedKeys}?) returns an id, or {error} on failure.
func initBackend(_ js.Value, args []js.Value) interface{} {
	opts := []canvasbackend.Option{canvasbackend.WithLogger(logger)}
	if len(args) >= 1 && args[0].Type() == js.TypeString {
		opts = append(opts, canvasbackend.WithSurfaceID(args[0].String()))
	}
	if len(args) >= 2 && args[1].Type() == js.TypeObject && args[1].Get("namedKeys").Truthy() {
		opts = append(opts, canvasbackend.WithNamedKeys())
	}

	c, err := canvasbackend.Init(jsHost{global: js.Global(), logger: logger}, opts...)
	if err != nil {
		return errorValue(err)
	}

	id := nextBackendID
	nextBackendID++
	backends[id] = c
	return id
}

func closeBackend(_ js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	id := args[0].Int()
	if c := backends[id]; c != nil {
		c.Close()
		delete(backends, id)
	}
	return nil
}

func getBackend(args []js.Value) *canvasbackend.Canvas {
	if len(args) < 1 || args[0].Type() != js.TypeNumber {
		return nil
	}
	return backends[args[0].Int()]
}

// ============================================================================
// Drawing
// ============================================================================

// printAt(id, col, row, text)
func printAt(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil || len(args) < 4 {
		return nil
	}
	c.PrintAt(canvasbackend.Position{Col: args[1].Int(), Row: args[2].Int()}, args[3].String())
	return nil
}

// setColor(id, front, back) takes colors in ParseColor form and echoes the
// applied pair back.
func setColor(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil || len(args) < 3 {
		return nil
	}
	front, err := canvasbackend.ParseColor(args[1].String())
	if err != nil {
		return errorValue(err)
	}
	back, err := canvasbackend.ParseColor(args[2].String())
	if err != nil {
		return errorValue(err)
	}

	applied := c.SetColor(canvasbackend.Pair{Front: front, Back: back})
	return map[string]interface{}{
		"front": applied.Front.String(),
		"back":  applied.Back.String(),
	}
}

func clearScreen(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil {
		return nil
	}
	c.Clear(canvasbackend.TerminalDefault)
	return nil
}

func refresh(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil {
		return nil
	}
	c.Refresh()
	return nil
}

func setTitle(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil || len(args) < 2 {
		return nil
	}
	c.SetTitle(args[1].String())
	return nil
}

// ============================================================================
// Input
// ============================================================================

// pollEvent(id) returns {kind:"char",char} or {kind:"key",key}, or null.
func pollEvent(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil {
		return nil
	}
	ev, ok := c.PollEvent()
	if !ok {
		return nil
	}
	switch ev.Kind {
	case canvasbackend.EventChar:
		return map[string]interface{}{"kind": "char", "char": string(ev.Rune)}
	case canvasbackend.EventKey:
		return map[string]interface{}{"kind": "key", "key": canvasbackend.NameOf(ev.Key)}
	}
	return nil
}

// ============================================================================
// Inspection
// ============================================================================

func screenSize(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil {
		return nil
	}
	size := c.ScreenSize()
	return map[string]interface{}{"cols": size.Cols, "rows": size.Rows}
}

func lineContent(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil || len(args) < 2 {
		return ""
	}
	return c.Buffer().LineContent(args[1].Int())
}

func snapshotJSON(_ js.Value, args []js.Value) interface{} {
	c := getBackend(args)
	if c == nil {
		return nil
	}
	data, err := json.Marshal(c.Buffer().Snapshot())
	if err != nil {
		return errorValue(err)
	}
	return string(data)
}

func errorValue(err error) interface{} {
	return map[string]interface{}{"error": err.Error()}
}
