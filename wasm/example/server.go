//go:build !js

package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
	"github.com/danielgatis/go-canvas-backend/wshost"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// handleWebSocket runs a small typing demo against a remote canvas: every
// printable key is echoed at the cursor, Enter starts a new line.
func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	host, err := wshost.Accept(w, r,
		wshost.WithLogger(logger),
		wshost.WithCheckOrigin(func(*http.Request) bool { return true }), // Allow all origins for demo
	)
	if err != nil {
		logger.Error("accept", "error", err)
		return
	}
	defer host.Close()

	c, err := canvasbackend.Init(host, canvasbackend.WithNamedKeys(), canvasbackend.WithLogger(logger))
	if err != nil {
		logger.Error("init backend", "error", err)
		return
	}
	defer c.Close()

	size := c.ScreenSize()
	logger.Info("new remote session", "cols", size.Cols, "rows", size.Rows)

	c.SetTitle("canvas-backend remote demo")
	c.SetColor(canvasbackend.Pair{Front: canvasbackend.Light(canvasbackend.Yellow), Back: canvasbackend.Dark(canvasbackend.Blue)})
	c.PrintAt(canvasbackend.Position{}, "type something, Escape quits")
	c.SetColor(canvasbackend.DefaultColor)
	c.Refresh()

	cursor := canvasbackend.Position{Row: 1}
	ticker := time.NewTicker(30 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-host.Surface().Done():
			logger.Info("remote session closed")
			return
		case <-ticker.C:
		}

		dirty := false
		for {
			ev, ok := c.PollEvent()
			if !ok {
				break
			}
			switch {
			case ev.Kind == canvasbackend.EventKey && ev.Key == canvasbackend.KeyEsc:
				return
			case ev.Kind == canvasbackend.EventKey && ev.Key == canvasbackend.KeyEnter:
				cursor = canvasbackend.Position{Row: cursor.Row + 1}
			case ev.Kind == canvasbackend.EventChar:
				text := string(ev.Rune)
				c.PrintAt(cursor, text)
				cursor.Col += canvasbackend.StringWidth(text)
				if cursor.Col >= size.Cols {
					cursor = canvasbackend.Position{Row: cursor.Row + 1}
				}
			}
			if cursor.Row >= size.Rows {
				cursor.Row = 1
			}
			dirty = true
		}
		if dirty {
			c.Refresh()
		}
	}
}

func main() {
	// Static files
	fs := http.FileServer(http.Dir("."))
	http.Handle("/", fs)

	// WebSocket endpoint
	http.HandleFunc("/ws", handleWebSocket)

	// Handle graceful shutdown
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		logger.Info("shutting down")
		os.Exit(0)
	}()

	addr := ":8080"
	logger.Info("server starting", "url", "http://localhost"+addr, "ws", "ws://localhost"+addr+"/ws")
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}
