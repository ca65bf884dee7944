package wshost

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

// dial starts a server that runs handle for each accepted host and returns
// the client side of the connection.
func dial(t *testing.T, handle func(*Host, error)) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handle(Accept(w, r, WithHandshakeTimeout(2*time.Second)))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// initCanvas accepts a host and hands the initialized canvas to the test.
func initCanvas(t *testing.T, opts ...canvasbackend.Option) (*websocket.Conn, <-chan *canvasbackend.Canvas) {
	t.Helper()
	ch := make(chan *canvasbackend.Canvas, 1)
	conn := dial(t, func(h *Host, err error) {
		if err != nil {
			t.Errorf("accept: %v", err)
			close(ch)
			return
		}
		c, err := canvasbackend.Init(h, opts...)
		if err != nil {
			t.Errorf("init: %v", err)
			close(ch)
			return
		}
		ch <- c
	})
	return conn, ch
}

func receive(t *testing.T, ch <-chan *canvasbackend.Canvas) *canvasbackend.Canvas {
	t.Helper()
	select {
	case c, ok := <-ch:
		if !ok {
			t.FailNow()
		}
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for canvas")
		return nil
	}
}

type wireFrame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	Data   []struct {
		Text  string                  `json:"text"`
		Color canvasbackend.ColorPair `json:"color"`
	} `json:"data"`
}

func TestFrameMessage(t *testing.T) {
	conn, ch := initCanvas(t)
	if err := conn.WriteJSON(Message{Type: MessageSize, Width: 48, Height: 48}); err != nil {
		t.Fatalf("write size: %v", err)
	}
	c := receive(t, ch)

	if got := c.ScreenSize(); got != (canvasbackend.Size{Cols: 4, Rows: 2}) {
		t.Fatalf("expected 4x2 grid from 12x24 cells, got %+v", got)
	}

	c.PrintAt(canvasbackend.Position{}, "hi")
	c.Refresh()

	var msg Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if msg.Type != MessageFrame {
		t.Fatalf("expected frame message, got %q", msg.Type)
	}

	var frame wireFrame
	if err := json.Unmarshal(msg.Frame, &frame); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if frame.Width != 4 || frame.Height != 2 || len(frame.Data) != 8 {
		t.Fatalf("unexpected frame geometry %dx%d with %d records", frame.Width, frame.Height, len(frame.Data))
	}
	if frame.Data[0].Text != "h" || frame.Data[1].Text != "i" || frame.Data[2].Text != " " {
		t.Errorf("unexpected first row %+v", frame.Data[:4])
	}
	want := canvasbackend.ColorPair{Front: "#808080", Back: "#008000"}
	if frame.Data[0].Color != want {
		t.Errorf("expected default colors %+v, got %+v", want, frame.Data[0].Color)
	}
}

func TestClientCellSize(t *testing.T) {
	conn, ch := initCanvas(t)
	conn.WriteJSON(Message{Type: MessageSize, Width: 80, Height: 48, CellWidth: 8, CellHeight: 16})
	c := receive(t, ch)

	if got := c.ScreenSize(); got != (canvasbackend.Size{Cols: 10, Rows: 3}) {
		t.Errorf("expected 10x3 grid, got %+v", got)
	}
}

func TestKeyMessages(t *testing.T) {
	conn, ch := initCanvas(t, canvasbackend.WithNamedKeys())
	conn.WriteJSON(Message{Type: MessageSize, Width: 120, Height: 48})
	c := receive(t, ch)

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(Message{Type: MessageKey, Key: "a"})
	conn.WriteJSON(Message{Type: "unknown"})
	conn.WriteJSON(Message{Type: MessageKey, Key: "Enter"})

	var got []canvasbackend.Event
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 events, got %v", got)
		}
		if ev, ok := c.PollEvent(); ok {
			got = append(got, ev)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}

	if got[0] != canvasbackend.CharEvent('a') {
		t.Errorf("expected Char('a'), got %v", got[0])
	}
	if got[1] != canvasbackend.KeyPressEvent(canvasbackend.KeyEnter) {
		t.Errorf("expected Key(Enter), got %v", got[1])
	}
}

func TestTitleMessage(t *testing.T) {
	conn, ch := initCanvas(t)
	conn.WriteJSON(Message{Type: MessageSize, Width: 12, Height: 24})
	c := receive(t, ch)

	c.SetTitle("demo")

	var msg Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read title: %v", err)
	}
	if msg.Type != MessageTitle || msg.Title != "demo" {
		t.Errorf("expected title message demo, got %+v", msg)
	}
}

func TestHandshakeRejectsNonSize(t *testing.T) {
	errs := make(chan error, 1)
	conn := dial(t, func(_ *Host, err error) { errs <- err })
	conn.WriteJSON(Message{Type: MessageKey, Key: "a"})

	select {
	case err := <-errs:
		if !errors.Is(err, ErrHandshake) {
			t.Errorf("expected ErrHandshake, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handshake result")
	}
}

func TestHandshakeRejectsOutOfRangeSize(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"huge surface", `{"type":"size","width":4294967296,"height":4294967296,"cellWidth":1,"cellHeight":1}`},
		{"wide surface", `{"type":"size","width":40000,"height":24}`},
		{"negative height", `{"type":"size","width":12,"height":-1}`},
		{"huge cell", `{"type":"size","width":960,"height":480,"cellWidth":2048,"cellHeight":24}`},
		{"negative cell", `{"type":"size","width":960,"height":480,"cellWidth":12,"cellHeight":-24}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := make(chan error, 1)
			conn := dial(t, func(_ *Host, err error) { errs <- err })
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)); err != nil {
				t.Fatalf("write size: %v", err)
			}

			select {
			case err := <-errs:
				if !errors.Is(err, ErrHandshake) {
					t.Errorf("expected ErrHandshake, got %v", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for handshake result")
			}
		})
	}
}

func TestHandshakeAcceptsLimits(t *testing.T) {
	conn, ch := initCanvas(t)
	conn.WriteJSON(Message{Type: MessageSize, Width: MaxSurfacePixels, Height: MaxSurfacePixels, CellWidth: MaxCellPixels, CellHeight: MaxCellPixels})
	c := receive(t, ch)

	if got := c.ScreenSize(); got != (canvasbackend.Size{Cols: 32, Rows: 32}) {
		t.Errorf("expected 32x32 grid, got %+v", got)
	}
}

func TestLaterSizeOutOfRangeIgnored(t *testing.T) {
	conn, ch := initCanvas(t, canvasbackend.WithNamedKeys())
	conn.WriteJSON(Message{Type: MessageSize, Width: 120, Height: 48})
	c := receive(t, ch)

	surface, ok := c.Surface().(*Surface)
	if !ok {
		t.Fatalf("expected *Surface, got %T", c.Surface())
	}

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"size","width":4294967296,"height":4294967296}`))
	conn.WriteJSON(Message{Type: MessageKey, Key: "a"})

	// The key is read after the size message, so the size has been handled.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := c.PollEvent(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for key event")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if surface.Width() != 120 || surface.Height() != 48 {
		t.Errorf("expected 120x48 to be kept, got %dx%d", surface.Width(), surface.Height())
	}
}

func TestSurfaceID(t *testing.T) {
	errs := make(chan error, 1)
	conn := dial(t, func(h *Host, err error) {
		if err != nil {
			errs <- err
			return
		}
		_, err = canvasbackend.Init(h)
		errs <- err
	})
	conn.WriteJSON(Message{Type: MessageSize, Width: 12, Height: 24})

	// Init looks for the default id, which Accept registered.
	if err := <-errs; err != nil {
		t.Errorf("expected default id to resolve, got %v", err)
	}

	h := &Host{id: "other", surface: &Surface{}}
	if _, ok := h.ElementByID(canvasbackend.DefaultSurfaceID); ok {
		t.Error("expected lookup by a different id to fail")
	}
}

func TestDoneOnDisconnect(t *testing.T) {
	conn, ch := initCanvas(t)
	conn.WriteJSON(Message{Type: MessageSize, Width: 12, Height: 24})
	c := receive(t, ch)
	defer c.Close()

	surface, ok := c.Surface().(*Surface)
	if !ok {
		t.Fatalf("expected *Surface, got %T", c.Surface())
	}

	conn.Close()
	select {
	case <-surface.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected Done to close after the client disconnects")
	}
}
