package tcellhost

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// pollN waits for n events or fails after a deadline.
func pollN(t *testing.T, c *canvasbackend.Canvas, n int) []canvasbackend.Event {
	t.Helper()
	var got []canvasbackend.Event
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d events, got %v", n, got)
		}
		if ev, ok := c.PollEvent(); ok {
			got = append(got, ev)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
	return got
}

func TestInitOverScreen(t *testing.T) {
	s := newScreen(t, 20, 5)

	c, err := canvasbackend.Init(New(s))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.Close()

	if got := c.ScreenSize(); got != (canvasbackend.Size{Cols: 20, Rows: 5}) {
		t.Errorf("expected 20x5 grid, got %+v", got)
	}
	if w, h := c.CellSize(); w != 1 || h != 1 {
		t.Errorf("expected 1x1 cells, got %dx%d", w, h)
	}
}

func TestInitWithoutScreen(t *testing.T) {
	_, err := canvasbackend.Init(New(nil))
	if !errors.Is(err, canvasbackend.ErrNoDocument) {
		t.Errorf("expected ErrNoDocument, got %v", err)
	}
}

func TestInitSurfaceID(t *testing.T) {
	s := newScreen(t, 10, 2)

	_, err := canvasbackend.Init(New(s, WithSurfaceID("term")))
	if !errors.Is(err, canvasbackend.ErrNoSurface) {
		t.Errorf("expected ErrNoSurface for default id, got %v", err)
	}

	c, err := canvasbackend.Init(New(s, WithSurfaceID("term")), canvasbackend.WithSurfaceID("term"))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	c.Close()
}

func TestPaint(t *testing.T) {
	s := newScreen(t, 10, 2)

	c, err := canvasbackend.Init(New(s))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.Close()

	c.SetColor(canvasbackend.Pair{
		Front: canvasbackend.Light(canvasbackend.White),
		Back:  canvasbackend.Dark(canvasbackend.Blue),
	})
	c.PrintAt(canvasbackend.Position{Col: 1, Row: 1}, "hi")
	c.Refresh()

	cells, width, _ := s.GetContents()
	at := func(col, row int) tcell.SimCell { return cells[row*width+col] }

	if r := at(1, 1).Runes; len(r) == 0 || r[0] != 'h' {
		t.Errorf("expected 'h' at (1,1), got %q", r)
	}
	if r := at(2, 1).Runes; len(r) == 0 || r[0] != 'i' {
		t.Errorf("expected 'i' at (2,1), got %q", r)
	}

	fg, bg, _ := at(1, 1).Style.Decompose()
	if fg != tcell.NewRGBColor(0xff, 0xff, 0xff) {
		t.Errorf("expected white foreground, got %v", fg)
	}
	if bg != tcell.NewRGBColor(0x00, 0x00, 0x80) {
		t.Errorf("expected dark blue background, got %v", bg)
	}

	_, bg, _ = at(0, 0).Style.Decompose()
	if bg != tcell.NewRGBColor(0x00, 0x80, 0x00) {
		t.Errorf("expected default dark green background, got %v", bg)
	}
}

func TestPaintManyColors(t *testing.T) {
	s := newScreen(t, 4, 1)

	c, err := canvasbackend.Init(New(s))
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.Close()

	for i := 0; i < 1024; i++ {
		r, g := uint8(i), uint8(i>>2)
		c.SetColor(canvasbackend.Pair{
			Front: canvasbackend.RGB(r, g, 0x10),
			Back:  canvasbackend.RGB(0x20, g, r),
		})
		c.PrintAt(canvasbackend.Position{}, "x")
		c.Refresh()

		cells, _, _ := s.GetContents()
		fg, bg, _ := cells[0].Style.Decompose()
		if want := tcell.NewRGBColor(int32(r), int32(g), 0x10); fg != want {
			t.Fatalf("step %d: expected foreground %v, got %v", i, want, fg)
		}
		if want := tcell.NewRGBColor(0x20, int32(g), int32(r)); bg != want {
			t.Fatalf("step %d: expected background %v, got %v", i, want, bg)
		}
	}
}

func TestKeyInput(t *testing.T) {
	s := newScreen(t, 10, 2)

	c, err := canvasbackend.Init(New(s), canvasbackend.WithNamedKeys())
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	defer c.Close()

	s.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	s.InjectKey(tcell.KeyUp, 0, tcell.ModNone)

	got := pollN(t, c, 2)
	if got[0] != canvasbackend.CharEvent('a') {
		t.Errorf("expected Char('a'), got %v", got[0])
	}
	if got[1] != canvasbackend.KeyPressEvent(canvasbackend.KeyUp) {
		t.Errorf("expected Key(ArrowUp), got %v", got[1])
	}
}

func TestListenerBusy(t *testing.T) {
	s := newScreen(t, 10, 2)
	surface := New(s).Surface()

	release, err := surface.OnKeyDown(func(canvasbackend.KeyEvent) {})
	if err != nil {
		t.Fatalf("on key down: %v", err)
	}
	if _, err := surface.OnKeyDown(func(canvasbackend.KeyEvent) {}); !errors.Is(err, canvasbackend.ErrListenerBusy) {
		t.Errorf("expected ErrListenerBusy, got %v", err)
	}

	release()
	release()

	release, err = surface.OnKeyDown(func(canvasbackend.KeyEvent) {})
	if err != nil {
		t.Fatalf("expected listener slot to be free after release: %v", err)
	}
	release()
}

func TestKeyText(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want string
		ok   bool
	}{
		{"rune", tcell.KeyRune, 'x', "x", true},
		{"wide rune", tcell.KeyRune, '世', "世", true},
		{"enter", tcell.KeyEnter, 0, "Enter", true},
		{"arrow", tcell.KeyLeft, 0, "ArrowLeft", true},
		{"page", tcell.KeyPgDn, 0, "PageDown", true},
		{"function", tcell.KeyF5, 0, "F5", true},
		{"unmapped", tcell.KeyPause, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keyText(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
			if got != tt.want || ok != tt.ok {
				t.Errorf("expected %q %v, got %q %v", tt.want, tt.ok, got, ok)
			}
		})
	}
}
