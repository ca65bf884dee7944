package canvasbackend

import (
	"errors"
	"image/color"
	"testing"
)

func TestHeadlessHostDocument(t *testing.T) {
	h := NewHeadlessHost()
	doc, err := h.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}

	if _, ok := doc.ElementByID("missing"); ok {
		t.Error("expected no element")
	}

	s := NewImageSurface(10, 10, nil)
	h.Add("s", s)
	el, ok := doc.ElementByID("s")
	if !ok || el != Element(s) {
		t.Errorf("expected registered surface, got %v", el)
	}
}

func TestImageSurfaceListener(t *testing.T) {
	s := NewImageSurface(10, 10, nil)

	if s.Press("a") {
		t.Error("expected Press without listener to report false")
	}

	var got []string
	release, err := s.OnKeyDown(func(ev KeyEvent) { got = append(got, ev.Key) })
	if err != nil {
		t.Fatalf("on key down: %v", err)
	}
	if _, err := s.OnKeyDown(func(KeyEvent) {}); !errors.Is(err, ErrListenerBusy) {
		t.Errorf("expected ErrListenerBusy, got %v", err)
	}

	s.Press("x")
	release()
	s.Press("y")

	if len(got) != 1 || got[0] != "x" {
		t.Errorf("expected [x], got %v", got)
	}
}

func TestImageSurfacePaint(t *testing.T) {
	host := NewHeadlessHost()
	s := NewImageSurface(14, 13, nil)
	host.Add(DefaultSurfaceID, s)

	c, err := Init(host)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	c.SetColor(Pair{Front: Light(White), Back: Dark(Blue)})
	c.PrintAt(Position{Col: 1}, " ")
	c.Refresh()

	img := s.Image()
	if got := img.RGBAAt(10, 6); got != (color.RGBA{0x00, 0x00, 0x80, 0xff}) {
		t.Errorf("expected dark blue background, got %v", got)
	}
	if got := img.RGBAAt(3, 6); got != (color.RGBA{0x00, 0x80, 0x00, 0xff}) {
		t.Errorf("expected default dark green background, got %v", got)
	}

	img.Set(10, 6, color.RGBA{})
	if s.Image().RGBAAt(10, 6) == (color.RGBA{}) {
		t.Error("expected Image to return a copy")
	}
}

func TestImageSurfaceNegativeSize(t *testing.T) {
	s := NewImageSurface(-1, -5, nil)
	if s.Width() != 0 || s.Height() != 0 {
		t.Errorf("expected empty surface, got %dx%d", s.Width(), s.Height())
	}
}
