package canvasbackend

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDocument is returned when the host has no document.
	ErrNoDocument = errors.New("host document unavailable")
	// ErrNoSurface is returned when no element has the surface id.
	ErrNoSurface = errors.New("render surface not found")
	// ErrNotSurface is returned when the element is not a render surface.
	ErrNotSurface = errors.New("element is not a render surface")
	// ErrListener is returned when the key listener cannot be registered.
	ErrListener = errors.New("cannot register key listener")
	// ErrAlreadyAttached is returned when an EventBridge is attached twice.
	ErrAlreadyAttached = errors.New("event bridge already attached")
	// ErrColorSyntax is returned by ParseColor for malformed input.
	ErrColorSyntax = errors.New("invalid color")
)

// InitializationError reports a fatal failure while constructing a Canvas.
// Err is one of the sentinel errors above, possibly wrapping a host error.
type InitializationError struct {
	Stage     string
	SurfaceID string
	Err       error
}

func (e *InitializationError) Error() string {
	if e.SurfaceID == "" {
		return fmt.Sprintf("canvas backend: init %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("canvas backend: init %s %q: %v", e.Stage, e.SurfaceID, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}
