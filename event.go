package canvasbackend

import "fmt"

// EventKind tags the variant held by an Event.
type EventKind uint8

const (
	// EventNone is the "no event available" sentinel returned by empty polls.
	EventNone EventKind = iota
	// EventChar carries one Unicode scalar typed by the user.
	EventChar
	// EventKey carries a named, non-printable key (see WithNamedKeys).
	EventKey
)

// Key identifies a named key.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// keyNames maps host key names (DOM KeyboardEvent.key values) to keys.
var keyNames = map[string]Key{
	"Enter":      KeyEnter,
	"Backspace":  KeyBackspace,
	"Tab":        KeyTab,
	"Escape":     KeyEsc,
	"ArrowUp":    KeyUp,
	"ArrowDown":  KeyDown,
	"ArrowLeft":  KeyLeft,
	"ArrowRight": KeyRight,
	"Home":       KeyHome,
	"End":        KeyEnd,
	"PageUp":     KeyPageUp,
	"PageDown":   KeyPageDown,
	"Insert":     KeyInsert,
	"Delete":     KeyDelete,
	"F1":         KeyF1,
	"F2":         KeyF2,
	"F3":         KeyF3,
	"F4":         KeyF4,
	"F5":         KeyF5,
	"F6":         KeyF6,
	"F7":         KeyF7,
	"F8":         KeyF8,
	"F9":         KeyF9,
	"F10":        KeyF10,
	"F11":        KeyF11,
	"F12":        KeyF12,
}

// namesByKey is the inverse of keyNames.
var namesByKey = func() map[Key]string {
	m := make(map[Key]string, len(keyNames))
	for name, k := range keyNames {
		m[k] = name
	}
	return m
}()

// KeyByName returns the named key for a host key name.
func KeyByName(name string) (Key, bool) {
	k, ok := keyNames[name]
	return k, ok
}

// NameOf returns the host key name of k, or "" for KeyUnknown.
func NameOf(k Key) string {
	return namesByKey[k]
}

// Event is one decoded unit of input.
type Event struct {
	Kind EventKind
	Rune rune
	Key  Key
}

// NoEvent is returned when the queue is empty.
var NoEvent = Event{Kind: EventNone}

// CharEvent returns an EventChar for r.
func CharEvent(r rune) Event {
	return Event{Kind: EventChar, Rune: r}
}

// KeyPressEvent returns an EventKey for k.
func KeyPressEvent(k Key) Event {
	return Event{Kind: EventKey, Key: k}
}

func (e Event) String() string {
	switch e.Kind {
	case EventChar:
		return fmt.Sprintf("Char(%q)", e.Rune)
	case EventKey:
		if name := NameOf(e.Key); name != "" {
			return "Key(" + name + ")"
		}
		return fmt.Sprintf("Key(%d)", uint8(e.Key))
	default:
		return "None"
	}
}

// KeyEvent is a raw key-pressed notification from a host input source.
// Key is the event's text payload (a DOM KeyboardEvent.key value in
// browsers).
type KeyEvent struct {
	Key string
}
