package tcellhost

import "github.com/gdamore/tcell/v2"

// keyNames maps tcell keys to the names a browser reports in KeyboardEvent.key.
var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "Enter",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyTab:        "Tab",
	tcell.KeyEscape:     "Escape",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyInsert:     "Insert",
	tcell.KeyDelete:     "Delete",
	tcell.KeyF1:         "F1",
	tcell.KeyF2:         "F2",
	tcell.KeyF3:         "F3",
	tcell.KeyF4:         "F4",
	tcell.KeyF5:         "F5",
	tcell.KeyF6:         "F6",
	tcell.KeyF7:         "F7",
	tcell.KeyF8:         "F8",
	tcell.KeyF9:         "F9",
	tcell.KeyF10:        "F10",
	tcell.KeyF11:        "F11",
	tcell.KeyF12:        "F12",
}

// keyText returns the KeyboardEvent.key text for ev. Keys without a
// browser equivalent report false.
func keyText(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune()), true
	}
	name, ok := keyNames[ev.Key()]
	return name, ok
}
