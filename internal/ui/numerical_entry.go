package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry accepts ASCII digits only, typed or pasted, up to MaxDigits
// when that is set. SetText is not filtered so the date mask can add separators.
type NumericalEntry struct {
	widget.Entry

	MaxDigits int
}

func NewNumericalEntry() *NumericalEntry {
	e := &NumericalEntry{}
	e.ExtendBaseWidget(e)
	return e
}

// NewDigitsEntry returns an entry limited to max digits, such as 8 for dd/mm/yyyy.
func NewDigitsEntry(max int) *NumericalEntry {
	e := NewNumericalEntry()
	e.MaxDigits = max
	return e
}

func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || e.full() {
		return
	}
	e.Entry.TypedRune(r)
}

// TypedShortcut filters pasted text through TypedRune; other shortcuts pass through.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok || paste.Clipboard == nil {
		e.Entry.TypedShortcut(s)
		return
	}
	for _, r := range paste.Clipboard.Content() {
		e.TypedRune(r)
	}
}

func (e *NumericalEntry) full() bool {
	if e.MaxDigits <= 0 {
		return false
	}
	n := 0
	for _, r := range e.Text {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= e.MaxDigits
}

// Keyboard asks mobile drivers for the numeric keypad.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
