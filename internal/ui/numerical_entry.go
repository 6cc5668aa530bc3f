package ui

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only accepts digits from the keyboard.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry creates a new instance of NumericalEntry.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything that is not 0-9. Pasted text is left to the Validator.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard shows a numeric keypad on mobile devices.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// Int parses the current text.
func (e *NumericalEntry) Int() (int, error) {
	return strconv.Atoi(strings.TrimSpace(e.Text))
}

// RangeMessages are the user-facing errors of IntRangeValidator.
type RangeMessages struct {
	Required string
	NotInt   string
	Range    string
}

// IntRangeValidator accepts integers within [lo, hi].
func IntRangeValidator(lo, hi int, msgs RangeMessages) fyne.StringValidator {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return errors.New(msgs.Required)
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New(msgs.NotInt)
		}
		if n < lo || n > hi {
			return errors.New(msgs.Range)
		}
		return nil
	}
}
