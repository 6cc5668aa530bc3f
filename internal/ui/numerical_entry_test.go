package ui_test

import (
	"testing"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

func TestNumericalEntry_TypedRune(t *testing.T) {
	entry := ui.NewNumericalEntry()
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Digit_Five", '5', true},
		{"Letter_a", 'a', false},
		{"Letter_Z", 'Z', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")
			test.Type(entry, string(tt.input))

			if tt.accepted {
				assert.Equal(t, string(tt.input), entry.Text)
			} else {
				assert.Empty(t, entry.Text)
			}
		})
	}
}

func TestNumericalEntry_Keyboard(t *testing.T) {
	entry := ui.NewNumericalEntry()
	assert.Equal(t, mobile.NumberKeyboard, entry.Keyboard())
}

// SetText bypasses TypedRune; the Validator catches pasted garbage.
func TestNumericalEntry_DirectSetText(t *testing.T) {
	entry := ui.NewNumericalEntry()
	entry.SetText("abc")
	assert.Equal(t, "abc", entry.Text)

	_, err := entry.Int()
	assert.Error(t, err)

	entry.SetText(" 42 ")
	n, err := entry.Int()
	assert.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestIntRangeValidator(t *testing.T) {
	validate := ui.IntRangeValidator(1, 150, ui.RangeMessages{
		Required: "required",
		NotInt:   "not a number",
		Range:    "out of range",
	})

	assert.NoError(t, validate("1"))
	assert.NoError(t, validate("150"))
	assert.NoError(t, validate(" 90 "))
	assert.EqualError(t, validate(""), "required")
	assert.EqualError(t, validate("9a"), "not a number")
	assert.EqualError(t, validate("0"), "out of range")
	assert.EqualError(t, validate("151"), "out of range")
}
