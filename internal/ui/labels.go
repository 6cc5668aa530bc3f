package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// LabelDensity controls how many axis labels the grid shows.
type LabelDensity string

const (
	DensityNormal LabelDensity = config.DensityNormal
	DensitySparse LabelDensity = config.DensitySparse
)

// ParseDensity maps a preference or flag value to a LabelDensity.
func ParseDensity(s string) (LabelDensity, error) {
	switch LabelDensity(s) {
	case DensityNormal, "":
		return DensityNormal, nil
	case DensitySparse:
		return DensitySparse, nil
	default:
		return DensityNormal, fmt.Errorf("%s: %q", config.ErrDensity, s)
	}
}

// Step is the distance between two labelled rows or columns.
func (d LabelDensity) Step() int {
	if d == DensitySparse {
		return config.LabelStepSparse
	}
	return config.LabelStepNormal
}

// AxisLabel returns the label of row or column i, or "" when it is skipped.
func AxisLabel(i int, d LabelDensity) string {
	if i%d.Step() != 0 {
		return ""
	}
	return strconv.Itoa(i)
}

var (
	colorLived   = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}
	colorCurrent = color.NRGBA{R: 0x22, G: 0xC5, B: 0x5E, A: 0xFF}
	colorRing    = color.NRGBA{R: 0x86, G: 0xEF, B: 0xAC, A: 0xFF}
	colorFuture  = color.NRGBA{R: 0xE5, G: 0xE7, B: 0xEB, A: 0xFF}
)

// StateColor is the fill color of a cell.
func StateColor(s engine.CellState) color.Color {
	switch s {
	case engine.Lived:
		return colorLived
	case engine.Current:
		return colorCurrent
	default:
		return colorFuture
	}
}

// stateKey maps a state to its translation key and English fallback.
func stateKey(s engine.CellState) (string, string) {
	switch s {
	case engine.Lived:
		return config.TKeyStateLived, config.FallbackStateLived
	case engine.Current:
		return config.TKeyStateCurrent, config.FallbackStateNow
	default:
		return config.TKeyStateFuture, config.FallbackStateFuture
	}
}

// StateLabel is the localized name of a state ("Lived", "This week", "Future").
func (app *LifeWeeksApp) StateLabel(s engine.CellState) string {
	key, fallback := stateKey(s)
	if msg := app.GetMsg(key); msg != key {
		return msg
	}
	return fallback
}

// CellTitle is the "Age {year}, Week {week+1}" headline of a cell.
func (app *LifeWeeksApp) CellTitle(c engine.Cell) string {
	msg := app.GetMsgData(config.TKeyCellTitle, map[string]any{"Age": c.Year, "Week": c.Week + 1})
	if msg == config.TKeyCellTitle {
		return fmt.Sprintf(config.FallbackCellTitle, c.Year, c.Week+1)
	}
	return msg
}

// CellDetail is the tooltip text of a cell: title, date and state.
func (app *LifeWeeksApp) CellDetail(c engine.Cell) string {
	return fmt.Sprintf("%s · %s · %s",
		app.CellTitle(c),
		c.Date.Format(app.dateLayout()),
		app.StateLabel(c.State),
	)
}
