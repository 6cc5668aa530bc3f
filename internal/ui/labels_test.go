package ui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/ui"
)

func TestParseDensity(t *testing.T) {
	d, err := ui.ParseDensity("")
	require.NoError(t, err)
	assert.Equal(t, ui.DensityNormal, d)

	d, err = ui.ParseDensity(config.DensitySparse)
	require.NoError(t, err)
	assert.Equal(t, ui.DensitySparse, d)

	d, err = ui.ParseDensity("dense")
	assert.ErrorContains(t, err, config.ErrDensity)
	assert.Equal(t, ui.DensityNormal, d, "unknown values fall back to normal")
}

func TestAxisLabel(t *testing.T) {
	tests := []struct {
		i       int
		density ui.LabelDensity
		want    string
	}{
		{0, ui.DensityNormal, "0"},
		{3, ui.DensityNormal, ""},
		{5, ui.DensityNormal, "5"},
		{85, ui.DensityNormal, "85"},
		{5, ui.DensitySparse, ""},
		{10, ui.DensitySparse, "10"},
		{0, ui.DensitySparse, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ui.AxisLabel(tt.i, tt.density), "AxisLabel(%d, %s)", tt.i, tt.density)
	}
}

func TestStateColor_Distinct(t *testing.T) {
	lived := ui.StateColor(engine.Lived)
	current := ui.StateColor(engine.Current)
	future := ui.StateColor(engine.Future)

	assert.NotEqual(t, lived, current)
	assert.NotEqual(t, lived, future)
	assert.NotEqual(t, current, future)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "37.9%", ui.FormatPercent(37.9059))
	assert.Equal(t, "0.0%", ui.FormatPercent(0))
	assert.Equal(t, "100.0%", ui.FormatPercent(100))
}
