package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

var printNow = engine.FixedClock{At: time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local)}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-dob", "1990-06-15", "-target-age", "80", "-print", "-density", "sparse"}, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "1990-06-15", opts.dob)
	assert.Equal(t, 80, opts.targetAge)
	assert.True(t, opts.print)
	assert.Equal(t, config.DensitySparse, opts.density)
	assert.False(t, opts.debug)
}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Zero(t, opts.targetAge)
	assert.Equal(t, config.DefaultDensity, opts.density)
}

func TestRunMain_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, config.ExitCodeUsage, runMain([]string{"-nope"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "nope")
}

func TestRunMain_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, config.ExitCodeSuccess, runMain([]string{"-version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), config.AppName+" version "))
}

func TestPrintLife(t *testing.T) {
	var out bytes.Buffer
	err := printLife(&out, options{dob: "1990-06-15", density: config.DensityNormal}, printNow)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, config.TextLblLived+"1,774")
	assert.Contains(t, text, "(to age 90)")
	assert.Contains(t, text, "37.9%")
	assert.Equal(t, 1, strings.Count(text, string(config.TextGridCurrent)))
}

func TestPrintLife_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts options
		want error
	}{
		{"missing dob", options{}, engine.ErrInvalidConfiguration},
		{"bad dob", options{dob: "15/06/1990"}, engine.ErrInvalidDate},
		{"year-less dob", options{dob: "--06-15"}, engine.ErrInvalidDate},
		{"future dob", options{dob: "2030-01-01"}, engine.ErrInvalidDate},
		{"too old", options{dob: "1899-12-31"}, engine.ErrInvalidDate},
		{"bad target", options{dob: "1990-06-15", targetAge: 151}, engine.ErrInvalidConfiguration},
		{"negative target", options{dob: "1990-06-15", targetAge: -1}, engine.ErrInvalidConfiguration},
		{"bad density", options{dob: "1990-06-15", density: "dense"}, engine.ErrInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := printLife(&out, tt.opts, printNow)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, out.Len(), "nothing is printed on error")
		})
	}
}
