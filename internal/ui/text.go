package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RenderText writes the stats and the grid of snap as plain text, one row per
// year of life. It needs no fyne driver.
func RenderText(w io.Writer, snap engine.Snapshot, density LabelDensity) error {
	p := message.NewPrinter(language.English)
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, config.TextLblBirth+snap.BirthDate.Format(config.DateFormatISO))
	fmt.Fprintln(bw, config.TextLblLived+p.Sprintf(config.NumberFormat, snap.Stats.WeeksLived))
	fmt.Fprintln(bw, config.TextLblRemaining+p.Sprintf(config.NumberFormat, snap.Stats.WeeksRemaining)+
		fmt.Sprintf(config.TextFmtRemainSub, snap.TargetAge))
	fmt.Fprintln(bw, config.TextLblProgress+FormatPercent(snap.Stats.PercentLived))
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, strings.Repeat(" ", config.TextGridAxisIndent)+weekAxisLine(density))

	var row strings.Builder
	for i, c := range snap.Cells {
		week := i % config.GridColumns
		if week == 0 {
			row.Reset()
			fmt.Fprintf(&row, "%*s ", config.TextGridAxisIndent-1, AxisLabel(i/config.GridColumns, density))
		}
		row.WriteRune(cellRune(c.State))
		if week == config.GridColumns-1 {
			fmt.Fprintln(bw, row.String())
		}
	}
	return bw.Flush()
}

// weekAxisLine places each week label so that its last digit sits over its column.
func weekAxisLine(density LabelDensity) string {
	line := []rune(strings.Repeat(" ", config.GridColumns))
	for w := 0; w < config.GridColumns; w++ {
		label := AxisLabel(w+1, density)
		start := w - len(label) + 1
		if label == "" || start < 0 {
			continue
		}
		copy(line[start:], []rune(label))
	}
	return strings.TrimRight(string(line), " ")
}

func cellRune(s engine.CellState) rune {
	switch s {
	case engine.Lived:
		return config.TextGridLived
	case engine.Current:
		return config.TextGridCurrent
	default:
		return config.TextGridFuture
	}
}
