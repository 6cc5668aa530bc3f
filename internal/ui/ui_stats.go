package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// statsView is the three-card summary above the grid.
type statsView struct {
	app *LifeWeeksApp

	lived     *widget.Card
	remaining *widget.Card
	progress  *widget.Card
	bar       *widget.ProgressBar
	content   fyne.CanvasObject
}

func newStatsView(app *LifeWeeksApp) *statsView {
	s := &statsView{
		app:       app,
		lived:     widget.NewCard("", app.GetMsg(config.TKeyStatLived), nil),
		remaining: widget.NewCard("", app.GetMsg(config.TKeyStatRemaining), nil),
		progress:  widget.NewCard("", app.GetMsg(config.TKeyStatProgress), nil),
		bar:       widget.NewProgressBar(),
	}
	s.bar.Max = config.PercentCap
	s.bar.TextFormatter = func() string { return "" }

	title := widget.NewLabelWithStyle(app.GetMsg(config.TKeyStatsTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	s.content = container.NewVBox(
		title,
		container.NewGridWithColumns(config.LayoutColumns3, s.lived, s.remaining, s.progress),
		s.bar,
	)
	return s
}

func (s *statsView) update(snap engine.Snapshot) {
	st := snap.Stats
	s.lived.SetTitle(s.app.FormatInt(st.WeeksLived))
	s.remaining.SetTitle(s.app.FormatInt(st.WeeksRemaining))
	s.remaining.SetSubTitle(s.app.GetMsg(config.TKeyStatRemaining) + " " +
		s.app.GetMsgData(config.TKeyStatRemainSub, map[string]any{"Age": snap.TargetAge}))
	s.progress.SetTitle(FormatPercent(st.PercentLived))
	s.progress.SetSubTitle(s.app.GetMsg(config.TKeyStatProgress) + " " + s.app.GetMsg(config.TKeyStatApprox))
	s.bar.SetValue(st.PercentLived)
}

// FormatPercent renders a life progress ratio with one decimal ("37.9%").
func FormatPercent(p float64) string {
	return fmt.Sprintf(config.PercentFormat, p)
}
