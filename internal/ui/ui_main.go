package ui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// lifeView is the content of the main window: the birth date form, then the
// stats, grid, legend and footer once a date is visualized.
type lifeView struct {
	app *LifeWeeksApp

	entry  *widget.Entry
	form   fyne.CanvasObject
	result fyne.CanvasObject
	stats  *statsView
	grid   *gridView
	footer *widget.Label
}

// ShowMainWindow creates the main window, or focuses it when already open.
func (app *LifeWeeksApp) ShowMainWindow() {
	if app.Window != nil {
		app.Window.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w
	app.view = newLifeView(app)

	w.SetContent(app.view.content())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))
	w.SetOnClosed(func() {
		app.Window = nil
		app.view = nil
	})

	if snap, ok := app.Snapshot(); ok {
		app.view.showResult(snap, app.Density())
	}
	w.Show()
}

// rebuildMainWindow recreates the widgets after a language change.
func (app *LifeWeeksApp) rebuildMainWindow() {
	if app.Window == nil {
		return
	}
	app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	app.view = newLifeView(app)
	app.Window.SetContent(app.view.content())
	if snap, ok := app.Snapshot(); ok {
		app.view.showResult(snap, app.Density())
	}
}

func newLifeView(app *LifeWeeksApp) *lifeView {
	v := &lifeView{app: app}

	v.entry = widget.NewEntry()
	v.entry.PlaceHolder = config.PlaceholderDate
	v.entry.Validator = app.validateBirthDate
	v.entry.OnSubmitted = func(string) { v.visualize() }

	headline := widget.NewLabelWithStyle(app.GetMsg(config.TKeyHeadline), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	intro := widget.NewLabel(app.GetMsg(config.TKeyIntro))
	intro.Wrapping = fyne.TextWrapWord
	intro.Alignment = fyne.TextAlignCenter

	itemDate := widget.NewFormItem(app.GetMsg(config.TKeyLblBirthDate), v.entry)
	itemDate.HintText = app.GetMsg(config.TKeyHintBirthDate)

	btnVisualize := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnVisualize), theme.ConfirmIcon(), v.visualize)
	btnVisualize.Importance = widget.HighImportance
	btnImport := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnImport), theme.DownloadIcon(), v.importProfile)

	v.form = container.NewVBox(
		headline,
		intro,
		widget.NewForm(itemDate),
		container.NewGridWithColumns(config.LayoutColumns2, btnImport, btnVisualize),
	)

	v.stats = newStatsView(app)
	v.grid = newGridView(app)

	v.footer = widget.NewLabel("")
	v.footer.Alignment = fyne.TextAlignCenter
	v.footer.TextStyle = fyne.TextStyle{Italic: true}

	btnReset := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnReset), theme.NavigateBackIcon(), app.ClearProfile)

	v.result = container.NewBorder(
		v.stats.content,
		container.NewVBox(v.grid.detail, v.legend(), v.footer, btnReset),
		nil, nil,
		container.NewScroll(v.grid.content),
	)
	v.result.Hide()
	return v
}

func (v *lifeView) content() fyne.CanvasObject {
	toolbar := container.NewHBox(
		widget.NewButtonWithIcon(v.app.GetMsg(config.TKeyBtnEvents), theme.ListIcon(), v.app.ShowEventsWindow),
		widget.NewButtonWithIcon(v.app.GetMsg(config.TKeyBtnSettings), theme.SettingsIcon(), v.app.ShowSettingsWindow),
	)
	return container.NewBorder(
		container.NewBorder(nil, nil, nil, toolbar),
		nil, nil, nil,
		container.NewStack(container.NewCenter(v.form), v.result),
	)
}

func (v *lifeView) legend() fyne.CanvasObject {
	swatch := func(s engine.CellState, key string) fyne.CanvasObject {
		r := canvas.NewRectangle(StateColor(s))
		r.SetMinSize(fyne.NewSize(config.CellSize, config.CellSize))
		return container.NewHBox(container.NewCenter(r), widget.NewLabel(v.app.GetMsg(key)))
	}
	return container.NewCenter(container.NewHBox(
		swatch(engine.Lived, config.TKeyLegendLived),
		swatch(engine.Current, config.TKeyLegendCurrent),
		swatch(engine.Future, config.TKeyLegendFuture),
	))
}

// footerText lists the reading keys of the grid.
func (app *LifeWeeksApp) footerText(snap engine.Snapshot) string {
	return strings.Join([]string{
		app.GetMsg(config.TKeyFooterBirth),
		app.GetMsg(config.TKeyFooterRow),
		app.GetMsg(config.TKeyFooterWeeks),
		app.GetMsgData(config.TKeyFooterYears, map[string]any{"Age": snap.TargetAge}),
		app.GetMsgData(config.TKeyFooterTotal, map[string]any{"Total": app.FormatInt(snap.Stats.TotalWeeks)}),
	}, " · ")
}

func (v *lifeView) showForm() {
	v.result.Hide()
	v.form.Show()
}

func (v *lifeView) showResult(snap engine.Snapshot, density LabelDensity) {
	v.stats.update(snap)
	v.grid.update(snap, density)
	v.footer.SetText(v.app.footerText(snap))
	v.form.Hide()
	v.result.Show()
}

func (v *lifeView) visualize() {
	if err := v.entry.Validate(); err != nil {
		dialog.ShowError(err, v.app.Window)
		return
	}
	birth, _ := engine.ParseBirthDate(strings.TrimSpace(v.entry.Text))
	if err := v.app.SetProfile(engine.Profile{Name: config.FallbackName, BirthDate: birth}); err != nil {
		dialog.ShowError(errors.New(v.app.GetMsg(config.TKeyErrDateRange)), v.app.Window)
	}
}

// importProfile fetches the birth date off the UI goroutine, then applies it.
func (v *lifeView) importProfile() {
	app := v.app
	go func() {
		p, err := app.ImportProfile()
		fyne.Do(func() {
			if err != nil {
				slog.Warn(config.ErrImportFailed,
					config.LogKeyComponent, config.CompUI,
					config.LogKeyError, err)
				dialog.ShowError(errors.New(app.GetMsg(config.TKeyErrImport)), app.Window)
				return
			}
			if v.entry != nil {
				v.entry.SetText(p.BirthDate.Format(config.DateFormatISO))
			}
			if err := app.SetProfile(p); err != nil {
				dialog.ShowError(errors.New(app.GetMsg(config.TKeyErrDateRange)), app.Window)
				return
			}
			app.App.SendNotification(fyne.NewNotification(app.GetMsg(config.TKeyNotifReady), app.GetMsg(config.TKeyNotifReadyBody)))
		})
	}()
}

// validateBirthDate accepts YYYY-MM-DD dates between 1900-01-01 and today.
func (app *LifeWeeksApp) validateBirthDate(s string) error {
	s = strings.TrimSpace(s)
	birth, err := time.ParseInLocation(config.DateFormatISO, s, time.Local)
	if err != nil {
		return errors.New(app.GetMsg(config.TKeyErrDate))
	}
	if engine.ValidateBirthDate(birth, app.Life.Clock.Now()) != nil {
		return errors.New(app.GetMsg(config.TKeyErrDateRange))
	}
	return nil
}
