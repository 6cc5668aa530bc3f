package ui

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

// ShowEventsWindow lists global and personal events grouped by year and lets
// the user add personal ones. A second call focuses the open window.
func (app *LifeWeeksApp) ShowEventsWindow() {
	if app.eventsWindow != nil {
		app.eventsWindow.RequestFocus()
		return
	}

	slog.Info("Opening events window", config.LogKeyComponent, config.CompUIEvt)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinEvents))
	app.eventsWindow = w
	w.Resize(fyne.NewSize(config.EventsWindowWidth, config.EventsWindowHeight))

	list := container.NewStack()
	var refreshList func()
	remove := func(id string) {
		if err := app.Events.Remove(id); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.afterEventsChanged()
		refreshList()
	}
	refreshList = func() {
		list.Objects = []fyne.CanvasObject{app.eventsByYearView(remove)}
		list.Refresh()
	}

	titleEntry := widget.NewEntry()
	dateEntry := widget.NewEntry()
	dateEntry.PlaceHolder = config.PlaceholderDate
	descEntry := widget.NewMultiLineEntry()

	add := func() {
		if _, err := app.addEvent(titleEntry.Text, dateEntry.Text, descEntry.Text); err != nil {
			dialog.ShowError(err, w)
			return
		}
		titleEntry.SetText("")
		dateEntry.SetText("")
		descEntry.SetText("")
		app.afterEventsChanged()
		refreshList()
	}

	form := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblTitle), titleEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDate), dateEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblDesc), descEntry),
	)
	btnAdd := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnAdd), theme.ContentAddIcon(), add)
	btnAdd.Importance = widget.HighImportance

	w.SetContent(container.NewBorder(nil, container.NewVBox(widget.NewSeparator(), form, btnAdd), nil, nil, list))
	refreshList()

	w.SetOnClosed(func() { app.eventsWindow = nil })
	w.Show()
}

// addEvent validates the form values and records a personal event.
func (app *LifeWeeksApp) addEvent(title, date, desc string) (engine.Event, error) {
	if strings.TrimSpace(title) == "" {
		return engine.Event{}, errors.New(app.GetMsg(config.TKeyErrTitle))
	}
	d, err := time.ParseInLocation(config.DateFormatISO, strings.TrimSpace(date), time.Local)
	if err != nil {
		return engine.Event{}, errors.New(app.GetMsg(config.TKeyErrDate))
	}
	return app.Events.Add(title, d, desc)
}

// afterEventsChanged republishes the feed so the API sees the new events.
func (app *LifeWeeksApp) afterEventsChanged() {
	if snap, ok := app.Snapshot(); ok {
		app.publish(snap)
	}
}

// eventsByYearView renders one accordion item per year, oldest first.
func (app *LifeWeeksApp) eventsByYearView(onRemove func(id string)) fyne.CanvasObject {
	byYear := app.Events.ByYear()
	if len(byYear) == 0 {
		return container.NewCenter(widget.NewLabel(app.GetMsg(config.TKeyEvtEmpty)))
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	acc := widget.NewAccordion()
	acc.MultiOpen = true
	for _, y := range years {
		rows := container.NewVBox()
		for _, e := range byYear[y] {
			rows.Add(app.eventRow(e, onRemove))
		}
		acc.Append(widget.NewAccordionItem(strconv.Itoa(y), rows))
	}
	acc.OpenAll()
	return container.NewVScroll(acc)
}

func (app *LifeWeeksApp) eventRow(e engine.Event, onRemove func(id string)) fyne.CanvasObject {
	kind := app.GetMsg(config.TKeyEvtGlobal)
	if e.Type == engine.EventPersonal {
		kind = app.GetMsg(config.TKeyEvtPersonal)
	}

	title := widget.NewLabelWithStyle(e.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	meta := widget.NewLabel(e.Date.Format(app.dateLayout()) + " · " + kind + " · " + app.EventPlacement(e))
	lines := container.NewVBox(title, meta)
	if e.Description != "" {
		desc := widget.NewLabel(e.Description)
		desc.Wrapping = fyne.TextWrapWord
		lines.Add(desc)
	}

	if e.Type != engine.EventPersonal || onRemove == nil {
		return lines
	}
	id := e.ID
	btn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnRemove), theme.DeleteIcon(), func() { onRemove(id) })
	return container.NewBorder(nil, nil, nil, btn, lines)
}

// EventPlacement describes where an event falls on the current grid.
func (app *LifeWeeksApp) EventPlacement(e engine.Event) string {
	snap, ok := app.Snapshot()
	if !ok {
		return ""
	}
	idx, ok := engine.PlaceEvent(snap.BirthDate, snap.TargetAge, e)
	if !ok {
		return app.GetMsg(config.TKeyEvtOutOfGrid)
	}
	return app.GetMsgData(config.TKeyEvtInGrid, map[string]any{
		"Age":  idx / config.GridColumns,
		"Week": idx%config.GridColumns + 1,
	})
}
