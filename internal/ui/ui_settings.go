package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect    *widget.Select
	densitySelect *widget.Select
	modeSelect    *widget.Select
	urlEntry      *widget.Entry
	userEntry     *widget.Entry
	passEntry     *widget.Entry
	pathEntry     *widget.Entry
	entryTarget   *NumericalEntry
	entryPort     *NumericalEntry
}

// ShowSettingsWindow displays the configuration dialog.
func (app *LifeWeeksApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)
	generalCard := app.buildGeneralCard(sw)

	saveAction := func() {
		for _, e := range []*NumericalEntry{sw.entryTarget, sw.entryPort} {
			if err := e.Validate(); err != nil {
				dialog.ShowError(err, w)
				return
			}
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		generalCard,
		sourceCard,
		container.NewGridWithColumns(config.LayoutColumns2, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

// newSettingsWidgets creates the inputs, pre-filled from preferences and the keyring.
func (app *LifeWeeksApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.densitySelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyDensNormal),
		app.GetMsg(config.TKeyDensSparse),
	}, nil)
	if app.Density() == DensitySparse {
		sw.densitySelect.SetSelected(app.GetMsg(config.TKeyDensSparse))
	} else {
		sw.densitySelect.SetSelected(app.GetMsg(config.TKeyDensNormal))
	}

	sw.entryTarget = NewNumericalEntry()
	sw.entryTarget.SetText(strconv.Itoa(app.TargetAge()))
	sw.entryTarget.Validator = IntRangeValidator(1, config.MaxTargetAge, RangeMessages{
		Required: app.GetMsg(config.TKeyErrTarget),
		NotInt:   app.GetMsg(config.TKeyErrTarget),
		Range:    app.GetMsg(config.TKeyErrTarget),
	})

	sw.entryPort = NewNumericalEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = IntRangeValidator(config.MinPort, config.MaxPort, RangeMessages{
		Required: app.GetMsg(config.TKeyErrPortReq),
		NotInt:   app.GetMsg(config.TKeyErrPortNum),
		Range:    app.GetMsg(config.TKeyErrPortRange),
	})

	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeLocal),
		app.GetMsg(config.TKeyModeCardDAV),
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefCardDAVURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))
	return sw
}

func (app *LifeWeeksApp) buildGeneralCard(sw *settingsWidgets) *widget.Card {
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemTarget := widget.NewFormItem(app.GetMsg(config.TKeyLblTarget), sw.entryTarget)
	itemTarget.HintText = app.GetMsg(config.TKeyHelpTarget)

	itemDensity := widget.NewFormItem(app.GetMsg(config.TKeyLblDensity), sw.densitySelect)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	return widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemTarget, itemDensity, itemPort))
}

// buildSourceCard constructs the vCard import source UI.
func (app *LifeWeeksApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(
		itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)
	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	applyVis := func(mode string) {
		if mode == app.GetMsg(config.TKeyModeCardDAV) {
			webForm.Show()
			localForm.Hide()
		} else {
			webForm.Hide()
			localForm.Show()
		}
	}
	sw.modeSelect.OnChanged = func(mode string) {
		applyVis(mode)
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	if app.Preferences.String(config.PrefSourceMode) == config.SourceModeWeb {
		sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeCardDAV))
	} else {
		sw.modeSelect.SetSelected(app.GetMsg(config.TKeyModeLocal))
	}
	applyVis(sw.modeSelect.Selected)

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(sw.modeSelect, webForm, localForm))
}

// saveSettings persists the form, refreshes translations and recomputes the grid.
func (app *LifeWeeksApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompUISet)

	modeMap := map[string]string{
		app.GetMsg(config.TKeyModeCardDAV): config.SourceModeWeb,
		app.GetMsg(config.TKeyModeLocal):   config.SourceModeLocal,
	}
	densityMap := map[string]string{
		app.GetMsg(config.TKeyDensNormal): config.DensityNormal,
		app.GetMsg(config.TKeyDensSparse): config.DensitySparse,
	}

	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}
	if d, ok := densityMap[sw.densitySelect.Selected]; ok {
		app.Preferences.SetString(config.PrefDensity, d)
	}
	if m, ok := modeMap[sw.modeSelect.Selected]; ok {
		app.Preferences.SetString(config.PrefSourceMode, m)
	}
	app.Preferences.SetString(config.PrefCardDAVURL, sw.urlEntry.Text)
	app.Preferences.SetString(config.PrefUsername, sw.userEntry.Text)
	app.Preferences.SetString(config.PrefLocalPath, sw.pathEntry.Text)

	if n, err := sw.entryTarget.Int(); err == nil {
		app.Preferences.SetInt(config.PrefTargetAge, n)
	}
	// The server keeps its port until the next start.
	if sw.entryPort.Text != "" {
		app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)
	}

	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	app.UpdateLocalizer()
	app.rebuildMainWindow()
	app.recomputeAndLog()
}
