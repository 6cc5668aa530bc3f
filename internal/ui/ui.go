package ui

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/life-in-weeks/internal/config"
	"github.com/tartampluch/life-in-weeks/internal/engine"
	"github.com/tartampluch/life-in-weeks/internal/server"
	"github.com/zalando/go-keyring"
	"golang.org/x/text/message"
)

//go:embed Icon.png
var appIconData []byte

// LifeWeeksApp holds the UI state, preferences and background logic.
type LifeWeeksApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server   *server.LifeServer
	Importer *engine.Importer
	Life     *engine.Life
	Events   *engine.EventStore

	// InitialProfile, when set, is visualized as soon as the window opens.
	InitialProfile *engine.Profile

	SupportedLanguages []string
	configChan         chan string
	printer            *message.Printer

	// The profile only lives for the session; it is never written to Preferences.
	mu       sync.RWMutex
	profile  *engine.Profile
	snapshot *engine.Snapshot

	view           *lifeView
	settingsWindow fyne.Window
	eventsWindow   fyne.Window
}

// NewLifeWeeksApp constructs the application and wires dependencies.
func NewLifeWeeksApp(a fyne.App, ctx context.Context, srv *server.LifeServer, importer *engine.Importer, life *engine.Life, events *engine.EventStore) *LifeWeeksApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	if life == nil {
		life = &engine.Life{Clock: engine.RealClock{}}
	}
	if events == nil {
		events = engine.NewEventStore()
	}

	return &LifeWeeksApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Importer:           importer,
		Life:               life,
		Events:             events,
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
}

// Run launches the services and blocks in the fyne main loop.
func (app *LifeWeeksApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	if app.Server != nil {
		go func() {
			if err := app.Server.Start(app.Ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyError, err,
					config.LogKeyComponent, config.CompUI)

				app.App.SendNotification(fyne.NewNotification(
					config.TitleStartupError,
					fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
			}
		}()
	}

	app.ShowMainWindow()
	if app.InitialProfile != nil {
		if err := app.SetProfile(*app.InitialProfile); err != nil {
			slog.Warn(config.MsgSnapshotReject,
				config.LogKeyComponent, config.CompUI,
				config.LogKeyError, err)
		}
	}

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences signals the worker whenever a setting changes.
func (app *LifeWeeksApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefKeyChanged:
		default:
		}
	})
}

// backgroundWorker recomputes the snapshot when the local day rolls over or
// when preferences change.
func (app *LifeWeeksApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	ticker := time.NewTicker(config.RolloverCheck)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, config.RolloverCheck)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			fyne.Do(app.recomputeAndLog)

		case <-ticker.C:
			if app.needsRollover(app.Life.Clock.Now()) {
				log.Info(config.MsgRollover)
				fyne.Do(app.recomputeAndLog)
			}
		}
	}
}

// needsRollover reports whether now falls on a later local day than the
// current snapshot.
func (app *LifeWeeksApp) needsRollover(now time.Time) bool {
	snap, ok := app.Snapshot()
	if !ok {
		return false
	}
	return engine.Midnight(now).After(snap.Now)
}

func (app *LifeWeeksApp) recomputeAndLog() {
	if err := app.Recompute(); err != nil {
		slog.Warn(config.MsgSnapshotReject,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
}

// TargetAge reads the target age preference, falling back to the default when
// the stored value is out of range.
func (app *LifeWeeksApp) TargetAge() int {
	age := app.Preferences.IntWithFallback(config.PrefTargetAge, config.DefaultTargetAge)
	if engine.ValidateTargetAge(age) != nil {
		return config.DefaultTargetAge
	}
	return age
}

// Density reads the label density preference.
func (app *LifeWeeksApp) Density() LabelDensity {
	d, err := ParseDensity(app.Preferences.StringWithFallback(config.PrefDensity, config.DefaultDensity))
	if err != nil {
		slog.Debug(config.ErrDensity,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
	return d
}

// Snapshot returns the latest computed snapshot, if any.
func (app *LifeWeeksApp) Snapshot() (engine.Snapshot, bool) {
	app.mu.RLock()
	defer app.mu.RUnlock()
	if app.snapshot == nil {
		return engine.Snapshot{}, false
	}
	return *app.snapshot, true
}

// SetProfile validates p, computes its snapshot and publishes it. The previous
// profile is kept when p is rejected.
func (app *LifeWeeksApp) SetProfile(p engine.Profile) error {
	snap, err := app.Life.Snapshot(p, app.TargetAge())
	if err != nil {
		return err
	}

	app.mu.Lock()
	app.profile = &p
	app.snapshot = &snap
	app.mu.Unlock()

	app.publish(snap)
	app.render(snap)
	return nil
}

// Recompute rebuilds the snapshot of the current profile. It is a no-op before
// a birth date has been entered.
func (app *LifeWeeksApp) Recompute() error {
	app.mu.RLock()
	p := app.profile
	app.mu.RUnlock()
	if p == nil {
		return nil
	}
	return app.SetProfile(*p)
}

// ClearProfile forgets the session birth date, withdraws it from the local API
// and returns to the input form.
func (app *LifeWeeksApp) ClearProfile() {
	app.mu.Lock()
	app.profile = nil
	app.snapshot = nil
	app.mu.Unlock()

	if app.Server != nil {
		app.Server.Clear()
	}

	if app.view != nil {
		app.view.showForm()
	}
}

// publish pushes the snapshot, the events and the calendar feed to the server.
func (app *LifeWeeksApp) publish(snap engine.Snapshot) {
	if app.Server == nil {
		return
	}

	events := app.Events.List()
	ics, err := engine.EncodeCalendar(engine.CalendarInput{
		Profile:         snap.Profile,
		TargetAge:       snap.TargetAge,
		Events:          events,
		Now:             snap.Now,
		BirthdaySummary: app.birthdaySummary,
	})
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		ics = []byte(config.StubVCalendar)
	}

	if err := app.Server.Update(snap, events, ics); err != nil {
		slog.Error(config.ErrEncodeJSON,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
}

func (app *LifeWeeksApp) render(snap engine.Snapshot) {
	if app.view != nil {
		app.view.showResult(snap, app.Density())
	}
}

func (app *LifeWeeksApp) birthdaySummary(name string) string {
	msg := app.GetMsgData(config.TKeyEvtBirthday, map[string]any{"Name": name})
	if msg == config.TKeyEvtBirthday {
		return config.FallbackBirthday + ": " + name
	}
	return msg
}

// loadSourceConfig assembles the import configuration from preferences and the keyring.
func (app *LifeWeeksApp) loadSourceConfig() engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return cfg
}

// ImportProfile reads the birth date from the configured vCard source.
func (app *LifeWeeksApp) ImportProfile() (engine.Profile, error) {
	if app.Importer == nil {
		return engine.Profile{}, errors.New(config.ErrFetcherMissing)
	}
	cfg := app.loadSourceConfig()
	p, err := app.Importer.Import(app.Ctx, cfg)
	if err != nil {
		return engine.Profile{}, err
	}
	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyMode, cfg.Mode)
	return p, nil
}
