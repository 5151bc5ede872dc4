package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/server"
)

// CalculatorApp is the desktop front-end: calculator window, tray, settings and
// the contact ages kept fresh by a background worker.
type CalculatorApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	Ctx         context.Context

	MainWindow     fyne.Window
	SettingsWindow fyne.Window
	contactsWindow fyne.Window
	voice          *voiceTab

	I18nBundle         *i18n.Bundle
	Localizer          *i18n.Localizer
	SupportedLanguages []string

	// Injected so tests can pin "today" and fake the address book server.
	Server  *server.Server
	Fetcher engine.VCardFetcher
	Clock   engine.Clock

	Tray             desktop.App
	Menu             *fyne.Menu
	TrayOpenItem     *fyne.MenuItem
	TrayStatusItem   *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem
	trayLabels       map[*fyne.MenuItem]string

	ContactsMut sync.RWMutex
	Contacts    []engine.ContactAge

	configChan chan string
}

func NewCalculatorApp(a fyne.App, ctx context.Context, srv *server.Server, fetcher engine.VCardFetcher) *CalculatorApp {
	a.SetIcon(theme.HistoryIcon())

	return &CalculatorApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Server:             srv,
		Fetcher:            fetcher,
		Clock:              engine.RealClock{},
		SupportedLanguages: config.SupportedLanguages,
		configChan:         make(chan string, config.ChannelBufferSize),
	}
}

// Run starts the API server and the sync worker, opens the calculator and blocks
// in the fyne event loop until the application quits.
func (app *CalculatorApp) Run() {
	app.SetupI18n()
	app.watchPreferences()

	go app.serve()
	app.attachTray()
	go app.backgroundWorker()

	app.ShowCalculatorWindow()
	app.App.Run()
}

// serve runs the HTTP server until the context ends. A bind failure is
// reported to the user since the GUI stays usable without it.
func (app *CalculatorApp) serve() {
	log := slog.With(config.LogKeyComponent, config.CompUI, config.LogKeyPort, app.Server.Port)
	log.Info(config.MsgServerListen)

	if err := app.Server.Start(app.Ctx); err != nil {
		log.Error(config.ErrServerStartup, config.LogKeyError, err)
		app.App.SendNotification(fyne.NewNotification(
			config.TitleStartupError,
			fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
	}
}

func (app *CalculatorApp) attachTray() {
	desk, ok := app.App.(desktop.App)
	if !ok {
		slog.Warn(config.ErrTrayNotSupported, config.LogKeyComponent, config.CompUI)
		return
	}
	app.Tray = desk
	app.Tray.SetSystemTrayIcon(app.App.Icon())
	app.setupTrayMenu()
}

// watchPreferences wakes the worker whenever a preference is written.
func (app *CalculatorApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- config.PrefInterval:
		default:
		}
	})
}

// calculator falls back to the strict policy when the stored value is unknown.
func (app *CalculatorApp) calculator() engine.Calculator {
	policy, err := engine.ParseOrderPolicy(app.Preferences.StringWithFallback(config.PrefOrderPolicy, config.DefaultPolicy))
	if err != nil {
		slog.Warn(config.ErrInvalidPolicy,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
	}
	return engine.Calculator{Policy: policy}
}

func (app *CalculatorApp) sortPair() bool {
	return app.Preferences.BoolWithFallback(config.PrefSortPair, config.DefaultSortPair)
}

func (app *CalculatorApp) silenceTimeout() time.Duration {
	return positiveDuration(app.Preferences.IntWithFallback(config.PrefSilenceSeconds, 0), time.Second, config.DefaultSilenceTimeout)
}

// syncInterval is zero when the periodic refresh is switched off.
func (app *CalculatorApp) syncInterval() time.Duration {
	minutes := app.Preferences.IntWithFallback(config.PrefInterval, config.DefaultRefreshMin)
	if minutes == config.DisabledInterval {
		return 0
	}
	return positiveDuration(minutes, time.Minute, config.DefaultRefreshMin*time.Minute)
}

// positiveDuration returns n units, or def when n is not positive.
func positiveDuration(n int, unit, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * unit
}

func (app *CalculatorApp) today() engine.CalendarDate {
	return engine.Today(app.Clock)
}

func (app *CalculatorApp) notify(key string, data map[string]any) {
	app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsgData(key, data)))
}
