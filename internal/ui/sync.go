package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/zalando/go-keyring"
)

// backgroundWorker resynchronises the contacts on a timer, after preference
// changes that move the schedule or the source, and when the local file changes.
func (app *CalculatorApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performSync(false)

	var ticker *time.Ticker
	var tick <-chan time.Time
	schedule := func(d time.Duration) {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if d > 0 {
			ticker = time.NewTicker(d)
			tick = ticker.C
		}
	}
	interval := app.syncInterval()
	schedule(interval)
	defer schedule(0)

	watcher := app.watchLocalSource()
	defer func() { watcher.Close() }()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.configChan:
			if next := app.syncInterval(); next != interval {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, interval, config.LogKeyNew, next)
				interval = next
				schedule(interval)
			}
			if watcher.Path() != app.localSourcePath() {
				watcher.Close()
				watcher = app.watchLocalSource()
			}

		case <-watcher.Changes():
			app.performSync(false)

		case <-tick:
			app.performSync(false)
		}
	}
}

// performSync recomputes the contact ages and republishes the calendar feed.
// Only a manual sync notifies the user about failures.
func (app *CalculatorApp) performSync(manual bool) {
	log := slog.With(config.LogKeyComponent, config.CompUI)
	log.Info(config.MsgSyncReq, config.LogKeyManual, manual)

	gen := &engine.Generator{
		Clock:         app.Clock,
		Fetcher:       app.Fetcher,
		FormatSummary: app.buildSummaryFormatter(),
	}
	res, err := gen.RunSync(app.Ctx, app.loadSyncConfig())
	if err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		if manual {
			app.notify(config.TKeyNotifSyncError, nil)
		}
		app.updateTrayStatus(-1)
		return
	}

	app.ContactsMut.Lock()
	app.Contacts = res.Contacts
	app.ContactsMut.Unlock()

	app.Server.Update(res.Calendar)
	app.updateTrayStatus(res.Today)
}

// loadSyncConfig reads the contact source from preferences; the password
// lives in the OS keyring under the user name.
func (app *CalculatorApp) loadSyncConfig() engine.SyncConfig {
	p := app.Preferences
	cfg := engine.SyncConfig{
		Mode:      p.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal),
		LocalPath: p.String(config.PrefLocalPath),
		WebURL:    p.String(config.PrefCardDAVURL),
		WebUser:   p.String(config.PrefUsername),
	}
	if cfg.WebUser == "" {
		return cfg
	}

	pass, err := keyring.Get(config.KeyringService, cfg.WebUser)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, cfg.WebUser,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)
		return cfg
	}
	cfg.WebPass = pass
	return cfg
}

// buildSummaryFormatter localizes calendar event titles, with English fallbacks
// when no translation is loaded. An age of zero or less means the year is unknown.
func (app *CalculatorApp) buildSummaryFormatter() func(name string, age int, adult bool) string {
	return func(name string, age int, adult bool) string {
		var key, fallback string
		switch {
		case adult:
			key, fallback = config.TKeyEvtAdulthood, fmt.Sprintf(config.FallbackAdulthood, name)
		case age > 0:
			key, fallback = config.TKeyEvtBirthday, fmt.Sprintf(config.FallbackBirthday, name, age)
		default:
			key, fallback = config.TKeyEvtBirthdayName, fmt.Sprintf(config.FallbackBirthdayAge, name)
		}

		data := map[string]any{"Name": name, "Age": age}
		if msg := app.GetMsgData(key, data); msg != key && msg != "" {
			return msg
		}
		return fallback
	}
}
