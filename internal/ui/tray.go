package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// setupTrayMenu builds the tray menu. The status line opens the contacts table.
func (app *CalculatorApp) setupTrayMenu() {
	app.trayLabels = make(map[*fyne.MenuItem]string)

	app.TrayOpenItem = app.trayItem(config.TKeyMenuOpen, app.ShowCalculatorWindow)
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, app.ShowContactsWindow)
	app.TrayRefreshItem = app.trayItem(config.TKeyMenuRefresh, func() { go app.performSync(true) })
	app.TraySettingsItem = app.trayItem(config.TKeyMenuSettings, app.ShowSettingsWindow)

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayOpenItem,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)
	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// trayItem creates a menu item whose label follows the current language.
func (app *CalculatorApp) trayItem(key string, action func()) *fyne.MenuItem {
	item := fyne.NewMenuItem(app.GetMsg(key), action)
	app.trayLabels[item] = key
	return item
}

// RefreshTrayMenu re-translates the static tray labels.
func (app *CalculatorApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	for item, key := range app.trayLabels {
		item.Label = app.GetMsg(key)
	}
	app.Menu.Refresh()
}

// updateTrayStatus shows how many birthdays fall today; a negative count means
// the last sync failed.
func (app *CalculatorApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}
	label := app.trayStatusLabel(count)

	fyne.Do(func() {
		app.TrayStatusItem.Label = label
		app.Menu.Refresh()
	})
}

func (app *CalculatorApp) trayStatusLabel(count int) string {
	if count < 0 {
		return config.FallbackTrayError
	}

	// Zero has its own sentence rather than a plural form.
	if count == 0 {
		if msg := app.GetMsg(config.TKeyTrayStatusZero); msg != config.TKeyTrayStatusZero {
			return msg
		}
	} else if msg, ok := app.GetMsgCount(config.TKeyTrayStatus, count); ok {
		return msg
	}
	return fmt.Sprintf(config.FallbackTrayDefault, count)
}
