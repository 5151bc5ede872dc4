package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/zalando/go-keyring"
)

// choices pairs the localized labels of a select with the values stored in preferences.
type choices struct {
	labels []string
	values []string
}

func (app *CalculatorApp) newChoices(pairs ...string) choices {
	var c choices
	for i := 0; i+1 < len(pairs); i += 2 {
		c.labels = append(c.labels, app.GetMsg(pairs[i]))
		c.values = append(c.values, pairs[i+1])
	}
	return c
}

func (c choices) label(value string) string {
	for i, v := range c.values {
		if v == value {
			return c.labels[i]
		}
	}
	return c.labels[0]
}

func (c choices) value(label string) string {
	for i, l := range c.labels {
		if l == label {
			return c.values[i]
		}
	}
	return c.values[0]
}

// settingsForm holds the controls of the settings window, pre-filled from
// preferences and the keyring.
type settingsForm struct {
	policies choices
	modes    choices

	language *widget.Select
	policy   *widget.Select
	sortPair *widget.Check
	silence  *NumericalEntry
	port     *NumericalEntry
	interval *NumericalEntry

	mode *widget.Select
	url  *widget.Entry
	user *widget.Entry
	pass *widget.Entry
	path *widget.Entry
}

func (app *CalculatorApp) newSettingsForm() *settingsForm {
	p := app.Preferences
	f := &settingsForm{
		policies: app.newChoices(
			config.TKeyPolicyStrict, config.PolicyStrict,
			config.TKeyPolicySwap, config.PolicySwap),
		modes: app.newChoices(
			config.TKeyModeLocal, config.SourceModeLocal,
			config.TKeyModeCardDAV, config.SourceModeWeb),
	}

	f.language = widget.NewSelect(app.SupportedLanguages, nil)
	f.language.SetSelected(p.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	f.policy = widget.NewSelect(f.policies.labels, nil)
	f.policy.SetSelected(f.policies.label(app.calculator().Policy.String()))

	f.sortPair = widget.NewCheck(app.GetMsg(config.TKeyLblSortPair), nil)
	f.sortPair.SetChecked(app.sortPair())

	f.silence = NewNumericalEntry()
	f.silence.SetText(strconv.Itoa(int(app.silenceTimeout().Seconds())))

	f.port = NewNumericalEntry()
	f.port.SetText(p.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	f.port.Validator = app.validatePort

	// Left empty when the periodic refresh is off.
	f.interval = NewNumericalEntry()
	if d := app.syncInterval(); d > 0 {
		f.interval.SetText(strconv.Itoa(int(d.Minutes())))
	}

	f.mode = widget.NewSelect(f.modes.labels, nil)
	f.mode.SetSelected(f.modes.label(p.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal)))

	f.url = widget.NewEntry()
	f.url.PlaceHolder = config.PlaceholderURL
	f.url.SetText(p.String(config.PrefCardDAVURL))

	f.user = widget.NewEntry()
	f.user.SetText(p.String(config.PrefUsername))

	f.pass = widget.NewPasswordEntry()
	if f.user.Text != "" {
		if pwd, err := keyring.Get(config.KeyringService, f.user.Text); err == nil {
			f.pass.SetText(pwd)
		}
	}

	f.path = widget.NewEntry()
	f.path.SetText(p.String(config.PrefLocalPath))
	return f
}

// ShowSettingsWindow opens the settings window, or focuses it when already open.
func (app *CalculatorApp) ShowSettingsWindow() {
	log := slog.With(config.LogKeyComponent, config.CompUISet)
	if app.SettingsWindow != nil {
		log.Debug("Settings window already open")
		app.SettingsWindow.RequestFocus()
		return
	}

	log.Info("Opening settings window")
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w
	f := app.newSettingsForm()

	content := container.NewVBox()
	fit := func() {
		content.Refresh()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	}

	save := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := f.port.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(f)
		w.Close()
	})
	save.Importance = widget.HighImportance
	cancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), w.Close)

	footer := widget.NewLabel(app.GetMsgData(config.TKeyLblFooter, map[string]any{"Version": config.Version}))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	content.Objects = []fyne.CanvasObject{
		widget.NewCard(app.GetMsg(config.TKeyLblCalculator), "", widget.NewForm(
			widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), f.language),
			widget.NewFormItem(app.GetMsg(config.TKeyLblPolicy), f.policy),
			widget.NewFormItem("", f.sortPair),
			widget.NewFormItem(app.GetMsg(config.TKeyLblSilence), f.silence),
		)),
		widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(
			widget.NewFormItem(app.GetMsg(config.TKeyLblPort), f.port),
			widget.NewFormItem(app.GetMsg(config.TKeyLblRefresh), f.interval),
		)),
		app.buildSourceCard(w, f, fit),
		container.NewGridWithColumns(config.LayoutColumnsDouble, cancel, save),
		footer,
	}

	w.SetContent(container.NewPadded(content))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })
	fit()
	w.Show()
}

func (app *CalculatorApp) validatePort(s string) error {
	if s == "" {
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	}
	port, err := strconv.Atoi(s)
	switch {
	case err != nil:
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	case port < config.MinPort || port > config.MaxPort:
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	}
	return nil
}

// buildSourceCard shows either the CardDAV form or the local file picker,
// following the selected mode. relayout runs after each switch.
func (app *CalculatorApp) buildSourceCard(w fyne.Window, f *settingsForm, relayout func()) *widget.Card {
	browse := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err != nil || r == nil {
				return
			}
			f.path.SetText(r.URI().Path())
			_ = r.Close()
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	web := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblURL), f.url),
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), f.user),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), f.pass),
	)
	local := container.NewBorder(nil, nil, nil, browse, f.path)

	show := func(label string) {
		isLocal := f.modes.value(label) == config.SourceModeLocal
		setVisible(local, isLocal)
		setVisible(web, !isLocal)
		if relayout != nil {
			relayout()
		}
	}
	show(f.mode.Selected)
	f.mode.OnChanged = show

	return widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(f.mode, web, local))
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

// parseInterval turns the refresh entry into minutes; empty or zero switches
// the periodic refresh off. ok is false for unparsable input.
func parseInterval(text string) (minutes int, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return config.DisabledInterval, true
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 0 {
		return 0, false
	}
	if n == 0 {
		return config.DisabledInterval, true
	}
	return n, true
}

// saveSettings writes the form to preferences and the keyring, then refreshes
// translations, open windows and the contacts.
func (app *CalculatorApp) saveSettings(f *settingsForm) {
	log := slog.With(config.LogKeyComponent, config.CompUISet)
	log.Info("Saving preferences")

	p := app.Preferences
	oldLang := p.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)

	p.SetString(config.PrefLanguage, f.language.Selected)
	p.SetString(config.PrefOrderPolicy, f.policies.value(f.policy.Selected))
	p.SetBool(config.PrefSortPair, f.sortPair.Checked)
	p.SetString(config.PrefSourceMode, f.modes.value(f.mode.Selected))
	p.SetString(config.PrefCardDAVURL, strings.TrimSpace(f.url.Text))
	p.SetString(config.PrefUsername, strings.TrimSpace(f.user.Text))
	p.SetString(config.PrefLocalPath, strings.TrimSpace(f.path.Text))

	if secs, err := strconv.Atoi(f.silence.Text); err == nil && secs > 0 {
		p.SetInt(config.PrefSilenceSeconds, secs)
	}
	if minutes, ok := parseInterval(f.interval.Text); ok {
		p.SetInt(config.PrefInterval, minutes)
	}
	if f.port.Text != "" {
		p.SetString(config.PrefServerPort, f.port.Text)
	}

	if user := p.String(config.PrefUsername); user != "" && f.pass.Text != "" {
		if err := keyring.Set(config.KeyringService, user, f.pass.Text); err != nil {
			log.Error("Failed to store password in keyring", config.LogKeyError, err)
		}
	}

	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	if lang := f.language.Selected; lang != oldLang {
		log.Info("Language changed", config.LogKeyLang, lang)
		app.reloadCalculatorWindow()
	}
	go app.performSync(true)
}
