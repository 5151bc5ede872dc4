package ui

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/voice"
)

// ShowCalculatorWindow opens the main window, or focuses it when already open.
func (app *CalculatorApp) ShowCalculatorWindow() {
	if app.MainWindow != nil {
		app.MainWindow.Show()
		app.MainWindow.RequestFocus()
		return
	}

	slog.Info("Opening calculator window", config.LogKeyComponent, config.CompUI)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.MainWindow = w
	w.SetContent(app.buildTabs())
	w.Resize(fyne.NewSize(config.MainWindowWidth, config.MainWindowHeight))

	if app.Tray != nil {
		// With a tray the app keeps running; closing only hides the calculator.
		w.SetCloseIntercept(func() {
			app.stopVoice()
			w.Hide()
		})
	} else {
		w.SetOnClosed(func() {
			app.stopVoice()
			app.MainWindow = nil
		})
	}
	w.Show()
}

// reloadCalculatorWindow rebuilds the tabs, e.g. after a language change.
func (app *CalculatorApp) reloadCalculatorWindow() {
	if app.MainWindow == nil {
		return
	}
	app.stopVoice()
	app.MainWindow.SetTitle(app.GetMsg(config.TKeyWinTitle))
	app.MainWindow.SetContent(app.buildTabs())
}

func (app *CalculatorApp) buildTabs() *container.AppTabs {
	app.voice = app.newVoiceTab()

	tabs := container.NewAppTabs(
		container.NewTabItem(app.GetMsg(config.TKeyTabTyped), app.newTypedTab().content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabSlider), app.newPickerTab(newSliderYear).content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabStepper), app.newPickerTab(newStepperYear).content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabScroll), app.newPickerTab(newScrollYear).content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabDrag), app.newPickerTab(newDragYear).content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabVoice), app.voice.content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabAdult), app.newAdultTab().content()),
		container.NewTabItem(app.GetMsg(config.TKeyTabMonths), app.newMonthsTab().content()),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	return tabs
}

// errorKey maps engine and voice errors to the message shown to the user.
func errorKey(err error) string {
	switch {
	case errors.Is(err, engine.ErrDateOrder), errors.Is(err, engine.ErrSameDate):
		return config.TKeyErrOrder
	case errors.Is(err, voice.ErrNoDates):
		return config.TKeyNotifNotUnderstood
	case errors.Is(err, engine.ErrYearOutOfRange):
		return config.TKeyErrYearRange
	default:
		return config.TKeyErrBirthInvalid
	}
}

// -----------------------------------------------------------------------------
// Result panel
// -----------------------------------------------------------------------------

// resultPanel renders a calculation. Every tab that computes an age owns one.
type resultPanel struct {
	app     *CalculatorApp
	years   *widget.Label
	months  *widget.Label
	days    *widget.Label
	total   *widget.Label
	summary *widget.Label
}

func (app *CalculatorApp) newResultPanel() *resultPanel {
	p := &resultPanel{
		app:     app,
		years:   widget.NewLabel(config.AgeUnknown),
		months:  widget.NewLabel(config.AgeUnknown),
		days:    widget.NewLabel(config.AgeUnknown),
		total:   widget.NewLabel(config.AgeUnknown),
		summary: widget.NewLabel(""),
	}
	p.summary.Wrapping = fyne.TextWrapWord
	return p
}

func (p *resultPanel) content() fyne.CanvasObject {
	grid := container.NewGridWithColumns(config.LayoutColumnsResult,
		widget.NewLabel(p.app.GetMsg(config.TKeyLblYears)), p.years,
		widget.NewLabel(p.app.GetMsg(config.TKeyLblMonths)), p.months,
		widget.NewLabel(p.app.GetMsg(config.TKeyLblDays)), p.days,
		widget.NewLabel(p.app.GetMsg(config.TKeyLblTotalDays)), p.total,
	)
	return widget.NewCard("", "", container.NewVBox(grid, p.summary))
}

func (p *resultPanel) show(calc engine.Calculation) {
	p.years.SetText(strconv.Itoa(calc.Age.Years))
	p.months.SetText(strconv.Itoa(calc.Age.Months))
	p.days.SetText(strconv.Itoa(calc.Age.Days))
	p.total.SetText(strconv.Itoa(calc.Age.TotalDays))
	p.summary.SetText(p.app.GetMsgData(config.TKeyLblResult, map[string]any{
		"Birth":     calc.Birth.String(),
		"Current":   calc.Current.String(),
		"Years":     calc.Age.Years,
		"Months":    calc.Age.Months,
		"Days":      calc.Age.Days,
		"TotalDays": calc.Age.TotalDays,
	}))
}

// fail clears the numbers and shows msg instead of a summary.
func (p *resultPanel) fail(msg string) {
	for _, l := range []*widget.Label{p.years, p.months, p.days, p.total} {
		l.SetText(config.AgeUnknown)
	}
	p.summary.SetText(msg)
}

func (p *resultPanel) clear() { p.fail("") }

// -----------------------------------------------------------------------------
// Typed dates
// -----------------------------------------------------------------------------

// typedTab reads both dates from masked dd/mm/yyyy entries and calculates as
// soon as both are complete.
type typedTab struct {
	app      *CalculatorApp
	birth    *NumericalEntry
	current  *NumericalEntry
	result   *resultPanel
	updating bool
}

func (app *CalculatorApp) newTypedTab() *typedTab {
	t := &typedTab{
		app:     app,
		birth:   NewDigitsEntry(config.DateDigits),
		current: NewDigitsEntry(config.DateDigits),
		result:  app.newResultPanel(),
	}
	for _, e := range []*NumericalEntry{t.birth, t.current} {
		e := e // per-iteration copy; module targets go 1.21 loop semantics
		e.PlaceHolder = config.PlaceholderDate
		e.OnChanged = func(s string) { t.onChanged(e, s) }
	}
	t.current.SetText(app.today().String())
	return t
}

func (t *typedTab) content() fyne.CanvasObject {
	form := widget.NewForm(
		widget.NewFormItem(t.app.GetMsg(config.TKeyLblBirth), t.birth),
		widget.NewFormItem(t.app.GetMsg(config.TKeyLblCurrent), t.current),
	)
	return container.NewVBox(form, t.result.content())
}

func (t *typedTab) onChanged(e *NumericalEntry, s string) {
	masked := engine.ApplyDateMask(s)
	if masked != s {
		// SetText re-enters OnChanged with the masked value.
		e.SetText(masked)
		e.CursorRow = 0
		e.CursorColumn = len([]rune(masked))
		e.Refresh()
		return
	}
	if t.updating {
		return
	}
	t.calculate()
}

func (t *typedTab) calculate() {
	if !engine.MaskComplete(t.birth.Text) || !engine.MaskComplete(t.current.Text) {
		t.result.clear()
		return
	}

	birth, err := engine.ParseDate(t.birth.Text)
	if err != nil {
		t.fail(config.TKeyErrBirthInvalid)
		return
	}
	current, err := engine.ParseDate(t.current.Text)
	if err != nil {
		t.fail(config.TKeyErrCurrentInvalid)
		return
	}

	calc, err := t.app.calculator().Calculate(birth, current)
	if err != nil {
		t.fail(errorKey(err))
		return
	}

	if calc.Swapped {
		t.updating = true
		t.birth.SetText(calc.Birth.String())
		t.current.SetText(calc.Current.String())
		t.updating = false
		t.app.notify(config.TKeyNotifSwapped, nil)
	}
	t.result.show(calc)
}

func (t *typedTab) fail(key string) {
	t.result.fail(t.app.GetMsg(key))
	t.app.notify(key, nil)
}

// -----------------------------------------------------------------------------
// Adulthood and months
// -----------------------------------------------------------------------------

type adultTab struct {
	app    *CalculatorApp
	year   *NumericalEntry
	result *widget.Label
}

func (app *CalculatorApp) newAdultTab() *adultTab {
	t := &adultTab{app: app, year: NewDigitsEntry(config.YearDigits), result: widget.NewLabel("")}
	t.year.PlaceHolder = config.PlaceholderYear
	t.year.OnChanged = t.onChanged
	return t
}

func (t *adultTab) content() fyne.CanvasObject {
	form := widget.NewForm(widget.NewFormItem(t.app.GetMsg(config.TKeyLblBirthYear), t.year))
	return container.NewVBox(form, t.result)
}

func (t *adultTab) onChanged(s string) {
	if len(s) > len(config.PlaceholderYear) {
		t.year.SetText(s[:len(config.PlaceholderYear)])
		return
	}
	if len(s) < len(config.PlaceholderYear) {
		t.result.SetText("")
		return
	}

	birthYear, err := strconv.Atoi(s)
	if err != nil {
		t.result.SetText(t.app.GetMsg(config.TKeyErrYearRange))
		return
	}
	adult, err := engine.AdulthoodYear(birthYear)
	if err != nil {
		t.result.SetText(t.app.GetMsg(errorKey(err)))
		t.app.notify(errorKey(err), nil)
		return
	}
	t.result.SetText(t.app.GetMsgData(config.TKeyLblAdultYear, map[string]any{
		"Birth": birthYear,
		"Year":  adult,
	}))
}

type monthsTab struct {
	app    *CalculatorApp
	month  *widget.Select
	result *widget.Label
}

func (app *CalculatorApp) newMonthsTab() *monthsTab {
	names := make([]string, 0, config.MonthsPerYear)
	for m := 1; m <= config.MonthsPerYear; m++ {
		names = append(names, engine.MonthName(m))
	}

	t := &monthsTab{app: app, result: widget.NewLabel("")}
	t.month = widget.NewSelect(names, t.onSelected)
	return t
}

func (t *monthsTab) content() fyne.CanvasObject {
	form := widget.NewForm(widget.NewFormItem(t.app.GetMsg(config.TKeyLblSelectMonth), t.month))
	return container.NewVBox(form, t.result)
}

func (t *monthsTab) onSelected(name string) {
	month, ok := engine.MonthNumber(name)
	if !ok {
		t.result.SetText("")
		return
	}
	prev, err := engine.PreviousMonths(month)
	if err != nil {
		t.result.SetText("")
		return
	}

	names := make([]string, 0, len(prev))
	for _, m := range prev {
		names = append(names, m.Name)
	}
	t.result.SetText(t.app.GetMsgData(config.TKeyLblPrevMonths, map[string]any{
		"Month":  name,
		"Months": strings.Join(names, ", "),
	}))
}
