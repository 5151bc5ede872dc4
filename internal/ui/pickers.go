package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// pickerDefaultBirthYear is where the birth year controls start.
const pickerDefaultBirthYear = 2000

// yearFactory builds a year control starting at initial. onChanged is only
// called for user changes, never during construction.
type yearFactory func(initial int, onChanged func(int)) fyne.CanvasObject

func clampYear(y int) int {
	return max(config.MinYear, min(config.MaxYear, y))
}

// -----------------------------------------------------------------------------
// Date rows
// -----------------------------------------------------------------------------

// dateRow picks a date with day and month selects plus a pluggable year control.
type dateRow struct {
	day   *widget.Select
	month *widget.Select
	year  int
}

func newDateRow(initial engine.CalendarDate, newYear yearFactory, onChanged func()) (*dateRow, fyne.CanvasObject) {
	days := make([]string, 0, 31)
	for d := 1; d <= 31; d++ {
		days = append(days, strconv.Itoa(d))
	}
	months := make([]string, 0, config.MonthsPerYear)
	for m := 1; m <= config.MonthsPerYear; m++ {
		months = append(months, engine.MonthName(m))
	}

	r := &dateRow{
		day:   widget.NewSelect(days, nil),
		month: widget.NewSelect(months, nil),
		year:  clampYear(initial.Year),
	}
	r.day.SetSelected(strconv.Itoa(initial.Day))
	r.month.SetSelected(engine.MonthName(initial.Month))

	r.day.OnChanged = func(string) { onChanged() }
	r.month.OnChanged = func(string) { onChanged() }
	yearObj := newYear(r.year, func(y int) {
		r.year = y
		onChanged()
	})

	return r, container.NewHBox(r.day, r.month, yearObj)
}

// value returns the selected date; 31 April and friends are reported as invalid.
func (r *dateRow) value() (engine.CalendarDate, error) {
	day, err := strconv.Atoi(r.day.Selected)
	if err != nil {
		return engine.CalendarDate{}, fmt.Errorf("%w: %q", engine.ErrInvalidDate, r.day.Selected)
	}
	month, ok := engine.MonthNumber(r.month.Selected)
	if !ok || !engine.ValidDate(day, month, r.year) {
		return engine.CalendarDate{}, fmt.Errorf("%w: %s/%s/%d", engine.ErrInvalidDate, r.day.Selected, r.month.Selected, r.year)
	}
	return engine.NewCalendarDate(r.year, month, day)
}

// pickerTab computes the age between two dateRows sharing the same kind of year control.
type pickerTab struct {
	app     *CalculatorApp
	birth   *dateRow
	current *dateRow
	result  *resultPanel
	rows    *widget.Form
}

func (app *CalculatorApp) newPickerTab(newYear yearFactory) *pickerTab {
	t := &pickerTab{app: app, result: app.newResultPanel()}

	today := app.today()
	birthStart := today
	birthStart.Year = pickerDefaultBirthYear
	if !engine.ValidDate(birthStart.Day, birthStart.Month, birthStart.Year) {
		birthStart.Day = engine.DaysIn(birthStart.Year, birthStart.Month)
	}

	var birthObj, currentObj fyne.CanvasObject
	t.birth, birthObj = newDateRow(birthStart, newYear, t.calculate)
	t.current, currentObj = newDateRow(today, newYear, t.calculate)

	t.rows = widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblBirth), birthObj),
		widget.NewFormItem(app.GetMsg(config.TKeyLblCurrent), currentObj),
	)
	t.calculate()
	return t
}

func (t *pickerTab) content() fyne.CanvasObject {
	return container.NewVBox(t.rows, t.result.content())
}

// calculate runs on every change, so errors stay inline instead of raising notifications.
func (t *pickerTab) calculate() {
	birth, err := t.birth.value()
	if err != nil {
		t.result.fail(t.app.GetMsg(config.TKeyErrBirthInvalid))
		return
	}
	current, err := t.current.value()
	if err != nil {
		t.result.fail(t.app.GetMsg(config.TKeyErrCurrentInvalid))
		return
	}

	calc, err := t.app.calculator().Calculate(birth, current)
	if err != nil {
		t.result.fail(t.app.GetMsg(errorKey(err)))
		return
	}
	t.result.show(calc)
}

// -----------------------------------------------------------------------------
// Year controls
// -----------------------------------------------------------------------------

func newSliderYear(initial int, onChanged func(int)) fyne.CanvasObject {
	label := widget.NewLabel(strconv.Itoa(initial))
	slider := widget.NewSlider(config.MinYear, config.MaxYear)
	slider.Step = config.StepperStep
	slider.Value = float64(initial)
	slider.OnChanged = func(v float64) {
		y := clampYear(int(v))
		label.SetText(strconv.Itoa(y))
		onChanged(y)
	}
	return container.NewBorder(nil, nil, nil, label, slider)
}

func newStepperYear(initial int, onChanged func(int)) fyne.CanvasObject {
	year := initial
	label := widget.NewLabel(strconv.Itoa(year))

	step := func(delta int) func() {
		return func() {
			next := clampYear(year + delta)
			if next == year {
				return
			}
			year = next
			label.SetText(strconv.Itoa(year))
			onChanged(year)
		}
	}

	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), step(-config.StepperStep))
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), step(config.StepperStep))
	return container.NewHBox(down, label, up)
}

func newScrollYear(initial int, onChanged func(int)) fyne.CanvasObject {
	list := widget.NewList(
		func() int { return config.MaxYear - config.MinYear + 1 },
		func() fyne.CanvasObject { return widget.NewLabel(config.PlaceholderYear) },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(strconv.Itoa(config.MinYear + id))
		},
	)

	idx := clampYear(initial) - config.MinYear
	list.Select(idx)
	list.ScrollTo(idx)
	list.OnSelected = func(id widget.ListItemID) { onChanged(config.MinYear + id) }

	size := fyne.NewSize(config.YearListWidth, config.YearListRowHeight*config.PickerVisibleYears)
	return container.NewGridWrap(size, list)
}

func newDragYear(initial int, onChanged func(int)) fyne.CanvasObject {
	d := NewYearDragger(initial)
	d.OnChanged = onChanged
	return d
}

// YearDragger shows a year that changes by one for every DragPixelsPerYear
// dragged horizontally; right increases, left decreases.
type YearDragger struct {
	widget.BaseWidget

	Year      int
	OnChanged func(int)

	label  *widget.Label
	offset float32
}

// NewYearDragger creates a dragger clamped to the supported year range.
func NewYearDragger(initial int) *YearDragger {
	d := &YearDragger{Year: clampYear(initial)}
	d.label = widget.NewLabelWithStyle(strconv.Itoa(d.Year), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	d.ExtendBaseWidget(d)
	return d
}

func (d *YearDragger) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	return widget.NewSimpleRenderer(container.NewStack(bg, container.NewCenter(d.label)))
}

func (d *YearDragger) MinSize() fyne.Size {
	return fyne.NewSize(config.DragAreaWidth, config.DragAreaHeight)
}

func (d *YearDragger) Dragged(ev *fyne.DragEvent) {
	d.offset += ev.Dragged.DX
	steps := int(d.offset / config.DragPixelsPerYear)
	if steps == 0 {
		return
	}
	d.offset -= float32(steps * config.DragPixelsPerYear)
	d.SetYear(d.Year + steps)
}

func (d *YearDragger) DragEnd() {
	d.offset = 0
}

// SetYear clamps y and notifies OnChanged when the year actually changed.
func (d *YearDragger) SetYear(y int) {
	y = clampYear(y)
	if y == d.Year {
		return
	}
	d.Year = y
	d.label.SetText(strconv.Itoa(y))
	if d.OnChanged != nil {
		d.OnChanged(y)
	}
}
