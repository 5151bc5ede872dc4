package ui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

// contactTable is the state behind the contacts window: a private copy of the
// rows and the active sort column.
type contactTable struct {
	app  *CalculatorApp
	rows []engine.ContactAge
	col  int
	asc  bool
	view *widget.Table
}

// ShowContactsWindow lists every contact age, sorted by next birthday.
// Clicking a header sorts by that column; clicking it again reverses the order.
func (app *CalculatorApp) ShowContactsWindow() {
	if app.contactsWindow != nil {
		app.contactsWindow.RequestFocus()
		return
	}

	// The worker may swap app.Contacts while the window is open.
	app.ContactsMut.RLock()
	t := &contactTable{
		app:  app,
		rows: append([]engine.ContactAge(nil), app.Contacts...),
		col:  config.ColIDNext,
		asc:  true,
	}
	app.ContactsMut.RUnlock()

	slog.Info(config.LogMsgOpenWin,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyCount, len(t.rows))

	sortContacts(t.rows, t.col, t.asc)

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinContacts))
	w.Resize(fyne.NewSize(config.ContactsWinWidth, config.ContactsWinHeight))
	w.SetContent(container.NewStack(t.build()))
	w.SetOnClosed(func() { app.contactsWindow = nil })
	app.contactsWindow = w
	w.Show()
}

func (t *contactTable) build() *widget.Table {
	t.view = widget.NewTable(
		func() (int, int) { return len(t.rows), config.ContactsCols },
		func() fyne.CanvasObject { return widget.NewLabel(config.TablePlaceholder) },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row < len(t.rows) {
				o.(*widget.Label).SetText(t.app.contactCell(t.rows[id.Row], id.Col))
			}
		},
	)

	t.view.ShowHeaderRow = true
	t.view.CreateHeader = func() fyne.CanvasObject { return widget.NewButton("", nil) }
	t.view.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		btn := o.(*widget.Button)
		btn.SetText(t.headerText(id.Col))
		btn.OnTapped = func() { t.sortBy(id.Col) }
	}

	for col, width := range map[int]float32{
		config.ColIDName:  config.ColWidthName,
		config.ColIDBirth: config.ColWidthBirth,
		config.ColIDAge:   config.ColWidthAge,
		config.ColIDNext:  config.ColWidthNext,
	} {
		t.view.SetColumnWidth(col, width)
	}
	return t.view
}

func (t *contactTable) headerText(col int) string {
	text := t.app.GetMsg(columnKey(col))
	switch {
	case col != t.col:
		return text
	case t.asc:
		return text + config.SortIconAsc
	default:
		return text + config.SortIconDesc
	}
}

func (t *contactTable) sortBy(col int) {
	if col == t.col {
		t.asc = !t.asc
	} else {
		t.col, t.asc = col, true
	}
	sortContacts(t.rows, t.col, t.asc)

	slog.Debug(config.LogMsgSorted,
		config.LogKeyComponent, config.CompUI,
		config.LogKeySortCol, t.col,
		config.LogKeySortAsc, t.asc)
	if t.view != nil {
		t.view.Refresh()
	}
}

func columnKey(col int) string {
	switch col {
	case config.ColIDName:
		return config.TKeyColName
	case config.ColIDBirth:
		return config.TKeyColBirth
	case config.ColIDAge:
		return config.TKeyColAge
	default:
		return config.TKeyColNext
	}
}

// contactCell renders one table cell; year-less birthdays show day and month only.
func (app *CalculatorApp) contactCell(c engine.ContactAge, col int) string {
	switch col {
	case config.ColIDName:
		return c.Name
	case config.ColIDBirth:
		if c.YearKnown {
			return c.Birth.String()
		}
		return fmt.Sprintf(config.DateLayoutNoYear, c.Birth.Day, c.Birth.Month)
	case config.ColIDAge:
		if !c.YearKnown {
			return config.AgeUnknown
		}
		return app.GetMsgData(config.TKeyAgeShort, map[string]any{
			"Years":  c.Age.Years,
			"Months": c.Age.Months,
			"Days":   c.Age.Days,
		})
	default:
		if c.YearKnown {
			return fmt.Sprintf(config.FormatNextAge, c.NextBirthday, c.AgeNext)
		}
		return c.NextBirthday.String()
	}
}

// contactOrder compares two contacts on one column.
var contactOrder = map[int]func(a, b engine.ContactAge) int{
	config.ColIDName: func(a, b engine.ContactAge) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	},
	config.ColIDBirth: func(a, b engine.ContactAge) int { return a.Birth.Compare(b.Birth) },
	config.ColIDAge:   func(a, b engine.ContactAge) int { return a.Age.TotalDays - b.Age.TotalDays },
	config.ColIDNext: func(a, b engine.ContactAge) int {
		if c := a.NextBirthday.Compare(b.NextBirthday); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	},
}

// sortContacts orders rows by col. Contacts without a birth year stay after
// the others on the birth and age columns whatever the direction.
func sortContacts(list []engine.ContactAge, col int, asc bool) {
	cmp, ok := contactOrder[col]
	if !ok {
		cmp = contactOrder[config.ColIDNext]
	}
	yearOnly := col == config.ColIDBirth || col == config.ColIDAge

	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if yearOnly && a.YearKnown != b.YearKnown {
			return a.YearKnown
		}
		if asc {
			return cmp(a, b) < 0
		}
		return cmp(a, b) > 0
	})
}
