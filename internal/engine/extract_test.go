package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"pgregory.net/rapid"
)

func date(y, m, d int) engine.CalendarDate {
	return engine.CalendarDate{Year: y, Month: m, Day: d}
}

func TestExtractDates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []engine.CalendarDate
	}{
		{"Numeric", "15/01/1990", []engine.CalendarDate{date(1990, 1, 15)}},
		{"NumericShortFields", "nasci em 5/3/1990", []engine.CalendarDate{date(1990, 3, 5)}},
		{"Spoken", "15 de janeiro de 1990", []engine.CalendarDate{date(1990, 1, 15)}},
		{"SpokenAccented", "1 de Março de 2001", []engine.CalendarDate{date(2001, 3, 1)}},
		{"SpokenUnaccented", "1 de marco de 2001", []engine.CalendarDate{date(2001, 3, 1)}},
		{"SpokenUpperCase", "20 DE MAIO DE 2020", []engine.CalendarDate{date(2020, 5, 20)}},
		{"TwoNumericInOrder", "15/01/1990 e 20/05/2020", []engine.CalendarDate{date(1990, 1, 15), date(2020, 5, 20)}},
		{"NoSorting", "20/05/2020 e 15/01/1990", []engine.CalendarDate{date(2020, 5, 20), date(1990, 1, 15)}},
		{
			"NumericBeforeSpoken",
			"15 de janeiro de 1990 até 20/05/2020",
			[]engine.CalendarDate{date(2020, 5, 20), date(1990, 1, 15)},
		},
		{"FebruaryOverflow", "31/02/2020", nil},
		{"ThirtyFirstApril", "31 de abril de 2020", nil},
		{"YearBelowRange", "01/01/1899", nil},
		{"YearAboveRange", "01/01/2101", nil},
		{"UnknownMonthName", "15 de brumario de 1990", nil},
		{"MonthThirteen", "10/13/2000", nil},
		{"InvalidSkippedValidKept", "31/02/2020 ou 28/02/2020", []engine.CalendarDate{date(2020, 2, 28)}},
		{"NoDate", "hoje está sol", nil},
		{"Empty", "", nil},
		{
			"CappedAtTwo",
			"01/01/2000, 02/02/2001 e 03/03/2002",
			[]engine.CalendarDate{date(2000, 1, 1), date(2001, 2, 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ExtractDates(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDates_NumericRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := rapid.IntRange(1900, 2100).Draw(t, "year")
		m := rapid.IntRange(1, 12).Draw(t, "month")
		d := rapid.IntRange(1, engine.DaysIn(y, m)).Draw(t, "day")

		got := engine.ExtractDates(fmt.Sprintf("%02d/%02d/%04d", d, m, y))
		if len(got) != 1 || got[0] != date(y, m, d) {
			t.Fatalf("expected [%v], got %v", date(y, m, d), got)
		}
	})
}

func TestExtractDates_SpokenRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		y := rapid.IntRange(1900, 2100).Draw(t, "year")
		m := rapid.IntRange(1, 12).Draw(t, "month")
		d := rapid.IntRange(1, engine.DaysIn(y, m)).Draw(t, "day")

		text := fmt.Sprintf("%d de %s de %d", d, engine.MonthName(m), y)
		got := engine.ExtractDates(text)
		if len(got) != 1 || got[0] != date(y, m, d) {
			t.Fatalf("%q: expected [%v], got %v", text, date(y, m, d), got)
		}
	})
}

func TestExtractDates_NeverReturnsInvalid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := rapid.IntRange(0, 99).Draw(t, "day")
		m := rapid.IntRange(0, 99).Draw(t, "month")
		y := rapid.IntRange(1000, 9999).Draw(t, "year")

		for _, got := range engine.ExtractDates(fmt.Sprintf("%d/%d/%d", d, m, y)) {
			if !engine.ValidDate(got.Day, got.Month, got.Year) {
				t.Fatalf("invalid date extracted: %v", got)
			}
		}
	})
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "marco", engine.Normalize("Março"))
	assert.Equal(t, "sao joao", engine.Normalize("São João"))
	assert.Equal(t, "15/01/1990", engine.Normalize("15/01/1990"))
}

func TestMonthNumberAndName(t *testing.T) {
	for m := 1; m <= 12; m++ {
		n, ok := engine.MonthNumber(engine.MonthName(m))
		assert.True(t, ok)
		assert.Equal(t, m, n)
	}

	n, ok := engine.MonthNumber(" MARCO ")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = engine.MonthNumber("march")
	assert.False(t, ok)

	assert.Equal(t, "Março", engine.MonthName(3))
	assert.Empty(t, engine.MonthName(0))
	assert.Empty(t, engine.MonthName(13))
}
