package engine

import (
	"fmt"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// MonthInfo pairs a month number with its Portuguese display name.
type MonthInfo struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

// AdulthoodYear returns the year in which someone born in birthYear turns 18.
func AdulthoodYear(birthYear int) (int, error) {
	if birthYear < config.MinYear || birthYear > config.MaxYear {
		return 0, fmt.Errorf("%w: %d", ErrYearOutOfRange, birthYear)
	}
	return birthYear + config.AdultAge, nil
}

// AdulthoodDate returns the 18th birthday. A 29 February birth rolls over to
// 1 March in non-leap years, as time.AddDate does.
func AdulthoodDate(birth CalendarDate) CalendarDate {
	return FromTime(birth.Time().AddDate(config.AdultAge, 0, 0))
}

// IsAdult reports whether the person born on birth is at least 18 on the given day.
func IsAdult(birth, on CalendarDate) bool {
	return !on.Before(AdulthoodDate(birth))
}

// PreviousMonths returns the three months preceding month, oldest first,
// wrapping into the previous year (January yields October, November, December).
func PreviousMonths(month int) ([]MonthInfo, error) {
	if month < 1 || month > config.MonthsPerYear {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	months := make([]MonthInfo, 0, config.PreviousMonthSpan)
	for i := config.PreviousMonthSpan; i >= 1; i-- {
		n := month - i
		if n <= 0 {
			n += config.MonthsPerYear
		}
		months = append(months, MonthInfo{Number: n, Name: MonthName(n)})
	}
	return months, nil
}
