package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// Sentinel errors returned by the date core. Callers render them; nothing here is fatal.
var (
	ErrInvalidDate    = errors.New(config.ErrInvalidDate)
	ErrDateOrder      = errors.New(config.ErrDateOrder)
	ErrSameDate       = errors.New(config.ErrSameDate)
	ErrYearOutOfRange = errors.New(config.ErrYearOutOfRange)
	ErrInvalidMonth   = errors.New(config.ErrInvalidMonth)
	ErrInvalidPolicy  = errors.New(config.ErrInvalidPolicy)
)

// CalendarDate is a real Gregorian calendar day, without time or location.
// The zero value is not a valid date; build values through NewCalendarDate,
// ParseDate or ExtractDates.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// NewCalendarDate validates the triple by reconstruction: time.Date normalizes
// overflowing days (31 April becomes 1 May), so any field mismatch means the
// input was not a real date.
func NewCalendarDate(year, month, day int) (CalendarDate, error) {
	if month < 1 || month > config.MonthsPerYear || day < 1 {
		return CalendarDate{}, fmt.Errorf("%w: %02d/%02d/%04d", ErrInvalidDate, day, month, year)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return CalendarDate{}, fmt.Errorf("%w: %02d/%02d/%04d", ErrInvalidDate, day, month, year)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// ValidDate reports whether (day, month, year) is a real date inside the supported year range.
func ValidDate(day, month, year int) bool {
	if day < 1 || day > 31 || month < 1 || month > config.MonthsPerYear {
		return false
	}
	if year < config.MinYear || year > config.MaxYear {
		return false
	}
	_, err := NewCalendarDate(year, month, day)
	return err == nil
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: int(m), Day: d}
}

// InSupportedRange reports whether the year lies in [MinYear, MaxYear].
func (d CalendarDate) InSupportedRange() bool {
	return d.Year >= config.MinYear && d.Year <= config.MaxYear
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }
func (d CalendarDate) Equal(o CalendarDate) bool  { return d.Compare(o) == 0 }

// String formats the date as dd/mm/yyyy.
func (d CalendarDate) String() string {
	return fmt.Sprintf(config.DateLayoutDisplay, d.Day, d.Month, d.Year)
}

// DaysIn returns the number of days of the given month. Month 0 is December of
// the previous year and month 13 January of the next, so callers can ask for
// "the month before" without handling the rollover themselves.
func DaysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month+1), 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseDate reads a dd/mm/yyyy string as typed in the date fields.
func ParseDate(s string) (CalendarDate, error) {
	parts := strings.Split(strings.TrimSpace(s), config.DateSeparator)
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if !ValidDate(day, month, year) {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// ApplyDateMask keeps the digits of s and lays them out as dd/mm/yyyy while
// the user types. Digits beyond the eighth are dropped.
func ApplyDateMask(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) <= 2:
		return digits
	case len(digits) <= 4:
		return digits[:2] + config.DateSeparator + digits[2:]
	default:
		if len(digits) > config.DateMaskDigits {
			digits = digits[:config.DateMaskDigits]
		}
		return digits[:2] + config.DateSeparator + digits[2:4] + config.DateSeparator + digits[4:]
	}
}

// MaskComplete reports whether a masked value holds a full dd/mm/yyyy date.
func MaskComplete(masked string) bool {
	return len(masked) == config.DateMaskLength
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
