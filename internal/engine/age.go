package engine

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-agecalc/internal/config"
)

// AgeResult is the calendar-aware difference between two dates plus the exact day count.
// TotalDays is computed independently of the Years/Months/Days breakdown.
type AgeResult struct {
	Years     int `json:"years"`
	Months    int `json:"months"`
	Days      int `json:"days"`
	TotalDays int `json:"total_days"`
}

// AgeBetween returns the difference from start to end. start must be strictly
// earlier than end; equal dates return ErrSameDate and inverted ones ErrDateOrder.
func AgeBetween(start, end CalendarDate) (AgeResult, error) {
	switch start.Compare(end) {
	case 0:
		return AgeResult{}, fmt.Errorf("%w: %s", ErrSameDate, start)
	case 1:
		return AgeResult{}, fmt.Errorf("%w: %s > %s", ErrDateOrder, start, end)
	}

	years := end.Year - start.Year
	months := end.Month - start.Month
	days := end.Day - start.Day

	if days < 0 {
		months--
		days += DaysIn(end.Year, end.Month-1)
	}
	if months < 0 {
		years--
		months += config.MonthsPerYear
	}

	return AgeResult{
		Years:     years,
		Months:    months,
		Days:      days,
		TotalDays: daysBetween(start, end),
	}, nil
}

// daysBetween counts whole days between two midnights. Both instants are UTC
// so daylight-saving transitions never shorten a day.
func daysBetween(start, end CalendarDate) int {
	return int((end.Time().Unix() - start.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = config.HoursPerDay * 60 * 60

// OrderPolicy decides what the calculator does with inverted input.
type OrderPolicy int

const (
	// OrderStrict rejects a birth date that is not before the current date.
	OrderStrict OrderPolicy = iota
	// OrderAutoSwap swaps inverted dates before calculating.
	OrderAutoSwap
)

// ParseOrderPolicy maps the configuration value ("strict" or "swap") to an OrderPolicy.
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", config.PolicyStrict:
		return OrderStrict, nil
	case config.PolicySwap:
		return OrderAutoSwap, nil
	default:
		return OrderStrict, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

func (p OrderPolicy) String() string {
	if p == OrderAutoSwap {
		return config.PolicySwap
	}
	return config.PolicyStrict
}

// Calculation is the outcome of Calculator.Calculate: the dates actually used and the result.
type Calculation struct {
	Birth   CalendarDate
	Current CalendarDate
	Age     AgeResult
	Swapped bool
}

// Calculator applies an OrderPolicy at the boundary and delegates to AgeBetween.
type Calculator struct {
	Policy OrderPolicy
}

// Calculate computes the age of birth at current. Equal dates are rejected by
// both policies since swapping cannot make them strictly ordered.
func (c Calculator) Calculate(birth, current CalendarDate) (Calculation, error) {
	calc := Calculation{Birth: birth, Current: current}
	if c.Policy == OrderAutoSwap && birth.After(current) {
		calc.Birth, calc.Current = current, birth
		calc.Swapped = true
	}

	age, err := AgeBetween(calc.Birth, calc.Current)
	if err != nil {
		return Calculation{}, err
	}
	calc.Age = age
	return calc, nil
}
