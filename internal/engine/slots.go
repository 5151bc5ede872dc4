package engine

import "sort"

// Slots holds the two dates a calculator front-end is filling in.
// Front-ends own the value and pass it explicitly; nil means the slot is empty.
type Slots struct {
	Birth   *CalendarDate
	Current *CalendarDate
}

// Complete reports whether both slots are filled.
func (s Slots) Complete() bool {
	return s.Birth != nil && s.Current != nil
}

// Reset returns empty slots.
func (Slots) Reset() Slots {
	return Slots{}
}

// Placement describes where PlaceDates put newly extracted dates.
type Placement int

const (
	PlacementNone Placement = iota
	PlacementPair
	PlacementBirth
	PlacementCurrent
	PlacementBirthReplaced
	PlacementCurrentReplaced
)

func (p Placement) String() string {
	switch p {
	case PlacementPair:
		return "pair"
	case PlacementBirth:
		return "birth"
	case PlacementCurrent:
		return "current"
	case PlacementBirthReplaced:
		return "birth_replaced"
	case PlacementCurrentReplaced:
		return "current_replaced"
	default:
		return "none"
	}
}

// PlaceDates fills slots with the dates found in one transcript or text input.
//
// Two dates replace both slots (ascending when sortPair is set, first-found is
// the birth date otherwise). A single date goes to the first empty slot; when
// both are filled it replaces the current date if it is after the birth date,
// and the birth date otherwise.
func PlaceDates(s Slots, dates []CalendarDate, sortPair bool) (Slots, Placement) {
	switch len(dates) {
	case 0:
		return s, PlacementNone
	case 1:
		d := dates[0]
		switch {
		case s.Birth == nil:
			s.Birth = &d
			return s, PlacementBirth
		case s.Current == nil:
			s.Current = &d
			return s, PlacementCurrent
		case d.After(*s.Birth):
			s.Current = &d
			return s, PlacementCurrentReplaced
		default:
			s.Birth = &d
			return s, PlacementBirthReplaced
		}
	default:
		pair := []CalendarDate{dates[0], dates[1]}
		if sortPair {
			sort.Slice(pair, func(i, j int) bool { return pair[i].Before(pair[j]) })
		}
		return Slots{Birth: &pair[0], Current: &pair[1]}, PlacementPair
	}
}
