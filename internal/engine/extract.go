package engine

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/tartampluch/go-agecalc/internal/config"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Capture group indices shared by both date patterns (1-based submatch positions).
const (
	grpDay   = 1
	grpMonth = 2
	grpYear  = 3
)

var (
	// reNumeric matches dd/mm/yyyy with one or two digit day and month.
	reNumeric = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)

	// reSpoken matches "<day> de <month name> de <year>" as produced by pt-BR dictation.
	reSpoken = regexp.MustCompile(`(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})`)
)

// monthsByName maps ASCII-folded Portuguese month names to their number.
var monthsByName = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// monthDisplayNames holds the accented names shown to users, indexed by month-1.
var monthDisplayNames = [config.MonthsPerYear]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Normalize strips diacritics and lower-cases text, so "Março" and "marco" compare equal.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		// The chain only fails on invalid UTF-8; keep the raw text in that case.
		folded = text
	}
	return strings.ToLower(folded)
}

// MonthNumber resolves a Portuguese month name, accented or not.
func MonthNumber(name string) (int, bool) {
	m, ok := monthsByName[Normalize(strings.TrimSpace(name))]
	return m, ok
}

// MonthName returns the Portuguese display name of month (1-12), or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > config.MonthsPerYear {
		return ""
	}
	return monthDisplayNames[month-1]
}

// ExtractDates finds calendar dates in typed text or a speech transcript.
//
// Numeric dd/mm/yyyy matches come first, then spoken "15 de janeiro de 1990"
// matches, each group in left-to-right order. Matches that do not form a real
// date between 1900 and 2100 are dropped. At most MaxExtractedDates are returned.
func ExtractDates(text string) []CalendarDate {
	normalized := Normalize(text)

	var dates []CalendarDate
	dates = appendMatches(dates, normalized, reNumeric, strconv.Atoi)
	dates = appendMatches(dates, normalized, reSpoken, monthFromName)

	if len(dates) > config.MaxExtractedDates {
		dates = dates[:config.MaxExtractedDates]
	}
	return dates
}

// appendMatches collects the valid dates matched by re; monthOf converts the
// month capture group, which is numeric or a month name depending on the pattern.
func appendMatches(dates []CalendarDate, s string, re *regexp.Regexp, monthOf func(string) (int, error)) []CalendarDate {
	for _, m := range re.FindAllStringSubmatch(s, -1) {
		day, err := strconv.Atoi(m[grpDay])
		if err != nil {
			continue
		}
		month, err := monthOf(m[grpMonth])
		if err != nil {
			continue
		}
		year, err := strconv.Atoi(m[grpYear])
		if err != nil {
			continue
		}
		if !ValidDate(day, month, year) {
			continue
		}
		dates = append(dates, CalendarDate{Year: year, Month: month, Day: day})
	}
	return dates
}

func monthFromName(name string) (int, error) {
	if m, ok := monthsByName[name]; ok {
		return m, nil
	}
	return 0, ErrInvalidMonth
}
