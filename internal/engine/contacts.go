package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// SyncConfig selects the vCard source.
type SyncConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP Basic Auth Username
	WebPass   string // HTTP Basic Auth Password
}

// ContactAge is a contact with a known birthday and its ages as of today.
type ContactAge struct {
	UID  string
	Name string

	// Birth uses config.DefaultLeapYear as year when YearKnown is false.
	Birth     CalendarDate
	YearKnown bool

	// Age is today's age; zero when the year is unknown or the birth is today or later.
	Age AgeResult

	// NextBirthday is today or the next anniversary; AgeNext is the age turned on it.
	NextBirthday CalendarDate
	AgeNext      int

	// Adulthood is the 18th birthday; only meaningful when YearKnown is true.
	Adulthood CalendarDate
}

// SyncResult is the output of one sync: the feed served over HTTP and the rows shown in the UI.
type SyncResult struct {
	Calendar []byte
	Contacts []ContactAge
	Today    int
}

// Generator reads contact birthdays and derives ages and the birthday calendar feed.
type Generator struct {
	Clock   Clock
	Fetcher VCardFetcher

	// FormatSummary lets the front-end inject localized event titles.
	// adult is true for the coming-of-age event, false for a regular birthday.
	FormatSummary func(name string, age int, adult bool) string
}

// RunSync opens the configured source, decodes every vCard and computes ages.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) (SyncResult, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	reader, err := g.openSource(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return SyncResult{}, ctx.Err()
		}
		return SyncResult{}, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return SyncResult{}, err
	}

	contacts, err := g.readContacts(ctx, reader)
	if err != nil {
		return SyncResult{}, err
	}

	ics, today, err := g.buildCalendar(contacts)
	if err != nil {
		return SyncResult{}, err
	}

	log.Debug(config.MsgSyncFinished, config.LogKeyDuration, time.Since(start).Milliseconds())
	return SyncResult{Calendar: ics, Contacts: contacts, Today: today}, nil
}

// openSource returns the raw vCard stream selected by cfg.Mode.
func (g *Generator) openSource(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	if cfg.Mode == config.SourceModeLocal {
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	}
	if cfg.Mode != config.SourceModeWeb {
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
	if cfg.WebURL == "" {
		return nil, errors.New(config.ErrWebURLEmpty)
	}
	if g.Fetcher == nil {
		return nil, errors.New(config.ErrFetcherMissing)
	}
	return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
}

// readErrRecorder keeps the first failure of the underlying stream. The vCard
// decoder hands read errors back unwrapped, so this is how parse errors are
// told apart from a broken source.
type readErrRecorder struct {
	r   io.Reader
	err error
}

func (rr *readErrRecorder) Read(p []byte) (int, error) {
	n, err := rr.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && rr.err == nil {
		rr.err = err
	}
	return n, err
}

// readContacts decodes the vCard stream. Malformed cards and dates are logged
// and skipped; a failing source aborts the whole sync.
func (g *Generator) readContacts(ctx context.Context, r io.Reader) ([]ContactAge, error) {
	today := Today(g.Clock)
	src := &readErrRecorder{r: r}
	dec := vcard.NewDecoder(src)
	log := slog.With(config.LogKeyComponent, config.CompEngine)

	var contacts []ContactAge
	for cards := 0; ctx.Err() == nil; cards++ {
		card, err := dec.Decode()
		switch {
		case src.err != nil:
			return nil, fmt.Errorf("%s: %w", config.ErrVCardRead, src.err)
		case errors.Is(err, io.EOF):
			log.Debug(config.MsgCardsDecoded,
				config.LogKeyTotal, cards,
				config.LogKeyFound, len(contacts))
			return contacts, nil
		case err != nil:
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}

		raw := card.PreferredValue(config.VCardBDAY)
		if raw == "" {
			continue
		}
		birth, yearKnown, err := parseBirthday(raw)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, raw)
			continue
		}
		contacts = append(contacts, newContactAge(contactName(card), birth, yearKnown, today))
	}
	return nil, ctx.Err()
}

// contactName prefers FN, then the given and family parts of N.
func contactName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(vcard.FieldFormattedName)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		if joined := strings.TrimSpace(n.GivenName + " " + n.FamilyName); joined != "" {
			return joined
		}
	}
	return config.FallbackName
}

// newContactAge derives every age figure of one contact relative to today.
func newContactAge(name string, birth CalendarDate, yearKnown bool, today CalendarDate) ContactAge {
	input := fmt.Sprintf(config.FormatHashInput, name, birth, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))

	c := ContactAge{
		UID:          fmt.Sprintf("%x", hash[:config.UIDHashLength]),
		Name:         name,
		Birth:        birth,
		YearKnown:    yearKnown,
		NextBirthday: nextBirthday(birth, today),
	}

	if yearKnown {
		c.AgeNext = c.NextBirthday.Year - birth.Year
		c.Adulthood = AdulthoodDate(birth)
		if age, err := AgeBetween(birth, today); err == nil {
			c.Age = age
		}
	}
	return c
}

// nextBirthday returns today if the anniversary is today, otherwise the next one.
// A 29 February birthday falls on 1 March in non-leap years.
func nextBirthday(birth, today CalendarDate) CalendarDate {
	candidate := FromTime(time.Date(today.Year, time.Month(birth.Month), birth.Day, 0, 0, 0, 0, time.UTC))
	if candidate.Before(today) {
		candidate = FromTime(time.Date(today.Year+1, time.Month(birth.Month), birth.Day, 0, 0, 0, 0, time.UTC))
	}
	return candidate
}

// calendarProps are the fixed VCALENDAR text properties, as name/value pairs.
var calendarProps = [][2]string{
	{config.PropVersion, config.ICalVersion},
	{config.PropProdid, config.ICalProdid},
	{config.PropXWRCalName, config.ICalCalName},
	{config.PropCalScale, config.ICalScale},
	{config.PropMethod, config.ICalMethod},
}

// buildCalendar renders one event per upcoming birthday and one coming-of-age
// event for each minor. It returns the feed and the number of birthdays today.
func (g *Generator) buildCalendar(contacts []ContactAge) ([]byte, int, error) {
	now := g.Clock.Now()
	today := FromTime(now)

	cal := ical.NewCalendar()
	for _, p := range calendarProps {
		cal.Props.SetText(p[0], p[1])
	}
	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(now.UTC())

	countToday := 0
	for _, c := range contacts {
		if c.NextBirthday.Equal(today) {
			countToday++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, c.Name,
				config.LogKeyDOB, c.Birth.String())
		}

		cal.Children = append(cal.Children,
			g.newEvent(c, config.UIDKindBirthday, c.NextBirthday, c.AgeNext, false, stamp))

		if c.YearKnown && today.Before(c.Adulthood) {
			cal.Children = append(cal.Children,
				g.newEvent(c, config.UIDKindAdult, c.Adulthood, config.AdultAge, true, stamp))
		}
	}

	if len(cal.Children) == 0 {
		g.logSuccess(len(contacts), 0)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(len(contacts), countToday)
	return buf.Bytes(), countToday, nil
}

func (g *Generator) newEvent(c ContactAge, kind string, on CalendarDate, age int, adult bool, stamp *ical.Prop) *ical.Component {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, c.UID, kind, on.Year, config.ICalDomain))
	event.Props.SetText(config.PropSummary, g.summary(c, age, adult))

	category := config.CategoryBirthday
	if adult {
		category = config.CategoryAdulthood
	}
	event.Props.SetText(config.PropCategories, category)

	start := ical.NewProp(config.PropDTStart)
	start.SetDate(on.Time())
	event.Props.Set(start)
	event.Props.Set(stamp)

	return event.Component
}

func (g *Generator) summary(c ContactAge, age int, adult bool) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(c.Name, age, adult)
	}
	switch {
	case adult:
		return fmt.Sprintf(config.FallbackAdulthood, c.Name)
	case c.YearKnown:
		return fmt.Sprintf(config.FallbackBirthday, c.Name, age)
	default:
		return fmt.Sprintf(config.FallbackBirthdayAge, c.Name)
	}
}

func (g *Generator) logSuccess(found, today int) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, found),
			slog.Int(config.LogKeyToday, today),
		),
	)
}

// birthdayLayouts lists the accepted BDAY layouts; the bool tells whether the
// layout carries a year.
var birthdayLayouts = []struct {
	layout   string
	withYear bool
}{
	{config.DateFormatFullDash, true},
	{config.DateFormatFullBasic, true},
	{config.DateFormatRFC3339, true},
	{config.DateFormatFullT, true},
	{config.DateFormatNoYearD, false},
	{config.DateFormatNoYearB, false},
}

// parseBirthday handles the vCard BDAY layouts, with or without a year.
// Year-less dates are pinned to a leap year so --02-29 stays valid.
func parseBirthday(value string) (CalendarDate, bool, error) {
	for _, l := range birthdayLayouts {
		t, err := time.Parse(l.layout, value)
		if err != nil {
			continue
		}
		if l.withYear {
			return FromTime(t), true, nil
		}
		d, err := NewCalendarDate(config.DefaultLeapYear, int(t.Month()), t.Day())
		return d, false, err
	}
	return CalendarDate{}, false, errors.New(config.ErrDateParse)
}
