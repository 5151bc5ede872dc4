// Package voice turns a stream of speech transcripts into calculator input.
//
// The speech engine itself lives outside this package: anything that can
// deliver Transcript values on a channel (a desktop dictation bridge, a test,
// the GUI's text box) drives a Session.
package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

var (
	// ErrSilence ends Run when no transcript arrived within the silence timeout.
	// Callers treat it as a normal end of dictation.
	ErrSilence = errors.New(config.ErrSilence)

	// ErrNoDates is reported in Event.Err when a final transcript held no usable date.
	ErrNoDates = errors.New(config.ErrNoDates)
)

// Transcript is one result of the speech engine. Interim results may be
// followed by more text; only Final ones are parsed.
type Transcript struct {
	Text  string
	Final bool
}

// Event reports what a final transcript did to the session.
type Event struct {
	Transcript string
	Dates      []engine.CalendarDate
	Placement  engine.Placement
	Slots      engine.Slots

	// Result is set once both slots are filled and the calculation succeeded.
	Result *engine.Calculation
	Err    error
}

// Session holds the two date slots of one dictation and reacts to transcripts.
// A Session is not safe for concurrent use; Run owns it until it returns.
type Session struct {
	Calculator     engine.Calculator
	SortPair       bool
	SilenceTimeout time.Duration
	Slots          engine.Slots

	// Handler receives one Event per final transcript. It runs on the Run goroutine.
	Handler func(Event)
}

// NewSession returns a session configured with the default silence timeout.
func NewSession(calc engine.Calculator, sortPair bool, handler func(Event)) *Session {
	return &Session{
		Calculator:     calc,
		SortPair:       sortPair,
		SilenceTimeout: config.DefaultSilenceTimeout,
		Handler:        handler,
	}
}

// Run consumes transcripts until the channel is closed (nil error), ctx is
// done (ctx.Err()) or SilenceTimeout elapses without any transcript (ErrSilence).
// Interim transcripts only restart the silence timer.
func (s *Session) Run(ctx context.Context, in <-chan Transcript) error {
	timeout := s.SilenceTimeout
	if timeout <= 0 {
		timeout = config.DefaultSilenceTimeout
	}

	log := slog.With(config.LogKeyComponent, config.CompVoice)
	log.Info(config.MsgVoiceStart, config.LogKeyTimeout, timeout.String())

	silence := time.NewTimer(timeout)
	defer silence.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgVoiceStop, config.LogKeyError, ctx.Err())
			return ctx.Err()

		case <-silence.C:
			log.Info(config.MsgVoiceStop, config.LogKeyError, ErrSilence)
			return ErrSilence

		case tr, ok := <-in:
			if !ok {
				log.Info(config.MsgVoiceStop)
				return nil
			}
			silence.Reset(timeout)

			log.Debug(config.MsgTranscript,
				config.LogKeyValue, tr.Text,
				config.LogKeyFinal, tr.Final)
			if !tr.Final {
				continue
			}

			ev := s.Process(tr.Text)
			if s.Handler != nil {
				s.Handler(ev)
			}
		}
	}
}

// Process parses one final transcript, updates the slots and calculates when
// both are filled. When the calculator swaps the dates, the slots follow.
func (s *Session) Process(text string) Event {
	text = strings.ToLower(strings.TrimSpace(text))
	ev := Event{Transcript: text, Dates: engine.ExtractDates(text)}

	s.Slots, ev.Placement = engine.PlaceDates(s.Slots, ev.Dates, s.SortPair)
	ev.Slots = s.Slots

	log := slog.With(config.LogKeyComponent, config.CompVoice)

	if ev.Placement == engine.PlacementNone {
		ev.Err = ErrNoDates
		log.Info(config.MsgNotUnderstood, config.LogKeyValue, text)
		return ev
	}
	if !s.Slots.Complete() {
		return ev
	}

	calc, err := s.Calculator.Calculate(*s.Slots.Birth, *s.Slots.Current)
	if err != nil {
		ev.Err = err
		log.Info(config.MsgAgeRejected,
			config.LogKeyBirth, s.Slots.Birth.String(),
			config.LogKeyCurrent, s.Slots.Current.String(),
			config.LogKeyError, err)
		return ev
	}

	if calc.Swapped {
		log.Info(config.MsgDatesSwapped, config.LogKeyPolicy, s.Calculator.Policy.String())
		s.Slots = engine.Slots{Birth: &calc.Birth, Current: &calc.Current}
		ev.Slots = s.Slots
	}

	ev.Result = &calc
	log.Debug(config.MsgAgeComputed,
		config.LogKeyPlacement, ev.Placement.String(),
		config.LogKeyBirth, calc.Birth.String(),
		config.LogKeyCurrent, calc.Current.String())
	return ev
}

// Reset empties both slots.
func (s *Session) Reset() {
	s.Slots = s.Slots.Reset()
}
