package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/voice"
)

// voiceTab feeds typed or dictated phrases to a voice.Session. The text box
// stands in for the speech engine: edits are interim transcripts, Enter or
// Send delivers a final one.
type voiceTab struct {
	app     *CalculatorApp
	session *voice.Session

	entry   *widget.Entry
	listen  *widget.Button
	status  *widget.Label
	slots   *widget.Label
	result  *resultPanel
	running bool

	transcripts chan voice.Transcript
	cancel      context.CancelFunc
	done        chan struct{}
}

func (app *CalculatorApp) newVoiceTab() *voiceTab {
	t := &voiceTab{
		app:    app,
		entry:  widget.NewEntry(),
		status: widget.NewLabel(app.GetMsg(config.TKeyLblIdle)),
		slots:  widget.NewLabel(""),
		result: app.newResultPanel(),
	}
	t.session = voice.NewSession(app.calculator(), app.sortPair(), t.handle)
	t.session.SilenceTimeout = app.silenceTimeout()

	t.entry.PlaceHolder = config.PlaceholderVoice
	t.entry.OnChanged = func(s string) { t.interim(s) }
	t.entry.OnSubmitted = func(string) { t.send() }

	t.listen = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnListen), theme.MediaRecordIcon(), t.toggle)
	t.renderSlots()
	return t
}

func (t *voiceTab) content() fyne.CanvasObject {
	send := widget.NewButtonWithIcon(t.app.GetMsg(config.TKeyBtnSend), theme.MailSendIcon(), t.send)
	reset := widget.NewButtonWithIcon(t.app.GetMsg(config.TKeyBtnReset), theme.ContentClearIcon(), t.reset)

	hint := widget.NewLabel(t.app.GetMsg(config.TKeyLblVoiceHint))
	hint.Wrapping = fyne.TextWrapWord

	return container.NewVBox(
		hint,
		widget.NewForm(widget.NewFormItem(t.app.GetMsg(config.TKeyLblTranscript), t.entry)),
		container.NewHBox(t.listen, send, reset, t.status),
		t.slots,
		t.result.content(),
	)
}

// toggle starts or stops listening.
func (t *voiceTab) toggle() {
	if t.running {
		t.stop()
		return
	}
	t.start()
}

func (t *voiceTab) start() {
	if t.running {
		return
	}
	// Pick up settings changed since the tab was built.
	t.session.Calculator = t.app.calculator()
	t.session.SortPair = t.app.sortPair()
	t.session.SilenceTimeout = t.app.silenceTimeout()

	parent := t.app.Ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	in := make(chan voice.Transcript, config.TranscriptBufferSize)
	done := make(chan struct{})

	t.transcripts, t.cancel, t.done = in, cancel, done
	t.running = true
	t.setListening(true)

	go func() {
		defer close(done)
		err := t.session.Run(ctx, in)
		fyne.Do(func() { t.finished(done, err) })
	}()
}

// stop cancels the running session and waits until Run returned.
func (t *voiceTab) stop() {
	if !t.running {
		return
	}
	t.cancel()
	<-t.done
	t.running = false
	t.setListening(false)
}

// finished runs on the UI goroutine when Run returned on its own (silence or cancel).
func (t *voiceTab) finished(done chan struct{}, err error) {
	if t.done != done || !t.running {
		return
	}
	t.running = false
	t.setListening(false)
	if errors.Is(err, voice.ErrSilence) {
		t.app.notify(config.TKeyNotifVoiceEnded, nil)
	}
}

func (t *voiceTab) setListening(on bool) {
	if on {
		t.listen.SetText(t.app.GetMsg(config.TKeyBtnStop))
		t.listen.SetIcon(theme.MediaStopIcon())
		t.status.SetText(t.app.GetMsg(config.TKeyLblListening))
		return
	}
	t.listen.SetText(t.app.GetMsg(config.TKeyBtnListen))
	t.listen.SetIcon(theme.MediaRecordIcon())
	t.status.SetText(t.app.GetMsg(config.TKeyLblIdle))
}

// interim keeps the silence timer alive while the user is still typing.
func (t *voiceTab) interim(text string) {
	if !t.running {
		return
	}
	select {
	case t.transcripts <- voice.Transcript{Text: text}:
	default:
	}
}

// send delivers the entry as a final transcript, starting a session if needed.
func (t *voiceTab) send() {
	text := t.entry.Text
	if text == "" {
		return
	}
	t.start()
	select {
	case t.transcripts <- voice.Transcript{Text: text, Final: true}:
		t.entry.SetText("")
	default:
		slog.Warn(config.ErrTranscriptBuffer, config.LogKeyComponent, config.CompVoice)
	}
}

// reset stops listening and empties both slots.
func (t *voiceTab) reset() {
	t.stop()
	t.session.Reset()
	t.result.clear()
	t.renderSlots()
	t.app.notify(config.TKeyNotifReset, nil)
}

// handle is the session callback; it runs on the session goroutine.
func (t *voiceTab) handle(ev voice.Event) {
	fyne.Do(func() { t.apply(ev) })
}

// apply renders one event on the UI goroutine.
func (t *voiceTab) apply(ev voice.Event) {
	t.renderSlotsFrom(ev.Slots)

	if ev.Err != nil {
		key := errorKey(ev.Err)
		// An unrecognized phrase leaves the previous result on screen.
		if ev.Placement != engine.PlacementNone {
			t.result.fail(t.app.GetMsg(key))
		}
		t.app.notify(key, nil)
		return
	}

	if key := placementKey(ev.Placement); key != "" {
		t.app.notify(key, map[string]any{"Dates": formatDates(ev.Dates)})
	}
	if ev.Result != nil {
		if ev.Result.Swapped {
			t.app.notify(config.TKeyNotifSwapped, nil)
		}
		t.result.show(*ev.Result)
	}
}

func (t *voiceTab) renderSlots() {
	t.renderSlotsFrom(t.session.Slots)
}

func (t *voiceTab) renderSlotsFrom(s engine.Slots) {
	t.slots.SetText(t.app.GetMsgData(config.TKeyLblSlots, map[string]any{
		"Birth":   slotText(s.Birth),
		"Current": slotText(s.Current),
	}))
}

func slotText(d *engine.CalendarDate) string {
	if d == nil {
		return config.AgeUnknown
	}
	return d.String()
}

func formatDates(dates []engine.CalendarDate) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ", ")
}

func placementKey(p engine.Placement) string {
	switch p {
	case engine.PlacementPair:
		return config.TKeyNotifPair
	case engine.PlacementBirth:
		return config.TKeyNotifBirth
	case engine.PlacementCurrent:
		return config.TKeyNotifCurrent
	case engine.PlacementBirthReplaced:
		return config.TKeyNotifBirthReplaced
	case engine.PlacementCurrentReplaced:
		return config.TKeyNotifCurrentReplace
	default:
		return ""
	}
}

// stopVoice ends any running dictation, e.g. when the window is hidden.
func (app *CalculatorApp) stopVoice() {
	if app.voice != nil {
		app.voice.stop()
	}
}
