package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/tartampluch/go-agecalc/internal/server"
	"github.com/tartampluch/go-agecalc/internal/ui"
	"github.com/tartampluch/go-agecalc/internal/voice"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Calculator commands
// -----------------------------------------------------------------------------

func (c *cli) extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdExtract,
		Short: config.ShortExtract,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dates := engine.ExtractDates(strings.Join(args, " "))
			slog.Debug(config.MsgDatesExtracted,
				config.LogKeyComponent, config.CompCLI,
				config.LogKeyCount, len(dates))

			if len(dates) == 0 {
				// Not an error: the caller decides what to do with an empty result.
				fmt.Fprintln(cmd.ErrOrStderr(), config.MsgNotUnderstood)
				return nil
			}
			for _, d := range dates {
				fmt.Fprintf(cmd.OutOrStdout(), config.MsgLineOutput, d)
			}
			return nil
		},
	}
}

func (c *cli) ageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdAge,
		Short: config.ShortAge,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			birth, err := engine.ParseDate(args[0])
			if err != nil {
				return err
			}
			current := engine.Today(c.clock)
			if len(args) == 2 {
				if current, err = engine.ParseDate(args[1]); err != nil {
					return err
				}
			}

			calc, err := c.calculator()
			if err != nil {
				return err
			}
			res, err := calc.Calculate(birth, current)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Swapped {
				fmt.Fprintf(out, config.MsgSwappedOutput, res.Birth, res.Current)
			}
			fmt.Fprintf(out, config.MsgAgeOutput, res.Age.Years, res.Age.Months, res.Age.Days, res.Age.TotalDays)
			return nil
		},
	}
}

func (c *cli) adultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdAdult,
		Short: config.ShortAdult,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%w: %q", engine.ErrYearOutOfRange, args[0])
			}
			adult, err := engine.AdulthoodYear(year)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgAdultOutput, adult)
			return nil
		},
	}
}

func (c *cli) monthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdMonths,
		Short: config.ShortMonths,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			month, err := parseMonth(args[0])
			if err != nil {
				return err
			}
			prev, err := engine.PreviousMonths(month)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(prev))
			for _, m := range prev {
				names = append(names, m.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), config.MsgLineOutput, strings.Join(names, ", "))
			return nil
		},
	}
}

// parseMonth accepts a month number or a Portuguese month name.
func parseMonth(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if n, ok := engine.MonthNumber(s); ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q", engine.ErrInvalidMonth, s)
}

// listenCmd drives a voice session from stdin, one final transcript per line.
// Blank lines only keep the silence timer alive.
func (c *cli) listenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdListen,
		Short: config.ShortListen,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, err := c.calculator()
			if err != nil {
				return err
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			session := voice.NewSession(calc, c.settings.SortPair, func(ev voice.Event) {
				printEvent(out, errOut, ev)
			})
			session.SilenceTimeout = c.settings.SilenceTimeout

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			err = session.Run(ctx, readTranscripts(ctx, cmd.InOrStdin()))
			switch {
			case errors.Is(err, voice.ErrSilence):
				fmt.Fprintf(errOut, config.MsgSilenceOutput, session.SilenceTimeout)
				return nil
			case errors.Is(err, context.Canceled):
				return nil
			}
			return err
		},
	}
}

// readTranscripts feeds every input line to the session until EOF or ctx ends.
func readTranscripts(ctx context.Context, r io.Reader) <-chan voice.Transcript {
	ch := make(chan voice.Transcript)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			tr := voice.Transcript{Text: sc.Text(), Final: strings.TrimSpace(sc.Text()) != ""}
			select {
			case ch <- tr:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func printEvent(out, errOut io.Writer, ev voice.Event) {
	switch {
	case errors.Is(ev.Err, voice.ErrNoDates):
		fmt.Fprintln(errOut, config.MsgNotUnderstood)
	case ev.Err != nil:
		fmt.Fprintf(errOut, config.MsgRejectOutput, ev.Err)
	case ev.Result != nil:
		res := ev.Result
		if res.Swapped {
			fmt.Fprintf(out, config.MsgSwappedOutput, res.Birth, res.Current)
		}
		fmt.Fprintf(out, config.MsgAgeOutput, res.Age.Years, res.Age.Months, res.Age.Days, res.Age.TotalDays)
	default:
		heard := make([]string, 0, len(ev.Dates))
		for _, d := range ev.Dates {
			heard = append(heard, d.String())
		}
		fmt.Fprintf(out, config.MsgHeardOutput, strings.Join(heard, ", "))
	}
}

// -----------------------------------------------------------------------------
// Contact source commands
// -----------------------------------------------------------------------------

func (c *cli) contactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdContacts,
		Short: config.ShortContacts,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := &engine.Generator{Clock: c.clock, Fetcher: c.fetcher}
			res, err := gen.RunSync(cmd.Context(), c.syncConfig(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Contacts) == 0 {
				fmt.Fprintln(out, config.MsgNoContacts)
				return nil
			}

			contacts := res.Contacts
			sort.SliceStable(contacts, func(i, j int) bool {
				if cmp := contacts[i].NextBirthday.Compare(contacts[j].NextBirthday); cmp != 0 {
					return cmp < 0
				}
				return contacts[i].Name < contacts[j].Name
			})
			for _, ct := range contacts {
				birth, age := ct.Birth.String(), strconv.Itoa(ct.Age.Years)
				if !ct.YearKnown {
					birth = fmt.Sprintf(config.DateLayoutNoYear, ct.Birth.Day, ct.Birth.Month)
					age = config.AgeUnknown
				}
				fmt.Fprintf(out, config.FormatContactRow, ct.Name, birth, age, ct.NextBirthday)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.String(config.FlagFile, "", config.FlagDescFile)
	flags.String(config.FlagURL, "", config.FlagDescURL)
	flags.String(config.FlagUser, "", config.FlagDescUser)
	flags.String(config.FlagPassword, "", config.FlagDescPassword)
	return cmd
}

// syncConfig builds the engine source from settings. An explicit --url or
// --file flag selects the mode; a missing password is read from the keyring.
func (c *cli) syncConfig(cmd *cobra.Command) engine.SyncConfig {
	src := c.settings.Source
	cfg := engine.SyncConfig{
		Mode:      src.Mode,
		LocalPath: src.Path,
		WebURL:    src.URL,
		WebUser:   src.User,
		WebPass:   src.Password,
	}

	switch {
	case cmd.Flags().Changed(config.FlagURL):
		cfg.Mode = config.SourceModeWeb
	case cmd.Flags().Changed(config.FlagFile):
		cfg.Mode = config.SourceModeLocal
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" && cfg.WebPass == "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompCLI)
		}
	}
	return cfg
}

func sourceConfigured(cfg engine.SyncConfig) bool {
	switch cfg.Mode {
	case config.SourceModeLocal:
		return cfg.LocalPath != ""
	case config.SourceModeWeb:
		return cfg.WebURL != ""
	default:
		return false
	}
}

// -----------------------------------------------------------------------------
// Long-running commands
// -----------------------------------------------------------------------------

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.ShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := c.newServer(c.settings.Server.Port)
			if err != nil {
				return err
			}

			if cfg := c.syncConfig(cmd); sourceConfigured(cfg) {
				go c.refreshFeed(cmd.Context(), srv, cfg, config.DefaultICalRefresh)
			}
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().String(config.FlagPort, config.DefaultPort, config.FlagDescPort)
	return cmd
}

func (c *cli) newServer(port string) (*server.Server, error) {
	calc, err := c.calculator()
	if err != nil {
		return nil, err
	}
	return server.New(server.Options{
		Port:      port,
		Policy:    calc.Policy,
		CacheSize: c.settings.Server.CacheSize,
		Clock:     c.clock,
	})
}

// refreshFeed publishes the birthday calendar now and then on every tick until ctx is done.
func (c *cli) refreshFeed(ctx context.Context, srv *server.Server, cfg engine.SyncConfig, every time.Duration) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	gen := &engine.Generator{Clock: c.clock, Fetcher: c.fetcher}

	sync := func() {
		res, err := gen.RunSync(ctx, cfg)
		if err != nil {
			log.Error(config.MsgSyncFailed, config.LogKeyError, err)
			return
		}
		srv.Update(res.Calendar)
	}

	sync()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, every)
	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return
		case <-ticker.C:
			sync()
		}
	}
}

func (c *cli) guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdGUI,
		Short: config.ShortGUI,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a := app.NewWithID(config.AppID)

			// Record the version for potential migration logic in future updates.
			a.Preferences().SetString(config.PrefLastRun, config.Version)

			// Saved GUI preferences win over the headless settings.
			prefs := a.Preferences()
			seedPreferences(prefs, c.settings)
			c.settings.OrderPolicy = prefs.StringWithFallback(config.PrefOrderPolicy, c.settings.OrderPolicy)
			port := prefs.StringWithFallback(config.PrefServerPort, c.settings.Server.Port)

			srv, err := c.newServer(port)
			if err != nil {
				return err
			}

			gui := ui.NewCalculatorApp(a, ctx, srv, c.fetcher)
			gui.Clock = c.clock

			go func() {
				<-ctx.Done()
				slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
				a.Quit()
			}()

			// Blocks until the application quits.
			gui.Run()

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
}

// seedPreferences copies the headless settings into every preference the
// desktop user has not saved yet.
func seedPreferences(p fyne.Preferences, s config.Settings) {
	if p.String(config.PrefOrderPolicy) == "" {
		p.SetString(config.PrefOrderPolicy, s.OrderPolicy)
	}
	if p.String(config.PrefLanguage) == "" && s.Language != "" {
		p.SetString(config.PrefLanguage, s.Language)
	}
	// A stored bool answers the same whatever the fallback.
	if p.BoolWithFallback(config.PrefSortPair, true) != p.BoolWithFallback(config.PrefSortPair, false) {
		p.SetBool(config.PrefSortPair, s.SortPair)
	}
	if p.Int(config.PrefSilenceSeconds) <= 0 && s.SilenceTimeout > 0 {
		secs := int((s.SilenceTimeout + time.Second - 1) / time.Second)
		p.SetInt(config.PrefSilenceSeconds, secs)
	}
}
