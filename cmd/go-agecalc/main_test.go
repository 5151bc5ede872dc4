package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Test helpers
// -----------------------------------------------------------------------------

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

const contactsVCF = "BEGIN:VCARD\nVERSION:3.0\nFN:Bia\nBDAY:--0302\nEND:VCARD\n" +
	"BEGIN:VCARD\nVERSION:3.0\nFN:Ana\nBDAY:19900115\nEND:VCARD\n"

// newTestCLI returns a cli whose today is 15/01/2024 and whose logs stay in memory.
func newTestCLI() (*cli, *mockFetcher) {
	fetcher := new(mockFetcher)
	return &cli{
		viper:   config.NewViper(),
		clock:   fixedClock{now: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)},
		fetcher: fetcher,
	}, fetcher
}

func execute(t *testing.T, c *cli, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, c, strings.NewReader(""), args...)
}

func executeWithInput(t *testing.T, c *cli, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(context.Background())
	c.close()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), config.FilePermUserRW))
	return path
}

// -----------------------------------------------------------------------------
// Calculator commands
// -----------------------------------------------------------------------------

func TestExtractCommand(t *testing.T) {
	c, _ := newTestCLI()
	out, _, err := execute(t, c, "extract", "nasci", "em", "20", "de", "maio", "de", "2020", "e", "15/01/1990")
	require.NoError(t, err)
	assert.Equal(t, "15/01/1990\n20/05/2020\n", out)
}

func TestExtractCommand_NotUnderstood(t *testing.T) {
	c, _ := newTestCLI()
	out, errOut, err := execute(t, c, "extract", "31/02/2020")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, config.MsgNotUnderstood)
}

func TestAgeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"Borrow", []string{"age", "15/01/1990", "14/01/2024"}, "33 years, 11 months, 30 days (12417 days in total)\n"},
		{"DefaultsToToday", []string{"age", "15/01/1990"}, "34 years, 0 months, 0 days (12418 days in total)\n"},
		{"LeapDay", []string{"age", "29/02/2000", "01/03/2001"}, "1 years, 0 months, 0 days (366 days in total)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI()
			out, _, err := execute(t, c, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestAgeCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"StrictInverted", []string{"age", "20/05/2020", "15/01/1990"}, engine.ErrDateOrder},
		{"SameDate", []string{"age", "15/01/1990", "15/01/1990"}, engine.ErrSameDate},
		{"InvalidBirth", []string{"age", "31/02/2020", "15/01/2024"}, engine.ErrInvalidDate},
		{"InvalidCurrent", []string{"age", "15/01/1990", "1/1/24"}, engine.ErrInvalidDate},
		{"UnknownPolicy", []string{"age", "--policy", "sideways", "15/01/1990"}, engine.ErrInvalidPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI()
			_, _, err := execute(t, c, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAgeCommand_SwapPolicySources(t *testing.T) {
	want := "Dates were inverted and have been swapped: 15/01/1990 -> 20/05/2020\n" +
		"30 years, 4 months, 5 days (11083 days in total)\n"

	t.Run("Flag", func(t *testing.T) {
		c, _ := newTestCLI()
		out, _, err := execute(t, c, "age", "--policy", "swap", "20/05/2020", "15/01/1990")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("ConfigFile", func(t *testing.T) {
		path := writeFile(t, "agecalc.yaml", "order_policy: swap\n")
		c, _ := newTestCLI()
		out, _, err := execute(t, c, "--config", path, "age", "20/05/2020", "15/01/1990")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv(config.EnvPrefix+"_ORDER_POLICY", config.PolicySwap)
		c, _ := newTestCLI()
		out, _, err := execute(t, c, "age", "20/05/2020", "15/01/1990")
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})
}

func TestAdultCommand(t *testing.T) {
	c, _ := newTestCLI()
	out, _, err := execute(t, c, "adult", "2006")
	require.NoError(t, err)
	assert.Equal(t, "2024\n", out)

	for _, bad := range []string{"1800", "dois mil"} {
		c, _ := newTestCLI()
		_, _, err := execute(t, c, "adult", bad)
		assert.ErrorIs(t, err, engine.ErrYearOutOfRange, bad)
	}
}

func TestMonthsCommand(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"1", "Outubro, Novembro, Dezembro\n"},
		{"março", "Dezembro, Janeiro, Fevereiro\n"},
		{"Dezembro", "Setembro, Outubro, Novembro\n"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			c, _ := newTestCLI()
			out, _, err := execute(t, c, "months", tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	for _, bad := range []string{"13", "brumaire"} {
		c, _ := newTestCLI()
		_, _, err := execute(t, c, "months", bad)
		assert.ErrorIs(t, err, engine.ErrInvalidMonth, bad)
	}
}

func TestVersionCommand(t *testing.T) {
	c, _ := newTestCLI()
	out, _, err := execute(t, c, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, config.AppName+" version "+config.Version))
}

// -----------------------------------------------------------------------------
// Contact source commands
// -----------------------------------------------------------------------------

func TestContactsCommand_LocalFile(t *testing.T) {
	path := writeFile(t, "contacts.vcf", contactsVCF)

	c, _ := newTestCLI()
	out, _, err := execute(t, c, "contacts", "--file", path)
	require.NoError(t, err)

	want := fmt.Sprintf(config.FormatContactRow, "Ana", "15/01/1990", "34", "15/01/2024") +
		fmt.Sprintf(config.FormatContactRow, "Bia", "02/03", config.AgeUnknown, "02/03/2024")
	assert.Equal(t, want, out)
}

func TestContactsCommand_RemoteUsesKeyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, "ana", "s3cret"))

	c, fetcher := newTestCLI()
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com", "ana", "s3cret").
		Return(io.NopCloser(strings.NewReader(contactsVCF)), nil)

	out, _, err := execute(t, c, "contacts", "--url", "https://dav.example.com", "--user", "ana")
	require.NoError(t, err)
	fetcher.AssertExpectations(t)
	assert.Contains(t, out, "Ana")
}

func TestContactsCommand_NoSource(t *testing.T) {
	c, _ := newTestCLI()
	_, _, err := execute(t, c, "contacts")
	assert.ErrorContains(t, err, config.ErrLocalPathEmpty)
}

func TestContactsCommand_Empty(t *testing.T) {
	path := writeFile(t, "empty.vcf", "")

	c, _ := newTestCLI()
	out, _, err := execute(t, c, "contacts", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, config.MsgNoContacts+"\n", out)
}

func TestSourceConfigured(t *testing.T) {
	assert.True(t, sourceConfigured(engine.SyncConfig{Mode: config.SourceModeLocal, LocalPath: "/a.vcf"}))
	assert.False(t, sourceConfigured(engine.SyncConfig{Mode: config.SourceModeLocal}))
	assert.True(t, sourceConfigured(engine.SyncConfig{Mode: config.SourceModeWeb, WebURL: "https://x"}))
	assert.False(t, sourceConfigured(engine.SyncConfig{Mode: config.SourceModeWeb, LocalPath: "/a.vcf"}))
	assert.False(t, sourceConfigured(engine.SyncConfig{Mode: "ftp", WebURL: "ftp://x"}))
}

// -----------------------------------------------------------------------------
// Feed refresh
// -----------------------------------------------------------------------------

func TestRefreshFeed_PublishesCalendar(t *testing.T) {
	path := writeFile(t, "contacts.vcf", contactsVCF)

	c, _ := newTestCLI()
	c.settings.Server.CacheSize = config.DefaultCacheSize
	srv, err := c.newServer("0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.refreshFeed(ctx, srv, engine.SyncConfig{Mode: config.SourceModeLocal, LocalPath: path}, time.Hour)
	}()

	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
		return w.Code == http.StatusOK && strings.Contains(w.Body.String(), "Ana turns 34")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refreshFeed did not stop on cancellation")
	}
}

// -----------------------------------------------------------------------------
// Logging
// -----------------------------------------------------------------------------

func TestNewLogger_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", config.LogFileName)

	logger, closer := newLogger(&console, logOptions{Level: slog.LevelInfo, File: path})
	require.NotNil(t, closer)

	logger.Debug("hidden")
	logger.Info("visible", config.LogKeyComponent, config.CompCLI)
	require.NoError(t, closer.Close())

	assert.NotContains(t, console.String(), "hidden")
	assert.Contains(t, console.String(), `"msg":"visible"`)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, console.String(), string(data))
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	var console bytes.Buffer
	logger, closer := newLogger(&console, logOptions{Level: slog.LevelWarn, Debug: true})
	assert.Nil(t, closer)

	logger.Debug("detail")
	assert.Contains(t, console.String(), `"msg":"detail"`)
	assert.Contains(t, console.String(), `"source":`)
}

func TestNewLogger_UnwritableFileFallsBackToConsole(t *testing.T) {
	blocker := writeFile(t, "blocker", "")
	var console bytes.Buffer

	logger, closer := newLogger(&console, logOptions{Level: slog.LevelInfo, File: filepath.Join(blocker, "app.log")})
	assert.Nil(t, closer)
	assert.Contains(t, console.String(), config.ErrLogFile)

	logger.Info("still logging")
	assert.Contains(t, console.String(), "still logging")
}

func TestCommandOutputStaysClean(t *testing.T) {
	c, _ := newTestCLI()
	out, errOut, err := execute(t, c, "--debug", "adult", "2000")
	require.NoError(t, err)
	assert.Equal(t, "2018\n", out)
	assert.Contains(t, errOut, config.MsgSettingsLoaded)
}

// -----------------------------------------------------------------------------
// Dictation
// -----------------------------------------------------------------------------

func TestListenCommand_OneDatePerLine(t *testing.T) {
	c, _ := newTestCLI()
	in := strings.NewReader("15/01/1990\n\n20 de maio de 2020\n")

	out, errOut, err := executeWithInput(t, c, in, "listen")
	require.NoError(t, err)
	assert.Equal(t, "Heard 15/01/1990, waiting for the other date\n"+
		"30 years, 4 months, 5 days (11083 days in total)\n", out)
	assert.NotContains(t, errOut, config.MsgNotUnderstood, "blank lines are not transcripts")
}

func TestListenCommand_NotUnderstood(t *testing.T) {
	c, _ := newTestCLI()
	out, errOut, err := executeWithInput(t, c, strings.NewReader("amanhã talvez\n"), "listen")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, config.MsgNotUnderstood)
}

func TestListenCommand_SortPairSetting(t *testing.T) {
	const inverted = "20/05/2020 e 15/01/1990\n"
	tests := []struct {
		name    string
		env     string
		wantOut string
		wantErr string
	}{
		{"SortedByDefault", "", "30 years, 4 months, 5 days (11083 days in total)\n", ""},
		{"KeptInSpokenOrder", "false", "", engine.ErrDateOrder.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("AGECALC_SORT_PAIR", tt.env)
			}
			c, _ := newTestCLI()
			out, errOut, err := executeWithInput(t, c, strings.NewReader(inverted), "listen")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			if tt.wantErr != "" {
				assert.Contains(t, errOut, tt.wantErr)
			}
		})
	}
}

func TestListenCommand_SwapPolicyFromYAML(t *testing.T) {
	cfg := writeFile(t, "settings.yaml", "order_policy: swap\nsort_pair: false\n")
	c, _ := newTestCLI()

	out, _, err := executeWithInput(t, c, strings.NewReader("20/05/2020 e 15/01/1990\n"), "--config", cfg, "listen")
	require.NoError(t, err)
	assert.Contains(t, out, "swapped: 15/01/1990 -> 20/05/2020")
	assert.Contains(t, out, "30 years, 4 months, 5 days")
}

func TestListenCommand_SilenceTimeoutSetting(t *testing.T) {
	t.Setenv("AGECALC_SILENCE_TIMEOUT", "50ms")
	r, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })

	c, _ := newTestCLI()
	start := time.Now()
	_, errOut, err := executeWithInput(t, c, r, "listen")

	require.NoError(t, err)
	assert.Less(t, time.Since(start), config.DefaultSilenceTimeout)
	assert.Contains(t, errOut, fmt.Sprintf(config.MsgSilenceOutput, 50*time.Millisecond))
}

// -----------------------------------------------------------------------------
// Desktop preferences
// -----------------------------------------------------------------------------

func TestSeedPreferences_FillsUnsavedKeys(t *testing.T) {
	prefs := test.NewApp().Preferences()

	seedPreferences(prefs, config.Settings{
		OrderPolicy:    config.PolicySwap,
		SortPair:       false,
		SilenceTimeout: 2500 * time.Millisecond,
		Language:       "en",
	})

	assert.Equal(t, config.PolicySwap, prefs.String(config.PrefOrderPolicy))
	assert.Equal(t, "en", prefs.String(config.PrefLanguage))
	assert.False(t, prefs.BoolWithFallback(config.PrefSortPair, true))
	assert.Equal(t, 3, prefs.Int(config.PrefSilenceSeconds))
}

func TestSeedPreferences_SavedValuesWin(t *testing.T) {
	prefs := test.NewApp().Preferences()
	prefs.SetString(config.PrefOrderPolicy, config.PolicyStrict)
	prefs.SetString(config.PrefLanguage, "pt")
	prefs.SetBool(config.PrefSortPair, true)
	prefs.SetInt(config.PrefSilenceSeconds, 9)

	seedPreferences(prefs, config.Settings{
		OrderPolicy:    config.PolicySwap,
		SortPair:       false,
		SilenceTimeout: time.Second,
		Language:       "en",
	})

	assert.Equal(t, config.PolicyStrict, prefs.String(config.PrefOrderPolicy))
	assert.Equal(t, "pt", prefs.String(config.PrefLanguage))
	assert.True(t, prefs.BoolWithFallback(config.PrefSortPair, false))
	assert.Equal(t, 9, prefs.Int(config.PrefSilenceSeconds))
}
