package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// translationKeys lists every message ID the application asks for.
var translationKeys = []string{
		config.TKeyWinTitle,
		config.TKeyWinSettings,
		config.TKeyWinContacts,
		config.TKeyMenuOpen,
		config.TKeyMenuRefresh,
		config.TKeyMenuSettings,
		config.TKeyTabTyped,
		config.TKeyTabSlider,
		config.TKeyTabStepper,
		config.TKeyTabScroll,
		config.TKeyTabDrag,
		config.TKeyTabVoice,
		config.TKeyTabAdult,
		config.TKeyTabMonths,
		config.TKeyLblBirth,
		config.TKeyLblCurrent,
		config.TKeyLblYears,
		config.TKeyLblMonths,
		config.TKeyLblDays,
		config.TKeyLblTotalDays,
		config.TKeyLblResult,
		config.TKeyLblBirthYear,
		config.TKeyLblAdultYear,
		config.TKeyLblSelectMonth,
		config.TKeyLblTranscript,
		config.TKeyBtnListen,
		config.TKeyBtnStop,
		config.TKeyBtnSend,
		config.TKeyBtnReset,
		config.TKeyBtnSave,
		config.TKeyBtnCancel,
		config.TKeyBtnBrowse,
		config.TKeyLblLanguage,
		config.TKeyLblPolicy,
		config.TKeyPolicyStrict,
		config.TKeyPolicySwap,
		config.TKeyLblSortPair,
		config.TKeyLblSilence,
		config.TKeyLblPort,
		config.TKeyLblRefresh,
		config.TKeyLblGeneral,
		config.TKeyLblSource,
		config.TKeyModeCardDAV,
		config.TKeyModeLocal,
		config.TKeyLblURL,
		config.TKeyLblUser,
		config.TKeyLblPass,
		config.TKeyLblFooter,
		config.TKeyColName,
		config.TKeyColBirth,
		config.TKeyColAge,
		config.TKeyColNext,
		config.TKeyTrayStatus,
		config.TKeyTrayStatusZero,
		config.TKeyEvtBirthday,
		config.TKeyEvtAdulthood,
		config.TKeyEvtBirthdayName,
		config.TKeyLblSlots,
		config.TKeyLblPrevMonths,
		config.TKeyLblVoiceHint,
		config.TKeyLblListening,
		config.TKeyLblIdle,
		config.TKeyLblCalculator,
		config.TKeyAgeShort,
		config.TKeyNotifReset,
		config.TKeyNotifNotUnderstood,
		config.TKeyNotifPair,
		config.TKeyNotifBirth,
		config.TKeyNotifCurrent,
		config.TKeyNotifBirthReplaced,
		config.TKeyNotifCurrentReplace,
		config.TKeyNotifSwapped,
		config.TKeyNotifVoiceEnded,
		config.TKeyNotifSyncError,
		config.TKeyErrBirthInvalid,
		config.TKeyErrCurrentInvalid,
		config.TKeyErrOrder,
		config.TKeyErrYearRange,
		config.TKeyErrPortReq,
		config.TKeyErrPortNum,
		config.TKeyErrPortRange,
}

func loadLocale(t *testing.T, lang string) map[string]any {
	t.Helper()

	path := filepath.Join("locales", "active."+lang+".json")
	content, err := os.ReadFile(path)
	require.NoErrorf(t, err, "Must load %s", path)

	var messages map[string]any
	require.NoErrorf(t, json.Unmarshal(content, &messages), "%s must be valid JSON", path)
	return messages
}

// TestI18nIntegrity ensures every translation key defined in config.go
// exists in each locale, and that locales carry no orphan keys.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			messages := loadLocale(t, lang)

			for _, key := range translationKeys {
				_, exists := messages[key]
				assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.%s.json", key, lang)
			}
			for key := range messages {
				assert.Truef(t, defined[key], "Key '%s' in active.%s.json is never used", key, lang)
			}
		})
	}
}

// TestI18nPluralForms checks that pluralized messages define the forms go-i18n needs.
func TestI18nPluralForms(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		messages := loadLocale(t, lang)

		plural, ok := messages[config.TKeyTrayStatus].(map[string]any)
		require.Truef(t, ok, "%s must be a plural map in %s", config.TKeyTrayStatus, lang)
		assert.Contains(t, plural, "one")
		assert.Contains(t, plural, "other")
	}
}
