package ui

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agecalc/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeGlob   = "locales/active.*.json"
	localePrefix = "active."
	localeSuffix = ".json"
)

// SetupI18n loads the embedded translations and selects the preferred language.
func (app *CalculatorApp) SetupI18n() {
	bundle, langs := loadLocales(localeFS)
	if len(langs) == 0 {
		return
	}
	app.I18nBundle = bundle
	app.SupportedLanguages = langs
	app.UpdateLocalizer()
}

// loadLocales parses every active.<tag>.json file of fsys. Files whose tag is not
// a valid BCP 47 language or whose content fails to parse are skipped.
func loadLocales(fsys fs.FS) (*i18n.Bundle, []string) {
	log := slog.With(config.LogKeyComponent, config.CompI18n)

	bundle := i18n.NewBundle(language.Portuguese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(fsys, localeGlob)
	if err != nil || len(files) == 0 {
		log.Error(config.ErrLocalesAccess, config.LogKeyError, err)
		return bundle, nil
	}

	var langs []string
	for _, file := range files {
		name := path.Base(file)
		tag, err := language.Parse(strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix))
		if err != nil {
			log.Warn(config.MsgLocaleBadName, config.LogKeyFile, name)
			continue
		}

		data, err := fs.ReadFile(fsys, file)
		if err == nil {
			_, err = bundle.ParseMessageFileBytes(data, file)
		}
		if err != nil {
			log.Error(config.ErrLocaleLoad, config.LogKeyFile, name, config.LogKeyError, err)
			continue
		}

		langs = append(langs, tag.String())
		log.Debug(config.MsgLocaleLoaded, config.LogKeyLang, tag)
	}
	sort.Strings(langs)
	return bundle, langs
}

// resolveLanguage maps a stored preference such as "pt-BR" onto a loaded language.
func resolveLanguage(pref string, supported []string) string {
	if len(supported) == 0 {
		return config.DefaultLanguage
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	_, idx, conf := language.NewMatcher(tags).Match(language.Make(pref))
	if conf == language.No {
		return config.DefaultLanguage
	}
	return supported[idx]
}

// UpdateLocalizer rebuilds the localizer after a language change.
func (app *CalculatorApp) UpdateLocalizer() {
	if app.I18nBundle == nil {
		return
	}
	pref := app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage)
	app.Localizer = i18n.NewLocalizer(app.I18nBundle, resolveLanguage(pref, app.SupportedLanguages), config.DefaultLanguage)
}

func (app *CalculatorApp) GetMsg(key string) string {
	return app.GetMsgData(key, nil)
}

// GetMsgData returns the key itself when it has no translation.
func (app *CalculatorApp) GetMsgData(key string, data map[string]any) string {
	msg, ok := app.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if !ok {
		return key
	}
	return msg
}

// GetMsgCount selects the plural form for count; Count is added to the template data.
func (app *CalculatorApp) GetMsgCount(key string, count int) (string, bool) {
	return app.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: map[string]any{"Count": count},
		PluralCount:  count,
	})
}

func (app *CalculatorApp) localize(lc *i18n.LocalizeConfig) (string, bool) {
	if app.Localizer == nil {
		return "", false
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return "", false
	}
	return msg, true
}
