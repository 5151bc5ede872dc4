package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-AgeCalc/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go AgeCalc"
	AppID             = "com.github.tartampluch.go-agecalc"
	KeyringService    = "com.github.tartampluch.go-agecalc"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	EnvPrefix         = "AGECALC"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdRoot     = "go-agecalc"
	CmdExtract  = "extract <text>"
	CmdAge      = "age <birth dd/mm/yyyy> [current dd/mm/yyyy]"
	CmdAdult    = "adult <birth year>"
	CmdMonths   = "months <month 1-12>"
	CmdContacts = "contacts"
	CmdServe    = "serve"
	CmdGUI      = "gui"
	CmdListen   = "listen"
	CmdVersion  = "version"

	FlagDebug    = "debug"
	FlagConfig   = "config"
	FlagPolicy   = "policy"
	FlagPort     = "port"
	FlagFile     = "file"
	FlagURL      = "url"
	FlagUser     = "user"
	FlagPassword = "password"

	FlagDescDebug    = "Enable debug logging with source locations"
	FlagDescConfig   = "Path to a YAML settings file"
	FlagDescPolicy   = "Date order policy: strict or swap"
	FlagDescPort     = "HTTP port for the API server"
	FlagDescFile     = "Local .vcf file to read birthdays from"
	FlagDescURL      = "CardDAV/WebDAV URL to fetch birthdays from"
	FlagDescUser     = "Username for the remote source"
	FlagDescPassword = "Password for the remote source (falls back to the keyring)"

	ShortRoot     = "Date and age calculator"
	ShortExtract  = "Extract dd/mm/yyyy or spoken Portuguese dates from text"
	ShortAge      = "Compute the age between two dates"
	ShortAdult    = "Show the year someone born in <year> turns 18"
	ShortMonths   = "Show the three months preceding a month"
	ShortContacts = "List contact ages from a vCard source"
	ShortServe    = "Serve the HTTP API and the birthday calendar"
	ShortGUI      = "Open the desktop calculator"
	ShortListen   = "Read dictated sentences from stdin and compute the age once both dates are heard"
	ShortVersion  = "Show application version and exit"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
	MsgAgeOutput     = "%d years, %d months, %d days (%d days in total)\n"
	MsgSwappedOutput = "Dates were inverted and have been swapped: %s -> %s\n"
	MsgAdultOutput   = "%d\n"
	MsgLineOutput    = "%s\n"
	MsgNoContacts    = "No contact with a birthday found."
	FormatContactRow = "%-28s %-10s %-6s %s\n"
	MsgHeardOutput   = "Heard %s, waiting for the other date\n"
	MsgRejectOutput  = "Cannot compute the age: %v\n"
	MsgSilenceOutput = "No speech for %s, stopping.\n"
)

// -----------------------------------------------------------------------------
// Date Rules
// -----------------------------------------------------------------------------

const (
	MinYear           = 1900
	MaxYear           = 2100
	AdultAge          = 18
	MonthsPerYear     = 12
	PreviousMonthSpan = 3
	MaxExtractedDates = 2
	DateMaskLength    = 10 // len("dd/mm/yyyy")
	DateMaskDigits    = 8
	DateSeparator     = "/"
	DateLayoutDisplay = "%02d/%02d/%04d"
	DateLayoutNoYear  = "%02d/%02d"
	HoursPerDay       = 24
)

// Order policies exposed at the calculator boundary.
const (
	PolicyStrict = "strict"
	PolicySwap   = "swap"
)

// -----------------------------------------------------------------------------
// Voice Session
// -----------------------------------------------------------------------------

const (
	DefaultSilenceTimeout = 5 * time.Second
	TranscriptBufferSize  = 8
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth = 600
	MainWindowWidth     = 520
	MainWindowHeight    = 460

	// Preference Keys
	PrefCardDAVURL     = "carddav_url"
	PrefUsername       = "username"
	PrefLanguage       = "language"
	PrefInterval       = "refresh_interval_min"
	PrefServerPort     = "server_port"
	PrefSourceMode     = "source_mode"
	PrefLocalPath      = "local_path"
	PrefOrderPolicy    = "order_policy"
	PrefSortPair       = "sort_pair"
	PrefSilenceSeconds = "silence_seconds"
	PrefLastRun        = "last_run_version"

	// Year pickers
	PickerVisibleYears = 7
	YearListWidth      = 120
	YearListRowHeight  = 36
	DragAreaWidth      = 160
	DragAreaHeight     = 48
	StepperStep        = 1
	DragPixelsPerYear  = 12
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"pt", "en"}

// -----------------------------------------------------------------------------
// UI Contacts Window Constants
// -----------------------------------------------------------------------------

const (
	ContactsWinWidth  = 620
	ContactsWinHeight = 400

	// Table Column IDs
	ColIDName     = 0
	ColIDBirth    = 1
	ColIDAge      = 2
	ColIDNext     = 3
	ContactsCols  = 4
	ColWidthName  = 220
	ColWidthBirth = 110
	ColWidthAge   = 160
	ColWidthNext  = 110

	TablePlaceholder = "Cell Content"
	AgeUnknown       = "-"
	LogMsgOpenWin    = "Opening Contacts Window"
	LogMsgSorted     = "Contacts sorted"

	SortIconAsc   = " ▲"
	SortIconDesc  = " ▼"
	FormatNextAge = "%s (%d)"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle        = "win_title"
	TKeyWinSettings     = "win_settings_title"
	TKeyWinContacts     = "win_contacts_title"
	TKeyMenuOpen        = "menu_open"
	TKeyMenuRefresh     = "menu_refresh"
	TKeyMenuSettings    = "menu_settings"
	TKeyTabTyped        = "tab_typed"
	TKeyTabSlider       = "tab_slider"
	TKeyTabStepper      = "tab_stepper"
	TKeyTabScroll       = "tab_scroll"
	TKeyTabDrag         = "tab_drag"
	TKeyTabVoice        = "tab_voice"
	TKeyTabAdult        = "tab_adult"
	TKeyTabMonths       = "tab_months"
	TKeyLblBirth        = "lbl_birth_date"
	TKeyLblCurrent      = "lbl_current_date"
	TKeyLblYears        = "lbl_years"
	TKeyLblMonths       = "lbl_months"
	TKeyLblDays         = "lbl_days"
	TKeyLblTotalDays    = "lbl_total_days"
	TKeyLblResult       = "result_summary"
	TKeyLblBirthYear    = "lbl_birth_year"
	TKeyLblAdultYear    = "result_adult_year"
	TKeyLblSelectMonth  = "lbl_select_month"
	TKeyLblTranscript   = "lbl_transcript"
	TKeyBtnListen       = "btn_listen"
	TKeyBtnStop         = "btn_stop"
	TKeyBtnSend         = "btn_send"
	TKeyBtnReset        = "btn_reset"
	TKeyBtnSave         = "btn_save"
	TKeyBtnCancel       = "btn_cancel"
	TKeyBtnBrowse       = "btn_browse"
	TKeyLblLanguage     = "lbl_language"
	TKeyLblPolicy       = "lbl_order_policy"
	TKeyPolicyStrict    = "policy_strict"
	TKeyPolicySwap      = "policy_swap"
	TKeyLblSortPair     = "lbl_sort_pair"
	TKeyLblSilence      = "lbl_silence_seconds"
	TKeyLblPort         = "lbl_server_port"
	TKeyLblRefresh      = "lbl_refresh_interval"
	TKeyLblGeneral      = "lbl_general"
	TKeyLblSource       = "lbl_source"
	TKeyModeCardDAV     = "mode_carddav"
	TKeyModeLocal       = "mode_local"
	TKeyLblURL          = "lbl_url"
	TKeyLblUser         = "lbl_user"
	TKeyLblPass         = "lbl_pass"
	TKeyLblFooter       = "lbl_footer"
	TKeyColName         = "col_name"
	TKeyColBirth        = "col_birth"
	TKeyColAge          = "col_age"
	TKeyColNext         = "col_next"
	TKeyTrayStatus      = "tray_status"
	TKeyTrayStatusZero  = "tray_status_zero"
	TKeyEvtBirthday     = "event_birthday"
	TKeyEvtAdulthood    = "event_adulthood"
	TKeyEvtBirthdayName = "event_birthday_name"
	TKeyLblSlots        = "lbl_slots"
	TKeyLblPrevMonths   = "result_previous_months"
	TKeyLblVoiceHint    = "lbl_voice_hint"
	TKeyLblListening    = "lbl_listening"
	TKeyLblIdle         = "lbl_idle"
	TKeyLblCalculator   = "lbl_calculator"
	TKeyAgeShort        = "age_short"

	// Notifications
	TKeyNotifReset          = "notif_reset"
	TKeyNotifNotUnderstood  = "notif_not_understood"
	TKeyNotifPair           = "notif_pair"
	TKeyNotifBirth          = "notif_birth"
	TKeyNotifCurrent        = "notif_current"
	TKeyNotifBirthReplaced  = "notif_birth_replaced"
	TKeyNotifCurrentReplace = "notif_current_replaced"
	TKeyNotifSwapped        = "notif_swapped"
	TKeyNotifVoiceEnded     = "notif_voice_ended"
	TKeyNotifSyncError      = "notif_err_sync"

	// Validation Errors (UI)
	TKeyErrBirthInvalid   = "err_birth_invalid"
	TKeyErrCurrentInvalid = "err_current_invalid"
	TKeyErrOrder          = "err_order"
	TKeyErrYearRange      = "err_year_range"
	TKeyErrPortReq        = "err_port_required"
	TKeyErrPortNum        = "err_port_number"
	TKeyErrPortRange      = "err_port_range"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeWeb     = "web"
	SourceModeLocal   = "local"
	DefaultPort       = "18081"
	DefaultRefreshMin = 60
	DefaultLanguage   = "pt"
	DefaultPolicy     = PolicyStrict
	DefaultSortPair   = true
	DefaultCacheSize  = 256
	DefaultLeapYear   = 2000 // Leap year fallback for year-less vCard dates like --02-29
	UIDSalt           = "go-agecalc-v1-"
	DateDigits        = 8 // ddmmyyyy
	YearDigits        = 4
	DisabledInterval  = -1 // Stored refresh interval meaning "never"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go AgeCalc//Engine//EN"
	ICalCalName = "Birthdays and ages"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goagecalc"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropCategories = "CATEGORIES"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	CategoryBirthday  = "BIRTHDAY"
	CategoryAdulthood = "ADULTHOOD"

	VCardBDAY = "BDAY"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	MinPort = 1
	MaxPort = 65535

	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s-%d@%s"
	UIDKindBirthday = "bday"
	UIDKindAdult    = "adult"

	ExtVCF   = ".vcf"
	ExtVCard = ".vcard"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxAddressBookSize  = 16 << 20
	MaxRequestBodySize  = 64 * 1024
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RateLimitPerMin  = 120
	RateLimitBurst   = 20
	RateLimitSources = 1000
	RateLimitTTL     = 5 * time.Minute

	RouteCalendar  = "/calendar.ics"
	RouteMetrics   = "/metrics"
	RouteHealth    = "/health"
	RouteAPI       = "/api"
	RouteExtract   = "/extract"
	RouteAge       = "/age"
	RouteAdulthood = "/adulthood/{year}"
	RouteMonths    = "/months/{month}"
	ParamYear      = "year"
	ParamMonth     = "month"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderAccept          = "Accept"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	AcceptVCard         = "text/vcard, text/x-vcard;q=0.9, */*;q=0.1"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`

	// ETagBytes is how much of the feed digest goes into the ETag.
	ETagBytes = 16
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricRequests      = "agecalc_http_requests_total"
	MetricRequestsHelp  = "Total number of HTTP requests processed."
	MetricExtractions   = "agecalc_extracted_dates_total"
	MetricExtractHelp   = "Extraction calls by number of dates found."
	MetricCalculations  = "agecalc_calculations_total"
	MetricCalcHelp      = "Age calculations by outcome."
	LabelMethod         = "method"
	LabelRoute          = "route"
	LabelStatus         = "status"
	LabelFound          = "found"
	LabelOutcome        = "outcome"
	OutcomeOK           = "ok"
	OutcomeSwapped      = "swapped"
	OutcomeRejected     = "rejected"
	OutcomeInvalidInput = "invalid_input"
	RouteUnmatched      = "unmatched"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidDate      = "invalid calendar date"
	ErrDateOrder        = "start date must precede end date"
	ErrSameDate         = "start and end dates are equal"
	ErrYearOutOfRange   = "year must be between 1900 and 2100"
	ErrInvalidMonth     = "month must be between 1 and 12"
	ErrInvalidPolicy    = "unknown order policy"
	ErrSilence          = "voice session ended after silence"
	ErrNoDates          = "no date recognized in transcript"
	ErrLocalPathEmpty   = "configuration error: local path is empty"
	ErrWebURLEmpty      = "configuration error: web URL is empty"
	ErrFetcherMissing   = "internal error: network fetcher is not initialized"
	ErrModeUnsupport    = "configuration error: unsupported source mode"
	ErrServerStartup    = "server startup failed"
	ErrServerShutdown   = "server shutdown failed"
	ErrPortRequired     = "server port is required"
	ErrInvalidURL       = "invalid URL structure"
	ErrProtocol         = "unsupported protocol scheme (http/https only)"
	ErrAddressBookReq   = "cannot build address book request"
	ErrAddressBookNet   = "address book download failed"
	ErrAddressBookCode  = "address book server answered"
	ErrAddressBookSize  = "address book exceeds size limit"
	ErrVCardParse       = "failed to parse vCard stream"
	ErrVCardRead        = "vCard source failed while reading"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteResp        = "failed to write response body"
	ErrDecodeBody       = "failed to decode request body"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
	ErrTrayNotSupported = "system tray not supported on this platform/driver"
	ErrSettingsLoad     = "failed to load settings"
	ErrMetricsRegister  = "failed to register metrics"
	ErrWatch            = "failed to watch local source"
	ErrCacheInit        = "failed to create extraction cache"
	ErrMissingField     = "missing required field"
	ErrTranscriptBuffer = "transcript buffer full, dropping input"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgOK           = "ok"
	HTTPMsgRateLimited  = "rate limit exceeded"
)

// -----------------------------------------------------------------------------
// Fallbacks & Defaults
// -----------------------------------------------------------------------------

const (
	FallbackBirthday    = "%s turns %d"
	FallbackBirthdayAge = "Birthday: %s"
	FallbackAdulthood   = "%s turns 18"
	FallbackTrayError   = "Go AgeCalc: Sync Error"
	FallbackTrayDefault = "Go AgeCalc (%d today)"
	FallbackTrayLabel   = "Go AgeCalc"
	FallbackName        = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"

	MsgPortBusy       = "Port %s is busy or unavailable."
	MsgSyncStarted    = "Synchronization started..."
	MsgSyncFailed     = "Synchronization failed. Check logs."
	MsgSyncReq        = "Sync requested"
	MsgSyncFinished   = "Sync finished"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgUpdateSync     = "Updating sync interval"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgGenSuccess     = "Calendar generation successful"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Calendar cache updated"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgCardsDecoded   = "vCard stream decoded"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgBdayToday      = "Birthday found today"
	MsgDatesExtracted = "Dates extracted"
	MsgAgeComputed    = "Age computed"
	MsgAgeRejected    = "Age calculation rejected"
	MsgDatesSwapped   = "Dates swapped to restore order"
	MsgTranscript     = "Transcript received"
	MsgVoiceStart     = "Voice session started"
	MsgVoiceStop      = "Voice session stopped"
	MsgSettingsLoaded = "Settings loaded"
	MsgWatchEvent     = "Local source changed"
	MsgRateLimited    = "Request rate limited"
	MsgBookRequest    = "Requesting address book"
	MsgBookRefused    = "Address book request refused"
	MsgBookReceived   = "Address book response received"
	MsgNotUnderstood  = "Could not understand a date. Try \"15/01/1990\" or \"15 de janeiro de 1990\"."

	PlaceholderURL   = "https://..."
	PlaceholderDate  = "dd/mm/aaaa"
	PlaceholderYear  = "aaaa"
	PlaceholderVoice = "15 de janeiro de 1990 e 20/05/2020"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyToday     = "birthdays_today"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeySortCol   = "sort_column"
	LogKeySortAsc   = "sort_asc"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyDuration  = "duration_ms"
	LogKeyBirth     = "birth"
	LogKeyCurrent   = "current"
	LogKeyPolicy    = "policy"
	LogKeyPlacement = "placement"
	LogKeyDates     = "dates"
	LogKeyFinal     = "final"
	LogKeyTimeout   = "silence_timeout"
	LogKeyRemote    = "remote"
	LogKeyRequestID = "request_id"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompVoice   = "voice"
	CompMain    = "main"
	CompI18n    = "i18n"
	CompCLI     = "cli"
)

// -----------------------------------------------------------------------------
// UI Layout Constants
// -----------------------------------------------------------------------------

const (
	LayoutColumnsDouble = 2
	LayoutColumnsResult = 4
)
