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

// UserAgent identifies the HTTP client used to import vCards.
var UserAgent = "Life-In-Weeks/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Life in Weeks"
	AppID             = "com.github.tartampluch.life-in-weeks"
	KeyringService    = "com.github.tartampluch.life-in-weeks"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
	ExitCodeUsage   = 2
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
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion   = "version"
	FlagDebug     = "debug"
	FlagDOB       = "dob"
	FlagTargetAge = "target-age"
	FlagPrint     = "print"
	FlagDensity   = "density"

	FlagDescVersion   = "Show application version and exit"
	FlagDescDebug     = "Enable debug logging to stdout"
	FlagDescDOB       = "Date of birth (YYYY-MM-DD)"
	FlagDescTargetAge = "Target age in years bounding the grid"
	FlagDescPrint     = "Print the statistics and the week grid to stdout and exit"
	FlagDescDensity   = "Axis label density for -print (normal|sparse)"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Life Grid Model
// -----------------------------------------------------------------------------

const (
	// GridColumns is the number of weeks in one grid row (one year of life).
	// The 52-week year drifts from the calendar (365.25/7 ≈ 52.18); kept on purpose.
	GridColumns = 52

	DaysPerWeek = 7

	DefaultTargetAge = 90
	MaxTargetAge     = 150

	// MinBirthYear is the earliest accepted birth year (January 1st).
	MinBirthYear = 1900

	// PercentCap bounds the life progress ratio.
	PercentCap = 100.0
)

// Label densities for the grid axes.
const (
	DensityNormal = "normal"
	DensitySparse = "sparse"

	LabelStepNormal = 5
	LabelStepSparse = 10
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 980
	MainWindowHeight    = 760
	SettingsWindowWidth = 560
	EventsWindowWidth   = 520
	EventsWindowHeight  = 480

	// Cell geometry in device-independent pixels.
	CellSize     = 12
	CellPadding  = 1
	AxisTextSize = 8

	LayoutColumns2 = 2
	LayoutColumns3 = 3

	// RolloverCheck is how often the worker looks for a new local day.
	RolloverCheck = time.Minute

	// EventDescMaxLen bounds personal event descriptions, in runes.
	EventDescMaxLen = 280
)

// Preference Keys. The birth date is session state and has no key on purpose.
const (
	PrefLanguage   = "language"
	PrefTargetAge  = "target_age"
	PrefServerPort = "server_port"
	PrefDensity    = "label_density"
	PrefSourceMode = "source_mode"
	PrefCardDAVURL = "carddav_url"
	PrefUsername   = "username"
	PrefLocalPath  = "local_path"
	PrefLastRun    = "last_run_version"

	// PrefKeyChanged is the signal sent to the worker when any preference moves.
	PrefKeyChanged = "preferences"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle      = "win_title"
	TKeyWinSettings   = "win_settings_title"
	TKeyWinEvents     = "win_events_title"
	TKeyHeadline      = "headline"
	TKeyIntro         = "intro"
	TKeyLblBirthDate  = "lbl_birth_date"
	TKeyHintBirthDate = "hint_birth_date"
	TKeyBtnVisualize  = "btn_visualize"
	TKeyBtnReset      = "btn_choose_other"
	TKeyBtnImport     = "btn_import"
	TKeyBtnEvents     = "btn_events"
	TKeyBtnSettings   = "btn_settings"
	TKeyBtnSave       = "btn_save"
	TKeyBtnCancel     = "btn_cancel"
	TKeyBtnAdd        = "btn_add"
	TKeyBtnBrowse     = "btn_browse"
	TKeyBtnRemove     = "btn_remove"

	TKeyStatsTitle     = "stats_title"
	TKeyStatLived      = "stat_weeks_lived"
	TKeyStatRemaining  = "stat_weeks_remaining"
	TKeyStatRemainSub  = "stat_weeks_remaining_sub" // Requires Age
	TKeyStatProgress   = "stat_life_progress"
	TKeyStatApprox     = "stat_approx"
	TKeyAxisAge        = "axis_age"
	TKeyAxisWeek       = "axis_week_of_year"
	TKeyCellTitle      = "cell_title" // Requires Age, Week
	TKeyStateLived     = "state_lived"
	TKeyStateCurrent   = "state_current"
	TKeyStateFuture    = "state_future"
	TKeyLegendLived    = "legend_lived"
	TKeyLegendCurrent  = "legend_current"
	TKeyLegendFuture   = "legend_future"
	TKeyFooterBirth    = "footer_birth"
	TKeyFooterRow      = "footer_row"
	TKeyFooterWeeks    = "footer_weeks_per_year"
	TKeyFooterYears    = "footer_years"       // Requires Age
	TKeyFooterTotal    = "footer_weeks_total" // Requires Total
	TKeyFormatDate     = "format_date"
	TKeyNotifReady     = "notif_ready"
	TKeyNotifReadyBody = "notif_ready_body"

	TKeyEvtGlobal    = "event_global"
	TKeyEvtPersonal  = "event_personal"
	TKeyEvtEmpty     = "event_empty"
	TKeyLblTitle     = "lbl_title"
	TKeyLblDate      = "lbl_date"
	TKeyLblDesc      = "lbl_description"
	TKeyEvtOutOfGrid = "event_out_of_grid"
	TKeyEvtInGrid    = "event_in_grid"          // Requires Age, Week
	TKeyEvtBirthday  = "event_birthday_summary" // Requires Name

	TKeyLblLanguage  = "lbl_language"
	TKeyHelpLanguage = "help_language"
	TKeyLblTarget    = "lbl_target_age"
	TKeyHelpTarget   = "help_target_age"
	TKeyLblPort      = "lbl_server_port"
	TKeyHelpPort     = "help_port"
	TKeyLblDensity   = "lbl_density"
	TKeyDensNormal   = "density_normal"
	TKeyDensSparse   = "density_sparse"
	TKeyLblGeneral   = "lbl_general"
	TKeyLblSource    = "lbl_source"
	TKeyModeCardDAV  = "mode_carddav"
	TKeyModeLocal    = "mode_local"
	TKeyLblURL       = "lbl_url"
	TKeyHelpURL      = "help_carddav_url"
	TKeyLblUser      = "lbl_user"
	TKeyLblPass      = "lbl_pass"
	TKeyLblFooter    = "lbl_footer"

	// Validation Errors (UI)
	TKeyErrDate      = "err_date_format"
	TKeyErrDateRange = "err_date_range"
	TKeyErrTarget    = "err_target_age"
	TKeyErrPortReq   = "err_port_required"
	TKeyErrPortNum   = "err_port_number"
	TKeyErrPortRange = "err_port_range"
	TKeyErrTitle     = "err_title_required"
	TKeyErrImport    = "err_import"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	SourceModeWeb   = "web"
	SourceModeLocal = "local"
	DefaultPort     = "18081"
	DefaultLanguage = "en"
	DefaultDensity  = DensityNormal
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Life in Weeks//Engine//EN"
	ICalCalName = "Life in Weeks"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "lifeinweeks"

	PropRefresh    = "REFRESH-INTERVAL"
	PropXWRCalName = "X-WR-CALNAME"
	PropCategories = "CATEGORIES"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 24 * time.Hour

	BirthdaySeriesID = "birthday"
	FormatUID        = "%s@%s"
	FallbackBirthday = "Birthday"
	FallbackName     = "Me"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	DateFormatISO      = "2006-01-02"
	DateFormatBasic    = "20060102"
	DateFormatRFC3339  = time.RFC3339
	DateFormatFullT    = "2006-01-02T15:04:05Z"
	DateFormatNoYearD  = "--01-02"
	DateFormatNoYearB  = "--0102"
	DateFormatDisplay  = "Jan 2, 2006"
	PercentFormat      = "%.1f%%"
	NumberFormat       = "%d"
	TextGridLived      = '■'
	TextGridCurrent    = '◆'
	TextGridFuture     = '·'
	TextGridAxisIndent = 4

	// Headless report labels (-print).
	TextLblLived     = "Weeks lived:     "
	TextLblRemaining = "Weeks remaining: "
	TextLblProgress  = "Life progress:   "
	TextLblBirth     = "Born:            "
	TextFmtRemainSub = " (to age %d)"

	MinPort = 1
	MaxPort = 65535

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
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB, a single contact card is tiny
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	AddrSeparator       = ":"

	RouteCalendar = "/calendar.ics"
	RouteStats    = "/api/stats"
	RouteGrid     = "/api/grid"
	RouteEvents   = "/api/events"
	RouteHealth   = "/health"
	RouteMetrics  = "/metrics"
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
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrInvalidConfig   = "invalid configuration"
	ErrInvalidDate     = "invalid date"
	ErrTargetAgeRange  = "target age must be between 1 and 150 years"
	ErrBirthBeforeMin  = "birth date is before 1900-01-01"
	ErrBirthInFuture   = "birth date is in the future"
	ErrYearUnknown     = "birth date has no year"
	ErrNoBirthday      = "no contact with a birth date found"
	ErrLocalPathEmpty  = "configuration error: local path is empty"
	ErrWebURLEmpty     = "configuration error: web URL is empty"
	ErrFetcherMissing  = "internal error: network fetcher is not initialized"
	ErrModeUnsupport   = "configuration error: unsupported source mode"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrInvalidURL      = "invalid URL structure"
	ErrProtocol        = "unsupported protocol scheme (http/https only)"
	ErrVCardParse      = "failed to parse vCard stream"
	ErrVCardRead       = "failed to read vCard stream"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrDateParse       = "unable to parse date"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app cache dir"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrEncodeJSON      = "failed to encode JSON response"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrDensity         = "unknown label density"
	ErrEventTitleEmpty = "event title is required"
	ErrEventNotFound   = "event not found"
	ErrKeyringSave     = "failed to save credentials to keyring"
	ErrImportFailed    = "vCard import failed"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Life snapshot initializing, please try again shortly."
	HTTPMsgInternalErr  = "Internal Server Error"
	HealthStatusOK      = "ok"
	HealthStatusWaiting = "waiting"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackCellTitle   = "Age %d, Week %d"
	FallbackStateLived  = "Lived"
	FallbackStateNow    = "This week"
	FallbackStateFuture = "Future"

	// StubVCalendar is the minimal valid iCalendar object served when nothing can be encoded.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	TitleStartupError = "Startup Error"
	MsgPortBusy       = "Port %s is busy or unavailable."

	MsgSnapshotBuilt  = "Life snapshot computed"
	MsgSnapshotReject = "Life snapshot rejected"
	MsgRollover       = "Day rollover detected, recomputing"
	MsgWorkerStart    = "Background worker started"
	MsgWorkerStop     = "Worker stopping due to context cancellation"
	MsgAppStop        = "Application stopped gracefully"
	MsgCtxCancel      = "Context cancelled, shutting down UI"
	MsgSkippedCard    = "Skipping malformed vCard"
	MsgSkippedDate    = "Skipping invalid date format"
	MsgImportDone     = "Birth date imported"
	MsgAppStarting    = "Starting application"
	MsgServerListen   = "HTTP server listening"
	MsgServerStop     = "Shutting down HTTP server..."
	MsgCacheUpdated   = "Snapshot cache updated"
	MsgCacheCleared   = "Snapshot cache cleared"
	MsgLocaleSkip     = "Skipping non-locale file"
	MsgLocaleBadName  = "Skipping malformed locale filename"
	MsgLocaleLoaded   = "Locale loaded successfully"
	MsgTransMissing   = "Missing translation key"
	MsgPassFail       = "Password retrieval failed (might be empty)"
	MsgLogWarning     = "Warning: %s at %s: %v\n"
	MsgEventAdded     = "Personal event added"
	MsgEventRemoved   = "Personal event removed"
	MsgSettingsSaved  = "Saving preferences"

	PlaceholderURL  = "https://..."
	PlaceholderDate = "YYYY-MM-DD"
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
	LogKeyUser      = "user"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyTarget    = "target_age"
	LogKeyLived     = "weeks_lived"
	LogKeyRemaining = "weeks_remaining"
	LogKeyPercent   = "percent_lived"
	LogKeyCells     = "cells"
	LogKeyEventID   = "event_id"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "date"
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
	CompUIEvt   = "ui_events"
	CompEngine  = "engine"
	CompEvents  = "events"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompMain    = "main"
	CompI18n    = "i18n"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricNamespace       = "lifeweeks"
	MetricSnapshots       = "snapshots_total"
	MetricSnapshotErrors  = "snapshot_errors_total"
	MetricSnapshotLatency = "snapshot_duration_seconds"
	MetricPercentLived    = "percent_lived"
	MetricHTTPRequests    = "http_requests_total"
	MetricLabelRoute      = "route"
	MetricLabelCode       = "code"
	MetricLabelReason     = "reason"
)
