package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle         = "app_title"
	KeyTarget           = "target"
	KeyTargetHint       = "target_hint"
	KeyPhase3           = "phase3"
	KeyRaw              = "raw"
	KeyOk               = "ok"
	KeyDownload         = "download"
	KeyCancel           = "cancel"
	KeySave             = "save"
	KeyClose            = "close"
	KeyClear            = "clear"
	KeyBrowse           = "browse"
	KeyFile             = "file"
	KeyPreferences      = "preferences"
	KeyExport           = "export"
	KeyOpenDataDir      = "open_data_dir"
	KeyQuit             = "quit"
	KeyLog              = "log"
	KeyShow             = "show"
	KeyDownloads        = "downloads"
	KeyLogInformation   = "log_information"
	KeyLogin            = "login"
	KeyPassword         = "password"
	KeyDataDirectory    = "data_directory"
	KeyInstruments      = "instruments"
	KeyToggleAll        = "toggle_all"
	KeyTypeOfData       = "type_of_data"
	KeyEditPreferences  = "edit_preferences"
	KeyEnterTarget      = "enter_target"
	KeyNoInstruments    = "no_instruments"
	KeyQueryRunning     = "query_running"
	KeyDownloadRunning  = "download_running"
	KeyFileSaved        = "file_saved"
	KeySettingsSaved    = "settings_saved"
	KeyNoSelection      = "no_selection"
	KeyErrorOpeningDir  = "error_opening_dir"
	KeyNoDownloadsYet   = "no_downloads_yet"
	KeyESOArchive       = "eso_archive"
	KeyDataLocation     = "data_location"
	KeyFavoriteInstHint = "favorite_inst_hint"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language; unknown languages are ignored
func (l *Localization) SetLanguage(lang string) {
	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "ESO Query",
		KeyTarget:           "Target:",
		KeyTargetHint:       "Object name, e.g. HD 61005",
		KeyPhase3:           "Phase 3",
		KeyRaw:              "Raw",
		KeyOk:               "Ok",
		KeyDownload:         "Download",
		KeyCancel:           "Cancel",
		KeySave:             "Save",
		KeyClose:            "Close",
		KeyClear:            "Clear",
		KeyBrowse:           "Browse",
		KeyFile:             "File",
		KeyPreferences:      "Preferences",
		KeyExport:           "Export",
		KeyOpenDataDir:      "Open data directory",
		KeyQuit:             "Quit",
		KeyLog:              "Log",
		KeyShow:             "Show",
		KeyDownloads:        "Downloads",
		KeyLogInformation:   "Log Information",
		KeyLogin:            "Login",
		KeyPassword:         "Password",
		KeyDataDirectory:    "Data directory",
		KeyInstruments:      "Instruments",
		KeyToggleAll:        "Toggle all",
		KeyTypeOfData:       "Type of data:",
		KeyEditPreferences:  "Edit preferences",
		KeyEnterTarget:      "Please enter a target name.",
		KeyNoInstruments:    "No instruments selected. Go to the preferences and select at least one.",
		KeyQueryRunning:     "A query is already running.",
		KeyDownloadRunning:  "A download is already running.",
		KeyFileSaved:        "File saved to %s",
		KeySettingsSaved:    "Preferences saved to %s",
		KeyNoSelection:      "Select an entry in the table first.",
		KeyErrorOpeningDir:  "Could not open the directory",
		KeyNoDownloadsYet:   "No downloads yet.",
		KeyESOArchive:       "ESO Archive",
		KeyDataLocation:     "Data location",
		KeyFavoriteInstHint: "Instruments offered in raw mode",
	}
}
