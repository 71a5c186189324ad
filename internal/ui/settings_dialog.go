package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/esoquery/esoquery/internal/config"
	"github.com/esoquery/esoquery/internal/model"
)

// SettingsDialog represents the preferences dialog
type SettingsDialog struct {
	settings *config.Settings
	window   fyne.Window
	texts    *Localization
	dialog   *dialog.ConfirmDialog
	onSaved  func()

	// UI components
	loginEntry    *widget.Entry
	passwordEntry *widget.Entry
	dataDirEntry  *widget.Entry
	instChecks    map[string]*widget.Check
}

// NewSettingsDialog creates a new preferences dialog; onSaved runs after a successful save
func NewSettingsDialog(settings *config.Settings, window fyne.Window, texts *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:   settings,
		window:     window,
		texts:      texts,
		onSaved:    onSaved,
		instChecks: make(map[string]*widget.Check, len(model.Instruments)),
	}

	sd.createUI()
	return sd
}

// Show displays the dialog with the stored values
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.loginEntry = widget.NewEntry()
	sd.passwordEntry = widget.NewPasswordEntry()

	sd.dataDirEntry = widget.NewEntry()
	browseBtn := widget.NewButton(sd.texts.GetText(KeyBrowse), sd.onBrowseDirectory)
	dataDirRow := container.NewBorder(nil, nil, nil, browseBtn, sd.dataDirEntry)

	grid := container.NewGridWithColumns(InstrumentColumns)
	for _, inst := range model.Instruments {
		check := widget.NewCheck(inst, nil)
		sd.instChecks[inst] = check
		grid.Add(check)
	}
	toggleBtn := widget.NewButton(sd.texts.GetText(KeyToggleAll), sd.onToggleAll)

	eso := widget.NewForm(
		widget.NewFormItem(sd.texts.GetText(KeyLogin), sd.loginEntry),
		widget.NewFormItem(sd.texts.GetText(KeyPassword), sd.passwordEntry),
	)
	data := widget.NewForm(widget.NewFormItem(sd.texts.GetText(KeyDataDirectory), dataDirRow))

	form := container.NewVBox(
		widget.NewCard("", sd.texts.GetText(KeyESOArchive), eso),
		widget.NewCard("", sd.texts.GetText(KeyDataLocation), data),
		widget.NewCard("", sd.texts.GetText(KeyInstruments),
			container.NewBorder(widget.NewLabel(sd.texts.GetText(KeyFavoriteInstHint)), toggleBtn, nil, nil, grid)),
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.texts.GetText(KeyPreferences),
		sd.texts.GetText(KeySave),
		sd.texts.GetText(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(DialogWidth, DialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.loginEntry.SetText(sd.settings.GetLogin())
	sd.passwordEntry.SetText(sd.settings.GetPassword())
	sd.dataDirEntry.SetText(sd.settings.GetDataDirectory())
	for inst, check := range sd.instChecks {
		check.SetChecked(sd.settings.IsFavorite(inst))
	}
}

// onToggleAll checks every instrument, or clears them all when all are checked
func (sd *SettingsDialog) onToggleAll() {
	all := true
	for _, check := range sd.instChecks {
		if !check.Checked {
			all = false
			break
		}
	}
	for _, check := range sd.instChecks {
		check.SetChecked(!all)
	}
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.dataDirEntry.SetText(uri.Path())
	}, sd.window)
}

// apply copies the dialog state into the settings
func (sd *SettingsDialog) apply() {
	sd.settings.SetLogin(sd.loginEntry.Text)
	sd.settings.SetPassword(sd.passwordEntry.Text)
	if sd.dataDirEntry.Text != "" {
		sd.settings.SetDataDirectory(sd.dataDirEntry.Text)
	}
	for inst, check := range sd.instChecks {
		sd.settings.SetFavorite(inst, check.Checked)
	}
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if err := sd.settings.Save(); err != nil {
		dialog.ShowError(err, sd.window)
		return
	}
	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.texts.GetText(KeyPreferences),
		fmt.Sprintf(sd.texts.GetText(KeySettingsSaved), sd.settings.Path()), sd.window)
}
