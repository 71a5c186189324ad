package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/esoquery/esoquery/internal/model"
)

// DownloadDialog asks which files accompany the selected observations.
// Calibration options only apply to raw data.
type DownloadDialog struct {
	dialog    *dialog.ConfirmDialog
	radio     *widget.RadioGroup
	selectors map[string]model.CalSelector
}

// NewDownloadDialog builds the dialog; onConfirm receives the chosen selector
func NewDownloadDialog(window fyne.Window, texts *Localization, mode model.Mode, onPreferences func(), onConfirm func(model.CalSelector)) *DownloadDialog {
	dd := &DownloadDialog{selectors: make(map[string]model.CalSelector)}

	var labels []string
	for _, sel := range model.CalSelectors() {
		labels = append(labels, sel.Label())
		dd.selectors[sel.Label()] = sel
	}
	dd.radio = widget.NewRadioGroup(labels, nil)
	dd.radio.Required = true
	dd.radio.SetSelected(model.SelectorScience.Label())
	if mode != model.ModeRaw {
		dd.radio.Disable()
	}

	prefBtn := widget.NewButton(texts.GetText(KeyEditPreferences), onPreferences)
	content := container.NewVBox(
		widget.NewCard("", texts.GetText(KeyPreferences), prefBtn),
		widget.NewCard("", texts.GetText(KeyTypeOfData), dd.radio),
	)

	dd.dialog = dialog.NewCustomConfirm(texts.GetText(KeyDownload), texts.GetText(KeyDownload),
		texts.GetText(KeyCancel), content, func(ok bool) {
			if ok && onConfirm != nil {
				onConfirm(dd.Selector())
			}
		}, window)
	return dd
}

// Selector returns the chosen selector, science only when nothing applies
func (dd *DownloadDialog) Selector() model.CalSelector {
	if dd.radio.Disabled() {
		return model.SelectorScience
	}
	if sel, ok := dd.selectors[dd.radio.Selected]; ok {
		return sel
	}
	return model.SelectorScience
}

// Show displays the dialog
func (dd *DownloadDialog) Show() {
	dd.dialog.Show()
}
