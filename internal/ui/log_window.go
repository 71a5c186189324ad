package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// LogWindow shows the append-only log. Closing it only hides it.
type LogWindow struct {
	window  fyne.Window
	console *Console
	list    *widget.List
}

// NewLogWindow creates the (hidden) log window
func NewLogWindow(app fyne.App, console *Console, texts *Localization) *LogWindow {
	lw := &LogWindow{
		window:  app.NewWindow(texts.GetText(KeyLog)),
		console: console,
	}

	lw.list = widget.NewListWithData(console.lines,
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Wrapping = fyne.TextWrapWord
			return l
		},
		func(item binding.DataItem, obj fyne.CanvasObject) {
			obj.(*widget.Label).Bind(item.(binding.String))
		},
	)
	console.lines.AddListener(binding.NewDataListener(func() {
		if console.lines.Length() > 0 {
			lw.list.ScrollToBottom()
		}
	}))

	clearBtn := widget.NewButton(texts.GetText(KeyClear), console.Clear)
	closeBtn := widget.NewButton(texts.GetText(KeyClose), lw.window.Hide)
	buttons := container.NewHBox(layout.NewSpacer(), clearBtn, closeBtn)

	card := widget.NewCard("", texts.GetText(KeyLogInformation), lw.list)
	lw.window.SetContent(container.NewBorder(nil, buttons, nil, nil, card))
	lw.window.Resize(fyne.NewSize(LogWindowWidth, LogWindowHeight))
	lw.window.SetCloseIntercept(lw.window.Hide)
	return lw
}

// Show brings the window up
func (lw *LogWindow) Show() {
	lw.window.Show()
	lw.window.RequestFocus()
}
