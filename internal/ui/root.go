package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/esoquery/esoquery/internal/archive"
	"github.com/esoquery/esoquery/internal/config"
	"github.com/esoquery/esoquery/internal/download"
	"github.com/esoquery/esoquery/internal/export"
	"github.com/esoquery/esoquery/internal/logging"
	"github.com/esoquery/esoquery/internal/model"
	"github.com/esoquery/esoquery/internal/platform"
	"github.com/esoquery/esoquery/internal/worker"
)

var errNoTarget = errors.New("no target name")

// Searcher runs archive searches
type Searcher interface {
	Query(ctx context.Context, req archive.Request) (*archive.Result, error)
}

// Deps are the services the main window works with
type Deps struct {
	Settings *config.Settings
	Search   Searcher
	Download download.Downloader
	Console  *Console
	Logger   *zap.Logger

	// Dispatch hands worker results to the UI goroutine; defaults to fyne.Do
	Dispatch worker.Dispatcher
}

// RootUI represents the main UI structure
type RootUI struct {
	window      fyne.Window
	app         fyne.App
	settings    *config.Settings
	searchSvc   Searcher
	downloadSvc download.Downloader
	console     *Console
	logger      *zap.Logger
	texts       *Localization

	targetEntry      *widget.Entry
	modeRadio        *widget.RadioGroup
	instrumentSelect *widget.Select
	okBtn            *widget.Button
	downloadBtn      *widget.Button
	table            *widget.Table
	info             *widget.RichText
	progress         *widget.ProgressBar
	mainMenu         *fyne.MainMenu
	exportItem       *fyne.MenuItem

	settingsDialog *SettingsDialog
	logWindow      *LogWindow
	tasksWindow    *TasksWindow

	dispatch  worker.Dispatcher
	queries   *worker.Runner[*archive.Result]
	downloads *worker.Runner[*download.Summary]

	// state owned by the UI goroutine
	result   *archive.Result
	columns  []string
	selected int
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, deps Deps) *RootUI {
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = fyne.Do
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	console := deps.Console
	if console == nil {
		console = NewConsole()
	}

	ui := &RootUI{
		window:      window,
		app:         app,
		settings:    deps.Settings,
		searchSvc:   deps.Search,
		downloadSvc: deps.Download,
		console:     console,
		logger:      logger,
		texts:       NewLocalization(),
		dispatch:    dispatch,
		queries:     worker.NewRunner[*archive.Result](dispatch),
		downloads:   worker.NewRunner[*download.Summary](dispatch),
		selected:    -1,
	}

	window.SetTitle(ui.texts.GetText(KeyAppTitle))

	ui.settingsDialog = NewSettingsDialog(ui.settings, window, ui.texts, ui.refreshInstruments)
	ui.logWindow = NewLogWindow(app, console, ui.texts)
	ui.tasksWindow = NewTasksWindow(app, ui.downloadSvc, ui.texts, ui.onRevealDirectory)
	ui.downloadSvc.SetUpdateCallback(ui.tasksWindow.OnTaskUpdate)

	ui.setupUI()
	ui.logger.Info("Configuration file: " + ui.settings.Path())
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.targetEntry = widget.NewEntry()
	ui.targetEntry.SetPlaceHolder(ui.texts.GetText(KeyTargetHint))
	ui.targetEntry.OnSubmitted = func(string) { ui.onQueryClick() }

	ui.instrumentSelect = widget.NewSelect(nil, nil)
	ui.modeRadio = widget.NewRadioGroup(
		[]string{ui.texts.GetText(KeyPhase3), ui.texts.GetText(KeyRaw)},
		func(string) { ui.onModeChanged() },
	)
	ui.modeRadio.Horizontal = true
	ui.modeRadio.Required = true
	ui.modeRadio.SetSelected(ui.texts.GetText(KeyPhase3))

	ui.okBtn = widget.NewButton(ui.texts.GetText(KeyOk), ui.onQueryClick)
	ui.okBtn.Importance = widget.HighImportance
	ui.downloadBtn = widget.NewButton(ui.texts.GetText(KeyDownload), ui.onDownloadClick)
	ui.downloadBtn.Disable()

	target := container.NewGridWrap(fyne.NewSize(TargetEntryWidth, ui.targetEntry.MinSize().Height), ui.targetEntry)
	topBar := container.NewHBox(
		widget.NewLabel(ui.texts.GetText(KeyTarget)), target,
		ui.modeRadio, ui.instrumentSelect,
		ui.okBtn, ui.downloadBtn,
	)

	ui.table = widget.NewTable(ui.tableSize, ui.createCell, ui.updateCell)
	ui.table.ShowHeaderRow = true
	ui.table.CreateHeader = ui.createCell
	ui.table.UpdateHeader = ui.updateHeader
	ui.table.OnSelected = ui.onRowSelected

	ui.info = widget.NewRichText()
	ui.info.Wrapping = fyne.TextWrapWord
	split := container.NewHSplit(ui.table, container.NewVScroll(ui.info))
	split.Offset = InfoPanelOffset

	ui.progress = widget.NewProgressBar()
	ui.progress.Hide()
	status := widget.NewLabelWithData(ui.console.status)
	status.Truncation = fyne.TextTruncateEllipsis

	ui.refreshInstruments()
	ui.setColumns(model.ModePhase3)

	ui.window.SetContent(container.NewBorder(topBar, container.NewVBox(ui.progress, status), nil, nil, split))
	ui.window.Resize(fyne.NewSize(MainWindowWidth, MainWindowHeight))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	prefsItem := fyne.NewMenuItem(ui.texts.GetText(KeyPreferences), ui.settingsDialog.Show)
	ui.exportItem = fyne.NewMenuItem(ui.texts.GetText(KeyExport), ui.onExport)
	ui.exportItem.Disabled = true
	openItem := fyne.NewMenuItem(ui.texts.GetText(KeyOpenDataDir), func() {
		ui.onRevealDirectory(ui.settings.GetDataDirectory())
	})
	quitItem := fyne.NewMenuItem(ui.texts.GetText(KeyQuit), ui.app.Quit)
	quitItem.IsQuit = true

	showLog := fyne.NewMenuItem(ui.texts.GetText(KeyShow), ui.logWindow.Show)
	showTasks := fyne.NewMenuItem(ui.texts.GetText(KeyDownloads), ui.tasksWindow.Show)
	clearLog := fyne.NewMenuItem(ui.texts.GetText(KeyClear), ui.console.Clear)

	ui.mainMenu = fyne.NewMainMenu(
		fyne.NewMenu(ui.texts.GetText(KeyFile), prefsItem, ui.exportItem, openItem, fyne.NewMenuItemSeparator(), quitItem),
		fyne.NewMenu(ui.texts.GetText(KeyLog), showLog, showTasks, fyne.NewMenuItemSeparator(), clearLog),
	)
	ui.window.SetMainMenu(ui.mainMenu)
}

// mode returns the mode picked in the radio group
func (ui *RootUI) mode() model.Mode {
	if ui.modeRadio.Selected == ui.texts.GetText(KeyRaw) {
		return model.ModeRaw
	}
	return model.ModePhase3
}

func (ui *RootUI) onModeChanged() {
	if ui.instrumentSelect == nil {
		return
	}
	if ui.mode() == model.ModeRaw {
		ui.instrumentSelect.Enable()
	} else {
		ui.instrumentSelect.Disable()
	}
}

// refreshInstruments reloads the instrument choices after a preferences change
func (ui *RootUI) refreshInstruments() {
	if ui.instrumentSelect == nil {
		return
	}
	choices := ui.settings.InstrumentChoices()
	current := ui.instrumentSelect.Selected
	ui.instrumentSelect.SetOptions(choices)

	switch {
	case len(choices) == 0:
		ui.instrumentSelect.ClearSelected()
		ui.console.Status(ui.texts.GetText(KeyNoInstruments))
	case contains(choices, current):
		ui.instrumentSelect.SetSelected(current)
	default:
		ui.instrumentSelect.SetSelected(choices[0])
	}
	ui.onModeChanged()
}

// request snapshots the inputs for a query
func (ui *RootUI) request() archive.Request {
	user, password := ui.settings.Credentials()
	return archive.Request{
		Target:     strings.TrimSpace(ui.targetEntry.Text),
		Mode:       ui.mode(),
		Instrument: ui.instrumentSelect.Selected,
		Favorites:  ui.settings.FavoriteInstruments(),
		User:       user,
		Password:   password,
	}
}

func (ui *RootUI) onQueryClick() {
	_, _ = ui.startQuery()
}

// startQuery validates the inputs and runs the search in the background
func (ui *RootUI) startQuery() (<-chan worker.Result[*archive.Result], error) {
	req := ui.request()
	if req.Target == "" {
		ui.console.Status(ui.texts.GetText(KeyEnterTarget))
		return nil, errNoTarget
	}
	if req.Mode == model.ModeRaw && req.Instrument == "" {
		ui.console.Status(ui.texts.GetText(KeyNoInstruments))
		return nil, archive.ErrNoInstrument
	}

	ui.setBusy(true)
	ch, err := ui.queries.Submit(func() (*archive.Result, error) {
		return ui.searchSvc.Query(context.Background(), req)
	}, ui.onQueryDone)
	if err != nil {
		ui.setBusy(false)
		ui.console.Status(ui.texts.GetText(KeyQueryRunning))
		return nil, err
	}
	return ch, nil
}

func (ui *RootUI) onQueryDone(res *archive.Result, err error) {
	ui.setBusy(false)
	if err != nil && !errors.Is(err, archive.ErrNameNotResolved) {
		ui.logger.Debug("query ended with error", zap.Error(err))
	}
	if res == nil {
		res = &archive.Result{Mode: ui.mode()}
	}
	ui.showResult(res)
}

// showResult replaces the table contents
func (ui *RootUI) showResult(res *archive.Result) {
	ui.result = res
	ui.selected = -1
	ui.setColumns(res.Mode)
	ui.table.UnselectAll()
	ui.table.Refresh()
	ui.table.ScrollToTop()
	ui.showInfo(nil)
	ui.downloadBtn.Disable()

	ui.exportItem.Disabled = len(res.Groups) == 0
	ui.mainMenu.Refresh()
}

func (ui *RootUI) groups() []*model.ObservationGroup {
	if ui.result == nil {
		return nil
	}
	return ui.result.Groups
}

func (ui *RootUI) setColumns(mode model.Mode) {
	ui.columns = mode.DisplayColumns()
	for i, c := range ui.columns {
		w := ColumnWidth
		switch c {
		case model.ColObject, model.ColProgID, model.ColProposalID, "pi_coi", "obs_creator_name", "target_name":
			w = WideColumnWidth
		case model.ColNFiles:
			w = NarrowColumnWidth
		}
		ui.table.SetColumnWidth(i, w)
	}
}

func (ui *RootUI) tableSize() (int, int) {
	return len(ui.groups()), len(ui.columns)
}

func (ui *RootUI) createCell() fyne.CanvasObject {
	l := widget.NewLabel("")
	l.Truncation = fyne.TextTruncateEllipsis
	return l
}

func (ui *RootUI) updateCell(id widget.TableCellID, obj fyne.CanvasObject) {
	groups := ui.groups()
	if id.Row < 0 || id.Row >= len(groups) || id.Col >= len(ui.columns) {
		obj.(*widget.Label).SetText("")
		return
	}
	obj.(*widget.Label).SetText(CellText(groups[id.Row], ui.columns[id.Col]))
}

func (ui *RootUI) updateHeader(id widget.TableCellID, obj fyne.CanvasObject) {
	l := obj.(*widget.Label)
	l.TextStyle = fyne.TextStyle{Bold: true}
	if id.Col >= 0 && id.Col < len(ui.columns) {
		l.SetText(ui.columns[id.Col])
		return
	}
	l.SetText("")
}

// CellText renders a group field on a single table line
func CellText(g *model.ObservationGroup, col string) string {
	return strings.ReplaceAll(g.Value(col), "\n", ", ")
}

func (ui *RootUI) onRowSelected(id widget.TableCellID) {
	groups := ui.groups()
	if id.Row < 0 || id.Row >= len(groups) {
		return
	}
	ui.selected = id.Row
	ui.showInfo(groups[id.Row])
	if !ui.downloads.Busy() {
		ui.downloadBtn.Enable()
	}
}

// showInfo fills the details panel with every field of the group
func (ui *RootUI) showInfo(g *model.ObservationGroup) {
	if g == nil {
		ui.info.Segments = nil
		ui.info.Refresh()
		return
	}
	var segs []widget.RichTextSegment
	for _, key := range InfoKeys(ui.result.Mode, g) {
		segs = append(segs,
			&widget.TextSegment{Text: key + ":", Style: widget.RichTextStyleStrong},
			&widget.TextSegment{Text: g.Value(key), Style: widget.RichTextStyleParagraph},
		)
	}
	ui.info.Segments = segs
	ui.info.Refresh()
}

// InfoKeys lists the fields shown in the details panel for a group
func InfoKeys(mode model.Mode, g *model.ObservationGroup) []string {
	var keys []string
	for _, key := range mode.SummaryKeys() {
		if model.IgnoredInfoKeys[key] {
			continue
		}
		if _, ok := g.Fields[key]; ok {
			keys = append(keys, key)
		}
	}
	return keys
}

func (ui *RootUI) onDownloadClick() {
	groups := ui.groups()
	if ui.selected < 0 || ui.selected >= len(groups) {
		ui.console.Status(ui.texts.GetText(KeyNoSelection))
		return
	}
	NewDownloadDialog(ui.window, ui.texts, ui.result.Mode, ui.settingsDialog.Show, func(sel model.CalSelector) {
		_, _ = ui.startDownload(sel)
	}).Show()
}

// startDownload fetches the files of the selected group in the background
func (ui *RootUI) startDownload(sel model.CalSelector) (<-chan worker.Result[*download.Summary], error) {
	groups := ui.groups()
	if ui.selected < 0 || ui.selected >= len(groups) {
		return nil, download.ErrNoFiles
	}
	g := groups[ui.selected]
	user, password := ui.settings.Credentials()
	req := download.Request{
		Mode:       ui.result.Mode,
		Selector:   sel,
		AccessURLs: g.Lines(model.ColAccessURL),
		Dir:        ui.settings.GetDataDirectory(),
		User:       user,
		Password:   password,
	}
	if req.Mode == model.ModeRaw {
		req.DatalinkURLs = g.Lines(model.ColDatalinkURL)
	}

	ui.setDownloading(true)
	ch, err := ui.downloads.Submit(func() (*download.Summary, error) {
		return ui.downloadSvc.Download(context.Background(), req, func(percent int) {
			ui.dispatch(func() { ui.progress.SetValue(float64(percent) / 100) })
		})
	}, func(sum *download.Summary, err error) {
		ui.setDownloading(false)
		if err != nil {
			ui.logger.Debug("download ended with error", zap.Error(err))
		}
	})
	if err != nil {
		ui.setDownloading(false)
		ui.console.Status(ui.texts.GetText(KeyDownloadRunning))
		return nil, err
	}
	return ch, nil
}

func (ui *RootUI) onExport() {
	res := ui.result
	if res == nil || len(res.Groups) == 0 {
		return
	}
	path := export.FileName(ui.settings.GetDataDirectory(), res.Target, res.Mode)
	if err := export.Write(path, res.Mode, res.Groups); err != nil {
		ui.logger.Error("Export failed", logging.Status(), zap.Error(err))
		dialog.ShowError(err, ui.window)
		return
	}
	ui.logger.Info(fmt.Sprintf(ui.texts.GetText(KeyFileSaved), path), logging.Status())
}

func (ui *RootUI) onRevealDirectory(dir string) {
	if err := platform.OpenDirectory(dir); err != nil {
		ui.logger.Warn(ui.texts.GetText(KeyErrorOpeningDir), zap.String("dir", dir), zap.Error(err))
	}
}

// setBusy locks the query inputs while a search runs
func (ui *RootUI) setBusy(busy bool) {
	for _, w := range []fyne.Disableable{ui.targetEntry, ui.okBtn, ui.modeRadio} {
		if busy {
			w.Disable()
		} else {
			w.Enable()
		}
	}
	if !busy {
		ui.onModeChanged()
	} else {
		ui.instrumentSelect.Disable()
	}
}

// setDownloading locks the inputs and shows the progress bar during a download
func (ui *RootUI) setDownloading(on bool) {
	ui.setBusy(on)
	ui.progress.SetValue(0)
	if on {
		ui.downloadBtn.Disable()
		ui.progress.Show()
		return
	}
	ui.progress.Hide()
	if ui.selected >= 0 {
		ui.downloadBtn.Enable()
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
