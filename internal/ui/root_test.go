package ui

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esoquery/esoquery/internal/archive"
	"github.com/esoquery/esoquery/internal/config"
	"github.com/esoquery/esoquery/internal/download"
	"github.com/esoquery/esoquery/internal/export"
	"github.com/esoquery/esoquery/internal/model"
	"github.com/esoquery/esoquery/internal/worker"
)

type fakeSearcher struct {
	mu   sync.Mutex
	reqs []archive.Request
	res  *archive.Result
	err  error
}

func (f *fakeSearcher) Query(_ context.Context, req archive.Request) (*archive.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	return f.res, f.err
}

type fakeDownloader struct {
	mu       sync.Mutex
	reqs     []download.Request
	onUpdate func(*model.DownloadTask)
}

func (f *fakeDownloader) SetUpdateCallback(cb func(*model.DownloadTask)) { f.onUpdate = cb }
func (f *fakeDownloader) GetTask(string) (*model.DownloadTask, bool) { return nil, false }
func (f *fakeDownloader) GetAllTasks() []*model.DownloadTask { return nil }

func (f *fakeDownloader) Download(_ context.Context, req download.Request, progress func(int)) (*download.Summary, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	progress(50)
	progress(100)
	return &download.Summary{Requested: 2, Completed: 2}, nil
}

func newTestUI(t *testing.T, search *fakeSearcher) (*RootUI, *fakeDownloader, *config.Settings) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	settings, err := config.Load(filepath.Join(t.TempDir(), "esoquery.toml"))
	require.NoError(t, err)
	settings.SetDataDirectory(t.TempDir())

	dl := &fakeDownloader{}
	w := app.NewWindow("test")
	ui := NewRootUI(w, app, Deps{
		Settings: settings,
		Search:   search,
		Download: dl,
		Dispatch: worker.Immediate,
	})
	return ui, dl, settings
}

func phase3Result() *archive.Result {
	return &archive.Result{
		Target: "HD 61005",
		Mode:   model.ModePhase3,
		Groups: []*model.ObservationGroup{
			{NFiles: 2, Fields: map[string]string{
				"target_name":     "HD 61005\nHD61005",
				"instrument_name": "SPHERE",
				"proposal_id":     "098.C-0001",
				"access_url":      "https://archive.eso.org/datalink/links?ID=a\nhttps://archive.eso.org/datalink/links?ID=b",
				"s_ra":            "116.4812",
			}},
		},
	}
}

func TestRootUI_QueryFillsTable(t *testing.T) {
	search := &fakeSearcher{res: phase3Result()}
	ui, _, _ := newTestUI(t, search)

	test.Type(ui.targetEntry, "  HD 61005 ")
	ch, err := ui.startQuery()
	require.NoError(t, err)
	<-ch

	require.Len(t, search.reqs, 1)
	assert.Equal(t, "HD 61005", search.reqs[0].Target)
	assert.Equal(t, model.ModePhase3, search.reqs[0].Mode)

	rows, cols := ui.tableSize()
	assert.Equal(t, 1, rows)
	assert.Equal(t, len(model.ModePhase3.DisplayColumns()), cols)
	assert.False(t, ui.exportItem.Disabled)
	assert.False(t, ui.okBtn.Disabled())
	assert.True(t, ui.downloadBtn.Disabled())
}

func TestRootUI_RawQueryUsesFavorites(t *testing.T) {
	search := &fakeSearcher{res: &archive.Result{Mode: model.ModeRaw}}
	ui, _, settings := newTestUI(t, search)

	settings.SetFavorite("UVES", true)
	ui.refreshInstruments()
	ui.modeRadio.SetSelected(ui.texts.GetText(KeyRaw))
	assert.False(t, ui.instrumentSelect.Disabled())
	assert.Equal(t, []string{"SPHERE", "UVES", model.AllFavorites}, ui.instrumentSelect.Options)

	ui.instrumentSelect.SetSelected(model.AllFavorites)
	test.Type(ui.targetEntry, "HD 61005")
	ch, err := ui.startQuery()
	require.NoError(t, err)
	<-ch

	require.Len(t, search.reqs, 1)
	assert.Equal(t, model.ModeRaw, search.reqs[0].Mode)
	assert.Equal(t, model.AllFavorites, search.reqs[0].Instrument)
	assert.Equal(t, []string{"SPHERE", "UVES"}, search.reqs[0].Favorites)
}

func TestRootUI_EmptyTarget(t *testing.T) {
	search := &fakeSearcher{}
	ui, _, _ := newTestUI(t, search)

	_, err := ui.startQuery()
	assert.Error(t, err)
	assert.Empty(t, search.reqs)
	assert.Equal(t, ui.texts.GetText(KeyEnterTarget), ui.console.StatusText())
}

func TestRootUI_DownloadSelectedGroup(t *testing.T) {
	ui, dl, _ := newTestUI(t, &fakeSearcher{})
	ui.showResult(phase3Result())

	ui.onRowSelected(wCell(0, 0))
	assert.False(t, ui.downloadBtn.Disabled())

	ch, err := ui.startDownload(model.SelectorRawToRaw)
	require.NoError(t, err)
	res := <-ch
	require.NoError(t, res.Err)

	require.Len(t, dl.reqs, 1)
	assert.Equal(t, []string{
		"https://archive.eso.org/datalink/links?ID=a",
		"https://archive.eso.org/datalink/links?ID=b",
	}, dl.reqs[0].AccessURLs)
	assert.Nil(t, dl.reqs[0].DatalinkURLs)
	assert.Equal(t, ui.settings.GetDataDirectory(), dl.reqs[0].Dir)
	assert.True(t, ui.progress.Hidden)
	assert.False(t, ui.downloadBtn.Disabled())
}

func TestRootUI_ExportWritesFile(t *testing.T) {
	ui, _, settings := newTestUI(t, &fakeSearcher{})
	ui.showResult(phase3Result())

	ui.onExport()

	path := export.FileName(settings.GetDataDirectory(), "HD 61005", model.ModePhase3)
	_, err := os.Stat(path)
	require.NoError(t, err)
	recs, err := export.Read(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "HD 61005 HD61005", recs[0][0])
}

func TestInfoKeysSkipIgnored(t *testing.T) {
	g := &model.ObservationGroup{Fields: map[string]string{
		"object":       "HD 61005",
		"date_obs":     "2016-01-01T10:00:00",
		"datalink_url": "x",
		"obsnight":     "2016/01/01",
	}}
	assert.Equal(t, []string{"object", "obsnight"}, InfoKeys(model.ModeRaw, g))
}

func TestCellTextFlattensLines(t *testing.T) {
	g := &model.ObservationGroup{NFiles: 3, Fields: map[string]string{"object": "A\nB"}}
	assert.Equal(t, "A, B", CellText(g, "object"))
	assert.Equal(t, "3", CellText(g, "nfiles"))
}

func TestConsole(t *testing.T) {
	test.NewApp()
	c := NewConsole()
	c.Log("one")
	c.Log("two")
	c.Status("ready")

	assert.Equal(t, []string{"one", "two"}, c.Lines())
	assert.Equal(t, "ready", c.StatusText())

	c.Clear()
	assert.Empty(t, c.Lines())
}

func wCell(row, col int) widget.TableCellID {
	return widget.TableCellID{Row: row, Col: col}
}
