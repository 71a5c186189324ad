package ui

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/esoquery/esoquery/internal/download"
	"github.com/esoquery/esoquery/internal/model"
)

// TasksWindow lists the files handled by the download service
type TasksWindow struct {
	window      fyne.Window
	downloadSvc download.Downloader
	texts       *Localization
	onReveal    func(dir string)

	list  *widget.List
	empty *widget.Label
	tasks []*model.DownloadTask

	// UI update debouncing
	lastUIUpdate  time.Time
	uiUpdateMutex sync.Mutex
}

// NewTasksWindow creates the (hidden) downloads window
func NewTasksWindow(app fyne.App, downloadSvc download.Downloader, texts *Localization, onReveal func(dir string)) *TasksWindow {
	tw := &TasksWindow{
		window:      app.NewWindow(texts.GetText(KeyDownloads)),
		downloadSvc: downloadSvc,
		texts:       texts,
		onReveal:    onReveal,
	}

	tw.list = widget.NewList(
		func() int { return len(tw.tasks) },
		func() fyne.CanvasObject {
			row := NewTaskRow(texts)
			row.SetOnReveal(func(path string) {
				if tw.onReveal != nil {
					tw.onReveal(filepath.Dir(path))
				}
			})
			return row
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(tw.tasks) {
				obj.(*TaskRow).SetTask(tw.tasks[id])
			}
		},
	)
	tw.empty = widget.NewLabel(texts.GetText(KeyNoDownloadsYet))

	closeBtn := widget.NewButton(texts.GetText(KeyClose), tw.window.Hide)
	tw.window.SetContent(container.NewBorder(nil, container.NewHBox(closeBtn), nil, nil,
		container.NewStack(tw.list, tw.empty)))
	tw.window.Resize(fyne.NewSize(TasksWindowWidth, TasksWindowHeight))
	tw.window.SetCloseIntercept(tw.window.Hide)

	tw.reload()
	return tw
}

// Show brings the window up
func (tw *TasksWindow) Show() {
	tw.reload()
	tw.window.Show()
}

// OnTaskUpdate is the download service callback; it may run on any goroutine.
// Updates of running downloads are debounced.
func (tw *TasksWindow) OnTaskUpdate(task *model.DownloadTask) {
	tw.uiUpdateMutex.Lock()
	if time.Since(tw.lastUIUpdate) < UIUpdateDebounce && task.Status.IsActive() {
		tw.uiUpdateMutex.Unlock()
		return
	}
	tw.lastUIUpdate = time.Now()
	tw.uiUpdateMutex.Unlock()

	fyne.Do(tw.reload)
}

// reload re-reads the tasks, newest first; UI goroutine only
func (tw *TasksWindow) reload() {
	tasks := tw.downloadSvc.GetAllTasks()
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.After(tasks[j].StartedAt)
	})
	tw.tasks = tasks
	if len(tasks) == 0 {
		tw.empty.Show()
	} else {
		tw.empty.Hide()
	}
	tw.list.Refresh()
}
