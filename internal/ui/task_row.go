package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/esoquery/esoquery/internal/model"
)

// TaskRow shows one downloaded file: name, status and a reveal button
type TaskRow struct {
	widget.BaseWidget

	task         *model.DownloadTask
	localization *Localization

	titleLabel  *widget.Label
	statusLabel *widget.Label
	detailLabel *widget.Label
	revealBtn   *widget.Button

	onReveal func(filePath string)
}

// NewTaskRow creates an empty row; SetTask fills it
func NewTaskRow(localization *Localization) *TaskRow {
	tr := &TaskRow{localization: localization}
	tr.ExtendBaseWidget(tr)

	tr.titleLabel = widget.NewLabel("")
	tr.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	tr.titleLabel.Truncation = fyne.TextTruncateEllipsis

	tr.statusLabel = widget.NewLabel("")
	tr.statusLabel.Alignment = fyne.TextAlignTrailing

	tr.detailLabel = widget.NewLabel("")
	tr.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}
	tr.detailLabel.Truncation = fyne.TextTruncateEllipsis

	tr.revealBtn = widget.NewButton(IconFolder, func() {
		if tr.task != nil && tr.onReveal != nil && tr.task.OutputPath != "" {
			tr.onReveal(tr.task.OutputPath)
		}
	})
	tr.revealBtn.Importance = widget.LowImportance
	return tr
}

// SetOnReveal sets the action of the folder button
func (tr *TaskRow) SetOnReveal(onReveal func(filePath string)) {
	tr.onReveal = onReveal
}

// SetTask shows task in the row
func (tr *TaskRow) SetTask(task *model.DownloadTask) {
	tr.task = task
	tr.updateFromTask()
}

func (tr *TaskRow) updateFromTask() {
	if tr.task == nil {
		return
	}
	tr.titleLabel.SetText(tr.task.GetDisplayTitle())
	tr.statusLabel.SetText(statusText(tr.task.Status))
	tr.detailLabel.SetText(detailText(tr.task))
	if tr.task.Status == model.TaskStatusCompleted {
		tr.revealBtn.Enable()
	} else {
		tr.revealBtn.Disable()
	}
}

func statusText(s model.TaskStatus) string {
	switch s {
	case model.TaskStatusCompleted:
		return IconDone + " " + s.String()
	case model.TaskStatusError:
		return IconError + " " + s.String()
	case model.TaskStatusSkipped:
		return IconSkip + " " + s.String()
	}
	return s.String()
}

func detailText(t *model.DownloadTask) string {
	switch {
	case t.LastError != "":
		return t.LastError
	case t.OutputPath != "":
		return t.OutputPath
	case t.URL != "":
		return t.URL
	}
	return DashPlaceholder
}

// CreateRenderer implements fyne.Widget
func (tr *TaskRow) CreateRenderer() fyne.WidgetRenderer {
	status := container.NewGridWrap(fyne.NewSize(StatusLabelWidth, tr.statusLabel.MinSize().Height), tr.statusLabel)
	top := container.NewBorder(nil, nil, nil, container.NewHBox(status, tr.revealBtn), tr.titleLabel)
	return widget.NewSimpleRenderer(container.NewVBox(top, tr.detailLabel))
}

// MinSize keeps rows readable in narrow windows
func (tr *TaskRow) MinSize() fyne.Size {
	size := tr.BaseWidget.MinSize()
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	return size
}
