package download

import (
	"context"

	"github.com/esoquery/esoquery/internal/model"
)

// Downloader defines the interface for the download service.
// Tasks handed out by the service are copies and never change afterwards.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))
	GetTask(id string) (*model.DownloadTask, bool)
	GetAllTasks() []*model.DownloadTask

	// Download resolves and fetches the files of a selection, calling
	// progress with the completed percentage after each file
	Download(ctx context.Context, req Request, progress func(percent int)) (*Summary, error)
}

var _ Downloader = (*Service)(nil)
