package model

import (
	"path"
	"strings"
	"time"
)

// DownloadTask represents a single file fetched from the archive
type DownloadTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	HTTPStatus int       // status code returned by the archive, 0 if not requested
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded file
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
}

// GetDisplayTitle returns the file name, or the URL when nothing was written yet
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	if dt.URL == "" {
		return ""
	}
	return dt.URL
}

// FallbackFilename derives a file name from the URL path, used when the
// archive does not send a Content-Disposition header.
func (dt *DownloadTask) FallbackFilename() string {
	u := dt.URL
	if idx := strings.IndexAny(u, "?#"); idx >= 0 {
		u = u[:idx]
	}
	name := path.Base(u)
	if name == "." || name == "/" || name == "" {
		return dt.ID
	}
	return name
}
