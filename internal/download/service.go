package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/esoquery/esoquery/internal/archive"
	"github.com/esoquery/esoquery/internal/datalink"
	"github.com/esoquery/esoquery/internal/logging"
	"github.com/esoquery/esoquery/internal/model"
	"github.com/esoquery/esoquery/internal/platform"
)

// ErrNoFiles is returned when the selection resolves to nothing
var ErrNoFiles = errors.New("nothing to download")

// Request is a copy of the selection taken when the download starts
type Request struct {
	Mode         model.Mode
	Selector     model.CalSelector
	AccessURLs   []string
	DatalinkURLs []string
	Dir          string
	User         string
	Password     string
}

// Summary reports what a download run did
type Summary struct {
	Dir       string
	Requested int
	Completed int
	Failed    int
	Skipped   int
}

// Service handles download operations
type Service struct {
	tokens  *archive.TokenProvider
	limiter *rate.Limiter
	logger  *zap.Logger

	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex
	onUpdate   func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(tokens *archive.TokenProvider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		tokens:  tokens,
		limiter: rate.NewLimiter(datalink.DefaultLimit, 1),
		logger:  logger,
		tasks:   make(map[string]*model.DownloadTask),
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// GetTask returns a snapshot of a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return nil, false
	}
	cp := *task
	return &cp, true
}

// GetAllTasks returns snapshots of all tasks. The service keeps writing its
// own copies, so callers may read the returned tasks from any goroutine.
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		cp := *task
		tasks = append(tasks, &cp)
	}
	return tasks
}

// Download resolves the selection and fetches every file into req.Dir.
// A file that fails is logged and skipped.
func (s *Service) Download(ctx context.Context, req Request, progress func(percent int)) (*Summary, error) {
	sum := &Summary{Dir: req.Dir}

	client := s.tokens.Client(ctx, req.User, req.Password)
	resolver := datalink.NewResolver(datalink.NewHTTPFetcher(client, s.limiter), s.logger)
	resolver.SetSkipCallback(func(url, reason string) {
		sum.Skipped++
		s.addSkipped(url, reason)
	})
	urls := resolver.Resolve(ctx, req.Mode, req.Selector, req.AccessURLs, req.DatalinkURLs)
	sum.Requested = len(urls)
	if len(urls) == 0 {
		s.logger.Info("Nothing to download.", logging.Status())
		return sum, ErrNoFiles
	}

	if err := platform.CreateDirectoryIfNotExists(req.Dir); err != nil {
		s.logger.Error("Cannot create the download directory", logging.Status(),
			zap.String("dir", req.Dir), zap.Error(err))
		return sum, err
	}
	s.logger.Info(fmt.Sprintf("Will download %d files in %s", len(urls), req.Dir), logging.Status())

	for i, u := range urls {
		task := s.addTask(u)
		if err := s.fetch(ctx, client, task, req.Dir); err != nil {
			sum.Failed++
			s.logger.Warn(fmt.Sprintf("Could not download the following file: %s", task.GetDisplayTitle()),
				zap.Int("http_status", task.HTTPStatus), zap.Error(err))
		} else {
			sum.Completed++
			s.logger.Debug("downloaded", zap.String("file", task.OutputPath))
		}
		if progress != nil {
			progress(100 * (i + 1) / len(urls))
		}
	}

	s.logger.Info(fmt.Sprintf("Downloaded %d of %d files in %s", sum.Completed, sum.Requested, req.Dir), logging.Status())
	return sum, nil
}

func (s *Service) addTask(url string) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:     generateTaskID(),
		URL:    url,
		Status: model.TaskStatusPending,
	}
	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
	return task
}

// addSkipped records a file the archive cannot serve
func (s *Service) addSkipped(url, reason string) {
	now := time.Now()
	task := &model.DownloadTask{
		ID:         generateTaskID(),
		URL:        url,
		Status:     model.TaskStatusSkipped,
		LastError:  reason,
		StartedAt:  now,
		FinishedAt: now,
	}
	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// setStatus updates a task under the lock and notifies the UI
func (s *Service) setStatus(task *model.DownloadTask, update func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	update(task)
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// fetch downloads one file, writing through a temporary file in dir
func (s *Service) fetch(ctx context.Context, client *http.Client, task *model.DownloadTask, dir string) (err error) {
	s.setStatus(task, func(t *model.DownloadTask) {
		t.Status = model.TaskStatusDownloading
		t.StartedAt = time.Now()
	})
	defer func() {
		s.setStatus(task, func(t *model.DownloadTask) {
			t.FinishedAt = time.Now()
			if err != nil {
				t.Status = model.TaskStatusError
				t.LastError = err.Error()
			} else {
				t.Status = model.TaskStatusCompleted
			}
		})
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	name := Filename(resp.Header.Get("Content-Disposition"), task)
	s.tasksMutex.Lock()
	task.HTTPStatus = resp.StatusCode
	task.OutputPath = filepath.Join(dir, name)
	s.tasksMutex.Unlock()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, ".esoquery-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), task.OutputPath)
}

// Filename picks the local file name from a Content-Disposition header,
// falling back to the last segment of the task URL
func Filename(contentDisposition string, task *model.DownloadTask) string {
	name := ""
	if contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			name = params["filename"]
		} else if _, after, ok := strings.Cut(contentDisposition, "filename="); ok {
			// archive names carry ':' which is not a valid token character
			name, _, _ = strings.Cut(after, ";")
			name = strings.Trim(strings.TrimSpace(name), `"`)
		}
	}
	if name = platform.SafeBase(name); name != "" {
		return name
	}
	return platform.SafeBase(task.FallbackFilename())
}

// notifyUpdate hands a snapshot of task to the update callback, if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate == nil {
		return
	}
	s.tasksMutex.RLock()
	cp := *task
	s.tasksMutex.RUnlock()
	s.onUpdate(&cp)
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.NewString()
}
