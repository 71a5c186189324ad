package model

import (
	"testing"
	"time"
)

func TestDownloadTask_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		outputPath string
		url        string
		expected   string
	}{
		{"/data/ADP.2019-01-01T00:00:00.000.fits", "https://dataportal.eso.org/dataPortal/file/ADP", "ADP.2019-01-01T00:00:00.000.fits"},
		{`C:\data\SPHER.2016-01-01.fits.Z`, "https://x", "SPHER.2016-01-01.fits.Z"},
		{"", "https://dataportal.eso.org/dataPortal/file/SPHER.2016", "https://dataportal.eso.org/dataPortal/file/SPHER.2016"},
		{"", "", ""},
	}

	for _, test := range tests {
		task := &DownloadTask{
			OutputPath: test.outputPath,
			URL:        test.url,
		}
		result := task.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with path='%s', url='%s' = '%s', expected '%s'",
				test.outputPath, test.url, result, test.expected)
		}
	}
}

func TestDownloadTask_FallbackFilename(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://dataportal.eso.org/dataPortal/file/SPHER.2016-01-01T00:00:00.000", "SPHER.2016-01-01T00:00:00.000"},
		{"https://archive.eso.org/preview/ADP.png?size=small", "ADP.png"},
		{"", "task-1"},
	}

	for _, test := range tests {
		task := &DownloadTask{ID: "task-1", URL: test.url}
		if got := task.FallbackFilename(); got != test.expected {
			t.Errorf("FallbackFilename() for %q = %q, expected %q", test.url, got, test.expected)
		}
	}
}

func TestDownloadTask_Creation(t *testing.T) {
	now := time.Now()
	task := &DownloadTask{
		ID:        "test-123",
		URL:       "https://dataportal.eso.org/dataPortal/file/test",
		Status:    TaskStatusPending,
		StartedAt: now,
	}

	if task.ID != "test-123" {
		t.Errorf("Expected ID to be 'test-123', got '%s'", task.ID)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected status to be TaskStatusPending, got %s", task.Status)
	}

	if !task.StartedAt.Equal(now) {
		t.Errorf("Expected StartedAt to be %v, got %v", now, task.StartedAt)
	}
}
