package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateDirectoryIfNotExists(t *testing.T) {
	// Create temporary directory for testing
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	// Directory should not exist initially
	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	// Create directory
	err := CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	// Directory should now exist
	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	err = CreateDirectoryIfNotExists(testDir)
	if err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomeDir(t *testing.T) {
	home, err := GetHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}

	if home == "" {
		t.Fatal("Home directory is empty")
	}
}

func TestOpenDirectory_NonExistent(t *testing.T) {
	err := OpenDirectory(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Error("Expected error for non-existent directory")
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"HD 61005", "HD_61005"},
		{"  beta Pic ", "beta_Pic"},
		{"NGC 253/core", "NGC_253_core"},
		{"M31", "M31"},
	}

	for _, test := range tests {
		if got := SafeName(test.in); got != test.expected {
			t.Errorf("SafeName(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}
}

func TestSafeBase(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"SPHER.2016-01-01T00:00:00.000.fits.Z", "SPHER.2016-01-01T00:00:00.000.fits.Z"},
		{"../../etc/passwd", "passwd"},
		{`..\evil.fits`, "evil.fits"},
		{"..", ""},
		{"", ""},
	}

	for _, test := range tests {
		if got := SafeBase(test.in); got != test.expected {
			t.Errorf("SafeBase(%q) = %q, expected %q", test.in, got, test.expected)
		}
	}
}
