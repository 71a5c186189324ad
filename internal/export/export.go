// Package export writes grouped search results to a ';'-delimited file.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/esoquery/esoquery/internal/model"
	"github.com/esoquery/esoquery/internal/platform"
)

// Comma separates the fields of an export line
const Comma = ';'

// FileName returns the export path for a target in dir
func FileName(dir, target string, mode model.Mode) string {
	return filepath.Join(dir, fmt.Sprintf("esoquery_%s_%s.csv", platform.SafeName(target), mode))
}

// Record renders one group as export fields, newlines flattened to spaces
func Record(mode model.Mode, g *model.ObservationGroup) []string {
	cols := mode.DisplayColumns()
	rec := make([]string, len(cols))
	for i, c := range cols {
		rec[i] = strings.ReplaceAll(g.Value(c), "\n", " ")
	}
	return rec
}

// Write saves one line per group to path, replacing any existing file
func Write(path string, mode model.Mode, groups []*model.ObservationGroup) error {
	if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	w := csv.NewWriter(f)
	w.Comma = Comma
	for _, g := range groups {
		if err := w.Write(Record(mode, g)); err != nil {
			f.Close()
			return fmt.Errorf("export: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	return f.Close()
}

// Read loads an export file back into records
func Read(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = Comma
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
