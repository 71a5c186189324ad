package grouping

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/esoquery/esoquery/internal/model"
)

// EmptySummary is rendered when nothing is left to show for a field
const EmptySummary = "--"

// Placeholder object names the archive uses when the observer set none
var placeholderObjects = map[string]bool{
	"":                    true,
	"OBJECT":              true,
	"OBJECT NAME NOT SET": true,
}

// Summarize builds one observation group from its rows. Only keys present in
// the rows are summarised.
func Summarize(keys []string, rows []model.ArchiveRow) *model.ObservationGroup {
	g := &model.ObservationGroup{
		NFiles: len(rows),
		Fields: make(map[string]string, len(keys)),
		Rows:   rows,
	}
	if len(rows) == 0 {
		return g
	}
	for _, key := range keys {
		if !rows[0].Has(key) {
			continue
		}
		values := make([]string, len(rows))
		for i, r := range rows {
			values[i] = r.Get(key)
		}
		g.Fields[key] = FormatField(key, values)
	}
	return g
}

// FormatField renders a field summary: the mean of distinct values for
// coordinates, otherwise the sorted distinct values joined by newlines.
// Values that are all numeric are ordered by value.
func FormatField(key string, values []string) string {
	if model.IsCoordinate(key) {
		return formatMean(values)
	}

	uniq := uniqueSorted(values)
	if key == model.ColObject {
		kept := uniq[:0:0]
		for _, v := range uniq {
			if !placeholderObjects[v] {
				kept = append(kept, v)
			}
		}
		uniq = kept
	}
	if len(uniq) == 0 {
		return EmptySummary
	}
	return strings.Join(uniq, "\n")
}

// formatMean averages the distinct numbers among values; 10 and 10.00 count once
func formatMean(values []string) string {
	seen := make(map[float64]bool, len(values))
	var sum float64
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || seen[f] {
			continue
		}
		seen[f] = true
		sum += f
	}
	if len(seen) == 0 {
		return EmptySummary
	}
	return fmt.Sprintf("%.4f", sum/float64(len(seen)))
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}

	nums := make(map[string]float64, len(out))
	for _, v := range out {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) {
			sort.Strings(out)
			return out
		}
		nums[v] = f
	}
	sort.Slice(out, func(i, j int) bool {
		if nums[out[i]] != nums[out[j]] {
			return nums[out[i]] < nums[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}
