package grouping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/esoquery/esoquery/internal/model"
)

// Raw frames further apart than this start a new observation block
const MaxGapHours = 3

// DateObsLayout is the archive's date_obs layout. Fractional seconds are
// optional, and ParseDateObs falls back to RFC 3339.
const DateObsLayout = "2006-01-02T15:04:05"

// ErrBadTimestamp is returned when a raw row carries an unparsable date_obs
var ErrBadTimestamp = errors.New("malformed observation timestamp")

// Group partitions rows into observation groups for the given mode.
// The input slice and its rows are left untouched.
func Group(mode model.Mode, rows []model.ArchiveRow) ([]*model.ObservationGroup, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	prepared := Prepare(mode, rows)

	var partitions [][]model.ArchiveRow
	var err error
	if mode == model.ModeRaw {
		partitions, err = partitionRaw(prepared)
		if err != nil {
			return nil, err
		}
	} else {
		partitions = partitionPhase3(prepared)
	}

	keys := mode.SummaryKeys()
	groups := make([]*model.ObservationGroup, 0, len(partitions))
	for _, part := range partitions {
		groups = append(groups, Summarize(keys, part))
	}
	return groups, nil
}

// Flatten returns the rows of all groups in group order
func Flatten(groups []*model.ObservationGroup) []model.ArchiveRow {
	var rows []model.ArchiveRow
	for _, g := range groups {
		rows = append(rows, g.Rows...)
	}
	return rows
}

// Prepare returns copies of the rows with the display dates shortened to
// YYYY/MM/DD and, for raw data, the derived observing night column.
func Prepare(mode model.Mode, rows []model.ArchiveRow) []model.ArchiveRow {
	out := make([]model.ArchiveRow, len(rows))
	for i, r := range rows {
		c := r.Clone()
		if mode == model.ModeRaw {
			c[model.ColObsNight] = shortDate(c.Get(model.ColDateObs))
			if c.Has(model.ColReleaseDate) {
				c[model.ColReleaseDate] = shortDate(c.Get(model.ColReleaseDate))
			}
		} else if c.Has(model.ColObsReleaseDate) {
			c[model.ColObsReleaseDate] = shortDate(c.Get(model.ColObsReleaseDate))
		}
		out[i] = c
	}
	return out
}

func shortDate(v string) string {
	day, _, _ := strings.Cut(v, "T")
	return strings.ReplaceAll(day, "-", "/")
}

// ParseDateObs parses an archive observation timestamp in DateObsLayout,
// with or without fractional seconds, or in RFC 3339
func ParseDateObs(v string) (time.Time, error) {
	// time.Parse accepts an optional fractional second after the seconds field
	t, err := time.Parse(DateObsLayout, strings.TrimSpace(v))
	if err == nil {
		return t, nil
	}
	if t, rerr := time.Parse(time.RFC3339Nano, strings.TrimSpace(v)); rerr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q: %v", ErrBadTimestamp, v, err)
}

// partitionPhase3 splits rows by instrument, then by proposal id, keeping
// the order in which keys are first encountered.
func partitionPhase3(rows []model.ArchiveRow) [][]model.ArchiveRow {
	var instOrder []string
	byInst := make(map[string][]model.ArchiveRow)
	for _, r := range rows {
		inst := r.Get(model.ColInstrumentName)
		if _, ok := byInst[inst]; !ok {
			instOrder = append(instOrder, inst)
		}
		byInst[inst] = append(byInst[inst], r)
	}

	var parts [][]model.ArchiveRow
	for _, inst := range instOrder {
		var propOrder []string
		byProp := make(map[string][]model.ArchiveRow)
		for _, r := range byInst[inst] {
			prop := r.Get(model.ColProposalID)
			if _, ok := byProp[prop]; !ok {
				propOrder = append(propOrder, prop)
			}
			byProp[prop] = append(byProp[prop], r)
		}
		for _, prop := range propOrder {
			parts = append(parts, byProp[prop])
		}
	}
	return parts
}

type timedRow struct {
	row model.ArchiveRow
	at  time.Time
}

// partitionRaw sorts rows chronologically and splits each instrument's
// sequence wherever consecutive frames are more than MaxGapHours apart.
func partitionRaw(rows []model.ArchiveRow) ([][]model.ArchiveRow, error) {
	timed := make([]timedRow, len(rows))
	for i, r := range rows {
		at, err := ParseDateObs(r.Get(model.ColDateObs))
		if err != nil {
			return nil, err
		}
		timed[i] = timedRow{row: r, at: at}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].at.Before(timed[j].at)
	})

	var instOrder []string
	byInst := make(map[string][]timedRow)
	for _, tr := range timed {
		inst := tr.row.Get(model.ColInstrument)
		if _, ok := byInst[inst]; !ok {
			instOrder = append(instOrder, inst)
		}
		byInst[inst] = append(byInst[inst], tr)
	}

	var parts [][]model.ArchiveRow
	for _, inst := range instOrder {
		seq := byInst[inst]
		current := []model.ArchiveRow{seq[0].row}
		for i := 1; i < len(seq); i++ {
			if GapHours(seq[i-1].at, seq[i].at) > MaxGapHours {
				parts = append(parts, current)
				current = nil
			}
			current = append(current, seq[i].row)
		}
		parts = append(parts, current)
	}
	return parts, nil
}

// GapHours returns the whole number of hours between two frames, truncated
func GapHours(prev, next time.Time) int64 {
	return int64(next.Sub(prev) / time.Hour)
}
