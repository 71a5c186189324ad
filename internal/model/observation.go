package model

import (
	"strconv"
	"strings"
)

// Mode selects the archive data tier being queried
type Mode int

const (
	// ModePhase3 queries processed products from ivoa.obscore
	ModePhase3 Mode = iota
	// ModeRaw queries raw science frames from dbo.raw
	ModeRaw
)

// String returns the suffix used for exports and log lines
func (m Mode) String() string {
	if m == ModeRaw {
		return "raw"
	}
	return "phase3"
}

// Column names referenced by the grouping and download logic
const (
	ColObject         = "object"
	ColRA             = "ra"
	ColDec            = "dec"
	ColProgID         = "prog_id"
	ColDateObs        = "date_obs"
	ColInstrument     = "instrument"
	ColReleaseDate    = "release_date"
	ColDatalinkURL    = "datalink_url"
	ColAccessURL      = "access_url"
	ColObsNight       = "obsnight"
	ColSRA            = "s_ra"
	ColSDec           = "s_dec"
	ColProposalID     = "proposal_id"
	ColInstrumentName = "instrument_name"
	ColObsID          = "obs_id"
	ColObsReleaseDate = "obs_release_date"
	ColNFiles         = "nfiles"
)

// RawKeywords are the columns selected from dbo.raw, in display order
var RawKeywords = []string{
	"object", "ra", "dec", "prog_id", "pi_coi", "date_obs",
	"instrument", "dp_tech", "dp_type", "filter_path",
	"ins_mode", "ob_id", "ob_name", "release_date", "tpl_id", "dp_id",
	"datalink_url", "access_url",
}

// Phase3Keywords are the columns selected from ivoa.obscore, in display order
var Phase3Keywords = []string{
	"target_name", "s_ra", "s_dec", "proposal_id", "obstech",
	"instrument_name", "obs_creator_name", "access_url",
	"filter", "dp_id", "dataproduct_type", "obs_id", "obs_release_date",
}

// IgnoredInfoKeys are not shown in the details panel
var IgnoredInfoKeys = map[string]bool{
	"tpl_id":       true,
	"release_date": true,
	"date_obs":     true,
	"datalink_url": true,
}

// Keywords returns the selected columns for the mode
func (m Mode) Keywords() []string {
	if m == ModeRaw {
		return RawKeywords
	}
	return Phase3Keywords
}

// SummaryKeys returns the keys summarised per group: the keywords plus the
// derived observing night for raw data
func (m Mode) SummaryKeys() []string {
	kw := append([]string(nil), m.Keywords()...)
	if m == ModeRaw {
		kw = append(kw, ColObsNight)
	}
	return kw
}

// DisplayColumns returns the table columns shown for the mode (without the hidden index)
func (m Mode) DisplayColumns() []string {
	if m == ModeRaw {
		return []string{"object", "instrument", "dp_tech", "prog_id", "obsnight",
			"release_date", "nfiles", "pi_coi"}
	}
	return []string{"target_name", "instrument_name", "obstech", "proposal_id",
		"nfiles", "obs_creator_name"}
}

// IsCoordinate reports whether a column holds a numeric coordinate that is
// summarised as a mean
func IsCoordinate(key string) bool {
	switch key {
	case ColRA, ColDec, ColSRA, ColSDec:
		return true
	}
	return false
}

// ArchiveRow is one record of a TAP result keyed by column name
type ArchiveRow map[string]string

// Get returns the value of a column, empty when absent
func (r ArchiveRow) Get(key string) string {
	return r[key]
}

// Has reports whether the column was part of the result
func (r ArchiveRow) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Clone returns an independent copy of the row
func (r ArchiveRow) Clone() ArchiveRow {
	c := make(ArchiveRow, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ObservationGroup aggregates archive rows sharing a grouping key
type ObservationGroup struct {
	NFiles int
	Fields map[string]string
	Rows   []ArchiveRow
}

// Value returns the summary of a field; nfiles is rendered from the count
func (g *ObservationGroup) Value(key string) string {
	if key == ColNFiles {
		return strconv.Itoa(g.NFiles)
	}
	return g.Fields[key]
}

// Lines splits a newline-joined summary into its distinct values
func (g *ObservationGroup) Lines(key string) []string {
	v := g.Fields[key]
	if v == "" {
		return nil
	}
	return strings.Split(v, "\n")
}

// CalSelector chooses which files accompany the science frames on download
type CalSelector string

const (
	SelectorScience     CalSelector = "sci"
	SelectorRawToRaw    CalSelector = "raw2raw"
	SelectorRawToMaster CalSelector = "raw2master"
)

// Label returns the human readable description used by the download dialog
func (s CalSelector) Label() string {
	switch s {
	case SelectorRawToRaw:
		return "Science and raw calibration files"
	case SelectorRawToMaster:
		return "Science and processed calibration files"
	default:
		return "Science files only"
	}
}

// CalSelectors lists selectors in dialog order
func CalSelectors() []CalSelector {
	return []CalSelector{SelectorScience, SelectorRawToRaw, SelectorRawToMaster}
}
