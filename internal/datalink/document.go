package datalink

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/esoquery/esoquery/internal/votable"
)

// Semantics tags used by the ESO datalink service
const (
	SemanticsThis        = "#this"
	SemanticsPreview     = "#preview"
	SemanticsCalibration = "#calibration"

	// CalSelectorPrefix is followed by the selector name, e.g. raw2raw
	CalSelectorPrefix = "http://archive.eso.org/rdf/datalink/eso#calSelector_"
)

// Link is one row of a datalink document
type Link struct {
	Semantics    string
	AccessURL    string
	ErrorMessage string
}

// Document is a decoded datalink response
type Document struct {
	Links []Link
}

// First returns the first link with the given semantics
func (d *Document) First(semantics string) (Link, bool) {
	for _, l := range d.Links {
		if l.Semantics == semantics {
			return l, true
		}
	}
	return Link{}, false
}

// All returns every link with the given semantics, in document order
func (d *Document) All(semantics string) []Link {
	var out []Link
	for _, l := range d.Links {
		if l.Semantics == semantics {
			out = append(out, l)
		}
	}
	return out
}

// FromTable maps a decoded VOTable onto links
func FromTable(t *votable.Table) *Document {
	sem, acc, msg := t.ColumnIndex("semantics"), t.ColumnIndex("access_url"), t.ColumnIndex("error_message")
	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return row[i]
	}
	doc := &Document{Links: make([]Link, 0, len(t.Rows))}
	for _, row := range t.Rows {
		doc.Links = append(doc.Links, Link{
			Semantics:    cell(row, sem),
			AccessURL:    cell(row, acc),
			ErrorMessage: cell(row, msg),
		})
	}
	return doc
}

// Fetcher retrieves datalink documents
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Document, error)
}

// HTTPFetcher fetches documents over HTTP, paced by a rate limiter
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// DefaultLimit paces datalink requests to the archive
var DefaultLimit = rate.Limit(5)

// NewHTTPFetcher creates a fetcher; a nil limiter selects DefaultLimit
func NewHTTPFetcher(client *http.Client, limiter *rate.Limiter) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultLimit, 1)
	}
	return &HTTPFetcher{client: client, limiter: limiter}
}

// Fetch downloads and decodes one datalink document
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("datalink %s: unexpected status %s", url, resp.Status)
	}
	t, err := votable.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("datalink %s: %w", url, err)
	}
	return FromTable(t), nil
}
