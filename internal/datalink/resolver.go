package datalink

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/esoquery/esoquery/internal/logging"
	"github.com/esoquery/esoquery/internal/model"
)

// Diagnostics emitted while resolving
const (
	MsgNoCalibrations = "No calibration files were found."
	MsgALMA           = "Downloading of ALMA data is not yet supported."
)

// Resolver decides which files belong to a download request
type Resolver struct {
	fetcher Fetcher
	logger  *zap.Logger
	onSkip  func(url, reason string)
}

// NewResolver creates a resolver
func NewResolver(fetcher Fetcher, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, logger: logger}
}

// SetSkipCallback sets the function told about URLs left out on purpose
func (r *Resolver) SetSkipCallback(callback func(url, reason string)) {
	r.onSkip = callback
}

// Resolve returns the sorted, de-duplicated URLs to download for a
// selection. accessURLs and datalinkURLs are never modified.
func (r *Resolver) Resolve(ctx context.Context, mode model.Mode, selector model.CalSelector, accessURLs, datalinkURLs []string) []string {
	if mode != model.ModeRaw {
		return r.ScienceProducts(ctx, accessURLs)
	}
	if selector == model.SelectorScience || selector == "" {
		return Unique(accessURLs)
	}
	return r.WithCalibrations(ctx, selector, accessURLs, datalinkURLs)
}

// ScienceProducts follows each processed product's datalink document and
// keeps the product itself and its preview.
func (r *Resolver) ScienceProducts(ctx context.Context, accessURLs []string) []string {
	var out []string
	for _, u := range accessURLs {
		if strings.Contains(u, "almascience") {
			r.logger.Info(MsgALMA, logging.Status(), zap.String("url", u))
			if r.onSkip != nil {
				r.onSkip(u, MsgALMA)
			}
			continue
		}
		doc, err := r.fetcher.Fetch(ctx, u)
		if err != nil {
			r.logger.Warn("Could not read datalink", zap.String("url", u), zap.Error(err))
			continue
		}
		for _, sem := range []string{SemanticsThis, SemanticsPreview} {
			if l, ok := doc.First(sem); ok && l.AccessURL != "" {
				out = append(out, l.AccessURL)
			}
		}
	}
	return Unique(out)
}

// WithCalibrations adds the calibration cascade of every raw frame to the
// science frames. When no frame has a cascade the science frames are
// returned alone and one diagnostic is logged.
func (r *Resolver) WithCalibrations(ctx context.Context, selector model.CalSelector, accessURLs, datalinkURLs []string) []string {
	semantics := CalSelectorPrefix + string(selector)
	out := append([]string(nil), accessURLs...)
	found := false

	for _, u := range datalinkURLs {
		doc, err := r.fetcher.Fetch(ctx, u)
		if err != nil {
			r.logger.Warn("Could not read datalink", zap.String("url", u), zap.Error(err))
			continue
		}
		entry, ok := doc.First(semantics)
		if !ok || entry.AccessURL == "" {
			continue
		}
		found = true

		cascade, err := r.fetcher.Fetch(ctx, entry.AccessURL)
		if err != nil {
			r.logger.Warn("Could not read calibration cascade", zap.String("url", entry.AccessURL), zap.Error(err))
			continue
		}
		for _, l := range cascade.All(SemanticsCalibration) {
			if l.AccessURL != "" {
				out = append(out, l.AccessURL)
			}
		}
	}

	if !found {
		r.logger.Info(MsgNoCalibrations, logging.Status())
	}
	return Unique(out)
}

// Unique returns a new sorted slice without duplicates or empty entries
func Unique(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
