package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/esoquery/esoquery/internal/grouping"
	"github.com/esoquery/esoquery/internal/logging"
	"github.com/esoquery/esoquery/internal/model"
)

// Result is the outcome of one archive search
type Result struct {
	Target string
	Mode   model.Mode
	Query  string
	Groups []*model.ObservationGroup
	NRows  int
}

// Options configures service endpoints; zero values select the public services
type Options struct {
	SesameURL string
	TokenURL  string
	TAPURL    string
	Client    *http.Client
}

// Service runs archive searches
type Service struct {
	names  *NameResolver
	tokens *TokenProvider
	tapURL string
	logger *zap.Logger

	// overridable for tests
	tapTiming func(*TAPClient) *TAPClient
}

// NewService creates the search service
func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		names:  NewNameResolver(opts.SesameURL, opts.Client),
		tokens: NewTokenProvider(opts.TokenURL, opts.Client, logger),
		tapURL: opts.TAPURL,
		logger: logger,
	}
}

// Tokens exposes the token provider so downloads can share the credentials flow
func (s *Service) Tokens() *TokenProvider {
	return s.tokens
}

// Query resolves the target, runs the ADQL query and groups the rows.
// An unresolved name returns ErrNameNotResolved; a remote failure is logged
// and yields an empty result with a nil error.
func (s *Service) Query(ctx context.Context, req Request) (*Result, error) {
	res := &Result{Target: req.Target, Mode: req.Mode}

	s.logger.Info(fmt.Sprintf("Getting the coordinates from CDS for: %s", req.Target), logging.Status())
	pos, err := s.names.Resolve(ctx, req.Target)
	if err != nil {
		if errors.Is(err, ErrNameNotResolved) {
			s.logger.Warn(fmt.Sprintf("Name %s not resolved in CDS. Stopping.", req.Target), logging.Status())
		} else {
			s.logger.Warn(fmt.Sprintf("Could not reach CDS for: %s", req.Target), logging.Status(), zap.Error(err))
		}
		return res, err
	}
	s.logger.Info(fmt.Sprintf("%s resolved in Simbad", req.Target),
		zap.Float64("ra", pos.RA), zap.Float64("dec", pos.Dec))

	query, err := BuildQuery(req, pos)
	if err != nil {
		s.logger.Warn("Cannot build the archive query", logging.Status(), zap.Error(err))
		return res, err
	}
	res.Query = query
	s.logger.Debug("adql", zap.String("query", query))

	client := s.tokens.Client(ctx, req.User, req.Password)
	tap := NewTAPClient(s.tapURL, client, s.logger)
	if s.tapTiming != nil {
		tap = s.tapTiming(tap)
	}

	s.logger.Info(fmt.Sprintf("Querying the ESO archive for: %s", req.Target), logging.Status())
	table, err := tap.Run(ctx, query)
	if err != nil {
		s.logger.Warn("archive query failed", zap.String("target", req.Target), zap.Error(err))
		s.logger.Info(fmt.Sprintf("No results for: %s", req.Target), logging.Status())
		return res, nil
	}

	records := table.Records()
	rows := make([]model.ArchiveRow, len(records))
	for i, r := range records {
		rows[i] = model.ArchiveRow(r)
	}
	res.NRows = len(rows)
	if len(rows) == 0 {
		s.logger.Info(fmt.Sprintf("No results for: %s", req.Target), logging.Status())
		return res, nil
	}

	groups, err := grouping.Group(req.Mode, rows)
	if err != nil {
		s.logger.Warn("Cannot group the archive results", logging.Status(), zap.Error(err))
		res.NRows = 0
		return res, err
	}
	res.Groups = groups

	s.logger.Info(fmt.Sprintf("Found %d entries for: %s (%d individual files)",
		len(groups), req.Target, len(rows)), logging.Status())
	return res, nil
}
