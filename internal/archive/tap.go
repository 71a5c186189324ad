package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/esoquery/esoquery/internal/votable"
)

// DefaultTAPURL is the ESO observation TAP service
const DefaultTAPURL = "http://archive.eso.org/tap_obs"

const (
	// ExecutionDuration is the server-side run limit requested for each job, in seconds
	ExecutionDuration = 300
	// JobTimeout bounds the client-side wait for a job to finish
	JobTimeout = 600 * time.Second
	// PollInterval is the delay between phase checks
	PollInterval = 2 * time.Second
)

// UWS job phases
const (
	PhaseCompleted = "COMPLETED"
	PhaseError     = "ERROR"
	PhaseAborted   = "ABORTED"
)

// ErrJobFailed is returned when a job ends in any phase but COMPLETED
var ErrJobFailed = errors.New("tap job failed")

// TAPClient runs ADQL queries as asynchronous UWS jobs
type TAPClient struct {
	baseURL      string
	client       *http.Client
	logger       *zap.Logger
	pollInterval time.Duration
	timeout      time.Duration
}

// NewTAPClient creates a client; an empty baseURL selects DefaultTAPURL
func NewTAPClient(baseURL string, client *http.Client, logger *zap.Logger) *TAPClient {
	if baseURL == "" {
		baseURL = DefaultTAPURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TAPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       client,
		logger:       logger,
		pollInterval: PollInterval,
		timeout:      JobTimeout,
	}
}

// WithTiming overrides poll interval and job timeout
func (c *TAPClient) WithTiming(poll, timeout time.Duration) *TAPClient {
	cp := *c
	cp.pollInterval = poll
	cp.timeout = timeout
	return &cp
}

// Run submits the query, waits for the job and returns its result table.
// The job is deleted on the server whatever the outcome.
func (c *TAPClient) Run(ctx context.Context, adql string) (*votable.Table, error) {
	jobURL, err := c.createJob(ctx, adql)
	if err != nil {
		return nil, err
	}
	jobID := lastSegment(jobURL)
	log := c.logger.With(zap.String("job", jobID))
	log.Debug("job created")
	defer c.deleteJob(jobURL, log)

	if err := c.post(ctx, jobURL+"/executionduration", url.Values{"EXECUTIONDURATION": {strconv.Itoa(ExecutionDuration)}}); err != nil {
		log.Warn("could not set execution duration", zap.Error(err))
	}
	if err := c.post(ctx, jobURL+"/phase", url.Values{"PHASE": {"RUN"}}); err != nil {
		return nil, fmt.Errorf("start job %s: %w", jobID, err)
	}

	phase, err := c.wait(ctx, jobURL)
	if err != nil {
		log.Warn("Exception on JOB id", zap.Error(err))
		return nil, fmt.Errorf("%w: job %s: %v", ErrJobFailed, jobID, err)
	}
	if phase != PhaseCompleted {
		return nil, fmt.Errorf("%w: job %s ended in phase %s", ErrJobFailed, jobID, phase)
	}
	return c.fetchResult(ctx, jobURL)
}

// noRedirect returns a copy of the client that reports redirects instead of following them
func (c *TAPClient) noRedirect() *http.Client {
	cp := *c.client
	cp.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &cp
}

func (c *TAPClient) createJob(ctx context.Context, adql string) (string, error) {
	form := url.Values{
		"REQUEST": {"doQuery"},
		"LANG":    {"ADQL"},
		"QUERY":   {adql},
	}
	req, err := newFormRequest(ctx, c.baseURL+"/async", form)
	if err != nil {
		return "", err
	}
	resp, err := c.noRedirect().Do(req)
	if err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	defer drain(resp)

	loc := resp.Header.Get("Location")
	if resp.StatusCode >= 400 || loc == "" {
		return "", fmt.Errorf("create job: unexpected response %s", resp.Status)
	}
	u, err := req.URL.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("create job: bad location %q: %w", loc, err)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func (c *TAPClient) post(ctx context.Context, target string, form url.Values) error {
	req, err := newFormRequest(ctx, target, form)
	if err != nil {
		return err
	}
	resp, err := c.noRedirect().Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func (c *TAPClient) wait(ctx context.Context, jobURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		phase, err := c.phase(ctx, jobURL)
		if err != nil {
			return "", err
		}
		switch phase {
		case PhaseCompleted, PhaseError, PhaseAborted:
			return phase, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *TAPClient) phase(ctx context.Context, jobURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL+"/phase", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("phase: unexpected status %s", resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(string(b))), nil
}

func (c *TAPClient) fetchResult(ctx context.Context, jobURL string) (*votable.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jobURL+"/results/result", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch result: unexpected status %s", resp.Status)
	}
	return votable.Decode(resp.Body)
}

func (c *TAPClient) deleteJob(jobURL string, log *zap.Logger) {
	// the caller's context may already be done
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, jobURL, nil)
	if err != nil {
		return
	}
	resp, err := c.noRedirect().Do(req)
	if err != nil {
		log.Debug("could not delete job", zap.Error(err))
		return
	}
	drain(resp)
}

func newFormRequest(ctx context.Context, target string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// lastSegment returns the last segment of a job URL, which is the job id
func lastSegment(jobURL string) string {
	if i := strings.LastIndex(jobURL, "/"); i >= 0 {
		return jobURL[i+1:]
	}
	return jobURL
}
