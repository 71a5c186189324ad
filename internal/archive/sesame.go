package archive

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSesameURL is the CDS Sesame endpoint returning plain-text records
const DefaultSesameURL = "http://cdsweb.u-strasbg.fr/cgi-bin/nph-sesame/-oI/"

// ErrNameNotResolved is returned when Sesame knows nothing about a name
var ErrNameNotResolved = errors.New("name not resolved")

// NameResolver turns object names into coordinates using CDS Sesame
type NameResolver struct {
	baseURL string
	client  *http.Client
}

// NewNameResolver creates a resolver; an empty baseURL selects DefaultSesameURL
func NewNameResolver(baseURL string, client *http.Client) *NameResolver {
	if baseURL == "" {
		baseURL = DefaultSesameURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &NameResolver{baseURL: baseURL, client: client}
}

// Resolve looks up a target name
func (r *NameResolver) Resolve(ctx context.Context, name string) (Coordinates, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Coordinates{}, ErrNameNotResolved
	}

	// Sesame wants %20 for spaces, not '+'
	q := strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+q, nil)
	if err != nil {
		return Coordinates{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return Coordinates{}, fmt.Errorf("sesame: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, fmt.Errorf("sesame: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("sesame: %w", err)
	}
	return ParseSesame(body)
}

// ParseSesame extracts the J2000 position from a Sesame -oI response
func ParseSesame(body []byte) (Coordinates, error) {
	if bytes.Contains(body, []byte("Nothing found")) {
		return Coordinates{}, ErrNameNotResolved
	}

	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 || fields[0] != "%J" {
			continue
		}
		ra, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Coordinates{}, fmt.Errorf("%w: bad ra %q", ErrNameNotResolved, fields[1])
		}
		dec, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return Coordinates{}, fmt.Errorf("%w: bad dec %q", ErrNameNotResolved, fields[2])
		}
		return Coordinates{RA: ra, Dec: dec}, nil
	}
	return Coordinates{}, ErrNameNotResolved
}
