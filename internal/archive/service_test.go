package archive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/esoquery/esoquery/internal/grouping"
	"github.com/esoquery/esoquery/internal/model"
)

var rawCols = []string{"object", "ra", "dec", "prog_id", "date_obs", "instrument", "release_date", "datalink_url", "access_url"}

func rawRecord(inst, dateObs string) []string {
	return []string{"HD 61005", "116.4812", "-32.2050", "098.C-0123(A)", dateObs, inst,
		"2017-09-01T00:00:00Z", "https://archive.eso.org/datalink/links?ID=" + dateObs,
		"https://dataportal.eso.org/dataPortal/file/" + dateObs}
}

func newTestService(t *testing.T, tapResult string) (*Service, *fakeUWS, *observer.ObservedLogs) {
	t.Helper()
	f := &fakeUWS{finalPhase: PhaseCompleted, result: tapResult}
	mux := http.NewServeMux()
	f.register(mux)
	mux.HandleFunc("/sesame/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "61005") {
			_, _ = w.Write([]byte(sesameFound))
			return
		}
		_, _ = w.Write([]byte(sesameMissing))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	core, logs := observer.New(zap.DebugLevel)
	svc := NewService(Options{
		SesameURL: srv.URL + "/sesame/",
		TokenURL:  srv.URL + "/token",
		TAPURL:    srv.URL + "/tap",
		Client:    srv.Client(),
	}, zap.New(core))
	svc.tapTiming = func(c *TAPClient) *TAPClient {
		return c.WithTiming(time.Millisecond, time.Second)
	}
	return svc, f, logs
}

func messages(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		out = append(out, e.Message)
	}
	return out
}

func TestService_QueryRaw(t *testing.T) {
	doc := votableDoc(rawCols, [][]string{
		rawRecord("SPHERE", "2016-01-01T10:00:00"),
		rawRecord("SPHERE", "2016-01-01T10:30:00"),
		rawRecord("SPHERE", "2016-01-01T14:00:00"),
	})
	svc, f, logs := newTestService(t, doc)

	res, err := svc.Query(context.Background(), Request{
		Target:     "HD 61005",
		Mode:       model.ModeRaw,
		Instrument: "SPHERE",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.NRows)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, 2, res.Groups[0].NFiles)
	assert.Contains(t, f.query, "instrument like 'SPHERE%'")
	assert.Equal(t, "", f.auth)

	msgs := messages(logs)
	assert.Contains(t, msgs, "Not logged in the ESO Archive. Will continue anonymously.")
	assert.Contains(t, msgs, "Found 2 entries for: HD 61005 (3 individual files)")
}

func TestService_QueryNameNotResolved(t *testing.T) {
	svc, f, logs := newTestService(t, "")

	res, err := svc.Query(context.Background(), Request{Target: "nosuchthing", Mode: model.ModePhase3})
	assert.ErrorIs(t, err, ErrNameNotResolved)
	assert.Empty(t, res.Groups)
	assert.Empty(t, f.query)
	assert.Contains(t, messages(logs), "Name nosuchthing not resolved in CDS. Stopping.")
}

func TestService_QueryRemoteFailureYieldsNoGroups(t *testing.T) {
	svc, f, logs := newTestService(t, "")
	f.finalPhase = PhaseError

	res, err := svc.Query(context.Background(), Request{Target: "HD 61005", Mode: model.ModePhase3})
	require.NoError(t, err)
	assert.Empty(t, res.Groups)
	assert.Contains(t, messages(logs), "No results for: HD 61005")
}

func TestService_QueryBadTimestamp(t *testing.T) {
	doc := votableDoc(rawCols, [][]string{
		rawRecord("SPHERE", "2016-01-01T10:00:00"),
		rawRecord("SPHERE", "yesterday"),
	})
	svc, _, _ := newTestService(t, doc)

	res, err := svc.Query(context.Background(), Request{Target: "HD 61005", Mode: model.ModeRaw, Instrument: "SPHERE"})
	assert.ErrorIs(t, err, grouping.ErrBadTimestamp)
	assert.Empty(t, res.Groups)
}
