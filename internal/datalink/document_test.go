package datalink

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const linksDoc = `<?xml version="1.0"?>
<VOTABLE version="1.3">
  <RESOURCE type="results">
    <TABLE>
      <FIELD name="ID" datatype="char" arraysize="*"/>
      <FIELD name="access_url" datatype="char" arraysize="*"/>
      <FIELD name="service_def" datatype="char" arraysize="*"/>
      <FIELD name="error_message" datatype="char" arraysize="*"/>
      <FIELD name="semantics" datatype="char" arraysize="*"/>
      <DATA><TABLEDATA>
        <TR><TD>ivo://eso.org/ID?SPHER.2016-01-01T10:00:00.000</TD><TD>https://dataportal.eso.org/dataPortal/file/SPHER.2016-01-01T10:00:00.000</TD><TD/><TD/><TD>#this</TD></TR>
        <TR><TD>ivo://eso.org/ID?SPHER.2016-01-01T10:00:00.000</TD><TD>https://archive.eso.org/calselector/v1/associations?dp_id=SPHER.2016-01-01T10:00:00.000&amp;mode=Raw2Raw</TD><TD/><TD/><TD>http://archive.eso.org/rdf/datalink/eso#calSelector_raw2raw</TD></TR>
      </TABLEDATA></DATA>
    </TABLE>
  </RESOURCE>
</VOTABLE>`

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/links" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(linksDoc))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.Client(), rate.NewLimiter(rate.Inf, 1))

	doc, err := f.Fetch(context.Background(), srv.URL+"/links?ID=x")
	require.NoError(t, err)
	require.Len(t, doc.Links, 2)

	this, ok := doc.First(SemanticsThis)
	require.True(t, ok)
	assert.Equal(t, "https://dataportal.eso.org/dataPortal/file/SPHER.2016-01-01T10:00:00.000", this.AccessURL)

	cal, ok := doc.First(CalSelectorPrefix + "raw2raw")
	require.True(t, ok)
	assert.Contains(t, cal.AccessURL, "mode=Raw2Raw")

	_, ok = doc.First(SemanticsPreview)
	assert.False(t, ok)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)
}

func TestHTTPFetcher_LimiterHonoursContext(t *testing.T) {
	f := NewHTTPFetcher(http.DefaultClient, rate.NewLimiter(rate.Every(1<<62), 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "http://127.0.0.1:1/never")
	assert.Error(t, err)
}
