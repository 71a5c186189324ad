package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/esoquery/esoquery/internal/model"
)

// Search cone radius in degrees (20 arcsec)
const SearchRadius = "20./3600."

// ErrNoInstrument is returned for raw queries without an instrument to match
var ErrNoInstrument = errors.New("no instrument selected")

// Request carries everything a query needs; it is copied into the worker
type Request struct {
	Target     string
	Mode       model.Mode
	Instrument string   // raw mode: an instrument id or model.AllFavorites
	Favorites  []string // raw mode: ids queried for model.AllFavorites
	User       string
	Password   string
}

// Coordinates are ICRS decimal degrees as returned by the name resolver
type Coordinates struct {
	RA  float64
	Dec float64
}

// BuildQuery renders the ADQL for a request around the resolved position
func BuildQuery(req Request, pos Coordinates) (string, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(req.Mode.Keywords(), ", "))
	b.WriteString(" ")

	ra := strconv.FormatFloat(pos.RA, 'f', -1, 64)
	dec := strconv.FormatFloat(pos.Dec, 'f', -1, 64)

	if req.Mode != model.ModeRaw {
		b.WriteString("from ivoa.obscore where ")
		fmt.Fprintf(&b, "intersects(circle('J2000',%s,%s, %s),s_region)=1", ra, dec, SearchRadius)
		return b.String(), nil
	}

	cond, err := instrumentCondition(req)
	if err != nil {
		return "", err
	}
	b.WriteString("from dbo.raw where ")
	b.WriteString(cond)
	b.WriteString(" and dp_cat='SCIENCE' and ")
	fmt.Fprintf(&b, "contains(point('', ra, dec), circle('J2000',%s, %s, %s))=1 ", ra, dec, SearchRadius)
	b.WriteString("AND dec BETWEEN -90 and 90")
	return b.String(), nil
}

func instrumentCondition(req Request) (string, error) {
	if req.Instrument == "" {
		return "", ErrNoInstrument
	}
	if req.Instrument != model.AllFavorites {
		return "(" + MatcherFor(req.Instrument).Predicate(model.ColInstrument) + ")", nil
	}
	if len(req.Favorites) == 0 {
		return "", ErrNoInstrument
	}
	parts := make([]string, len(req.Favorites))
	for i, inst := range req.Favorites {
		parts[i] = MatcherFor(inst).Predicate(model.ColInstrument)
	}
	return "(" + strings.Join(parts, " or ") + ")", nil
}
