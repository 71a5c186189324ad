// Package votable decodes the VOTable documents returned by TAP services and
// datalink endpoints. Only the TABLEDATA serialization is supported.
package votable

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnsupportedSerialization is returned for BINARY, BINARY2 and FITS tables
var ErrUnsupportedSerialization = errors.New("votable: only TABLEDATA serialization is supported")

// ErrNoTable is returned when the document holds no results table
var ErrNoTable = errors.New("votable: no table in document")

// QueryError reports a QUERY_STATUS=ERROR info element
type QueryError struct {
	Message string
}

func (e *QueryError) Error() string {
	return "votable: query status ERROR: " + e.Message
}

type document struct {
	XMLName   xml.Name   `xml:"VOTABLE"`
	Infos     []info     `xml:"INFO"`
	Resources []resource `xml:"RESOURCE"`
}

type resource struct {
	Type      string     `xml:"type,attr"`
	Infos     []info     `xml:"INFO"`
	Tables    []table    `xml:"TABLE"`
	Resources []resource `xml:"RESOURCE"`
}

type info struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type field struct {
	Name string `xml:"name,attr"`
	ID   string `xml:"ID,attr"`
}

type table struct {
	Fields []field `xml:"FIELD"`
	Data   *struct {
		TableData *struct {
			Rows []struct {
				Cells []string `xml:"TD"`
			} `xml:"TR"`
		} `xml:"TABLEDATA"`
		Binary  *struct{} `xml:"BINARY"`
		Binary2 *struct{} `xml:"BINARY2"`
		Fits    *struct{} `xml:"FITS"`
	} `xml:"DATA"`
}

// Table is a decoded results table
type Table struct {
	Columns []string
	Rows    [][]string
}

// Decode reads the first results table of a VOTable document
func Decode(r io.Reader) (*Table, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("votable: decode: %w", err)
	}

	if err := statusError(doc.Infos); err != nil {
		return nil, err
	}

	res, tbl := findTable(doc.Resources)
	if res != nil {
		if err := statusError(res.Infos); err != nil {
			return nil, err
		}
	}
	if tbl == nil {
		return nil, ErrNoTable
	}

	out := &Table{Columns: make([]string, len(tbl.Fields))}
	for i, f := range tbl.Fields {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		out.Columns[i] = name
	}

	if tbl.Data == nil {
		return out, nil
	}
	if tbl.Data.TableData == nil {
		if tbl.Data.Binary != nil || tbl.Data.Binary2 != nil || tbl.Data.Fits != nil {
			return nil, ErrUnsupportedSerialization
		}
		return out, nil
	}

	for _, tr := range tbl.Data.TableData.Rows {
		row := make([]string, len(out.Columns))
		for i := 0; i < len(row) && i < len(tr.Cells); i++ {
			row[i] = strings.TrimSpace(tr.Cells[i])
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// findTable prefers a resource typed "results", falling back to the first table
func findTable(resources []resource) (*resource, *table) {
	var firstRes *resource
	var first *table
	var walk func(rs []resource) (*resource, *table)
	walk = func(rs []resource) (*resource, *table) {
		for i := range rs {
			r := &rs[i]
			if len(r.Tables) > 0 {
				if r.Type == "results" {
					return r, &r.Tables[0]
				}
				if first == nil {
					firstRes, first = r, &r.Tables[0]
				}
			}
			if res, t := walk(r.Resources); t != nil {
				return res, t
			}
		}
		return nil, nil
	}
	if res, t := walk(resources); t != nil {
		return res, t
	}
	return firstRes, first
}

func statusError(infos []info) error {
	for _, in := range infos {
		if in.Name == "QUERY_STATUS" && strings.EqualFold(in.Value, "ERROR") {
			return &QueryError{Message: strings.TrimSpace(in.Text)}
		}
	}
	return nil
}

// ColumnIndex returns the position of a column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Records returns each row as a column-name keyed map
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}
