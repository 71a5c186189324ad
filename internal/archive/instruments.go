package archive

import (
	"fmt"
	"strings"
)

// MatchKind tells how an instrument id selects archive instrument names
type MatchKind int

const (
	// MatchPrefix selects names starting with any of the values
	MatchPrefix MatchKind = iota
	// MatchSet selects names equal to one of the values
	MatchSet
)

// Matcher selects the archive instrument names belonging to an instrument id
type Matcher struct {
	Kind   MatchKind
	Values []string
}

// Instrument ids whose archive names differ from the id itself
var instrumentMatchers = map[string]Matcher{
	"APEX":      {Kind: MatchSet, Values: []string{"APEXBOL", "APEXHET"}},
	"CRIRES":    {Kind: MatchPrefix, Values: []string{"CRIRE"}},
	"EFOSC2":    {Kind: MatchPrefix, Values: []string{"EFOSC"}},
	"FORS1/2":   {Kind: MatchSet, Values: []string{"FORS1", "FORS2"}},
	"GIRAFFE":   {Kind: MatchPrefix, Values: []string{"GIRAF"}},
	"NACO":      {Kind: MatchPrefix, Values: []string{"NAOS+CONICA"}},
	"SINFONI":   {Kind: MatchPrefix, Values: []string{"SINFO"}},
	"SPECULOOS": {Kind: MatchPrefix, Values: []string{"SPECU"}},
	"TIMMI2":    {Kind: MatchPrefix, Values: []string{"TIMMI"}},
	"XSHOOTER":  {Kind: MatchSet, Values: []string{"SHOOT", "XSHOOTER"}},
}

// MatcherFor returns the matcher of an instrument id; ids without an entry
// match archive names starting with the id
func MatcherFor(inst string) Matcher {
	if m, ok := instrumentMatchers[inst]; ok {
		return m
	}
	return Matcher{Kind: MatchPrefix, Values: []string{inst}}
}

// Matches reports whether an archive instrument name belongs to the matcher
func (m Matcher) Matches(name string) bool {
	for _, v := range m.Values {
		switch m.Kind {
		case MatchSet:
			if name == v {
				return true
			}
		case MatchPrefix:
			if strings.HasPrefix(name, v) {
				return true
			}
		}
	}
	return false
}

// Predicate renders the ADQL condition on column, e.g. "instrument like 'SPHERE%'"
func (m Matcher) Predicate(column string) string {
	switch m.Kind {
	case MatchSet:
		quoted := make([]string, len(m.Values))
		for i, v := range m.Values {
			quoted[i] = quote(v)
		}
		return fmt.Sprintf("%s in (%s)", column, strings.Join(quoted, ", "))
	default:
		parts := make([]string, len(m.Values))
		for i, v := range m.Values {
			parts[i] = fmt.Sprintf("%s like %s", column, quote(v+"%"))
		}
		return strings.Join(parts, " or ")
	}
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
