package lrc

import (
	"context"
	"strconv"
	"strings"
)

// Field names a column of a scheme record.
type Field string

const (
	FieldGroups  Field = "groups"
	FieldLength  Field = "length"
	FieldDisks   Field = "disks"
	FieldGlobalS Field = "global_s"
	FieldScheme  Field = "scheme"
)

// RecordColumns is the column order of a scheme record, as stored in schemes.csv.
var RecordColumns = []Field{FieldGroups, FieldLength, FieldDisks, FieldGlobalS, FieldScheme}

// Record is one brute-force discovered scheme together with the configuration it was searched for.
type Record struct {
	Groups  int    `json:"groups"`
	Length  int    `json:"length"`
	Disks   int    `json:"disks"`
	GlobalS int    `json:"global_s"`
	Scheme  string `json:"scheme"`
}

// Value returns the integer value of a configuration field. Unknown fields read as 0.
func (r Record) Value(f Field) int {
	switch f {
	case FieldGroups:
		return r.Groups
	case FieldLength:
		return r.Length
	case FieldDisks:
		return r.Disks
	case FieldGlobalS:
		return r.GlobalS
	}
	return 0
}

// ToMap returns the record as a map keyed by field name.
func (r Record) ToMap() map[string]any {
	return map[string]any{
		string(FieldGroups):  r.Groups,
		string(FieldLength):  r.Length,
		string(FieldDisks):   r.Disks,
		string(FieldGlobalS): r.GlobalS,
		string(FieldScheme):  r.Scheme,
	}
}

// Fields returns the record values in RecordColumns order.
func (r Record) Fields() []string {
	return []string{
		strconv.Itoa(r.Groups),
		strconv.Itoa(r.Length),
		strconv.Itoa(r.Disks),
		strconv.Itoa(r.GlobalS),
		r.Scheme,
	}
}

// RecordFromFields parses values in RecordColumns order. Numeric columns that are missing or
// don't parse read as 0, the scheme column is trimmed.
func RecordFromFields(fields []string) Record {
	num := func(i int) int {
		if i >= len(fields) {
			return 0
		}
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return 0
		}
		return v
	}
	r := Record{
		Groups:  num(0),
		Length:  num(1),
		Disks:   num(2),
		GlobalS: num(3),
	}
	if len(fields) > 4 {
		r.Scheme = strings.TrimSpace(fields[4])
	}
	return r
}

// Query lists the configuration fields a record must match. Fields absent from the query
// are not compared.
type Query map[Field]int

// NewQuery returns a query on all four configuration fields.
func NewQuery(groups, length, disks, globalS int) Query {
	return Query{
		FieldGroups:  groups,
		FieldLength:  length,
		FieldDisks:   disks,
		FieldGlobalS: globalS,
	}
}

// ToMap returns the query as a map keyed by field name.
func (q Query) ToMap() map[string]any {
	m := make(map[string]any, len(q))
	for k, v := range q {
		m[string(k)] = v
	}
	return m
}

// Matcher decides whether a record satisfies a query.
type Matcher interface {
	Match(r Record, q Query) (bool, error)
}

type fieldMatcher struct{}

// NewFieldMatcher returns the default matcher: every query field must equal the record's.
func NewFieldMatcher() Matcher {
	return fieldMatcher{}
}

func (fieldMatcher) Match(r Record, q Query) (bool, error) {
	for f, v := range q {
		if r.Value(f) != v {
			return false, nil
		}
	}
	return true, nil
}

// FirstMatch scans records in order and returns the first one matching q.
func FirstMatch(records []Record, q Query, m Matcher) (Record, bool, error) {
	if m == nil {
		m = NewFieldMatcher()
	}
	for _, r := range records {
		ok, err := m.Match(r, q)
		if err != nil {
			return Record{}, false, err
		}
		if ok {
			return r, true, nil
		}
	}
	return Record{}, false, nil
}

// SchemeRepository is the append-only memo of previously discovered schemes.
type SchemeRepository interface {
	// Lookup scans the records in insertion order and returns the first one matching q.
	Lookup(ctx context.Context, q Query) (Record, bool, error)
	// Add appends a record. No dedup check is done.
	Add(ctx context.Context, r Record) error
}

// CloseableSchemeRepository is a repository owning a connection or file handle.
type CloseableSchemeRepository interface {
	SchemeRepository
	Close() error
}
