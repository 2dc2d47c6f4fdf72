// Package transform flattens and normalizes raw Daktela API records into
// output rows: nested objects are flattened, configured columns selected,
// list columns exploded, HTML stripped, the server identity prefixed onto
// key columns, and a deterministic compound id derived from the natural
// key fields. Pure functions, no I/O.
package transform

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/ajitpratap0/daktela-extract/pkg/tablespec"
)

var htmlTags = regexp.MustCompile(`<.*?>`)

// Transformer converts raw records of one table into output rows for one
// server instance.
type Transformer struct {
	server string
	spec   tablespec.Spec

	columns    []string
	prefixCols map[string]bool
	keyCols    []string
}

// New creates a transformer for the given server and table spec.
func New(server string, spec tablespec.Spec) *Transformer {
	t := &Transformer{
		server:     server,
		spec:       spec,
		prefixCols: make(map[string]bool),
	}

	for _, col := range spec.Columns {
		t.columns = append(t.columns, normalizeColumn(col))
	}

	noPrefix := make(map[string]bool, len(spec.NoPrefixColumns))
	for _, col := range spec.NoPrefixColumns {
		noPrefix[normalizeColumn(col)] = true
	}
	for _, col := range append(append(append([]string{}, spec.PrimaryKeys...), spec.SecondaryKeys...), spec.Keys...) {
		normalized := normalizeColumn(col)
		if !noPrefix[normalized] {
			t.prefixCols[normalized] = true
		}
	}

	for _, col := range append(append([]string{}, spec.PrimaryKeys...), spec.SecondaryKeys...) {
		t.keyCols = append(t.keyCols, normalizeColumn(col))
	}

	return t
}

// Transform converts one raw record into output rows. List-column explosion
// can fan a single record out into several rows. For child tables parentKey
// carries the parent record's compound id and lands in the foreign-key
// column `{parent}_id`.
func (t *Transformer) Transform(raw RawRecord, parentKey string) []*Row {
	flat := make(map[string]interface{})
	flatten("", map[string]interface{}(raw), flat)

	flat = t.selectColumns(flat)

	records := t.explodeListColumns([]map[string]interface{}{flat})
	records = t.expandListOfDictsColumns(records)

	rows := make([]*Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, t.buildRow(rec, parentKey))
	}
	return rows
}

// NaturalID returns the raw (unprefixed) value of the table's first primary
// key field, used to drive child-table fan-out.
func (t *Transformer) NaturalID(raw RawRecord) string {
	if len(t.spec.PrimaryKeys) == 0 {
		return ""
	}
	flat := make(map[string]interface{})
	flatten("", map[string]interface{}(raw), flat)
	return stringify(flat[normalizeColumn(t.spec.PrimaryKeys[0])])
}

func (t *Transformer) buildRow(rec map[string]interface{}, parentKey string) *Row {
	values := make(map[string]string, len(rec)+3)
	for col, v := range rec {
		values[col] = cleanHTML(stringify(v))
	}

	// Server prefix on key columns for multi-instance disambiguation.
	for col := range t.prefixCols {
		if v, ok := values[col]; ok && v != "" {
			values[col] = t.server + "_" + v
		}
	}

	row := NewRow()
	row.Set("server", t.server)
	row.Set("id", t.compoundID(values))
	if t.spec.IsChild() {
		row.Set(t.spec.ParentTable()+"_id", parentKey)
	}

	// Configured columns first, in spec order; anything else (exploded
	// sub-fields, passthrough fields) follows sorted for determinism.
	emitted := make(map[string]bool, len(values))
	for _, col := range t.columns {
		if v, ok := values[col]; ok {
			row.Set(col, v)
			emitted[col] = true
		}
	}
	rest := make([]string, 0, len(values))
	for col := range values {
		if !emitted[col] && !row.Has(col) {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)
	for _, col := range rest {
		row.Set(col, values[col])
	}

	return row
}

func (t *Transformer) compoundID(values map[string]string) string {
	keyValues := make([]string, 0, len(t.keyCols))
	present := false
	for _, col := range t.keyCols {
		if v, ok := values[col]; ok {
			keyValues = append(keyValues, v)
			present = true
		} else {
			keyValues = append(keyValues, "")
		}
	}
	if !present {
		return ""
	}
	return CompoundKey(keyValues...)
}

func (t *Transformer) selectColumns(flat map[string]interface{}) map[string]interface{} {
	if len(t.columns) == 0 {
		return flat
	}

	selected := make(map[string]interface{}, len(t.columns))
	for _, col := range t.columns {
		if v, ok := flat[col]; ok {
			selected[col] = v
		}
	}
	// A record with none of the configured columns is kept whole rather
	// than reduced to nothing (sparse custom entities).
	if len(selected) == 0 {
		return flat
	}
	return selected
}

func (t *Transformer) explodeListColumns(records []map[string]interface{}) []map[string]interface{} {
	for _, col := range t.spec.ListColumns {
		normalized := normalizeColumn(col)
		var next []map[string]interface{}
		for _, rec := range records {
			list, ok := rec[normalized].([]interface{})
			if !ok || len(list) == 0 {
				next = append(next, rec)
				continue
			}
			for _, elem := range list {
				clone := cloneRecord(rec)
				if m, ok := elem.(map[string]interface{}); ok {
					delete(clone, normalized)
					flatten(normalized, m, clone)
				} else {
					clone[normalized] = elem
				}
				next = append(next, clone)
			}
		}
		records = next
	}
	return records
}

func (t *Transformer) expandListOfDictsColumns(records []map[string]interface{}) []map[string]interface{} {
	for _, col := range t.spec.ListOfDictsColumns {
		normalized := normalizeColumn(col)
		var next []map[string]interface{}
		for _, rec := range records {
			list, ok := rec[normalized].([]interface{})
			if !ok || len(list) == 0 {
				delete(rec, normalized)
				next = append(next, rec)
				continue
			}
			for _, elem := range list {
				clone := cloneRecord(rec)
				delete(clone, normalized)
				if m, ok := elem.(map[string]interface{}); ok {
					for k, v := range m {
						clone[normalized+"_"+normalizeColumn(k)] = v
					}
				} else {
					clone[normalized] = elem
				}
				next = append(next, clone)
			}
		}
		records = next
	}
	return records
}

// flatten merges nested objects into the output map, joining path segments
// with underscores (queue.name -> queue_name).
func flatten(prefix string, value map[string]interface{}, out map[string]interface{}) {
	for k, v := range value {
		key := normalizeColumn(k)
		if prefix != "" {
			key = prefix + "_" + key
		}
		if nested, ok := v.(map[string]interface{}); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}

func normalizeColumn(col string) string {
	return strings.ReplaceAll(col, ".", "_")
}

func cloneRecord(rec map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(rec))
	for k, v := range rec {
		clone[k] = v
	}
	return clone
}

func cleanHTML(value string) string {
	if !strings.Contains(value, "<") {
		return value
	}
	return strings.TrimSpace(htmlTags.ReplaceAllString(value, ""))
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
