package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/daktela-extract/pkg/tablespec"
)

func mustSpec(t *testing.T, name string) tablespec.Spec {
	t.Helper()
	spec, err := tablespec.Default().Resolve(name)
	require.NoError(t, err)
	return spec
}

func TestCompoundKeyDeterministic(t *testing.T) {
	assert.Equal(t, CompoundKey("srv_a", "srv_b"), CompoundKey("srv_a", "srv_b"))
	assert.NotEqual(t, CompoundKey("srv_a"), CompoundKey("srv_b"))
	assert.NotEqual(t, CompoundKey("srv_a", ""), CompoundKey("srv_b", ""))
	assert.Len(t, CompoundKey("anything"), 32)
}

func TestTransformBasicRecord(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities"))

	rows := tr.Transform(RawRecord{
		"name":  "act1",
		"title": "Call A",
		"queue": map[string]interface{}{"name": "q1", "title": "Support"},
	}, "")
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "srv", row.Get("server"))
	assert.Equal(t, "srv_act1", row.Get("name"))
	assert.Equal(t, "srv_q1", row.Get("queue_name"))
	assert.Equal(t, "Support", row.Get("queue_title"))
	assert.Equal(t, "Call A", row.Get("title"))
	assert.Equal(t, CompoundKey("srv_act1"), row.Get("id"))

	// server and id lead the column order
	cols := row.Columns()
	require.GreaterOrEqual(t, len(cols), 2)
	assert.Equal(t, "server", cols[0])
	assert.Equal(t, "id", cols[1])
}

func TestTransformIsDeterministicAcrossRuns(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities"))
	raw := RawRecord{"name": "act1", "title": "A"}

	first := tr.Transform(raw, "")
	second := tr.Transform(raw, "")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Get("id"), second[0].Get("id"))
	assert.Equal(t, first[0].Columns(), second[0].Columns())
}

func TestTransformStripsHTML(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities"))

	rows := tr.Transform(RawRecord{
		"name":        "act1",
		"description": "<p>Hello <b>world</b></p>",
		"title":       "<br/>",
	}, "")
	require.Len(t, rows, 1)
	assert.Equal(t, "Hello world", rows[0].Get("description"))
	assert.Equal(t, "", rows[0].Get("title"))
}

func TestTransformMissingNaturalKeyDegradesToEmpty(t *testing.T) {
	tr := New("srv", mustSpec(t, "users_queues"))

	// Only one of the two natural key fields present: the missing one
	// contributes an empty string instead of failing.
	rows := tr.Transform(RawRecord{
		"user": map[string]interface{}{"name": "u1"},
	}, "")
	require.Len(t, rows, 1)
	assert.Equal(t, CompoundKey("srv_u1", ""), rows[0].Get("id"))
}

func TestTransformNoKeyFieldsYieldsEmptyID(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities"))

	rows := tr.Transform(RawRecord{"title": "orphan"}, "")
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Get("id"))
}

func TestTransformExplodesListColumns(t *testing.T) {
	tr := New("srv", mustSpec(t, "tickets"))

	rows := tr.Transform(RawRecord{
		"name": "t1",
		"tags": []interface{}{"vip", "callback"},
	}, "")
	require.Len(t, rows, 2)
	assert.Equal(t, "vip", rows[0].Get("tags"))
	assert.Equal(t, "callback", rows[1].Get("tags"))
	// Fanned-out rows keep the same compound id.
	assert.Equal(t, rows[0].Get("id"), rows[1].Get("id"))
}

func TestTransformExpandsListOfDictsColumns(t *testing.T) {
	tr := New("srv", mustSpec(t, "users"))

	rows := tr.Transform(RawRecord{
		"name": "u1",
		"groups": []interface{}{
			map[string]interface{}{"name": "g1", "title": "Agents"},
			map[string]interface{}{"name": "g2", "title": "Admins"},
		},
	}, "")
	require.Len(t, rows, 2)
	assert.Equal(t, "g1", rows[0].Get("groups_name"))
	assert.Equal(t, "Agents", rows[0].Get("groups_title"))
	assert.Equal(t, "g2", rows[1].Get("groups_name"))
	assert.False(t, rows[0].Has("groups"))
}

func TestTransformChildTableCarriesParentKey(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities_email"))
	parentKey := CompoundKey("srv_act1")

	rows := tr.Transform(RawRecord{
		"name":    "email1",
		"subject": "Hello",
	}, parentKey)
	require.Len(t, rows, 1)
	assert.Equal(t, parentKey, rows[0].Get("activities_id"))
	assert.Equal(t, "srv_email1", rows[0].Get("name"))
	assert.Equal(t, CompoundKey("srv_email1"), rows[0].Get("id"))
}

func TestTransformPassthroughKeepsAllFields(t *testing.T) {
	tr := New("srv", mustSpec(t, "foobar_custom"))

	rows := tr.Transform(RawRecord{
		"name":         "c1",
		"custom_field": "value",
		"nested":       map[string]interface{}{"deep": "x"},
	}, "")
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "srv", row.Get("server"))
	assert.Equal(t, "srv_c1", row.Get("name"))
	assert.Equal(t, CompoundKey("srv_c1"), row.Get("id"))
	assert.Equal(t, "value", row.Get("custom_field"))
	assert.Equal(t, "x", row.Get("nested_deep"))
}

func TestTransformStringifiesScalars(t *testing.T) {
	tr := New("srv", mustSpec(t, "foobar_custom"))

	rows := tr.Transform(RawRecord{
		"name":     "c1",
		"duration": float64(42),
		"ratio":    1.5,
		"active":   true,
		"missing":  nil,
	}, "")
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "42", row.Get("duration"))
	assert.Equal(t, "1.5", row.Get("ratio"))
	assert.Equal(t, "true", row.Get("active"))
	assert.Equal(t, "", row.Get("missing"))
}

func TestNaturalID(t *testing.T) {
	tr := New("srv", mustSpec(t, "activities"))
	assert.Equal(t, "act1", tr.NaturalID(RawRecord{"name": "act1"}))
	assert.Equal(t, "", tr.NaturalID(RawRecord{"title": "x"}))
}
