package frame

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timeSeries(t *testing.T) *Frame {
	t.Helper()
	f := New("date", "Python", "Data Science")
	require.NoError(t, f.AppendRow("2024-01-01T00:00:00Z", 40, 12))
	require.NoError(t, f.AppendRow("2024-01-08T00:00:00Z", 55, 0))
	require.NoError(t, f.AppendRow("2024-01-15T00:00:00Z", 100, 31))
	return f
}

func regions(t *testing.T) *Frame {
	t.Helper()
	f := New("geoName", "Python")
	rows := []struct {
		name  string
		value int
	}{
		{"Nigeria", 35},
		{"India", 100},
		{"Kenya", 19},
		{"Ghana", 35},
		{"Chile", 20},
		{"Peru", 0},
	}
	for _, r := range rows {
		require.NoError(t, f.AppendRow(r.name, r.value))
	}
	return f
}

func TestFrame_AppendRowRejectsWrongWidth(t *testing.T) {
	f := New("date", "a", "b")
	err := f.AppendRow("x", 1)
	assert.Error(t, err)
	assert.Equal(t, 0, f.Len())
}

func TestFrame_Empty(t *testing.T) {
	var nilFrame *Frame
	assert.True(t, nilFrame.Empty())
	assert.True(t, New("date", "a").Empty())
	assert.True(t, New("date").Empty())
	assert.False(t, timeSeries(t).Empty())
}

func TestFrame_DropKeepsOrder(t *testing.T) {
	f := New("date", "a", "isPartial", "b")
	require.NoError(t, f.AppendRow("d1", 1, 0, 2))
	require.NoError(t, f.AppendRow("d2", 3, 1, 4))

	out := f.Drop("isPartial", "missing")

	assert.Equal(t, []string{"a", "b"}, out.Columns)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}}, out.Data)
	assert.Equal(t, []string{"a", "isPartial", "b"}, f.Columns, "source frame must not change")
}

func TestFrame_FilterSortHead(t *testing.T) {
	f := regions(t)

	kept := f.Filter(func(_ string, row []int) bool { return row[0] >= 20 })
	sorted, err := kept.SortBy("Python", true)
	require.NoError(t, err)
	top := sorted.Head(3)

	assert.Equal(t, []string{"India", "Nigeria", "Ghana"}, top.Index)
	values, ok := top.Column("Python")
	require.True(t, ok)
	assert.Equal(t, []int{100, 35, 35}, values)
}

func TestFrame_SortByUnknownColumn(t *testing.T) {
	_, err := regions(t).SortBy("Go", true)
	assert.Error(t, err)
}

func TestFrame_HeadBounds(t *testing.T) {
	f := regions(t)
	assert.Equal(t, f.Len(), f.Head(100).Len())
	assert.Equal(t, 0, f.Head(-1).Len())
}

func TestFrame_Records(t *testing.T) {
	f := New("query", "value")
	require.NoError(t, f.AppendRow("python tutorial", 100))

	assert.Equal(t, []string{"query", "value"}, f.RecordColumns())
	assert.Equal(t, []map[string]interface{}{{"query": "python tutorial", "value": 100}}, f.Records())
}

func TestFrame_JSONRoundTrip(t *testing.T) {
	f := timeSeries(t)

	b, err := json.Marshal(f)
	require.NoError(t, err)

	var back Frame
	require.NoError(t, json.Unmarshal(b, &back))

	assert.Equal(t, f.IndexName, back.IndexName)
	assert.Equal(t, f.Index, back.Index)
	assert.Equal(t, f.Columns, back.Columns)
	assert.Equal(t, f.Data, back.Data)

	again, err := json.Marshal(&back)
	require.NoError(t, err)
	assert.JSONEq(t, string(b), string(again))
}

func TestFrame_JSONSplitLayout(t *testing.T) {
	b, err := json.Marshal(New("geoName", "Python"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"index_name":"geoName","columns":["Python"],"index":[],"data":[]}`, string(b))
}

func TestFrame_UnmarshalRejectsRaggedRows(t *testing.T) {
	var f Frame
	err := json.Unmarshal([]byte(`{"columns":["a","b"],"index":["x"],"data":[[1]]}`), &f)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`{"columns":["a"],"index":["x","y"],"data":[[1]]}`), &f)
	assert.Error(t, err)
}

func TestEncodeDecodeNil(t *testing.T) {
	b, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	f, err := Decode(b)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestFrame_WriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, timeSeries(t).WriteCSV(&buf, "Date"))

	expected := "Date,Python,Data Science\n" +
		"2024-01-01T00:00:00Z,40,12\n" +
		"2024-01-08T00:00:00Z,55,0\n" +
		"2024-01-15T00:00:00Z,100,31\n"
	assert.Equal(t, expected, buf.String())
}
