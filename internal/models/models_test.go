package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordDecodesFlatShape(t *testing.T) {
	body := `{"id":"abc123","collectionId":"pbc_1","collectionName":"posts",
		"created":"2024-01-02 03:04:05.000Z","updated":"2024-01-02 03:04:05.000Z",
		"title":"Hello","desc":"World","votes":3}`

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	assert.Equal(t, "abc123", rec.ID)
	assert.Equal(t, "posts", rec.CollectionName)
	assert.Equal(t, "pbc_1", rec.CollectionID)
	want := map[string]any{"title": "Hello", "desc": "World", "votes": float64(3)}
	if diff := cmp.Diff(want, rec.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDisplayItem(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want DisplayItem
	}{
		{
			name: "text fields",
			rec:  Record{ID: "a", Fields: map[string]any{"title": "Hello", "desc": "World", "extra": 1}},
			want: DisplayItem{ID: "a", Title: "Hello", Desc: "World"},
		},
		{
			name: "missing fields are empty",
			rec:  Record{ID: "b"},
			want: DisplayItem{ID: "b"},
		},
		{
			name: "null title",
			rec:  Record{ID: "c", Fields: map[string]any{"title": nil, "desc": "x"}},
			want: DisplayItem{ID: "c", Desc: "x"},
		},
		{
			name: "bool desc",
			rec:  Record{ID: "d", Fields: map[string]any{"title": "t", "desc": true}},
			want: DisplayItem{ID: "d", Title: "t", Desc: "true"},
		},
		{
			name: "numeric title",
			rec:  Record{ID: "e", Fields: map[string]any{"title": float64(42)}},
			want: DisplayItem{ID: "e", Title: "42"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDisplayItem(&tt.rec)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NewDisplayItem mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseDescKind(t *testing.T) {
	k, err := ParseDescKind("")
	require.NoError(t, err)
	assert.Equal(t, DescText, k)

	k, err = ParseDescKind("bool")
	require.NoError(t, err)
	assert.Equal(t, DescBool, k)

	_, err = ParseDescKind("json")
	assert.Error(t, err)
}

func TestSubmissionPayload(t *testing.T) {
	p := Submission{Title: "A", Desc: false}.Payload()
	assert.Equal(t, map[string]any{"title": "A", "desc": false}, p)
}
