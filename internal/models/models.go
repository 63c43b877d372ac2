// Package models defines core data structures for go-postboard
package models

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Record field names used by the posts view
const (
	FieldTitle = "title"
	FieldDesc  = "desc"
)

// reserved keys of the flat record JSON shape
const (
	keyID             = "id"
	keyCollectionID   = "collectionId"
	keyCollectionName = "collectionName"
	keyCreated        = "created"
	keyUpdated        = "updated"
)

// Record is an item in the collection store.
// System attributes are typed, user columns live in Fields.
type Record struct {
	ID             string
	CollectionID   string
	CollectionName string
	Created        string
	Updated        string
	Fields         map[string]any
}

// Get returns the raw value of a user column
func (r *Record) Get(field string) (any, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[field]
	return v, ok
}

// Text returns a user column as display text. Missing and null values yield "".
func (r *Record) Text(field string) string {
	v, _ := r.Get(field)
	return textOf(v)
}

// UnmarshalJSON decodes the flat store shape {"id":..,"collectionName":..,"title":..}
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{Fields: make(map[string]any, len(raw))}
	for k, v := range raw {
		switch k {
		case keyID:
			r.ID = textOf(v)
		case keyCollectionID:
			r.CollectionID = textOf(v)
		case keyCollectionName:
			r.CollectionName = textOf(v)
		case keyCreated:
			r.Created = textOf(v)
		case keyUpdated:
			r.Updated = textOf(v)
		default:
			r.Fields[k] = v
		}
	}
	return nil
}

// MarshalJSON encodes the record back into the flat store shape
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+5)
	for k, v := range r.Fields {
		out[k] = v
	}
	out[keyID] = r.ID
	if r.CollectionID != "" {
		out[keyCollectionID] = r.CollectionID
	}
	if r.CollectionName != "" {
		out[keyCollectionName] = r.CollectionName
	}
	if r.Created != "" {
		out[keyCreated] = r.Created
	}
	if r.Updated != "" {
		out[keyUpdated] = r.Updated
	}
	return json.Marshal(out)
}

// DisplayItem is the loader's projection of a Record for the renderer
type DisplayItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// NewDisplayItem projects exactly id, title and desc out of a record
func NewDisplayItem(r *Record) DisplayItem {
	return DisplayItem{
		ID:    r.ID,
		Title: r.Text(FieldTitle),
		Desc:  r.Text(FieldDesc),
	}
}

// DescKind selects how the desc field is typed in submissions
type DescKind string

const (
	DescText DescKind = "text"
	DescBool DescKind = "bool"
)

// ParseDescKind maps a config value to a DescKind
func ParseDescKind(s string) (DescKind, error) {
	switch DescKind(s) {
	case DescText, "":
		return DescText, nil
	case DescBool:
		return DescBool, nil
	}
	return "", fmt.Errorf("unknown desc kind %q", s)
}

// Submission is a parsed form submission ready to be sent to the store
type Submission struct {
	Title string
	Desc  any // string for DescText, bool for DescBool
}

// Payload returns the create payload {title, desc}
func (s Submission) Payload() map[string]any {
	return map[string]any{
		FieldTitle: s.Title,
		FieldDesc:  s.Desc,
	}
}

func textOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
