// Package store provides the collection store clients used by go-postboard.
//
// A collection store keeps schema-flexible records grouped by collection name.
// The web handlers only see the Store interface; the concrete client is picked
// at startup (PocketBase REST API, local sqlite file or memory).
package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-while/go-postboard/internal/models"
)

// Store is the capability the loader and the action handler consume
type Store interface {
	// List returns every record of the collection in the store's natural order
	List(ctx context.Context, collection string) ([]*models.Record, error)
	// Create inserts one record and returns it with its store-assigned id
	Create(ctx context.Context, collection string, payload map[string]any) (*models.Record, error)
}

// Error kinds. Match with errors.Is.
var (
	ErrBackendUnavailable = errors.New("collection store unavailable")
	ErrStoreWrite         = errors.New("collection store rejected write")
)

// FieldError is a per-field rejection reported by the store
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error carries the details of a failed store call
type Error struct {
	Kind       error  // ErrBackendUnavailable or ErrStoreWrite
	Op         string // list | create
	Collection string
	Status     int // HTTP status reported by a remote store, 0 otherwise
	Message    string
	Fields     map[string]FieldError
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %v", e.Op, e.Collection, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "; %s: %s", name, e.Fields[name].Message)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func unavailable(op, collection string, err error) *Error {
	return &Error{Kind: ErrBackendUnavailable, Op: op, Collection: collection, Err: err}
}

func writeFailed(op, collection string, err error) *Error {
	return &Error{Kind: ErrStoreWrite, Op: op, Collection: collection, Err: err}
}

// Rules lists required fields per collection for the local stores.
// A required field must be present and non-empty, mirroring PocketBase's validation_required.
type Rules map[string][]string

// Check validates a create payload against the rules of the collection
func (r Rules) Check(collection string, payload map[string]any) error {
	fields := map[string]FieldError{}
	for _, name := range r[collection] {
		if isBlank(payload[name]) {
			fields[name] = FieldError{Code: "validation_required", Message: "Missing required value."}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &Error{
		Kind:       ErrStoreWrite,
		Op:         "create",
		Collection: collection,
		Status:     400,
		Message:    "Failed to create record.",
		Fields:     fields,
	}
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	}
	return false
}

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 15

	// TimeLayout is the timestamp format of created/updated
	TimeLayout = "2006-01-02 15:04:05.000Z"
)

// NewRecordID returns a random 15 character [a-z0-9] id in the PocketBase style
func NewRecordID() string {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		panic("store: crypto/rand failed: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

func now() string {
	return time.Now().UTC().Format(TimeLayout)
}

func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
