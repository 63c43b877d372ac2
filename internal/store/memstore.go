package store

import (
	"context"
	"errors"
	"sync"

	"github.com/go-while/go-postboard/internal/models"
)

var _ Store = (*MemStore)(nil)

// errOffline is returned by a MemStore switched offline
var errOffline = errors.New("memstore offline")

// MemStore is an in-process collection store for tests and demos
type MemStore struct {
	mux         sync.RWMutex
	collections map[string][]*models.Record
	rules       Rules
	offline     bool
}

// NewMemStore returns an empty memory store enforcing the given rules
func NewMemStore(rules Rules) *MemStore {
	return &MemStore{
		collections: make(map[string][]*models.Record),
		rules:       rules,
	}
}

// SetOffline makes every following call fail as if the store was unreachable
func (m *MemStore) SetOffline(offline bool) {
	m.mux.Lock()
	m.offline = offline
	m.mux.Unlock()
}

// List returns copies of the records in insertion order
func (m *MemStore) List(ctx context.Context, collection string) ([]*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list", collection, err)
	}
	m.mux.RLock()
	defer m.mux.RUnlock()
	if m.offline {
		return nil, unavailable("list", collection, errOffline)
	}
	recs := m.collections[collection]
	out := make([]*models.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, cloneRecord(r))
	}
	return out, nil
}

// Create validates the payload against the rules and appends a new record
func (m *MemStore) Create(ctx context.Context, collection string, payload map[string]any) (*models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, writeFailed("create", collection, err)
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.offline {
		return nil, writeFailed("create", collection, errOffline)
	}
	if err := m.rules.Check(collection, payload); err != nil {
		return nil, err
	}
	ts := now()
	rec := &models.Record{
		ID:             NewRecordID(),
		CollectionName: collection,
		Created:        ts,
		Updated:        ts,
		Fields:         copyPayload(payload),
	}
	m.collections[collection] = append(m.collections[collection], rec)
	return cloneRecord(rec), nil
}

func cloneRecord(r *models.Record) *models.Record {
	c := *r
	c.Fields = copyPayload(r.Fields)
	return &c
}
