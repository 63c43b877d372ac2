// Package posts implements the request-scoped load and create cycle of the posts view.
//
// Loader reads the collection before a render, Action turns a form submission
// into exactly one create call. Neither keeps state between requests: the
// collection store stays the only source of truth.
package posts

import (
	"context"
	"fmt"
	"log"

	"github.com/go-while/go-postboard/internal/models"
	"github.com/go-while/go-postboard/internal/store"
)

// Loader fetches the display items for one render
type Loader struct {
	Store      store.Store
	Collection string
	Debug      bool
}

// NewLoader returns a loader for the collection
func NewLoader(s store.Store, collection string) *Loader {
	return &Loader{Store: s, Collection: collection}
}

// Load lists every record of the collection and projects it into display items.
// Store failures are returned, wrapped, never retried.
func (l *Loader) Load(ctx context.Context) ([]models.DisplayItem, error) {
	recs, err := l.Store.List(ctx, l.Collection)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", l.Collection, err)
	}
	items := make([]models.DisplayItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, models.NewDisplayItem(rec))
	}
	if l.Debug {
		log.Printf("[LOADER]: %s: %d items", l.Collection, len(items))
	}
	return items, nil
}
