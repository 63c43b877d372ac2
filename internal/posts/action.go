package posts

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/go-while/go-postboard/internal/models"
	"github.com/go-while/go-postboard/internal/store"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidSubmission is returned when a form field cannot be converted to its configured type
var ErrInvalidSubmission = errors.New("invalid submission")

// FieldError names the field that failed to parse
type FieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q: %s (got %q)", ErrInvalidSubmission, e.Field, e.Reason, e.Value)
}

func (e *FieldError) Is(target error) bool { return target == ErrInvalidSubmission }

// ParseSubmission extracts title and desc from submitted form values.
// Absent fields become empty values and nothing is trimmed or rejected for being
// empty: the store decides. Text is NFC normalized.
// With DescBool the desc value must be empty, "on" (checkbox) or a strconv.ParseBool literal.
func ParseSubmission(form url.Values, kind models.DescKind) (models.Submission, error) {
	sub := models.Submission{
		Title: norm.NFC.String(form.Get(models.FieldTitle)),
	}
	rawDesc := form.Get(models.FieldDesc)

	switch kind {
	case models.DescBool:
		switch rawDesc {
		case "":
			sub.Desc = false
		case "on":
			sub.Desc = true
		default:
			b, err := strconv.ParseBool(rawDesc)
			if err != nil {
				return models.Submission{}, &FieldError{Field: models.FieldDesc, Value: rawDesc, Reason: "not a boolean"}
			}
			sub.Desc = b
		}
	default:
		sub.Desc = norm.NFC.String(rawDesc)
	}
	return sub, nil
}

// Action performs the create call of a submitted form
type Action struct {
	Store      store.Store
	Collection string
	DescKind   models.DescKind
	Debug      bool
}

// NewAction returns an action handler writing to the collection
func NewAction(s store.Store, collection string, kind models.DescKind) *Action {
	return &Action{Store: s, Collection: collection, DescKind: kind}
}

// Submit parses the form and issues exactly one create against the store
func (a *Action) Submit(ctx context.Context, form url.Values) (*models.Record, error) {
	sub, err := ParseSubmission(form, a.DescKind)
	if err != nil {
		return nil, err
	}
	return a.Create(ctx, sub)
}

// Create sends an already parsed submission to the store
func (a *Action) Create(ctx context.Context, sub models.Submission) (*models.Record, error) {
	rec, err := a.Store.Create(ctx, a.Collection, sub.Payload())
	if err != nil {
		return nil, fmt.Errorf("create in %s: %w", a.Collection, err)
	}
	if a.Debug {
		log.Printf("[ACTION]: created %s/%s", a.Collection, rec.ID)
	}
	return rec, nil
}
