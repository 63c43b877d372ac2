package store

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/go-while/go-postboard/internal/models"
	"github.com/goccy/go-json"
)

var _ Store = (*PocketBase)(nil)

// DefaultBatchSize is the page size used to walk a collection, same as the PocketBase SDKs' getFullList
const DefaultBatchSize = 500

const recordsPath = "/api/collections/{collection}/records"

// PocketBase is a client for the PocketBase records REST API
type PocketBase struct {
	BaseURL   string
	BatchSize int
	Debug     bool
	client    *resty.Client
}

// NewPocketBase returns a client for the API at baseURL (e.g. http://127.0.0.1:8090).
// No timeout and no retries are set: a call lives as long as its context.
func NewPocketBase(baseURL string) *PocketBase {
	baseURL = strings.TrimRight(baseURL, "/")
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetLogger(storeLogger{})
	return &PocketBase{
		BaseURL:   baseURL,
		BatchSize: DefaultBatchSize,
		client:    client,
	}
}

// listResult is the body of GET /api/collections/{c}/records
type listResult struct {
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
	Items      []*models.Record `json:"items"`
}

// apiError is the PocketBase error body. Older versions send "code", newer "status".
type apiError struct {
	Code    int                   `json:"code"`
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Data    map[string]FieldError `json:"data"`
}

// List fetches every page of the collection until a short page arrives.
// A server that answers another page than asked, or repeats records, ends the walk with ErrBackendUnavailable.
func (p *PocketBase) List(ctx context.Context, collection string) ([]*models.Record, error) {
	batch := p.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	var out []*models.Record
	seen := make(map[string]struct{})
	for page := 1; ; page++ {
		res, err := p.fetchPage(ctx, collection, page, batch)
		if err != nil {
			return nil, err
		}
		if res.Page > 0 && res.Page != page {
			return nil, unavailable("list", collection, fmt.Errorf("asked for page %d, server answered page %d", page, res.Page))
		}
		for _, rec := range res.Items {
			if rec == nil {
				return nil, unavailable("list", collection, fmt.Errorf("decode list response: null record on page %d", page))
			}
			if rec.ID == "" {
				continue
			}
			if _, dup := seen[rec.ID]; dup {
				return nil, unavailable("list", collection, fmt.Errorf("page %d repeats record %s", page, rec.ID))
			}
			seen[rec.ID] = struct{}{}
		}
		out = append(out, res.Items...)
		if len(res.Items) < batch || (res.TotalPages > 0 && page >= res.TotalPages) {
			break
		}
	}
	if p.Debug {
		log.Printf("[STORE]: pocketbase list %s: %d records", collection, len(out))
	}
	return out, nil
}

func (p *PocketBase) fetchPage(ctx context.Context, collection string, page, batch int) (*listResult, error) {
	var res listResult
	var ae apiError
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		SetQueryParams(map[string]string{
			"page":      strconv.Itoa(page),
			"perPage":   strconv.Itoa(batch),
			"skipTotal": "1",
		}).
		SetResult(&res).
		SetError(&ae).
		Get(recordsPath)
	if err != nil {
		return nil, unavailable("list", collection, err)
	}
	if !resp.IsSuccess() {
		e := apiFailure(resp, &ae, "list", collection)
		e.Kind = ErrBackendUnavailable
		return nil, e
	}
	if ct := resp.Header().Get("Content-Type"); !resty.IsJSONType(ct) {
		return nil, unavailable("list", collection, fmt.Errorf("decode list response: unexpected content type %q", ct))
	}
	return &res, nil
}

// Create posts the payload as JSON and returns the stored record
func (p *PocketBase) Create(ctx context.Context, collection string, payload map[string]any) (*models.Record, error) {
	var rec models.Record
	var ae apiError
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&rec).
		SetError(&ae).
		Post(recordsPath)
	if err != nil {
		return nil, writeFailed("create", collection, err)
	}
	if !resp.IsSuccess() {
		return nil, apiFailure(resp, &ae, "create", collection)
	}
	if ct := resp.Header().Get("Content-Type"); !resty.IsJSONType(ct) {
		return nil, writeFailed("create", collection, fmt.Errorf("decode create response: unexpected content type %q", ct))
	}
	if p.Debug {
		log.Printf("[STORE]: pocketbase created %s/%s", collection, rec.ID)
	}
	return &rec, nil
}

// apiFailure turns a non-2xx response into an ErrStoreWrite *Error.
// Bodies that are not PocketBase errors keep the raw text as message.
func apiFailure(resp *resty.Response, ae *apiError, op, collection string) *Error {
	e := &Error{
		Kind:       ErrStoreWrite,
		Op:         op,
		Collection: collection,
		Status:     resp.StatusCode(),
	}
	if ae.Message == "" && len(ae.Data) == 0 {
		e.Message = strings.TrimSpace(resp.String())
		if e.Message == "" {
			e.Message = resp.Status()
		}
		return e
	}
	e.Message = ae.Message
	if len(ae.Data) > 0 {
		e.Fields = ae.Data
	}
	return e
}

// storeLogger routes resty's own warnings into the std logger
type storeLogger struct{}

func (storeLogger) Errorf(format string, v ...interface{}) {
	log.Printf("[STORE]: resty error: "+format, v...)
}

func (storeLogger) Warnf(format string, v ...interface{}) {
	log.Printf("[STORE]: resty warning: "+format, v...)
}

func (storeLogger) Debugf(format string, v ...interface{}) {
	log.Printf("[STORE]: resty: "+format, v...)
}
