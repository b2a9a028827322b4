package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/biotaxa/taxoclient/internal/config"
	"github.com/biotaxa/taxoclient/internal/logger"
)

// HTTPRemote is the HTTP/REST implementation of [Client] and [AuthAPI]. The
// backend follows PostgREST conventions: one route per table under /rest/v1,
// equality filters as query parameters, and an auth surface under /auth/v1.
type HTTPRemote struct {
	client *resty.Client
	apiKey string
	logger *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPRemote constructs the remote adapter. It normalises and validates
// the base URL from cfg.BaseURL and configures the underlying HTTP client
// with the resolved base URL and request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid
// URL.
func NewHTTPRemote(cfg config.Remote, logger *logger.Logger) (*HTTPRemote, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &HTTPRemote{client: client, apiKey: cfg.APIKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [Client]. It stores token (whitespace-trimmed) for use
// in the Authorization header of all subsequent requests.
func (h *HTTPRemote) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [Client]. It returns the bearer token currently held by
// the adapter, or an empty string if none has been set.
func (h *HTTPRemote) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Insert implements [Client]. It validates record against the table schema,
// POSTs it to /rest/v1/{table}, and returns the created row as echoed back
// by the backend.
func (h *HTTPRemote) Insert(ctx context.Context, table string, record json.RawMessage) (json.RawMessage, error) {
	if err := validateRecord(table, record); err != nil {
		return nil, err
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation").
		SetBody([]byte(record)).
		Post(tableRoute(table))
	if err != nil {
		return nil, fmt.Errorf("%w: insert request: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return firstRow(resp.Body())
}

// Update implements [Client]. It validates record, extracts its "id" field,
// and PATCHes /rest/v1/{table}?id=eq.{id}.
func (h *HTTPRemote) Update(ctx context.Context, table string, record json.RawMessage) error {
	if err := validateRecord(table, record); err != nil {
		return err
	}

	id := recordID(record)
	if id == "" {
		return fmt.Errorf("%w: update payload for %s has no id", ErrValidation, table)
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("id", "eq."+id).
		SetBody([]byte(record)).
		Patch(tableRoute(table))
	if err != nil {
		return fmt.Errorf("%w: update request: %v", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// Delete implements [Client]. It removes the row with the given primary key
// via DELETE /rest/v1/{table}?id=eq.{id}.
func (h *HTTPRemote) Delete(ctx context.Context, table, id string) error {
	if id == "" {
		return fmt.Errorf("%w: delete for %s has no id", ErrValidation, table)
	}

	resp, err := h.authedRequest(ctx).
		SetQueryParam("id", "eq."+id).
		Delete(tableRoute(table))
	if err != nil {
		return fmt.Errorf("%w: delete request: %v", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// Select implements [Client]. Equality filters become ?col=eq.val query
// parameters; filter.UpdatedAfter becomes ?updated_at=gt.{RFC3339}.
func (h *HTTPRemote) Select(ctx context.Context, table string, filter Filter) ([]json.RawMessage, error) {
	req := h.authedRequest(ctx)
	for col, val := range filter.Eq {
		req.SetQueryParam(col, "eq."+val)
	}
	if !filter.UpdatedAfter.IsZero() {
		req.SetQueryParam("updated_at", "gt."+filter.UpdatedAfter.UTC().Format(time.RFC3339))
	}

	resp, err := req.Get(tableRoute(table))
	if err != nil {
		return nil, fmt.Errorf("%w: select request: %v", ErrUnavailable, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var rows []json.RawMessage
	if err = json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode select response for %s: %w", table, err)
	}

	return rows, nil
}

// Upsert implements [Client]. It POSTs with merge-duplicates resolution so
// the backend replaces by primary key (last-write-wins).
func (h *HTTPRemote) Upsert(ctx context.Context, table string, record json.RawMessage) error {
	if err := validateRecord(table, record); err != nil {
		return err
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "resolution=merge-duplicates").
		SetBody([]byte(record)).
		Post(tableRoute(table))
	if err != nil {
		return fmt.Errorf("%w: upsert request: %v", ErrUnavailable, err)
	}

	return mapHTTPError(resp)
}

// Ping implements [Client]. Reachability is what matters: any HTTP response,
// including an auth rejection, proves the backend is up.
func (h *HTTPRemote) Ping(ctx context.Context) error {
	_, err := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey).
		Get("/auth/v1/health")
	if err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (h *HTTPRemote) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader("apikey", h.apiKey)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func tableRoute(table string) string {
	return "/rest/v1/" + url.PathEscape(table)
}

// recordID extracts the "id" field from a raw record payload.
func recordID(record json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return ""
	}
	return probe.ID
}

// firstRow unwraps the single-element array PostgREST returns for
// return=representation inserts.
func firstRow(body []byte) (json.RawMessage, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		// some deployments return the bare object
		return json.RawMessage(body), nil
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
