// Package client talks to a running label server over its JSON API and
// implements the workflow collaborator contracts on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
)

const apiKeyHeader = "X-API-Key"

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 60 * time.Second

// Operation names reported in model.CollaboratorError.Op.
const (
	OpListPrinters    = "list_printers"
	OpListSystems     = "list_systems"
	OpCheckDuplicates = "check_duplicates"
	OpGenerateBatch   = "generate_batch"
	OpPrintBatch      = "print_batch"
	OpHistory         = "history"
	OpAudit           = "audit"
)

// Client is an HTTP implementation of workflow.Backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	apiKey string
	token  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithOperatorToken sends token as a bearer credential.
func WithOperatorToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New returns a client for the server at baseURL ("host:port" or a full URL).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("server address is required")
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server address: %w", err)
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	base.RawQuery = ""
	base.Fragment = ""

	c := &Client{base: base, http: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListPrinters returns the server's printers and default.
func (c *Client) ListPrinters(ctx context.Context) (model.PrinterList, error) {
	var out model.PrinterList
	if err := c.do(ctx, OpListPrinters, http.MethodGet, "/api/printers", nil, nil, &out); err != nil {
		return model.PrinterList{}, err
	}
	return out, nil
}

// ListSystems returns the server's system catalog.
func (c *Client) ListSystems(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, OpListSystems, http.MethodGet, "/api/systems", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckDuplicates asks the server which serials of req are already issued.
func (c *Client) CheckDuplicates(ctx context.Context, req model.BatchRequest) (model.DuplicateReport, error) {
	var out dto.DuplicateCheckResponse
	if err := c.do(ctx, OpCheckDuplicates, http.MethodPost, "/api/check-duplicates", nil, dto.FromModel(req), &out); err != nil {
		return model.DuplicateReport{}, err
	}
	if out.Duplicates == nil {
		out.Duplicates = []string{}
	}
	return model.DuplicateReport{Duplicates: out.Duplicates}, nil
}

// GenerateBatch asks the server to render and record req.
func (c *Client) GenerateBatch(ctx context.Context, req model.BatchRequest, layout model.LayoutSettings) (model.BatchDocument, error) {
	body := dto.GenerateBatchRequest{BatchRequest: dto.FromModel(req), LabelSettings: &layout}
	var out model.BatchDocument
	if err := c.do(ctx, OpGenerateBatch, http.MethodPost, "/api/generate-batch", nil, body, &out); err != nil {
		return model.BatchDocument{}, err
	}
	return out, nil
}

// PrintBatch asks the server to print a rendered document.
func (c *Client) PrintBatch(ctx context.Context, documentURL, printer string) error {
	body := dto.PrintRequest{PDFURL: documentURL, PrinterName: printer}
	return c.do(ctx, OpPrintBatch, http.MethodPost, "/api/print-label", nil, body, nil)
}

// History lists issued serials recorded by the server.
func (c *Client) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	values := url.Values{}
	if q.SystemID != "" {
		values.Set("system_name", q.SystemID)
	}
	if q.Year != "" {
		values.Set("year", q.Year)
	}
	if q.Month != "" {
		values.Set("month", q.Month)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	var out []model.IssuedSerial
	if err := c.do(ctx, OpHistory, http.MethodGet, "/api/history", values, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Audit queries the server's audit journal.
func (c *Client) Audit(ctx context.Context, f model.AuditFilter) (dto.AuditPage, error) {
	values := url.Values{}
	set := func(key, v string) {
		if v != "" {
			values.Set(key, v)
		}
	}
	set("action", string(f.Action))
	set("outcome", string(f.Outcome))
	set("operator", f.Operator)
	set("system_name", f.SystemID)
	set("batch_id", f.BatchID)
	set("request_id", f.RequestID)
	if !f.Since.IsZero() {
		values.Set("since", f.Since.UTC().Format(time.RFC3339))
	}
	if !f.Until.IsZero() {
		values.Set("until", f.Until.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		values.Set("limit", strconv.Itoa(f.Limit))
	}
	var page dto.AuditPage
	if err := c.do(ctx, OpAudit, http.MethodGet, "/api/audit", values, nil, &page); err != nil {
		return dto.AuditPage{}, err
	}
	return page, nil
}

// do performs one call. Transport failures become ErrCollaboratorUnavailable;
// error responses become ErrCollaboratorRejected carrying the server message.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	endpoint := *c.base
	endpoint.Path = c.base.Path + path
	endpoint.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Unavailable(op, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Unavailable(op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp dto.ErrorResponse
		_ = json.Unmarshal(payload, &errResp)
		rejected := model.Rejected(op, errResp.Message)
		rejected.Err = &StatusError{Code: resp.StatusCode, ErrCode: errResp.Error, Duplicates: errResp.Duplicates}
		return rejected
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return model.Unavailable(op, fmt.Errorf("decode response: %w", err))
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return model.Unavailable(op, fmt.Errorf("decode response data: %w", err))
	}
	return nil
}

// StatusError records the HTTP status of a rejected call. Duplicates holds
// the conflicting serials of a refused batch.
type StatusError struct {
	Code       int
	ErrCode    string
	Duplicates []string
}

func (e *StatusError) Error() string {
	if e.ErrCode == "" {
		return "status " + strconv.Itoa(e.Code)
	}
	return "status " + strconv.Itoa(e.Code) + " (" + e.ErrCode + ")"
}
