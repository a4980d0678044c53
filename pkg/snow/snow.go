// Package snow is the record gateway for the ServiceNow Table API.
package snow

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

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/clcollins/nowdesk/pkg/record"
)

const (
	opList   = "List"
	opGet    = "Get"
	opCreate = "Create"
	opUpdate = "Update"
	opDelete = "Delete"
	opProbe  = "Probe"

	tablePath       = "/api/now/table/"
	defaultTimeout  = 30 * time.Second
	requestIDHeader = "X-Request-ID"
)

// RecordGateway is the CRUD surface over one table.
type RecordGateway interface {
	List(ctx context.Context, filters map[string]string) ([]record.Record, error)
	Get(ctx context.Context, id string) (record.Record, error)
	Create(ctx context.Context, payload map[string]any) (record.Record, error)
	Update(ctx context.Context, id string, payload map[string]any) (record.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Resource describes a table and how it is listed.
type Resource struct {
	Table string
	// Fields restricts the columns returned; empty means all.
	Fields []string
	// Limit caps list results; zero sends no limit.
	Limit int
	// OrderByDesc sorts list results newest first by the named column.
	OrderByDesc string
}

var (
	IncidentResource = Resource{
		Table: "incident",
		Fields: []string{
			"sys_id", "number", "short_description", "description",
			"incident_state", "priority", "impact", "urgency",
			"assigned_to", "caller_id", "assignment_group",
			"sys_created_on", "sys_updated_on", "opened_by",
			"category", "subcategory",
		},
		Limit:       100,
		OrderByDesc: "sys_updated_on",
	}

	UserResource = Resource{
		Table:  "sys_user",
		Fields: []string{"sys_id", "name", "email", "user_name"},
		Limit:  20,
	}

	NotificationResource = Resource{
		Table:  "sysevent_email_action",
		Fields: []string{"sys_id", "name", "description", "subscribable"},
		Limit:  20,
	}

	SubscriptionResource = Resource{
		Table: "sys_noti_subscription",
	}
)

// Config configures a Client.
type Config struct {
	InstanceURL string
	Credentials Credentials
	Timeout     time.Duration
	Metrics     *Metrics
	// HTTPClient overrides the default client. It is copied, so the
	// caller's Jar is left untouched.
	HTTPClient *http.Client
}

// Client holds the connection state shared by every gateway.
type Client struct {
	base        *url.URL
	credentials Credentials
	http        *http.Client
	metrics     *Metrics
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.InstanceURL == "" {
		return nil, errors.New("snow.NewClient(): instance URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.InstanceURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("snow.NewClient(): invalid instance URL %q: %w", cfg.InstanceURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("snow.NewClient(): instance URL %q must be http or https", cfg.InstanceURL)
	}
	if cfg.Credentials == nil {
		return nil, errors.New("snow.NewClient(): credentials are required")
	}

	var httpClient *http.Client
	if cfg.HTTPClient != nil {
		c := *cfg.HTTPClient
		httpClient = &c
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	jar, err := newJar(base, cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("snow.NewClient(): failed to create cookie jar: %w", err)
	}
	httpClient.Jar = jar

	return &Client{
		base:        base,
		credentials: cfg.Credentials,
		http:        httpClient,
		metrics:     cfg.Metrics,
	}, nil
}

// BaseURL returns the instance URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Credentials returns the credentials the client was built with.
func (c *Client) Credentials() Credentials {
	return c.credentials
}

// Gateway returns a gateway bound to res.
func (c *Client) Gateway(res Resource) *Gateway {
	return &Gateway{client: c, resource: res}
}

// Probe issues a minimal incident read and reports whether the current
// credentials are accepted.
func (c *Client) Probe(ctx context.Context) error {
	q := url.Values{}
	q.Set("sysparm_limit", "1")
	_, err := c.do(ctx, opProbe, IncidentResource.Table, http.MethodGet, c.tableURL(IncidentResource.Table, "", q), nil)
	return err
}

// Gateway performs Table API operations on one resource.
type Gateway struct {
	client   *Client
	resource Resource
}

var _ RecordGateway = (*Gateway)(nil)

// Resource returns the resource the gateway is bound to.
func (g *Gateway) Resource() Resource {
	return g.resource
}

// List returns the records matching filters. Keys are sent as query
// parameters; a sysparm_query value is combined with the resource order.
func (g *Gateway) List(ctx context.Context, filters map[string]string) ([]record.Record, error) {
	q := g.listQuery(filters)
	body, err := g.client.do(ctx, opList, g.resource.Table, http.MethodGet, g.client.tableURL(g.resource.Table, "", q), nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result []record.Record `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("snow.List(%s): failed to decode response: %w", g.resource.Table, err)
	}
	if resp.Result == nil {
		resp.Result = []record.Record{}
	}
	return resp.Result, nil
}

// Get returns a single record. A missing record yields an error matching
// ErrNotFound.
func (g *Gateway) Get(ctx context.Context, id string) (record.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("snow.Get(%s): empty id: %w", g.resource.Table, ErrNotFound)
	}
	return g.single(ctx, opGet, http.MethodGet, id, g.displayQuery(), nil)
}

// Create inserts a record and returns it as stored by the instance.
func (g *Gateway) Create(ctx context.Context, payload map[string]any) (record.Record, error) {
	return g.single(ctx, opCreate, http.MethodPost, "", g.displayQuery(), payload)
}

// Update applies a partial update and returns the updated record.
func (g *Gateway) Update(ctx context.Context, id string, payload map[string]any) (record.Record, error) {
	if id == "" {
		return nil, fmt.Errorf("snow.Update(%s): empty id: %w", g.resource.Table, ErrNotFound)
	}
	return g.single(ctx, opUpdate, http.MethodPatch, id, g.displayQuery(), payload)
}

// Delete removes a record. It reports true once the instance confirms.
func (g *Gateway) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("snow.Delete(%s): empty id: %w", g.resource.Table, ErrNotFound)
	}
	_, err := g.client.do(ctx, opDelete, g.resource.Table, http.MethodDelete, g.client.tableURL(g.resource.Table, id, nil), nil)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *Gateway) single(ctx context.Context, op, method, id string, q url.Values, payload map[string]any) (record.Record, error) {
	var reqBody []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("snow.%s(%s): failed to marshal payload: %w", op, g.resource.Table, err)
		}
		reqBody = b
	}

	body, err := g.client.do(ctx, op, g.resource.Table, method, g.client.tableURL(g.resource.Table, id, q), reqBody)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Result record.Record `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("snow.%s(%s): failed to decode response: %w", op, g.resource.Table, err)
	}
	if resp.Result == nil {
		resp.Result = record.Record{}
	}
	return resp.Result, nil
}

func (g *Gateway) displayQuery() url.Values {
	q := url.Values{}
	q.Set("sysparm_display_value", "all")
	if len(g.resource.Fields) > 0 {
		q.Set("sysparm_fields", strings.Join(g.resource.Fields, ","))
	}
	return q
}

func (g *Gateway) listQuery(filters map[string]string) url.Values {
	q := g.displayQuery()
	if g.resource.Limit > 0 {
		q.Set("sysparm_limit", strconv.Itoa(g.resource.Limit))
	}

	query := ""
	for k, v := range filters {
		if k == "sysparm_query" {
			query = v
			continue
		}
		q.Set(k, v)
	}
	if g.resource.OrderByDesc != "" {
		order := "ORDERBYDESC" + g.resource.OrderByDesc
		if query == "" {
			query = order
		} else {
			query = query + "^" + order
		}
	}
	if query != "" {
		q.Set("sysparm_query", query)
	}
	return q
}

func (c *Client) tableURL(table, id string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + tablePath + url.PathEscape(table)
	if id != "" {
		u.Path += "/" + url.PathEscape(id)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// do sends one request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, op, table, method, endpoint string, reqBody []byte) ([]byte, error) {
	var body io.Reader
	if reqBody != nil {
		body = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("snow.%s(%s): failed to create request: %w", op, table, err)
	}

	requestID := uuid.NewString()
	c.setHeaders(req, requestID, reqBody != nil)

	log.Debug("snow.Client.do", "op", op, "table", table, "method", method, "request_id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(table, op, 0, time.Since(start))
		log.Debug("snow.Client.do", "op", op, "table", table, "request_id", requestID, "error", err)
		return nil, &TransportError{Op: op, Table: table, Err: err}
	}
	defer resp.Body.Close()
	c.metrics.observe(table, op, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Table: table, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if err := checkResponse(op, table, resp.StatusCode, respBody); err != nil {
		log.Debug("snow.Client.do", "op", op, "table", table, "request_id", requestID, "status", resp.StatusCode, "error", err)
		return nil, err
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request, requestID string, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(requestIDHeader, requestID)
	c.credentials.Apply(req)
}

// checkResponse turns a non-2xx status into a FetchError, preferring the
// message the instance put in the error body.
func checkResponse(op, table string, status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var errBody struct {
		Error struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
		} `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &errBody); err == nil {
		msg = strings.TrimSpace(errBody.Error.Message)
	}
	if msg == "" {
		msg = genericMessages[op]
	}

	return &FetchError{Op: op, Table: table, Status: status, Message: msg}
}
