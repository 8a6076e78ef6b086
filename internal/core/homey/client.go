package homey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/homeyscriptkit/hsk/internal/tracing"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AppPath is the mount point of the HomeyScript app API on a hub.
const AppPath = "/api/app/com.athom.homeyscript"

// Client is an HTTP client for the HomeyScript app API. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the hub reachable at host, authenticating
// with token as a bearer credential.
func NewClient(host, token string, opts ...Option) (*Client, error) {
	if host == "" {
		return nil, ErrHostRequired
	}
	if token == "" {
		return nil, ErrTokenRequired
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(host, "/") + AppPath,
		token:      token,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListScripts returns every script on the hub, in the order the hub lists them.
// Listed scripts may not carry their code; use ResolveScripts for that.
func (c *Client) ListScripts(ctx context.Context) ([]Script, error) {
	data, err := c.do(ctx, http.MethodGet, "script", nil)
	if err != nil {
		return nil, err
	}
	return decodeScriptList(data)
}

// decodeScriptList accepts the hub's id->script map (or a plain array) and
// keeps the document order.
func decodeScriptList(data []byte) ([]Script, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Script{}, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decoding script list: invalid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() && !root.IsArray() {
		return nil, fmt.Errorf("decoding script list: unexpected %s", root.Type)
	}

	scripts := []Script{}
	var decodeErr error
	root.ForEach(func(key, value gjson.Result) bool {
		var s Script
		if err := json.Unmarshal([]byte(value.Raw), &s); err != nil {
			decodeErr = fmt.Errorf("decoding script %s: %w", key.String(), err)
			return false
		}
		if s.ID == "" && root.IsObject() {
			s.ID = key.String()
		}
		scripts = append(scripts, s)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return scripts, nil
}

// ResolveScripts lists every script and then fetches each one in full.
// Fetches run concurrently; the first failure (in list order) is returned.
func (c *Client) ResolveScripts(ctx context.Context) ([]Script, error) {
	listed, err := c.ListScripts(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make([]Script, len(listed))
	errs := make([]error, len(listed))

	var wg sync.WaitGroup
	for i, s := range listed {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resolved[i], errs[i] = c.GetScript(ctx, s.ID)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("resolving script %s: %w", listed[i].Label(), err)
		}
	}
	return resolved, nil
}

// GetScript fetches a single script, including its code.
func (c *Client) GetScript(ctx context.Context, id string) (Script, error) {
	if id == "" {
		return Script{}, ErrIDRequired
	}
	var s Script
	if err := c.doJSON(ctx, http.MethodGet, "script/"+url.PathEscape(id), nil, &s); err != nil {
		return Script{}, err
	}
	return s, nil
}

// CreateScript creates a script. The whole record is sent, so a script read
// from a backup keeps its stored fields. A name that already exists on the hub
// is refused with a *DuplicateNameError before anything is written.
func (c *Client) CreateScript(ctx context.Context, s Script) (Script, error) {
	if s.Name == "" {
		return Script{}, ErrNameRequired
	}

	existing, err := c.ListScripts(ctx)
	if err != nil {
		return Script{}, err
	}
	for _, e := range existing {
		if e.Name == s.Name {
			return Script{}, &DuplicateNameError{Name: s.Name}
		}
	}

	var created Script
	if err := c.doJSON(ctx, http.MethodPost, "script", s, &created); err != nil {
		return Script{}, err
	}
	return created, nil
}

// updateRequest is the body accepted by PUT script/<id>.
type updateRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// UpdateScript replaces the name and code of an existing script.
func (c *Client) UpdateScript(ctx context.Context, s Script) (Script, error) {
	if s.ID == "" {
		return Script{}, ErrIDRequired
	}
	if s.Name == "" {
		return Script{}, ErrNameRequired
	}

	body := updateRequest{ID: s.ID, Name: s.Name, Code: s.Code}
	var updated Script
	if err := c.doJSON(ctx, http.MethodPut, "script/"+url.PathEscape(s.ID), body, &updated); err != nil {
		return Script{}, err
	}
	return updated, nil
}

// DeleteScript removes a script by ID.
func (c *Client) DeleteScript(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	_, err := c.do(ctx, http.MethodDelete, "script/"+url.PathEscape(id), nil)
	return err
}

// doJSON performs a request and decodes a non-empty response body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// do sends a request with the standard headers and returns the raw body.
func (c *Client) do(ctx context.Context, method, path string, body any) (data []byte, err error) {
	endpoint := c.baseURL + "/" + path

	ctx, span := tracing.StartSpan(ctx, "homey "+method+" "+spanPath(path), trace.SpanKindClient,
		attribute.String("http.method", method),
		attribute.String("http.url", endpoint),
	)
	defer func() { tracing.EndSpan(span, err) }()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("homey request", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, newHTTPError(method, endpoint, resp.StatusCode)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return data, nil
}

// spanPath collapses script IDs so span names stay low-cardinality.
func spanPath(path string) string {
	if strings.HasPrefix(path, "script/") {
		return "script/{id}"
	}
	return path
}
