// Package apiclient is a typed HTTP client for the Roleta Pro I.A. backend.
//
// Every backend operation is a thin method over one shared primitive,
// Client.Request, which attaches the bearer token, encodes and decodes JSON,
// and turns non-2xx responses into *Error values. The client keeps no state
// besides the token held by its TokenStore; every read is a fresh request.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/pkg/payload"
)

// HeaderRequestID carries a caller-supplied correlation id.
const HeaderRequestID = "X-Request-ID"

// TokenStore persists the bearer token between calls. Get returns an empty
// string and a nil error when no token is stored. Implementations must be safe
// for concurrent use.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}

// Client issues requests against a single backend base URL.
type Client struct {
	baseURL string
	http    *http.Client
	store   TokenStore
	log     zerolog.Logger
}

// Option customises a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client. The default has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used to report failed requests.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for baseURL. A nil store is replaced by an in-memory one.
func New(baseURL string, store TokenStore, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("apiclient: base URL must not be empty")
	}
	if store == nil {
		store = NewMemoryTokenStore()
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		store:   store,
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the URL every endpoint path is appended to.
func (c *Client) BaseURL() string { return c.baseURL }

// RequestOptions controls a single call to Request.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Body is sent as-is. Nil means no body.
	Body []byte
	// Header entries override the defaults on conflict.
	Header http.Header
	// SkipAuth omits the Authorization header even when a token is stored.
	SkipAuth bool
}

// RequestOption tweaks the options built by Get, Post, Put and Delete.
type RequestOption func(*RequestOptions)

// NoAuth sends the request without the bearer token.
func NoAuth() RequestOption {
	return func(o *RequestOptions) { o.SkipAuth = true }
}

// WithHeader adds a header to the request, overriding any default.
func WithHeader(key, value string) RequestOption {
	return func(o *RequestOptions) {
		if o.Header == nil {
			o.Header = http.Header{}
		}
		o.Header.Set(key, value)
	}
}

// Request sends one HTTP request to endpoint (a path relative to the base URL).
//
// A 204 response yields the zero (null) Value without reading the body. Any
// other 2xx response body is decoded as JSON. A non-2xx response becomes an
// *Error whose message is the backend's "detail" field, or "HTTP <status>"
// when the body carries none.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions) (payload.Value, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return payload.Value{}, c.fail(&Error{
			Kind: KindTransport, Method: method, Endpoint: endpoint,
			Message: err.Error(), Cause: err,
		})
	}

	header, err := c.defaultHeader(ctx, !opts.SkipAuth)
	if err != nil {
		return payload.Value{}, c.fail(&Error{
			Kind: KindStore, Method: method, Endpoint: endpoint,
			Message: "read token: " + err.Error(), Cause: err,
		})
	}
	for key, values := range opts.Header {
		header[http.CanonicalHeaderKey(key)] = values
	}
	req.Header = header

	resp, err := c.http.Do(req)
	if err != nil {
		return payload.Value{}, c.fail(&Error{
			Kind: KindTransport, Method: method, Endpoint: endpoint,
			Message: err.Error(), Cause: err,
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return payload.Value{}, c.fail(&Error{
			Kind: KindHTTP, Status: resp.StatusCode, Method: method, Endpoint: endpoint,
			Message: errorMessage(resp.StatusCode, raw),
		})
	}

	if resp.StatusCode == http.StatusNoContent {
		return payload.Null(), nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return payload.Value{}, c.fail(&Error{
			Kind: KindTransport, Status: resp.StatusCode, Method: method, Endpoint: endpoint,
			Message: err.Error(), Cause: err,
		})
	}

	v, err := payload.Parse(raw)
	if err != nil {
		return payload.Value{}, c.fail(&Error{
			Kind: KindDecode, Status: resp.StatusCode, Method: method, Endpoint: endpoint,
			Message: err.Error(), Cause: err,
		})
	}
	return v, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) (payload.Value, error) {
	return c.send(ctx, http.MethodGet, endpoint, nil, opts)
}

// Post issues a POST request with data encoded as JSON. Nil data sends no body.
func (c *Client) Post(ctx context.Context, endpoint string, data any, opts ...RequestOption) (payload.Value, error) {
	return c.send(ctx, http.MethodPost, endpoint, data, opts)
}

// Put issues a PUT request with data encoded as JSON. Nil data sends no body.
func (c *Client) Put(ctx context.Context, endpoint string, data any, opts ...RequestOption) (payload.Value, error) {
	return c.send(ctx, http.MethodPut, endpoint, data, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...RequestOption) (payload.Value, error) {
	return c.send(ctx, http.MethodDelete, endpoint, nil, opts)
}

func (c *Client) send(ctx context.Context, method, endpoint string, data any, opts []RequestOption) (payload.Value, error) {
	var ro RequestOptions
	for _, o := range opts {
		o(&ro)
	}
	ro.Method = method

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return payload.Value{}, c.fail(&Error{
				Kind: KindEncode, Method: method, Endpoint: endpoint,
				Message: "encode request body: " + err.Error(), Cause: err,
			})
		}
		ro.Body = raw
	}
	return c.Request(ctx, endpoint, ro)
}

func (c *Client) defaultHeader(ctx context.Context, auth bool) (http.Header, error) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")

	if auth {
		token, err := c.store.Get(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
	if id := RequestIDFromContext(ctx); id != "" {
		h.Set(HeaderRequestID, id)
	}
	return h, nil
}

// fail logs e and returns it.
func (c *Client) fail(e *Error) error {
	ev := c.log.Error().
		Str("kind", e.Kind.String()).
		Str("method", e.Method).
		Str("endpoint", e.Endpoint)
	if e.Status != 0 {
		ev = ev.Int("status", e.Status)
	}
	if e.Cause != nil {
		ev = ev.AnErr("cause", e.Cause)
	}
	ev.Str("error", e.Message).Msg("request failed")
	return e
}

// errorMessage extracts the backend's "detail" from an error body.
func errorMessage(status int, body []byte) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	v, err := payload.Parse(body)
	if err != nil {
		return fallback
	}
	detail, ok := v.Get("detail")
	if !ok || detail.IsNull() {
		return fallback
	}
	if s, ok := detail.AsString(); ok {
		if s == "" {
			return fallback
		}
		return s
	}
	// FastAPI validation errors carry a list of objects.
	return detail.String()
}

type requestIDKey struct{}

// WithRequestID returns a context whose requests carry id in X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
