// ABOUTME: HTTP client for the venue console backend API
// ABOUTME: Attaches the bearer credential and maps responses to typed errors

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
	"strings"
	"sync"
	"time"
)

// CredentialSource supplies the bearer token for outgoing requests.
// An empty token means the request is sent without Authorization.
type CredentialSource interface {
	AccessToken() string
}

// Client is the API client for the venue backend
type Client struct {
	baseURL    string
	httpClient *http.Client

	credMu sync.RWMutex
	creds  CredentialSource

	common service

	Auth          *AuthService
	States        *StateService
	Venues        *VenueService
	Contacts      *ContactService
	Connections   *ConnectionService
	Audio         *AudioService
	Discovery     *DiscoveryService
	Chat          *ChatService
	Reminders     *ReminderService
	Notifications *NotificationService
	Events        *EventService
	Opportunities *OpportunityService
	Budget        *BudgetService
	Profile       *ProfileService
	Outreach      *OutreachService
}

type service struct {
	c *Client
}

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	allProxy   string
	creds      CredentialSource
}

// Option configures a Client
type Option func(*options)

// WithHTTPClient replaces the underlying http.Client. Its transport is still
// wrapped with request logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithProxy routes connections through an ssh+socks5:// tunnel.
func WithProxy(allProxy string) Option {
	return func(o *options) { o.allProxy = allProxy }
}

// WithCredentials sets the bearer token source.
func WithCredentials(src CredentialSource) Option {
	return func(o *options) { o.creds = src }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var hc http.Client
	if o.httpClient != nil {
		hc = *o.httpClient
	}
	next := hc.Transport
	if next == nil || o.allProxy != "" {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if o.allProxy != "" {
			if dial := createSOCKS5DialContextFunc(o.allProxy); dial != nil {
				base.DialContext = dial
			}
		}
		next = base
	}
	hc.Transport = &loggingTransport{next: next}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &hc,
		creds:      o.creds,
	}
	c.common.c = c
	c.Auth = (*AuthService)(&c.common)
	c.States = (*StateService)(&c.common)
	c.Venues = (*VenueService)(&c.common)
	c.Contacts = (*ContactService)(&c.common)
	c.Connections = (*ConnectionService)(&c.common)
	c.Audio = (*AudioService)(&c.common)
	c.Discovery = (*DiscoveryService)(&c.common)
	c.Chat = (*ChatService)(&c.common)
	c.Reminders = (*ReminderService)(&c.common)
	c.Notifications = (*NotificationService)(&c.common)
	c.Events = (*EventService)(&c.common)
	c.Opportunities = (*OpportunityService)(&c.common)
	c.Budget = (*BudgetService)(&c.common)
	c.Profile = (*ProfileService)(&c.common)
	c.Outreach = (*OutreachService)(&c.common)
	return c
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string { return c.baseURL }

// SetCredentials swaps the bearer token source. The session holder is built
// after the client, so it is attached here.
func (c *Client) SetCredentials(src CredentialSource) {
	c.credMu.Lock()
	c.creds = src
	c.credMu.Unlock()
}

func (c *Client) accessToken() string {
	c.credMu.RLock()
	src := c.creds
	c.credMu.RUnlock()
	if src == nil {
		return ""
	}
	return src.AccessToken()
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// newRequest builds a request with a JSON body (if any) and the bearer header.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal input: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)
	return req, nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// send issues req and returns the response for any 2xx status. The caller
// closes the body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(req.Context(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, c.handleErrorResponse(resp)
	}
	return resp, nil
}

// do sends req and decodes a JSON body into v. A nil v discards the body.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, v any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, v)
}

func (c *Client) post(ctx context.Context, path string, body, v any) error {
	return c.call(ctx, http.MethodPost, path, nil, body, v)
}

func (c *Client) put(ctx context.Context, path string, body, v any) error {
	return c.call(ctx, http.MethodPut, path, nil, body, v)
}

func (c *Client) patch(ctx context.Context, path string, body, v any) error {
	return c.call(ctx, http.MethodPatch, path, nil, body, v)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil, nil)
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ErrCanceled
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Timeout() {
		return ErrTimeout
	}
	return &NetworkError{BaseURL: c.baseURL, Err: err}
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	return parseErrorResponse(resp)
}

// getList fetches a collection that may be a bare JSON array or a paginated
// {"results": [...]} envelope.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var l list[T]
	if err := c.get(ctx, path, query, &l); err != nil {
		return nil, err
	}
	return []T(l), nil
}

type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var page struct {
			Results []T `json:"results"`
		}
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		*l = page.Results
		return nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

func idPath(format string, ids ...int) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}
