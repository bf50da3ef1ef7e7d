// Package apiclient is the authenticated pipeline every backend call goes through.
//
// Before a request leaves, the stored access token is attached, refreshing it
// first when it is missing or expired. A 401 on the way back triggers one
// refresh and one replay of the request. Refreshes for the same session are
// coalesced so concurrent requests share one call to the backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/internal/metrics"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/jrsteele09/go-lecturer-console/token"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRefreshPath = "api/token/refresh/"
	DefaultTimeout     = 5 * time.Second
	defaultFlightKey   = "refresh"
)

// RedirectFunc sends the user to the login page. It is a side effect only; the
// request that triggered it still fails with the refresh error.
type RedirectFunc func(ctx context.Context)

type Client struct {
	baseURL     *url.URL
	store       session.Store
	httpClient  *http.Client
	refreshHTTP *http.Client
	refreshPath string
	redirect    RedirectFunc
	flights     *singleflight.Group
	flightKey   string
	nowFunc     func() time.Time
}

type ClientOption func(*Client)

// WithHTTPClient replaces the client used for ordinary requests
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRefreshHTTPClient replaces the dedicated client used for the refresh call
func WithRefreshHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.refreshHTTP = hc
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
		c.refreshHTTP.Timeout = timeout
	}
}

func WithRefreshPath(path string) ClientOption {
	return func(c *Client) {
		c.refreshPath = strings.TrimPrefix(path, "/")
	}
}

func WithLoginRedirect(redirect RedirectFunc) ClientOption {
	return func(c *Client) {
		c.redirect = redirect
	}
}

// WithRefreshGroup shares refresh coalescing between clients bound to the same
// session, e.g. per-request clients of one browser session. key identifies the session.
func WithRefreshGroup(group *singleflight.Group, key string) ClientOption {
	return func(c *Client) {
		c.flights = group
		c.flightKey = key
	}
}

func WithNowFunc(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowFunc = now
	}
}

// New creates a client for the backend rooted at baseURL that keeps its
// credentials in store.
func New(baseURL string, store session.Store, opts ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "[apiclient New] invalid base URL %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient New] base URL %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL:     u,
		store:       store,
		httpClient:  &http.Client{Timeout: DefaultTimeout},
		refreshHTTP: &http.Client{Timeout: DefaultTimeout},
		refreshPath: DefaultRefreshPath,
		redirect:    func(context.Context) {},
		flights:     &singleflight.Group{},
		flightKey:   defaultFlightKey,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Store returns the credential store the client reads on every request
func (c *Client) Store() session.Store {
	return c.store
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveURL resolves a backend-relative path against the base URL
func (c *Client) ResolveURL(path string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "[apiclient ResolveURL] invalid path %q", path)
	}
	return c.baseURL.ResolveReference(ref), nil
}

// AttachCredentials sets the Authorization header on req from the store.
// A missing or expired access token is refreshed first. With neither token
// stored the request goes out unauthenticated.
func (c *Client) AttachCredentials(req *http.Request) error {
	if isAnonymous(req.Context()) {
		return nil
	}

	access := c.store.GetAccessToken()
	switch {
	case access == "" && c.store.GetRefreshToken() == "":
		return nil
	case access == "" || token.IsExpired(access, c.nowFunc()):
		var err error
		if access, err = c.Refresh(req.Context()); err != nil {
			return err
		}
	}

	setBearer(req, access)
	return nil
}

// Refresh exchanges the stored refresh token for a new access token and
// stores it. Concurrent callers share one backend call and its result.
//
// A missing or rejected refresh token clears both tokens and invokes the login
// redirect. An unreachable refresh endpoint leaves the tokens in place.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	// The shared call must not die with whichever caller happened to start it.
	detached := context.WithoutCancel(ctx)
	v, err, shared := c.flights.Do(c.flightKey, func() (any, error) {
		return c.refresh(detached)
	})
	if shared {
		log.Debug().Msg("Joined in-flight token refresh")
	}
	if err != nil {
		// Every caller sharing the failure redirects, not only the one that ran it.
		if errors.Is(err, errors.ErrNoRefreshToken) || errors.Is(err, errors.ErrRefreshRejected) {
			c.redirect(ctx)
		}
		return "", err
	}
	return v.(string), nil
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	refreshToken := c.store.GetRefreshToken()
	if refreshToken == "" {
		metrics.ObserveRefresh(metrics.RefreshNoToken)
		return "", c.forgetTokens(errors.ErrNoRefreshToken)
	}

	endpoint, err := c.ResolveURL(c.refreshPath)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.refreshHTTP.Do(req)
	if err != nil {
		metrics.ObserveRefresh(metrics.RefreshUnavailable)
		log.Warn().Err(err).Msg("Token refresh endpoint unreachable")
		return "", fmt.Errorf("%w: %v", errors.ErrRefreshUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		metrics.ObserveRefresh(metrics.RefreshUnavailable)
		log.Warn().Int("status", resp.StatusCode).Msg("Token refresh endpoint failed")
		return "", fmt.Errorf("%w: status %d", errors.ErrRefreshUnavailable, resp.StatusCode)
	}

	var body refreshResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveRefresh(metrics.RefreshRejected)
		return "", c.forgetTokens(fmt.Errorf("%w: status %d", errors.ErrRefreshRejected, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Access == "" {
		metrics.ObserveRefresh(metrics.RefreshRejected)
		return "", c.forgetTokens(fmt.Errorf("%w: response carried no access token", errors.ErrRefreshRejected))
	}

	if body.Refresh != "" {
		err = c.store.SetTokens(body.Access, body.Refresh)
	} else {
		err = c.store.SetAccessToken(body.Access)
	}
	if err != nil {
		return "", errors.Wrapf(err, "[apiclient refresh] failed to store refreshed token")
	}

	metrics.ObserveRefresh(metrics.RefreshSuccess)
	log.Debug().Bool("rotated", body.Refresh != "").Msg("Access token refreshed")
	return body.Access, nil
}

// forgetTokens clears the session before returning cause. Refresh fires the
// login redirect once the shared call has settled.
func (c *Client) forgetTokens(cause error) error {
	if err := c.store.ClearTokens(); err != nil {
		log.Err(err).Msg("Failed to clear tokens after refresh failure")
	}
	log.Info().Err(cause).Msg("Login required")
	return cause
}

// Do sends req through the pipeline. A 401 on a request not yet replayed
// triggers exactly one refresh and exactly one replay with the new token.
// Any other response, including a 401 on the replay, is returned unchanged.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if err := c.AttachCredentials(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || isAnonymous(req.Context()) || isRetried(req.Context()) {
		return resp, nil
	}

	retry, err := replayable(req)
	if err != nil {
		log.Warn().Err(err).Str("path", req.URL.Path).Msg("Not replaying 401")
		return resp, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	access, err := c.Refresh(req.Context())
	if err != nil {
		return nil, err
	}

	setBearer(retry, access)
	metrics.ObserveRetry()
	return c.httpClient.Do(retry)
}

// NewRequest builds a request against a backend-relative path. A non-nil
// body is sent as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u, err := c.ResolveURL(path)
	if err != nil {
		return nil, err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrapf(err, "[apiclient NewRequest] failed to encode body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// DoJSON sends in as JSON and decodes a 2xx response into out. Non-2xx
// responses are returned as *APIError. Either in or out may be nil.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := c.NewRequest(ctx, method, path, query, in)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &APIError{StatusCode: resp.StatusCode, Body: body}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return errors.Wrapf(err, "[apiclient DoJSON] failed to decode %s %s", method, path)
	}
	return nil
}

// replayable clones req for a second send, marked so it is never replayed again
func replayable(req *http.Request) (*http.Request, error) {
	retry := req.Clone(markRetried(req.Context()))
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errors.ErrRequestNotReplayable
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrRequestNotReplayable, err)
		}
		retry.Body = body
	}
	return retry, nil
}

func setBearer(req *http.Request, access string) {
	(&oauth2.Token{AccessToken: access, TokenType: "Bearer"}).SetAuthHeader(req)
}
