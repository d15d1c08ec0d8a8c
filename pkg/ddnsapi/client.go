// Package ddnsapi is the client side of the DDNS web API.
package ddnsapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/0x6666/ddns-client/pkg/httpclient"
	"github.com/google/uuid"
)

const (
	// RecodesPath is the record creation endpoint. The spelling is part of the server contract.
	RecodesPath = "/recodes"

	// DefaultContentType is used when a call does not override it.
	DefaultContentType = "application/x-www-form-urlencoded; charset=UTF-8"

	defaultTimeout = 15 * time.Second
)

// SuccessFunc receives the raw response body of a 2xx reply.
type SuccessFunc func(body []byte)

// FailureFunc receives an *Error for transport failures and non-2xx replies.
type FailureFunc func(err error)

// CallOptions tunes a single call. The zero value is the default: form
// content type, asynchronous completion.
type CallOptions struct {
	// ContentType defaults to DefaultContentType when empty.
	ContentType string
	// Blocking runs the request on the caller's goroutine and returns after the callback.
	Blocking bool
}

// Client issues calls against a single DDNS server.
type Client struct {
	baseURL string
	http    httpclient.Client
	newID   func() string
	wg      sync.WaitGroup
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The default is a resty client with a cookie jar.
func WithHTTPClient(c httpclient.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New builds a Client for the server at baseURL (scheme and host, optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ddns server url is empty")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("ddns server url %q must start with http:// or https://", baseURL)
	}

	c := &Client{
		baseURL: baseURL,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// BaseURL returns the server URL the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// NewRecode asks the server to create a record from data. It returns
// immediately; exactly one of onSuccess or onFailure runs later on another
// goroutine. Nil callbacks are skipped.
func (c *Client) NewRecode(ctx context.Context, data any, onSuccess SuccessFunc, onFailure FailureFunc) {
	c.NewRecodeWithOptions(ctx, data, onSuccess, onFailure, CallOptions{})
}

// NewRecodeWithOptions is NewRecode with a content type or blocking override.
func (c *Client) NewRecodeWithOptions(ctx context.Context, data any, onSuccess SuccessFunc, onFailure FailureFunc, opts CallOptions) {
	c.call(ctx, http.MethodPost, RecodesPath, data, onSuccess, onFailure, opts)
}

// Wait blocks until every in-flight call has delivered its callback.
func (c *Client) Wait() { c.wg.Wait() }

func (c *Client) call(ctx context.Context, method, path string, data any, onSuccess SuccessFunc, onFailure FailureFunc, opts CallOptions) {
	if ctx == nil {
		ctx = context.Background()
	}
	contentType := opts.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = DefaultContentType
	}

	run := func() {
		resp, err := c.roundTrip(ctx, method, path, data, contentType)
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return
		}
		if onSuccess != nil {
			onSuccess(resp)
		}
	}

	if opts.Blocking {
		run()
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		run()
	}()
}

// roundTrip performs one request and maps the outcome onto success body or *Error.
func (c *Client) roundTrip(ctx context.Context, method, path string, data any, contentType string) ([]byte, error) {
	body, err := encodeBody(data, contentType)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: err}
	}

	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:          method,
		URL:             c.baseURL + path,
		Body:            body,
		ContentType:     contentType,
		Headers:         map[string]string{"X-Request-ID": c.newID(), "X-Requested-With": "XMLHttpRequest"},
		NoCache:         true,
		WithCredentials: true,
	})
	if err != nil {
		return nil, &Error{Method: method, Path: path, Err: err}
	}

	code := resp.StatusCode()
	if code < 200 || code > 299 {
		return nil, &Error{
			Method:      method,
			Path:        path,
			StatusCode:  code,
			Status:      resp.Status(),
			ContentType: resp.Header("Content-Type"),
			Body:        resp.Body(),
		}
	}
	return resp.Body(), nil
}
