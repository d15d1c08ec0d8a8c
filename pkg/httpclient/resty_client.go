package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
	bare   *resty.Client
	jar    http.CookieJar
	now    func() time.Time
}

// NewRestyClient creates a new RestyClient with the specified timeout and a fresh cookie jar.
func NewRestyClient(timeout time.Duration) *RestyClient {
	jar, err := NewCookieJar()
	if err != nil {
		// cookiejar.New only fails on invalid options; keep going without persisted cookies.
		jar = nil
	}
	return NewRestyClientWithJar(timeout, jar)
}

// NewRestyClientWithJar creates a RestyClient that stores credentials in jar.
func NewRestyClientWithJar(timeout time.Duration, jar http.CookieJar) *RestyClient {
	c := newRestyBaseClient(timeout)
	bare := newRestyBaseClient(timeout)
	bare.SetTransport(c.GetClient().Transport)
	if jar != nil {
		c.SetCookieJar(jar)
	} else {
		jar = c.GetClient().Jar
	}
	bare.SetCookieJar(nil)
	return &RestyClient{client: c, bare: bare, jar: jar, now: time.Now}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(timeout)
}

// NewCookieJar builds a cookie jar honoring the public suffix list.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

// SeedCookie stores a cookie for rawURL in the client's jar.
func (r *RestyClient) SeedCookie(rawURL string, cookie *http.Cookie) error {
	if r.jar == nil {
		return fmt.Errorf("client has no cookie jar")
	}
	if cookie == nil || cookie.Name == "" {
		return fmt.Errorf("cookie name is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse cookie url: %w", err)
	}
	r.jar.SetCookies(u, []*http.Cookie{cookie})
	return nil
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// Do executes req and returns the raw response. Non-2xx statuses are not errors here.
func (r *RestyClient) Do(ctx context.Context, in Request) (Response, error) {
	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = http.MethodGet
	}

	base := r.bare
	if in.WithCredentials {
		base = r.client
	}

	req := base.R().SetContext(ctx)
	if len(in.Headers) > 0 {
		req.SetHeaders(in.Headers)
	}
	if in.ContentType != "" {
		req.SetHeader("Content-Type", in.ContentType)
	}
	if in.Body != nil {
		req.SetBody(in.Body)
	}

	target := in.URL
	if in.NoCache {
		req.SetHeader("Cache-Control", "no-cache")
		req.SetHeader("Pragma", "no-cache")
		if method == http.MethodGet || method == http.MethodHead {
			busted, err := bustCache(target, r.now())
			if err != nil {
				return nil, err
			}
			target = busted
		}
	}

	resp, err := req.Execute(method, target)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// bustCache appends a "_=<unix millis>" query parameter to raw.
func bustCache(raw string, now time.Time) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	q := u.Query()
	q.Set("_", strconv.FormatInt(now.UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte             { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int          { return r.resp.StatusCode() }
func (r *restyResponseAdapter) Status() string           { return r.resp.Status() }
func (r *restyResponseAdapter) Header(key string) string { return r.resp.Header().Get(key) }
