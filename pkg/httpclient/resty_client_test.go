package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDoSendsBodyAndHeaders(t *testing.T) {
	var gotBody, gotCT, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotCT = r.Header.Get("Content-Type")
		gotCache = r.Header.Get("Cache-Control")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         srv.URL + "/recodes",
		Body:        []byte("a=1&b=2"),
		ContentType: "application/x-www-form-urlencoded; charset=UTF-8",
		NoCache:     true,
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusCreated || string(resp.Body()) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode(), resp.Body())
	}
	if gotBody != "a=1&b=2" {
		t.Fatalf("body = %q", gotBody)
	}
	if gotCT != "application/x-www-form-urlencoded; charset=UTF-8" {
		t.Fatalf("content type = %q", gotCT)
	}
	if gotCache != "no-cache" {
		t.Fatalf("cache-control = %q", gotCache)
	}
}

func TestDoBustsCacheOnGet(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("_")
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	client.now = func() time.Time { return time.UnixMilli(1700000000123) }

	if _, err := client.Do(context.Background(), Request{Method: http.MethodGet, URL: srv.URL, NoCache: true}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotQuery != "1700000000123" {
		t.Fatalf("cache-busting param = %q", gotQuery)
	}
}

func TestDoCredentialsControlCookies(t *testing.T) {
	var cookies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("ddns_sid")
		if err != nil {
			cookies = append(cookies, "")
			return
		}
		cookies = append(cookies, c.Value)
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	if err := client.SeedCookie(srv.URL, &http.Cookie{Name: "ddns_sid", Value: "s3cret"}); err != nil {
		t.Fatalf("SeedCookie: %v", err)
	}

	ctx := context.Background()
	if _, err := client.Do(ctx, Request{Method: http.MethodPost, URL: srv.URL, WithCredentials: true}); err != nil {
		t.Fatalf("Do with credentials: %v", err)
	}
	if _, err := client.Do(ctx, Request{Method: http.MethodPost, URL: srv.URL}); err != nil {
		t.Fatalf("Do without credentials: %v", err)
	}

	if strings.Join(cookies, ",") != "s3cret," {
		t.Fatalf("cookies seen = %v", cookies)
	}
}

func TestSeedCookieRejectsEmptyName(t *testing.T) {
	client := NewRestyClient(time.Second)
	if err := client.SeedCookie("http://example.com", &http.Cookie{}); err == nil {
		t.Fatalf("expected error for empty cookie name")
	}
}
