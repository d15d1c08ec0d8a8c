package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestRunNewRecodeWithFields(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":7}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	code, err := run([]string{"new-recode", "--server_url", srv.URL, "--field", "name=home", "--field", "value=10.0.0.1"}, &out)
	if err != nil || code != 0 {
		t.Fatalf("run = %d, %v", code, err)
	}
	if out.String() != `{"id":7}` {
		t.Fatalf("stdout = %q", out.String())
	}
	if gotForm.Get("name") != "home" || gotForm.Get("value") != "10.0.0.1" {
		t.Fatalf("unexpected form %v", gotForm)
	}
}

func TestRunNewRecodeBodyAndContentType(t *testing.T) {
	var gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	code, err := run([]string{"new-recode", "--server_url", srv.URL, "--body", `{"name":"home"}`, "--content-type", "application/json"}, io.Discard)
	if err != nil || code != 0 {
		t.Fatalf("run = %d, %v", code, err)
	}
	if gotType != "application/json" || gotBody != `{"name":"home"}` {
		t.Fatalf("content type %q body %q", gotType, gotBody)
	}
}

func TestRunNewRecodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("<html><head><title>bad record</title></head></html>"))
	}))
	defer srv.Close()

	code, err := run([]string{"new-recode", "--server_url", srv.URL, "--field", "name=home"}, io.Discard)
	if code != 1 || err == nil {
		t.Fatalf("run = %d, %v; want exit 1", code, err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("bad record")) {
		t.Fatalf("error should carry the page title, got %v", err)
	}
}

func TestRunRejectsBadUsage(t *testing.T) {
	cases := map[string][]string{
		"no subcommand":   nil,
		"unknown command": {"delete"},
		"no payload":      {"new-recode"},
		"both payloads":   {"new-recode", "--body", "a=1", "--field", "a=1"},
		"bad field":       {"new-recode", "--field", "novalue"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if code, err := run(args, io.Discard); code != 2 || err == nil {
				t.Fatalf("run = %d, %v; want usage error", code, err)
			}
		})
	}
}
