package ddnsapi

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorSummaryUsesHTMLTitle(t *testing.T) {
	err := &Error{
		Method:      "POST",
		Path:        RecodesPath,
		StatusCode:  502,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte("<html><head><title>502 Bad Gateway</title></head><body><h1>oops</h1></body></html>"),
	}
	if got := err.Summary(); got != "502 Bad Gateway" {
		t.Fatalf("Summary = %q", got)
	}
	if !strings.HasSuffix(err.Error(), ": 502 Bad Gateway") {
		t.Fatalf("Error = %q", err.Error())
	}
}

func TestErrorSummaryFallsBackToBodyText(t *testing.T) {
	err := &Error{Body: []byte("<!DOCTYPE html><html><body>\n  session   expired \n</body></html>")}
	if got := err.Summary(); got != "session expired" {
		t.Fatalf("Summary = %q", got)
	}
}

func TestErrorSummaryTruncatesPlainBodies(t *testing.T) {
	err := &Error{ContentType: "text/plain", Body: []byte(strings.Repeat("x", 600))}
	got := err.Summary()
	if len(got) != maxSummaryLen+3 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected summary length %d", len(got))
	}
}

func TestErrorUnwrapsTransportCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &Error{Method: "POST", Path: RecodesPath, Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find cause")
	}
	if !err.Transport() {
		t.Fatalf("expected transport failure")
	}
}

func TestEncodeBodyShapes(t *testing.T) {
	cases := []struct {
		name        string
		data        any
		contentType string
		want        string
		wantErr     bool
	}{
		{name: "raw string", data: "a=1", contentType: DefaultContentType, want: "a=1"},
		{name: "raw bytes json", data: []byte(`{"a":1}`), contentType: "application/json", want: `{"a":1}`},
		{name: "string map form", data: map[string]string{"b": "2", "a": "1"}, contentType: DefaultContentType, want: "a=1&b=2"},
		{name: "struct json", data: struct {
			Name string `json:"name"`
		}{"home"}, contentType: "application/json", want: `{"name":"home"}`},
		{name: "struct form", data: struct{}{}, contentType: DefaultContentType, wantErr: true},
		{name: "unknown type", data: 42, contentType: "text/xml", wantErr: true},
		{name: "nil", data: nil, contentType: DefaultContentType, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encodeBody(tc.data, tc.contentType)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("encodeBody: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("body = %q, want %q", got, tc.want)
			}
		})
	}
}
