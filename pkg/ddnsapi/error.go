package ddnsapi

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryLen = 512

// Error is handed to FailureFunc. StatusCode is zero when no response arrived.
type Error struct {
	Method      string
	Path        string
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
	Err         error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if s := e.Summary(); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the request failed before any response arrived.
func (e *Error) Transport() bool { return e.StatusCode == 0 }

// Summary condenses the response body. HTML error pages collapse to their
// title, or their visible text when there is no title.
func (e *Error) Summary() string {
	body := bytes.TrimSpace(e.Body)
	if len(body) == 0 {
		return ""
	}
	if isHTML(e.ContentType, body) {
		if s := htmlSummary(body); s != "" {
			return truncate(s)
		}
	}
	return truncate(string(body))
}

func isHTML(contentType string, body []byte) bool {
	if mediaType(contentType) == "text/html" {
		return true
	}
	head := strings.ToLower(string(body[:min(len(body), 64)]))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

func htmlSummary(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}

func truncate(s string) string {
	if len(s) > maxSummaryLen {
		return s[:maxSummaryLen] + "..."
	}
	return s
}
