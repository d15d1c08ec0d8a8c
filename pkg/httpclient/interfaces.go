package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Status() string
	Header(key string) string
}

// Request describes a single outbound call.
type Request struct {
	Method      string
	URL         string
	Body        []byte
	ContentType string
	Headers     map[string]string
	// NoCache sends no-cache headers and, for GET/HEAD, a "_" cache-busting query parameter.
	NoCache bool
	// WithCredentials attaches cookies from the client's jar and stores Set-Cookie replies.
	WithCredentials bool
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	Do(ctx context.Context, req Request) (Response, error)
}
