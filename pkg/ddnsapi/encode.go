package ddnsapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"
)

// encodeBody turns caller data into the request body without interpreting it.
// Raw shapes ([]byte, string, io.Reader) pass through untouched.
func encodeBody(data any, contentType string) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case io.Reader:
		raw, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		return raw, nil
	}

	switch mediaType(contentType) {
	case "application/x-www-form-urlencoded":
		values, ok := formValues(data)
		if !ok {
			return nil, fmt.Errorf("cannot form-encode %T", data)
		}
		return []byte(values.Encode()), nil
	case "application/json":
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode json body: %w", err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("cannot encode %T as %q", data, contentType)
	}
}

func formValues(data any) (url.Values, bool) {
	switch v := data.(type) {
	case url.Values:
		return v, true
	case map[string][]string:
		return url.Values(v), true
	case map[string]string:
		values := make(url.Values, len(v))
		for k, val := range v {
			values.Set(k, val)
		}
		return values, true
	}
	return nil, false
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}
