// Package records loads the set of DNS records an agent keeps submitting.
package records

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Record is one entry of a records file. The payload is opaque to this
// package: Body is sent verbatim, otherwise Fields are form-encoded.
type Record struct {
	ID          string            `json:"id" yaml:"id"`
	Enabled     *bool             `json:"enabled" yaml:"enabled"`
	Fields      map[string]string `json:"fields" yaml:"fields"`
	Body        string            `json:"body" yaml:"body"`
	ContentType string            `json:"content_type" yaml:"content_type"`
}

type fileFormat struct {
	Records []Record `json:"records" yaml:"records"`
}

// Set is an immutable, validated collection of records.
type Set struct {
	records []Record
	idx     map[string]Record
}

// Load reads a YAML or JSON records file.
func Load(path string) (*Set, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("records file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes records content. ext selects the decoder (".yaml", ".yml",
// ".json"); an empty ext tries each in turn.
func Parse(data []byte, ext string) (*Set, error) {
	parsed, err := decode(data, ext)
	if err != nil {
		return nil, err
	}
	if len(parsed.Records) == 0 {
		return nil, errors.New("records file contains no records entries")
	}

	set := &Set{
		records: make([]Record, len(parsed.Records)),
		idx:     make(map[string]Record, len(parsed.Records)),
	}
	for i := range parsed.Records {
		r := sanitizeRecord(parsed.Records[i])
		if err := validateRecord(r); err != nil {
			return nil, fmt.Errorf("records[%d]: %w", i, err)
		}
		if _, exists := set.idx[r.ID]; exists {
			return nil, fmt.Errorf("duplicate record id %q", r.ID)
		}
		set.records[i] = r
		set.idx[r.ID] = r
	}
	return set, nil
}

type unmarshalFn func([]byte, any) error

func decode(data []byte, ext string) (fileFormat, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out fileFormat
		if err := d.fn(data, &out); err == nil {
			return out, nil
		}
	}
	return fileFormat{}, errors.New("records file format not recognized (expected YAML or JSON)")
}

func sanitizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	r.ContentType = strings.TrimSpace(r.ContentType)
	if r.Enabled == nil {
		def := true
		r.Enabled = &def
	}
	if len(r.Fields) > 0 {
		fields := make(map[string]string, len(r.Fields))
		for k, v := range r.Fields {
			if key := strings.TrimSpace(k); key != "" {
				fields[key] = strings.TrimSpace(v)
			}
		}
		r.Fields = fields
	}
	return r
}

func validateRecord(r Record) error {
	if r.ID == "" {
		return errors.New("id is required")
	}
	if len(r.Fields) == 0 && r.Body == "" {
		return fmt.Errorf("fields or body is required for record %q", r.ID)
	}
	if len(r.Fields) > 0 && r.Body != "" {
		return fmt.Errorf("record %q sets both fields and body", r.ID)
	}
	return nil
}

// All returns every record in file order.
func (s *Set) All() []Record {
	if s == nil {
		return nil
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Enabled returns records that are not switched off.
func (s *Set) Enabled() []Record {
	all := s.All()
	out := make([]Record, 0, len(all))
	for _, r := range all {
		if r.EnabledValue() {
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the record with the given id.
func (s *Set) ByID(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	r, ok := s.idx[strings.TrimSpace(id)]
	return r, ok
}

// EnabledValue returns enabled flag defaulting to true.
func (r Record) EnabledValue() bool {
	if r.Enabled == nil {
		return true
	}
	return *r.Enabled
}

// Payload is the data handed to the record submitter.
func (r Record) Payload() any {
	if r.Body != "" {
		return r.Body
	}
	values := make(url.Values, len(r.Fields))
	for k, v := range r.Fields {
		values.Set(k, v)
	}
	return values
}

// Fingerprint identifies the exact submission: id, content type and payload.
// Any edit to the record yields a new fingerprint.
func (r Record) Fingerprint() string {
	h := sha1.New() //nolint:gosec // non-cryptographic fingerprint
	h.Write([]byte(r.ID))
	h.Write([]byte{0})
	h.Write([]byte(r.ContentType))
	h.Write([]byte{0})
	if r.Body != "" {
		h.Write([]byte(r.Body))
	} else {
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			h.Write([]byte(k))
			h.Write([]byte{'='})
			h.Write([]byte(r.Fields[k]))
			h.Write([]byte{'&'})
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
