package records

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRecordsYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "records.yaml")
	content := `
records:
  - id: home
    fields:
      name: home
      type: A
      value: " 10.0.0.1 "
  - id: raw
    enabled: false
    body: "name=raw&type=TXT&value=hello"
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write records file: %v", err)
	}

	set, err := Load(file)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(set.All()) != 2 {
		t.Fatalf("expected 2 records, got %d", len(set.All()))
	}
	enabled := set.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "home" {
		t.Fatalf("unexpected enabled records %#v", enabled)
	}

	home, ok := set.ByID("home")
	if !ok {
		t.Fatalf("expected record home to be loaded")
	}
	values, ok := home.Payload().(url.Values)
	if !ok {
		t.Fatalf("payload is %T, want url.Values", home.Payload())
	}
	if values.Get("value") != "10.0.0.1" || values.Get("type") != "A" {
		t.Fatalf("unexpected payload %v", values)
	}

	raw, _ := set.ByID("raw")
	if raw.Payload() != "name=raw&type=TXT&value=hello" {
		t.Fatalf("raw body payload = %v", raw.Payload())
	}
}

func TestParseJSON(t *testing.T) {
	set, err := Parse([]byte(`{"records":[{"id":"j","content_type":"application/json","body":"{\"name\":\"j\"}"}]}`), ".json")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r, _ := set.ByID("j")
	if r.ContentType != "application/json" {
		t.Fatalf("ContentType = %q", r.ContentType)
	}
}

func TestParseRejectsInvalidRecords(t *testing.T) {
	cases := map[string]string{
		"duplicate id": `
records:
  - id: dup
    body: a=1
  - id: dup
    body: a=2
`,
		"missing id": `
records:
  - body: a=1
`,
		"no payload": `
records:
  - id: empty
`,
		"both payloads": `
records:
  - id: both
    body: a=1
    fields:
      a: "1"
`,
		"no records": `records: []`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(content), ".yaml"); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestFingerprintTracksPayloadChanges(t *testing.T) {
	a := Record{ID: "home", Fields: map[string]string{"name": "home", "value": "10.0.0.1"}}
	b := Record{ID: "home", Fields: map[string]string{"value": "10.0.0.1", "name": "home"}}
	c := Record{ID: "home", Fields: map[string]string{"name": "home", "value": "10.0.0.2"}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("field order must not change the fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("changed value must change the fingerprint")
	}
}
