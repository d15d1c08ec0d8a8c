package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: "http"}
	bad := &stubPublisher{id: "bad", typ: "http", err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers should be dropped, size=%d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once, got ok=%d bad=%d", ok.calls, bad.calls)
	}

	if err := fanout.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ok.closed || !bad.closed {
		t.Fatalf("Close should reach every publisher")
	}
}

func TestNilFanoutIsInert(t *testing.T) {
	var f *Fanout
	if n, err := f.Publish(context.Background(), Event{}); n != 0 || err != nil {
		t.Fatalf("nil fanout publish = %d, %v", n, err)
	}
	if f.Size() != 0 || f.Close() != nil {
		t.Fatalf("nil fanout should be empty")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "x", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}
