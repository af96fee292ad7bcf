package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trendsview/internal"
	"trendsview/internal/config"
	"trendsview/internal/logging"
	"trendsview/internal/view"
)

type stubLoader struct {
	rows     []internal.TrendRow
	err      error
	gotURL   string
	deadline bool
}

func (s *stubLoader) Load(ctx context.Context, rawURL string) ([]internal.TrendRow, error) {
	s.gotURL = rawURL
	_, s.deadline = ctx.Deadline()
	return s.rows, s.err
}

func TestViewerOpen(t *testing.T) {
	loader := &stubLoader{rows: []internal.TrendRow{
		{Category: "Sports", Keyword: "padel", GrowthSort: 10},
		{Category: "Finance", Keyword: "gold", GrowthSort: 20},
	}}
	cfg := config.Config{DataURL: "data/trends.json", DefaultCategory: "Finance", PageLength: 10, FetchTimeoutMs: 500}

	state, err := NewViewer(cfg, loader, nil).Open(context.Background(), "Sports")
	if err != nil {
		t.Fatal(err)
	}
	if loader.gotURL != "data/trends.json" || !loader.deadline {
		t.Fatalf("loader called with %q deadline=%v", loader.gotURL, loader.deadline)
	}
	if active, ok := state.ActiveCategory(); !ok || active != "Sports" {
		t.Fatalf("url category should win, got %q", active)
	}
	if state.Table.PageLength() != 10 || state.ExportTitle != "tiktok_viral_keywords" {
		t.Fatalf("options not applied: length=%d title=%q", state.Table.PageLength(), state.ExportTitle)
	}
}

func TestViewerOpenLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	loader := &stubLoader{err: errors.New("fetch data/trends.json: HTTP 500")}
	viewer := NewViewer(config.Config{DataURL: "data/trends.json"}, loader, logging.NewWithWriter(&buf, "info"))

	state, err := viewer.Open(context.Background(), "")
	if err == nil || state != nil {
		t.Fatalf("expected error and no state, got %v %v", state, err)
	}
	if loader.deadline {
		t.Fatal("no deadline expected without a fetch timeout")
	}
	if !strings.Contains(buf.String(), "HTTP 500") {
		t.Fatalf("failure not logged: %s", buf.String())
	}
}

func TestViewerTimeoutIsApplied(t *testing.T) {
	viewer := NewViewer(config.Config{FetchTimeoutMs: 250}, &stubLoader{}, nil)
	if viewer.timeout != 250*time.Millisecond {
		t.Fatalf("timeout=%s", viewer.timeout)
	}
}

func TestInitialize(t *testing.T) {
	loader := &stubLoader{rows: []internal.TrendRow{
		{Category: "Sports", Keyword: "padel", GrowthSort: 10},
		{Category: "Finance", Keyword: "gold", GrowthSort: 20},
		{Category: "Finance", Keyword: "silver", GrowthSort: 5},
	}}

	state, err := Initialize(context.Background(), loader, "https://example.test/trends.json", view.Options{
		URLCategory:     "",
		DefaultCategory: "Sports",
		PageLength:      1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if loader.gotURL != "https://example.test/trends.json" {
		t.Fatalf("loader called with %q", loader.gotURL)
	}
	if active, ok := state.ActiveCategory(); !ok || active != "Sports" {
		t.Fatalf("default category should apply, got %q", active)
	}

	state, err = Initialize(context.Background(), loader, "https://example.test/trends.json", view.Options{
		URLCategory:     "Finance",
		DefaultCategory: "Sports",
	})
	if err != nil {
		t.Fatal(err)
	}
	if active, _ := state.ActiveCategory(); active != "Finance" || len(state.Table.FilteredRows()) != 2 {
		t.Fatalf("url category should win, active=%q rows=%d", active, len(state.Table.FilteredRows()))
	}
}

func TestInitializeLoadError(t *testing.T) {
	state, err := Initialize(context.Background(), &stubLoader{err: errors.New("boom")}, "x", view.Options{})
	if err == nil || state != nil {
		t.Fatalf("expected error without state, got %v %v", state, err)
	}
}
