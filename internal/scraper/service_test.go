package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"trendsview/internal/config"
	"trendsview/internal/loader"
)

// fakeFetcher serves pages keyed by "category/pageNo".
type fakeFetcher struct {
	pages    map[string]string
	requests []string
}

func (f *fakeFetcher) FetchPage(_ context.Context, pageURL string) (*goquery.Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	key := u.Query().Get("category") + "/" + u.Query().Get("pageNo")
	f.requests = append(f.requests, key)
	html, ok := f.pages[key]
	if !ok {
		return nil, &StatusError{URL: pageURL, StatusCode: 500}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func card(name, growth string) string {
	return fmt.Sprintf(`<div class="trend-ultra-compact"><h3>%s</h3><div class="mb-2"><span>%s</span></div></div>`, name, growth)
}

func page(next bool, cards ...string) string {
	nav := `<button disabled>Next</button>`
	if next {
		nav = `<button>Next</button>`
	}
	return `<div class="grid">` + strings.Join(cards, "") + `</div>` + nav
}

func testService(fetcher PageFetcher, categories ...string) *Service {
	svc := NewService(config.ScraperConfig{
		BaseURL:     "https://example.test/exploding-trends",
		Categories:  categories,
		MaxPages:    3,
		Granularity: "Daily",
	}, fetcher, nil)
	svc.now = func() time.Time { return time.Date(2025, 10, 29, 23, 38, 30, 0, time.UTC) }
	return svc
}

func TestPageURL(t *testing.T) {
	svc := testService(nil)
	got, err := svc.PageURL("Arts & Culture", 2)
	if err != nil {
		t.Fatal(err)
	}
	want := "https://example.test/exploding-trends?category=Arts+%26+Culture&granularity=Daily&pageNo=2"
	if got != want {
		t.Fatalf("PageURL = %s, want %s", got, want)
	}

	svc.cfg.Source = "Tiktok"
	got, err = svc.PageURL("Sports", 1)
	if err != nil {
		t.Fatal(err)
	}
	want = "https://example.test/exploding-trends?category=Sports&granularity=Daily&pageNo=1&source=Tiktok"
	if got != want {
		t.Fatalf("PageURL = %s, want %s", got, want)
	}
}

func TestScrapeCategoryFollowsPagesUpToLimit(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"Sports/1": page(true, card("a", "+10%")),
		"Sports/2": page(true, card("b", "+20%")),
		"Sports/3": page(true, card("c", "+30%")),
		"Sports/4": page(false, card("d", "+40%")),
	}}
	trends, err := testService(fetcher).ScrapeCategory(context.Background(), "Sports")
	if err != nil {
		t.Fatal(err)
	}
	if len(trends) != 3 || trends[2].Name != "c" {
		t.Fatalf("unexpected trends %+v", trends)
	}
	if len(fetcher.requests) != 3 {
		t.Fatalf("requests=%v", fetcher.requests)
	}
}

func TestScrapeCategoryStopsWithoutNext(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"Sports/1": page(false, card("a", "+10%")),
	}}
	trends, err := testService(fetcher).ScrapeCategory(context.Background(), "Sports")
	if err != nil {
		t.Fatal(err)
	}
	if len(trends) != 1 || len(fetcher.requests) != 1 {
		t.Fatalf("trends=%d requests=%v", len(trends), fetcher.requests)
	}
}

func TestScrapeAllSkipsFailingCategory(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"Sports/1":     page(false, card("pickleball", "+1,234%")),
		"Technology/1": page(false, card("robots", "+50%"), card("chips", "-5%")),
	}}
	batches, err := testService(fetcher, "Sports", "Gaming", "Technology").ScrapeAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(batches) != 2 || batches[0].Category != "Sports" || batches[1].Category != "Technology" {
		t.Fatalf("unexpected batches %+v", batches)
	}
	rec := batches[0].Records[0]
	if rec.ScrapeTime != "2025-10-29 23:38:30 UTC" || rec.Granularity != "Daily" || rec.Category != "Sports" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Sign != "+" || rec.Value != "1234" {
		t.Fatalf("unexpected growth %+v", rec)
	}
	if len(Flatten(batches)) != 3 {
		t.Fatalf("flatten=%d", len(Flatten(batches)))
	}
}

type recordingPutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (p *recordingPutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if p.err != nil {
		return nil, p.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(in.Body); err != nil {
		return nil, err
	}
	p.inputs = append(p.inputs, in)
	p.bodies = append(p.bodies, buf.Bytes())
	return &s3.PutObjectOutput{}, nil
}

func TestRunWritesLoadableDataset(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"Arts & Culture/1": page(false, card("murals <3", "+1,234%")),
		"Sports/1":         page(false, card("pickleball", "+75%")),
	}}
	putter := &recordingPutter{}
	dir := t.TempDir()

	result, err := testService(fetcher, "Arts & Culture", "Sports").Run(context.Background(), dir, NewS3Publisher(putter, "bucket", "data/"))
	if err != nil {
		t.Fatal(err)
	}
	if result.Records != 2 || len(result.Files) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	wantPath := filepath.Join(dir, "tickertrends_daily_20251029_233830.json")
	if result.Files[0] != wantPath {
		t.Fatalf("path=%s", result.Files[0])
	}

	blob, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(blob, []byte(`"category": "Arts & Culture"`)) || !bytes.Contains(blob, []byte("murals <3")) {
		t.Fatalf("dataset should keep html characters literal:\n%s", blob)
	}

	rows, err := loader.New(nil).Load(context.Background(), wantPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].GrowthSort != 1234 || rows[1].Category != "Sports" {
		t.Fatalf("unexpected rows %+v", rows)
	}

	if len(putter.inputs) != 1 || *putter.inputs[0].Key != "data/tickertrends_daily_20251029_233830.json" {
		t.Fatalf("unexpected uploads %+v", putter.inputs)
	}
	if *putter.inputs[0].ContentType != "application/json" || !bytes.Equal(putter.bodies[0], blob) {
		t.Fatal("uploaded body should match the written file")
	}
	if len(result.Published) != 1 || result.Published[0] != "s3://bucket/data/tickertrends_daily_20251029_233830.json" {
		t.Fatalf("published=%v", result.Published)
	}
}

func TestRunPerCategory(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"Arts & Culture/1": page(false, card("murals", "+5%")),
		"Sports/1":         page(false, card("pickleball", "+75%")),
	}}
	svc := testService(fetcher, "Arts & Culture", "Sports")
	svc.cfg.PerCategory = true
	dir := t.TempDir()

	putter := &recordingPutter{err: errors.New("denied")}
	result, err := svc.Run(context.Background(), dir, NewS3Publisher(putter, "bucket", "data/"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "tickertrends_daily_arts-culture_20251029_233830.json"),
		filepath.Join(dir, "tickertrends_daily_sports_20251029_233830.json"),
	}
	if len(result.Files) != 2 || result.Files[0] != want[0] || result.Files[1] != want[1] {
		t.Fatalf("files=%v", result.Files)
	}
	if len(result.Published) != 0 {
		t.Fatalf("failed uploads should not be reported as published: %v", result.Published)
	}

	var records []map[string]any
	blob, _ := os.ReadFile(want[1])
	if err := json.Unmarshal(blob, &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0]["category"] != "Sports" {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestRunWithoutData(t *testing.T) {
	dir := t.TempDir()
	result, err := testService(&fakeFetcher{}, "Sports").Run(context.Background(), dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 0 {
		t.Fatalf("nothing should be written, got %v", result.Files)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("dir should stay empty, got %d entries", len(entries))
	}
}
