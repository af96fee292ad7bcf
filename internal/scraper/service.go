package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trendsview/internal"
	"trendsview/internal/config"
	"trendsview/internal/logging"
)

const scrapeTimeLayout = "2006-01-02 15:04:05 UTC"

// PageFetcher downloads and parses one listing page.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (*goquery.Document, error)
}

// Batch holds the records scraped for one category.
type Batch struct {
	Category string
	Records  []internal.RawRecord
}

type Service struct {
	cfg     config.ScraperConfig
	fetcher PageFetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(cfg config.ScraperConfig, fetcher PageFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{cfg: cfg, fetcher: fetcher, logger: logger, now: time.Now}
}

// PageURL is the listing page for category at a 1-based page number. The
// trend source is sent only when configured.
func (s *Service) PageURL(category string, page int) (string, error) {
	u, err := url.Parse(s.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("category", category)
	q.Set("granularity", s.cfg.Granularity)
	q.Set("pageNo", strconv.Itoa(page))
	if s.cfg.Source != "" {
		q.Set("source", s.cfg.Source)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ScrapeCategory walks the listing pages of one category until there is no
// next page or the page limit is hit.
func (s *Service) ScrapeCategory(ctx context.Context, category string) ([]internal.ScrapedTrend, error) {
	maxPages := s.cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	trends := make([]internal.ScrapedTrend, 0)
	for page := 1; page <= maxPages; page++ {
		pageURL, err := s.PageURL(category, page)
		if err != nil {
			return nil, err
		}
		doc, err := s.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		found := ExtractPageTrends(doc)
		if page == 1 && len(found) == 0 {
			return nil, fmt.Errorf("no trend cards found for %q", category)
		}
		trends = append(trends, found...)
		if !HasNext(doc) {
			break
		}
	}
	return trends, nil
}

// ScrapeAll scrapes every configured category. A failing category is logged
// and skipped; only cancellation aborts the run.
func (s *Service) ScrapeAll(ctx context.Context) ([]Batch, error) {
	scrapeTime := s.now().UTC().Format(scrapeTimeLayout)

	batches := make([]Batch, 0, len(s.cfg.Categories))
	for _, category := range s.cfg.Categories {
		if err := ctx.Err(); err != nil {
			return batches, err
		}
		s.logger.Info("scraping category", "category", category)

		trends, err := s.ScrapeCategory(ctx, category)
		if err != nil {
			if ctx.Err() != nil {
				return batches, ctx.Err()
			}
			s.logger.Warn("skipped category", "category", category, "error", err)
			continue
		}

		records := make([]internal.RawRecord, 0, len(trends))
		for _, t := range trends {
			records = append(records, internal.RawRecord{
				ScrapeTime:    scrapeTime,
				Granularity:   s.cfg.Granularity,
				Category:      category,
				Name:          t.Name,
				Sign:          t.Sign,
				Value:         t.Value,
				RawGrowth:     t.RawGrowth,
				TickerSymbol:  t.TickerSymbol,
				TickerPercent: t.TickerPercent,
			})
		}
		s.logger.Info("collected rows", "category", category, "rows", len(records))
		batches = append(batches, Batch{Category: category, Records: records})
	}
	return batches, nil
}

// RunResult lists what a scrape run produced.
type RunResult struct {
	Records   int
	Files     []string
	Published []string
}

// Run scrapes, writes the dataset into dir and hands every file to pub when
// one is given. Without any records nothing is written.
func (s *Service) Run(ctx context.Context, dir string, pub Publisher) (RunResult, error) {
	var result RunResult

	batches, err := s.ScrapeAll(ctx)
	if err != nil {
		return result, err
	}
	stamp := s.now()

	type dataset struct {
		name    string
		records []internal.RawRecord
	}
	var sets []dataset
	if s.cfg.PerCategory {
		for _, b := range batches {
			if len(b.Records) == 0 {
				continue
			}
			sets = append(sets, dataset{name: DatasetFilename(b.Category, stamp), records: b.Records})
		}
	} else {
		all := Flatten(batches)
		if len(all) > 0 {
			sets = append(sets, dataset{name: DatasetFilename("", stamp), records: all})
		}
	}

	if len(sets) == 0 {
		s.logger.Warn("no data collected, nothing to save")
		return result, nil
	}

	for _, set := range sets {
		body, err := EncodeDataset(set.records)
		if err != nil {
			return result, err
		}
		path, err := WriteDataset(dir, set.name, body)
		if err != nil {
			return result, err
		}
		result.Files = append(result.Files, path)
		result.Records += len(set.records)
		s.logger.Info("dataset written", "path", path, "records", len(set.records))

		if pub == nil {
			continue
		}
		location, err := pub.Publish(ctx, set.name, body)
		if err != nil {
			s.logger.Error("publish failed", "file", set.name, "error", err)
			continue
		}
		result.Published = append(result.Published, location)
		s.logger.Info("dataset published", "location", location, "records", len(set.records))
	}
	return result, nil
}

// Flatten joins batches in category order.
func Flatten(batches []Batch) []internal.RawRecord {
	out := make([]internal.RawRecord, 0)
	for _, b := range batches {
		out = append(out, b.Records...)
	}
	return out
}
