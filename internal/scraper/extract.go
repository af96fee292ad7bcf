package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trendsview/internal"
)

const (
	cardSelector   = "div.grid div.trend-ultra-compact"
	nameSelector   = "h3"
	growthSelector = "div.mb-2 > span"
	tickerSelector = "button.flex.w-full.items-center.justify-between"
)

var (
	growthPattern  = regexp.MustCompile(`(?i)^\s*([+\-]{1,2})\s*([\d,.]+(?:e[+\-]?\d+)?)\s*%?\s*$`)
	percentPattern = regexp.MustCompile(`^\s*([\d.]+)\s*%?\s*$`)
)

// ExtractPageTrends reads every trend card on a listing page.
func ExtractPageTrends(doc *goquery.Document) []internal.ScrapedTrend {
	out := make([]internal.ScrapedTrend, 0)
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		trend := internal.ScrapedTrend{
			Name:      strings.TrimSpace(card.Find(nameSelector).First().Text()),
			RawGrowth: strings.TrimSpace(card.Find(growthSelector).First().Text()),
		}
		trend.Sign, trend.Value = ParseGrowthChip(trend.RawGrowth)

		spans := card.Find(tickerSelector).First().Find("span")
		if spans.Length() >= 2 {
			trend.TickerSymbol = strings.TrimSpace(spans.Eq(0).Text())
			trend.TickerPercent = tickerPercent(strings.TrimSpace(spans.Eq(1).Text()))
		}
		out = append(out, trend)
	})
	return out
}

// ParseGrowthChip splits a chip such as "+4,454%" into "+" and "4454".
// Chips that do not look like a signed number yield two empty strings.
func ParseGrowthChip(raw string) (sign, value string) {
	m := growthPattern.FindStringSubmatch(strings.ReplaceAll(raw, "%", ""))
	if m == nil {
		return "", ""
	}
	return m[1], strings.ReplaceAll(m[2], ",", "")
}

func tickerPercent(text string) string {
	if m := percentPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// HasNext reports whether the last "Next" button on the page is enabled.
func HasNext(doc *goquery.Document) bool {
	buttons := doc.Find("button").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), "Next")
	})
	if buttons.Length() == 0 {
		return false
	}
	last := buttons.Last()
	if _, disabled := last.Attr("disabled"); disabled {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(last.AttrOr("aria-disabled", "")), "true")
}
