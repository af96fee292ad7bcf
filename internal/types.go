package internal

// RawRecord is one entry of the trends dataset as published by the scraper.
// Every field is optional and loosely typed; consumers coerce with util.LooseString.
type RawRecord struct {
	ScrapeTime    any `json:"scrape_time,omitempty"`
	Granularity   any `json:"granularity,omitempty"`
	Category      any `json:"category,omitempty"`
	Name          any `json:"name,omitempty"`
	Sign          any `json:"sign,omitempty"`
	Value         any `json:"value,omitempty"`
	RawGrowth     any `json:"raw_growth,omitempty"`
	TickerSymbol  any `json:"ticker_symbol,omitempty"`
	TickerPercent any `json:"ticker_percent,omitempty"`
}

// TrendRow is the fully defaulted row the table is built from. Rows are never
// mutated once normalized.
type TrendRow struct {
	Category      string  `json:"category"`
	Keyword       string  `json:"keyword"`
	GrowthDisplay string  `json:"growth_display"`
	GrowthSort    float64 `json:"growth_sort"`
	TickerSymbol  string  `json:"ticker_symbol"`
	TickerPctNum  float64 `json:"ticker_pct_num"`
}

// ScrapedTrend is a single trend card read from a listing page.
type ScrapedTrend struct {
	Name          string
	Sign          string
	Value         string
	RawGrowth     string
	TickerSymbol  string
	TickerPercent string
}
