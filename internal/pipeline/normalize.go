package pipeline

import (
	"trendsview/internal"
	"trendsview/internal/util"
)

// NormalizeRecords maps every raw record to a TrendRow. Missing or malformed
// fields fall back to safe defaults; a record never fails normalization.
func NormalizeRecords(records []internal.RawRecord) []internal.TrendRow {
	out := make([]internal.TrendRow, 0, len(records))
	for _, rec := range records {
		out = append(out, NormalizeRecord(rec))
	}
	return out
}

func NormalizeRecord(rec internal.RawRecord) internal.TrendRow {
	return internal.TrendRow{
		Category:      util.LooseString(rec.Category),
		Keyword:       util.LooseString(rec.Name),
		GrowthDisplay: util.LooseString(rec.RawGrowth),
		GrowthSort:    util.ParseGrowth(rec.Value),
		TickerSymbol:  util.LooseString(rec.TickerSymbol),
		TickerPctNum:  util.ParsePercent(rec.TickerPercent),
	}
}
