package view

// Column positions of the trends table.
const (
	ColCategory = iota
	ColKeyword
	ColGrowth
	ColTicker
	ColTickerPct
)

// TrendColumns is the column layout of the trends table. The category column
// exists only for filtering and is never rendered.
func TrendColumns() []Column {
	return []Column{
		{Key: "category", Title: "Category", Hidden: true},
		{Key: "keyword", Title: "Keyword"},
		{Key: "growth_display", Title: "Growth", Render: RenderGrowth},
		{Key: "ticker_symbol", Title: "Ticker"},
		{Key: "ticker_pct_num", Title: "Ticker %", Render: RenderPercent},
	}
}
