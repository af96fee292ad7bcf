package view

import (
	"trendsview/internal"
	"trendsview/internal/pipeline"
)

const DefaultExportTitle = "tiktok_viral_keywords"

// Options are the per-load inputs of Initialize.
type Options struct {
	// URLCategory is the "category" query parameter, empty when absent.
	URLCategory string
	// DefaultCategory is the configured fallback, empty when unset.
	DefaultCategory string
	PageLength      int
	ExportTitle     string
}

// State is everything one page load builds from the dataset.
type State struct {
	Rows        []internal.TrendRow
	Categories  []string
	Selector    *Selector
	Table       *Table
	ExportTitle string
}

// Initialize builds the selector and table for rows, applies the initial
// category and wires the selector to the table. Every step depends on the
// previous one, so the order is fixed.
func Initialize(rows []internal.TrendRow, opts Options) *State {
	categories := pipeline.DeriveCategories(rows)

	sel := NewSelector()
	for _, c := range categories {
		sel.AppendOption(c, c)
	}

	table := NewTable(rows, TrendColumns(), TableOptions{
		Order:      []Order{{Column: ColGrowth, Dir: Desc}},
		PageLength: opts.PageLength,
	})

	if initial, ok := ResolveInitialCategory(opts.URLCategory, opts.DefaultCategory, categories); ok {
		sel.SetValue(initial)
		table.Column(ColCategory).Search(initial).Draw()
	}

	sel.OnChange(func(value string) {
		table.Column(ColCategory).Search(value).Draw()
	})

	title := opts.ExportTitle
	if title == "" {
		title = DefaultExportTitle
	}

	return &State{
		Rows:        rows,
		Categories:  categories,
		Selector:    sel,
		Table:       table,
		ExportTitle: title,
	}
}

// ResolveInitialCategory picks the URL parameter, then the configured
// default, then the first category. The pick only counts when it is one of
// categories, compared case-sensitively.
func ResolveInitialCategory(urlCategory, defaultCategory string, categories []string) (string, bool) {
	initial := urlCategory
	if initial == "" {
		initial = defaultCategory
	}
	if initial == "" && len(categories) > 0 {
		initial = categories[0]
	}
	if initial == "" {
		return "", false
	}
	for _, c := range categories {
		if c == initial {
			return initial, true
		}
	}
	return "", false
}

// ActiveCategory is the category currently filtering the table.
func (s *State) ActiveCategory() (string, bool) {
	return s.Table.Column(ColCategory).SearchTerm()
}
