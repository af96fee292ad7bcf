package view

import (
	"html/template"
	"sort"
	"strings"

	"trendsview/internal"
)

// Column describes how one field of a TrendRow is shown.
type Column struct {
	Key    string
	Title  string
	Hidden bool
	Render func(data any, kind RenderKind, row internal.TrendRow) any
}

// Direction of an ordering.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts by one column.
type Order struct {
	Column int
	Dir    Direction
}

// TableOptions mirrors the widget settings of the trends page.
type TableOptions struct {
	Order      []Order
	PageLength int
}

// PageInfo summarises the current page for the info line and pager.
type PageInfo struct {
	Page     int
	Pages    int
	Start    int
	End      int
	Filtered int
	Total    int
}

const defaultPageLength = 25

// Table holds a fixed row set and the filter, order and paging state applied
// to it. Search and order changes take effect on the next Draw.
type Table struct {
	rows       []internal.TrendRow
	columns    []Column
	order      []Order
	pageLength int
	page       int

	columnSearch map[int]string
	globalSearch string

	filterText [][]string
	display    []int
	draws      int
}

// NewTable binds rows to columns and performs the first draw.
func NewTable(rows []internal.TrendRow, columns []Column, opts TableOptions) *Table {
	t := &Table{
		rows:         rows,
		columns:      columns,
		order:        opts.Order,
		pageLength:   opts.PageLength,
		columnSearch: map[int]string{},
	}
	if t.pageLength <= 0 {
		t.pageLength = defaultPageLength
	}
	t.Draw()
	return t
}

// ColumnRef addresses a single column for searching.
type ColumnRef struct {
	table *Table
	index int
}

func (t *Table) Column(index int) ColumnRef {
	return ColumnRef{table: t, index: index}
}

// Search restricts the column to rows whose filter value equals term
// exactly. An empty term clears the restriction.
func (c ColumnRef) Search(term string) ColumnRef {
	if c.index < 0 || c.index >= len(c.table.columns) {
		return c
	}
	if term == "" {
		delete(c.table.columnSearch, c.index)
		return c
	}
	c.table.columnSearch[c.index] = term
	return c
}

// SearchTerm reports the active search for the column, if any.
func (c ColumnRef) SearchTerm() (string, bool) {
	term, ok := c.table.columnSearch[c.index]
	return term, ok
}

func (c ColumnRef) Draw() {
	c.table.Draw()
}

// Search sets the free-text search applied across every column.
func (t *Table) Search(term string) *Table {
	t.globalSearch = strings.TrimSpace(term)
	return t
}

// SetOrder replaces the ordering. Unknown columns are ignored.
func (t *Table) SetOrder(orders ...Order) *Table {
	valid := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.Column < 0 || o.Column >= len(t.columns) {
			continue
		}
		if o.Dir != Desc {
			o.Dir = Asc
		}
		valid = append(valid, o)
	}
	if len(valid) > 0 {
		t.order = valid
	}
	return t
}

func (t *Table) Order() []Order {
	out := make([]Order, len(t.order))
	copy(out, t.order)
	return out
}

// Draw recomputes the filtered, ordered row set and returns to page one.
func (t *Table) Draw() {
	t.display = t.display[:0]
	for i := range t.rows {
		if t.matches(i) {
			t.display = append(t.display, i)
		}
	}
	t.sortDisplay()
	t.page = 0
	t.draws++
}

// Draws counts how many times the table has been redrawn.
func (t *Table) Draws() int {
	return t.draws
}

// SetPage moves to a zero-based page, clamped to the available range.
func (t *Table) SetPage(page int) {
	pages := t.pages()
	switch {
	case page < 0:
		page = 0
	case page >= pages:
		page = pages - 1
	}
	t.page = page
}

func (t *Table) Columns() []Column {
	return t.columns
}

// VisibleColumns lists the indexes of columns that are rendered.
func (t *Table) VisibleColumns() []int {
	out := make([]int, 0, len(t.columns))
	for i, c := range t.columns {
		if !c.Hidden {
			out = append(out, i)
		}
	}
	return out
}

// FilteredRows returns every row passing the current filters, in order.
func (t *Table) FilteredRows() []internal.TrendRow {
	out := make([]internal.TrendRow, 0, len(t.display))
	for _, idx := range t.display {
		out = append(out, t.rows[idx])
	}
	return out
}

// PageRows returns the rows of the current page.
func (t *Table) PageRows() []internal.TrendRow {
	info := t.Info()
	if info.Filtered == 0 {
		return nil
	}
	out := make([]internal.TrendRow, 0, info.End-info.Start+1)
	for _, idx := range t.display[info.Start-1 : info.End] {
		out = append(out, t.rows[idx])
	}
	return out
}

func (t *Table) Info() PageInfo {
	filtered := len(t.display)
	info := PageInfo{
		Page:     t.page,
		Pages:    t.pages(),
		Filtered: filtered,
		Total:    len(t.rows),
	}
	if filtered == 0 {
		return info
	}
	info.Start = t.page*t.pageLength + 1
	info.End = info.Start + t.pageLength - 1
	if info.End > filtered {
		info.End = filtered
	}
	return info
}

func (t *Table) PageLength() int {
	return t.pageLength
}

// Cell renders column col of row for the given purpose.
func (t *Table) Cell(row internal.TrendRow, col int, kind RenderKind) any {
	c := t.columns[col]
	data := Field(row, c.Key)
	if c.Render == nil {
		return data
	}
	return c.Render(data, kind, row)
}

// DisplayHTML is the safe markup for a cell.
func (t *Table) DisplayHTML(row internal.TrendRow, col int) template.HTML {
	return cellHTML(t.Cell(row, col, RenderDisplay))
}

// ExportData returns the visible column titles and the export text of every
// filtered row.
func (t *Table) ExportData() ([]string, [][]string) {
	cols := t.VisibleColumns()
	headers := make([]string, 0, len(cols))
	for _, c := range cols {
		headers = append(headers, t.columns[c].Title)
	}
	records := make([][]string, 0, len(t.display))
	for _, idx := range t.display {
		row := t.rows[idx]
		record := make([]string, 0, len(cols))
		for _, c := range cols {
			record = append(record, cellText(t.Cell(row, c, RenderExport)))
		}
		records = append(records, record)
	}
	return headers, records
}

func (t *Table) pages() int {
	if len(t.display) == 0 {
		return 1
	}
	return (len(t.display) + t.pageLength - 1) / t.pageLength
}

func (t *Table) matches(i int) bool {
	for col, term := range t.columnSearch {
		if t.filterValue(i, col) != term {
			return false
		}
	}
	if t.globalSearch == "" {
		return true
	}
	for _, word := range strings.Fields(strings.ToLower(t.globalSearch)) {
		found := false
		for col := range t.columns {
			if strings.Contains(strings.ToLower(t.filterValue(i, col)), word) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// filterValue caches the plain filter text of every cell on first use.
func (t *Table) filterValue(i, col int) string {
	if t.filterText == nil {
		t.filterText = make([][]string, len(t.rows))
	}
	if t.filterText[i] == nil {
		texts := make([]string, len(t.columns))
		for c := range t.columns {
			texts[c] = cellText(t.Cell(t.rows[i], c, RenderFilter))
		}
		t.filterText[i] = texts
	}
	return t.filterText[i][col]
}

func (t *Table) sortDisplay() {
	if len(t.order) == 0 {
		return
	}
	sort.SliceStable(t.display, func(a, b int) bool {
		ra, rb := t.rows[t.display[a]], t.rows[t.display[b]]
		for _, o := range t.order {
			cmp := compareValues(t.Cell(ra, o.Column, RenderSort), t.Cell(rb, o.Column, RenderSort))
			if cmp == 0 {
				continue
			}
			if o.Dir == Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

func compareValues(a, b any) int {
	fa, aNum := a.(float64)
	fb, bNum := b.(float64)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(cellText(a)), strings.ToLower(cellText(b)))
}

// Field looks up a TrendRow value by its data key.
func Field(row internal.TrendRow, key string) any {
	switch key {
	case "category":
		return row.Category
	case "keyword":
		return row.Keyword
	case "growth_display":
		return row.GrowthDisplay
	case "growth_sort":
		return row.GrowthSort
	case "ticker_symbol":
		return row.TickerSymbol
	case "ticker_pct_num":
		return row.TickerPctNum
	default:
		return nil
	}
}
