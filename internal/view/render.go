package view

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"trendsview/internal"
	"trendsview/internal/util"
)

// RenderKind tells a column renderer what the value is needed for.
type RenderKind int

const (
	RenderDisplay RenderKind = iota
	RenderSort
	RenderType
	RenderFilter
	RenderExport
)

func (k RenderKind) String() string {
	switch k {
	case RenderDisplay:
		return "display"
	case RenderSort:
		return "sort"
	case RenderType:
		return "type"
	case RenderFilter:
		return "filter"
	case RenderExport:
		return "export"
	default:
		return fmt.Sprintf("RenderKind(%d)", int(k))
	}
}

// Badge classes for the growth column.
const (
	BadgeHigh    = "bg-success"
	BadgeMedium  = "bg-warning"
	BadgeNeutral = "bg-secondary"
)

const (
	highGrowth   = 50
	mediumGrowth = 20
)

// BadgeClass classifies a growth value; lower bounds are inclusive.
func BadgeClass(growth float64) string {
	switch {
	case growth >= highGrowth:
		return BadgeHigh
	case growth >= mediumGrowth:
		return BadgeMedium
	default:
		return BadgeNeutral
	}
}

// RenderGrowth shows the growth label inside a severity badge and sorts by
// the numeric growth value.
func RenderGrowth(data any, kind RenderKind, row internal.TrendRow) any {
	if kind == RenderSort || kind == RenderType {
		return row.GrowthSort
	}
	label, _ := data.(string)
	if kind == RenderExport {
		return label
	}
	return template.HTML(fmt.Sprintf(`<span class="badge %s">%s</span>`,
		BadgeClass(row.GrowthSort), template.HTMLEscapeString(label)))
}

// RenderPercent sorts by the raw number and displays it with a % suffix.
func RenderPercent(data any, kind RenderKind, _ internal.TrendRow) any {
	if kind == RenderSort || kind == RenderType {
		return data
	}
	n, _ := data.(float64)
	return util.FormatNumber(n) + "%"
}

// cellText flattens a rendered value to plain text, dropping any markup.
func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case template.HTML:
		return stripMarkup(string(t))
	case float64:
		return util.FormatNumber(t)
	default:
		return fmt.Sprint(t)
	}
}

func cellHTML(v any) template.HTML {
	if h, ok := v.(template.HTML); ok {
		return h
	}
	return template.HTML(template.HTMLEscapeString(cellText(v)))
}

func stripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
