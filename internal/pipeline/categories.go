package pipeline

import (
	"sort"

	"trendsview/internal"
)

// DeriveCategories returns the distinct non-empty categories of rows in
// ascending order. The result does not depend on row order.
func DeriveCategories(rows []internal.TrendRow) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, row := range rows {
		if row.Category == "" {
			continue
		}
		if _, ok := seen[row.Category]; ok {
			continue
		}
		seen[row.Category] = struct{}{}
		out = append(out, row.Category)
	}
	sort.Strings(out)
	return out
}
