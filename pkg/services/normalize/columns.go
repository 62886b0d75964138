package normalize

import (
	"sort"
	"strings"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

// FindColumn resolves the actual column title behind a list of candidate
// name variants, supplied in priority order. An exact case-insensitive
// match on any candidate wins first; failing that, a candidate found as a
// substring anywhere inside a title wins. Returns "" when rows are empty
// or nothing matches.
//
// This resolver is what lets the engine tolerate arbitrary real-world
// column naming without per-deployment configuration.
func FindColumn(rows []domain.Row, candidates []string) string {
	if len(rows) == 0 {
		return ""
	}
	titles := columnTitles(rows[0])

	for _, candidate := range candidates {
		want := strings.ToLower(candidate)
		for _, title := range titles {
			if strings.ToLower(title) == want {
				return title
			}
		}
	}
	for _, candidate := range candidates {
		want := strings.ToLower(candidate)
		for _, title := range titles {
			if strings.Contains(strings.ToLower(title), want) {
				return title
			}
		}
	}
	return ""
}

// columnTitles lists the resolvable keys of a row in sorted order, so that
// substring resolution is deterministic. Reserved keys and currency
// siblings are not columns.
func columnTitles(row domain.Row) []string {
	titles := make([]string, 0, len(row))
	for key := range row {
		if key == domain.RowKeyID || key == domain.RowKeyName {
			continue
		}
		if strings.HasSuffix(key, domain.CurrencySuffix) {
			continue
		}
		titles = append(titles, key)
	}
	sort.Strings(titles)
	return titles
}
