// Package metrics computes aggregate business metrics from normalized board
// rows. Each computation is a single pass over an in-memory row set; column
// names are resolved per board through the candidate lists below, so no
// fixed schema is assumed.
package metrics

import (
	"strconv"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

// numberAt reads a numeric cell, treating unresolved columns and
// non-numeric values as 0 per the aggregation defaults.
func numberAt(row domain.Row, column string) float64 {
	if column == "" {
		return 0
	}
	value, _ := row[column].(float64)
	return value
}

// labelAt reads a cell as a distribution label. Numeric cells are
// stringified so that e.g. a numeric probability column still buckets.
func labelAt(row domain.Row, column string) string {
	if column == "" {
		return ""
	}
	switch v := row[column].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
