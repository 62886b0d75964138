package normalize

import (
	"testing"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestFindColumn(t *testing.T) {
	rows := []domain.Row{{
		domain.RowKeyID:                          "1",
		domain.RowKeyName:                        "Item",
		"Deal Value":                             1000.0,
		"Deal Value" + domain.CurrencySuffix:     "INR",
		"Stage":                                  "Won",
		"Expected Close Date":                    "2024-06-15",
	}}

	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{name: "exact match case-insensitive", candidates: []string{"stage"}, want: "Stage"},
		{name: "exact beats substring", candidates: []string{"deal value"}, want: "Deal Value"},
		{name: "substring match", candidates: []string{"close"}, want: "Expected Close Date"},
		{name: "priority order wins", candidates: []string{"stage", "close"}, want: "Stage"},
		{name: "first candidate tried for exact before substring", candidates: []string{"close", "Stage"}, want: "Stage"},
		{name: "no match", candidates: []string{"probability"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindColumn(rows, tt.candidates))
		})
	}
}

func TestFindColumnEmptyRows(t *testing.T) {
	assert.Equal(t, "", FindColumn(nil, []string{"value"}))
	assert.Equal(t, "", FindColumn([]domain.Row{}, []string{"value"}))
}

func TestFindColumnIgnoresReservedKeys(t *testing.T) {
	rows := []domain.Row{{
		domain.RowKeyID:                      "1",
		domain.RowKeyName:                    "name holder",
		"Order Value":                        1.0,
		"Order Value" + domain.CurrencySuffix: "USD",
	}}
	// "_id" and the currency sibling both contain "id"/"value" but must
	// never resolve as columns.
	assert.Equal(t, "Order Value", FindColumn(rows, []string{"value"}))
	assert.Equal(t, "", FindColumn(rows, []string{"_id"}))
}
