package metrics

import (
	"testing"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealRow(name string, value float64, stage, status, sector, closeDate, probability string) domain.Row {
	row := domain.Row{
		domain.RowKeyID:   name,
		domain.RowKeyName: name,
		"Deal Value":      value,
		"Stage":           nil,
		"Status":          nil,
		"Sector":          nil,
		"Close Date":      nil,
		"Probability":     nil,
	}
	if stage != "" {
		row["Stage"] = stage
	}
	if status != "" {
		row["Status"] = status
	}
	if sector != "" {
		row["Sector"] = sector
	}
	if closeDate != "" {
		row["Close Date"] = closeDate
	}
	if probability != "" {
		row["Probability"] = probability
	}
	return row
}

func TestComputeDealMetrics(t *testing.T) {
	rows := []domain.Row{
		dealRow("Acme Solar Rollout", 100000, "Negotiation", "Won", "o&g", "2024-06-15", "High"),
		dealRow("Beta Plant", 50000, "Proposal", "Open", "oil and gas", "2024-01-10", "Low"),
		dealRow("Gamma Mine", 250000, "Delivered", "Lost", "mines", "", "High"),
		// Unparseable close date: the row still counts but buckets nowhere.
		dealRow("Delta Micro", 0, "", "", "", "bad-date", ""),
	}

	m := ComputeDealMetrics(rows)

	assert.Equal(t, 4, m.Count)
	assert.Equal(t, 400000.0, m.TotalValue)
	assert.Equal(t, 100000.0, m.AvgDealSize)

	// Won via status (row 0) + Delivered stage (row 2).
	assert.Equal(t, 2, m.ClosedWon)
	assert.Equal(t, 1, m.ClosedLost)
	assert.InDelta(t, 0.5, m.CloseRate, 1e-9)

	assert.Equal(t, map[string]int{"Negotiation": 1, "Proposal": 1, "Delivered": 1}, m.StageCounts)
	assert.Equal(t, map[string]int{"Won": 1, "Open": 1, "Lost": 1}, m.StatusCounts)
	assert.Equal(t, map[string]int{"High": 2, "Low": 1}, m.ProbabilityCounts)

	require.Contains(t, m.Sectors, "Oil & Gas")
	require.Contains(t, m.Sectors, "Mining")
	assert.Equal(t, 2, m.Sectors["Oil & Gas"].Count)
	assert.Equal(t, 150000.0, m.Sectors["Oil & Gas"].Value)
	assert.Equal(t, 250000.0, m.Sectors["Mining"].Value)

	assert.Equal(t, map[string]float64{"Q2 2024": 100000, "Q1 2024": 50000}, m.QuarterlyRevenue)
}

func TestComputeDealMetricsClosedWonSumThenClamp(t *testing.T) {
	// A deal whose stage AND status both match the won patterns increments
	// twice. The sum is clamped to the row count; this pins the current
	// double-count-then-clamp semantics so any change is deliberate.
	rows := []domain.Row{
		dealRow("One", 10, "Closed Won", "Won", "", "", ""),
		dealRow("Two", 10, "Completed", "Closed - Won", "", "", ""),
	}
	m := ComputeDealMetrics(rows)
	assert.Equal(t, 2, m.ClosedWon)
	assert.InDelta(t, 1.0, m.CloseRate, 1e-9)
}

func TestComputeDealMetricsEmpty(t *testing.T) {
	m := ComputeDealMetrics(nil)
	assert.Equal(t, 0, m.Count)
	assert.Equal(t, 0.0, m.TotalValue)
	assert.Equal(t, 0.0, m.AvgDealSize)
	assert.Equal(t, 0.0, m.CloseRate)
	assert.Empty(t, m.QuarterlyRevenue)
}

func TestQuarterOf(t *testing.T) {
	tests := []struct {
		iso  string
		want string
	}{
		{iso: "2024-01-01", want: "Q1 2024"},
		{iso: "2024-03-31", want: "Q1 2024"},
		{iso: "2024-04-01", want: "Q2 2024"},
		{iso: "2024-12-31", want: "Q4 2024"},
		{iso: "garbage", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quarterOf(tt.iso), "iso=%q", tt.iso)
	}
}
