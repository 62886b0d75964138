package narrative

import (
	"context"
	"testing"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderReportsExecutionError(t *testing.T) {
	g := New("", "")
	reply := g.Render(context.Background(), "how are deals?", domain.ExecutionResult{Error: "deals board id is not configured"})
	assert.Contains(t, reply, "deals board id is not configured")
}

func TestRenderTemplateFallback(t *testing.T) {
	avg := 12.5
	result := domain.ExecutionResult{
		Metrics: domain.ExecutionMetrics{
			Deals: &domain.DealMetrics{
				Count:            4,
				TotalValue:       400000,
				ClosedWon:        2,
				CloseRate:        0.5,
				AvgDealSize:      100000,
				QuarterlyRevenue: map[string]float64{"Q1 2024": 150000, "Q2 2024": 250000},
			},
			WorkOrders: &domain.WorkOrderMetrics{
				Count:             3,
				Completed:         1,
				Overdue:           1,
				CompletionPct:     1.0 / 3,
				CollectionRate:    0.8,
				AvgCompletionDays: &avg,
			},
			CrossBoard: &domain.CrossBoardResult{
				LinkedCount: 2,
				Insights:    []string{"1 of 3 work orders are past their end date."},
			},
		},
		Confidence: 0.72,
	}

	reply := g(t).Render(context.Background(), "summary please", result)
	assert.Contains(t, reply, "4 deals")
	assert.Contains(t, reply, "50% close rate")
	assert.Contains(t, reply, "Q1 2024")
	assert.Contains(t, reply, "2 work orders link to deals")
	assert.Contains(t, reply, "past their end date")
	assert.Contains(t, reply, "Confidence: 0.72")
}

func TestRenderQuarterFocus(t *testing.T) {
	result := domain.ExecutionResult{
		Metrics: domain.ExecutionMetrics{
			QuarterFocus: &domain.QuarterFocus{Quarter: "Q2 2024", Revenue: 250000, Matched: true},
		},
		Confidence: 0.85,
	}
	reply := g(t).Render(context.Background(), "", result)
	assert.Contains(t, reply, "Q2 2024 revenue")

	result.Metrics.QuarterFocus.Matched = false
	reply = g(t).Render(context.Background(), "", result)
	assert.Contains(t, reply, "No revenue recorded for Q2 2024")
}

func TestRenderEmptyResult(t *testing.T) {
	reply := g(t).Render(context.Background(), "", domain.ExecutionResult{Confidence: 0.85})
	assert.Contains(t, reply, "No data was available")
	assert.Contains(t, reply, "Confidence: 0.85")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500", formatAmount(500))
	assert.Equal(t, "1.5L", formatAmount(150000))
	assert.Equal(t, "2.5Cr", formatAmount(25000000))
}

// g returns a generator with no model configured, so Render always takes
// the template path.
func g(t *testing.T) *Generator {
	t.Helper()
	return New("", "")
}
