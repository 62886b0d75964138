package metrics

import (
	"fmt"
	"regexp"
	"time"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/normalize"
)

// Candidate column names per field, most specific domain term first.
// DealValueColumns and DealSectorColumns are exported because the
// cross-board analyzer resolves the same fields.
var (
	DealValueColumns  = []string{"deal value", "contract value", "order value", "value", "amount"}
	DealSectorColumns = []string{"sector", "industry", "vertical"}

	dealStageColumns       = []string{"deal stage", "pipeline stage", "stage"}
	dealStatusColumns      = []string{"deal status", "status"}
	dealCloseDateColumns   = []string{"close date", "closing date", "expected close", "close"}
	dealProbabilityColumns = []string{"win probability", "probability", "likelihood"}
)

var (
	wonStageRe   = regexp.MustCompile(`(?i)won|closed.*won|completed|delivered`)
	wonStatusRe  = regexp.MustCompile(`(?i)won|closed.*won`)
	lostStatusRe = regexp.MustCompile(`(?i)lost`)
)

// ComputeDealMetrics aggregates a normalized deals row set in one pass.
//
// Closed-won is incremented from both the stage text and the status text;
// the two matches are not mutually exclusive, so the sum is clamped to the
// row count. That summing behavior is intentional and pinned by tests.
func ComputeDealMetrics(rows []domain.Row) *domain.DealMetrics {
	m := &domain.DealMetrics{
		StageCounts:       make(map[string]int),
		StatusCounts:      make(map[string]int),
		Sectors:           make(map[string]*domain.SectorStat),
		ProbabilityCounts: make(map[string]int),
		QuarterlyRevenue:  make(map[string]float64),
	}
	m.Count = len(rows)

	valueCol := normalize.FindColumn(rows, DealValueColumns)
	stageCol := normalize.FindColumn(rows, dealStageColumns)
	statusCol := normalize.FindColumn(rows, dealStatusColumns)
	sectorCol := normalize.FindColumn(rows, DealSectorColumns)
	closeCol := normalize.FindColumn(rows, dealCloseDateColumns)
	probabilityCol := normalize.FindColumn(rows, dealProbabilityColumns)

	wonHits := 0
	for _, row := range rows {
		value := numberAt(row, valueCol)
		m.TotalValue += value

		if stage := labelAt(row, stageCol); stage != "" {
			m.StageCounts[stage]++
			if wonStageRe.MatchString(stage) {
				wonHits++
			}
		}
		if status := labelAt(row, statusCol); status != "" {
			m.StatusCounts[status]++
			if wonStatusRe.MatchString(status) {
				wonHits++
			}
			if lostStatusRe.MatchString(status) {
				m.ClosedLost++
			}
		}
		if sector := labelAt(row, sectorCol); sector != "" {
			canonical := normalize.Sector(sector)
			stat := m.Sectors[canonical]
			if stat == nil {
				stat = &domain.SectorStat{}
				m.Sectors[canonical] = stat
			}
			stat.Count++
			stat.Value += value
		}
		if probability := labelAt(row, probabilityCol); probability != "" {
			m.ProbabilityCounts[probability]++
		}
		if closeCol != "" {
			if iso, ok := row[closeCol].(string); ok {
				if quarter := quarterOf(iso); quarter != "" {
					m.QuarterlyRevenue[quarter] += value
				}
			}
		}
	}

	if wonHits > m.Count {
		wonHits = m.Count
	}
	m.ClosedWon = wonHits

	if m.Count > 0 {
		m.AvgDealSize = m.TotalValue / float64(m.Count)
		m.CloseRate = float64(m.ClosedWon) / float64(m.Count)
	}
	return m
}

// quarterOf buckets an ISO date into a calendar quarter like "Q2 2024".
func quarterOf(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("Q%d %d", (int(t.Month())+2)/3, t.Year())
}
