package metrics

import (
	"regexp"
	"time"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/normalize"
)

var (
	woStatusColumns    = []string{"execution status", "work status", "status"}
	woBillingColumns   = []string{"billing status", "invoice status", "billing"}
	woStartColumns     = []string{"start date", "commencement date", "started"}
	woEndColumns       = []string{"end date", "completion date", "target date", "due date"}
	woAmountColumns    = []string{"work order value", "order value", "amount", "value"}
	woBilledColumns    = []string{"billed amount", "amount billed", "billed", "invoiced"}
	woCollectedColumns = []string{"amount collected", "collected", "received", "collection"}
	woSectorColumns    = []string{"sector", "industry", "vertical"}
	woNatureColumns    = []string{"nature of work", "work nature", "work type", "type of work", "nature"}
)

var (
	completedRe  = regexp.MustCompile(`(?i)completed|complete|closed`)
	notStartedRe = regexp.MustCompile(`(?i)not\s*started`)
	ongoingRe    = regexp.MustCompile(`(?i)ongoing|in.progress|executed`)
)

// ComputeWorkOrderMetrics aggregates a normalized work-orders row set in
// one pass. Every row classifies into exactly one execution state; any row
// that is not completed counts as open, and open rows with an end date
// before now count as overdue.
func ComputeWorkOrderMetrics(rows []domain.Row, now time.Time) *domain.WorkOrderMetrics {
	m := &domain.WorkOrderMetrics{
		StatusCounts:  make(map[string]int),
		BillingCounts: make(map[string]int),
		SectorCounts:  make(map[string]int),
		NatureCounts:  make(map[string]int),
	}
	m.Count = len(rows)

	statusCol := normalize.FindColumn(rows, woStatusColumns)
	billingCol := normalize.FindColumn(rows, woBillingColumns)
	startCol := normalize.FindColumn(rows, woStartColumns)
	endCol := normalize.FindColumn(rows, woEndColumns)
	amountCol := normalize.FindColumn(rows, woAmountColumns)
	billedCol := normalize.FindColumn(rows, woBilledColumns)
	collectedCol := normalize.FindColumn(rows, woCollectedColumns)
	sectorCol := normalize.FindColumn(rows, woSectorColumns)
	natureCol := normalize.FindColumn(rows, woNatureColumns)

	totalDays := 0.0
	validPairs := 0
	for _, row := range rows {
		status := labelAt(row, statusCol)
		open := true
		switch {
		case completedRe.MatchString(status):
			m.Completed++
			open = false
		case notStartedRe.MatchString(status):
			m.NotStarted++
		case ongoingRe.MatchString(status):
			m.Ongoing++
		}
		if open {
			m.Open++
		}
		if status != "" {
			m.StatusCounts[status]++
		}

		end, endOK := dateAt(row, endCol)
		if open && endOK && end.Before(now) {
			m.Overdue++
		}
		if start, startOK := dateAt(row, startCol); startOK && endOK && !end.Before(start) {
			totalDays += end.Sub(start).Hours() / 24
			validPairs++
		}

		m.TotalAmount += numberAt(row, amountCol)
		m.TotalBilled += numberAt(row, billedCol)
		m.TotalCollected += numberAt(row, collectedCol)

		if billing := labelAt(row, billingCol); billing != "" {
			m.BillingCounts[billing]++
		}
		if sector := labelAt(row, sectorCol); sector != "" {
			m.SectorCounts[normalize.Sector(sector)]++
		}
		if nature := labelAt(row, natureCol); nature != "" {
			m.NatureCounts[nature]++
		}
	}

	if m.Open+m.Completed > 0 {
		m.CompletionPct = float64(m.Completed) / float64(m.Open+m.Completed)
	}
	if m.TotalAmount > 0 {
		m.CollectionRate = m.TotalCollected / m.TotalAmount
	}
	if validPairs > 0 {
		avg := totalDays / float64(validPairs)
		m.AvgCompletionDays = &avg
	}
	return m
}

func dateAt(row domain.Row, column string) (time.Time, bool) {
	if column == "" {
		return time.Time{}, false
	}
	iso, ok := row[column].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
