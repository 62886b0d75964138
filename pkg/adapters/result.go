package adapters

import (
	"github.com/crm-tools/board-insights/pkg/models/api"
	"github.com/crm-tools/board-insights/pkg/models/domain"
)

func MapExecutionResultDomainToApi(result domain.ExecutionResult) api.ExecutionResult {
	return api.ExecutionResult{
		Metrics: api.ExecutionMetrics{
			Deals:         MapDealMetricsDomainToApi(result.Metrics.Deals),
			WorkOrders:    MapWorkOrderMetricsDomainToApi(result.Metrics.WorkOrders),
			CrossBoard:    MapCrossBoardDomainToApi(result.Metrics.CrossBoard),
			FilteredDeals: MapDealMetricsDomainToApi(result.Metrics.FilteredDeals),
			QuarterFocus:  mapQuarterFocus(result.Metrics.QuarterFocus),
		},
		DataQuality: api.ExecutionQuality{
			Deals:      MapDataQualityDomainToApi(result.DataQuality.Deals),
			WorkOrders: MapDataQualityDomainToApi(result.DataQuality.WorkOrders),
		},
		Tables: api.ExecutionTables{
			Deals:         mapRows(result.Tables.Deals),
			WorkOrders:    mapRows(result.Tables.WorkOrders),
			FilteredDeals: mapRows(result.Tables.FilteredDeals),
		},
		Confidence: result.Confidence,
		Error:      result.Error,
	}
}

func MapDealMetricsDomainToApi(m *domain.DealMetrics) *api.DealMetrics {
	if m == nil {
		return nil
	}
	sectors := make(map[string]api.SectorStat, len(m.Sectors))
	for name, stat := range m.Sectors {
		sectors[name] = api.SectorStat{Count: stat.Count, Value: stat.Value}
	}
	return &api.DealMetrics{
		Count:             m.Count,
		TotalValue:        m.TotalValue,
		ClosedWon:         m.ClosedWon,
		ClosedLost:        m.ClosedLost,
		StageCounts:       m.StageCounts,
		StatusCounts:      m.StatusCounts,
		Sectors:           sectors,
		ProbabilityCounts: m.ProbabilityCounts,
		QuarterlyRevenue:  m.QuarterlyRevenue,
		AvgDealSize:       m.AvgDealSize,
		CloseRate:         m.CloseRate,
	}
}

func MapWorkOrderMetricsDomainToApi(m *domain.WorkOrderMetrics) *api.WorkOrderMetrics {
	if m == nil {
		return nil
	}
	return &api.WorkOrderMetrics{
		Count:             m.Count,
		Completed:         m.Completed,
		NotStarted:        m.NotStarted,
		Ongoing:           m.Ongoing,
		Open:              m.Open,
		Overdue:           m.Overdue,
		TotalAmount:       m.TotalAmount,
		TotalBilled:       m.TotalBilled,
		TotalCollected:    m.TotalCollected,
		StatusCounts:      m.StatusCounts,
		BillingCounts:     m.BillingCounts,
		SectorCounts:      m.SectorCounts,
		NatureCounts:      m.NatureCounts,
		CompletionPct:     m.CompletionPct,
		CollectionRate:    m.CollectionRate,
		AvgCompletionDays: m.AvgCompletionDays,
	}
}

func MapCrossBoardDomainToApi(r *domain.CrossBoardResult) *api.CrossBoardResult {
	if r == nil {
		return nil
	}
	return &api.CrossBoardResult{
		LinkedCount:       r.LinkedCount,
		SectorLinkedCount: r.SectorLinkedCount,
		Insights:          r.Insights,
	}
}

func MapDataQualityDomainToApi(r *domain.DataQualityReport) *api.DataQualityReport {
	if r == nil {
		return nil
	}
	return &api.DataQualityReport{
		TotalRows:     r.TotalRows,
		MissingCounts: r.MissingCounts,
		CurrencyTypes: r.CurrencyList(),
		Warnings:      r.Warnings,
	}
}

func mapQuarterFocus(f *domain.QuarterFocus) *api.QuarterFocus {
	if f == nil {
		return nil
	}
	return &api.QuarterFocus{Quarter: f.Quarter, Revenue: f.Revenue, Matched: f.Matched}
}

func mapRows(rows []domain.Row) []map[string]any {
	if rows == nil {
		return nil
	}
	mapped := make([]map[string]any, len(rows))
	for i, row := range rows {
		mapped[i] = map[string]any(row)
	}
	return mapped
}
