package domain

// SectorStat is a per-sector rollup of deal count and summed value.
type SectorStat struct {
	Count int
	Value float64
}

// DealMetrics aggregates one pass over a normalized deals board. Derived
// ratios are computed once from the counts and sums, never recomputed from
// rows afterwards.
type DealMetrics struct {
	Count             int
	TotalValue        float64
	ClosedWon         int
	ClosedLost        int
	StageCounts       map[string]int
	StatusCounts      map[string]int
	Sectors           map[string]*SectorStat
	ProbabilityCounts map[string]int
	QuarterlyRevenue  map[string]float64

	AvgDealSize float64
	CloseRate   float64
}

// WorkOrderMetrics aggregates one pass over a normalized work-orders board.
// AvgCompletionDays is nil when no row had a valid start/end pair.
type WorkOrderMetrics struct {
	Count          int
	Completed      int
	NotStarted     int
	Ongoing        int
	Open           int
	Overdue        int
	TotalAmount    float64
	TotalBilled    float64
	TotalCollected float64
	StatusCounts   map[string]int
	BillingCounts  map[string]int
	SectorCounts   map[string]int
	NatureCounts   map[string]int

	CompletionPct     float64
	CollectionRate    float64
	AvgCompletionDays *float64
}

// CrossBoardResult reports the heuristic linkage between deals and work
// orders. Insights are deterministic fact strings derived from numeric
// thresholds, not generated prose.
type CrossBoardResult struct {
	LinkedCount       int
	SectorLinkedCount int
	Insights          []string
}
