package api

// API mirrors of the domain result models, shaped for JSON responses.

type SectorStat struct {
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

type DealMetrics struct {
	Count             int                   `json:"count"`
	TotalValue        float64               `json:"total_value"`
	ClosedWon         int                   `json:"closed_won"`
	ClosedLost        int                   `json:"closed_lost"`
	StageCounts       map[string]int        `json:"stage_counts,omitempty"`
	StatusCounts      map[string]int        `json:"status_counts,omitempty"`
	Sectors           map[string]SectorStat `json:"sectors,omitempty"`
	ProbabilityCounts map[string]int        `json:"probability_counts,omitempty"`
	QuarterlyRevenue  map[string]float64    `json:"quarterly_revenue,omitempty"`
	AvgDealSize       float64               `json:"avg_deal_size"`
	CloseRate         float64               `json:"close_rate"`
}

type WorkOrderMetrics struct {
	Count             int            `json:"count"`
	Completed         int            `json:"completed"`
	NotStarted        int            `json:"not_started"`
	Ongoing           int            `json:"ongoing"`
	Open              int            `json:"open"`
	Overdue           int            `json:"overdue"`
	TotalAmount       float64        `json:"total_amount"`
	TotalBilled       float64        `json:"total_billed"`
	TotalCollected    float64        `json:"total_collected"`
	StatusCounts      map[string]int `json:"status_counts,omitempty"`
	BillingCounts     map[string]int `json:"billing_counts,omitempty"`
	SectorCounts      map[string]int `json:"sector_counts,omitempty"`
	NatureCounts      map[string]int `json:"nature_counts,omitempty"`
	CompletionPct     float64        `json:"completion_pct"`
	CollectionRate    float64        `json:"collection_rate"`
	AvgCompletionDays *float64       `json:"avg_completion_days,omitempty"`
}

type CrossBoardResult struct {
	LinkedCount       int      `json:"linked_count"`
	SectorLinkedCount int      `json:"sector_linked_count"`
	Insights          []string `json:"insights,omitempty"`
}

type QuarterFocus struct {
	Quarter string  `json:"quarter"`
	Revenue float64 `json:"revenue"`
	Matched bool    `json:"matched"`
}

type DataQualityReport struct {
	TotalRows     int            `json:"total_rows"`
	MissingCounts map[string]int `json:"missing_counts,omitempty"`
	CurrencyTypes []string       `json:"currency_types,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
}

type ExecutionMetrics struct {
	Deals         *DealMetrics      `json:"deals,omitempty"`
	WorkOrders    *WorkOrderMetrics `json:"work_orders,omitempty"`
	CrossBoard    *CrossBoardResult `json:"cross_board,omitempty"`
	FilteredDeals *DealMetrics      `json:"filtered_deals,omitempty"`
	QuarterFocus  *QuarterFocus     `json:"quarter_focus,omitempty"`
}

type ExecutionQuality struct {
	Deals      *DataQualityReport `json:"deals,omitempty"`
	WorkOrders *DataQualityReport `json:"work_orders,omitempty"`
}

type ExecutionTables struct {
	Deals         []map[string]any `json:"deals,omitempty"`
	WorkOrders    []map[string]any `json:"work_orders,omitempty"`
	FilteredDeals []map[string]any `json:"filtered_deals,omitempty"`
}

type ExecutionResult struct {
	Metrics     ExecutionMetrics `json:"metrics"`
	DataQuality ExecutionQuality `json:"data_quality"`
	Tables      ExecutionTables  `json:"tables"`
	Confidence  float64          `json:"confidence"`
	Error       string           `json:"error,omitempty"`
}
