package domain

// QuarterFocus is the revenue lookup for a single requested quarter.
type QuarterFocus struct {
	Quarter string
	Revenue float64
	Matched bool
}

type ExecutionMetrics struct {
	Deals         *DealMetrics
	WorkOrders    *WorkOrderMetrics
	CrossBoard    *CrossBoardResult
	FilteredDeals *DealMetrics
	QuarterFocus  *QuarterFocus
}

type ExecutionQuality struct {
	Deals      *DataQualityReport
	WorkOrders *DataQualityReport
}

// ExecutionTables holds capped row previews for the narrative layer.
type ExecutionTables struct {
	Deals         []Row
	WorkOrders    []Row
	FilteredDeals []Row
}

// ExecutionResult is the terminal artifact of one plan execution. A fatal
// configuration or fetch error leaves Error set and everything else empty;
// there are no partial results.
type ExecutionResult struct {
	Metrics     ExecutionMetrics
	DataQuality ExecutionQuality
	Tables      ExecutionTables
	Confidence  float64
	Error       string
}
