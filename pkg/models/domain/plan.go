package domain

type DataSource string

const (
	DataSourceDeals      DataSource = "deals"
	DataSourceWorkOrders DataSource = "work_orders"
	DataSourceAll        DataSource = "all"
)

// Filters narrows an execution to a sector, a quarter like "Q2 2025", or a
// status. Empty fields mean no filtering on that dimension. DateRange is
// accepted from the interpretation layer but not applied by the executor.
type Filters struct {
	Sector    string
	Quarter   string
	Status    string
	DateRange string
}

// Plan is the structured request produced by the interpretation layer:
// which boards to load and which filters to apply to the computed rows.
type Plan struct {
	DataSources []DataSource
	Filters     Filters
}

// Wants reports whether the plan requests the given source, either
// explicitly or via "all". A plan with no sources requests everything.
func (p Plan) Wants(source DataSource) bool {
	if len(p.DataSources) == 0 {
		return true
	}
	for _, s := range p.DataSources {
		if s == source || s == DataSourceAll {
			return true
		}
	}
	return false
}
