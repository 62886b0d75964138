package domain

// RawBoard is one table fetched from the work-tracking service, exactly as
// the API returned it. It is owned by a single plan execution and never
// persisted.
type RawBoard struct {
	ID      string
	Name    string
	Columns []Column
	Items   []Item
}

type Column struct {
	ID    string
	Title string
	Type  string
}

type Item struct {
	ID    string
	Name  string
	Cells []Cell
}

// Cell carries both the display text and the structured payload of one
// column on one item. RawValue is the service's JSON payload; it is only
// consulted when Text is blank, because status and category columns
// frequently come back with empty display text.
type Cell struct {
	ColumnID string
	Text     string
	RawValue string
	Type     string
}

// Reserved row keys. Boards never use leading underscores in column titles,
// so these cannot collide with real columns.
const (
	RowKeyID   = "_id"
	RowKeyName = "_name"

	// CurrencySuffix marks the sibling key holding the currency tag of a
	// money column, e.g. "Deal Value" -> "Deal Value_currency".
	CurrencySuffix = "_currency"
)

// Row maps column titles to normalized values: string, float64, an ISO date
// string, or nil. Every column title of the source board is present in
// every row; absent or unparseable cells are nil, never dropped.
type Row map[string]any

// DisplayName returns the reserved item name of the row, or "".
func (r Row) DisplayName() string {
	name, _ := r[RowKeyName].(string)
	return name
}

type NormalizedBoard struct {
	BoardName string
	Rows      []Row
	Quality   *DataQualityReport
}
