package normalize

import (
	"testing"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dealsBoard() domain.RawBoard {
	return domain.RawBoard{
		ID:   "b1",
		Name: "Deals",
		Columns: []domain.Column{
			{ID: "c1", Title: "Status", Type: "status"},
			{ID: "c2", Title: "Close Date", Type: "date"},
			{ID: "c3", Title: "Deal Value", Type: "numbers"},
		},
		Items: []domain.Item{
			{
				ID:   "i1",
				Name: "Acme Solar Rollout",
				Cells: []domain.Cell{
					{ColumnID: "c1", Text: "Won", Type: "status"},
					{ColumnID: "c2", Text: "2024-06-15", Type: "date"},
					{ColumnID: "c3", Text: "₹1,00,000", Type: "numbers"},
				},
			},
			{
				ID:   "i2",
				Name: "Beta Plant",
				Cells: []domain.Cell{
					{ColumnID: "c1", Text: "", Type: "status"},
					{ColumnID: "c2", Text: "", Type: "date"},
					{ColumnID: "c3", Text: "$50,000", Type: "numbers"},
				},
			},
		},
	}
}

func TestNormalizeBoard(t *testing.T) {
	n := NewNormalizer("")
	result := n.NormalizeBoard(dealsBoard())

	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Deals", result.BoardName)
	assert.Equal(t, 2, result.Quality.TotalRows)
	assert.Equal(t, 1, result.Quality.MissingCounts["Status"])
	assert.Equal(t, 1, result.Quality.MissingCounts["Close Date"])

	assert.Equal(t, "2024-06-15", result.Rows[0]["Close Date"])
	assert.Equal(t, "Won", result.Rows[0]["Status"])
	assert.Equal(t, 100000.0, result.Rows[0]["Deal Value"])
	assert.Equal(t, "INR", result.Rows[0]["Deal Value"+domain.CurrencySuffix])
	assert.Equal(t, "Acme Solar Rollout", result.Rows[0].DisplayName())

	assert.Nil(t, result.Rows[1]["Status"])
	assert.Nil(t, result.Rows[1]["Close Date"])
	assert.Equal(t, 50000.0, result.Rows[1]["Deal Value"])
	assert.Equal(t, "USD", result.Rows[1]["Deal Value"+domain.CurrencySuffix])

	assert.NotEmpty(t, result.Quality.CurrencyTypes)
	assert.Equal(t, []string{"INR", "USD"}, result.Quality.CurrencyList())
}

func TestNormalizeBoardEveryColumnKeyedInEveryRow(t *testing.T) {
	n := NewNormalizer("")
	board := dealsBoard()
	result := n.NormalizeBoard(board)

	for _, row := range result.Rows {
		for _, col := range board.Columns {
			_, present := row[col.Title]
			assert.True(t, present, "column %q missing from row", col.Title)
		}
	}

	totalMissing := result.Quality.TotalMissing()
	assert.LessOrEqual(t, totalMissing, result.Quality.TotalRows*len(board.Columns))
	for col, count := range result.Quality.MissingCounts {
		assert.LessOrEqual(t, count, result.Quality.TotalRows, "column %q", col)
	}
}

func TestNormalizeBoardMixedCurrencyWarning(t *testing.T) {
	n := NewNormalizer("")
	result := n.NormalizeBoard(dealsBoard())

	require.NotEmpty(t, result.Quality.Warnings)
	assert.Contains(t, result.Quality.Warnings[len(result.Quality.Warnings)-1], "mixed currencies")
	assert.Contains(t, result.Quality.Warnings[len(result.Quality.Warnings)-1], "INR")
	assert.Contains(t, result.Quality.Warnings[len(result.Quality.Warnings)-1], "USD")
}

func TestNormalizeBoardStructuredFallback(t *testing.T) {
	board := domain.RawBoard{
		Name: "Work Orders",
		Columns: []domain.Column{
			{ID: "s", Title: "Execution Status", Type: "status"},
			{ID: "d", Title: "End Date", Type: "date"},
			{ID: "n", Title: "Order Value", Type: "numbers"},
		},
		Items: []domain.Item{{
			ID:   "w1",
			Name: "Acme Solar — Phase 1",
			Cells: []domain.Cell{
				{ColumnID: "s", Text: "", RawValue: `{"label":"Ongoing"}`, Type: "status"},
				{ColumnID: "d", Text: "", RawValue: `{"date":"2024-03-01"}`, Type: "date"},
				{ColumnID: "n", Text: "", RawValue: `{"number":12000}`, Type: "numbers"},
			},
		}},
	}

	result := NewNormalizer("").NormalizeBoard(board)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Ongoing", result.Rows[0]["Execution Status"])
	assert.Equal(t, "2024-03-01", result.Rows[0]["End Date"])
	assert.Equal(t, 12000.0, result.Rows[0]["Order Value"])
	assert.Equal(t, "INR", result.Rows[0]["Order Value"+domain.CurrencySuffix])
	assert.Equal(t, 0, result.Quality.TotalMissing())
}

func TestNormalizeBoardBadDateWarnsAndKeepsRow(t *testing.T) {
	board := domain.RawBoard{
		Name:    "Deals",
		Columns: []domain.Column{{ID: "c", Title: "Close Date", Type: "date"}},
		Items: []domain.Item{{
			ID:    "i1",
			Name:  "Deal",
			Cells: []domain.Cell{{ColumnID: "c", Text: "sometime soon", Type: "date"}},
		}},
	}

	result := NewNormalizer("").NormalizeBoard(board)
	require.Len(t, result.Rows, 1)
	assert.Nil(t, result.Rows[0]["Close Date"])
	require.Len(t, result.Quality.Warnings, 1)
	assert.Contains(t, result.Quality.Warnings[0], "Close Date")
	// The unparseable cell was present, so it is a warning, not a missing count.
	assert.Equal(t, 0, result.Quality.MissingCounts["Close Date"])
}

func TestColumnClassification(t *testing.T) {
	// "Billed Quantity" mentions a money word and must not ride the date path
	// even with "date" in the title family; "Quantity Billed To Date" stays money.
	assert.False(t, isDateColumn(domain.Column{Title: "Quantity Billed To Date", Type: "text"}))
	assert.True(t, isMoneyColumn(domain.Column{Title: "Quantity Billed To Date", Type: "text"}))
	assert.True(t, isDateColumn(domain.Column{Title: "Start Date", Type: "text"}))
	assert.True(t, isDateColumn(domain.Column{Title: "Kickoff", Type: "date"}))
	assert.False(t, isDateColumn(domain.Column{Title: "Update", Type: "text"}))
	assert.True(t, isMoneyColumn(domain.Column{Title: "Revenue", Type: "text"}))
	assert.True(t, isMoneyColumn(domain.Column{Title: "Headcount", Type: "numbers"}))
	assert.False(t, isMoneyColumn(domain.Column{Title: "Owner", Type: "text"}))
}
