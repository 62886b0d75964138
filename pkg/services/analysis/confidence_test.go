package analysis

import (
	"testing"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func report(totalRows int, missing map[string]int, warnings int) *domain.DataQualityReport {
	r := domain.NewDataQualityReport()
	r.TotalRows = totalRows
	for col, count := range missing {
		r.MissingCounts[col] = count
	}
	for i := 0; i < warnings; i++ {
		r.AddWarning("warning")
	}
	return r
}

func TestScoreCleanReportIsBaseline(t *testing.T) {
	assert.Equal(t, 0.85, Score(report(10, nil, 0)))
	assert.Equal(t, 0.85, Score(report(10, nil, 3)))
	assert.Equal(t, 0.85, Score())
	assert.Equal(t, 0.85, Score(nil))
}

func TestScoreMissingPenalty(t *testing.T) {
	// 5 missing out of 10 rows in one affected column: ratio 0.5, penalty 0.15.
	assert.Equal(t, 0.70, Score(report(10, map[string]int{"Status": 5}, 0)))

	// Two affected columns dilute the denominator: (5+5)/(10*2)=0.5 again.
	assert.Equal(t, 0.70, Score(report(10, map[string]int{"Status": 5, "Close Date": 5}, 0)))

	// Columns with zero missing do not enter the denominator.
	assert.Equal(t, 0.70, Score(report(10, map[string]int{"Status": 5, "Clean": 0}, 0)))
}

func TestScoreWarningPenalty(t *testing.T) {
	assert.Equal(t, 0.80, Score(report(10, nil, 4)))
	// Two noisy reports cost the flat penalty twice.
	assert.Equal(t, 0.75, Score(report(10, nil, 4), report(5, nil, 10)))
}

func TestScoreZeroRowsDenominatorFloor(t *testing.T) {
	// Empty board: denominator floors at 1 instead of dividing by zero.
	assert.Equal(t, 0.85, Score(report(0, nil, 0)))
}

func TestScoreClampedToRange(t *testing.T) {
	// Everything missing on several reports drives the raw score below the floor.
	bad := report(1, map[string]int{"A": 1, "B": 1, "C": 1}, 10)
	got := Score(bad, bad, bad, bad)
	assert.Equal(t, 0.10, got)

	for _, r := range []*domain.DataQualityReport{
		report(10, nil, 0),
		report(2, map[string]int{"A": 1}, 5),
		bad,
	} {
		score := Score(r)
		assert.GreaterOrEqual(t, score, 0.10)
		assert.LessOrEqual(t, score, 1.00)
	}
}
