package analysis

import (
	"math"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

const (
	confidenceBaseline = 0.85
	confidenceFloor    = 0.10
	missingWeight      = 0.3
	warningPenalty     = 0.05
	warningThreshold   = 3
)

// Score condenses one or more data-quality reports into a single scalar in
// [0.10, 1.00]. Missingness discounts proportionally to how dense the gaps
// are across the affected columns; noisy reports (more than three warnings)
// cost a flat penalty each.
func Score(reports ...*domain.DataQualityReport) float64 {
	score := confidenceBaseline
	for _, report := range reports {
		if report == nil {
			continue
		}
		totalMissing := 0
		columnsWithMissing := 0
		for _, count := range report.MissingCounts {
			if count > 0 {
				totalMissing += count
				columnsWithMissing++
			}
		}
		denominator := report.TotalRows * columnsWithMissing
		if denominator < 1 {
			denominator = 1
		}
		score -= float64(totalMissing) / float64(denominator) * missingWeight

		if len(report.Warnings) > warningThreshold {
			score -= warningPenalty
		}
	}
	if score < confidenceFloor {
		score = confidenceFloor
	}
	if score > 1 {
		score = 1
	}
	return math.Round(score*100) / 100
}
