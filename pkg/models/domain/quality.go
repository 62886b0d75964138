package domain

import "sort"

// DataQualityReport tallies what normalization had to give up on for one
// board: missing cells per column, the set of currency tags seen, and any
// parse warnings. It is built during a single normalization pass and
// read-only afterwards.
type DataQualityReport struct {
	TotalRows     int
	MissingCounts map[string]int
	CurrencyTypes map[string]struct{}
	Warnings      []string
}

func NewDataQualityReport() *DataQualityReport {
	return &DataQualityReport{
		MissingCounts: make(map[string]int),
		CurrencyTypes: make(map[string]struct{}),
	}
}

func (r *DataQualityReport) RecordMissing(column string) {
	r.MissingCounts[column]++
}

func (r *DataQualityReport) RecordCurrency(tag string) {
	if tag != "" {
		r.CurrencyTypes[tag] = struct{}{}
	}
}

func (r *DataQualityReport) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// CurrencyList returns the observed currency tags in sorted order.
func (r *DataQualityReport) CurrencyList() []string {
	tags := make([]string, 0, len(r.CurrencyTypes))
	for tag := range r.CurrencyTypes {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TotalMissing sums missing cells across all columns.
func (r *DataQualityReport) TotalMissing() int {
	total := 0
	for _, c := range r.MissingCounts {
		total += c
	}
	return total
}
