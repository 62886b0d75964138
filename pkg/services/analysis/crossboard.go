package analysis

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/metrics"
	"github.com/crm-tools/board-insights/pkg/services/normalize"
)

// Deal names shorter than this never participate in substring matching;
// one- and two-character names link to practically everything.
const minLinkNameLen = 3

// minSharedPrefixTokens is the leading-word overlap required for a partial
// name match. One shared word ("Phase", "Project") is too generic.
const minSharedPrefixTokens = 2

const (
	lowCloseRateThreshold  = 0.30
	lowCompletionThreshold = 0.50
	fragmentedMinDeals     = 20
	fragmentedShare        = 0.03
)

// Linker associates work orders with deals. The default implementation
// matches on names and sector text; a future explicit relation field can
// replace it without touching callers.
type Linker interface {
	Link(deals, workOrders []domain.Row) (nameLinked, sectorLinked int)
}

// Analyzer produces cross-board linkage counts and deterministic insight
// facts from two normalized row sets and their metrics.
type Analyzer struct {
	linker Linker
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{linker: NameLinker{}}
}

func NewAnalyzerWithLinker(linker Linker) *Analyzer {
	return &Analyzer{linker: linker}
}

func (a *Analyzer) Analyze(
	deals, workOrders []domain.Row,
	dm *domain.DealMetrics,
	wm *domain.WorkOrderMetrics,
) *domain.CrossBoardResult {
	nameLinked, sectorLinked := a.linker.Link(deals, workOrders)

	// The reported count is the stronger of the two heuristics, not their
	// union: the same work order frequently trips both.
	linked := nameLinked
	if sectorLinked > linked {
		linked = sectorLinked
	}

	result := &domain.CrossBoardResult{
		LinkedCount:       linked,
		SectorLinkedCount: sectorLinked,
	}
	result.Insights = a.insights(deals, workOrders, dm, wm)
	return result
}

func (a *Analyzer) insights(
	deals, workOrders []domain.Row,
	dm *domain.DealMetrics,
	wm *domain.WorkOrderMetrics,
) []string {
	var facts []string

	if dm != nil && dm.Count > 0 && dm.CloseRate < lowCloseRateThreshold {
		facts = append(facts, fmt.Sprintf(
			"Close rate is %.0f%%, below the %.0f%% benchmark.",
			dm.CloseRate*100, lowCloseRateThreshold*100))
	}
	if wm != nil && wm.Count > 0 && wm.Overdue > 0 {
		facts = append(facts, fmt.Sprintf(
			"%d of %d work orders are past their end date.", wm.Overdue, wm.Count))
	}
	if wm != nil && wm.Count > 0 && wm.CompletionPct < lowCompletionThreshold {
		facts = append(facts, fmt.Sprintf(
			"Work order completion is at %.0f%%.", wm.CompletionPct*100))
	}
	if dm != nil && dm.Count > fragmentedMinDeals && dm.AvgDealSize < fragmentedShare*dm.TotalValue {
		facts = append(facts, fmt.Sprintf(
			"Pipeline is fragmented: %d deals with an average size of %.0f, under %.0f%% of total pipeline.",
			dm.Count, dm.AvgDealSize, fragmentedShare*100))
	}
	if gap := a.readinessGaps(deals, workOrders, dm); len(gap) > 0 {
		preview := gap
		if len(preview) > 3 {
			preview = preview[:3]
		}
		facts = append(facts, fmt.Sprintf(
			"%d above-average deals have no matching work order: %s.",
			len(gap), strings.Join(preview, ", ")))
	}
	return facts
}

// readinessGaps lists deals valued above the average that no work order
// name-matches, sorted for deterministic output.
func (a *Analyzer) readinessGaps(deals, workOrders []domain.Row, dm *domain.DealMetrics) []string {
	if dm == nil || dm.Count == 0 || dm.AvgDealSize <= 0 {
		return nil
	}
	valueCol := normalize.FindColumn(deals, metrics.DealValueColumns)
	if valueCol == "" {
		return nil
	}

	blobs := make([]string, 0, len(workOrders))
	woTokens := make([][]string, 0, len(workOrders))
	for _, wo := range workOrders {
		blobs = append(blobs, concatStringCells(wo))
		woTokens = append(woTokens, nameTokens(strings.ToLower(wo.DisplayName())))
	}

	var gaps []string
	for _, deal := range deals {
		value, _ := deal[valueCol].(float64)
		if value <= dm.AvgDealSize {
			continue
		}
		name := strings.ToLower(deal.DisplayName())
		if len(name) < minLinkNameLen {
			continue
		}
		tokens := nameTokens(name)
		matched := false
		for i, blob := range blobs {
			if strings.Contains(blob, name) || sharesNamePrefix(tokens, woTokens[i]) {
				matched = true
				break
			}
		}
		if !matched {
			gaps = append(gaps, deal.DisplayName())
		}
	}
	sort.Strings(gaps)
	return gaps
}

// NameLinker is the default heuristic: a work order links to a deal when
// either display name contains the other, when the two names share at least
// two leading words ("Acme Solar Rollout" / "Acme Solar — Phase 1"), or
// when the deal name appears anywhere in the work order's string cells; it
// sector-links when any sector seen on the deals board appears in those
// cells.
type NameLinker struct{}

type dealKey struct {
	name   string
	tokens []string
}

func (NameLinker) Link(deals, workOrders []domain.Row) (int, int) {
	var dealNames []dealKey
	for _, deal := range deals {
		name := strings.ToLower(deal.DisplayName())
		if len(name) >= minLinkNameLen {
			dealNames = append(dealNames, dealKey{name: name, tokens: nameTokens(name)})
		}
	}

	var dealSectors []string
	if sectorCol := normalize.FindColumn(deals, metrics.DealSectorColumns); sectorCol != "" {
		seen := make(map[string]struct{})
		for _, deal := range deals {
			if sector, ok := deal[sectorCol].(string); ok && sector != "" {
				key := strings.ToLower(sector)
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					dealSectors = append(dealSectors, key)
				}
			}
		}
	}

	nameLinked := 0
	sectorLinked := 0
	for _, wo := range workOrders {
		woName := strings.ToLower(wo.DisplayName())
		woTokens := nameTokens(woName)
		blob := concatStringCells(wo)

		for _, deal := range dealNames {
			if strings.Contains(woName, deal.name) ||
				(woName != "" && strings.Contains(deal.name, woName)) ||
				sharesNamePrefix(deal.tokens, woTokens) ||
				strings.Contains(blob, deal.name) {
				nameLinked++
				break
			}
		}
		for _, sector := range dealSectors {
			if strings.Contains(blob, sector) {
				sectorLinked++
				break
			}
		}
	}
	return nameLinked, sectorLinked
}

// nameTokens splits a lowercased display name into alphanumeric words,
// dropping punctuation and dashes.
func nameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// sharesNamePrefix reports whether two tokenized names start with the same
// words. It requires minSharedPrefixTokens words and a combined length of
// at least minLinkNameLen, so "a 1" prefixes stay excluded.
func sharesNamePrefix(a, b []string) bool {
	shared := 0
	length := 0
	for shared < len(a) && shared < len(b) && a[shared] == b[shared] {
		length += len(a[shared])
		shared++
	}
	return shared >= minSharedPrefixTokens && length >= minLinkNameLen
}

// concatStringCells lowercases and joins every string-valued cell of a row.
func concatStringCells(row domain.Row) string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		if s, ok := row[key].(string); ok && s != "" {
			parts = append(parts, strings.ToLower(s))
		}
	}
	return strings.Join(parts, " | ")
}
