// Package plan orchestrates a single analysis request: fetch the requested
// boards, normalize them, aggregate metrics, cross-analyze, filter, score.
// Each execution owns all of its intermediate state; nothing is cached or
// shared between requests.
package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/crm-tools/board-insights/pkg/models/domain"
	"github.com/crm-tools/board-insights/pkg/services/analysis"
	"github.com/crm-tools/board-insights/pkg/services/metrics"
	"github.com/crm-tools/board-insights/pkg/services/normalize"
	"github.com/crm-tools/board-insights/pkg/store/boards"
)

// previewRows caps the row previews handed to the narrative layer.
const previewRows = 20

type Config struct {
	DealsBoardID      string
	WorkOrdersBoardID string
	DefaultCurrency   string
}

type Executor struct {
	fetcher    boards.Fetcher
	normalizer *normalize.Normalizer
	analyzer   *analysis.Analyzer
	cfg        Config
	now        func() time.Time
}

func NewExecutor(fetcher boards.Fetcher, cfg Config) *Executor {
	return &Executor{
		fetcher:    fetcher,
		normalizer: normalize.NewNormalizer(cfg.DefaultCurrency),
		analyzer:   analysis.NewAnalyzer(),
		cfg:        cfg,
		now:        time.Now,
	}
}

// Execute runs the full pipeline for one plan. Configuration gaps and fetch
// failures are fatal: the result carries only the error, never partial
// metrics. Everything downstream of the fetches is total and cannot fail.
func (e *Executor) Execute(ctx context.Context, p domain.Plan) domain.ExecutionResult {
	logger := zerolog.Ctx(ctx)

	wantDeals := p.Wants(domain.DataSourceDeals)
	wantWorkOrders := p.Wants(domain.DataSourceWorkOrders)

	if wantDeals && e.cfg.DealsBoardID == "" {
		return errorResult("deals board id is not configured")
	}
	if wantWorkOrders && e.cfg.WorkOrdersBoardID == "" {
		return errorResult("work orders board id is not configured")
	}

	// The two fetches have no data dependency, so they run concurrently;
	// each writes a disjoint variable.
	var dealsBoard, workOrdersBoard *domain.RawBoard
	g, gctx := errgroup.WithContext(ctx)
	if wantDeals {
		g.Go(func() error {
			board, err := e.fetcher.FetchBoard(gctx, e.cfg.DealsBoardID)
			if err != nil {
				return fmt.Errorf("deals: %w", err)
			}
			dealsBoard = board
			return nil
		})
	}
	if wantWorkOrders {
		g.Go(func() error {
			board, err := e.fetcher.FetchBoard(gctx, e.cfg.WorkOrdersBoardID)
			if err != nil {
				return fmt.Errorf("work orders: %w", err)
			}
			workOrdersBoard = board
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("board fetch failed, aborting plan")
		return errorResult(err.Error())
	}

	var result domain.ExecutionResult
	var dealRows []domain.Row

	if dealsBoard != nil {
		normalized := e.normalizer.NormalizeBoard(*dealsBoard)
		dealRows = normalized.Rows
		result.DataQuality.Deals = normalized.Quality
		result.Metrics.Deals = metrics.ComputeDealMetrics(normalized.Rows)
		result.Tables.Deals = preview(normalized.Rows)
		logger.Debug().
			Str("board", normalized.BoardName).
			Int("rows", len(normalized.Rows)).
			Msg("deals board normalized")
	}

	var workOrderRows []domain.Row
	if workOrdersBoard != nil {
		normalized := e.normalizer.NormalizeBoard(*workOrdersBoard)
		workOrderRows = normalized.Rows
		result.DataQuality.WorkOrders = normalized.Quality
		result.Metrics.WorkOrders = metrics.ComputeWorkOrderMetrics(normalized.Rows, e.now())
		result.Tables.WorkOrders = preview(normalized.Rows)
		logger.Debug().
			Str("board", normalized.BoardName).
			Int("rows", len(normalized.Rows)).
			Msg("work orders board normalized")
	}

	if dealsBoard != nil && workOrdersBoard != nil {
		result.Metrics.CrossBoard = e.analyzer.Analyze(
			dealRows, workOrderRows, result.Metrics.Deals, result.Metrics.WorkOrders)
	}

	// Filters operate on already-computed deal rows, never on fresh fetches.
	if dealsBoard != nil {
		if sector := strings.TrimSpace(p.Filters.Sector); sector != "" {
			filtered := filterBySector(dealRows, sector)
			result.Metrics.FilteredDeals = metrics.ComputeDealMetrics(filtered)
			result.Tables.FilteredDeals = preview(filtered)
		}
		if quarter := normalizeQuarter(p.Filters.Quarter); quarter != "" {
			revenue, matched := result.Metrics.Deals.QuarterlyRevenue[quarter]
			result.Metrics.QuarterFocus = &domain.QuarterFocus{
				Quarter: quarter,
				Revenue: revenue,
				Matched: matched,
			}
		}
	}

	var reports []*domain.DataQualityReport
	if result.DataQuality.Deals != nil {
		reports = append(reports, result.DataQuality.Deals)
	}
	if result.DataQuality.WorkOrders != nil {
		reports = append(reports, result.DataQuality.WorkOrders)
	}
	result.Confidence = analysis.Score(reports...)
	return result
}

func errorResult(message string) domain.ExecutionResult {
	return domain.ExecutionResult{Error: message}
}

func preview(rows []domain.Row) []domain.Row {
	if len(rows) > previewRows {
		return rows[:previewRows]
	}
	return rows
}

// filterBySector keeps rows where the sector text appears in any
// string-valued cell, case-insensitively.
func filterBySector(rows []domain.Row, sector string) []domain.Row {
	want := strings.ToLower(sector)
	var filtered []domain.Row
	for _, row := range rows {
		for _, value := range row {
			if s, ok := value.(string); ok && strings.Contains(strings.ToLower(s), want) {
				filtered = append(filtered, row)
				break
			}
		}
	}
	return filtered
}

// normalizeQuarter uppercases the leading Q of labels like "q2 2025" so
// they line up with the quarterly revenue buckets.
func normalizeQuarter(quarter string) string {
	q := strings.TrimSpace(quarter)
	if q == "" {
		return ""
	}
	return strings.ToUpper(q[:1]) + q[1:]
}
