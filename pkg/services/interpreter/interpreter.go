// Package interpreter turns a natural-language request into a structured
// plan. It delegates to an external text-generation service when a key is
// configured and always has a deterministic keyword fallback, so
// interpretation never fails outright.
package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You translate questions about a sales pipeline and work orders into a JSON plan.
Respond with a single JSON object and nothing else:
{"data_sources": ["deals"|"work_orders"|"all"], "filters": {"sector": string|null, "quarter": string|null, "status": string|null, "date_range": string|null}}
Quarters are formatted like "Q2 2025". Use "all" when the question spans both sources or is ambiguous.`

type Interpreter struct {
	client *anthropic.Client
	model  string
	now    func() time.Time
}

func New(apiKey, model string) *Interpreter {
	i := &Interpreter{model: model, now: time.Now}
	if i.model == "" {
		i.model = defaultModel
	}
	if apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		i.client = &client
	}
	return i
}

// Interpret builds a plan for the message. Model errors degrade to the
// keyword fallback rather than failing the request.
func (i *Interpreter) Interpret(ctx context.Context, message string) domain.Plan {
	if i.client != nil {
		plan, err := i.interpretModel(ctx, message)
		if err == nil {
			return plan
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("model interpretation failed, using keyword fallback")
	}
	return i.keywordPlan(message)
}

type wirePlan struct {
	DataSources []string `json:"data_sources"`
	Filters     struct {
		Sector    string `json:"sector"`
		Quarter   string `json:"quarter"`
		Status    string `json:"status"`
		DateRange string `json:"date_range"`
	} `json:"filters"`
}

func (i *Interpreter) interpretModel(ctx context.Context, message string) (domain.Plan, error) {
	response, err := i.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(i.model),
		MaxTokens: 512,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	})
	if err != nil {
		return domain.Plan{}, fmt.Errorf("interpretation request: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	parsed, err := parsePlanJSON(text)
	if err != nil {
		return domain.Plan{}, err
	}
	return parsed, nil
}

// parsePlanJSON tolerates prose around the JSON object by slicing from the
// first '{' to the last '}'.
func parsePlanJSON(text string) (domain.Plan, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return domain.Plan{}, fmt.Errorf("no JSON object in interpretation response")
	}
	var wire wirePlan
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return domain.Plan{}, fmt.Errorf("malformed interpretation response: %w", err)
	}

	plan := domain.Plan{Filters: domain.Filters{
		Sector:    wire.Filters.Sector,
		Quarter:   wire.Filters.Quarter,
		Status:    wire.Filters.Status,
		DateRange: wire.Filters.DateRange,
	}}
	for _, source := range wire.DataSources {
		switch domain.DataSource(source) {
		case domain.DataSourceDeals, domain.DataSourceWorkOrders, domain.DataSourceAll:
			plan.DataSources = append(plan.DataSources, domain.DataSource(source))
		}
	}
	if len(plan.DataSources) == 0 {
		plan.DataSources = []domain.DataSource{domain.DataSourceAll}
	}
	return plan, nil
}

var (
	dealWords      = []string{"deal", "pipeline", "sales", "revenue", "close rate", "win"}
	workOrderWords = []string{"work order", "work-order", "execution", "completion", "overdue", "collection"}
	quarterRe      = regexp.MustCompile(`(?i)\bq([1-4])(?:\s*[ '\-]?\s*(\d{4}|\d{2}))?`)
	statusWords    = []string{"won", "lost", "ongoing", "completed", "not started"}
)

// keywordPlan is the deterministic fallback: coarse keyword routing plus
// sector and quarter extraction.
func (i *Interpreter) keywordPlan(message string) domain.Plan {
	lower := strings.ToLower(message)

	wantsDeals := containsAny(lower, dealWords)
	wantsWorkOrders := containsAny(lower, workOrderWords)

	var sources []domain.DataSource
	switch {
	case wantsDeals && !wantsWorkOrders:
		sources = []domain.DataSource{domain.DataSourceDeals}
	case wantsWorkOrders && !wantsDeals:
		sources = []domain.DataSource{domain.DataSourceWorkOrders}
	default:
		sources = []domain.DataSource{domain.DataSourceAll}
	}

	filters := domain.Filters{
		Sector:  extractSector(lower),
		Quarter: i.extractQuarter(lower),
	}
	for _, status := range statusWords {
		if strings.Contains(lower, status) {
			filters.Status = status
			break
		}
	}
	return domain.Plan{DataSources: sources, Filters: filters}
}

// sectorTerms mirror the canonicalization synonym table; the first hit in
// the message wins.
var sectorTerms = []struct{ term, canonical string }{
	{"oil and gas", "Oil & Gas"},
	{"oil & gas", "Oil & Gas"},
	{"o&g", "Oil & Gas"},
	{"mining", "Mining"},
	{"renewable", "Renewables"},
	{"solar", "Renewables"},
	{"wind", "Renewables"},
	{"infrastructure", "Infrastructure"},
	{"infra", "Infrastructure"},
	{"steel", "Steel"},
	{"cement", "Cement"},
	{"power", "Power"},
	{"manufacturing", "Manufacturing"},
}

func extractSector(lower string) string {
	for _, entry := range sectorTerms {
		if strings.Contains(lower, entry.term) {
			return entry.canonical
		}
	}
	return ""
}

func (i *Interpreter) extractQuarter(lower string) string {
	m := quarterRe.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	year := m[2]
	switch len(year) {
	case 0:
		year = fmt.Sprintf("%d", i.now().Year())
	case 2:
		year = "20" + year
	}
	return fmt.Sprintf("Q%s %s", m[1], year)
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
