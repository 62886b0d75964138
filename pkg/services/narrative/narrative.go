// Package narrative renders an execution result as an answer for the chat
// surface. With a configured key it asks the external text-generation
// service to phrase the answer from the computed figures; otherwise it
// falls back to a deterministic template. The numbers always come from the
// result, never from the model.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

const defaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You summarize pre-computed CRM metrics for a business user.
Use only the figures in the provided JSON; do not invent numbers.
Answer in a few short sentences, mention the confidence score when it is below 0.7.`

type Generator struct {
	client *anthropic.Client
	model  string
}

func New(apiKey, model string) *Generator {
	g := &Generator{model: model}
	if g.model == "" {
		g.model = defaultModel
	}
	if apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		g.client = &client
	}
	return g
}

// Render produces the reply text for a result. Fatal execution errors are
// reported verbatim; model failures degrade to the template fallback.
func (g *Generator) Render(ctx context.Context, question string, result domain.ExecutionResult) string {
	if result.Error != "" {
		return "I couldn't complete that analysis: " + result.Error
	}
	if g.client != nil {
		text, err := g.renderModel(ctx, question, result)
		if err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("model narration failed, using template fallback")
	}
	return renderTemplate(result)
}

func (g *Generator) renderModel(ctx context.Context, question string, result domain.ExecutionResult) (string, error) {
	payload, err := json.Marshal(summaryPayload(result))
	if err != nil {
		return "", fmt.Errorf("encode metrics: %w", err)
	}

	response, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				fmt.Sprintf("Question: %s\n\nMetrics:\n%s", question, payload))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("narration request: %w", err)
	}
	for _, block := range response.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in narration response")
}

// summaryPayload strips the row tables before sending metrics to the
// model; previews are for the UI, not the prompt.
func summaryPayload(result domain.ExecutionResult) map[string]any {
	return map[string]any{
		"metrics":     result.Metrics,
		"dataQuality": result.DataQuality,
		"confidence":  result.Confidence,
	}
}

func renderTemplate(result domain.ExecutionResult) string {
	var b strings.Builder

	if deals := result.Metrics.Deals; deals != nil {
		fmt.Fprintf(&b, "Pipeline: %d deals worth %s; %d closed won (%.0f%% close rate), average deal size %s.\n",
			deals.Count, formatAmount(deals.TotalValue), deals.ClosedWon, deals.CloseRate*100, formatAmount(deals.AvgDealSize))
		if len(deals.QuarterlyRevenue) > 0 {
			b.WriteString("Revenue by quarter: " + formatQuarterly(deals.QuarterlyRevenue) + ".\n")
		}
	}
	if filtered := result.Metrics.FilteredDeals; filtered != nil {
		fmt.Fprintf(&b, "Filtered view: %d deals worth %s.\n",
			filtered.Count, formatAmount(filtered.TotalValue))
	}
	if focus := result.Metrics.QuarterFocus; focus != nil {
		if focus.Matched {
			fmt.Fprintf(&b, "%s revenue: %s.\n", focus.Quarter, formatAmount(focus.Revenue))
		} else {
			fmt.Fprintf(&b, "No revenue recorded for %s.\n", focus.Quarter)
		}
	}
	if wo := result.Metrics.WorkOrders; wo != nil {
		fmt.Fprintf(&b, "Work orders: %d total, %d completed (%.0f%%), %d overdue; collection rate %.0f%%.\n",
			wo.Count, wo.Completed, wo.CompletionPct*100, wo.Overdue, wo.CollectionRate*100)
	}
	if cross := result.Metrics.CrossBoard; cross != nil {
		fmt.Fprintf(&b, "%d work orders link to deals.\n", cross.LinkedCount)
		for _, insight := range cross.Insights {
			b.WriteString("- " + insight + "\n")
		}
	}
	if b.Len() == 0 {
		b.WriteString("No data was available for that request.\n")
	}
	fmt.Fprintf(&b, "Confidence: %.2f", result.Confidence)
	return b.String()
}

func formatAmount(v float64) string {
	if v >= 1e7 {
		return fmt.Sprintf("%.1fCr", v/1e7)
	}
	if v >= 1e5 {
		return fmt.Sprintf("%.1fL", v/1e5)
	}
	return fmt.Sprintf("%.0f", v)
}

func formatQuarterly(revenue map[string]float64) string {
	quarters := make([]string, 0, len(revenue))
	for quarter := range revenue {
		quarters = append(quarters, quarter)
	}
	sort.Strings(quarters)

	parts := make([]string, 0, len(quarters))
	for _, quarter := range quarters {
		parts = append(parts, fmt.Sprintf("%s %s", quarter, formatAmount(revenue[quarter])))
	}
	return strings.Join(parts, ", ")
}
