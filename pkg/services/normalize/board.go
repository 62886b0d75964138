package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crm-tools/board-insights/pkg/models/domain"
)

var (
	dateTitleRe = regexp.MustCompile(`(?i)\bdate\b`)
	// Titles like "Billed Quantity" or "Invoice Balance" mention dates only
	// incidentally and must stay on the money path.
	quantityTitleRe = regexp.MustCompile(`(?i)quantity|billed|invoice|balance`)
	moneyTitleRe    = regexp.MustCompile(`(?i)value|amount|price|revenue|billed|collected|receivable|quantity`)
)

// Normalizer turns raw boards into typed row sets plus a data-quality
// report. It is stateless apart from the configured default currency and
// safe for concurrent use.
type Normalizer struct {
	defaultCurrency string
}

func NewNormalizer(defaultCurrency string) *Normalizer {
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &Normalizer{defaultCurrency: defaultCurrency}
}

// NormalizeBoard applies the field normalizers to every cell of the board,
// choosing the normalizer per column from the declared type and title
// heuristics. Every column title ends up as a key in every row; cells that
// cannot be recovered become nil and are tallied in the report. Rows are
// never dropped.
func (n *Normalizer) NormalizeBoard(board domain.RawBoard) domain.NormalizedBoard {
	quality := domain.NewDataQualityReport()
	rows := make([]domain.Row, 0, len(board.Items))

	for _, item := range board.Items {
		row := domain.Row{
			domain.RowKeyID:   item.ID,
			domain.RowKeyName: item.Name,
		}
		cells := make(map[string]domain.Cell, len(item.Cells))
		for _, cell := range item.Cells {
			cells[cell.ColumnID] = cell
		}

		for _, col := range board.Columns {
			cell := cells[col.ID]
			text := strings.TrimSpace(cell.Text)
			if text == "" {
				text = extractStructured(cell)
			}
			if text == "" {
				quality.RecordMissing(col.Title)
				row[col.Title] = nil
				continue
			}

			switch {
			case isDateColumn(col):
				iso, ok := Date(text)
				if !ok {
					quality.AddWarning(fmt.Sprintf("could not parse %q as a date in column %q", text, col.Title))
					row[col.Title] = nil
					continue
				}
				row[col.Title] = iso
			case isMoneyColumn(col):
				amount := Currency(text, n.defaultCurrency)
				if !amount.OK {
					row[col.Title] = nil
					row[col.Title+domain.CurrencySuffix] = nil
					continue
				}
				row[col.Title] = amount.Value
				row[col.Title+domain.CurrencySuffix] = amount.Currency
				quality.RecordCurrency(amount.Currency)
			default:
				row[col.Title] = Text(text)
			}
		}
		rows = append(rows, row)
	}

	quality.TotalRows = len(rows)
	if tags := quality.CurrencyList(); len(tags) > 1 {
		quality.AddWarning("mixed currencies on board: " + strings.Join(tags, ", "))
	}

	return domain.NormalizedBoard{
		BoardName: board.Name,
		Rows:      rows,
		Quality:   quality,
	}
}

// extractStructured recovers a display value from the cell's structured
// payload when the plain text is blank. Label-bearing types yield their
// label, date types their date sub-field, numeric types their stringified
// number.
func extractStructured(cell domain.Cell) string {
	raw := strings.TrimSpace(cell.RawValue)
	if raw == "" || raw == "null" {
		return ""
	}
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return ""
	}
	switch v := payload.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any:
		switch cell.Type {
		case "status", "color", "dropdown", "label", "tags":
			if label, ok := v["label"].(string); ok {
				return strings.TrimSpace(label)
			}
		case "date", "timeline":
			if date, ok := v["date"].(string); ok {
				return strings.TrimSpace(date)
			}
		case "numbers", "numeric", "number":
			switch num := v["number"].(type) {
			case float64:
				return strconv.FormatFloat(num, 'f', -1, 64)
			case string:
				return strings.TrimSpace(num)
			}
		}
	}
	return ""
}

func isDateColumn(col domain.Column) bool {
	if quantityTitleRe.MatchString(col.Title) {
		return false
	}
	return strings.Contains(strings.ToLower(col.Type), "date") || dateTitleRe.MatchString(col.Title)
}

func isMoneyColumn(col domain.Column) bool {
	switch col.Type {
	case "numbers", "numeric", "number":
		return true
	}
	return moneyTitleRe.MatchString(col.Title)
}
