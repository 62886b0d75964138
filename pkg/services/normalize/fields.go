package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultCurrency is assumed when a cell parses as a bare number with no
// symbol and no ISO code. Deployments in other regions override it through
// configuration.
const DefaultCurrency = "INR"

var (
	isoPrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	mdyRe       = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	isoCodeRe   = regexp.MustCompile(`(?i)\b([a-z]{3})\b`)
	bareNumRe   = regexp.MustCompile(`[^0-9.\-]`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// serialEpoch is day zero of the legacy spreadsheet date system.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial day-counts outside this open range are treated as plain numbers,
// not dates. The range covers roughly 1982 through 2064.
const (
	serialMin = 30000
	serialMax = 60000
)

// Date converts a raw cell value into an ISO yyyy-mm-dd string. It accepts
// an ISO date prefix, M/D/YYYY or M-D-YYYY, and a bare spreadsheet serial
// day-count. Anything else, including calendar-invalid input, reports false.
func Date(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if isoPrefixRe.MatchString(s) {
		t, err := time.Parse("2006-01-02", s[:10])
		if err != nil {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}
	if m := mdyRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > serialMin && serial < serialMax {
		return serialEpoch.AddDate(0, 0, int(serial)).Format("2006-01-02"), true
	}
	return "", false
}

var symbolCurrencies = map[string]string{
	"$": "USD",
	"₹": "INR",
	"€": "EUR",
	"£": "GBP",
}

// Amount is a parsed money cell. OK false means nothing numeric was
// recoverable; Currency is "UNKNOWN" when a number was recovered without
// any symbol or code context.
type Amount struct {
	Value    float64
	Currency string
	OK       bool
}

// Currency parses a raw money cell. It recognizes a leading symbol from
// {$, ₹, €, £} or an explicit 3-letter ISO code, strips thousands
// separators, and falls back to scraping the digits out of unstructured
// text. A bare number with no symbol or code is tagged defaultCurrency.
func Currency(raw, defaultCurrency string) Amount {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Amount{}
	}
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}

	currency := ""
	for symbol, code := range symbolCurrencies {
		if strings.HasPrefix(s, symbol) {
			currency = code
			s = strings.TrimSpace(strings.TrimPrefix(s, symbol))
			break
		}
	}
	if currency == "" {
		if m := isoCodeRe.FindStringSubmatch(s); m != nil {
			currency = strings.ToUpper(m[1])
			s = strings.TrimSpace(strings.Replace(s, m[0], "", 1))
		}
	}

	cleaned := strings.ReplaceAll(s, ",", "")
	if value, err := strconv.ParseFloat(cleaned, 64); err == nil {
		if currency == "" {
			currency = defaultCurrency
		}
		return Amount{Value: value, Currency: currency, OK: true}
	}

	// No structured match: scrape digits out of the original text.
	bare := bareNumRe.ReplaceAllString(raw, "")
	if value, err := strconv.ParseFloat(bare, 64); err == nil {
		return Amount{Value: value, Currency: "UNKNOWN", OK: true}
	}
	return Amount{}
}

// sectorSynonyms maps lowercased, whitespace-collapsed spellings to the
// canonical sector name. Canonical names map to themselves so that Sector
// is idempotent.
var sectorSynonyms = map[string]string{
	"o&g":              "Oil & Gas",
	"oil&gas":          "Oil & Gas",
	"oil & gas":        "Oil & Gas",
	"oil and gas":      "Oil & Gas",
	"petroleum":        "Oil & Gas",
	"mine":             "Mining",
	"mines":            "Mining",
	"mining":           "Mining",
	"power":            "Power",
	"energy":           "Power",
	"power generation": "Power",
	"infra":            "Infrastructure",
	"infrastructure":   "Infrastructure",
	"steel":            "Steel",
	"iron & steel":     "Steel",
	"iron and steel":   "Steel",
	"cement":           "Cement",
	"renewables":       "Renewables",
	"renewable":        "Renewables",
	"renewable energy": "Renewables",
	"solar":            "Renewables",
	"wind":             "Renewables",
	"mfg":              "Manufacturing",
	"manufacturing":    "Manufacturing",
}

// Sector canonicalizes a sector label against a fixed synonym table,
// ignoring case and whitespace runs. Unmatched non-empty input comes back
// trimmed but otherwise untouched.
func Sector(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	key := spaceRunRe.ReplaceAllString(strings.ToLower(trimmed), " ")
	if canonical, ok := sectorSynonyms[key]; ok {
		return canonical
	}
	return trimmed
}

// Text trims and collapses internal whitespace runs to single spaces.
func Text(raw string) string {
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(raw), " ")
}
