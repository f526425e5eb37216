package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"TrenchScan/internal/domain/models"
)

// Panel width constants. Panels are fixed-width boxes sized for the mobile
// Telegram client; reasons wrap at reasonColumns with an indented
// continuation prefix.
const (
	progressCells = 20
	reasonMaxLen  = 70
	reasonColumns = 27
)

var statusGlyphs = map[string]string{
	models.StatusSafe:    "✅",
	models.StatusWarning: "⚠️",
	models.StatusDanger:  "❌",
	models.StatusInfo:    "ℹ️",
	models.StatusNeutral: "ℹ️",
}

var riskGlyphs = map[string]string{
	models.RiskLow:    "🟢",
	models.RiskMedium: "🟡",
	models.RiskHigh:   "🔴",
}

// FormatCurrency renders a dollar amount compactly: two decimals with an M
// suffix from one million up, one decimal with a K suffix from one thousand
// up, a bare integer below that, and "$0" for zero or absent values.
func FormatCurrency(value float64) string {
	switch {
	case value <= 0:
		return "$0"
	case value >= 1_000_000:
		return fmt.Sprintf("$%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("$%.1fK", value/1_000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

// FormatOverview renders the token overview panel. Missing name/symbol
// render as "Unknown"/"N/A".
func FormatOverview(meta models.TokenMetadata, metrics models.TokenMetrics) string {
	name := meta.Name
	if name == "" {
		name = "Unknown"
	}
	symbol := meta.Symbol
	if symbol == "" {
		symbol = "N/A"
	}
	name = truncate(name, 25)
	symbol = truncate(symbol, 23)

	return "📊 Token Overview\n" +
		"┌─────────────────────────────┐\n" +
		fmt.Sprintf("│ Name: %-25s │\n", name) +
		fmt.Sprintf("│ Symbol: %-23s │\n", symbol) +
		fmt.Sprintf("│ Market Cap: %-18s │\n", FormatCurrency(metrics.MarketCap)) +
		fmt.Sprintf("│ Volume 24h: %-19s │\n", FormatCurrency(metrics.Volume24h)) +
		fmt.Sprintf("│ Liquidity: %-20s │\n", FormatCurrency(metrics.LiquidityUSD)) +
		"└─────────────────────────────┘"
}

// FormatStep renders one analysis step panel. Unknown step keys produce
// empty output.
func (c Catalog) FormatStep(key string, result *models.StepResult) string {
	sd, ok := c.Find(key)
	if !ok || result == nil {
		return ""
	}

	value := result.Value
	if value == "" {
		value = "N/A"
	}
	glyph, ok := statusGlyphs[result.Status]
	if !ok {
		glyph = "ℹ️"
	}

	reason := result.Reason
	if utf8.RuneCountInString(reason) > reasonMaxLen {
		reason = truncate(reason, reasonMaxLen-3) + "..."
	}

	return fmt.Sprintf("\n%s %s\n   %s %s\n   %s",
		sd.Icon, sd.Label, glyph, value, wrapReason(reason))
}

// FormatPredictions renders the three prediction scenarios as one panel, or
// empty output when the block is absent.
func FormatPredictions(p *models.Predictions) string {
	if p == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n📈 Market Cap Predictions\n")
	b.WriteString("┌─────────────────────────────┐\n")
	writeScenario(&b, "🟢 Conservative", p.Conservative)
	b.WriteString("├─────────────────────────────┤\n")
	writeScenario(&b, "🟡 Moderate", p.Moderate)
	b.WriteString("├─────────────────────────────┤\n")
	writeScenario(&b, "🔴 Aggressive", p.Aggressive)
	b.WriteString("└─────────────────────────────┘")
	return b.String()
}

func writeScenario(b *strings.Builder, title string, s models.Scenario) {
	multiplier := s.Multiplier
	if multiplier == "" {
		multiplier = "N/A"
	}
	timeframe := s.Timeframe
	if timeframe == "" {
		timeframe = "N/A"
	}
	fmt.Fprintf(b, "│ %-27s │\n", title)
	fmt.Fprintf(b, "│    Target: %-18s │\n", FormatCurrency(s.Mcap))
	fmt.Fprintf(b, "│    Multiplier: %-15s │\n", multiplier)
	fmt.Fprintf(b, "│    Probability: %d%%            │\n", s.Probability)
	fmt.Fprintf(b, "│    Timeframe: %-16s │\n", timeframe)
}

// FormatVerdict renders the final verdict panel.
func FormatVerdict(v *models.Verdict) string {
	if v == nil {
		return ""
	}

	risk := v.RiskLevel
	if risk == "" {
		risk = models.RiskMedium
	}
	glyph, ok := riskGlyphs[risk]
	if !ok {
		glyph = "🟡"
	}
	recommendation := v.Recommendation
	if utf8.RuneCountInString(recommendation) > 150 {
		recommendation = truncate(recommendation, 147) + "..."
	}

	return "\n🎯 Overall Verdict\n" +
		"┌─────────────────────────────┐\n" +
		fmt.Sprintf("│ Win Probability: %d%%        │\n", v.Probability) +
		fmt.Sprintf("│ Risk Level: %s %-18s │\n", glyph, risk) +
		"├─────────────────────────────┤\n" +
		fmt.Sprintf("│ %-27s │\n", recommendation) +
		"└─────────────────────────────┘"
}

// FormatProgressBar renders a 20-cell bar. total must be positive; it is
// always the fixed catalog length here.
func FormatProgressBar(current, total int) string {
	filled := progressCells * current / total
	percentage := 100 * current / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressCells-filled)
	return fmt.Sprintf("[%s] %d%%", bar, percentage)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// wrapReason greedily word-wraps text into lines of at most reasonColumns
// runes, joined with an indented continuation prefix.
func wrapReason(reason string) string {
	var b strings.Builder
	line := ""
	for _, word := range strings.Fields(reason) {
		if utf8.RuneCountInString(line+word) <= reasonColumns {
			line += word + " "
			continue
		}
		if line != "" {
			b.WriteString(strings.TrimSpace(line))
			b.WriteString("\n   ")
		}
		line = word + " "
	}
	b.WriteString(strings.TrimSpace(line))
	return b.String()
}
