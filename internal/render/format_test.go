package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"TrenchScan/internal/domain/models"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{-5, "$0"},
		{500, "$500"},
		{999, "$999"},
		{1000, "$1.0K"},
		{45500, "$45.5K"},
		{999999, "$1000.0K"},
		{1000000, "$1.00M"},
		{2500000, "$2.50M"},
		{12345678, "$12.35M"},
	}
	for _, c := range cases {
		if got := FormatCurrency(c.in); got != c.want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatOverviewDefaults(t *testing.T) {
	out := FormatOverview(models.TokenMetadata{}, models.TokenMetrics{})
	if !strings.Contains(out, "Name: Unknown") {
		t.Fatalf("missing Unknown default:\n%s", out)
	}
	if !strings.Contains(out, "Symbol: N/A") {
		t.Fatalf("missing N/A default:\n%s", out)
	}
	if !strings.Contains(out, "Market Cap: $0") {
		t.Fatalf("missing zero market cap:\n%s", out)
	}
}

func TestFormatOverviewMarketCap(t *testing.T) {
	out := FormatOverview(
		models.TokenMetadata{Name: "Pepe", Symbol: "PEPE"},
		models.TokenMetrics{MarketCap: 2500000, Volume24h: 500},
	)
	if !strings.Contains(out, "$2.50M") {
		t.Fatalf("expected $2.50M in overview:\n%s", out)
	}
	if !strings.Contains(out, "$500") {
		t.Fatalf("expected $500 volume in overview:\n%s", out)
	}
}

func TestFormatOverviewTruncatesName(t *testing.T) {
	long := strings.Repeat("a", 40)
	out := FormatOverview(models.TokenMetadata{Name: long, Symbol: long}, models.TokenMetrics{})
	if strings.Contains(out, strings.Repeat("a", 26)) {
		t.Fatalf("name not truncated to 25:\n%s", out)
	}
}

func TestFormatStepStatusGlyphs(t *testing.T) {
	catalog := DefaultCatalog()
	cases := []struct {
		status string
		glyph  string
	}{
		{models.StatusSafe, "✅"},
		{models.StatusWarning, "⚠️"},
		{models.StatusDanger, "❌"},
		{models.StatusInfo, "ℹ️"},
		{models.StatusNeutral, "ℹ️"},
		{"bogus", "ℹ️"},
	}
	for _, c := range cases {
		out := catalog.FormatStep("bundles", &models.StepResult{Value: "3 bundles", Status: c.status})
		if !strings.Contains(out, c.glyph) {
			t.Fatalf("status %q: expected glyph %q in %q", c.status, c.glyph, out)
		}
	}
}

func TestFormatStepUnknownKey(t *testing.T) {
	out := DefaultCatalog().FormatStep("nonexistent", &models.StepResult{Value: "x"})
	if out != "" {
		t.Fatalf("expected empty output for unknown key, got %q", out)
	}
}

func TestFormatStepWrapsReason(t *testing.T) {
	reason := "the developer wallet sold a large position shortly after launch which is risky"
	out := DefaultCatalog().FormatStep("devSold", &models.StepResult{
		Value:  "Sold 40%",
		Status: models.StatusDanger,
		Reason: reason,
	})

	// Every wrapped line of the reason must fit in the reason column width.
	idx := strings.Index(out, "❌")
	if idx < 0 {
		t.Fatalf("missing status glyph:\n%s", out)
	}
	body := out[idx:]
	for _, line := range strings.Split(body, "\n")[1:] {
		line = strings.TrimPrefix(line, "   ")
		if n := utf8.RuneCountInString(line); n > reasonColumns {
			t.Fatalf("wrapped line exceeds %d runes (%d): %q", reasonColumns, n, line)
		}
	}
}

func TestFormatStepTruncatesLongReason(t *testing.T) {
	long := strings.Repeat("x", 100)
	out := DefaultCatalog().FormatStep("chart", &models.StepResult{Status: models.StatusInfo, Reason: long})
	if !strings.Contains(out, strings.Repeat("x", 67)+"...") {
		t.Fatalf("reason not truncated at 67+ellipsis:\n%s", out)
	}
	if strings.Contains(out, strings.Repeat("x", 68)) {
		t.Fatalf("truncation produced more than 67 reason characters:\n%s", out)
	}
}

func TestFormatPredictionsAbsent(t *testing.T) {
	if out := FormatPredictions(nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestFormatPredictionsPanel(t *testing.T) {
	out := FormatPredictions(&models.Predictions{
		Conservative: models.Scenario{Mcap: 5000000, Multiplier: "2x", Probability: 70, Timeframe: "1 week"},
		Moderate:     models.Scenario{Mcap: 12500000, Multiplier: "5x", Probability: 40, Timeframe: "1 month"},
		Aggressive:   models.Scenario{Mcap: 25000000, Multiplier: "10x", Probability: 15, Timeframe: "3 months"},
	})
	for _, want := range []string{"🟢 Conservative", "🟡 Moderate", "🔴 Aggressive", "$5.00M", "$12.50M", "$25.00M", "70%", "1 week"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in predictions panel:\n%s", want, out)
		}
	}
}

func TestFormatVerdict(t *testing.T) {
	out := FormatVerdict(&models.Verdict{Probability: 65, RiskLevel: models.RiskHigh, Recommendation: "Avoid"})
	if !strings.Contains(out, "🔴") || !strings.Contains(out, "65%") {
		t.Fatalf("unexpected verdict panel:\n%s", out)
	}

	// Missing risk level defaults to Medium.
	out = FormatVerdict(&models.Verdict{Probability: 50})
	if !strings.Contains(out, "🟡") || !strings.Contains(out, "Medium") {
		t.Fatalf("expected Medium default:\n%s", out)
	}
}

func TestFormatVerdictTruncatesRecommendation(t *testing.T) {
	out := FormatVerdict(&models.Verdict{Probability: 10, Recommendation: strings.Repeat("r", 200)})
	if !strings.Contains(out, strings.Repeat("r", 147)+"...") {
		t.Fatalf("recommendation not truncated:\n%s", out)
	}
}

func TestFormatProgressBar(t *testing.T) {
	cases := []struct {
		current, total int
		filled         int
		pct            string
	}{
		{0, 8, 0, "0%"},
		{3, 8, 7, "37%"},
		{4, 8, 10, "50%"},
		{8, 8, 20, "100%"},
	}
	for _, c := range cases {
		out := FormatProgressBar(c.current, c.total)
		if got := strings.Count(out, "█"); got != c.filled {
			t.Fatalf("%d/%d: filled cells = %d, want %d (%s)", c.current, c.total, got, c.filled, out)
		}
		if got := strings.Count(out, "░"); got != progressCells-c.filled {
			t.Fatalf("%d/%d: empty cells wrong (%s)", c.current, c.total, out)
		}
		if !strings.HasSuffix(out, c.pct) {
			t.Fatalf("%d/%d: percentage = %s, want suffix %s", c.current, c.total, out, c.pct)
		}
	}
}
