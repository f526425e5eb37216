package render

import (
	"fmt"
	"strings"

	"TrenchScan/internal/domain/models"
)

// RevealState is the cursor of a reveal sequence: how many catalog steps are
// visible plus whether the predictions and verdict phases have been entered.
// It only ever advances.
type RevealState struct {
	Step            int
	ShowPredictions bool
	ShowVerdict     bool
}

// Complete reports whether the reveal has run through all steps or was
// forced to completion by the verdict phase.
func (r RevealState) Complete(total int) bool {
	return r.Step >= total || r.ShowVerdict
}

// Composer assembles the full message body for a given reveal state. It is
// pure: the same inputs always produce byte-identical output.
type Composer struct {
	catalog Catalog
}

// NewComposer creates a Composer over a step catalog.
func NewComposer(catalog Catalog) *Composer {
	return &Composer{catalog: catalog}
}

// Catalog returns the composer's step catalog.
func (c *Composer) Catalog() Catalog { return c.catalog }

// Compose renders the message for one token at the given reveal state. Step
// panels appear only for catalog steps whose index is below the reveal index
// and whose result is present in the payload; predictions appear once all
// steps are revealed; the verdict appears only when completion is forced.
func (c *Composer) Compose(tokenAddress string, payload *models.AnalysisPayload, reveal RevealState) string {
	display := tokenAddress
	if len([]rune(display)) > 20 {
		display = truncate(display, 20) + "..."
	}

	lines := []string{
		"🔍 Analyzing Token",
		fmt.Sprintf("`%s`", display),
		"",
		FormatOverview(payload.Metadata, payload.Metrics),
	}

	analysis := payload.Analysis
	if analysis == nil {
		return strings.Join(lines, "\n")
	}

	total := len(c.catalog)

	var revealed []string
	for i, sd := range c.catalog {
		if i >= reveal.Step {
			break
		}
		if result := analysis.Step(sd.Key); result != nil {
			revealed = append(revealed, c.catalog.FormatStep(sd.Key, result))
		}
	}
	if len(revealed) > 0 {
		lines = append(lines, "\n📋 Analysis Results:")
		lines = append(lines, revealed...)
	}

	if reveal.Step < total && !reveal.ShowVerdict {
		lines = append(lines, fmt.Sprintf("\n⏳ Analyzing... (%d/%d)", reveal.Step, total))
		lines = append(lines, FormatProgressBar(reveal.Step, total))
	}

	if reveal.Complete(total) && analysis.Predictions != nil {
		lines = append(lines, FormatPredictions(analysis.Predictions))
	}

	if reveal.ShowVerdict && analysis.HasVerdict() {
		lines = append(lines, FormatVerdict(analysis.Verdict()))
	}

	return strings.Join(lines, "\n")
}
