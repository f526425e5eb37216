package render

// StepDefinition describes one analysis step: the payload key it is keyed
// by, its display label, and its icon glyph.
type StepDefinition struct {
	Key   string
	Label string
	Icon  string
}

// Catalog is the ordered, immutable list of analysis steps. Its order is the
// canonical reveal order used by the composer and the sequencer.
type Catalog []StepDefinition

// DefaultCatalog returns the step catalog matching the web app.
func DefaultCatalog() Catalog {
	return Catalog{
		{Key: "bundles", Label: "Bundle Detection", Icon: "🎯"},
		{Key: "devHistory", Label: "Developer History", Icon: "👤"},
		{Key: "topHolders", Label: "Top Holders Analysis", Icon: "👥"},
		{Key: "chart", Label: "Chart Pattern Analysis", Icon: "📈"},
		{Key: "freshWallets", Label: "Fresh Wallet Activity", Icon: "✨"},
		{Key: "devSold", Label: "Developer Activity", Icon: "⚡"},
		{Key: "lore", Label: "Lore & Narrative", Icon: "📖"},
		{Key: "socials", Label: "Social Media Presence", Icon: "🌐"},
	}
}

// Find returns the definition for a step key.
func (c Catalog) Find(key string) (StepDefinition, bool) {
	for _, sd := range c {
		if sd.Key == key {
			return sd, true
		}
	}
	return StepDefinition{}, false
}
