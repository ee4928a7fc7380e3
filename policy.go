package outputcache

// Selector decides which remote outputs are worth caching locally.
//
// Implementations are typically per-language: given the full artifact
// snapshot along with the host's targets and workspace settings, a
// selector returns the logical paths it wants cached. Selectors are
// registered explicitly via [WithSelectors] and consulted in order;
// their selections are unioned, with the engine filtering out source
// (non-generated) artifacts and paths the generation cannot resolve.
type Selector interface {
	SelectOutputs(gen Generation, targets TargetSet, settings LanguageSettings) []string
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(gen Generation, targets TargetSet, settings LanguageSettings) []string

// SelectOutputs calls f.
func (f SelectorFunc) SelectOutputs(gen Generation, targets TargetSet, settings LanguageSettings) []string {
	return f(gen, targets, settings)
}
