package patterns

import "regexp"

// Red-flag labels are part of the behavioral contract: the report layer and
// tests rely on these exact strings.
const (
	FlagImmediateCardiac = "Chest symptoms require immediate cardiac evaluation"
	FlagPromptCardiac    = "Chest symptoms require prompt evaluation"
	FlagActiveBleeding   = "Active bleeding requires urgent assessment"
	FlagThunderclap      = "Sudden severe headache requires urgent assessment"
	FlagSyncope          = "Loss of consciousness requires prompt evaluation"
)

var (
	chestTermsRE = regexp.MustCompile(`\bchest\b|\bheart\b`)
	// Escalators: co-occurring breathing difficulty, sharp pain, or
	// pressure/tightness upgrade a chest mention to the immediate tier.
	breathingRE = regexp.MustCompile(`short(?:ness)? of breath|breathless|difficulty breathing|trouble breathing|hard to breathe|can'?t breathe`)
	sharpPainRE = regexp.MustCompile(`\bsharp\b`)
	pressureRE  = regexp.MustCompile(`\bpressure\b|\btight(?:ness)?\b|\bsqueez\w*\b|\bcrushing\b`)

	bleedingRE    = regexp.MustCompile(`uncontrolled bleeding|bleeding (?:a lot|heavily)|coughing up blood|blood in (?:my )?(?:stool|urine|vomit)`)
	thunderclapRE = regexp.MustCompile(`worst headache`)
	syncopeRE     = regexp.MustCompile(`\bfainted\b|passed out|blacked out|lost consciousness`)
)

// RedFlags evaluates the tiered decision table over lower-cased transcript
// text. Chest/heart terms alone yield only the milder prompt-evaluation
// flag; escalation to the immediate tier needs a co-occurring breathing,
// sharp-pain, or pressure term, so an isolated keyword hit never
// over-alarms.
func RedFlags(text string) []string {
	var flags []string
	if chestTermsRE.MatchString(text) {
		if breathingRE.MatchString(text) || sharpPainRE.MatchString(text) || pressureRE.MatchString(text) {
			flags = append(flags, FlagImmediateCardiac)
		} else {
			flags = append(flags, FlagPromptCardiac)
		}
	}
	if bleedingRE.MatchString(text) {
		flags = append(flags, FlagActiveBleeding)
	}
	if thunderclapRE.MatchString(text) {
		flags = append(flags, FlagThunderclap)
	}
	if syncopeRE.MatchString(text) {
		flags = append(flags, FlagSyncope)
	}
	return flags
}
