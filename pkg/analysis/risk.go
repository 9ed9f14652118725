package analysis

import (
	"fmt"

	"tokenlens/pkg/keywords"
)

const (
	missingUtilitySignal = "No clear utility or product description detected; consider verifying real-world purpose."
	anonymousTeamSignal  = "Anonymous team mentioned; assess accountability and transparency."
	noRiskSignal         = "No explicit risk phrases spotted, but always research independently."
)

// Fixed heuristics, independent of the configurable risk bank.
var (
	utilityMentions   = keywords.MustBank("utility-mention", "utility", "product", "roadmap")
	anonymousMentions = keywords.MustBank("anonymous-mention", "anonymous", "anon")
)

// RiskDetector lists promotional or low-transparency cues
type RiskDetector struct {
	risk *keywords.Bank
}

func NewRiskDetector(risk *keywords.Bank) *RiskDetector {
	return &RiskDetector{risk: risk}
}

// Detect never returns an empty slice.
func (d *RiskDetector) Detect(text string) []string {
	matched := d.risk.Matches(text)
	signals := make([]string, 0, len(matched)+2)

	for _, phrase := range matched {
		signals = append(signals, fmt.Sprintf("Risk cue detected: \"%s\" suggests promotional or speculative language.", phrase))
	}

	if !utilityMentions.Any(text) {
		signals = append(signals, missingUtilitySignal)
	}

	if anonymousMentions.Any(text) {
		signals = append(signals, anonymousTeamSignal)
	}

	if len(signals) == 0 {
		return []string{noRiskSignal}
	}
	return signals
}
