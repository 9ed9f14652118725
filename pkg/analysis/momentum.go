package analysis

import (
	"fmt"
	"strings"

	"tokenlens/pkg/keywords"
)

// MomentumResult is the output of MomentumClassifier
type MomentumResult struct {
	Tier        Momentum
	HypeCount   int
	InfoDensity int
	Context     string
}

type momentumRule struct {
	tier    Momentum
	applies func(hypeCount, infoDensity int) bool
}

// Evaluated in order; the first rule that applies wins.
var momentumRules = []momentumRule{
	{MomentumStrong, func(h, i int) bool { return h >= 5 && i <= 1 }},
	{MomentumModerate, func(h, _ int) bool { return h >= 3 }},
	{MomentumWeak, func(h, i int) bool { return h == 0 && i > 0 }},
}

// MomentumClassifier blends hype-term count with utility-cue count
type MomentumClassifier struct {
	hype    *keywords.Bank
	utility *keywords.Bank
}

func NewMomentumClassifier(hype, utility *keywords.Bank) *MomentumClassifier {
	return &MomentumClassifier{hype: hype, utility: utility}
}

func (c *MomentumClassifier) Classify(text string) MomentumResult {
	hypeCount := c.hype.Count(text)
	infoDensity := c.utility.Count(text)

	tier := MomentumNeutral
	for _, rule := range momentumRules {
		if rule.applies(hypeCount, infoDensity) {
			tier = rule.tier
			break
		}
	}

	return MomentumResult{
		Tier:        tier,
		HypeCount:   hypeCount,
		InfoDensity: infoDensity,
		Context: fmt.Sprintf("Momentum conditions appear %s. This is contextual only and not predictive.",
			strings.ToLower(string(tier))),
	}
}
