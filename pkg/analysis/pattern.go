package analysis

import "tokenlens/pkg/keywords"

const (
	memePatternStatement      = "Language resembles early high-hype meme-token patterns. This is NOT predictive of performance."
	utilityPatternStatement   = "Messaging hints at utility-focused tokens with quieter tone. This is contextual only."
	communityPatternStatement = "Description aligns with community-driven hype narratives; educational context only, not a forecast."
)

type patternRule struct {
	bank      *keywords.Bank
	statement string
}

// PatternClassifier maps text to one of three fixed narrative statements.
// The community statement is the fallback and needs no cue.
type PatternClassifier struct {
	rules []patternRule
}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{
		rules: []patternRule{
			{keywords.MustBank("meme-pattern", "meme", "moon"), memePatternStatement},
			{keywords.MustBank("utility-pattern", "utility", "product"), utilityPatternStatement},
		},
	}
}

func (c *PatternClassifier) Classify(text string) string {
	for _, rule := range c.rules {
		if rule.bank.Any(text) {
			return rule.statement
		}
	}
	return communityPatternStatement
}
