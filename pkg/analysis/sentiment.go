package analysis

import (
	"fmt"

	"tokenlens/pkg/keywords"
)

const (
	baseSentimentScore = 50
	positiveCueWeight  = 8
	negativeCueWeight  = 12
	minSentimentScore  = 0
	maxSentimentScore  = 100

	// hype term counts strictly above these select the tier
	highHypeAbove   = 4
	mediumHypeAbove = 1
)

// Sentiment is the output of SentimentClassifier
type Sentiment struct {
	Score        int
	HypeLevel    HypeLevel
	PositiveCues []string
	NegativeCues []string
	HypeTerms    []string
	Notes        string
}

// SentimentClassifier scores positive and cautionary cue presence and
// derives the hype tier.
type SentimentClassifier struct {
	positive *keywords.Bank
	negative *keywords.Bank
	hype     *keywords.Bank
}

func NewSentimentClassifier(positive, negative, hype *keywords.Bank) *SentimentClassifier {
	return &SentimentClassifier{positive: positive, negative: negative, hype: hype}
}

// Classify counts each bank phrase once if present anywhere in text.
func (c *SentimentClassifier) Classify(text string) Sentiment {
	pos := c.positive.Matches(text)
	neg := c.negative.Matches(text)
	hype := c.hype.Matches(text)

	score := baseSentimentScore + len(pos)*positiveCueWeight - len(neg)*negativeCueWeight
	score = clamp(score, minSentimentScore, maxSentimentScore)

	return Sentiment{
		Score:        score,
		HypeLevel:    hypeLevel(len(hype)),
		PositiveCues: pos,
		NegativeCues: neg,
		HypeTerms:    hype,
		Notes: fmt.Sprintf("Detected %d positive cues and %d cautionary cues. Hype terms found: %d.",
			len(pos), len(neg), len(hype)),
	}
}

func hypeLevel(count int) HypeLevel {
	switch {
	case count > highHypeAbove:
		return HypeHigh
	case count > mediumHypeAbove:
		return HypeMedium
	default:
		return HypeLow
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
