package modules

import "tokenlens/pkg/analysis"

// RunSentiment provides the public entry used by the agent to return sentiment.
func RunSentiment(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: sentiment [text]", nil
	}
	return BuildSentimentReply(a.Sentiment(text)), nil
}
