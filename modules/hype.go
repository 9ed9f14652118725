package modules

import "tokenlens/pkg/analysis"

// RunHype is the public entry used by the agent to get a hype reply.
func RunHype(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: hype [text]. Example: hype to the moon, 1000x lambo", nil
	}
	return BuildHypeReply(a.Sentiment(text)), nil
}

// RunMomentum returns the momentum context for a text.
func RunMomentum(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: momentum [text]", nil
	}
	return BuildMomentumReply(a.Momentum(text)), nil
}
