package modules

import "tokenlens/pkg/analysis"

// RunStage estimates the promotional bonding stage of a text.
func RunStage(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: stage [text]", nil
	}
	return BuildStageReply(a.Stage(text)), nil
}

// RunPattern returns the narrative similarity statement for a text.
func RunPattern(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: pattern [text]", nil
	}
	return BuildPatternReply(a.Pattern(text)), nil
}
