package analysis

import "tokenlens/pkg/keywords"

const (
	defaultStageExplanation = "No clear bonding-curve cues were found; defaulting to mid-stage educational context."
	earlyStageExplanation   = "Early stage cues suggest high volatility and small liquidity pools historically."
	midStageExplanation     = "Mid-curve cues often indicate stabilizing or building interest; not a forecast."
	lateStageExplanation    = "Late-stage cues historically correlate with higher entry risk; this is not predictive."
)

// StageResult is the output of StageEstimator. Cues lists the phrases of
// the winning bank that were found; it is empty for the default.
type StageResult struct {
	Stage       Stage
	Explanation string
	Cues        []string
}

type stageRule struct {
	stage       Stage
	bank        *keywords.Bank
	explanation string
}

// StageEstimator picks a lifecycle stage from ordered keyword banks.
// Early is checked before Late, and Mid last: Mid only refines the
// explanation because it is already the default stage.
type StageEstimator struct {
	rules []stageRule
}

func NewStageEstimator(early, mid, late *keywords.Bank) *StageEstimator {
	return &StageEstimator{
		rules: []stageRule{
			{StageEarly, early, earlyStageExplanation},
			{StageLate, late, lateStageExplanation},
			{StageMid, mid, midStageExplanation},
		},
	}
}

func (e *StageEstimator) Estimate(text string) StageResult {
	for _, rule := range e.rules {
		if cues := rule.bank.Matches(text); len(cues) > 0 {
			return StageResult{Stage: rule.stage, Explanation: rule.explanation, Cues: cues}
		}
	}
	return StageResult{Stage: StageMid, Explanation: defaultStageExplanation}
}
