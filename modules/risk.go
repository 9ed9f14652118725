package modules

import "tokenlens/pkg/analysis"

// RunRiskCheck is the public entry used by the agent to perform risk checks.
func RunRiskCheck(a *analysis.Analyzer, text string) (string, error) {
	if text == "" {
		return "Usage: riskcheck [text]. Example: riskcheck anon team, guaranteed 1000x", nil
	}
	return BuildRiskReply(a.Risks(text)), nil
}
