package analysis

// HypeLevel is the discrete hype tier derived from hype-term count
type HypeLevel string

const (
	HypeLow    HypeLevel = "Low"
	HypeMedium HypeLevel = "Medium"
	HypeHigh   HypeLevel = "High"
)

// Stage is the heuristic promotional lifecycle stage. It describes the
// narrative, not an on-chain bonding curve measurement.
type Stage string

const (
	StageEarly Stage = "Early"
	StageMid   Stage = "Mid"
	StageLate  Stage = "Late"
)

// Momentum is a qualitative blend of hype density and information density
type Momentum string

const (
	MomentumStrong   Momentum = "Strong"
	MomentumModerate Momentum = "Moderate"
	MomentumWeak     Momentum = "Weak"
	MomentumNeutral  Momentum = "Neutral"
)

// Report is the aggregate result of one analysis. It is built once per
// request and handed to the caller; nothing in this package keeps or
// mutates it afterwards.
type Report struct {
	CleanedText        string    `json:"cleanedText"`
	SentimentScore     int       `json:"sentimentScore"`
	HypeLevel          HypeLevel `json:"hypeLevel"`
	SentimentNotes     string    `json:"sentimentNotes"`
	MomentumContext    string    `json:"momentumContext"`
	BondingStage       Stage     `json:"bondingStage"`
	BondingExplanation string    `json:"bondingExplanation"`
	RiskSignals        []string  `json:"riskSignals"`
	PatternSimilarity  string    `json:"patternSimilarity"`
}

// Clone returns a copy that shares no slices with r.
func (r Report) Clone() Report {
	out := r
	if r.RiskSignals != nil {
		out.RiskSignals = make([]string, len(r.RiskSignals))
		copy(out.RiskSignals, r.RiskSignals)
	}
	return out
}

// FallbackReport is what callers present when analysis could not complete.
// Hype level and stage are left empty; renderers show them as "-".
func FallbackReport() Report {
	return Report{
		CleanedText:        "",
		SentimentScore:     0,
		SentimentNotes:     "No analysis could be completed.",
		MomentumContext:    "Unavailable due to an error.",
		BondingExplanation: "No stage estimated.",
		RiskSignals:        []string{"Unable to analyze risk signals."},
		PatternSimilarity:  "No pattern similarity determined.",
	}
}
