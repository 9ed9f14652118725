// Package analysis turns a promotion text into a heuristic educational report.
//
// Every classifier is a pure function of the cleaned text over read-only
// keyword banks. Matching is substring presence: a phrase counts once no
// matter how often it repeats, and word boundaries are ignored.
package analysis

import (
	"fmt"
)

// Analyzer runs the five classifiers over one normalized text and
// assembles the Report. It is safe for concurrent use.
type Analyzer struct {
	sentiment *SentimentClassifier
	momentum  *MomentumClassifier
	stage     *StageEstimator
	risk      *RiskDetector
	pattern   *PatternClassifier
}

// New builds an Analyzer from explicit banks.
func New(banks Banks) (*Analyzer, error) {
	if err := banks.validate(); err != nil {
		return nil, err
	}
	return &Analyzer{
		sentiment: NewSentimentClassifier(banks.Positive, banks.Negative, banks.Hype),
		momentum:  NewMomentumClassifier(banks.Hype, banks.Utility),
		stage:     NewStageEstimator(banks.Early, banks.Mid, banks.Late),
		risk:      NewRiskDetector(banks.Risk),
		pattern:   NewPatternClassifier(),
	}, nil
}

// NewDefault builds an Analyzer over the built-in banks.
func NewDefault() *Analyzer {
	a, err := New(DefaultBanks())
	if err != nil {
		panic(err)
	}
	return a
}

// NewFromConfig builds the banks described by cfg and an Analyzer over them.
func NewFromConfig(cfg BankConfig) (*Analyzer, error) {
	banks, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return New(banks)
}

// Analyze normalizes raw once and classifies it. A classifier fault is
// returned as ErrAnalysisFailed together with the zero Report.
func (a *Analyzer) Analyze(raw string) (report Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{}
			err = fmt.Errorf("%w: %v", ErrAnalysisFailed, r)
		}
	}()

	text := Normalize(raw)

	sentiment := a.sentiment.Classify(text)
	momentum := a.momentum.Classify(text)
	stage := a.stage.Estimate(text)
	risks := a.risk.Detect(text)
	pattern := a.pattern.Classify(text)

	return Report{
		CleanedText:        text,
		SentimentScore:     sentiment.Score,
		HypeLevel:          sentiment.HypeLevel,
		SentimentNotes:     sentiment.Notes,
		MomentumContext:    momentum.Context,
		BondingStage:       stage.Stage,
		BondingExplanation: stage.Explanation,
		RiskSignals:        risks,
		PatternSimilarity:  pattern,
	}, nil
}

// Sentiment runs only the sentiment and hype classifier.
func (a *Analyzer) Sentiment(raw string) Sentiment {
	return a.sentiment.Classify(Normalize(raw))
}

// Momentum runs only the momentum classifier.
func (a *Analyzer) Momentum(raw string) MomentumResult {
	return a.momentum.Classify(Normalize(raw))
}

// Stage runs only the bonding stage estimator.
func (a *Analyzer) Stage(raw string) StageResult {
	return a.stage.Estimate(Normalize(raw))
}

// Risks runs only the risk detector.
func (a *Analyzer) Risks(raw string) []string {
	return a.risk.Detect(Normalize(raw))
}

// Pattern runs only the pattern similarity classifier.
func (a *Analyzer) Pattern(raw string) string {
	return a.pattern.Classify(Normalize(raw))
}
