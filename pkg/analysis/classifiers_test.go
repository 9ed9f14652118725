package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenlens/pkg/keywords"
)

func TestMomentumRules(t *testing.T) {
	banks := DefaultBanks()
	c := NewMomentumClassifier(banks.Hype, banks.Utility)

	tests := []struct {
		name         string
		text         string
		expectedTier Momentum
	}{
		{"heavy hype thin info", "moon rocket 1000x ape pump lambo", MomentumStrong},
		{"heavy hype with info falls to moderate", "moon rocket 1000x ape pump with utility and a roadmap", MomentumModerate},
		{"three hype terms", "rocket pump lambo", MomentumModerate},
		{"info only", "audited product with a roadmap", MomentumWeak},
		{"some hype some info", "moon with utility", MomentumNeutral},
		{"nothing", "hello world", MomentumNeutral},
		{"empty", "", MomentumNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.expectedTier, got.Tier)
			assert.Contains(t, got.Context, "appear "+strings.ToLower(string(tt.expectedTier))+".")
		})
	}
}

func TestStageEstimator(t *testing.T) {
	banks := DefaultBanks()
	e := NewStageEstimator(banks.Early, banks.Mid, banks.Late)

	tests := []struct {
		name                string
		text                string
		expectedStage       Stage
		expectedExplanation string
	}{
		{
			name:                "early and late both match",
			text:                "just launched, early stage, first buyers, thousands of holders, closing soon",
			expectedStage:       StageEarly,
			expectedExplanation: earlyStageExplanation,
		},
		{
			name:                "late over mid",
			text:                "Gaining traction and NEAR COMPLETION",
			expectedStage:       StageLate,
			expectedExplanation: lateStageExplanation,
		},
		{
			name:                "mid refines explanation",
			text:                "momentum building with hundreds of holders",
			expectedStage:       StageMid,
			expectedExplanation: midStageExplanation,
		},
		{
			name:                "default",
			text:                "",
			expectedStage:       StageMid,
			expectedExplanation: defaultStageExplanation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Estimate(tt.text)
			assert.Equal(t, tt.expectedStage, got.Stage)
			assert.Equal(t, tt.expectedExplanation, got.Explanation)
		})
	}

	got := e.Estimate("just launched, early stage, closing soon")
	assert.Equal(t, []string{"early stage", "just launched"}, got.Cues)
}

func TestRiskDetector(t *testing.T) {
	d := NewRiskDetector(DefaultBanks().Risk)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "placeholder when nothing fires",
			text:     "A product with a public roadmap",
			expected: []string{noRiskSignal},
		},
		{
			name: "bank order then heuristics",
			text: "Zero risk, guaranteed returns. Don't miss it!",
			expected: []string{
				`Risk cue detected: "guaranteed" suggests promotional or speculative language.`,
				`Risk cue detected: "zero risk" suggests promotional or speculative language.`,
				`Risk cue detected: "don't miss" suggests promotional or speculative language.`,
				missingUtilitySignal,
			},
		},
		{
			name: "anon inside another word still counts",
			text: "canonical utility token",
			expected: []string{
				anonymousTeamSignal,
			},
		},
		{
			name: "anon team",
			text: "anon team, no utility",
			expected: []string{
				`Risk cue detected: "anon team" suggests promotional or speculative language.`,
				`Risk cue detected: "no utility" suggests promotional or speculative language.`,
				anonymousTeamSignal,
			},
		},
		{
			name:     "empty",
			text:     "",
			expected: []string{missingUtilitySignal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.text)
			assert.Equal(t, tt.expected, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestPatternClassifier(t *testing.T) {
	c := NewPatternClassifier()

	tests := []struct {
		text     string
		expected string
	}{
		{"a MEME with utility", memePatternStatement},
		{"moonshot", memePatternStatement},
		{"Product launch next week", utilityPatternStatement},
		{"join the community", communityPatternStatement},
		{"", communityPatternStatement},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Classify(tt.text))
		})
	}
}

func TestDecodeBankConfig(t *testing.T) {
	cfg, err := DecodeBankConfig(strings.NewReader("hype:\n  - wagmi\n  - gm\nlate: []\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"wagmi", "gm"}, cfg.Hype)
	assert.Empty(t, cfg.Late)
	assert.Equal(t, DefaultBankConfig().Positive, cfg.Positive)

	banks, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, 0, banks.Late.Len())
}

func TestDecodeBankConfigEmpty(t *testing.T) {
	cfg, err := DecodeBankConfig(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBankConfig(), cfg)
}

func TestDecodeBankConfigRejectsUnknownBank(t *testing.T) {
	_, err := DecodeBankConfig(strings.NewReader("hyped:\n  - moon\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBankConfig))
}

func TestBuildReportsEveryMalformedBank(t *testing.T) {
	cfg := DefaultBankConfig()
	cfg.Risk = append(cfg.Risk, "")
	cfg.Early = []string{"soon", "SOON"}

	_, err := cfg.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, keywords.ErrMalformedBank))
	assert.Contains(t, err.Error(), `"risk"`)
	assert.Contains(t, err.Error(), `"early"`)
}

func TestLoadBankConfigMissingFile(t *testing.T) {
	_, err := LoadBankConfig("/nonexistent/banks.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBankConfig))
}

func TestRiskDetectorQuotesPhraseAsWritten(t *testing.T) {
	bank, err := keywords.NewBank("risk", []string{`say "gm"`, `c:\moon`})
	require.NoError(t, err)
	d := NewRiskDetector(bank)

	got := d.Detect(`they say "gm" to c:\moon, product soon`)
	assert.Equal(t, []string{
		`Risk cue detected: "say "gm"" suggests promotional or speculative language.`,
		`Risk cue detected: "c:\moon" suggests promotional or speculative language.`,
	}, got)
}
