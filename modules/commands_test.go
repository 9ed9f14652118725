package modules

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/intake"
)

func newDispatcher() *Dispatcher {
	a := analysis.NewDefault()
	return &Dispatcher{
		Intake:   intake.NewService(a, intake.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}),
		Analyzer: a,
		Banks:    analysis.DefaultBankConfig(),
	}
}

func TestDispatchUsage(t *testing.T) {
	d := newDispatcher()

	tests := []struct {
		task string
		want string
	}{
		{"", "No command provided"},
		{"/sentiment", "Usage: sentiment"},
		{"hype   ", "Usage: hype"},
		{"/riskcheck", "Usage: riskcheck"},
		{"scan", "Usage: scan"},
		{"/price sol", "Unknown command 'price'"},
	}

	for _, tt := range tests {
		t.Run(tt.task, func(t *testing.T) {
			got, err := d.Dispatch(context.Background(), tt.task)
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestDispatchSections(t *testing.T) {
	d := newDispatcher()

	tests := []struct {
		name string
		task string
		want []string
	}{
		{
			name: "sentiment",
			task: "/sentiment Some say it is a rug, others call it a scam.",
			want: []string{"Sentiment score: 26/100", "Cautionary cues: rug, scam", Disclaimer},
		},
		{
			name: "hype",
			task: "/HYPE moon rocket lambo",
			want: []string{"Hype level: Medium (3 hype terms: moon, rocket, lambo)."},
		},
		{
			name: "momentum",
			task: "/momentum roadmap and audit published",
			want: []string{"Momentum: Weak", "Information cues: 2"},
		},
		{
			name: "stage",
			task: "/stage just launched, near completion",
			want: []string{"Bonding stage: Early", "Cues: just launched"},
		},
		{
			name: "riskcheck",
			task: "/riskcheck roadmap shipped",
			want: []string{"- No explicit risk phrases spotted, but always research independently."},
		},
		{
			name: "pattern",
			task: "/pattern new product demo",
			want: []string{"Pattern: Messaging hints at utility-focused tokens"},
		},
		{
			name: "questions",
			task: "questions",
			want: []string{"- Is liquidity locked?", "- Are contracts verified and audited?"},
		},
		{
			name: "banks",
			task: "/banks",
			want: []string{"- hype (10):", "phrase \"ape\" is short"},
		},
		{
			name: "help",
			task: "/help",
			want: []string{"riskcheck [text]", Disclaimer},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Dispatch(context.Background(), tt.task)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestDispatchDemo(t *testing.T) {
	d := newDispatcher()

	got, err := d.Dispatch(context.Background(), "/demo")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "Demo promotion:\n"+DemoPromotion))
	assert.Contains(t, got, "Sentiment score: 74/100 | Hype level: Low")
	assert.Contains(t, got, "Bonding stage: Mid")
	assert.Contains(t, got, `Risk cue detected: "anonymous"`)
	assert.Contains(t, got, "Anonymous team mentioned")
}

func TestDispatchJSON(t *testing.T) {
	d := newDispatcher()

	got, err := d.Dispatch(context.Background(), "/json Just launched! Anon team, moon soon")
	require.NoError(t, err)

	var out intake.Outcome
	require.NoError(t, json.Unmarshal([]byte(got), &out))
	assert.Equal(t, intake.StatusComplete, out.Status)
	assert.Equal(t, analysis.StageEarly, out.Report.BondingStage)
	assert.Equal(t, "Just launched! Anon team, moon soon", out.Report.CleanedText)
}

func TestBuildReportReplyFallback(t *testing.T) {
	got := BuildReportReply(analysis.FallbackReport())

	assert.Contains(t, got, "Text: No text detected.")
	assert.Contains(t, got, "Hype level: -")
	assert.Contains(t, got, "Bonding stage: -")
	assert.Contains(t, got, "- Unable to analyze risk signals.")
	assert.Contains(t, got, "No analysis could be completed. "+Disclaimer)
}

func TestBuildRiskReplyEmpty(t *testing.T) {
	assert.Contains(t, BuildRiskReply(nil), "- "+noRiskFallback)
}

func TestDispatchKeepsTextLayout(t *testing.T) {
	d := newDispatcher()
	text := "Just launched early\nstage?  No:\n\nsay to  the moon"

	got, err := d.Dispatch(context.Background(), "/json "+text+"\n")
	require.NoError(t, err)

	var out intake.Outcome
	require.NoError(t, json.Unmarshal([]byte(got), &out))

	want, err := analysis.NewDefault().Analyze(text)
	require.NoError(t, err)
	assert.Equal(t, text, out.Report.CleanedText)
	assert.Equal(t, want, out.Report)
}

func TestSplitTask(t *testing.T) {
	tests := []struct {
		task string
		cmd  string
		text string
	}{
		{"", "", ""},
		{"/HELP", "help", ""},
		{"  /hype\tto  the\nmoon  ", "hype", "to  the\nmoon"},
		{"scan\nline one\nline two", "scan", "line one\nline two"},
	}

	for _, tt := range tests {
		cmd, text := splitTask(tt.task)
		assert.Equal(t, tt.cmd, cmd, tt.task)
		assert.Equal(t, tt.text, text, tt.task)
	}
}

func TestSummarizeErrTruncatesByRune(t *testing.T) {
	err := errors.New(strings.Repeat("日", 250))
	got := summarizeErr(err)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", 200)+"...", got)
	assert.Empty(t, summarizeErr(nil))
}
