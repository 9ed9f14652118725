package modules

import (
	"fmt"
	"strings"

	"tokenlens/pkg/analysis"
)

// Disclaimer is appended to every rendered section.
const Disclaimer = "This analysis is educational only and NOT financial advice, predictions, or investment recommendations."

const (
	noTextDetected = "No text detected."
	noRiskFallback = "No risk signals detected; always conduct independent research."
	missingValue   = "-"
)

func withDisclaimer(s string) string {
	return s + " " + Disclaimer
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingValue
	}
	return s
}

// BuildReportReply renders a full report for chat.
func BuildReportReply(r analysis.Report) string {
	var b strings.Builder

	text := r.CleanedText
	if text == "" {
		text = noTextDetected
	}

	b.WriteString("TokenLens report\n")
	fmt.Fprintf(&b, "Text: %s\n\n", truncate(text, 280))
	fmt.Fprintf(&b, "Sentiment score: %d/100 | Hype level: %s\n", r.SentimentScore, orDash(string(r.HypeLevel)))
	fmt.Fprintf(&b, "%s\n\n", withDisclaimer(r.SentimentNotes))
	fmt.Fprintf(&b, "Momentum: %s\n\n", withDisclaimer(r.MomentumContext))
	fmt.Fprintf(&b, "Bonding stage: %s\n%s\n\n", orDash(string(r.BondingStage)), withDisclaimer(r.BondingExplanation))
	b.WriteString("Risk signals:\n")
	b.WriteString(bulletList(r.RiskSignals, noRiskFallback))
	fmt.Fprintf(&b, "\nPattern: %s", withDisclaimer(r.PatternSimilarity))
	return b.String()
}

// BuildSentimentReply renders the sentiment section.
func BuildSentimentReply(s analysis.Sentiment) string {
	reply := fmt.Sprintf("Sentiment score: %d/100\n%s", s.Score, withDisclaimer(s.Notes))
	if len(s.PositiveCues) > 0 {
		reply += "\nPositive cues: " + strings.Join(s.PositiveCues, ", ")
	}
	if len(s.NegativeCues) > 0 {
		reply += "\nCautionary cues: " + strings.Join(s.NegativeCues, ", ")
	}
	return reply
}

// BuildHypeReply renders the hype tier and the hype terms found.
func BuildHypeReply(s analysis.Sentiment) string {
	terms := "none"
	if len(s.HypeTerms) > 0 {
		terms = strings.Join(s.HypeTerms, ", ")
	}
	return withDisclaimer(fmt.Sprintf("Hype level: %s (%d hype terms: %s).",
		orDash(string(s.HypeLevel)), len(s.HypeTerms), terms))
}

// BuildMomentumReply renders the momentum context.
func BuildMomentumReply(m analysis.MomentumResult) string {
	return fmt.Sprintf("Momentum: %s\nHype terms: %d | Information cues: %d\n%s",
		m.Tier, m.HypeCount, m.InfoDensity, withDisclaimer(m.Context))
}

// BuildStageReply renders the bonding stage estimate.
func BuildStageReply(st analysis.StageResult) string {
	reply := fmt.Sprintf("Bonding stage: %s\n%s", orDash(string(st.Stage)), withDisclaimer(st.Explanation))
	if len(st.Cues) > 0 {
		reply += "\nCues: " + strings.Join(st.Cues, ", ")
	}
	return reply
}

// BuildRiskReply renders the risk signal list.
func BuildRiskReply(signals []string) string {
	return "Risk signals:\n" + bulletList(signals, noRiskFallback) + "\n" + Disclaimer
}

// BuildPatternReply renders the pattern similarity statement.
func BuildPatternReply(statement string) string {
	return "Pattern: " + withDisclaimer(statement)
}

func bulletList(items []string, empty string) string {
	if len(items) == 0 {
		return "- " + empty
	}
	return "- " + strings.Join(items, "\n- ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
