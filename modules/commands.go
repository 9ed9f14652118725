package modules

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/intake"
)

// Commands lists every command the agent understands, in help order.
var Commands = []string{
	"analyze", "scan", "json", "sentiment", "hype", "momentum", "stage",
	"riskcheck", "pattern", "demo", "questions", "banks", "help",
}

// Dispatcher routes agent tasks of the form "/command text" to the
// command handlers.
type Dispatcher struct {
	Intake   *intake.Service
	Analyzer *analysis.Analyzer
	Banks    analysis.BankConfig
}

// Dispatch parses a task and runs the matching command.
func (d *Dispatcher) Dispatch(ctx context.Context, task string) (string, error) {
	cmd, text := splitTask(task)
	if cmd == "" {
		return "No command provided. Available commands: " + strings.Join(Commands, ", "), nil
	}

	switch cmd {
	case "analyze", "scan":
		return RunScan(ctx, d.Intake, text)
	case "json":
		return RunJSON(ctx, d.Intake, text)
	case "sentiment":
		return RunSentiment(d.Analyzer, text)
	case "hype":
		return RunHype(d.Analyzer, text)
	case "momentum":
		return RunMomentum(d.Analyzer, text)
	case "stage", "bonding":
		return RunStage(d.Analyzer, text)
	case "riskcheck", "risk":
		return RunRiskCheck(d.Analyzer, text)
	case "pattern":
		return RunPattern(d.Analyzer, text)
	case "demo":
		return RunDemo(ctx, d.Intake)
	case "questions":
		return RunQuestions()
	case "banks":
		return RunBanks(d.Banks)
	case "help":
		return HelpText(), nil
	default:
		return fmt.Sprintf("Unknown command '%s'. Available commands: %s", cmd, strings.Join(Commands, ", ")), nil
	}
}

// splitTask separates the command word from the text after it. The text is
// only trimmed; line breaks and repeated spaces inside it reach the analyzer.
func splitTask(task string) (cmd, text string) {
	task = strings.TrimPrefix(strings.TrimSpace(task), "/")
	i := strings.IndexFunc(task, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(task), ""
	}
	return strings.ToLower(task[:i]), strings.TrimSpace(task[i:])
}

// HelpText describes every command.
func HelpText() string {
	return strings.Join([]string{
		"TokenLens annotates token promotion text with heuristic, educational cues.",
		"",
		"analyze [text]    full report (alias: scan)",
		"json [text]       full report as JSON",
		"sentiment [text]  sentiment score and cues",
		"hype [text]       hype level and hype terms",
		"momentum [text]   momentum context",
		"stage [text]      promotional bonding stage",
		"riskcheck [text]  risk cues",
		"pattern [text]    narrative pattern similarity",
		"demo              analyze a sample meme-token pitch",
		"questions         research questions to ask",
		"banks             keyword banks in use",
		"",
		Disclaimer,
	}, "\n")
}
