package modules

import (
	"fmt"
	"strings"

	"tokenlens/pkg/analysis"
	"tokenlens/pkg/keywords"
)

// RunBanks summarizes the keyword banks in use. Phrases that match inside
// unrelated words are flagged.
func RunBanks(cfg analysis.BankConfig) (string, error) {
	var b strings.Builder
	b.WriteString("Keyword banks (substring matching, case-insensitive):\n")
	for _, nb := range cfg.Named() {
		fmt.Fprintf(&b, "- %s (%d): %s\n", nb.Name, len(nb.Phrases), strings.Join(nb.Phrases, ", "))

		result := keywords.ValidatePhrases(nb.Phrases, keywords.DefaultPhraseRules)
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "    error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "    note: %s\n", w)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
