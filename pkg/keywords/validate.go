package keywords

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PhraseRules defines what a bank accepts as a phrase
type PhraseRules struct {
	MinLength int
	MaxLength int
	// Phrases shorter than this are accepted with a warning.
	ShortPhraseLength int
}

// ValidationResult represents the result of phrase validation
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// DefaultPhraseRules are applied by NewBank
var DefaultPhraseRules = &PhraseRules{
	MinLength:         1,
	MaxLength:         64,
	ShortPhraseLength: 5,
}

// ValidatePhrase validates a single phrase against the rules
func ValidatePhrase(phrase string, rules *PhraseRules) *ValidationResult {
	if rules == nil {
		rules = DefaultPhraseRules
	}

	result := &ValidationResult{
		IsValid:  true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	trimmed := strings.TrimSpace(phrase)
	if trimmed == "" {
		result.IsValid = false
		result.Errors = append(result.Errors, "phrase cannot be blank")
		return result
	}

	length := utf8.RuneCountInString(phrase)
	if length < rules.MinLength {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("phrase %q must be at least %d characters long", phrase, rules.MinLength))
	}

	if length > rules.MaxLength {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("phrase %q must not exceed %d characters", phrase, rules.MaxLength))
	}

	if strings.ContainsAny(phrase, "\r\n") {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("phrase %q cannot contain line breaks", phrase))
	}

	// warnings only past this point
	if phrase != Fold(phrase) {
		result.Warnings = append(result.Warnings, fmt.Sprintf("phrase %q is not lowercase and will be folded", phrase))
	}

	if trimmed != phrase {
		result.Warnings = append(result.Warnings, fmt.Sprintf("phrase %q has surrounding whitespace that is matched literally", phrase))
	}

	if utf8.RuneCountInString(trimmed) < rules.ShortPhraseLength {
		result.Warnings = append(result.Warnings, fmt.Sprintf("phrase %q is short and may match inside unrelated words", phrase))
	}

	if strings.Contains(phrase, "  ") {
		result.Warnings = append(result.Warnings, fmt.Sprintf("phrase %q contains consecutive spaces", phrase))
	}

	return result
}

// ValidatePhrases validates every phrase and rejects duplicates after folding
func ValidatePhrases(phrases []string, rules *PhraseRules) *ValidationResult {
	result := &ValidationResult{
		IsValid:  true,
		Errors:   make([]string, 0),
		Warnings: make([]string, 0),
	}

	seen := make(map[string]int, len(phrases))
	for i, phrase := range phrases {
		r := ValidatePhrase(phrase, rules)
		if !r.IsValid {
			result.IsValid = false
		}
		for _, e := range r.Errors {
			result.Errors = append(result.Errors, fmt.Sprintf("#%d: %s", i, e))
		}
		result.Warnings = append(result.Warnings, r.Warnings...)

		key := Fold(phrase)
		if first, dup := seen[key]; dup {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("#%d: phrase %q duplicates #%d", i, phrase, first))
			continue
		}
		seen[key] = i
	}

	return result
}
