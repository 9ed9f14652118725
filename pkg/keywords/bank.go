// Package keywords provides phrase banks matched by case-insensitive substring containment.
package keywords

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Bank is an ordered set of lowercase phrases.
//
// Membership is substring containment on case-folded text, not word matching:
// "anon" is present in "canon" and "ape" in "grape". Bank is safe for
// concurrent use.
type Bank struct {
	name    string
	phrases []string

	// ahocorasick.Matcher keeps per-call bookkeeping, so Match must not run concurrently.
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewBank folds and validates phrases and builds the matcher.
// It returns an error wrapping ErrMalformedBank when validation fails.
func NewBank(name string, phrases []string) (*Bank, error) {
	folded := make([]string, 0, len(phrases))
	for _, p := range phrases {
		folded = append(folded, Fold(p))
	}

	result := ValidatePhrases(folded, DefaultPhraseRules)
	if !result.IsValid {
		return nil, fmt.Errorf("%w: bank %q: %s", ErrMalformedBank, name, strings.Join(result.Errors, "; "))
	}

	b := &Bank{name: name, phrases: folded}
	if len(folded) > 0 {
		b.matcher = ahocorasick.NewStringMatcher(folded)
	}
	return b, nil
}

// MustBank is NewBank for static configuration; it panics on a malformed bank.
func MustBank(name string, phrases ...string) *Bank {
	b, err := NewBank(name, phrases)
	if err != nil {
		panic(err)
	}
	return b
}

// Name returns the bank name used in logs and errors.
func (b *Bank) Name() string {
	return b.name
}

// Phrases returns a copy of the bank's phrases in bank order.
func (b *Bank) Phrases() []string {
	out := make([]string, len(b.phrases))
	copy(out, b.phrases)
	return out
}

// Len returns the number of phrases.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.phrases)
}

// Matches returns the phrases present in text, in bank order.
// A phrase appearing several times is reported once.
func (b *Bank) Matches(text string) []string {
	if b == nil || b.matcher == nil || text == "" {
		return nil
	}

	in := []byte(Fold(text))
	b.mu.Lock()
	hits := b.matcher.Match(in)
	b.mu.Unlock()

	if len(hits) == 0 {
		return nil
	}

	sort.Ints(hits)
	out := make([]string, 0, len(hits))
	prev := -1
	for _, idx := range hits {
		if idx == prev || idx < 0 || idx >= len(b.phrases) {
			continue
		}
		out = append(out, b.phrases[idx])
		prev = idx
	}
	return out
}

// Count returns how many distinct phrases of the bank are present in text.
func (b *Bank) Count(text string) int {
	return len(b.Matches(text))
}

// Any reports whether at least one phrase is present in text.
func (b *Bank) Any(text string) bool {
	return b.Count(text) > 0
}

// Fold lowercases s for comparison. The result is only used for matching;
// callers keep the original text for display.
func Fold(s string) string {
	// Casers are stateful, build one per call.
	return cases.Lower(language.Und).String(s)
}
