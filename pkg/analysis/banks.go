package analysis

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"tokenlens/pkg/keywords"
)

// Banks holds the keyword banks the classifiers are built from.
type Banks struct {
	Positive *keywords.Bank
	Negative *keywords.Bank
	Hype     *keywords.Bank
	Risk     *keywords.Bank
	Utility  *keywords.Bank
	Early    *keywords.Bank
	Mid      *keywords.Bank
	Late     *keywords.Bank
}

// BankConfig is the editable form of Banks. A YAML file may override any
// subset of the lists; omitted lists keep their defaults.
type BankConfig struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
	Hype     []string `yaml:"hype" json:"hype"`
	Risk     []string `yaml:"risk" json:"risk"`
	Utility  []string `yaml:"utility" json:"utility"`
	Early    []string `yaml:"early" json:"early"`
	Mid      []string `yaml:"mid" json:"mid"`
	Late     []string `yaml:"late" json:"late"`
}

// NamedPhrases pairs a bank name with its phrase list
type NamedPhrases struct {
	Name    string
	Phrases []string
}

// DefaultBankConfig returns the built-in keyword lists.
func DefaultBankConfig() BankConfig {
	return BankConfig{
		Positive: []string{"strong", "excited", "bullish", "community", "growth", "energy", "momentum"},
		Negative: []string{"rug", "scam", "concern", "dump", "fear", "worry", "sell"},
		Hype:     []string{"moon", "rocket", "to the moon", "1000x", "ape", "next bitcoin", "pump", "lambo", "massive", "explode"},
		Risk: []string{"anonymous", "anon team", "no utility", "no product", "guaranteed", "risk-free",
			"renounce later", "locked soon", "ape now", "zero risk", "don't miss"},
		Utility: []string{"utility", "product", "roadmap", "partnership", "audit", "verified", "liquidity locked"},
		Early:   []string{"early bonding curve", "early stage", "just launched", "first buyers", "new listing"},
		Mid:     []string{"mid curve", "gaining traction", "momentum building", "mid-stage", "hundreds of holders"},
		Late:    []string{"late curve", "near completion", "closing soon", "thousands of holders", "final stage"},
	}
}

// Named lists the banks in a fixed order.
func (c BankConfig) Named() []NamedPhrases {
	return []NamedPhrases{
		{"positive", c.Positive},
		{"negative", c.Negative},
		{"hype", c.Hype},
		{"risk", c.Risk},
		{"utility", c.Utility},
		{"early", c.Early},
		{"mid", c.Mid},
		{"late", c.Late},
	}
}

// Build validates every list and constructs the banks.
// All malformed banks are reported together.
func (c BankConfig) Build() (Banks, error) {
	built := make(map[string]*keywords.Bank, 8)
	var errs []error
	for _, np := range c.Named() {
		b, err := keywords.NewBank(np.Name, np.Phrases)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built[np.Name] = b
	}
	if len(errs) > 0 {
		return Banks{}, errors.Join(errs...)
	}

	return Banks{
		Positive: built["positive"],
		Negative: built["negative"],
		Hype:     built["hype"],
		Risk:     built["risk"],
		Utility:  built["utility"],
		Early:    built["early"],
		Mid:      built["mid"],
		Late:     built["late"],
	}, nil
}

// DefaultBanks builds the built-in banks.
func DefaultBanks() Banks {
	banks, err := DefaultBankConfig().Build()
	if err != nil {
		panic(fmt.Sprintf("default keyword banks: %v", err))
	}
	return banks
}

// LoadBankConfig reads YAML overrides from path on top of the defaults.
func LoadBankConfig(path string) (BankConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return BankConfig{}, fmt.Errorf("%w: %v", ErrBankConfig, err)
	}
	defer f.Close()

	return DecodeBankConfig(f)
}

// DecodeBankConfig decodes YAML overrides on top of the defaults.
// Unknown keys are rejected so a misspelled bank name is not silently ignored.
func DecodeBankConfig(r io.Reader) (BankConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return BankConfig{}, fmt.Errorf("%w: %v", ErrBankConfig, err)
	}

	cfg := DefaultBankConfig()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return BankConfig{}, fmt.Errorf("%w: %v", ErrBankConfig, err)
	}
	return cfg, nil
}

func (b Banks) validate() error {
	for name, bank := range map[string]*keywords.Bank{
		"positive": b.Positive,
		"negative": b.Negative,
		"hype":     b.Hype,
		"risk":     b.Risk,
		"utility":  b.Utility,
		"early":    b.Early,
		"mid":      b.Mid,
		"late":     b.Late,
	} {
		if bank == nil {
			return fmt.Errorf("%w: bank %q is missing", keywords.ErrMalformedBank, name)
		}
	}
	return nil
}
