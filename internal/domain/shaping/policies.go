package shaping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policies holds one shaping policy per pipeline that shapes its input.
// The conversation summarizer has no entry: it sends the full conversation
// to the model (assumed short relative to the window).
type Policies struct {
	QA              Policy `yaml:"qa"`
	Severity        Policy `yaml:"severity"`
	DocumentSummary Policy `yaml:"document_summary"`
}

// DefaultPolicies returns the built-in budgets.
//   - QA context: 6000 chars.
//   - Severity: 512 chars (the classifier has a much shorter window).
//   - Document summary: 3000 chars (~750-1000 tokens, fits a 1024-token window).
func DefaultPolicies() Policies {
	return Policies{
		QA:              Policy{MaxInputLen: 6000},
		Severity:        Policy{MaxInputLen: 512},
		DocumentSummary: Policy{MaxInputLen: 3000},
	}
}

// LoadPolicies reads budget overrides from a YAML file. Pipelines omitted
// from the file keep their defaults.
func LoadPolicies(path string) (Policies, error) {
	p := DefaultPolicies()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("shaping: read policies %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("shaping: parse policies %q: %w", path, err)
	}
	return p, nil
}
