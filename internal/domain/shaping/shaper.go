// Package shaping fits arbitrary-length text into a pipeline's fixed input
// budget. The only rule is keep-first-N: if a text exceeds the budget the
// first MaxInputLen characters are kept and the remainder is dropped.
//
// Shaping is deterministic and idempotent — the same text always shapes to
// the same output, and shaping an already-shaped text is a no-op. No
// sentence-boundary smoothing is performed; the cut is a hard prefix.
package shaping

// Policy is the per-pipeline input budget.
type Policy struct {
	// MaxInputLen is the budget in characters (runes, not bytes).
	// A non-positive budget disables shaping.
	MaxInputLen int `yaml:"max_input_len"`
}

// Shape returns text truncated to at most p.MaxInputLen characters.
// Texts at or below the budget are returned unchanged.
func Shape(text string, p Policy) string {
	if p.MaxInputLen <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= p.MaxInputLen {
		return text
	}
	return string(runes[:p.MaxInputLen])
}
