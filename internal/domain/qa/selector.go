// Package qa implements extractive question answering: given a question
// and a document context, it selects the most likely answer substring of
// the context (span selection, never generated free text).
package qa

import "strings"

// argmax returns the index of the largest value in scores.
// Ties resolve to the lowest index (numeric-library convention); this is
// load-bearing for deterministic answers and must not change.
func argmax(scores []float64) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// selectSpan returns the half-open token range [start, end) of the most
// likely answer: start is the argmax of the start scores, end is the
// argmax of the end scores plus one (exclusive bound).
//
// end is deliberately NOT validated against start. When the computed end
// precedes the start the range is empty and the decoded answer is the
// empty string — a defined degenerate output, not an error.
func selectSpan(startScores, endScores []float64) (start, end int) {
	return argmax(startScores), argmax(endScores) + 1
}

// decodeTokens reconstructs text from a wordpiece token slice: tokens are
// joined with single spaces and "##" continuation pieces are merged into
// the preceding token.
func decodeTokens(tokens []string) string {
	var b strings.Builder
	for i, tok := range tokens {
		if rest, ok := strings.CutPrefix(tok, "##"); ok {
			b.WriteString(rest)
			continue
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	return b.String()
}
