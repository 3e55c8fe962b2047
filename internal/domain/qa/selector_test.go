package qa

import "testing"

func TestArgmax_LowestIndexTieBreak(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   int
	}{
		{"single", []float64{1.0}, 0},
		{"plain max", []float64{0.1, 0.9, 0.3}, 1},
		{"tie resolves low", []float64{0.5, 0.9, 0.9, 0.2}, 1},
		{"all equal", []float64{0.4, 0.4, 0.4}, 0},
		{"max at end", []float64{0.1, 0.2, 0.8}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := argmax(tc.scores); got != tc.want {
				t.Errorf("argmax(%v) = %d; want %d", tc.scores, got, tc.want)
			}
		})
	}
}

func TestSelectSpan_ExclusiveEnd(t *testing.T) {
	start, end := selectSpan(
		[]float64{0.1, 0.9, 0.2, 0.1},
		[]float64{0.1, 0.1, 0.8, 0.2},
	)
	if start != 1 || end != 3 {
		t.Errorf("selectSpan = [%d, %d); want [1, 3)", start, end)
	}
}

func TestSelectSpan_EndBeforeStart(t *testing.T) {
	// The selector does not validate end > start; the caller decodes an
	// empty slice. This behavior is preserved deliberately.
	start, end := selectSpan(
		[]float64{0.1, 0.1, 0.9},
		[]float64{0.9, 0.1, 0.1},
	)
	if start != 2 || end != 1 {
		t.Errorf("selectSpan = [%d, %d); want [2, 1)", start, end)
	}
}

func TestDecodeTokens(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"empty", nil, ""},
		{"plain words", []string{"fever", "of", "101f"}, "fever of 101f"},
		{"wordpiece merge", []string{"101", "##f", "and", "cough"}, "101f and cough"},
		{"leading continuation", []string{"##f", "cough"}, "f cough"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := decodeTokens(tc.tokens); got != tc.want {
				t.Errorf("decodeTokens(%v) = %q; want %q", tc.tokens, got, tc.want)
			}
		})
	}
}
