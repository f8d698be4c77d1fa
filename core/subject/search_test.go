package subject

import "testing"

func Test_similarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		minScore float64
		maxScore float64
	}{
		{name: "identical", a: "maths", b: "maths", minScore: 1, maxScore: 1},
		{name: "empty query", a: "", b: "maths", maxScore: 0},
		{name: "empty name", a: "maths", b: "", maxScore: 0},
		{name: "typo still matches", a: "mathemathics", b: "mathematics", minScore: minSearchSimilarity, maxScore: 1},
		{name: "unrelated", a: "zzz", b: "mathematics", maxScore: minSearchSimilarity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := similarity(tt.a, tt.b)
			if got < tt.minScore || got > tt.maxScore {
				t.Errorf("similarity(%q, %q) = %v, want within [%v, %v]", tt.a, tt.b, got, tt.minScore, tt.maxScore)
			}
		})
	}
}
