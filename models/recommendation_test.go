package models

import "testing"

func TestMatchPercentage(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0, 0},
		{0.29, 29},
		{0.57, 57},
		{0.667, 67},
		{0.333, 33},
		{1, 100},
	}
	for _, tt := range tests {
		sc := &ScoredCandidate{Score: tt.score}
		if got := sc.MatchPercentage(); got != tt.want {
			t.Errorf("MatchPercentage(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}
