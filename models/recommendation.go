package models

import "math"

// ScoredCandidate is a candidate with its hybrid ranking score and the parts that produced it
type ScoredCandidate struct {
	Candidate       *Candidate `json:"candidate"`
	Score           float64    `json:"score"`
	ScoreBase       float64    `json:"score_base"`
	ExplicitScore   float64    `json:"score_explicit"`
	ImplicitScore   float64    `json:"score_implicit"`
	PopularityBonus float64    `json:"popularity_bonus"`
}

// MatchPercentage is the score expressed as the nearest whole percentage
func (s *ScoredCandidate) MatchPercentage() int {
	return int(math.Round(s.Score * 100))
}
