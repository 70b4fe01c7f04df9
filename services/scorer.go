package services

import (
	"math"

	"petmatch_server/models"
)

// ScoringConfig holds every weight and limit used by the hybrid ranking
type ScoringConfig struct {
	// Source blend when both signals exist
	ExplicitWeight float64
	ImplicitWeight float64

	// Explicit fit: points for a species match; every other declared dimension is worth 1
	SpeciesPoints       float64
	SpecialNeedsPenalty float64

	// Implicit fit per-dimension weights, summing to 1
	ImplicitSpecies       float64
	ImplicitSize          float64
	ImplicitAgeClass      float64
	ImplicitSex           float64
	ImplicitCompatibility float64

	PopularityPerLike float64
	PopularityCap     float64

	// Cold start score_base is drawn from [FallbackMin, FallbackMax)
	FallbackMin float64
	FallbackMax float64

	DefaultLimit int
	MaxLimit     int
}

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		ExplicitWeight:        0.6,
		ImplicitWeight:        0.4,
		SpeciesPoints:         2,
		SpecialNeedsPenalty:   0.5,
		ImplicitSpecies:       0.40,
		ImplicitSize:          0.20,
		ImplicitAgeClass:      0.15,
		ImplicitSex:           0.15,
		ImplicitCompatibility: 0.10,
		PopularityPerLike:     0.02,
		PopularityCap:         0.1,
		FallbackMin:           0.3,
		FallbackMax:           0.5,
		DefaultLimit:          5,
		MaxLimit:              50,
	}
}

// Regimes name which signals fed a ranking
const (
	RegimeHybrid   = "hybrid"
	RegimeExplicit = "explicit"
	RegimeImplicit = "implicit"
	RegimeFallback = "fallback"
)

// Scorer computes hybrid scores for candidates
type Scorer struct {
	Config ScoringConfig
	Rand   RandomSource
}

func NewScorer(cfg ScoringConfig, rnd RandomSource) *Scorer {
	return &Scorer{Config: cfg, Rand: rnd}
}

// Weights returns (wE, wI) and the regime for the available signals
func (s *Scorer) Weights(explicit *models.ExplicitPreference, implicit *models.ImplicitPreference) (float64, float64, string) {
	hasExplicit := explicit.HasSignal()
	hasImplicit := implicit != nil && implicit.TotalLikes > 0
	switch {
	case hasExplicit && hasImplicit:
		return s.Config.ExplicitWeight, s.Config.ImplicitWeight, RegimeHybrid
	case hasExplicit:
		return 1, 0, RegimeExplicit
	case hasImplicit:
		return 0, 1, RegimeImplicit
	default:
		return 0, 0, RegimeFallback
	}
}

// ExplicitScore is points earned over points available across the declared
// dimensions, minus the special-needs penalty where it applies. Not clamped.
func (s *Scorer) ExplicitScore(p *models.ExplicitPreference, c *models.Candidate) float64 {
	if !p.HasSignal() {
		return 0
	}

	var earned, available float64
	if len(p.Species) > 0 {
		available += s.Config.SpeciesPoints
		if c.Species != "" && contains(p.Species, c.Species) {
			earned += s.Config.SpeciesPoints
		}
	}
	if len(p.Sizes) > 0 {
		available++
		if c.Size != "" && contains(p.Sizes, c.Size) {
			earned++
		}
	}
	if len(p.AgeClasses) > 0 {
		available++
		if c.AgeClass != "" && contains(p.AgeClasses, c.AgeClass) {
			earned++
		}
	}
	if len(p.Sexes) > 0 {
		available++
		if c.Sex != "" && contains(p.Sexes, c.Sex) {
			earned++
		}
	}
	if len(p.CompatibilityTags) > 0 {
		available++
		if containsAny(p.CompatibilityTags, c.CompatibilityTags) {
			earned++
		}
	}
	if len(p.HealthTags) > 0 {
		available++
		if containsAll(c.HealthTags, p.HealthTags) {
			earned++
		}
	}

	score := earned / available
	if !p.AcceptsSpecialNeeds && c.HasSpecialCondition() {
		score -= s.Config.SpecialNeedsPenalty
	}
	return score
}

// ImplicitScore measures how much of the user's like history shares the candidate's attributes
func (s *Scorer) ImplicitScore(p *models.ImplicitPreference, c *models.Candidate) float64 {
	if p == nil || p.TotalLikes == 0 {
		return 0
	}
	total := float64(p.TotalLikes)
	share := func(counts map[string]int, value string) float64 {
		return float64(counts[value]) / total
	}

	score := s.Config.ImplicitSpecies*share(p.Species, c.SpeciesOrUnknown()) +
		s.Config.ImplicitSize*share(p.Sizes, c.SizeOrUnknown()) +
		s.Config.ImplicitAgeClass*share(p.AgeClasses, c.AgeClassOrUnknown()) +
		s.Config.ImplicitSex*share(p.Sexes, c.SexOrUnknown())

	if len(c.CompatibilityTags) > 0 {
		maxCount, sum := 0, 0
		for _, n := range p.CompatibilityTags {
			if n > maxCount {
				maxCount = n
			}
		}
		for _, tag := range c.CompatibilityTags {
			sum += p.CompatibilityTags[tag]
		}
		if maxCount > 0 {
			score += s.Config.ImplicitCompatibility * float64(sum) / float64(maxCount*len(c.CompatibilityTags))
		}
	}
	return score
}

// PopularityBonus grows with global likes up to the configured cap
func (s *Scorer) PopularityBonus(likes int) float64 {
	return math.Min(s.Config.PopularityCap, float64(likes)*s.Config.PopularityPerLike)
}

// Fallback draws a cold-start base score
func (s *Scorer) Fallback() float64 {
	return s.Config.FallbackMin + s.Rand.Float64()*(s.Config.FallbackMax-s.Config.FallbackMin)
}

// Score combines both signals and the popularity bonus for one candidate
func (s *Scorer) Score(explicit *models.ExplicitPreference, implicit *models.ImplicitPreference, c *models.Candidate, likes int) *models.ScoredCandidate {
	wE, wI, regime := s.Weights(explicit, implicit)

	var scoreE, scoreI, base float64
	if regime == RegimeFallback {
		base = s.Fallback()
	} else {
		if wE > 0 {
			scoreE = s.ExplicitScore(explicit, c)
		}
		if wI > 0 {
			scoreI = s.ImplicitScore(implicit, c)
		}
		base = wE*scoreE + wI*scoreI
	}
	bonus := s.PopularityBonus(likes)

	return &models.ScoredCandidate{
		Candidate:       c,
		Score:           round3(clamp01(base + bonus)),
		ScoreBase:       base,
		ExplicitScore:   round3(scoreE),
		ImplicitScore:   round3(scoreI),
		PopularityBonus: round3(bonus),
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsAny(wanted, have []string) bool {
	for _, h := range have {
		if contains(wanted, h) {
			return true
		}
	}
	return false
}

func containsAll(have, required []string) bool {
	for _, r := range required {
		if !contains(have, r) {
			return false
		}
	}
	return true
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
