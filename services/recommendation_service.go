package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"petmatch_server/logging"
	"petmatch_server/metrics"
	"petmatch_server/models"
)

// RecommendationService ranks the eligible pool for a user
type RecommendationService struct {
	Eligibility *EligibilityService
	Preferences *PreferenceService
	Judgments   JudgmentStore
	Scorer      *Scorer
}

func NewRecommendationService(eligibility *EligibilityService, prefs *PreferenceService, judgments JudgmentStore, scorer *Scorer) *RecommendationService {
	return &RecommendationService{Eligibility: eligibility, Preferences: prefs, Judgments: judgments, Scorer: scorer}
}

// Limit resolves a requested result size: non-positive means the default, and the max caps it
func (s *RecommendationService) Limit(n int) int {
	cfg := s.Scorer.Config
	if n <= 0 {
		n = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && n > cfg.MaxLimit {
		n = cfg.MaxLimit
	}
	return n
}

// TopNRecommendations returns up to n eligible candidates sorted by score,
// ties broken by creation time then id.
func (s *RecommendationService) TopNRecommendations(ctx context.Context, userID string, n int) ([]*models.ScoredCandidate, error) {
	start := time.Now()
	n = s.Limit(n)

	judgments, err := s.Judgments.ListJudgmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judgments: %w", err)
	}
	pool, err := s.Eligibility.EligibleFor(ctx, judgments)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return []*models.ScoredCandidate{}, nil
	}

	explicit, err := s.Preferences.ExplicitPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	implicit, err := s.Preferences.ImplicitFrom(ctx, judgments)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(pool))
	for i, c := range pool {
		ids[i] = c.ID
	}
	likes, err := s.Judgments.CountLikes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	scored := make([]*models.ScoredCandidate, len(pool))
	for i, c := range pool {
		scored[i] = s.Scorer.Score(explicit, implicit, c, likes[c.ID])
	}
	// pool is already in tie-break order
	sort.SliceStable(scored, func(i, k int) bool { return scored[i].Score > scored[k].Score })
	if len(scored) > n {
		scored = scored[:n]
	}

	_, _, regime := s.Scorer.Weights(explicit, implicit)
	metrics.RecommendationDuration.WithLabelValues(regime).Observe(time.Since(start).Seconds())
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("regime", regime).
		Int("pool", len(pool)).
		Int("returned", len(scored)).
		Msg("recommendations ranked")
	return scored, nil
}
