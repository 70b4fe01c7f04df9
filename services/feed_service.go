package services

import (
	"context"

	"petmatch_server/metrics"
	"petmatch_server/models"
)

// FeedService serves the swipe feed one random candidate at a time
type FeedService struct {
	Eligibility *EligibilityService
	Rand        RandomSource
}

func NewFeedService(eligibility *EligibilityService, rnd RandomSource) *FeedService {
	return &FeedService{Eligibility: eligibility, Rand: rnd}
}

// NextCard draws uniformly from the user's eligible pool. It returns (nil, nil) when the pool is empty.
func (s *FeedService) NextCard(ctx context.Context, userID string) (*models.Candidate, error) {
	pool, err := s.Eligibility.EligibleCandidates(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		metrics.FeedEmpty.Inc()
		return nil, nil
	}
	return pool[s.Rand.Intn(len(pool))], nil
}
