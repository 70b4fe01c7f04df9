package services

import (
	"context"
	"fmt"
	"sort"

	"petmatch_server/models"
)

// EligibilityService computes the pool of candidates a user can still be shown
type EligibilityService struct {
	Candidates CandidateStore
	Judgments  JudgmentStore
}

func NewEligibilityService(candidates CandidateStore, judgments JudgmentStore) *EligibilityService {
	return &EligibilityService{Candidates: candidates, Judgments: judgments}
}

// EligibleCandidates returns candidates that are not adopted, not hidden and
// not yet judged by the user, ordered by creation time then id.
func (s *EligibilityService) EligibleCandidates(ctx context.Context, userID string) ([]*models.Candidate, error) {
	judgments, err := s.Judgments.ListJudgmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judgments: %w", err)
	}
	return s.EligibleFor(ctx, judgments)
}

// EligibleFor is EligibleCandidates over an already loaded judgment list
func (s *EligibilityService) EligibleFor(ctx context.Context, judgments []*models.Judgment) ([]*models.Candidate, error) {
	judged := make(map[string]struct{}, len(judgments))
	for _, j := range judgments {
		judged[j.CandidateID] = struct{}{}
	}

	available, err := s.Candidates.ListAvailableCandidates(ctx, judged)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	pool := make([]*models.Candidate, 0, len(available))
	for _, c := range available {
		if _, seen := judged[c.ID]; seen || !c.Available() {
			continue
		}
		pool = append(pool, c)
	}
	sort.Slice(pool, func(i, k int) bool {
		if !pool[i].CreatedAt.Equal(pool[k].CreatedAt) {
			return pool[i].CreatedAt.Before(pool[k].CreatedAt)
		}
		return pool[i].ID < pool[k].ID
	})
	return pool, nil
}
