package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"petmatch_server/logging"
	"petmatch_server/metrics"
	"petmatch_server/models"
)

// InteractionService records swipes in the judgment ledger
type InteractionService struct {
	Candidates CandidateStore
	Judgments  JudgmentStore
	Matches    *MatchService
	Now        func() time.Time
}

func NewInteractionService(candidates CandidateStore, judgments JudgmentStore, matches *MatchService) *InteractionService {
	return &InteractionService{Candidates: candidates, Judgments: judgments, Matches: matches, Now: time.Now}
}

// JudgmentResult is the outcome of one swipe
type JudgmentResult struct {
	Judgment  *models.Judgment
	Created   bool
	ChannelID *string // set only for a like that has a channel
}

// RecordJudgment upserts the user's judgment on a candidate. A like also
// ensures the match channel exists before returning.
func (s *InteractionService) RecordJudgment(ctx context.Context, userID, candidateID, outcome string) (*JudgmentResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", models.ErrPermissionDenied)
	}
	if candidateID == "" {
		return nil, fmt.Errorf("candidate id is required: %w", models.ErrInvalidArgument)
	}
	if !models.IsValidOutcome(outcome) {
		return nil, fmt.Errorf("action must be %q or %q, got %q: %w",
			models.OutcomeLike, models.OutcomeDislike, outcome, models.ErrInvalidArgument)
	}

	candidate, err := s.Candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	judgment, created, err := s.Judgments.UpsertJudgment(ctx, models.Judgment{
		UserID:      userID,
		CandidateID: candidateID,
		Outcome:     outcome,
		JudgedAt:    s.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save judgment: %w", err)
	}
	metrics.RecordSwipe(outcome, created)
	logging.Ctx(ctx).Debug().
		Str("user_id", userID).
		Str("candidate_id", candidateID).
		Str("outcome", outcome).
		Bool("created", created).
		Msg("judgment recorded")

	result := &JudgmentResult{Judgment: judgment, Created: created}
	if judgment.IsLike() && s.Matches != nil {
		if ch := s.Matches.EnsureChannel(ctx, candidate, userID); ch != nil {
			id := ch.ID
			result.ChannelID = &id
		}
	}
	return result, nil
}

// LikedCandidates returns the candidates the user currently likes, most recent first
func (s *InteractionService) LikedCandidates(ctx context.Context, userID string) ([]*models.Candidate, error) {
	likes, err := s.likes(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Candidate, 0, len(likes))
	for _, j := range likes {
		c, err := s.Candidates.GetCandidate(ctx, j.CandidateID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load liked candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// LikedCandidateIDs returns the ids of the candidates the user currently likes, most recent first
func (s *InteractionService) LikedCandidateIDs(ctx context.Context, userID string) ([]string, error) {
	likes, err := s.likes(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(likes))
	for _, j := range likes {
		ids = append(ids, j.CandidateID)
	}
	return ids, nil
}

func (s *InteractionService) likes(ctx context.Context, userID string) ([]*models.Judgment, error) {
	judgments, err := s.Judgments.ListJudgmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judgments: %w", err)
	}
	var likes []*models.Judgment
	for _, j := range judgments {
		if j.IsLike() {
			likes = append(likes, j)
		}
	}
	sort.SliceStable(likes, func(i, k int) bool { return likes[i].JudgedAt.After(likes[k].JudgedAt) })
	return likes, nil
}
