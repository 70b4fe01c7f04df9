package services

import (
	"context"
	"errors"
	"fmt"

	"petmatch_server/models"
)

// PreferenceService derives explicit and implicit preference signals for a user
type PreferenceService struct {
	Preferences PreferenceStore
	Candidates  CandidateStore
	Judgments   JudgmentStore
}

func NewPreferenceService(prefs PreferenceStore, candidates CandidateStore, judgments JudgmentStore) *PreferenceService {
	return &PreferenceService{Preferences: prefs, Candidates: candidates, Judgments: judgments}
}

// ExplicitPreferences returns nil when the user declared nothing
func (s *PreferenceService) ExplicitPreferences(ctx context.Context, userID string) (*models.ExplicitPreference, error) {
	p, err := s.Preferences.GetExplicitPreference(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if !p.HasSignal() {
		return nil, nil
	}
	return p, nil
}

// ImplicitPreferences returns nil when the user has never liked anything
func (s *PreferenceService) ImplicitPreferences(ctx context.Context, userID string) (*models.ImplicitPreference, error) {
	judgments, err := s.Judgments.ListJudgmentsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judgments: %w", err)
	}
	return s.ImplicitFrom(ctx, judgments)
}

// ImplicitFrom builds the like distribution from an already loaded judgment list
func (s *PreferenceService) ImplicitFrom(ctx context.Context, judgments []*models.Judgment) (*models.ImplicitPreference, error) {
	var pref *models.ImplicitPreference
	for _, j := range judgments {
		if !j.IsLike() {
			continue
		}
		c, err := s.Candidates.GetCandidate(ctx, j.CandidateID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load liked candidate: %w", err)
		}
		if pref == nil {
			pref = models.NewImplicitPreference()
		}
		pref.Add(c)
	}
	return pref, nil
}
