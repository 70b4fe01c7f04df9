package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"petmatch_server/models"
)

// MemoryStore keeps everything in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	candidates  map[string]*models.Candidate
	judgments   map[judgmentKey]*models.Judgment
	preferences map[string]*models.ExplicitPreference
	channels    map[channelKey]*models.MatchChannel
}

type judgmentKey struct{ userID, candidateID string }

type channelKey struct{ candidateID, userID string }

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		candidates:  map[string]*models.Candidate{},
		judgments:   map[judgmentKey]*models.Judgment{},
		preferences: map[string]*models.ExplicitPreference{},
		channels:    map[channelKey]*models.MatchChannel{},
	}
}

// SaveCandidate inserts or replaces a candidate
func (s *MemoryStore) SaveCandidate(_ context.Context, c *models.Candidate) error {
	if c.ID == "" {
		return fmt.Errorf("candidate id is empty: %w", models.ErrInvalidArgument)
	}
	cp := *c
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.candidates[cp.ID] = &cp
	s.mu.Unlock()
	return nil
}

// SavePreference inserts or replaces a user's declared preferences
func (s *MemoryStore) SavePreference(_ context.Context, p *models.ExplicitPreference) error {
	cp := *p
	s.mu.Lock()
	s.preferences[cp.UserID] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) GetCandidate(_ context.Context, id string) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, fmt.Errorf("candidate %s: %w", id, models.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) ListAvailableCandidates(_ context.Context, exclude map[string]struct{}) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Candidate, 0, len(s.candidates))
	for id, c := range s.candidates {
		if !c.Available() {
			continue
		}
		if _, skip := exclude[id]; skip {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpsertJudgment(_ context.Context, j models.Judgment) (*models.Judgment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := judgmentKey{j.UserID, j.CandidateID}
	existing, ok := s.judgments[key]
	if ok {
		existing.Outcome = j.Outcome
		existing.JudgedAt = j.JudgedAt
		existing.Revision++
		cp := *existing
		return &cp, false, nil
	}
	j.CreatedAt = j.JudgedAt
	j.Revision = 1
	s.judgments[key] = &j
	cp := j
	return &cp, true, nil
}

func (s *MemoryStore) ListJudgmentsByUser(_ context.Context, userID string) ([]*models.Judgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Judgment
	for key, j := range s.judgments {
		if key.userID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JudgedAt.Before(out[j].JudgedAt) })
	return out, nil
}

func (s *MemoryStore) CountLikes(_ context.Context, candidateIDs []string) (map[string]int, error) {
	wanted := make(map[string]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int{}
	for key, j := range s.judgments {
		if _, ok := wanted[key.candidateID]; ok && j.IsLike() {
			counts[key.candidateID]++
		}
	}
	return counts, nil
}

func (s *MemoryStore) GetExplicitPreference(_ context.Context, userID string) (*models.ExplicitPreference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.preferences[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetOrCreateChannel(_ context.Context, ch models.MatchChannel) (*models.MatchChannel, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := channelKey{ch.CandidateID, ch.UserID}
	if existing, ok := s.channels[key]; ok {
		cp := *existing
		return &cp, false, nil
	}
	s.channels[key] = &ch
	cp := ch
	return &cp, true, nil
}
