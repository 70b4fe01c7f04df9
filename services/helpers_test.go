package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"petmatch_server/models"
	"petmatch_server/store"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedRand struct {
	f float64
	i int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.i % n }

type recordingNotifier struct {
	mu    sync.Mutex
	calls []*models.MatchChannel
	err   error
}

func (n *recordingNotifier) NotifyChannelCreated(_ context.Context, ch *models.MatchChannel, _ *models.Candidate) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, ch)
	return n.err
}

type failingChannels struct{}

func (failingChannels) GetOrCreateChannel(context.Context, models.MatchChannel) (*models.MatchChannel, bool, error) {
	return nil, false, errors.New("table unavailable")
}

// fixture wires every service over one memory store
type fixture struct {
	store       *store.MemoryStore
	notifier    *recordingNotifier
	matches     *MatchService
	interaction *InteractionService
	eligibility *EligibilityService
	preferences *PreferenceService
	feed        *FeedService
	recommend   *RecommendationService
}

func newFixture(t *testing.T, rnd RandomSource) *fixture {
	t.Helper()
	s := store.NewMemoryStore()
	f := &fixture{store: s, notifier: &recordingNotifier{}}
	f.matches = NewMatchService(s, f.notifier)
	f.interaction = NewInteractionService(s, s, f.matches)
	f.eligibility = NewEligibilityService(s, s)
	f.preferences = NewPreferenceService(s, s, s)
	f.feed = NewFeedService(f.eligibility, rnd)
	f.recommend = NewRecommendationService(f.eligibility, f.preferences, s, NewScorer(DefaultScoringConfig(), rnd))
	return f
}

func (f *fixture) add(t *testing.T, candidates ...*models.Candidate) {
	t.Helper()
	for i, c := range candidates {
		if c.CreatedAt.IsZero() {
			c.CreatedAt = t0.Add(time.Duration(i) * time.Minute)
		}
		if err := f.store.SaveCandidate(context.Background(), c); err != nil {
			t.Fatalf("SaveCandidate: %v", err)
		}
	}
}

func (f *fixture) judge(t *testing.T, user, candidate, outcome string) *JudgmentResult {
	t.Helper()
	res, err := f.interaction.RecordJudgment(context.Background(), user, candidate, outcome)
	if err != nil {
		t.Fatalf("RecordJudgment(%s, %s, %s): %v", user, candidate, outcome, err)
	}
	return res
}

func ids(candidates []*models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}
