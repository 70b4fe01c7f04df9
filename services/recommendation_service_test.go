package services

import (
	"context"
	"fmt"
	"testing"

	"petmatch_server/models"
)

func scoredIDs(list []*models.ScoredCandidate) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Candidate.ID
	}
	return out
}

func TestTopNExplicitRanking(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t,
		&models.Candidate{ID: "B", Species: models.SpeciesCat, Size: models.SizeSmall},
		&models.Candidate{ID: "A", Species: models.SpeciesDog, Size: models.SizeLarge},
	)
	if err := f.store.SavePreference(context.Background(), &models.ExplicitPreference{
		UserID:  "u1",
		Species: []string{models.SpeciesDog},
		Sizes:   []string{models.SizeLarge},
	}); err != nil {
		t.Fatal(err)
	}

	recs, err := f.recommend.TopNRecommendations(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].Candidate.ID != "A" {
		t.Fatalf("ranking = %v, want A first", scoredIDs(recs))
	}
	if recs[0].ExplicitScore <= recs[1].ExplicitScore {
		t.Errorf("explicit A=%v not above B=%v", recs[0].ExplicitScore, recs[1].ExplicitScore)
	}
	if recs[0].ImplicitScore != 0 || recs[1].ImplicitScore != 0 {
		t.Error("implicit score must be 0 with no likes")
	}
	if recs[0].Score != 1 || recs[1].Score != 0 {
		t.Errorf("scores = %v, %v; want 1, 0", recs[0].Score, recs[1].Score)
	}
}

func TestTopNHybridUsesLikes(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t,
		&models.Candidate{ID: "liked", Species: models.SpeciesCat, OwnerID: "s"},
		&models.Candidate{ID: "dog", Species: models.SpeciesDog},
		&models.Candidate{ID: "cat", Species: models.SpeciesCat},
	)
	f.store.SavePreference(context.Background(), &models.ExplicitPreference{UserID: "u1", Species: []string{models.SpeciesDog}})
	f.judge(t, "u1", "liked", models.OutcomeLike)

	recs, err := f.recommend.TopNRecommendations(context.Background(), "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %v, want the two unjudged candidates", scoredIDs(recs))
	}
	// dog: 0.6*1 + 0.4*(0 + size/age/sex unknown 0.5) = 0.8; cat: 0.4*(0.4 + 0.5) = 0.36
	byID := map[string]*models.ScoredCandidate{}
	for _, r := range recs {
		byID[r.Candidate.ID] = r
	}
	if byID["dog"].Score != 0.8 || byID["cat"].Score != 0.36 {
		t.Errorf("scores dog=%v cat=%v, want 0.8 and 0.36", byID["dog"].Score, byID["cat"].Score)
	}
}

func TestTopNPopularityAndTieBreak(t *testing.T) {
	f := newFixture(t, fixedRand{f: 0.5})
	f.add(t,
		&models.Candidate{ID: "first"},
		&models.Candidate{ID: "second"},
		&models.Candidate{ID: "popular", OwnerID: "s"},
	)
	for i := 0; i < 6; i++ {
		f.judge(t, fmt.Sprintf("other-%d", i), "popular", models.OutcomeLike)
	}

	recs, err := f.recommend.TopNRecommendations(context.Background(), "cold", 10)
	if err != nil {
		t.Fatal(err)
	}
	got := scoredIDs(recs)
	want := []string{"popular", "first", "second"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if recs[0].PopularityBonus != 0.1 {
		t.Errorf("popularity bonus = %v, want capped 0.1", recs[0].PopularityBonus)
	}
	if recs[1].Score != recs[2].Score {
		t.Errorf("fixed random source should tie: %v vs %v", recs[1].Score, recs[2].Score)
	}
}

func TestTopNLimits(t *testing.T) {
	f := newFixture(t, NewRandomSource(1))
	for i := 0; i < 60; i++ {
		f.add(t, &models.Candidate{ID: fmt.Sprintf("c%02d", i)})
	}

	for _, tt := range []struct{ n, want int }{{0, 5}, {-3, 5}, {3, 3}, {500, 50}} {
		recs, err := f.recommend.TopNRecommendations(context.Background(), "u1", tt.n)
		if err != nil {
			t.Fatal(err)
		}
		if len(recs) != tt.want {
			t.Errorf("limit %d returned %d, want %d", tt.n, len(recs), tt.want)
		}
	}
}

func TestTopNEmptyPool(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t, &models.Candidate{ID: "gone", Adopted: true})

	recs, err := f.recommend.TopNRecommendations(context.Background(), "u1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("recs = %v, want empty non-nil list", recs)
	}
}

func TestTopNExcludesJudged(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t, &models.Candidate{ID: "a", OwnerID: "s"}, &models.Candidate{ID: "b"})
	f.judge(t, "u1", "a", models.OutcomeDislike)

	recs, _ := f.recommend.TopNRecommendations(context.Background(), "u1", 5)
	if len(recs) != 1 || recs[0].Candidate.ID != "b" {
		t.Errorf("recs = %v, want [b]", scoredIDs(recs))
	}
}
