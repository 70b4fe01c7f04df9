package services

import (
	"context"
	"reflect"
	"testing"
	"time"

	"petmatch_server/models"
)

func TestEligibleCandidatesOrderAndFilter(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t,
		&models.Candidate{ID: "b", CreatedAt: t0},
		&models.Candidate{ID: "a", CreatedAt: t0},
		&models.Candidate{ID: "old", CreatedAt: t0.Add(-time.Hour)},
		&models.Candidate{ID: "adopted", Adopted: true},
		&models.Candidate{ID: "hidden", Hidden: true},
		&models.Candidate{ID: "judged", OwnerID: "s"},
	)
	f.judge(t, "u1", "judged", models.OutcomeDislike)

	pool, err := f.eligibility.EligibleCandidates(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"old", "a", "b"}; !reflect.DeepEqual(ids(pool), want) {
		t.Errorf("pool = %v, want %v", ids(pool), want)
	}

	// another user still sees the candidate u1 judged
	pool, _ = f.eligibility.EligibleCandidates(context.Background(), "u2")
	if len(pool) != 4 {
		t.Errorf("u2 pool = %v, want 4 candidates", ids(pool))
	}
}

func TestNextCardNeverReturnsIneligible(t *testing.T) {
	f := newFixture(t, NewRandomSource(42))
	f.add(t,
		&models.Candidate{ID: "free-1"},
		&models.Candidate{ID: "free-2"},
		&models.Candidate{ID: "adopted", Adopted: true},
		&models.Candidate{ID: "hidden", Hidden: true},
		&models.Candidate{ID: "liked", OwnerID: "s"},
		&models.Candidate{ID: "disliked", OwnerID: "s"},
	)
	f.judge(t, "u1", "liked", models.OutcomeLike)
	f.judge(t, "u1", "disliked", models.OutcomeDislike)

	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		c, err := f.feed.NextCard(context.Background(), "u1")
		if err != nil {
			t.Fatal(err)
		}
		if c == nil {
			t.Fatal("unexpected empty feed")
		}
		seen[c.ID]++
	}
	for id := range seen {
		if id != "free-1" && id != "free-2" {
			t.Errorf("served ineligible candidate %q", id)
		}
	}
	if seen["free-1"] == 0 || seen["free-2"] == 0 {
		t.Errorf("draw is not spread over the pool: %v", seen)
	}
}

func TestNextCardEmpty(t *testing.T) {
	f := newFixture(t, fixedRand{})
	f.add(t, &models.Candidate{ID: "only", OwnerID: "s"})
	f.judge(t, "u1", "only", models.OutcomeLike)

	c, err := f.feed.NextCard(context.Background(), "u1")
	if err != nil || c != nil {
		t.Errorf("NextCard = %v, %v; want nil, nil", c, err)
	}
}

func TestNextCardUsesRandomSource(t *testing.T) {
	f := newFixture(t, fixedRand{i: 1})
	f.add(t, &models.Candidate{ID: "a"}, &models.Candidate{ID: "b"}, &models.Candidate{ID: "c"})

	c, err := f.feed.NextCard(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if c.ID != "b" {
		t.Errorf("drew %q, want b (index 1 of the ordered pool)", c.ID)
	}
}
