package services

import (
	"context"

	"petmatch_server/models"
)

// CandidateStore reads adoptable candidates
type CandidateStore interface {
	// GetCandidate returns models.ErrNotFound when no such candidate exists
	GetCandidate(ctx context.Context, id string) (*models.Candidate, error)
	// ListAvailableCandidates returns non-adopted, non-hidden candidates whose id is not in exclude
	ListAvailableCandidates(ctx context.Context, exclude map[string]struct{}) ([]*models.Candidate, error)
}

// JudgmentStore persists the interaction ledger
type JudgmentStore interface {
	// UpsertJudgment inserts or overwrites the (user, candidate) judgment in one atomic step.
	// created reports whether no judgment existed before.
	UpsertJudgment(ctx context.Context, j models.Judgment) (*models.Judgment, bool, error)
	ListJudgmentsByUser(ctx context.Context, userID string) ([]*models.Judgment, error)
	// CountLikes returns the global like count per candidate id. Ids with no likes may be absent.
	CountLikes(ctx context.Context, candidateIDs []string) (map[string]int, error)
}

// PreferenceStore reads declared adopter preferences
type PreferenceStore interface {
	// GetExplicitPreference returns (nil, nil) when the user has no record
	GetExplicitPreference(ctx context.Context, userID string) (*models.ExplicitPreference, error)
}

// ChannelStore persists match channels
type ChannelStore interface {
	// GetOrCreateChannel inserts ch unless a channel for (ch.CandidateID, ch.UserID) exists,
	// in which case the stored one is returned with created=false.
	GetOrCreateChannel(ctx context.Context, ch models.MatchChannel) (*models.MatchChannel, bool, error)
}

// ChannelNotifier announces new channels to the owning party
type ChannelNotifier interface {
	NotifyChannelCreated(ctx context.Context, ch *models.MatchChannel, candidate *models.Candidate) error
}

// PhotoSigner turns a stored photo key into a URL clients can fetch
type PhotoSigner interface {
	SignPhotoURL(ctx context.Context, key string) (string, error)
}
