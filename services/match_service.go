package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"petmatch_server/logging"
	"petmatch_server/metrics"
	"petmatch_server/models"
)

// MatchService opens the adopter/owner channel when a candidate is liked
type MatchService struct {
	Channels ChannelStore
	Notifier ChannelNotifier // may be nil
	Now      func() time.Time
}

func NewMatchService(channels ChannelStore, notifier ChannelNotifier) *MatchService {
	return &MatchService{Channels: channels, Notifier: notifier, Now: time.Now}
}

// EnsureChannel returns the channel for (candidate, user), creating it on first call.
// It never fails the caller: a candidate without owner or a store error yields nil.
func (s *MatchService) EnsureChannel(ctx context.Context, candidate *models.Candidate, userID string) *models.MatchChannel {
	log := logging.Ctx(ctx).With().Str("candidate_id", candidate.ID).Str("user_id", userID).Logger()

	if candidate.OwnerID == "" {
		log.Warn().Msg("candidate has no owning party, no channel opened")
		metrics.ChannelFailures.WithLabelValues("no_owner").Inc()
		return nil
	}

	ch, created, err := s.Channels.GetOrCreateChannel(ctx, models.MatchChannel{
		ID:            uuid.New().String(),
		CandidateID:   candidate.ID,
		UserID:        userID,
		CounterpartID: candidate.OwnerID,
		Active:        true,
		CreatedAt:     s.Now().UTC(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to open match channel")
		metrics.ChannelFailures.WithLabelValues("store").Inc()
		return nil
	}
	if !created {
		return ch
	}

	metrics.ChannelsCreated.Inc()
	log.Info().Str("channel_id", ch.ID).Msg("match channel opened")
	if s.Notifier != nil {
		if err := s.Notifier.NotifyChannelCreated(ctx, ch, candidate); err != nil {
			log.Warn().Err(err).Str("channel_id", ch.ID).Msg("failed to notify owner")
		}
	}
	return ch
}
