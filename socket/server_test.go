package socket

import (
	"context"
	"testing"
	"time"

	"petmatch_server/middleware"
	"petmatch_server/models"
)

const secret = "socket-secret-0123456789"

func TestRoomForToken(t *testing.T) {
	s := &Server{secret: secret}
	token, err := middleware.IssueToken(secret, "shelter-9", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	room, err := s.roomForToken(token)
	if err != nil {
		t.Fatalf("roomForToken: %v", err)
	}
	if room != "party:shelter-9" {
		t.Errorf("room = %q", room)
	}
	if _, err := s.roomForToken("nope"); err == nil {
		t.Error("expected invalid token to be rejected")
	}
}

func TestNotifyChannelCreated(t *testing.T) {
	var gotRoom, gotEvent string
	var gotPayload map[string]interface{}
	s := &Server{broadcast: func(room, event string, payload interface{}) bool {
		gotRoom, gotEvent = room, event
		gotPayload = payload.(map[string]interface{})
		return true
	}}

	err := s.NotifyChannelCreated(context.Background(),
		&models.MatchChannel{ID: "ch-1", CandidateID: "c1", UserID: "u1", CounterpartID: "shelter-9"},
		&models.Candidate{ID: "c1", Name: "Luna"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if gotRoom != "party:shelter-9" || gotEvent != EventMatchCreated {
		t.Errorf("broadcast to %q/%q", gotRoom, gotEvent)
	}
	if gotPayload["channel_id"] != "ch-1" || gotPayload["candidate_name"] != "Luna" {
		t.Errorf("payload = %v", gotPayload)
	}
}

func TestNotifyChannelCreatedBroadcastFailure(t *testing.T) {
	s := &Server{broadcast: func(string, string, interface{}) bool { return false }}
	err := s.NotifyChannelCreated(context.Background(),
		&models.MatchChannel{ID: "ch-1", CounterpartID: "x"}, &models.Candidate{ID: "c1"})
	if err == nil {
		t.Error("expected error when broadcast fails")
	}
}
