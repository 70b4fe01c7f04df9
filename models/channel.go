package models

import "time"

// MatchChannel is the conversation opened between an adopter and the owner of a liked candidate.
// It is unique per (CandidateID, UserID).
type MatchChannel struct {
	ID            string    `dynamodbav:"channelId" json:"id"`
	CandidateID   string    `dynamodbav:"candidateId" json:"candidate_id"`
	UserID        string    `dynamodbav:"userId" json:"user_id"`
	CounterpartID string    `dynamodbav:"counterpartId" json:"counterpart_id"`
	Active        bool      `dynamodbav:"active" json:"active"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"created_at"`
}

// ChannelsTable is the DynamoDB table name for match channels
const ChannelsTable = "Channels"
