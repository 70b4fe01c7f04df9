package models

import "time"

// Judgment is a user's current like/dislike on a candidate.
// There is at most one per (UserID, CandidateID); a re-swipe overwrites it.
type Judgment struct {
	UserID      string    `dynamodbav:"userId" json:"user_id"`
	CandidateID string    `dynamodbav:"candidateId" json:"candidate_id"`
	Outcome     string    `dynamodbav:"outcome" json:"outcome"`
	JudgedAt    time.Time `dynamodbav:"judgedAt" json:"judged_at"`
	CreatedAt   time.Time `dynamodbav:"createdAt" json:"created_at"`
	Revision    int       `dynamodbav:"revision" json:"-"` // 1 on first write, incremented on every re-swipe
}

// JudgmentsTable is the DynamoDB table name for judgments
const JudgmentsTable = "Judgments"

// CandidateJudgmentsIndex is the GSI keyed by candidateId used for popularity counts
const CandidateJudgmentsIndex = "candidateId-index"

// IsLike reports whether the judgment is positive
func (j *Judgment) IsLike() bool {
	return j.Outcome == OutcomeLike
}
