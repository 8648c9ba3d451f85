// Package model contains domain records passed between layers.
package model

import "time"

// MatchStatus tracks a match through the external review workflow. The
// matching engine only ever emits MatchPending; the remaining transitions
// belong to the surrounding system.
type MatchStatus string

// Match lifecycle states.
const (
	MatchPending   MatchStatus = "pending"
	MatchNotified  MatchStatus = "notified"
	MatchReviewing MatchStatus = "reviewing"
	MatchApproved  MatchStatus = "approved"
	MatchRejected  MatchStatus = "rejected"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

// Valid reports whether s is a known match status.
func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchNotified, MatchReviewing, MatchApproved, MatchRejected, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

// MatchFactor is one itemized entry of the per-factor breakdown.
// Weight is the configured (unnormalized) factor weight expressed as a
// fraction; Score is the raw 0-100 sub-score.
type MatchFactor struct {
	Name        string
	Weight      float64
	Score       float64
	Description string
}

// WeightedScore returns Weight x Score.
func (f MatchFactor) WeightedScore() float64 {
	return f.Weight * f.Score
}

// Match pairs an organ with a compatible recipient. Both scores are always
// within [0,100] and CompatibilityScore is at or above the admission
// threshold, otherwise no Match is constructed at all.
type Match struct {
	ID                 string
	OrganID            string
	DonorID            string
	RecipientID        string
	CompatibilityScore float64
	RankingScore       float64
	Factors            []MatchFactor
	Status             MatchStatus
	AlgorithmVersion   string
	MatchedAt          time.Time
}

// MatchRequest asks for an asynchronous match run over one organ. It is the
// payload flowing through the match-run queue, not part of the engine's
// contract.
type MatchRequest struct {
	RequestID   string
	OrganID     string
	RequestedAt time.Time
}
