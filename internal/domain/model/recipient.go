// Package model contains domain records passed between layers.
package model

import "time"

// RecipientStatus tracks a recipient on the waiting list.
type RecipientStatus string

// Recipient lifecycle states.
const (
	RecipientWaiting      RecipientStatus = "waiting"
	RecipientMatched      RecipientStatus = "matched"
	RecipientTransplanted RecipientStatus = "transplanted"
	RecipientIneligible   RecipientStatus = "ineligible"
	RecipientDeceased     RecipientStatus = "deceased"
)

// Valid reports whether s is a known recipient status.
func (s RecipientStatus) Valid() bool {
	switch s {
	case RecipientWaiting, RecipientMatched, RecipientTransplanted, RecipientIneligible, RecipientDeceased:
		return true
	}
	return false
}

// OrganRequestStatus tracks an individual organ request.
type OrganRequestStatus string

// Organ request lifecycle states.
const (
	RequestWaiting   OrganRequestStatus = "waiting"
	RequestMatched   OrganRequestStatus = "matched"
	RequestFulfilled OrganRequestStatus = "fulfilled"
	RequestCancelled OrganRequestStatus = "cancelled"
)

// Valid reports whether s is a known organ request status.
func (s OrganRequestStatus) Valid() bool {
	switch s {
	case RequestWaiting, RequestMatched, RequestFulfilled, RequestCancelled:
		return true
	}
	return false
}

// OrganRequest is an open request for one organ category.
type OrganRequest struct {
	ID        string
	OrganType OrganType
	Requested time.Time
	Priority  int // 1-10, 10 highest
	Status    OrganRequestStatus
}

// Recipient is a waiting-list candidate.
type Recipient struct {
	ID           string
	DateOfBirth  time.Time
	BloodType    string
	HlaType      string
	UrgencyScore int // 1-10, higher is more urgent
	WaitingSince time.Time
	Status       RecipientStatus
	Requests     []OrganRequest
}

// Age returns the recipient's calendar age in whole years at the given time.
func (r Recipient) Age(at time.Time) int {
	return yearsBetween(r.DateOfBirth, at)
}

// WaitingDays returns whole days spent on the waiting list as of now.
func (r Recipient) WaitingDays(now time.Time) int {
	d := now.Sub(r.WaitingSince)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// yearsBetween computes calendar years between birth and at, decrementing
// when the anniversary has not yet occurred.
func yearsBetween(birth, at time.Time) int {
	years := at.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
