// Package model contains domain records passed between layers.
package model

import "time"

// DonorStatus tracks a donor through the donation process.
type DonorStatus string

// Donor lifecycle states.
const (
	DonorAvailable  DonorStatus = "available"
	DonorInProcess  DonorStatus = "in_process"
	DonorCompleted  DonorStatus = "completed"
	DonorIneligible DonorStatus = "ineligible"
)

// Valid reports whether s is a known donor status.
func (s DonorStatus) Valid() bool {
	switch s {
	case DonorAvailable, DonorInProcess, DonorCompleted, DonorIneligible:
		return true
	}
	return false
}

// Donor is the source of one or more harvested organs. Only the date of
// birth participates in scoring (age difference against the candidate).
type Donor struct {
	ID          string
	DateOfBirth time.Time
	BloodType   string
	HlaType     string
	Status      DonorStatus
}

// Age returns the donor's calendar age in whole years at the given time.
func (d Donor) Age(at time.Time) int {
	return yearsBetween(d.DateOfBirth, at)
}
