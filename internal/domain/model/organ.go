// Package model contains domain records passed between layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// OrganType is the closed set of transplantable organ categories.
type OrganType string

// Supported organ types.
const (
	OrganHeart     OrganType = "heart"
	OrganLung      OrganType = "lung"
	OrganLiver     OrganType = "liver"
	OrganKidney    OrganType = "kidney"
	OrganPancreas  OrganType = "pancreas"
	OrganIntestine OrganType = "intestine"
)

// ParseOrganType validates and normalizes an organ type string.
func ParseOrganType(s string) (OrganType, error) {
	t := OrganType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown organ type: %q", s)
	}
	return t, nil
}

// Valid reports whether t is a known organ type.
func (t OrganType) Valid() bool {
	switch t {
	case OrganHeart, OrganLung, OrganLiver, OrganKidney, OrganPancreas, OrganIntestine:
		return true
	}
	return false
}

// PreservationTime returns the cold-ischemia window for an organ type.
// The table mirrors standard preservation durations and drives the derived
// expiry timestamp at registration time.
func (t OrganType) PreservationTime() time.Duration {
	switch t {
	case OrganHeart:
		return 4 * time.Hour
	case OrganLung:
		return 6 * time.Hour
	case OrganLiver:
		return 12 * time.Hour
	case OrganKidney:
		return 24 * time.Hour
	case OrganPancreas:
		return 12 * time.Hour
	case OrganIntestine:
		return 8 * time.Hour
	default:
		return 12 * time.Hour
	}
}

// OrganStatus tracks an organ through its allocation lifecycle.
type OrganStatus string

// Organ lifecycle states.
const (
	OrganAvailable    OrganStatus = "available"
	OrganReserved     OrganStatus = "reserved"
	OrganInTransit    OrganStatus = "in_transit"
	OrganTransplanted OrganStatus = "transplanted"
	OrganExpired      OrganStatus = "expired"
	OrganDiscarded    OrganStatus = "discarded"
)

// Valid reports whether s is a known organ status.
func (s OrganStatus) Valid() bool {
	switch s {
	case OrganAvailable, OrganReserved, OrganInTransit, OrganTransplanted, OrganExpired, OrganDiscarded:
		return true
	}
	return false
}

// Organ is a harvested organ awaiting allocation.
// BloodType and HlaType are opaque strings from the donor record; HlaType is
// a semicolon-separated list of antigen tokens.
type Organ struct {
	ID        string
	DonorID   string
	Type      OrganType
	BloodType string
	HlaType   string
	Harvested time.Time
	Expiry    time.Time
	Status    OrganStatus
}

// NewOrgan builds an Organ with the expiry derived from the preservation
// table for its type. Invariant: Expiry > Harvested.
func NewOrgan(id, donorID string, typ OrganType, bloodType, hlaType string, harvested time.Time) Organ {
	return Organ{
		ID:        id,
		DonorID:   donorID,
		Type:      typ,
		BloodType: bloodType,
		HlaType:   hlaType,
		Harvested: harvested,
		Expiry:    harvested.Add(typ.PreservationTime()),
		Status:    OrganAvailable,
	}
}

// Viable reports whether the organ is still within its preservation window.
func (o Organ) Viable(now time.Time) bool {
	return now.Before(o.Expiry)
}

// RemainingViability returns how long the organ stays viable from now.
// Negative once expired.
func (o Organ) RemainingViability(now time.Time) time.Duration {
	return o.Expiry.Sub(now)
}
