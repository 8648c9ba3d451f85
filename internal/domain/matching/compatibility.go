package matching

import (
	"strings"
	"time"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// Blood-type sub-scores. "O-" donates to every type; "O+" donates to every
// positive type.
const (
	bloodExactScore     = 100
	bloodUniversalScore = 90
	bloodPositiveScore  = 75
	bloodPartialScore   = 25
)

// Age-difference sub-score bands, in whole years.
const (
	ageCloseScore    = 100 // diff <= 5
	ageNearScore     = 75  // diff <= 10
	ageModerateScore = 50  // diff <= 20
	ageFarScore      = 25
)

// compatibility computes the weighted first-stage score. When the donor is
// unresolvable, the age factor and its weight are omitted entirely, and the
// remaining active weights renormalize among themselves.
func (e *Engine) compatibility(organ model.Organ, r model.Recipient, donor model.Donor, hasDonor bool, now time.Time) float64 {
	bloodScore, _ := bloodTypeSubScore(organ.BloodType, r.BloodType)
	hlaScore, _, _ := hlaSubScore(organ.HlaType, r.HlaType)

	w := e.weights
	activeTotal := w.BloodType + w.HLA
	weighted := bloodScore*w.BloodType + hlaScore*w.HLA

	if hasDonor {
		ageScore := ageSubScore(absInt(donor.Age(now) - r.Age(now)))
		activeTotal += w.Age
		weighted += ageScore * w.Age
	}

	// Normalizing active weights to 100 and dividing each normalized weight
	// back out by 100 reduces to weighted / activeTotal. Validate guarantees
	// activeTotal > 0.
	return clamp(weighted / activeTotal)
}

// bloodTypeSubScore scores blood group compatibility between an organ and a
// candidate. Blood types are compared as opaque strings.
func bloodTypeSubScore(organType, recipientType string) (float64, string) {
	switch {
	case organType == recipientType:
		return bloodExactScore, "Direct match"
	case organType == "O-":
		return bloodUniversalScore, "Universal donor"
	case organType == "O+" && strings.HasSuffix(recipientType, "+"):
		return bloodPositiveScore, "Universal donor (positive)"
	default:
		return bloodPartialScore, "Partial compatibility"
	}
}

// hlaTokens splits a semicolon-separated antigen list, trimming whitespace
// and discarding empty tokens. Tokens that do not look like antigens are
// still kept as opaque strings; they simply fail to match.
func hlaTokens(s string) []string {
	parts := strings.Split(s, ";")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// hlaSubScore scores antigen overlap: the fraction of organ tokens present
// verbatim in the recipient's list. Empty lists score 0, never NaN.
func hlaSubScore(organHLA, recipientHLA string) (score float64, matched, total int) {
	organTokens := hlaTokens(organHLA)
	recipientTokens := hlaTokens(recipientHLA)

	seen := make(map[string]struct{}, len(recipientTokens))
	for _, t := range recipientTokens {
		seen[t] = struct{}{}
	}
	for _, t := range organTokens {
		if _, ok := seen[t]; ok {
			matched++
		}
	}

	total = len(organTokens)
	denom := total
	if denom < 1 {
		denom = 1
	}
	return float64(matched) / float64(denom) * 100, matched, total
}

// ageSubScore scores the absolute donor-recipient age difference in years.
func ageSubScore(ageDiff int) float64 {
	switch {
	case ageDiff <= 5:
		return ageCloseScore
	case ageDiff <= 10:
		return ageNearScore
	case ageDiff <= 20:
		return ageModerateScore
	default:
		return ageFarScore
	}
}

// absInt returns |v|.
func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
