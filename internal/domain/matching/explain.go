package matching

import (
	"fmt"
	"time"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// Factor names as they appear in the audit breakdown.
const (
	FactorBloodType   = "Blood Type"
	FactorHLA         = "HLA Compatibility"
	FactorAge         = "Age Difference"
	FactorWaitingTime = "Waiting Time"
	FactorUrgency     = "Urgency"
)

// highUrgencyThreshold separates "High" from "Medium" in urgency
// descriptions.
const highUrgencyThreshold = 8

// factors builds the per-factor breakdown. Weights are the configured
// (unnormalized) values expressed as fractions, so the breakdown stays
// readable regardless of which factors were active during scoring. Raw
// sub-scores are computed by the same functions the scorers use.
func (e *Engine) factors(organ model.Organ, r model.Recipient, donor model.Donor, hasDonor bool, now time.Time) []model.MatchFactor {
	w := e.weights
	factors := make([]model.MatchFactor, 0, 5)

	bloodScore, bloodDesc := bloodTypeSubScore(organ.BloodType, r.BloodType)
	factors = append(factors, model.MatchFactor{
		Name:        FactorBloodType,
		Weight:      w.BloodType / 100,
		Score:       bloodScore,
		Description: bloodDesc,
	})

	hlaScore, matched, total := hlaSubScore(organ.HlaType, r.HlaType)
	factors = append(factors, model.MatchFactor{
		Name:        FactorHLA,
		Weight:      w.HLA / 100,
		Score:       hlaScore,
		Description: fmt.Sprintf("%d/%d antigens match", matched, total),
	})

	if hasDonor {
		ageDiff := absInt(donor.Age(now) - r.Age(now))
		factors = append(factors, model.MatchFactor{
			Name:        FactorAge,
			Weight:      w.Age / 100,
			Score:       ageSubScore(ageDiff),
			Description: fmt.Sprintf("%d years difference", ageDiff),
		})
	}

	waitingDays := r.WaitingDays(now)
	factors = append(factors, model.MatchFactor{
		Name:        FactorWaitingTime,
		Weight:      w.WaitingTime / 100,
		Score:       waitingTimeSubScore(waitingDays),
		Description: fmt.Sprintf("%d days on waiting list", waitingDays),
	})

	urgencyLabel := "Medium"
	if r.UrgencyScore >= highUrgencyThreshold {
		urgencyLabel = "High"
	}
	factors = append(factors, model.MatchFactor{
		Name:        FactorUrgency,
		Weight:      w.Urgency / 100,
		Score:       urgencySubScore(r.UrgencyScore),
		Description: fmt.Sprintf("%s urgency (%d/10)", urgencyLabel, r.UrgencyScore),
	})

	return factors
}
