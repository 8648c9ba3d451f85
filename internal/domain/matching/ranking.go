package matching

import (
	"time"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// compatibilityShare is the fixed portion the compatibility score contributes
// to the ranking blend. It is deliberately not configurable.
const compatibilityShare = 50

// waitingCapDays caps the waiting-time ramp at one year on the list.
const waitingCapDays = 365

// ranking blends compatibility with urgency and waiting time. Compatibility
// always contributes at its fixed 50% share; the two configured weights are
// normalized against the total of all three shares.
func (e *Engine) ranking(compatibility float64, r model.Recipient, now time.Time) float64 {
	w := e.weights
	total := compatibilityShare + w.WaitingTime + w.Urgency

	score := compatibility * compatibilityShare / 100
	score += urgencySubScore(r.UrgencyScore) * w.Urgency / total
	score += waitingTimeSubScore(r.WaitingDays(now)) * w.WaitingTime / total

	return clamp(score)
}

// urgencySubScore maps the 1-10 clinical urgency onto 0-100.
func urgencySubScore(urgency int) float64 {
	return float64(urgency) / 10 * 100
}

// waitingTimeSubScore ramps linearly over the first year on the waiting
// list, then saturates.
func waitingTimeSubScore(waitingDays int) float64 {
	ratio := float64(waitingDays) / waitingCapDays
	if ratio > 1 {
		ratio = 1
	}
	return ratio * 100
}
