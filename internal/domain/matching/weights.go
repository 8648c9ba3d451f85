// Package matching implements the organ-recipient compatibility scoring and
// ranking engine.
package matching

import "fmt"

// Default factor weights. They are business parameters: relative magnitudes
// matter, the sum does not, because each scoring stage normalizes the weights
// it actually uses.
const (
	defaultBloodTypeWeight   = 35
	defaultHLAWeight         = 30
	defaultAgeWeight         = 10
	defaultWaitingTimeWeight = 15
	defaultUrgencyWeight     = 10
)

// Weights holds the five configurable factor weights. All must be positive.
type Weights struct {
	BloodType   float64
	HLA         float64
	Age         float64
	WaitingTime float64
	Urgency     float64
}

// DefaultWeights returns the stock weight configuration.
func DefaultWeights() Weights {
	return Weights{
		BloodType:   defaultBloodTypeWeight,
		HLA:         defaultHLAWeight,
		Age:         defaultAgeWeight,
		WaitingTime: defaultWaitingTimeWeight,
		Urgency:     defaultUrgencyWeight,
	}
}

// Validate rejects any non-positive weight. A bad configuration fails the
// whole scoring run before any candidate is processed.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"blood_type_weight", w.BloodType},
		{"hla_weight", w.HLA},
		{"age_weight", w.Age},
		{"waiting_time_weight", w.WaitingTime},
		{"urgency_weight", w.Urgency},
	} {
		if f.value <= 0 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidWeights, f.name, f.value)
		}
	}
	return nil
}
