package registrysim

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

// Population shape constants.
const (
	minDonorAge        = 18
	donorAgeRange      = 50
	minRecipientAge    = 1
	recipientAgeSpan   = 74
	maxWaitingDays     = 1500
	hlaPanelSize       = 6
	hlaAlleleCount     = 40
	maxUrgency         = 10
	maxPriority        = 10
	maxHarvestAgeHours = 3
)

// bloodTypes is the ABO/Rh distribution used for generated records. Skewed
// toward the common types so universal-donor paths still get exercised.
var bloodTypes = []string{
	"O+", "O+", "O+", "A+", "A+", "A+", "B+", "AB+",
	"O-", "A-", "B-", "AB-",
}

var organTypes = []string{"heart", "lung", "liver", "kidney", "pancreas", "intestine"}

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randBloodType picks a blood type from the skewed distribution.
func randBloodType() string {
	return bloodTypes[randInt(len(bloodTypes))]
}

// randHLA builds a semicolon-separated panel of antigen tokens. Tokens are
// drawn from a limited allele pool so overlapping panels occur often enough
// to produce non-zero matching scores.
func randHLA() string {
	loci := [hlaPanelSize]string{"A", "A", "B", "B", "DR", "DR"}
	out := ""
	for i, locus := range loci {
		if i > 0 {
			out += ";"
		}
		out += locus + strconv.Itoa(1+randInt(hlaAlleleCount))
	}
	return out
}

// randDateOfBirth returns a date of birth for an age within [minAge, minAge+span).
func randDateOfBirth(now time.Time, minAge, span int) string {
	age := minAge + randInt(span)
	dob := now.AddDate(-age, 0, -randInt(365))
	return dob.Format("2006-01-02")
}

// generateDonors builds the synthetic donor population.
func generateDonors(n int, now time.Time) []Donor {
	donors := make([]Donor, n)
	for i := range donors {
		donors[i] = Donor{
			DateOfBirth: randDateOfBirth(now, minDonorAge, donorAgeRange),
			BloodType:   randBloodType(),
			HlaType:     randHLA(),
			Status:      "available",
		}
	}
	return donors
}

// generateRecipients builds the synthetic waiting list. Every recipient gets
// at least one open organ request.
func generateRecipients(n int, now time.Time) []Recipient {
	recipients := make([]Recipient, n)
	for i := range recipients {
		requests := []OrganRequest{{
			OrganType: organTypes[randInt(len(organTypes))],
			Priority:  1 + randInt(maxPriority),
			Status:    "waiting",
		}}
		// A minority of recipients wait for a second organ.
		if randInt(10) == 0 {
			requests = append(requests, OrganRequest{
				OrganType: organTypes[randInt(len(organTypes))],
				Priority:  1 + randInt(maxPriority),
				Status:    "waiting",
			})
		}
		recipients[i] = Recipient{
			DateOfBirth:   randDateOfBirth(now, minRecipientAge, recipientAgeSpan),
			BloodType:     randBloodType(),
			HlaType:       randHLA(),
			UrgencyScore:  1 + randInt(maxUrgency),
			WaitingSince:  now.AddDate(0, 0, -randInt(maxWaitingDays)).Format(time.RFC3339),
			OrganRequests: requests,
		}
	}
	return recipients
}

// generateOrgans builds harvested organs attributed to registered donors.
// Donor blood type and HLA panel carry over to the organ record.
func generateOrgans(n int, donors []Donor, now time.Time) []Organ {
	organs := make([]Organ, n)
	for i := range organs {
		donor := donors[randInt(len(donors))]
		organs[i] = Organ{
			DonorID:   donor.ID,
			OrganType: organTypes[randInt(len(organTypes))],
			BloodType: donor.BloodType,
			HlaType:   donor.HlaType,
			Harvested: now.Add(-time.Duration(randInt(maxHarvestAgeHours)) * time.Hour).Format(time.RFC3339),
		}
	}
	return organs
}
