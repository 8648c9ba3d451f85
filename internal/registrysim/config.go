package registrysim

import "time"

// Config holds configuration for the registry simulation.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumDonors     int           // Number of donors to register
	NumRecipients int           // Number of recipients to register
	NumOrgans     int           // Number of organs to register
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	LogFile       string        // Log file for simulation output
	Verbose       bool          // Enable verbose logging
}

// Donor is the registration payload for a donor.
type Donor struct {
	ID          string `json:"id,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
	BloodType   string `json:"blood_type"`
	HlaType     string `json:"hla_type"`
	Status      string `json:"status,omitempty"`
}

// OrganRequest is one entry of a recipient's waiting-list requests.
type OrganRequest struct {
	OrganType string `json:"organ_type"`
	Priority  int    `json:"priority"`
	Status    string `json:"status,omitempty"`
}

// Recipient is the registration payload for a waiting-list candidate.
type Recipient struct {
	ID            string         `json:"id,omitempty"`
	DateOfBirth   string         `json:"date_of_birth"`
	BloodType     string         `json:"blood_type"`
	HlaType       string         `json:"hla_type"`
	UrgencyScore  int            `json:"urgency_score"`
	WaitingSince  string         `json:"waiting_since,omitempty"`
	OrganRequests []OrganRequest `json:"organ_requests"`
}

// Organ is the registration payload for a harvested organ.
type Organ struct {
	ID        string `json:"id,omitempty"`
	DonorID   string `json:"donor_id"`
	OrganType string `json:"organ_type"`
	BloodType string `json:"blood_type"`
	HlaType   string `json:"hla_type"`
	Harvested string `json:"harvested,omitempty"`
}

// RunAck is the response from a match-run request.
type RunAck struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Duplicate bool   `json:"duplicate"`
}

// Match is one ranked candidate returned for an organ.
type Match struct {
	ID                 string  `json:"id"`
	OrganID            string  `json:"organ_id"`
	RecipientID        string  `json:"recipient_id"`
	CompatibilityScore float64 `json:"compatibility_score"`
	RankingScore       float64 `json:"ranking_score"`
	Status             string  `json:"status"`
	AlgorithmVersion   string  `json:"algorithm_version"`
}

// Stats holds simulation statistics.
type Stats struct {
	DonorsRegistered     int
	RecipientsRegistered int
	OrgansRegistered     int
	RunsAccepted         int
	RunsDuplicate        int
	RunsRejected         int
	MatchesRetrieved     int
	OrgansWithMatches    int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}
