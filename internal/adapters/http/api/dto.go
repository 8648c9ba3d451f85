// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// dateLayout is the wire format for dates of birth.
const dateLayout = "2006-01-02"

// donorRequest mirrors the POST /donors payload.
type donorRequest struct {
	ID          string `json:"id,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
	BloodType   string `json:"blood_type"`
	HlaType     string `json:"hla_type"`
	Status      string `json:"status,omitempty"`
}

func (d donorRequest) validate() error {
	if strings.TrimSpace(d.BloodType) == "" {
		return errors.New("missing blood_type")
	}
	if _, err := time.Parse(dateLayout, d.DateOfBirth); err != nil {
		return fmt.Errorf("invalid date_of_birth; must be %s", dateLayout)
	}
	if d.Status != "" && !model.DonorStatus(d.Status).Valid() {
		return fmt.Errorf("unknown donor status: %q", d.Status)
	}
	return nil
}

func (d donorRequest) toModel() model.Donor {
	dob, _ := time.Parse(dateLayout, d.DateOfBirth)
	return model.Donor{
		ID:          d.ID,
		DateOfBirth: dob,
		BloodType:   d.BloodType,
		HlaType:     d.HlaType,
		Status:      model.DonorStatus(d.Status),
	}
}

// organRequestPayload mirrors one entry of a recipient's organ requests.
type organRequestPayload struct {
	ID        string `json:"id,omitempty"`
	OrganType string `json:"organ_type"`
	Requested string `json:"requested,omitempty"`
	Priority  int    `json:"priority,omitempty"`
	Status    string `json:"status,omitempty"`
}

// recipientRequest mirrors the POST /recipients payload.
type recipientRequest struct {
	ID            string                `json:"id,omitempty"`
	DateOfBirth   string                `json:"date_of_birth"`
	BloodType     string                `json:"blood_type"`
	HlaType       string                `json:"hla_type"`
	UrgencyScore  int                   `json:"urgency_score"`
	WaitingSince  string                `json:"waiting_since,omitempty"`
	Status        string                `json:"status,omitempty"`
	OrganRequests []organRequestPayload `json:"organ_requests"`
}

func (r recipientRequest) validate() error {
	if strings.TrimSpace(r.BloodType) == "" {
		return errors.New("missing blood_type")
	}
	if _, err := time.Parse(dateLayout, r.DateOfBirth); err != nil {
		return fmt.Errorf("invalid date_of_birth; must be %s", dateLayout)
	}
	if r.UrgencyScore < 1 || r.UrgencyScore > 10 {
		return errors.New("urgency_score must be in 1..10")
	}
	if r.WaitingSince != "" {
		if _, err := time.Parse(time.RFC3339, r.WaitingSince); err != nil {
			return errors.New("invalid waiting_since; must be RFC3339")
		}
	}
	if r.Status != "" && !model.RecipientStatus(r.Status).Valid() {
		return fmt.Errorf("unknown recipient status: %q", r.Status)
	}
	for _, req := range r.OrganRequests {
		if _, err := model.ParseOrganType(req.OrganType); err != nil {
			return err
		}
		if req.Status != "" && !model.OrganRequestStatus(req.Status).Valid() {
			return fmt.Errorf("unknown organ request status: %q", req.Status)
		}
		if req.Requested != "" {
			if _, err := time.Parse(time.RFC3339, req.Requested); err != nil {
				return errors.New("invalid requested; must be RFC3339")
			}
		}
	}
	return nil
}

func (r recipientRequest) toModel(now time.Time) model.Recipient {
	dob, _ := time.Parse(dateLayout, r.DateOfBirth)
	waitingSince := now
	if r.WaitingSince != "" {
		waitingSince, _ = time.Parse(time.RFC3339, r.WaitingSince)
	}
	requests := make([]model.OrganRequest, 0, len(r.OrganRequests))
	for _, req := range r.OrganRequests {
		organType, _ := model.ParseOrganType(req.OrganType)
		requested := now
		if req.Requested != "" {
			requested, _ = time.Parse(time.RFC3339, req.Requested)
		}
		requests = append(requests, model.OrganRequest{
			ID:        req.ID,
			OrganType: organType,
			Requested: requested,
			Priority:  req.Priority,
			Status:    model.OrganRequestStatus(req.Status),
		})
	}
	return model.Recipient{
		ID:           r.ID,
		DateOfBirth:  dob,
		BloodType:    r.BloodType,
		HlaType:      r.HlaType,
		UrgencyScore: r.UrgencyScore,
		WaitingSince: waitingSince,
		Status:       model.RecipientStatus(r.Status),
		Requests:     requests,
	}
}

// organRequest mirrors the POST /organs payload. Expiry is derived from the
// organ type's preservation window, never supplied by the caller.
type organRequest struct {
	ID        string `json:"id,omitempty"`
	DonorID   string `json:"donor_id"`
	OrganType string `json:"organ_type"`
	BloodType string `json:"blood_type"`
	HlaType   string `json:"hla_type"`
	Harvested string `json:"harvested,omitempty"`
}

func (o organRequest) validate() error {
	if strings.TrimSpace(o.DonorID) == "" {
		return errors.New("missing donor_id")
	}
	if strings.TrimSpace(o.BloodType) == "" {
		return errors.New("missing blood_type")
	}
	if _, err := model.ParseOrganType(o.OrganType); err != nil {
		return err
	}
	if o.Harvested != "" {
		if _, err := time.Parse(time.RFC3339, o.Harvested); err != nil {
			return errors.New("invalid harvested; must be RFC3339")
		}
	}
	return nil
}

func (o organRequest) toModel(now time.Time) model.Organ {
	organType, _ := model.ParseOrganType(o.OrganType)
	harvested := now
	if o.Harvested != "" {
		harvested, _ = time.Parse(time.RFC3339, o.Harvested)
	}
	return model.NewOrgan(o.ID, o.DonorID, organType, o.BloodType, o.HlaType, harvested)
}

// Response shapes.

type donorResponse struct {
	ID          string `json:"id"`
	DateOfBirth string `json:"date_of_birth"`
	BloodType   string `json:"blood_type"`
	HlaType     string `json:"hla_type"`
	Status      string `json:"status"`
}

func toDonorResponse(d model.Donor) donorResponse {
	return donorResponse{
		ID:          d.ID,
		DateOfBirth: d.DateOfBirth.Format(dateLayout),
		BloodType:   d.BloodType,
		HlaType:     d.HlaType,
		Status:      string(d.Status),
	}
}

type organRequestResponse struct {
	ID        string    `json:"id"`
	OrganType string    `json:"organ_type"`
	Requested time.Time `json:"requested"`
	Priority  int       `json:"priority"`
	Status    string    `json:"status"`
}

type recipientResponse struct {
	ID            string                 `json:"id"`
	DateOfBirth   string                 `json:"date_of_birth"`
	BloodType     string                 `json:"blood_type"`
	HlaType       string                 `json:"hla_type"`
	UrgencyScore  int                    `json:"urgency_score"`
	WaitingSince  time.Time              `json:"waiting_since"`
	Status        string                 `json:"status"`
	OrganRequests []organRequestResponse `json:"organ_requests"`
}

func toRecipientResponse(r model.Recipient) recipientResponse {
	requests := make([]organRequestResponse, 0, len(r.Requests))
	for _, req := range r.Requests {
		requests = append(requests, organRequestResponse{
			ID:        req.ID,
			OrganType: string(req.OrganType),
			Requested: req.Requested,
			Priority:  req.Priority,
			Status:    string(req.Status),
		})
	}
	return recipientResponse{
		ID:            r.ID,
		DateOfBirth:   r.DateOfBirth.Format(dateLayout),
		BloodType:     r.BloodType,
		HlaType:       r.HlaType,
		UrgencyScore:  r.UrgencyScore,
		WaitingSince:  r.WaitingSince,
		Status:        string(r.Status),
		OrganRequests: requests,
	}
}

type organResponse struct {
	ID        string    `json:"id"`
	DonorID   string    `json:"donor_id"`
	OrganType string    `json:"organ_type"`
	BloodType string    `json:"blood_type"`
	HlaType   string    `json:"hla_type"`
	Harvested time.Time `json:"harvested"`
	Expiry    time.Time `json:"expiry"`
	Status    string    `json:"status"`
}

func toOrganResponse(o model.Organ) organResponse {
	return organResponse{
		ID:        o.ID,
		DonorID:   o.DonorID,
		OrganType: string(o.Type),
		BloodType: o.BloodType,
		HlaType:   o.HlaType,
		Harvested: o.Harvested,
		Expiry:    o.Expiry,
		Status:    string(o.Status),
	}
}

type matchFactorResponse struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

type matchResponse struct {
	ID                 string                `json:"id"`
	OrganID            string                `json:"organ_id"`
	DonorID            string                `json:"donor_id"`
	RecipientID        string                `json:"recipient_id"`
	CompatibilityScore float64               `json:"compatibility_score"`
	RankingScore       float64               `json:"ranking_score"`
	Status             string                `json:"status"`
	AlgorithmVersion   string                `json:"algorithm_version"`
	MatchedAt          time.Time             `json:"matched_at"`
	Factors            []matchFactorResponse `json:"factors"`
}

func toMatchResponse(m model.Match) matchResponse {
	factors := make([]matchFactorResponse, 0, len(m.Factors))
	for _, f := range m.Factors {
		factors = append(factors, matchFactorResponse{
			Name:        f.Name,
			Weight:      f.Weight,
			Score:       f.Score,
			Description: f.Description,
		})
	}
	return matchResponse{
		ID:                 m.ID,
		OrganID:            m.OrganID,
		DonorID:            m.DonorID,
		RecipientID:        m.RecipientID,
		CompatibilityScore: m.CompatibilityScore,
		RankingScore:       m.RankingScore,
		Status:             string(m.Status),
		AlgorithmVersion:   m.AlgorithmVersion,
		MatchedAt:          m.MatchedAt,
		Factors:            factors,
	}
}

type runAccepted struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}
