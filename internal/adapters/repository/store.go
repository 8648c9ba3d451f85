// Package repository defines the transplant registry interface and errors.
package repository

import (
	"context"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// Registry provides read/write access to the in-memory transplant registry.
// Read methods return deep copies so a match run operates on an immutable
// snapshot regardless of concurrent edits.
type Registry interface {
	// PutDonor inserts or replaces a donor record.
	PutDonor(ctx context.Context, d model.Donor) error
	// PutRecipient inserts or replaces a recipient record.
	PutRecipient(ctx context.Context, r model.Recipient) error
	// PutOrgan inserts or replaces an organ record.
	PutOrgan(ctx context.Context, o model.Organ) error

	// DonorByID returns the donor with the given id.
	// Returns ErrNotFound if the donor is unknown.
	DonorByID(ctx context.Context, id string) (model.Donor, error)
	// OrganByID returns the organ with the given id.
	// Returns ErrNotFound if the organ is unknown.
	OrganByID(ctx context.Context, id string) (model.Organ, error)
	// RecipientByID returns the recipient with the given id.
	// Returns ErrNotFound if the recipient is unknown.
	RecipientByID(ctx context.Context, id string) (model.Recipient, error)

	// Donors returns a snapshot of all donors.
	Donors(ctx context.Context) []model.Donor
	// Recipients returns a snapshot of all recipients, organ requests
	// included.
	Recipients(ctx context.Context) []model.Recipient
	// Organs returns a snapshot of all organs.
	Organs(ctx context.Context) []model.Organ

	// StoreMatches replaces the stored match list for an organ with the
	// result of the latest completed run.
	StoreMatches(ctx context.Context, organID string, matches []model.Match) error
	// MatchesForOrgan returns the ordered match list from the last completed
	// run, or an empty list if no run has completed for the organ.
	MatchesForOrgan(ctx context.Context, organID string) []model.Match

	// Counts returns registry sizes: donors, recipients, organs, and total
	// stored matches.
	Counts(ctx context.Context) (donors, recipients, organs, matches int)
}
