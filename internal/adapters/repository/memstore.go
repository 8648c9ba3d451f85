package repository

import (
	"context"
	"sync"

	"github.com/lifebridge/lifebridge/internal/domain/model"
	"github.com/lifebridge/lifebridge/pkg/metrics"
)

// defaultInitialCapacity sizes the internal maps for a modest registry.
const defaultInitialCapacity = 1024

// MemoryStore implements Registry with plain maps behind one RWMutex.
// Pool sizes are hundreds to low thousands, so a single lock is plenty and
// keeps snapshot semantics trivial.
type MemoryStore struct {
	mu              sync.RWMutex
	initialCapacity int

	donors     map[string]model.Donor
	recipients map[string]model.Recipient
	organs     map[string]model.Organ
	matches    map[string][]model.Match // organ id -> latest completed run
	matchCount int
}

// NewMemoryStore creates an empty registry.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		initialCapacity: defaultInitialCapacity,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.donors = make(map[string]model.Donor, s.initialCapacity)
	s.recipients = make(map[string]model.Recipient, s.initialCapacity)
	s.organs = make(map[string]model.Organ, s.initialCapacity)
	s.matches = make(map[string][]model.Match)

	return s
}

// PutDonor inserts or replaces a donor record.
func (s *MemoryStore) PutDonor(_ context.Context, d model.Donor) error {
	if d.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	s.donors[d.ID] = d
	s.mu.Unlock()
	s.publishSizes()
	return nil
}

// PutRecipient inserts or replaces a recipient record. The request slice is
// copied on the way in so later caller mutations never leak into snapshots.
func (s *MemoryStore) PutRecipient(_ context.Context, r model.Recipient) error {
	if r.ID == "" {
		return ErrMissingID
	}
	r.Requests = append([]model.OrganRequest(nil), r.Requests...)
	s.mu.Lock()
	s.recipients[r.ID] = r
	s.mu.Unlock()
	s.publishSizes()
	return nil
}

// PutOrgan inserts or replaces an organ record.
func (s *MemoryStore) PutOrgan(_ context.Context, o model.Organ) error {
	if o.ID == "" {
		return ErrMissingID
	}
	s.mu.Lock()
	s.organs[o.ID] = o
	s.mu.Unlock()
	s.publishSizes()
	return nil
}

// DonorByID returns the donor with the given id.
func (s *MemoryStore) DonorByID(_ context.Context, id string) (model.Donor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donors[id]
	if !ok {
		return model.Donor{}, ErrNotFound
	}
	return d, nil
}

// OrganByID returns the organ with the given id.
func (s *MemoryStore) OrganByID(_ context.Context, id string) (model.Organ, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.organs[id]
	if !ok {
		return model.Organ{}, ErrNotFound
	}
	return o, nil
}

// RecipientByID returns the recipient with the given id.
func (s *MemoryStore) RecipientByID(_ context.Context, id string) (model.Recipient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipients[id]
	if !ok {
		return model.Recipient{}, ErrNotFound
	}
	return copyRecipient(r), nil
}

// Donors returns a snapshot of all donors.
func (s *MemoryStore) Donors(_ context.Context) []model.Donor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Donor, 0, len(s.donors))
	for _, d := range s.donors {
		out = append(out, d)
	}
	return out
}

// Recipients returns a snapshot of all recipients.
func (s *MemoryStore) Recipients(_ context.Context) []model.Recipient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Recipient, 0, len(s.recipients))
	for _, r := range s.recipients {
		out = append(out, copyRecipient(r))
	}
	return out
}

// Organs returns a snapshot of all organs.
func (s *MemoryStore) Organs(_ context.Context) []model.Organ {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Organ, 0, len(s.organs))
	for _, o := range s.organs {
		out = append(out, o)
	}
	return out
}

// StoreMatches replaces the stored match list for an organ.
func (s *MemoryStore) StoreMatches(_ context.Context, organID string, matches []model.Match) error {
	if organID == "" {
		return ErrMissingID
	}
	stored := make([]model.Match, len(matches))
	for i, m := range matches {
		stored[i] = copyMatch(m)
	}
	s.mu.Lock()
	s.matchCount += len(stored) - len(s.matches[organID])
	s.matches[organID] = stored
	s.mu.Unlock()
	s.publishSizes()
	return nil
}

// MatchesForOrgan returns the ordered match list from the last completed
// run. An organ without a completed run yields an empty list.
func (s *MemoryStore) MatchesForOrgan(_ context.Context, organID string) []model.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.matches[organID]
	out := make([]model.Match, len(stored))
	for i, m := range stored {
		out[i] = copyMatch(m)
	}
	return out
}

// Counts returns registry sizes.
func (s *MemoryStore) Counts(_ context.Context) (donors, recipients, organs, matches int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donors), len(s.recipients), len(s.organs), s.matchCount
}

// publishSizes refreshes the registry gauges.
func (s *MemoryStore) publishSizes() {
	s.mu.RLock()
	donors, recipients, organs, matchCount := len(s.donors), len(s.recipients), len(s.organs), s.matchCount
	s.mu.RUnlock()
	metrics.UpdateRegistrySizes(donors, recipients, organs, matchCount)
}

// copyRecipient deep-copies the nested request slice.
func copyRecipient(r model.Recipient) model.Recipient {
	r.Requests = append([]model.OrganRequest(nil), r.Requests...)
	return r
}

// copyMatch deep-copies the nested factor slice.
func copyMatch(m model.Match) model.Match {
	m.Factors = append([]model.MatchFactor(nil), m.Factors...)
	return m
}
