// Package matching implements the organ-recipient compatibility scoring and
// ranking engine.
//
// A scoring run is a pure, synchronous computation over an in-memory
// snapshot: the engine holds no mutable state and may be used concurrently
// for different organs. One call to FindMatches observes a single "now" so
// results are reproducible within the run.
package matching

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// MinCompatibility is the admission threshold: candidates scoring below it
// produce no Match at all.
const MinCompatibility = 50

// AlgorithmVersion is stamped on every emitted match.
const AlgorithmVersion = "1.0"

// DonorResolver looks up the donor behind an organ. A donor that cannot be
// resolved is not an error; the age factor is simply omitted from scoring.
type DonorResolver interface {
	DonorByID(ctx context.Context, id string) (model.Donor, bool)
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the factor weights. Validation happens per scoring run.
func WithWeights(w Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// WithDonorResolver sets the donor lookup used for the age factor.
func WithDonorResolver(r DonorResolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.donors = r
		}
	}
}

// WithClock overrides the evaluation-time source.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithIDGenerator overrides match ID minting.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Engine scores candidates against an organ and assembles the ordered match
// list.
type Engine struct {
	weights Weights
	donors  DonorResolver
	clock   func() time.Time
	newID   func() string
}

// noDonors is the fallback resolver: every donor is unresolvable.
type noDonors struct{}

func (noDonors) DonorByID(context.Context, string) (model.Donor, bool) {
	return model.Donor{}, false
}

// NewEngine creates an Engine with default weights and clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights: DefaultWeights(),
		donors:  noDonors{},
		clock:   time.Now,
		newID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Weights returns the engine's configured weights.
func (e *Engine) Weights() Weights {
	return e.weights
}

// EligibleCandidates filters the pool down to recipients who are waiting and
// hold an open request for the organ's type. An empty result is a legitimate
// outcome, not an error.
func (e *Engine) EligibleCandidates(organ model.Organ, pool []model.Recipient) []model.Recipient {
	candidates := make([]model.Recipient, 0, len(pool))
	for _, r := range pool {
		if r.Status != model.RecipientWaiting {
			continue
		}
		for _, req := range r.Requests {
			if req.OrganType == organ.Type && req.Status == model.RequestWaiting {
				candidates = append(candidates, r)
				break
			}
		}
	}
	return candidates
}

// FindMatches runs the full pipeline for one organ: filter the pool, score
// each candidate, discard those below the admission threshold, and return
// matches ordered by ranking score descending. Ties break on recipient ID
// ascending so output never depends on incidental pool order.
func (e *Engine) FindMatches(ctx context.Context, organ model.Organ, pool []model.Recipient) ([]model.Match, error) {
	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	// One snapshot of evaluation time for the whole run.
	now := e.clock()

	donor, hasDonor := e.donors.DonorByID(ctx, organ.DonorID)

	matches := make([]model.Match, 0, len(pool))
	for _, r := range e.EligibleCandidates(organ, pool) {
		compatibility := e.compatibility(organ, r, donor, hasDonor, now)
		if compatibility < MinCompatibility {
			continue
		}
		ranking := e.ranking(compatibility, r, now)

		matches = append(matches, model.Match{
			ID:                 e.newID(),
			OrganID:            organ.ID,
			DonorID:            organ.DonorID,
			RecipientID:        r.ID,
			CompatibilityScore: compatibility,
			RankingScore:       ranking,
			Factors:            e.factors(organ, r, donor, hasDonor, now),
			Status:             model.MatchPending,
			AlgorithmVersion:   AlgorithmVersion,
			MatchedAt:          now,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].RankingScore != matches[j].RankingScore {
			return matches[i].RankingScore > matches[j].RankingScore
		}
		return matches[i].RecipientID < matches[j].RecipientID
	})

	return matches, nil
}

// CompatibilityScore computes the first-stage 0-100 score for one candidate.
func (e *Engine) CompatibilityScore(ctx context.Context, organ model.Organ, r model.Recipient) (float64, error) {
	if err := e.weights.Validate(); err != nil {
		return 0, err
	}
	donor, hasDonor := e.donors.DonorByID(ctx, organ.DonorID)
	return e.compatibility(organ, r, donor, hasDonor, e.clock()), nil
}

// RankingScore blends an already-computed compatibility score with urgency
// and waiting time into the second-stage 0-100 score.
func (e *Engine) RankingScore(compatibility float64, r model.Recipient, now time.Time) (float64, error) {
	if err := e.weights.Validate(); err != nil {
		return 0, err
	}
	return e.ranking(compatibility, r, now), nil
}

// Factors produces the itemized per-factor breakdown for one candidate.
// Raw sub-scores match the ones used by the scoring stages bit-for-bit.
func (e *Engine) Factors(ctx context.Context, organ model.Organ, r model.Recipient, now time.Time) []model.MatchFactor {
	donor, hasDonor := e.donors.DonorByID(ctx, organ.DonorID)
	return e.factors(organ, r, donor, hasDonor, now)
}

// clamp bounds a composite score to [0,100]. Inputs are bounded so this only
// guards against accumulated float drift.
func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
