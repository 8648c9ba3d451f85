// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	runqueue "github.com/lifebridge/lifebridge/internal/adapters/mq/queue"
	workerpool "github.com/lifebridge/lifebridge/internal/adapters/mq/worker"
	"github.com/lifebridge/lifebridge/internal/adapters/repository"
	"github.com/lifebridge/lifebridge/internal/domain/dedupe"
	"github.com/lifebridge/lifebridge/internal/domain/matching"
	"github.com/lifebridge/lifebridge/internal/domain/model"
	"github.com/lifebridge/lifebridge/pkg/logger"
	"github.com/lifebridge/lifebridge/pkg/metrics"
)

// registryResolver adapts the registry to the engine's DonorResolver.
type registryResolver struct {
	registry repository.Registry
}

func (r *registryResolver) DonorByID(ctx context.Context, id string) (model.Donor, bool) {
	d, err := r.registry.DonorByID(ctx, id)
	if err != nil {
		return model.Donor{}, false
	}
	return d, true
}

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry repository.Registry
	engine   *matching.Engine
	guard    dedupe.Deduper
	runQueue runqueue.Queue
	workers  *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	weights     matching.Weights
	clock       func() time.Time

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of match-run workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the match-run queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the bound of the in-flight run guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithWeights sets the matching weights for scoring runs.
func WithWeights(w matching.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithClock overrides the evaluation-time source for scoring runs.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  50_000,
		weights:     matching.DefaultWeights(),
		clock:       time.Now,
		stopCh:      make(chan struct{}),
		logger:      nil, // resolved on Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	// A bad weight configuration fails startup, never a single run later.
	if err := s.weights.Validate(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting matching service...")

	s.registry = repository.NewMemoryStore()
	s.guard = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.runQueue = runqueue.NewInMemoryQueue(
		runqueue.WithCapacity(s.queueSize),
	)
	s.engine = matching.NewEngine(
		matching.WithWeights(s.weights),
		matching.WithDonorResolver(&registryResolver{registry: s.registry}),
		matching.WithClock(s.clock),
	)

	s.workers = workerpool.NewPool(s.workerCount, s.runQueue, s)
	s.workers.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.workers != nil {
		_ = s.workers.Shutdown(ctx, s.runQueue)
	}

	select {
	case <-s.stopCh:
		// Channel already closed.
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// RegisterDonor stores a donor, minting an ID and defaulting the status when
// absent.
func (s *Service) RegisterDonor(ctx context.Context, d model.Donor) (model.Donor, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = model.DonorAvailable
	}
	if err := s.registry.PutDonor(ctx, d); err != nil {
		return model.Donor{}, fmt.Errorf("register donor: %w", err)
	}
	return d, nil
}

// RegisterRecipient stores a recipient, minting IDs and defaulting statuses
// for the record and its organ requests.
func (s *Service) RegisterRecipient(ctx context.Context, r model.Recipient) (model.Recipient, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = model.RecipientWaiting
	}
	for i := range r.Requests {
		if r.Requests[i].ID == "" {
			r.Requests[i].ID = uuid.NewString()
		}
		if r.Requests[i].Status == "" {
			r.Requests[i].Status = model.RequestWaiting
		}
	}
	if err := s.registry.PutRecipient(ctx, r); err != nil {
		return model.Recipient{}, fmt.Errorf("register recipient: %w", err)
	}
	return r, nil
}

// RegisterOrgan stores an organ, minting an ID when absent. The organ is
// expected to come from model.NewOrgan so its expiry is already derived.
func (s *Service) RegisterOrgan(ctx context.Context, o model.Organ) (model.Organ, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = model.OrganAvailable
	}
	if err := s.registry.PutOrgan(ctx, o); err != nil {
		return model.Organ{}, fmt.Errorf("register organ: %w", err)
	}
	return o, nil
}

// Donors returns a snapshot of all donors.
func (s *Service) Donors(ctx context.Context) []model.Donor {
	return s.registry.Donors(ctx)
}

// Recipients returns a snapshot of all recipients.
func (s *Service) Recipients(ctx context.Context) []model.Recipient {
	return s.registry.Recipients(ctx)
}

// Organs returns a snapshot of all organs.
func (s *Service) Organs(ctx context.Context) []model.Organ {
	return s.registry.Organs(ctx)
}

// RequestMatchRun submits an asynchronous match run for an organ.
// Returns the request ID, whether a run for the organ was already in flight,
// and an error for unknown organs or queue backpressure.
func (s *Service) RequestMatchRun(ctx context.Context, organID string) (requestID string, duplicate bool, err error) {
	if _, err := s.registry.OrganByID(ctx, organID); err != nil {
		return "", false, fmt.Errorf("match run for organ %s: %w", organID, err)
	}

	if s.guard.SeenAndRecord(ctx, organID) {
		metrics.RecordDuplicateRunRequest()
		return "", true, nil
	}

	req := model.MatchRequest{
		RequestID:   uuid.NewString(),
		OrganID:     organID,
		RequestedAt: s.clock(),
	}
	if ok := s.runQueue.Enqueue(ctx, req); !ok {
		// Release the guard so the caller may retry.
		s.guard.Unrecord(ctx, organID)
		return "", false, fmt.Errorf("match run for organ %s: %w", organID, ErrBackpressure)
	}

	s.logger.Debug(ctx, "match run enqueued",
		logger.String("requestID", req.RequestID),
		logger.String("organID", organID),
	)
	return req.RequestID, false, nil
}

// MatchesForOrgan returns the ordered match list from the organ's last
// completed run.
func (s *Service) MatchesForOrgan(ctx context.Context, organID string) ([]model.Match, error) {
	if _, err := s.registry.OrganByID(ctx, organID); err != nil {
		return nil, fmt.Errorf("matches for organ %s: %w", organID, err)
	}
	return s.registry.MatchesForOrgan(ctx, organID), nil
}

// RunMatch executes one match run. Called by the worker pool; the in-flight
// guard is released whatever the outcome.
func (s *Service) RunMatch(ctx context.Context, req model.MatchRequest) (int, error) {
	defer s.guard.Unrecord(ctx, req.OrganID)

	start := time.Now()

	organ, err := s.registry.OrganByID(ctx, req.OrganID)
	if err != nil {
		metrics.RecordMatchingError()
		return 0, fmt.Errorf("run %s: %w", req.RequestID, err)
	}

	pool := s.registry.Recipients(ctx)
	eligible := len(s.engine.EligibleCandidates(organ, pool))

	matches, err := s.engine.FindMatches(ctx, organ, pool)
	if err != nil {
		metrics.RecordMatchingError()
		return 0, fmt.Errorf("run %s: %w", req.RequestID, err)
	}

	if err := s.registry.StoreMatches(ctx, organ.ID, matches); err != nil {
		metrics.RecordMatchingError()
		return 0, fmt.Errorf("run %s: %w", req.RequestID, err)
	}

	metrics.RecordMatchRun(float64(time.Since(start).Milliseconds()))
	metrics.RecordCandidatesEvaluated(eligible)
	metrics.RecordMatchesProduced(len(matches))
	metrics.RecordCandidatesBelowThreshold(eligible - len(matches))
	for _, m := range matches {
		metrics.ObserveCompatibilityScore(m.CompatibilityScore)
		metrics.ObserveRankingScore(m.RankingScore)
	}

	s.logger.Info(ctx, "match run completed",
		logger.String("organID", organ.ID),
		logger.Int("candidates", eligible),
		logger.Int("matches", len(matches)),
	)

	return len(matches), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		ctx := context.Background()
		donors, recipients, organs, matches := s.registry.Counts(ctx)
		stats["queueLength"] = s.runQueue.Len(ctx)
		stats["inFlightRuns"] = s.guard.Size()
		stats["donors"] = donors
		stats["recipients"] = recipients
		stats["organs"] = organs
		stats["matches"] = matches
	}

	return stats
}
