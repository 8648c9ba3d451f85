// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lifebridge/lifebridge/internal/adapters/repository"
	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RegisterDonor(ctx context.Context, d model.Donor) (model.Donor, error)
	RegisterRecipient(ctx context.Context, r model.Recipient) (model.Recipient, error)
	RegisterOrgan(ctx context.Context, o model.Organ) (model.Organ, error)

	Donors(ctx context.Context) []model.Donor
	Recipients(ctx context.Context) []model.Recipient
	Organs(ctx context.Context) []model.Organ

	RequestMatchRun(ctx context.Context, organID string) (requestID string, duplicate bool, err error)
	MatchesForOrgan(ctx context.Context, organID string) ([]model.Match, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	donorsHandler     *DonorsHandler
	recipientsHandler *RecipientsHandler
	organsHandler     *OrgansHandler
	matchesHandler    *MatchesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		donorsHandler:     NewDonorsHandler(deps),
		recipientsHandler: NewRecipientsHandler(deps),
		organsHandler:     NewOrgansHandler(deps),
		matchesHandler:    NewMatchesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	_ = ctx
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/donors", MetricsMiddleware(s.donorsHandler.HandleDonors, "donors"))
	mux.HandleFunc("/recipients", MetricsMiddleware(s.recipientsHandler.HandleRecipients, "recipients"))
	mux.HandleFunc("/organs", MetricsMiddleware(s.organsHandler.HandleOrgans, "organs"))
	// /organs/{id}/matches
	mux.HandleFunc("/organs/", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
