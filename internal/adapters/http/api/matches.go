// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	service "github.com/lifebridge/lifebridge/internal/app"
	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// MatchDependencies defines the interface for match-run operations.
type MatchDependencies interface {
	RequestMatchRun(ctx context.Context, organID string) (requestID string, duplicate bool, err error)
	MatchesForOrgan(ctx context.Context, organID string) ([]model.Match, error)
}

// MatchesHandler handles match-run requests scoped to one organ.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleMatches handles POST and GET /organs/{id}/matches requests.
func (h *MatchesHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	organID, ok := matchesPathOrganID(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPost:
		h.requestRun(w, r, organID)
	case http.MethodGet:
		h.list(w, r, organID)
	default:
		http.NotFound(w, r)
	}
}

func (h *MatchesHandler) requestRun(w http.ResponseWriter, r *http.Request, organID string) {
	const op = "api.request_match_run"
	requestID, duplicate, err := h.deps.RequestMatchRun(r.Context(), organID)
	if err != nil {
		switch {
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, err))
		case errors.Is(err, service.ErrBackpressure):
			writeError(w, http.StatusTooManyRequests, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		}
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, runAccepted{Status: "duplicate", Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, runAccepted{Status: "accepted", RequestID: requestID})
}

func (h *MatchesHandler) list(w http.ResponseWriter, r *http.Request, organID string) {
	const op = "api.list_matches"
	matches, err := h.deps.MatchesForOrgan(r.Context(), organID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	out := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		out = append(out, toMatchResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// matchesPathOrganID extracts the organ id from /organs/{id}/matches.
func matchesPathOrganID(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/organs/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/matches")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
