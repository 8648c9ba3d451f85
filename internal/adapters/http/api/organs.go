// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// OrganDependencies defines the interface for organ registry operations.
type OrganDependencies interface {
	RegisterOrgan(ctx context.Context, o model.Organ) (model.Organ, error)
	Organs(ctx context.Context) []model.Organ
}

// OrgansHandler handles harvested-organ registry requests.
type OrgansHandler struct {
	deps OrganDependencies
}

// NewOrgansHandler creates a new organs handler.
func NewOrgansHandler(deps OrganDependencies) *OrgansHandler {
	return &OrgansHandler{deps: deps}
}

// HandleOrgans handles POST and GET /organs requests.
func (h *OrgansHandler) HandleOrgans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *OrgansHandler) register(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_organ"
	var req organRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	organ, err := h.deps.RegisterOrgan(r.Context(), req.toModel(time.Now()))
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", fmt.Errorf("%s: %w", op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toOrganResponse(organ))
}

func (h *OrgansHandler) list(w http.ResponseWriter, r *http.Request) {
	organs := h.deps.Organs(r.Context())
	out := make([]organResponse, 0, len(organs))
	for _, o := range organs {
		out = append(out, toOrganResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}
