// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lifebridge/lifebridge/internal/domain/model"
)

// DonorDependencies defines the interface for donor registry operations.
type DonorDependencies interface {
	RegisterDonor(ctx context.Context, d model.Donor) (model.Donor, error)
	Donors(ctx context.Context) []model.Donor
}

// DonorsHandler handles donor registry requests.
type DonorsHandler struct {
	deps DonorDependencies
}

// NewDonorsHandler creates a new donors handler.
func NewDonorsHandler(deps DonorDependencies) *DonorsHandler {
	return &DonorsHandler{deps: deps}
}

// HandleDonors handles POST and GET /donors requests.
func (h *DonorsHandler) HandleDonors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *DonorsHandler) register(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_donor"
	var req donorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	donor, err := h.deps.RegisterDonor(r.Context(), req.toModel())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toDonorResponse(donor))
}

func (h *DonorsHandler) list(w http.ResponseWriter, r *http.Request) {
	donors := h.deps.Donors(r.Context())
	out := make([]donorResponse, 0, len(donors))
	for _, d := range donors {
		out = append(out, toDonorResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}
