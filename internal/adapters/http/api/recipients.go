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

// RecipientDependencies defines the interface for recipient registry operations.
type RecipientDependencies interface {
	RegisterRecipient(ctx context.Context, r model.Recipient) (model.Recipient, error)
	Recipients(ctx context.Context) []model.Recipient
}

// RecipientsHandler handles waiting-list recipient requests.
type RecipientsHandler struct {
	deps RecipientDependencies
}

// NewRecipientsHandler creates a new recipients handler.
func NewRecipientsHandler(deps RecipientDependencies) *RecipientsHandler {
	return &RecipientsHandler{deps: deps}
}

// HandleRecipients handles POST and GET /recipients requests.
func (h *RecipientsHandler) HandleRecipients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.register(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *RecipientsHandler) register(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_recipient"
	var req recipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	recipient, err := h.deps.RegisterRecipient(r.Context(), req.toModel(time.Now()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toRecipientResponse(recipient))
}

func (h *RecipientsHandler) list(w http.ResponseWriter, r *http.Request) {
	recipients := h.deps.Recipients(r.Context())
	out := make([]recipientResponse, 0, len(recipients))
	for _, rec := range recipients {
		out = append(out, toRecipientResponse(rec))
	}
	writeJSON(w, http.StatusOK, out)
}
