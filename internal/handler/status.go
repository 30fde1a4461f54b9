package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/auth"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/status"
)

type statusService interface {
	Check(ctx context.Context, sessionID uuid.UUID) string
}

type StatusHandler struct {
	statuses statusService
}

func NewStatusHandler(statuses statusService) *StatusHandler {
	return &StatusHandler{statuses: statuses}
}

// Status answers the return page's poll with a single token.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	sessionID, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		RespondText(w, http.StatusOK, status.TokenError)
		return
	}
	RespondText(w, http.StatusOK, h.statuses.Check(r.Context(), sessionID))
}
