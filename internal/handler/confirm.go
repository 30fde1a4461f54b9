package handler

import (
	"context"
	"net/http"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/origin"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/confirmation"
)

type confirmationService interface {
	Confirm(ctx context.Context, req confirmation.Request) (*confirmation.Result, error)
	IsOffice(remoteAddr, clientIP, method string) bool
	Diagnostics(ctx context.Context) confirmation.Diagnostics
}

type ConfirmHandler struct {
	confirmations confirmationService
}

func NewConfirmHandler(confirmations confirmationService) *ConfirmHandler {
	return &ConfirmHandler{confirmations: confirmations}
}

// maxNotificationBytes bounds the urlc form body.
const maxNotificationBytes = 64 << 10

// Confirm receives the processor's urlc notification. The processor only
// reads the plain-text body, so every outcome answers 200.
func (h *ConfirmHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())
	remote := origin.RemoteHost(r.RemoteAddr)
	clientIP := origin.ClientIP(r)

	if h.confirmations.IsOffice(remote, clientIP, r.Method) {
		log.Info("diagnostics requested", "remote_addr", remote)
		RespondText(w, http.StatusOK, h.confirmations.Diagnostics(r.Context()).String())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxNotificationBytes)
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse notification form", "error", err)
	}

	res, err := h.confirmations.Confirm(r.Context(), confirmation.Request{
		RemoteAddr:   remote,
		ClientIP:     clientIP,
		Method:       r.Method,
		Notification: domain.NotificationFromValues(r.PostForm),
	})
	if err != nil {
		RespondText(w, http.StatusOK, confirmation.Diagnostic(err))
		return
	}
	if !res.Acknowledged {
		RespondText(w, http.StatusOK, confirmation.DiagnosticHook)
		return
	}
	RespondText(w, http.StatusOK, confirmation.DiagnosticOK)
}
