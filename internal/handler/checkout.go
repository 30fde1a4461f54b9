package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/dotpay-gateway/internal/auth"
	"github.com/josh-kwaku/dotpay-gateway/internal/logging"
	"github.com/josh-kwaku/dotpay-gateway/internal/service/checkout"
)

type checkoutService interface {
	Start(ctx context.Context, sessionID uuid.UUID, req checkout.StartRequest) (*checkout.StartResult, error)
	Form(ctx context.Context, sessionID uuid.UUID, gateway checkout.Gateway) (*checkout.Form, error)
}

type CheckoutHandler struct {
	checkouts checkoutService
}

func NewCheckoutHandler(checkouts checkoutService) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts}
}

type startCheckoutRequest struct {
	OrderID     int64  `json:"order_id"`
	Email       string `json:"email"`
	Channel     int    `json:"channel"`
	ProductName string `json:"product_name"`
}

func (r startCheckoutRequest) Validate() []FieldError {
	var errs []FieldError

	if r.OrderID <= 0 {
		errs = append(errs, FieldError{Field: "order_id", Message: "must be greater than 0"})
	}
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "is required"})
	}
	if r.Channel < 0 {
		errs = append(errs, FieldError{Field: "channel", Message: "must not be negative"})
	}
	if len(r.ProductName) > 255 {
		errs = append(errs, FieldError{Field: "product_name", Message: "must be at most 255 characters"})
	}

	return errs
}

func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingSession, nil)
		return
	}

	var req startCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	res, err := h.checkouts.Start(r.Context(), sessionID, checkout.StartRequest{
		OrderID:     req.OrderID,
		Email:       req.Email,
		Channel:     req.Channel,
		ProductName: req.ProductName,
	})
	if err != nil {
		logging.FromContext(r.Context()).Warn("checkout start failed", "order_id", req.OrderID, "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, res)
}

func (h *CheckoutHandler) Form(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := auth.SessionIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingSession, nil)
		return
	}

	gateway, ok := checkout.ParseGateway(r.URL.Query().Get("gateway"))
	if !ok {
		RespondAppError(w, ErrUnknownGateway, nil)
		return
	}

	form, err := h.checkouts.Form(r.Context(), sessionID, gateway)
	if err != nil {
		logging.FromContext(r.Context()).Warn("payment form failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	RespondSuccess(w, http.StatusOK, form)
}
