package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingSession   = &AppError{http.StatusUnauthorized, "MISSING_SESSION", "Checkout session required"}
	ErrSessionExpired   = &AppError{http.StatusNotFound, "SESSION_EXPIRED", "Checkout session has no order"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrOrderNotPayable = &AppError{http.StatusUnprocessableEntity, "ORDER_NOT_PAYABLE", "Order cannot be paid"}
	ErrUnknownGateway  = &AppError{http.StatusBadRequest, "UNKNOWN_GATEWAY", "Unknown payment gateway"}
)
