package confirmation

import (
	"errors"
	"fmt"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

// OriginError carries both addresses seen for a rejected request.
type OriginError struct {
	ClientIP   string
	RemoteAddr string
}

func (e *OriginError) Error() string {
	return fmt.Sprintf("%s: client %s, remote %s", domain.ErrOriginRejected, e.ClientIP, e.RemoteAddr)
}

func (e *OriginError) Unwrap() error { return domain.ErrOriginRejected }

// SellerIDError carries the configured seller id reported back to the caller.
type SellerIDError struct {
	Expected string
	Got      string
}

func (e *SellerIDError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", domain.ErrSellerIDMismatch, e.Expected, e.Got)
}

func (e *SellerIDError) Unwrap() error { return domain.ErrSellerIDMismatch }

const (
	DiagnosticOK   = "OK"
	DiagnosticHook = "FAIL HOOK"
)

// Diagnostic renders err as the plain-text token the processor receives.
func Diagnostic(err error) string {
	if err == nil {
		return DiagnosticOK
	}

	var originErr *OriginError
	var sellerErr *SellerIDError
	var mismatch *domain.MismatchError
	switch {
	case errors.As(err, &originErr):
		return fmt.Sprintf("ERROR (REMOTE ADDRESS: %s/%s)", originErr.ClientIP, originErr.RemoteAddr)
	case errors.Is(err, domain.ErrTransportRejected):
		return "ERROR (METHOD <> POST)"
	case errors.Is(err, domain.ErrSignatureInvalid):
		return "ERROR SIGN"
	case errors.As(err, &sellerErr):
		return "ERROR ID: " + sellerErr.Expected
	case errors.Is(err, domain.ErrMalformedReference):
		return "FAIL ORDER: malformed reference"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "FAIL ORDER: not exist"
	case errors.As(err, &mismatch) && errors.Is(err, domain.ErrCurrencyMismatch):
		return fmt.Sprintf("FAIL CURRENCY (org: %s <> notification: %s)", mismatch.Order, mismatch.Notification)
	case errors.As(err, &mismatch) && errors.Is(err, domain.ErrAmountMismatch):
		return fmt.Sprintf("FAIL AMOUNT (org: %s <> notification: %s)", mismatch.Order, mismatch.Notification)
	default:
		return "ERROR"
	}
}

// reason is the metrics label for a refused confirmation.
func reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrOriginRejected):
		return "origin"
	case errors.Is(err, domain.ErrTransportRejected):
		return "method"
	case errors.Is(err, domain.ErrSignatureInvalid):
		return "signature"
	case errors.Is(err, domain.ErrSellerIDMismatch):
		return "seller_id"
	case errors.Is(err, domain.ErrMalformedReference):
		return "reference"
	case errors.Is(err, domain.ErrOrderNotFound):
		return "order"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency"
	case errors.Is(err, domain.ErrAmountMismatch):
		return "amount"
	default:
		return "internal"
	}
}
